package descriptor

import (
	"fmt"
	"sync/atomic"

	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/spatial/r3"
)

// GridID identifies a grid of the design.
type GridID uint

// GridPosition is a helix slot of a grid.
type GridPosition struct {
	Grid  GridID  `json:"grid"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Axial int     `json:"axial_pos,omitempty"`
	Roll  float64 `json:"roll,omitempty"`
}

// Edge is a displacement between slots of a grid.
type Edge struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// BezierEnd is a vertex of a piecewise Bezier curve. The coefficients scale
// the tangents of the segments arriving at and leaving from the vertex.
type BezierEnd struct {
	Position     GridPosition `json:"position"`
	InwardCoeff  float64      `json:"inward_coeff"`
	OutwardCoeff float64      `json:"outward_coeff"`
}

// PathID identifies a Bezier path of the design.
type PathID uint

// Generation identifies a state of a mutable part of the design. A new state
// always gets a new generation.
type Generation uint64

var generations atomic.Uint64

// NextGeneration returns a generation never returned before.
func NextGeneration() Generation { return Generation(generations.Add(1)) }

// Path is a Bezier path that helices may follow at an offset.
type Path struct {
	Curve *dnacurve.PiecewiseBezier
	// Frame is the frame of the path at its origin. Nil if the path is too
	// short to have one.
	Frame *dnacurve.Frame
	// TimeMaps synchronizes the helices following the path. Member 0 is the
	// time map of the path itself.
	TimeMaps *dnacurve.AbscissaConverter
}

// NewPath computes the frame and time map of the path through vertices.
func NewPath(vertices []dnacurve.BezierVertex, cyclic bool) (Path, error) {
	pb := &dnacurve.PiecewiseBezier{Vertices: vertices, Cyclic: cyclic}
	p := Path{Curve: pb}
	if f, ok := pb.FrameAtOrigin(); ok {
		p.Frame = &f
	}
	if pb.Segments() == 0 {
		return p, nil
	}
	m, err := dnacurve.TimeMapOf(pb, pb.TMin(), pb.TMax(), 0)
	if err != nil {
		return Path{}, fmt.Errorf("time map of bezier path: %w", err)
	}
	p.TimeMaps = dnacurve.NewAbscissaConverter()
	p.TimeMaps.Add(0, m)
	return p, nil
}

// PathData is one state of the Bezier paths of a design.
type PathData struct {
	Generation Generation
	Paths      map[PathID]Path
}

// NewPathData returns paths tagged with a new generation.
func NewPathData(paths map[PathID]Path) *PathData {
	return &PathData{Generation: NextGeneration(), Paths: paths}
}

// Source resolves the parts of a design that descriptors refer to.
type Source interface {
	// GridPosition returns the position of a grid slot.
	GridPosition(p GridPosition) (r3.Vec, bool)
	// GridOrientation returns the rotation of a grid.
	GridOrientation(g GridID) (r3.Rotation, bool)
	// TangentsBetween returns the tangents at p0 and p1 of the Bezier
	// segment joining them, if the design prescribes them.
	TangentsBetween(p0, p1 GridPosition) (in, out r3.Vec, ok bool)
	// TranslateByEdge moves p along e.
	TranslateByEdge(p GridPosition, e Edge) (GridPosition, bool)
	// GridsGeneration identifies the current state of the grids.
	GridsGeneration() Generation
	// PathData returns the current Bezier paths, nil if there are none.
	PathData() *PathData
}
