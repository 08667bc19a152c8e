package descriptor

import (
	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/spatial/r3"
)

// Shared is a descriptor shared by the helices of a design. It must not be
// modified: editing a curve shares a new descriptor, which gets a new
// generation.
type Shared struct {
	desc Descriptor
	gen  Generation
}

// Share wraps d with a new generation.
func Share(d Descriptor) *Shared { return &Shared{desc: d, gen: NextGeneration()} }

// Descriptor returns the shared descriptor.
func (s *Shared) Descriptor() Descriptor { return s.desc }

// Generation returns the generation s was shared at.
func (s *Shared) Generation() Generation { return s.gen }

// Instantiated is a descriptor whose references to the design have been
// resolved. It records the generations it was resolved against.
type Instantiated struct {
	source *Shared
	// resolved is the curve of descriptors that depend on the design, nil
	// for the others which are built on demand for given helix parameters.
	resolved dnacurve.Curve
	grids    Generation
	paths    Generation
	hasPaths bool
}

// emptyPath is the curve of descriptors that could not be resolved.
func emptyPath() dnacurve.Curve { return &dnacurve.PiecewiseBezier{} }

// Instantiate resolves s against src. It never fails: references that
// cannot be resolved produce an empty curve and a warning. src may be nil
// for descriptors that do not depend on the design.
func Instantiate(s *Shared, src Source) *Instantiated {
	inst := &Instantiated{source: s}
	d := s.desc
	if !d.dependsOnDesign() {
		return inst
	}
	if src == nil {
		dnacurve.Logger().Warn("curve descriptor resolved without design", "kind", d.Kind())
		inst.resolved = emptyPath()
		return inst
	}
	inst.grids = src.GridsGeneration()
	if pd := src.PathData(); pd != nil {
		inst.paths, inst.hasPaths = pd.Generation, true
	}
	switch {
	case d.PiecewiseBezier != nil:
		inst.resolved = resolvePiecewise(*d.PiecewiseBezier, src)
	case d.TranslatedPath != nil:
		inst.resolved = resolveTranslated(*d.TranslatedPath, src.PathData())
	}
	return inst
}

// TryInstantiate instantiates descriptors that do not depend on the design.
// It returns false for the others.
func TryInstantiate(s *Shared) (*Instantiated, bool) {
	if s.desc.dependsOnDesign() {
		return nil, false
	}
	return &Instantiated{source: s}, true
}

func coeffOrOne(c float64) float64 {
	if c == 0 {
		return 1
	}
	return c
}

func resolvePiecewise(desc PiecewiseBezier, src Source) dnacurve.Curve {
	var (
		points  []r3.Vec
		ends    []BezierEnd
		inward  []float64
		outward []float64
	)
	for _, end := range desc.Points {
		p, ok := src.GridPosition(end.Position)
		if !ok {
			dnacurve.Logger().Warn("bezier end on unknown grid position", "grid", end.Position.Grid, "x", end.Position.X, "y", end.Position.Y)
			continue
		}
		points = append(points, p)
		ends = append(ends, end)
		inward = append(inward, coeffOrOne(end.InwardCoeff))
		outward = append(outward, coeffOrOne(end.OutwardCoeff))
	}
	vertices := dnacurve.BezierVertices(points, inward, outward, false)
	for i := 1; i < len(ends); i++ {
		leave, arrive, ok := src.TangentsBetween(ends[i-1].Position, ends[i].Position)
		if !ok {
			continue
		}
		vertices[i-1].VectorOut = r3.Scale(outward[i-1], leave)
		vertices[i].VectorIn = r3.Scale(inward[i], arrive)
	}
	pb := &dnacurve.PiecewiseBezier{Vertices: vertices, MinT: desc.TMin, MaxT: desc.TMax}
	if len(ends) == 0 {
		return pb
	}
	rot, ok := src.GridOrientation(ends[0].Position.Grid)
	if !ok {
		return pb
	}
	// Helices on a grid are phased relative to the grid.
	return &dnacurve.TranslatedPiecewiseBezier{Path: pb, Frame: dnacurve.IdentityFrame.Rotate(rot)}
}

func resolveTranslated(desc TranslatedPath, pd *PathData) dnacurve.Curve {
	var path Path
	ok := pd != nil
	if ok {
		path, ok = pd.Paths[desc.PathID]
	}
	if !ok || path.Curve == nil || path.Frame == nil {
		dnacurve.Logger().Warn("translated path has no bezier path or initial frame", "path", desc.PathID)
		return emptyPath()
	}
	return &dnacurve.TranslatedPiecewiseBezier{
		Path:            path.Curve,
		Offset:          desc.Translation,
		Frame:           *path.Frame,
		LegacyPlacement: desc.Legacy,
		Sync:            dnacurve.Sync{Converter: path.TimeMaps},
	}
}

// Source returns the descriptor inst was instantiated from.
func (inst *Instantiated) Source() *Shared { return inst.source }

// UpToDate reports whether inst was instantiated from s against the current
// state of src. Piecewise Bezier curves resolved without paths are always
// stale.
func (inst *Instantiated) UpToDate(s *Shared, src Source) bool {
	if s == nil || inst.source.gen != s.gen {
		return false
	}
	d := s.desc
	if !d.dependsOnDesign() {
		return true
	}
	if src == nil {
		return false
	}
	pd := src.PathData()
	pathsCurrent := inst.hasPaths && pd != nil && pd.Generation == inst.paths
	if d.PiecewiseBezier != nil {
		return pathsCurrent && src.GridsGeneration() == inst.grids
	}
	return pathsCurrent
}

// Curve discretizes the curve of inst. Expensive families are looked up in
// cache first when cache is not nil.
func (inst *Instantiated) Curve(hp dnacurve.HelixParameters, cache *Cache) *dnacurve.Discretized {
	if inst.resolved != nil {
		return dnacurve.Discretize(inst.resolved, hp)
	}
	d := inst.source.desc
	if cache != nil && cacheable(d) {
		return cache.discretized(d, hp)
	}
	return discretize(d, hp)
}

// TryCurve discretizes the curve of inst unless it must go through a cache.
func (inst *Instantiated) TryCurve(hp dnacurve.HelixParameters) (*dnacurve.Discretized, bool) {
	if cacheable(inst.source.desc) {
		return nil, false
	}
	return inst.Curve(hp, nil), true
}

func discretize(d Descriptor, hp dnacurve.HelixParameters) *dnacurve.Discretized {
	c, err := d.Build(hp)
	if err != nil {
		dnacurve.Logger().Warn("curve descriptor could not be built", "kind", d.Kind(), "err", err)
		c = emptyPath()
	}
	return dnacurve.Discretize(c, hp)
}

// BezierControls returns the control points of a single Bezier descriptor.
func (inst *Instantiated) BezierControls() (dnacurve.CubicBezier, bool) {
	if b := inst.source.desc.Bezier; b != nil {
		return *b, true
	}
	return dnacurve.CubicBezier{}, false
}

// BezierPoints returns the control points of Bezier curves: the four points
// of a single Bezier, or the control polygon of a piecewise Bezier.
func (inst *Instantiated) BezierPoints() []r3.Vec {
	if b, ok := inst.BezierControls(); ok {
		pts := b.Points()
		return pts[:]
	}
	if inst.source.desc.PiecewiseBezier == nil {
		return nil
	}
	switch c := inst.resolved.(type) {
	case *dnacurve.PiecewiseBezier:
		return c.ControlPoints()
	case *dnacurve.TranslatedPiecewiseBezier:
		return c.Path.ControlPoints()
	}
	return nil
}
