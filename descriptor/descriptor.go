// Package descriptor holds the serializable descriptions of the curves of a
// design and turns them into discretized curves.
//
// A Descriptor names one curve family and its parameters. Most families are
// fully defined by their parameters, the others refer to grid positions or
// to a Bezier path of the design and are resolved against a Source. Resolved
// descriptors are Instantiated and remember which state of the design they
// were resolved against, so that helices can tell when to recompute them.
package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrUnknownVariant is returned when decoding a descriptor that names no
	// known curve family.
	ErrUnknownVariant = errors.New("unknown curve descriptor variant")
	// ErrNeedsSource is returned when building without a Source a curve
	// whose geometry depends on the design.
	ErrNeedsSource = errors.New("curve descriptor needs grids or paths")
)

// Kind names the curve family of a Descriptor.
type Kind string

const (
	KindBezier                 Kind = "Bezier"
	KindSphereLikeSpiral       Kind = "SphereLikeSpiral"
	KindSpiralCylinder         Kind = "SpiralCylinder"
	KindTubeSpiral             Kind = "TubeSpiral"
	KindSphereConcentricCircle Kind = "SphereConcentricCircle"
	KindTwist                  Kind = "Twist"
	KindTorus                  Kind = "Torus"
	KindTorusConcentricCircle  Kind = "TorusConcentricCircle"
	KindTwistedTorus           Kind = "TwistedTorus"
	KindPiecewiseBezier        Kind = "PiecewiseBezier"
	KindTranslatedPath         Kind = "TranslatedPath"
	KindSuperTwist             Kind = "SuperTwist"
	KindInterpolatedCurve      Kind = "InterpolatedCurve"
	KindChebyshev              Kind = "Chebyshev"
)

// Descriptor describes the axis of a curved helix. Exactly one field is set.
// Its JSON form is an object with a single key naming the family.
type Descriptor struct {
	Bezier                 *dnacurve.CubicBezier                  `json:"Bezier,omitempty"`
	SphereLikeSpiral       *dnacurve.SphereLikeSpiralParams       `json:"SphereLikeSpiral,omitempty"`
	SpiralCylinder         *dnacurve.SpiralCylinderParams         `json:"SpiralCylinder,omitempty"`
	TubeSpiral             *dnacurve.TubeSpiralParams             `json:"TubeSpiral,omitempty"`
	SphereConcentricCircle *dnacurve.SphereConcentricCircleParams `json:"SphereConcentricCircle,omitempty"`
	Twist                  *dnacurve.Twist                        `json:"Twist,omitempty"`
	Torus                  *dnacurve.TorusParams                  `json:"Torus,omitempty"`
	TorusConcentricCircle  *dnacurve.TorusConcentricCircleParams  `json:"TorusConcentricCircle,omitempty"`
	TwistedTorus           *dnacurve.TwistedTorusParams           `json:"TwistedTorus,omitempty"`
	PiecewiseBezier        *PiecewiseBezier                       `json:"PiecewiseBezier,omitempty"`
	TranslatedPath         *TranslatedPath                        `json:"TranslatedPath,omitempty"`
	SuperTwist             *dnacurve.SuperTwist                   `json:"SuperTwist,omitempty"`
	InterpolatedCurve      *dnacurve.RevolutionParams             `json:"InterpolatedCurve,omitempty"`
	Chebyshev              *PolynomialCoordinates                 `json:"Chebyshev,omitempty"`
}

// PiecewiseBezier is a chain of Bezier segments through grid positions.
type PiecewiseBezier struct {
	TMin   *float64    `json:"t_min,omitempty"`
	TMax   *float64    `json:"t_max,omitempty"`
	Points []BezierEnd `json:"points"`
}

// TranslatedPath follows a Bezier path of the design at a constant offset.
type TranslatedPath struct {
	PathID      PathID `json:"path_id"`
	Translation r3.Vec `json:"translation"`
	Legacy      bool   `json:"legacy,omitempty"`
}

// PolynomialCoordinates describes a curve whose coordinates are each given
// by a one dimensional interpolation, in Ångström.
type PolynomialCoordinates struct {
	X Interpolation `json:"x"`
	Y Interpolation `json:"y"`
	Z Interpolation `json:"z"`
}

// Interpolation is either sample points to fit or Chebyshev coefficients.
type Interpolation struct {
	PointsValues *PointsValues    `json:"PointsValues,omitempty"`
	Chebyshev    *ChebyshevCoeffs `json:"Chebyshev,omitempty"`
}

// PointsValues are samples Values[i] of a coordinate at Points[i].
type PointsValues struct {
	Points []float64 `json:"points"`
	Values []float64 `json:"values"`
}

// ChebyshevCoeffs are the coefficients of a Chebyshev series on Interval.
type ChebyshevCoeffs struct {
	Coeffs   []float64  `json:"coeffs"`
	Interval [2]float64 `json:"interval"`
}

const (
	// interpolationTolerance is the fitting tolerance of sampled coordinates.
	interpolationTolerance = 1e-4
	// angstrom converts polynomial coordinates to nanometers.
	angstrom = 0.1
)

// Series returns the Chebyshev series of the interpolation, fitting the
// samples if needed.
func (in Interpolation) Series() (dnacurve.Chebyshev, error) {
	switch {
	case in.Chebyshev != nil && in.PointsValues != nil:
		return dnacurve.Chebyshev{}, fmt.Errorf("interpolation has both samples and coefficients: %w", ErrUnknownVariant)
	case in.Chebyshev != nil:
		return dnacurve.Chebyshev{
			Coeffs: in.Chebyshev.Coeffs,
			Min:    in.Chebyshev.Interval[0],
			Max:    in.Chebyshev.Interval[1],
		}, nil
	case in.PointsValues != nil:
		pv := in.PointsValues
		if len(pv.Points) != len(pv.Values) || len(pv.Points) < 2 {
			return dnacurve.Chebyshev{}, fmt.Errorf("%d points for %d values: %w", len(pv.Points), len(pv.Values), dnacurve.ErrInvalidParameter)
		}
		min, max := pv.Points[0], pv.Points[0]
		for _, x := range pv.Points {
			if x < min {
				min = x
			}
			if x > max {
				max = x
			}
		}
		return dnacurve.FitChebyshevPoints(pv.Points, pv.Values, min, max, interpolationTolerance, len(pv.Points)-1)
	}
	return dnacurve.Chebyshev{}, ErrUnknownVariant
}

// Curve fits the three coordinates.
func (pc PolynomialCoordinates) Curve() (*dnacurve.PolynomialCurve, error) {
	var chs [3]dnacurve.Chebyshev
	for i, in := range [3]Interpolation{pc.X, pc.Y, pc.Z} {
		ch, err := in.Series()
		if err != nil {
			return nil, fmt.Errorf("coordinate %c: %w", "xyz"[i], err)
		}
		chs[i] = ch
	}
	return dnacurve.NewPolynomialCurve(chs[0], chs[1], chs[2], angstrom)
}

// Kind returns the family of d, or the empty Kind if d is not valid.
func (d Descriptor) Kind() Kind {
	kinds := d.kinds()
	if len(kinds) != 1 {
		return ""
	}
	return kinds[0]
}

func (d Descriptor) kinds() []Kind {
	var ks []Kind
	add := func(set bool, k Kind) {
		if set {
			ks = append(ks, k)
		}
	}
	add(d.Bezier != nil, KindBezier)
	add(d.SphereLikeSpiral != nil, KindSphereLikeSpiral)
	add(d.SpiralCylinder != nil, KindSpiralCylinder)
	add(d.TubeSpiral != nil, KindTubeSpiral)
	add(d.SphereConcentricCircle != nil, KindSphereConcentricCircle)
	add(d.Twist != nil, KindTwist)
	add(d.Torus != nil, KindTorus)
	add(d.TorusConcentricCircle != nil, KindTorusConcentricCircle)
	add(d.TwistedTorus != nil, KindTwistedTorus)
	add(d.PiecewiseBezier != nil, KindPiecewiseBezier)
	add(d.TranslatedPath != nil, KindTranslatedPath)
	add(d.SuperTwist != nil, KindSuperTwist)
	add(d.InterpolatedCurve != nil, KindInterpolatedCurve)
	add(d.Chebyshev != nil, KindChebyshev)
	return ks
}

// Validate checks that exactly one family is set.
func (d Descriptor) Validate() error {
	switch ks := d.kinds(); len(ks) {
	case 0:
		return fmt.Errorf("empty descriptor: %w", ErrUnknownVariant)
	case 1:
		return nil
	default:
		return fmt.Errorf("descriptor sets %d families %v: %w", len(ks), ks, ErrUnknownVariant)
	}
}

// UnmarshalJSON decodes the single key form of a descriptor and rejects
// unknown families.
func (d *Descriptor) UnmarshalJSON(b []byte) error {
	type plain Descriptor
	var p plain
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return fmt.Errorf("decoding curve descriptor: %w", errors.Join(ErrUnknownVariant, err))
	}
	if err := Descriptor(p).Validate(); err != nil {
		return err
	}
	*d = Descriptor(p)
	return nil
}

// dependsOnDesign reports whether the geometry of d is resolved against
// grids or paths.
func (d Descriptor) dependsOnDesign() bool {
	return d.PiecewiseBezier != nil || d.TranslatedPath != nil
}

// SetTMin lowers the start of the domain of d to tMin. It returns false if
// d has no adjustable domain or if its domain already starts at or before
// tMin.
func (d *Descriptor) SetTMin(tMin float64) bool {
	switch {
	case d.PiecewiseBezier != nil:
		return lowerBound(&d.PiecewiseBezier.TMin, tMin)
	case d.Twist != nil:
		return lowerBound(&d.Twist.MinT, tMin)
	}
	return false
}

// SetTMax raises the end of the domain of d to tMax. It returns false if d
// has no adjustable domain or if its domain already ends at or after tMax.
func (d *Descriptor) SetTMax(tMax float64) bool {
	switch {
	case d.PiecewiseBezier != nil:
		return upperBound(&d.PiecewiseBezier.TMax, tMax)
	case d.Twist != nil:
		return upperBound(&d.Twist.MaxT, tMax)
	}
	return false
}

func lowerBound(bound **float64, t float64) bool {
	if *bound != nil && **bound <= t {
		return false
	}
	*bound = &t
	return true
}

func upperBound(bound **float64, t float64) bool {
	if *bound != nil && **bound >= t {
		return false
	}
	*bound = &t
	return true
}

// TMin returns the explicit start of the domain of d, if any.
func (d Descriptor) TMin() (float64, bool) {
	switch {
	case d.PiecewiseBezier != nil && d.PiecewiseBezier.TMin != nil:
		return *d.PiecewiseBezier.TMin, true
	case d.Twist != nil && d.Twist.MinT != nil:
		return *d.Twist.MinT, true
	}
	return 0, false
}

// TMax returns the explicit end of the domain of d, if any.
func (d Descriptor) TMax() (float64, bool) {
	switch {
	case d.PiecewiseBezier != nil && d.PiecewiseBezier.TMax != nil:
		return *d.PiecewiseBezier.TMax, true
	case d.Twist != nil && d.Twist.MaxT != nil:
		return *d.Twist.MaxT, true
	}
	return 0, false
}

// GridPositions returns the grid positions d passes through.
func (d Descriptor) GridPositions() []GridPosition {
	if d.PiecewiseBezier == nil {
		return nil
	}
	ps := make([]GridPosition, len(d.PiecewiseBezier.Points))
	for i, p := range d.PiecewiseBezier.Points {
		ps[i] = p.Position
	}
	return ps
}

// Translate moves every grid position of d along edge. It returns false if
// d has no grid positions or if one of them cannot be moved.
func (d Descriptor) Translate(edge Edge, src Source) (Descriptor, bool) {
	if d.PiecewiseBezier == nil || src == nil {
		return Descriptor{}, false
	}
	pb := *d.PiecewiseBezier
	pb.Points = make([]BezierEnd, len(d.PiecewiseBezier.Points))
	for i, p := range d.PiecewiseBezier.Points {
		moved, ok := src.TranslateByEdge(p.Position, edge)
		if !ok {
			return Descriptor{}, false
		}
		p.Position = moved
		pb.Points[i] = p
	}
	return Descriptor{PiecewiseBezier: &pb}, true
}

// Build returns the curve of a descriptor that does not depend on the
// design. Descriptors referring to grids or paths return ErrNeedsSource.
func (d Descriptor) Build(hp dnacurve.HelixParameters) (dnacurve.Curve, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	switch {
	case d.Bezier != nil:
		return *d.Bezier, nil
	case d.SphereLikeSpiral != nil:
		return dnacurve.NewSphereLikeSpiral(*d.SphereLikeSpiral, hp)
	case d.SpiralCylinder != nil:
		return dnacurve.NewSpiralCylinder(*d.SpiralCylinder, hp)
	case d.TubeSpiral != nil:
		return dnacurve.NewTubeSpiral(*d.TubeSpiral)
	case d.SphereConcentricCircle != nil:
		return dnacurve.NewSphereConcentricCircle(*d.SphereConcentricCircle, hp)
	case d.Twist != nil:
		return *d.Twist, nil
	case d.Torus != nil:
		return dnacurve.NewTorus(*d.Torus, hp)
	case d.TorusConcentricCircle != nil:
		return dnacurve.NewTorusConcentricCircle(*d.TorusConcentricCircle, hp)
	case d.TwistedTorus != nil:
		return dnacurve.NewTwistedTorus(*d.TwistedTorus, hp)
	case d.SuperTwist != nil:
		if err := d.SuperTwist.Validate(); err != nil {
			return nil, err
		}
		return *d.SuperTwist, nil
	case d.InterpolatedCurve != nil:
		rc, err := dnacurve.NewRevolutionCurve(*d.InterpolatedCurve)
		if err != nil {
			return nil, err
		}
		rc.Precompute = true
		return rc, nil
	case d.Chebyshev != nil:
		return d.Chebyshev.Curve()
	}
	return nil, fmt.Errorf("%s: %w", d.Kind(), ErrNeedsSource)
}

// Length returns the arc length of the curve of d over its domain, for
// standard DNA parameters. It returns false for descriptors that depend on
// the design or whose curve cannot be built.
func (d Descriptor) Length() (float64, bool) {
	if d.TwistedTorus != nil {
		return 0, false
	}
	c, err := d.Build(dnacurve.GearyDNA)
	if err != nil {
		return 0, false
	}
	return dnacurve.Length(c, dnacurve.TMin(c), dnacurve.TMax(c)), true
}

// Path returns the axis points of the discretized curve of d for standard
// DNA parameters, with the same restrictions as Length.
func (d Descriptor) Path() ([]r3.Vec, bool) {
	if d.TwistedTorus != nil {
		return nil, false
	}
	c, err := d.Build(dnacurve.GearyDNA)
	if err != nil {
		return nil, false
	}
	return dnacurve.Discretize(c, dnacurve.GearyDNA).AxisPositions(), true
}
