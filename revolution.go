package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

// Section is a closed plane curve, the section of a revolution surface.
// u ∈ [0, 1) runs once around it. X is the distance to the revolution axis
// relative to the revolution radius and Y the height.
type Section interface {
	Point(u float64) r2.Vec
}

// SectionTangenter is implemented by sections with a closed form derivative.
type SectionTangenter interface {
	Tangent(u float64) r2.Vec
}

func sectionTangent(s Section, u float64) r2.Vec {
	if st, ok := s.(SectionTangenter); ok {
		return st.Tangent(u)
	}
	const h = derivativeEpsilon
	return r2.Scale(1/h, r2.Sub(s.Point(u+h/2), s.Point(u-h/2)))
}

// Ellipse is an ellipse section centered at the origin.
type Ellipse struct {
	SemiMajor, SemiMinor float64
}

func (e Ellipse) Point(u float64) r2.Vec {
	s, c := math.Sincos(2 * math.Pi * u)
	return r2.Vec{X: e.SemiMajor * c, Y: e.SemiMinor * s}
}

func (e Ellipse) Tangent(u float64) r2.Vec {
	s, c := math.Sincos(2 * math.Pi * u)
	return r2.Vec{X: -2 * math.Pi * e.SemiMajor * s, Y: 2 * math.Pi * e.SemiMinor * c}
}

// Lemniscate is the lemniscate of Bernoulli of half width Scale.
type Lemniscate struct {
	Scale float64
}

func (l Lemniscate) Point(u float64) r2.Vec {
	s, c := math.Sincos(2 * math.Pi * u)
	d := 1 + s*s
	return r2.Vec{X: l.Scale * c / d, Y: l.Scale * s * c / d}
}

// InterpolatedSection is a closed Akima spline through a set of points,
// parametrized by chord length.
type InterpolatedSection struct {
	x, y interp.AkimaSpline
}

// sectionWrap is the number of points repeated on each side of an
// interpolated section so that the spline is smooth across u = 0.
const sectionWrap = 3

// NewInterpolatedSection returns the closed spline through points.
func NewInterpolatedSection(points []r2.Vec) (*InterpolatedSection, error) {
	n := len(points)
	if n < 3 {
		return nil, fmt.Errorf("interpolated section needs 3 points, got %d: %w", n, ErrInvalidParameter)
	}
	chords := make([]float64, n+1)
	for i := 1; i <= n; i++ {
		d := r2.Norm(r2.Sub(points[i%n], points[i-1]))
		if d == 0 {
			return nil, fmt.Errorf("repeated section point %d: %w", i, ErrDegenerate)
		}
		chords[i] = chords[i-1] + d
	}
	total := chords[n]
	var us, xs, ys []float64
	for i := -sectionWrap; i <= n+sectionWrap; i++ {
		k := ((i % n) + n) % n
		turns := math.Floor(float64(i) / float64(n))
		us = append(us, turns+chords[k]/total)
		xs = append(xs, points[k].X)
		ys = append(ys, points[k].Y)
	}
	var s InterpolatedSection
	if err := s.x.Fit(us, xs); err != nil {
		return nil, err
	}
	if err := s.y.Fit(us, ys); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *InterpolatedSection) Point(u float64) r2.Vec {
	u = remEuclid(u, 1)
	return r2.Vec{X: s.x.Predict(u), Y: s.y.Predict(u)}
}

func (s *InterpolatedSection) Tangent(u float64) r2.Vec {
	u = remEuclid(u, 1)
	return r2.Vec{X: s.x.PredictDerivative(u), Y: s.y.PredictDerivative(u)}
}

// SectionKind names the shape of a section.
type SectionKind string

const (
	SectionEllipse      SectionKind = "ellipse"
	SectionLemniscate   SectionKind = "lemniscate"
	SectionInterpolated SectionKind = "interpolated"
)

// SectionParams is the serializable description of a Section.
type SectionParams struct {
	Kind      SectionKind `json:"kind"`
	SemiMajor float64     `json:"semi_major,omitempty"`
	SemiMinor float64     `json:"semi_minor,omitempty"`
	Points    []r2.Vec    `json:"points,omitempty"`
}

// Section builds the section described by p.
func (p SectionParams) Section() (Section, error) {
	switch p.Kind {
	case SectionEllipse:
		if !(p.SemiMajor > 0) || !(p.SemiMinor > 0) {
			return nil, fmt.Errorf("ellipse axes %g, %g: %w", p.SemiMajor, p.SemiMinor, ErrInvalidParameter)
		}
		return Ellipse{SemiMajor: p.SemiMajor, SemiMinor: p.SemiMinor}, nil
	case SectionLemniscate:
		if !(p.SemiMajor > 0) {
			return nil, fmt.Errorf("lemniscate scale %g: %w", p.SemiMajor, ErrInvalidParameter)
		}
		return Lemniscate{Scale: p.SemiMajor}, nil
	case SectionInterpolated:
		return NewInterpolatedSection(p.Points)
	}
	return nil, fmt.Errorf("unknown section kind %q: %w", p.Kind, ErrInvalidParameter)
}

// RevolutionParams describes a curve drawn on the surface obtained by
// revolving a section around the Z axis. The section holds NumberOfHelices
// evenly spaced helices. After every revolution the helix has moved
// ShiftPerRevolution slots along the section and the section itself has
// turned SectionTwist radians around its center.
type RevolutionParams struct {
	Section            SectionParams `json:"section"`
	RevolutionRadius   float64       `json:"revolution_radius"`
	NumberOfHelices    int           `json:"number_of_helices"`
	HelixIndex         int           `json:"helix_index"`
	ShiftPerRevolution int           `json:"shift_per_revolution,omitempty"`
	SectionTwist       float64       `json:"section_twist,omitempty"`
	// Revolutions defaults to the number of revolutions needed to close
	// the curve.
	Revolutions int `json:"revolutions,omitempty"`
	TargetNbNt  int `json:"target_nb_nt,omitempty"`
}

// RevolutionCurve is a curve on a revolution surface, t ∈ [0, Revolutions]
// counting revolutions.
type RevolutionCurve struct {
	RevolutionParams
	section Section
	closed  bool
	// Precompute requests a tabulated abscissa before discretization.
	Precompute bool
}

// NewRevolutionCurve returns the curve described by p.
func NewRevolutionCurve(p RevolutionParams) (*RevolutionCurve, error) {
	section, err := p.Section.Section()
	if err != nil {
		return nil, err
	}
	if p.NumberOfHelices <= 0 || !(p.RevolutionRadius > 0) {
		return nil, fmt.Errorf("revolution of radius %g with %d helices: %w", p.RevolutionRadius, p.NumberOfHelices, ErrInvalidParameter)
	}
	if p.Revolutions == 0 {
		p.Revolutions = 1
		if p.ShiftPerRevolution != 0 {
			p.Revolutions = p.NumberOfHelices / gcd(abs(p.ShiftPerRevolution), p.NumberOfHelices)
		}
	}
	if p.Revolutions < 0 {
		return nil, fmt.Errorf("negative revolution count %d: %w", p.Revolutions, ErrInvalidParameter)
	}
	rc := &RevolutionCurve{RevolutionParams: p, section: section}
	slots := float64(p.ShiftPerRevolution*p.Revolutions) / float64(p.NumberOfHelices)
	twist := p.SectionTwist * float64(p.Revolutions)
	rc.closed = slots == math.Trunc(slots) && math.Abs(math.Remainder(twist, 2*math.Pi)) < 1e-9
	return rc, nil
}

// TwistedTorusParams describes a torus whose section turns around its
// center while revolving, carrying its helices along.
type TwistedTorusParams struct {
	BigRadius float64       `json:"big_radius"`
	Section   SectionParams `json:"section"`
	// NumberOfHelices defaults to the number of helices that fit around
	// the section.
	NumberOfHelices int `json:"number_of_helices,omitempty"`
	HelixIndex      int `json:"helix_index"`
	// TwistPerTurn is the number of helix slots the section turns by
	// during one revolution.
	TwistPerTurn int `json:"twist_per_turn"`
	TargetNbNt   int `json:"target_nb_nt,omitempty"`
}

// NewTwistedTorus returns the curve followed by helix p.HelixIndex.
func NewTwistedTorus(p TwistedTorusParams, hp HelixParameters) (*RevolutionCurve, error) {
	section, err := p.Section.Section()
	if err != nil {
		return nil, err
	}
	n := p.NumberOfHelices
	if n == 0 {
		perimeter := sectionPerimeter(section)
		n = int(math.Floor(perimeter / hp.InterHelixAxisGap()))
	}
	if n <= 0 {
		return nil, fmt.Errorf("no helix fits the twisted torus section: %w", ErrDegenerate)
	}
	revolutions := 1
	if p.TwistPerTurn != 0 {
		revolutions = n / gcd(abs(p.TwistPerTurn), n)
	}
	rc, err := NewRevolutionCurve(RevolutionParams{
		Section:          p.Section,
		RevolutionRadius: p.BigRadius,
		NumberOfHelices:  n,
		HelixIndex:       p.HelixIndex,
		SectionTwist:     2 * math.Pi * float64(p.TwistPerTurn) / float64(n),
		Revolutions:      revolutions,
		TargetNbNt:       p.TargetNbNt,
	})
	if err != nil {
		return nil, err
	}
	rc.Precompute = true
	return rc, nil
}

func sectionPerimeter(s Section) float64 {
	const n = 1024
	var perimeter float64
	prev := s.Point(0)
	for i := 1; i <= n; i++ {
		p := s.Point(float64(i) / n)
		perimeter += r2.Norm(r2.Sub(p, prev))
		prev = p
	}
	return perimeter
}

// sectionPoint returns the point of the section followed at t and its
// derivative, in the section plane.
func (rc *RevolutionCurve) sectionPoint(t float64) (p, dp r2.Vec, u, alpha float64) {
	du := float64(rc.ShiftPerRevolution) / float64(rc.NumberOfHelices)
	u = float64(rc.HelixIndex)/float64(rc.NumberOfHelices) + du*t
	alpha = rc.SectionTwist * t
	q := rc.section.Point(u)
	dq := r2.Scale(du, sectionTangent(rc.section, u))
	rot := r2.NewRotation(alpha, r2.Vec{})
	p = rot.Rotate(q)
	perp := rot.Rotate(r2.Vec{X: -q.Y, Y: q.X})
	dp = r2.Add(rot.Rotate(dq), r2.Scale(rc.SectionTwist, perp))
	return p, dp, u, alpha
}

func (rc *RevolutionCurve) Position(t float64) r3.Vec {
	p, _, _, _ := rc.sectionPoint(t)
	s, c := math.Sincos(2 * math.Pi * t)
	r := rc.RevolutionRadius + p.X
	return r3.Vec{X: r * c, Y: r * s, Z: p.Y}
}

func (rc *RevolutionCurve) Speed(t float64) r3.Vec {
	p, dp, _, _ := rc.sectionPoint(t)
	s, c := math.Sincos(2 * math.Pi * t)
	r := rc.RevolutionRadius + p.X
	w := 2 * math.Pi
	return r3.Vec{X: dp.X*c - r*w*s, Y: dp.X*s + r*w*c, Z: dp.Y}
}

func (rc *RevolutionCurve) Bounds() Bounds { return Finite }
func (rc *RevolutionCurve) TMin() float64  { return 0 }
func (rc *RevolutionCurve) TMax() float64  { return float64(rc.Revolutions) }

func (rc *RevolutionCurve) FullTurnAt() (float64, bool) {
	return float64(rc.Revolutions), rc.closed
}

func (rc *RevolutionCurve) ObjectiveNucleotides() (int, bool) {
	return rc.TargetNbNt, rc.TargetNbNt > 0
}

func (rc *RevolutionCurve) NucleotidesPerFullTurn() (int, bool) {
	return rc.TargetNbNt, rc.TargetNbNt > 0 && rc.closed
}

func (rc *RevolutionCurve) PrecomputePolynomials() bool { return rc.Precompute }

// SurfaceInfo implements Surfacer. The surface is swept by the turning
// section, its normal is the cross product of the directions of constant
// section abscissa and of constant revolution angle.
func (rc *RevolutionCurve) SurfaceInfo(t float64) (SurfaceInfo, bool) {
	p, _, u, alpha := rc.sectionPoint(t)
	theta := 2 * math.Pi * t
	s, c := math.Sincos(theta)
	rot := r2.NewRotation(alpha, r2.Vec{})
	q := rc.section.Point(u)
	tangent := rot.Rotate(sectionTangent(rc.section, u))
	spin := r2.Scale(rc.SectionTwist, rot.Rotate(r2.Vec{X: -q.Y, Y: q.X}))
	local := Frame{
		X: r3.Vec{X: -s, Y: c},
		Y: r3.Vec{X: -c, Y: -s},
		Z: r3.Vec{Z: 1},
	}
	radial := r3.Vec{X: c, Y: s}
	lift := func(v r2.Vec) r3.Vec { return r3.Add(r3.Scale(v.X, radial), r3.Scale(v.Y, local.Z)) }
	r := rc.RevolutionRadius + p.X
	across := r3.Add(lift(spin), r3.Scale(2*math.Pi*r, local.X))
	normal := r3.Cross(across, lift(tangent))
	if r3.Norm(normal) < epsilon {
		normal = radial
	}
	return SurfaceInfo{
		Point: SurfacePoint{
			RevolutionAngle:      theta,
			AbscissaAlongSection: u,
			HelixID:              rc.HelixIndex,
			SectionRotationAngle: alpha,
			ReversedDirection:    rc.ShiftPerRevolution < 0,
		},
		SectionTangent: tangent,
		LocalFrame:     local,
		Normal:         r3.Unit(normal),
		Position:       r3.Vec{X: r * c, Y: r * s, Z: p.Y},
	}, true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
