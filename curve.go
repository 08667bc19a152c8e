package dnacurve

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	// ErrInvalidParameter is returned by curve constructors when a parameter
	// is out of its valid range.
	ErrInvalidParameter = errors.New("invalid curve parameter")
	// ErrDegenerate is returned when a curve has no length or no tangent.
	ErrDegenerate = errors.New("degenerate curve")
)

const (
	derivativeEpsilon   = 1e-6
	zeroSpeed           = 1e-12
	accelerationEpsilon = 1e-4
)

// Bounds describes the interval in which t can be taken.
type Bounds uint8

const (
	// Finite curves are defined for t ∈ [TMin, TMax].
	Finite Bounds = iota
	// PositiveInfinite curves are defined for t ∈ [TMin, +∞[.
	PositiveInfinite
	// BiInfinite curves are defined for t ∈ ]-∞, +∞[.
	BiInfinite
)

func (b Bounds) String() string {
	switch b {
	case Finite:
		return "finite"
	case PositiveInfinite:
		return "positive-infinite"
	case BiInfinite:
		return "bi-infinite"
	}
	return "Bounds(?)"
}

// Curve is a parametric curve in space. Position is the only mandatory
// capability, everything else is discovered through the optional interfaces
// below and has a numeric default.
type Curve interface {
	// Position maps a parameter t to a point in space.
	Position(t float64) r3.Vec
	// Bounds reports whether the curve may be extended beyond [TMin, TMax].
	Bounds() Bounds
}

// Domainer is implemented by curves whose discretized domain is not [0, 1].
type Domainer interface {
	TMin() float64
	TMax() float64
}

// Speeder is implemented by curves with a closed form first derivative.
type Speeder interface {
	Speed(t float64) r3.Vec
}

// Accelerator is implemented by curves with a closed form second derivative.
type Accelerator interface {
	Acceleration(t float64) r3.Vec
}

// Abscissaer is implemented by curves with a closed form curvilinear abscissa.
// Only differences of abscissa are meaningful, the origin is arbitrary.
type Abscissaer interface {
	Abscissa(t float64) float64
}

// InverseAbscissaer is implemented by curves with a closed form inverse of
// their curvilinear abscissa.
type InverseAbscissaer interface {
	InverseAbscissa(s float64) float64
}

// RiseRatioer is implemented by curves along which the rise between two
// nucleotides differs from the rise of a straight helix.
type RiseRatioer interface {
	RiseRatio() (float64, bool)
}

// Translator is implemented by curves whose nucleotides are translated from
// the curve. The translation is expressed in the frame of each point.
type Translator interface {
	Translation() (r3.Vec, bool)
}

// InitialFramer is implemented by curves that prescribe the frame of the
// nucleotide at t=0.
type InitialFramer interface {
	InitialFrame() (Frame, bool)
}

// Periodic is implemented by closed curves. FullTurnAt returns the period.
type Periodic interface {
	FullTurnAt() (float64, bool)
}

// FullTurnTargeter is implemented by closed curves that must hold an exact
// number of nucleotides in one period.
type FullTurnTargeter interface {
	NucleotidesPerFullTurn() (int, bool)
}

// ObjectiveCounter is implemented by curves that must hold an exact number of
// nucleotides between TMin and TMax.
type ObjectiveCounter interface {
	ObjectiveNucleotides() (int, bool)
}

// Subdivider is implemented by curves that are represented by several helix
// segments in 2D. Subdivision must be non-decreasing in t.
type Subdivider interface {
	Subdivision(t float64) (int, bool)
}

// Surfacer is implemented by curves lying on a parametric surface.
type Surfacer interface {
	SurfaceInfo(t float64) (SurfaceInfo, bool)
}

// Thetaer is implemented by curves that know the helix phase at their ends.
type Thetaer interface {
	FirstTheta() (float64, bool)
	LastTheta() (float64, bool)
}

// QuickDiscretizer is implemented by curves that accept a coarse
// discretization, typically for interactive previews.
type QuickDiscretizer interface {
	DiscretizeQuickly() bool
}

// PolynomialPrecomputer is implemented by curves whose abscissa should be
// approximated by a polynomial before walking.
type PolynomialPrecomputer interface {
	PrecomputePolynomials() bool
}

// Legacier is implemented by curves that must be placed with the legacy
// nucleotide placement.
type Legacier interface {
	Legacy() bool
}

// Synchronizer is implemented by curves that belong to a synchronization
// group. Nucleotides of such curves are evenly spaced in the shared abscissa.
type Synchronizer interface {
	TimeMap() (*TimeMap, bool)
}

// TimeMapsSingleton is implemented by curves that are the only member of
// their synchronization group.
type TimeMapsSingleton interface {
	TimeMapsSingleton() bool
}

// SurfacePoint locates a point on a revolution surface.
type SurfacePoint struct {
	RevolutionAngle      float64
	AbscissaAlongSection float64
	HelixID              int
	SectionRotationAngle float64
	ReversedDirection    bool
}

// SurfaceInfo describes the surface a curve lies on at one of its points.
type SurfaceInfo struct {
	Point          SurfacePoint
	SectionTangent r2.Vec
	// LocalFrame has Z normal to the revolution plane and X tangent to the
	// revolution circle.
	LocalFrame Frame
	// Normal is the unit normal of the surface.
	Normal   r3.Vec
	Position r3.Vec
}

// TMin returns the lower bound of the discretized domain of c.
func TMin(c Curve) float64 {
	if d, ok := c.(Domainer); ok {
		return d.TMin()
	}
	return 0
}

// TMax returns the upper bound of the discretized domain of c.
func TMax(c Curve) float64 {
	if d, ok := c.(Domainer); ok {
		return d.TMax()
	}
	return 1
}

// Speed returns the derivative of the position of c with respect to t.
func Speed(c Curve, t float64) r3.Vec {
	if s, ok := c.(Speeder); ok {
		return s.Speed(t)
	}
	const h = derivativeEpsilon
	return r3.Scale(1/h, r3.Sub(c.Position(t+h/2), c.Position(t-h/2)))
}

// Acceleration returns the second derivative of the position of c.
func Acceleration(c Curve, t float64) r3.Vec {
	if a, ok := c.(Accelerator); ok {
		return a.Acceleration(t)
	}
	const h = accelerationEpsilon
	sum := r3.Add(c.Position(t+h), c.Position(t-h))
	return r3.Scale(1/(h*h), r3.Sub(sum, r3.Scale(2, c.Position(t))))
}

// Curvature returns the curvature of c at t, |c' × c"| / |c'|³.
// It is zero where the speed vanishes.
func Curvature(c Curve, t float64) float64 {
	speed := Speed(c, t)
	norm := r3.Norm(speed)
	if norm < zeroSpeed {
		return 0
	}
	k := r3.Norm(r3.Cross(speed, Acceleration(c, t))) / (norm * norm * norm)
	if math.IsNaN(k) || math.IsInf(k, 0) {
		return 0
	}
	return k
}

// Abscissa returns the closed form curvilinear abscissa of c at t, if any.
func Abscissa(c Curve, t float64) (float64, bool) {
	if a, ok := c.(Abscissaer); ok {
		return a.Abscissa(t), true
	}
	return 0, false
}

// InverseAbscissa returns the parameter at curvilinear abscissa s, if c has
// a closed form for it.
func InverseAbscissa(c Curve, s float64) (float64, bool) {
	if a, ok := c.(InverseAbscissaer); ok {
		return a.InverseAbscissa(s), true
	}
	return 0, false
}

// RiseRatio returns the ratio between the rise along c and the nominal rise.
func RiseRatio(c Curve) (float64, bool) {
	if r, ok := c.(RiseRatioer); ok {
		return r.RiseRatio()
	}
	return 0, false
}

// FullTurnAt returns the period of c if it is closed.
func FullTurnAt(c Curve) (float64, bool) {
	if p, ok := c.(Periodic); ok {
		return p.FullTurnAt()
	}
	return 0, false
}

// NucleotidesPerFullTurn returns the number of nucleotides c must hold in one
// period.
func NucleotidesPerFullTurn(c Curve) (int, bool) {
	if p, ok := c.(FullTurnTargeter); ok {
		return p.NucleotidesPerFullTurn()
	}
	return 0, false
}

// ObjectiveNucleotides returns the exact number of nucleotides c must hold.
func ObjectiveNucleotides(c Curve) (int, bool) {
	if o, ok := c.(ObjectiveCounter); ok {
		return o.ObjectiveNucleotides()
	}
	return 0, false
}

func discretizeQuickly(c Curve) bool {
	q, ok := c.(QuickDiscretizer)
	return ok && q.DiscretizeQuickly()
}

func precomputePolynomials(c Curve) bool {
	p, ok := c.(PolynomialPrecomputer)
	return ok && p.PrecomputePolynomials()
}

// IsLegacy reports whether c must be placed with the legacy algorithm.
func IsLegacy(c Curve) bool {
	l, ok := c.(Legacier)
	return ok && l.Legacy()
}

// IsTimeMapsSingleton reports whether c is alone in its synchronization group.
func IsTimeMapsSingleton(c Curve) bool {
	s, ok := c.(TimeMapsSingleton)
	return ok && s.TimeMapsSingleton()
}

// HasOwnFrame reports whether the position and orientation of the helix are
// encoded in the curve, i.e. the curve carries a translation.
func HasOwnFrame(c Curve) bool {
	tr, ok := c.(Translator)
	if !ok {
		return false
	}
	_, ok = tr.Translation()
	return ok
}
