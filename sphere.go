package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis is a world axis.
type Axis uint8

const (
	AxisZ Axis = iota
	AxisX
	AxisY
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "Axis(?)"
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	if a > AxisY {
		return nil, fmt.Errorf("unknown axis %d: %w", a, ErrInvalidParameter)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "X", "x":
		*a = AxisX
	case "Y", "y":
		*a = AxisY
	case "Z", "z", "":
		*a = AxisZ
	default:
		return fmt.Errorf("unknown axis %q: %w", b, ErrInvalidParameter)
	}
	return nil
}

// orient maps local coordinates, pole along Z, to world coordinates with the
// pole along a.
func (a Axis) orient(v r3.Vec) r3.Vec {
	switch a {
	case AxisX:
		return r3.Vec{X: v.Z, Y: v.X, Z: v.Y}
	case AxisY:
		return r3.Vec{X: v.Y, Y: v.Z, Z: v.X}
	}
	return v
}

// SphereLikeSpiralParams describes a spiral going from pole to pole of a sphere.
type SphereLikeSpiralParams struct {
	Theta0 float64 `json:"theta_0"`
	Radius float64 `json:"radius"`
	// MinimumDiagonalGap is the distance between two turns of the spiral
	// along a meridian. Zero selects the inter helix axis gap.
	MinimumDiagonalGap float64 `json:"minimum_diagonal_gap,omitempty"`
	Orientation        Axis    `json:"orientation,omitempty"`
}

// SphereLikeSpiral is a spiral on a sphere, t ∈ [0, 1] going from one pole
// to the other.
type SphereLikeSpiral struct {
	SphereLikeSpiralParams
	turns float64
}

// NewSphereLikeSpiral returns the spiral described by p.
func NewSphereLikeSpiral(p SphereLikeSpiralParams, hp HelixParameters) (*SphereLikeSpiral, error) {
	if !(p.Radius > 0) {
		return nil, fmt.Errorf("sphere like spiral radius %g: %w", p.Radius, ErrInvalidParameter)
	}
	gap := p.MinimumDiagonalGap
	if gap == 0 {
		gap = hp.InterHelixAxisGap()
	}
	if !(gap > 0) {
		return nil, fmt.Errorf("sphere like spiral gap %g: %w", gap, ErrInvalidParameter)
	}
	return &SphereLikeSpiral{SphereLikeSpiralParams: p, turns: math.Pi * p.Radius / gap}, nil
}

func (s *SphereLikeSpiral) angles(t float64) (phi, theta, dphi, dtheta float64) {
	return math.Pi * t, s.Theta0 + 2*math.Pi*s.turns*t, math.Pi, 2 * math.Pi * s.turns
}

func (s *SphereLikeSpiral) Position(t float64) r3.Vec {
	phi, theta, _, _ := s.angles(t)
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return s.Orientation.orient(r3.Scale(s.Radius, r3.Vec{X: sp * ct, Y: sp * st, Z: cp}))
}

func (s *SphereLikeSpiral) Speed(t float64) r3.Vec {
	phi, theta, a, b := s.angles(t)
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return s.Orientation.orient(r3.Scale(s.Radius, r3.Vec{
		X: a*cp*ct - b*sp*st,
		Y: a*cp*st + b*sp*ct,
		Z: -a * sp,
	}))
}

func (s *SphereLikeSpiral) Acceleration(t float64) r3.Vec {
	phi, theta, a, b := s.angles(t)
	sp, cp := math.Sincos(phi)
	st, ct := math.Sincos(theta)
	return s.Orientation.orient(r3.Scale(s.Radius, r3.Vec{
		X: -(a*a+b*b)*sp*ct - 2*a*b*cp*st,
		Y: -(a*a+b*b)*sp*st + 2*a*b*cp*ct,
		Z: -a * a * cp,
	}))
}

func (s *SphereLikeSpiral) Bounds() Bounds { return Finite }

// PrecomputePolynomials implements PolynomialPrecomputer.
func (s *SphereLikeSpiral) PrecomputePolynomials() bool { return true }

// SphereConcentricCircleParams describes a parallel of a sphere.
type SphereConcentricCircleParams struct {
	Radius float64 `json:"radius"`
	Theta0 float64 `json:"theta_0"`
	// HelixIndex is 0 at the equator, positive above it.
	HelixIndex int `json:"helix_index"`
	// HelixIndexShift of -0.5 centers the equator between two helices.
	HelixIndexShift     float64 `json:"helix_index_shift,omitempty"`
	InterHelixCenterGap float64 `json:"inter_helix_center_gap,omitempty"`
	// IsClosed defaults to true.
	IsClosed                *bool   `json:"is_closed,omitempty"`
	TargetNbNt              int     `json:"target_nb_nt,omitempty"`
	AbscissaConverterFactor float64 `json:"abscissa_converter_factor,omitempty"`
}

// SphereConcentricCircle is a parallel of a sphere, t ∈ [0, 1].
type SphereConcentricCircle struct {
	SphereConcentricCircleParams
	phi     float64
	zRadius float64
	z       float64
	Sync
}

// NewSphereConcentricCircle returns the circle described by p.
func NewSphereConcentricCircle(p SphereConcentricCircleParams, hp HelixParameters) (*SphereConcentricCircle, error) {
	if !(p.Radius > 0) {
		return nil, fmt.Errorf("sphere radius %g: %w", p.Radius, ErrInvalidParameter)
	}
	gap := p.InterHelixCenterGap
	if gap == 0 {
		gap = hp.InterHelixAxisGap()
	}
	index := float64(p.HelixIndex) + p.HelixIndexShift
	phi := math.Pi/2 - index*gap/p.Radius
	c := &SphereConcentricCircle{
		SphereConcentricCircleParams: p,
		phi:                          phi,
		zRadius:                      p.Radius * math.Sin(phi),
		z:                            p.Radius * math.Cos(phi),
	}
	if !(c.zRadius > 0) {
		return nil, fmt.Errorf("helix %g is beyond the poles of the sphere: %w", index, ErrDegenerate)
	}
	factor := p.AbscissaConverterFactor
	if factor == 0 {
		factor = 1
	}
	m, err := LinearTimeMap(c.perimeter()/factor, 0)
	if err != nil {
		return nil, err
	}
	c.Sync = Sync{Singleton: m}
	return c, nil
}

func (c *SphereConcentricCircle) perimeter() float64 { return 2 * math.Pi * c.zRadius }

func (c *SphereConcentricCircle) theta(t float64) float64 { return 2*math.Pi*t + c.Theta0 }

func (c *SphereConcentricCircle) Position(t float64) r3.Vec {
	s, co := math.Sincos(c.theta(t))
	return r3.Vec{X: c.zRadius * co, Y: c.zRadius * s, Z: c.z}
}

func (c *SphereConcentricCircle) Speed(t float64) r3.Vec {
	s, co := math.Sincos(c.theta(t))
	k := 2 * math.Pi * c.zRadius
	return r3.Vec{X: -k * s, Y: k * co}
}

func (c *SphereConcentricCircle) Acceleration(t float64) r3.Vec {
	s, co := math.Sincos(c.theta(t))
	k := 4 * math.Pi * math.Pi * c.zRadius
	return r3.Vec{X: -k * co, Y: -k * s}
}

func (c *SphereConcentricCircle) Abscissa(t float64) float64        { return c.perimeter() * t }
func (c *SphereConcentricCircle) InverseAbscissa(s float64) float64 { return s / c.perimeter() }
func (c *SphereConcentricCircle) Bounds() Bounds                    { return Finite }
func (c *SphereConcentricCircle) FirstTheta() (float64, bool)       { return c.Theta0, true }
func (c *SphereConcentricCircle) LastTheta() (float64, bool)        { return c.theta(1), true }

func (c *SphereConcentricCircle) closed() bool { return c.IsClosed == nil || *c.IsClosed }

func (c *SphereConcentricCircle) FullTurnAt() (float64, bool) { return 1, c.closed() }

func (c *SphereConcentricCircle) ObjectiveNucleotides() (int, bool) {
	return c.TargetNbNt, c.TargetNbNt > 0
}

func (c *SphereConcentricCircle) NucleotidesPerFullTurn() (int, bool) {
	return c.TargetNbNt, c.TargetNbNt > 0 && c.closed()
}

// SphereTennisBallSeamParams describes the seam of a tennis ball drawn on a sphere.
type SphereTennisBallSeamParams struct {
	Radius    float64 `json:"radius"`
	Theta0Deg float64 `json:"theta_0_deg"`
	// PhiDeg is the latitude of the horizontal arcs, 0 at the equator.
	PhiDeg     float64 `json:"phi_deg"`
	TargetNbNt int     `json:"target_nb_nt,omitempty"`
}

// SphereTennisBallSeam is made of two horizontal and two vertical half
// circles of a sphere. t is the arc length.
type SphereTennisBallSeam struct {
	SphereTennisBallSeamParams
	rot            r3.Rotation
	zRadius, z     float64
	t1, t2, t3, t4 float64
}

// NewSphereTennisBallSeam returns the seam described by p.
func NewSphereTennisBallSeam(p SphereTennisBallSeamParams) (*SphereTennisBallSeam, error) {
	if !(p.Radius > 0) {
		return nil, fmt.Errorf("tennis ball radius %g: %w", p.Radius, ErrInvalidParameter)
	}
	phi := p.PhiDeg * math.Pi / 180
	s := &SphereTennisBallSeam{
		SphereTennisBallSeamParams: p,
		rot:                        r3.NewRotation(p.Theta0Deg*math.Pi/180, r3.Vec{Z: 1}),
		zRadius:                    p.Radius * math.Cos(phi),
		z:                          p.Radius * math.Sin(phi),
	}
	if !(s.zRadius > 0) || !(s.z > 0) {
		return nil, fmt.Errorf("tennis ball latitude %g° must be in ]0, 90[: %w", p.PhiDeg, ErrInvalidParameter)
	}
	s.t1 = math.Pi * s.zRadius
	s.t2 = s.t1 + math.Pi*s.z
	s.t3 = s.t2 + math.Pi*s.zRadius
	s.t4 = s.t3 + math.Pi*s.z
	return s, nil
}

// arc returns the position, unit speed and acceleration of the seam at t.
func (s *SphereTennisBallSeam) arc(t float64) (p, v, a r3.Vec) {
	t = remEuclid(t, s.t4)
	zr, z := s.zRadius, s.z
	switch {
	case t < s.t1:
		sn, c := math.Sincos(t / zr)
		p = r3.Vec{X: zr * c, Y: zr * sn, Z: z}
		v = r3.Vec{X: -sn, Y: c}
		a = r3.Vec{X: -c / zr, Y: -sn / zr}
	case t < s.t2:
		sn, c := math.Sincos((t - s.t1) / z)
		p = r3.Vec{X: -zr, Y: -z * sn, Z: z * c}
		v = r3.Vec{Y: -c, Z: -sn}
		a = r3.Vec{Y: sn / z, Z: -c / z}
	case t < s.t3:
		sn, c := math.Sincos((t - s.t2) / zr)
		p = r3.Vec{X: -zr * c, Y: zr * sn, Z: -z}
		v = r3.Vec{X: sn, Y: c}
		a = r3.Vec{X: c / zr, Y: -sn / zr}
	default:
		sn, c := math.Sincos((t - s.t3) / z)
		p = r3.Vec{X: zr, Y: -z * sn, Z: -z * c}
		v = r3.Vec{Y: -c, Z: sn}
		a = r3.Vec{Y: sn / z, Z: c / z}
	}
	return s.rot.Rotate(p), s.rot.Rotate(v), s.rot.Rotate(a)
}

func (s *SphereTennisBallSeam) Position(t float64) r3.Vec {
	p, _, _ := s.arc(t)
	return p
}

func (s *SphereTennisBallSeam) Speed(t float64) r3.Vec {
	_, v, _ := s.arc(t)
	return v
}

func (s *SphereTennisBallSeam) Acceleration(t float64) r3.Vec {
	_, _, a := s.arc(t)
	return a
}

func (s *SphereTennisBallSeam) Abscissa(t float64) float64        { return t }
func (s *SphereTennisBallSeam) InverseAbscissa(x float64) float64 { return x }
func (s *SphereTennisBallSeam) Bounds() Bounds                    { return Finite }
func (s *SphereTennisBallSeam) TMin() float64                     { return 0 }
func (s *SphereTennisBallSeam) TMax() float64                     { return s.t4 }
func (s *SphereTennisBallSeam) FullTurnAt() (float64, bool)       { return s.t4, true }

func (s *SphereTennisBallSeam) ObjectiveNucleotides() (int, bool) {
	return s.TargetNbNt, s.TargetNbNt > 0
}

func (s *SphereTennisBallSeam) NucleotidesPerFullTurn() (int, bool) {
	return s.TargetNbNt, s.TargetNbNt > 0
}
