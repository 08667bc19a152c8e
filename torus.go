package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// TorusParams describes a curve winding around a torus.
type TorusParams struct {
	Theta0 float64 `json:"theta0"`
	// HalfNbHelix is half the number of turns around the big circle, the
	// small radius is chosen so that these turns do not overlap.
	HalfNbHelix int     `json:"half_nb_helix"`
	BigRadius   float64 `json:"big_radius"`
}

// Torus winds 2·HalfNbHelix times around the big circle while turning once
// around the section, t ∈ [0, 1].
type Torus struct {
	TorusParams
	smallRadius float64
}

// NewTorus returns the torus curve described by p.
func NewTorus(p TorusParams, hp HelixParameters) (*Torus, error) {
	if p.HalfNbHelix <= 0 {
		return nil, fmt.Errorf("torus with %d half helices: %w", p.HalfNbHelix, ErrInvalidParameter)
	}
	h := hp.HelixRadius + hp.InterHelixGap/2
	small := 4 * h * float64(p.HalfNbHelix) / (2 * math.Pi)
	if !(p.BigRadius > small) {
		return nil, fmt.Errorf("torus big radius %g must exceed section radius %g: %w", p.BigRadius, small, ErrInvalidParameter)
	}
	return &Torus{TorusParams: p, smallRadius: small}, nil
}

func (tr *Torus) angles(t float64) (theta, dtheta, phi, dphi float64) {
	dtheta = 2 * math.Pi * float64(tr.HalfNbHelix)
	dphi = 2 * math.Pi
	return dtheta*t + tr.Theta0, dtheta, dphi * t, dphi
}

func (tr *Torus) Position(t float64) r3.Vec {
	theta, _, phi, _ := tr.angles(t)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	rho := tr.BigRadius + tr.smallRadius*cp
	return r3.Vec{X: st * rho, Y: tr.smallRadius * sp, Z: ct * rho}
}

func (tr *Torus) Speed(t float64) r3.Vec {
	theta, a, phi, b := tr.angles(t)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	rho := tr.BigRadius + tr.smallRadius*cp
	drho := -tr.smallRadius * b * sp
	return r3.Vec{
		X: a*ct*rho + st*drho,
		Y: tr.smallRadius * b * cp,
		Z: -a*st*rho + ct*drho,
	}
}

func (tr *Torus) Acceleration(t float64) r3.Vec {
	theta, a, phi, b := tr.angles(t)
	st, ct := math.Sincos(theta)
	sp, cp := math.Sincos(phi)
	rho := tr.BigRadius + tr.smallRadius*cp
	drho := -tr.smallRadius * b * sp
	ddrho := -tr.smallRadius * b * b * cp
	return r3.Vec{
		X: -a*a*st*rho + 2*a*ct*drho + st*ddrho,
		Y: -tr.smallRadius * b * b * sp,
		Z: -a*a*ct*rho - 2*a*st*drho + ct*ddrho,
	}
}

func (tr *Torus) Bounds() Bounds              { return Finite }
func (tr *Torus) FullTurnAt() (float64, bool) { return 1, true }

// CircleCurveParams describes a horizontal circle centered on the Z axis.
// Nucleotides are spaced along the circle as if its perimeter were divided
// by AbscissaConverterFactor.
type CircleCurveParams struct {
	Radius                  float64 `json:"radius"`
	Z                       float64 `json:"z"`
	AbscissaConverterFactor float64 `json:"abscissa_converter_factor,omitempty"`
	IsClosed                *bool   `json:"is_closed,omitempty"`
	TargetNbNt              int     `json:"target_nb_nt,omitempty"`
}

// CircleCurve is a horizontal circle, t ∈ [0, 1].
type CircleCurve struct {
	CircleCurveParams
	Sync
}

// NewCircleCurve returns the circle described by p.
func NewCircleCurve(p CircleCurveParams) (*CircleCurve, error) {
	if !(p.Radius > 0) {
		return nil, fmt.Errorf("circle radius %g: %w", p.Radius, ErrInvalidParameter)
	}
	factor := p.AbscissaConverterFactor
	if factor == 0 {
		factor = 1
	}
	c := &CircleCurve{CircleCurveParams: p}
	m, err := LinearTimeMap(c.perimeter()/factor, 0)
	if err != nil {
		return nil, err
	}
	c.Sync = Sync{Singleton: m}
	return c, nil
}

func (c *CircleCurve) perimeter() float64 { return 2 * math.Pi * c.Radius }

func (c *CircleCurve) Position(t float64) r3.Vec {
	s, co := math.Sincos(2 * math.Pi * t)
	return r3.Vec{X: c.Radius * co, Y: c.Radius * s, Z: c.Z}
}

func (c *CircleCurve) Speed(t float64) r3.Vec {
	s, co := math.Sincos(2 * math.Pi * t)
	k := 2 * math.Pi * c.Radius
	return r3.Vec{X: -k * s, Y: k * co}
}

func (c *CircleCurve) Acceleration(t float64) r3.Vec {
	s, co := math.Sincos(2 * math.Pi * t)
	k := 4 * math.Pi * math.Pi * c.Radius
	return r3.Vec{X: -k * co, Y: -k * s}
}

func (c *CircleCurve) Abscissa(t float64) float64        { return c.perimeter() * t }
func (c *CircleCurve) InverseAbscissa(s float64) float64 { return s / c.perimeter() }
func (c *CircleCurve) Bounds() Bounds                    { return Finite }
func (c *CircleCurve) FirstTheta() (float64, bool)       { return 0, true }
func (c *CircleCurve) LastTheta() (float64, bool)        { return 2 * math.Pi, true }

func (c *CircleCurve) closed() bool { return c.IsClosed == nil || *c.IsClosed }

func (c *CircleCurve) FullTurnAt() (float64, bool) { return 1, c.closed() }

func (c *CircleCurve) ObjectiveNucleotides() (int, bool) {
	return c.TargetNbNt, c.TargetNbNt > 0
}

func (c *CircleCurve) NucleotidesPerFullTurn() (int, bool) {
	return c.TargetNbNt, c.TargetNbNt > 0 && c.closed()
}

// TorusConcentricCircleParams places one of NumberOfHelices circles evenly
// spread around the section of a torus.
type TorusConcentricCircleParams struct {
	Radius          float64 `json:"radius"`
	NumberOfHelices int     `json:"number_of_helices"`
	// HelixIndex is 0 at the equator and grows clockwise.
	HelixIndex          int     `json:"helix_index"`
	HelixIndexShift     float64 `json:"helix_index_shift,omitempty"`
	InterHelixCenterGap float64 `json:"inter_helix_center_gap,omitempty"`
}

// NewTorusConcentricCircle returns the circle followed by helix p.HelixIndex.
// Its abscissa is scaled so that all the circles of the torus stay in register
// with the outermost one.
func NewTorusConcentricCircle(p TorusConcentricCircleParams, hp HelixParameters) (*CircleCurve, error) {
	if p.NumberOfHelices < 2 {
		return nil, fmt.Errorf("torus section with %d helices: %w", p.NumberOfHelices, ErrInvalidParameter)
	}
	gap := p.InterHelixCenterGap
	if gap == 0 {
		gap = hp.InterHelixAxisGap()
	}
	angle := 2 * math.Pi / float64(p.NumberOfHelices)
	section := gap / 2 / math.Sin(angle/2)
	phi := angle * (float64(p.HelixIndex) + p.HelixIndexShift)
	radius := p.Radius - section*math.Cos(phi)
	if !(radius > 0) {
		return nil, fmt.Errorf("torus radius %g smaller than its section %g: %w", p.Radius, section, ErrDegenerate)
	}
	return NewCircleCurve(CircleCurveParams{
		Radius:                  radius,
		Z:                       section * math.Sin(phi),
		AbscissaConverterFactor: radius / (p.Radius + section),
	})
}
