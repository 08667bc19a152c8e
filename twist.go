package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// defaultTwistDomain bounds twists whose domain has not been set.
const defaultTwistDomain = 10

// Twist is a helical path of radius Radius around the Z axis, turning Omega
// radians every nanometer along Z. t is the height in nanometers. Helices of
// a twisted bundle follow twists of the same Omega and different Theta0.
type Twist struct {
	Theta0 float64 `json:"theta0"`
	Omega  float64 `json:"omega"`
	Radius float64 `json:"radius"`
	// MinT and MaxT default to ∓10 nm when nil.
	MinT *float64 `json:"t_min,omitempty"`
	MaxT *float64 `json:"t_max,omitempty"`
}

func (tw Twist) angle(t float64) float64 { return tw.Omega*t + tw.Theta0 }

func (tw Twist) Position(t float64) r3.Vec {
	s, c := math.Sincos(tw.angle(t))
	return r3.Vec{X: tw.Radius * c, Y: tw.Radius * s, Z: t}
}

func (tw Twist) Speed(t float64) r3.Vec {
	s, c := math.Sincos(tw.angle(t))
	k := tw.Radius * tw.Omega
	return r3.Vec{X: -k * s, Y: k * c, Z: 1}
}

func (tw Twist) Acceleration(t float64) r3.Vec {
	s, c := math.Sincos(tw.angle(t))
	k := tw.Radius * tw.Omega * tw.Omega
	return r3.Vec{X: -k * c, Y: -k * s}
}

func (tw Twist) speedNorm() float64 { return math.Hypot(1, tw.Radius*tw.Omega) }

func (tw Twist) Abscissa(t float64) float64        { return t * tw.speedNorm() }
func (tw Twist) InverseAbscissa(s float64) float64 { return s / tw.speedNorm() }
func (tw Twist) Bounds() Bounds                    { return BiInfinite }

func (tw Twist) TMin() float64 {
	if tw.MinT != nil {
		return *tw.MinT
	}
	return -defaultTwistDomain
}

func (tw Twist) TMax() float64 {
	if tw.MaxT != nil {
		return *tw.MaxT
	}
	return defaultTwistDomain
}

// SuperTwist is a supercoil: a helix of radius SuperRadius winding
// SuperOmega radians per nanometer around the twist of radius Radius and
// angular speed Omega.
type SuperTwist struct {
	Theta0      float64  `json:"theta0"`
	Omega       float64  `json:"omega"`
	Radius      float64  `json:"radius"`
	SuperOmega  float64  `json:"super_omega"`
	SuperRadius float64  `json:"super_radius"`
	MinT        *float64 `json:"t_min,omitempty"`
	MaxT        *float64 `json:"t_max,omitempty"`
}

// Validate returns an error if st cannot be discretized.
func (st SuperTwist) Validate() error {
	if st.Radius < 0 || st.SuperRadius < 0 {
		return fmt.Errorf("negative super twist radius: %w", ErrInvalidParameter)
	}
	return nil
}

func (st SuperTwist) axis() Twist {
	return Twist{Theta0: st.Theta0, Omega: st.Omega, Radius: st.Radius}
}

// Position has no closed form derivative, speed and curvature are estimated
// numerically.
func (st SuperTwist) Position(t float64) r3.Vec {
	ax := st.axis()
	center := ax.Position(t)
	tangent := r3.Unit(ax.Speed(t))
	s, c := math.Sincos(ax.angle(t))
	normal := r3.Vec{X: -c, Y: -s}
	if st.Radius == 0 {
		normal = r3.Vec{X: 1}
	}
	binormal := r3.Cross(tangent, normal)
	ss, cs := math.Sincos(st.SuperOmega * t)
	return r3.Add(center, r3.Add(r3.Scale(st.SuperRadius*cs, normal), r3.Scale(st.SuperRadius*ss, binormal)))
}

func (st SuperTwist) Bounds() Bounds { return BiInfinite }

func (st SuperTwist) TMin() float64 {
	if st.MinT != nil {
		return *st.MinT
	}
	return -defaultTwistDomain
}

func (st SuperTwist) TMax() float64 {
	if st.MaxT != nil {
		return *st.MaxT
	}
	return defaultTwistDomain
}
