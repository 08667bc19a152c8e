package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// SpiralCylinderParams describes one of NumberOfHelices interleaved spirals
// wound around a cylinder of axis Z.
type SpiralCylinderParams struct {
	Theta0        float64 `json:"theta_0"`
	Radius        float64 `json:"radius"`
	NumberOfTurns float64 `json:"number_of_turns"`
	// NumberOfHelices defaults to 2.
	NumberOfHelices   int     `json:"number_of_helices,omitempty"`
	HelixIndex        int     `json:"helix_index"`
	InterHelixAxisGap float64 `json:"inter_helix_axis_gap,omitempty"`
}

// SpiralCylinder is a spiral whose pitch leaves room for the other helices
// of its family between two of its turns. t counts turns and ranges over
// [-1, NumberOfTurns+1].
type SpiralCylinder struct {
	SpiralCylinderParams
	risePerTurn float64
	// dAbscissa is the derivative of the arc length with respect to t.
	dAbscissa float64
	Sync
}

// NewSpiralCylinder returns the spiral described by p. It fails when the
// radius is too small for the helices to fit side by side.
func NewSpiralCylinder(p SpiralCylinderParams, hp HelixParameters) (*SpiralCylinder, error) {
	if p.NumberOfHelices == 0 {
		p.NumberOfHelices = 2
	}
	if !(p.Radius > 0) || p.NumberOfHelices < 0 {
		return nil, fmt.Errorf("spiral cylinder radius %g with %d helices: %w", p.Radius, p.NumberOfHelices, ErrInvalidParameter)
	}
	p.HelixIndex = ((p.HelixIndex % p.NumberOfHelices) + p.NumberOfHelices) % p.NumberOfHelices
	gap := p.InterHelixAxisGap
	if gap == 0 {
		gap = hp.InterHelixAxisGap()
	}
	n := float64(p.NumberOfHelices)
	slope := n * gap / (2 * math.Pi * p.Radius)
	if slope >= 1 {
		return nil, fmt.Errorf("spiral cylinder radius %g too small for %d helices %g nm apart: %w", p.Radius, p.NumberOfHelices, gap, ErrInvalidParameter)
	}
	sc := &SpiralCylinder{SpiralCylinderParams: p}
	sc.risePerTurn = n * gap / math.Sqrt(1-slope*slope)
	sc.dAbscissa = math.Hypot(2*math.Pi*p.Radius, sc.risePerTurn)
	m, err := LinearTimeMap(sc.dAbscissa, -sc.dAbscissa*sc.TMin())
	if err != nil {
		return nil, err
	}
	sc.Sync = Sync{Singleton: m}
	return sc, nil
}

func (sc *SpiralCylinder) theta(t float64) float64 {
	return 2*math.Pi*t + sc.Theta0 + 2*math.Pi*float64(sc.HelixIndex)/float64(sc.NumberOfHelices)
}

func (sc *SpiralCylinder) Position(t float64) r3.Vec {
	s, c := math.Sincos(sc.theta(t))
	return r3.Vec{X: sc.Radius * c, Y: sc.Radius * s, Z: sc.risePerTurn * t}
}

func (sc *SpiralCylinder) Speed(t float64) r3.Vec {
	s, c := math.Sincos(sc.theta(t))
	k := 2 * math.Pi * sc.Radius
	return r3.Vec{X: -k * s, Y: k * c, Z: sc.risePerTurn}
}

func (sc *SpiralCylinder) Acceleration(t float64) r3.Vec {
	s, c := math.Sincos(sc.theta(t))
	k := 4 * math.Pi * math.Pi * sc.Radius
	return r3.Vec{X: -k * c, Y: -k * s}
}

// RisePerTurn returns the distance along Z between two turns of the spiral.
func (sc *SpiralCylinder) RisePerTurn() float64 { return sc.risePerTurn }

func (sc *SpiralCylinder) TMin() float64 { return -1 }
func (sc *SpiralCylinder) TMax() float64 { return sc.NumberOfTurns + 1 }

func (sc *SpiralCylinder) Abscissa(t float64) float64 { return sc.dAbscissa * (t - sc.TMin()) }

func (sc *SpiralCylinder) InverseAbscissa(s float64) float64 { return s/sc.dAbscissa + sc.TMin() }

func (sc *SpiralCylinder) Bounds() Bounds              { return BiInfinite }
func (sc *SpiralCylinder) FullTurnAt() (float64, bool) { return 1, true }

// TubeSpiralParams describes a spiral of constant pitch angle on a cylinder.
type TubeSpiralParams struct {
	Theta0 float64 `json:"theta_0"`
	Radius float64 `json:"radius"`
	// Angle is the angle between the spiral and the horizontal plane.
	Angle float64 `json:"angle"`
	Turns float64 `json:"turns"`
}

// TubeSpiral winds Turns times around a cylinder of axis Z, t ∈ [0, Turns].
type TubeSpiral struct {
	TubeSpiralParams
	rise float64
}

// NewTubeSpiral returns the spiral described by p.
func NewTubeSpiral(p TubeSpiralParams) (*TubeSpiral, error) {
	if !(p.Radius > 0) || !(p.Turns > 0) {
		return nil, fmt.Errorf("tube spiral radius %g turns %g: %w", p.Radius, p.Turns, ErrInvalidParameter)
	}
	if !(math.Abs(p.Angle) < math.Pi/2) {
		return nil, fmt.Errorf("tube spiral angle %g: %w", p.Angle, ErrInvalidParameter)
	}
	return &TubeSpiral{TubeSpiralParams: p, rise: 2 * math.Pi * p.Radius * math.Tan(p.Angle)}, nil
}

func (ts *TubeSpiral) theta(t float64) float64 { return 2*math.Pi*t + ts.Theta0 }

func (ts *TubeSpiral) Position(t float64) r3.Vec {
	s, c := math.Sincos(ts.theta(t))
	return r3.Vec{X: ts.Radius * c, Y: ts.Radius * s, Z: ts.rise * t}
}

func (ts *TubeSpiral) Speed(t float64) r3.Vec {
	s, c := math.Sincos(ts.theta(t))
	k := 2 * math.Pi * ts.Radius
	return r3.Vec{X: -k * s, Y: k * c, Z: ts.rise}
}

func (ts *TubeSpiral) Acceleration(t float64) r3.Vec {
	s, c := math.Sincos(ts.theta(t))
	k := 4 * math.Pi * math.Pi * ts.Radius
	return r3.Vec{X: -k * c, Y: -k * s}
}

func (ts *TubeSpiral) perTurn() float64 { return 2 * math.Pi * ts.Radius / math.Cos(ts.Angle) }

func (ts *TubeSpiral) Abscissa(t float64) float64        { return ts.perTurn() * t }
func (ts *TubeSpiral) InverseAbscissa(s float64) float64 { return s / ts.perTurn() }
func (ts *TubeSpiral) TMin() float64                     { return 0 }
func (ts *TubeSpiral) TMax() float64                     { return ts.Turns }
func (ts *TubeSpiral) Bounds() Bounds                    { return Finite }
func (ts *TubeSpiral) FirstTheta() (float64, bool)       { return ts.theta(0), true }
func (ts *TubeSpiral) LastTheta() (float64, bool)        { return ts.theta(ts.Turns), true }
