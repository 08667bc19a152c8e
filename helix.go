package dnacurve

import (
	"fmt"
	"math"
)

// HelixParameters holds the geometry of a double helix. Lengths are in nanometers
// and angles in radians.
type HelixParameters struct {
	// Rise is the distance between two consecutive base pairs along the helix axis.
	Rise float64
	// HelixRadius is the distance between the axis and a nucleotide.
	HelixRadius float64
	// BasesPerTurn is the number of base pairs in one helical turn.
	BasesPerTurn float64
	// GrooveAngle is the angle between the two nucleotides of a base pair.
	GrooveAngle float64
	// InterHelixGap is the minimal distance between two neighbouring helices.
	InterHelixGap float64
	// Inclination is the axial shift of the backward strand nucleotide relative
	// to its forward partner.
	Inclination float64
}

// GearyDNA are the DNA parameters of Geary, Rothemund and Andersen (2014).
var GearyDNA = HelixParameters{
	Rise:          0.332,
	HelixRadius:   1,
	BasesPerTurn:  10.44,
	GrooveAngle:   -0.24 * math.Pi,
	InterHelixGap: 0.65,
	Inclination:   0,
}

// Validate returns an error wrapping ErrInvalidParameter if hp cannot
// describe a helix.
func (hp HelixParameters) Validate() error {
	switch {
	case !(hp.Rise > 0):
		return fmt.Errorf("rise must be positive, got %g: %w", hp.Rise, ErrInvalidParameter)
	case !(hp.HelixRadius > 0):
		return fmt.Errorf("helix radius must be positive, got %g: %w", hp.HelixRadius, ErrInvalidParameter)
	case !(hp.BasesPerTurn > 0):
		return fmt.Errorf("bases per turn must be positive, got %g: %w", hp.BasesPerTurn, ErrInvalidParameter)
	case hp.InterHelixGap < 0 || math.IsNaN(hp.InterHelixGap):
		return fmt.Errorf("negative inter helix gap %g: %w", hp.InterHelixGap, ErrInvalidParameter)
	}
	return nil
}

// Theta returns the phase of the nucleotide at offset n on a straight helix
// rolled by roll radians.
func (hp HelixParameters) Theta(n int, forward bool, roll float64) float64 {
	theta := float64(n)*(-2*math.Pi/hp.BasesPerTurn) + roll
	if !forward {
		theta += math.Pi + hp.GrooveAngle
	}
	return theta
}

// InterHelixAxisGap is the distance between the axes of two neighbouring helices.
func (hp HelixParameters) InterHelixAxisGap() float64 {
	return 2*hp.HelixRadius + hp.InterHelixGap
}

// DistAC is the distance between a nucleotide and the nucleotide that
// follows it on the same strand.
func (hp HelixParameters) DistAC() float64 {
	ac2 := math.Sqrt2 * math.Sqrt(1-math.Cos(2*math.Pi/hp.BasesPerTurn)) * hp.HelixRadius
	return math.Hypot(ac2, hp.Rise)
}

// ThetaShift returns the angle by which consecutive nucleotides of a curve
// with a rise ratio must turn so that the distance between them stays DistAC.
// It reports false when c has no rise ratio or when no such angle exists.
func ThetaShift(c Curve, hp HelixParameters) (float64, bool) {
	ratio, ok := RiseRatio(c)
	if !ok {
		return 0, false
	}
	realZ := ratio * hp.Rise
	d1 := hp.DistAC()
	r := hp.HelixRadius
	cos := 1 - (d1*d1-realZ*realZ)/(2*r*r)
	if math.Abs(cos) > 1 {
		return 0, false
	}
	return math.Acos(cos), true
}

// OmegaFromTwist converts a twist in radians per nucleotide into an angular
// speed in radians per nanometer along the axis.
func OmegaFromTwist(twist float64, hp HelixParameters) float64 {
	return twist / hp.Rise
}

// OmegaFromTurnsPer100Nt converts a number of turns every 100 nucleotides
// into an angular speed in radians per nanometer.
func OmegaFromTurnsPer100Nt(turns float64, hp HelixParameters) float64 {
	return OmegaFromTwist(turns*2*math.Pi/100, hp)
}
