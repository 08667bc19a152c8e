package dnacurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// displayRange bounds the offsets reported by Range.
const displayRange = 100

// Geometry returns the discretized curve.
func (d *Discretized) Geometry() Curve { return d.geometry }

// T0 returns the index of the sample holding the nucleotide of offset 0.
func (d *Discretized) T0() int { return d.t0 }

// Len returns the number of samples.
func (d *Discretized) Len() int { return len(d.tNucl) }

// Length returns the length of the discretized domain of the curve.
func (d *Discretized) Length() float64 { return d.length }

// Step returns the arc length between two consecutive samples.
func (d *Discretized) Step() float64 { return d.step }

// PointCountForward returns the number of nucleotides with a non-negative offset.
func (d *Discretized) PointCountForward() int { return len(d.tNucl) - d.t0 }

// PointCountBackward returns the number of nucleotides with a negative offset.
func (d *Discretized) PointCountBackward() int { return d.t0 }

// FullTurn returns the number of nucleotides in one period of a closed curve.
func (d *Discretized) FullTurn() (float64, bool) {
	return d.nuclPosFullTurn, d.nuclPosFullTurn > 0
}

// ClosureMismatch returns the frame rotation left at the seam of a closed
// curve with a nucleotide target.
func (d *Discretized) ClosureMismatch() float64 { return d.closureMismatch }

// SegmentBreakpoints returns the offsets of the nucleotides that start a new
// 2D helix segment.
func (d *Discretized) SegmentBreakpoints() []int {
	return append([]int(nil), d.breakpoints...)
}

// IdxConversion returns the sample index of the nucleotide at offset n.
func (d *Discretized) IdxConversion(n int) (int, bool) {
	var idx int
	if n >= 0 {
		idx = n + d.t0
	} else {
		if -n > d.t0 {
			return 0, false
		}
		idx = d.t0 + n
	}
	if idx >= len(d.tNucl) {
		return 0, false
	}
	return idx, true
}

// Range returns the offsets that can be displayed, at most displayRange
// nucleotides on each side of the origin.
func (d *Discretized) Range() (min, max int) {
	min = -d.t0
	if min < -displayRange {
		min = -displayRange
	}
	max = min + len(d.tNucl) - 1
	if max > displayRange {
		max = displayRange
	}
	return min, max
}

// AxisPosition returns the point of the curve holding the nucleotide at offset n.
func (d *Discretized) AxisPosition(n int) (r3.Vec, bool) {
	idx, ok := d.IdxConversion(n)
	if !ok {
		return r3.Vec{}, false
	}
	return d.positionsForward[idx], true
}

// FrameAt returns the frame of the nucleotide at offset n on the given strand.
func (d *Discretized) FrameAt(n int, forward bool) (Frame, bool) {
	idx, ok := d.IdxConversion(n)
	if !ok {
		return Frame{}, false
	}
	if forward {
		return d.framesForward[idx], true
	}
	return d.framesBackward[idx], true
}

// NucleotideTime returns the curve parameter of the nucleotide at offset n.
func (d *Discretized) NucleotideTime(n int) (float64, bool) {
	idx, ok := d.IdxConversion(n)
	if !ok {
		return 0, false
	}
	return d.tNucl[idx], true
}

// CurvatureAt returns the curvature of the curve at the nucleotide of offset n.
func (d *Discretized) CurvatureAt(n int) (float64, bool) {
	idx, ok := d.IdxConversion(n)
	if !ok {
		return 0, false
	}
	return d.curvature[idx], true
}

// AxisPositions returns a copy of the sampled axis points, in sample order.
func (d *Discretized) AxisPositions() []r3.Vec {
	return append([]r3.Vec(nil), d.positionsForward...)
}

// NucleotidePosition returns the position of the nucleotide at offset n on
// the given strand. theta is the phase the nucleotide would have on a
// straight helix, see HelixParameters.Theta.
func (d *Discretized) NucleotidePosition(n int, forward bool, theta float64, hp HelixParameters) (r3.Vec, bool) {
	if d.legacy {
		return d.legacyNucleotidePosition(n, forward, theta, hp)
	}
	idx, ok := d.IdxConversion(n)
	if !ok {
		return r3.Vec{}, false
	}
	theta = d.phase(n, theta, hp)
	pos, frame := d.positionsForward[idx], d.framesForward[idx]
	if !forward {
		pos, frame = d.positionsBackward[idx], d.framesBackward[idx]
	}
	sin, cos := math.Sincos(theta)
	offset := frame.Apply(r3.Vec{X: -cos * hp.HelixRadius, Y: sin * hp.HelixRadius})
	return r3.Add(pos, offset), true
}

// phase returns the angle of the nucleotide at offset n in its frame.
func (d *Discretized) phase(n int, theta float64, hp HelixParameters) float64 {
	if shift, ok := ThetaShift(d.geometry, hp); ok {
		return (2*math.Pi/hp.BasesPerTurn-shift)*float64(n) + theta
	}
	pft := d.nuclPosFullTurn
	if pft <= 0 {
		return theta
	}
	// Nucleotides turn by -2π/BasesPerTurn each. Bend that rotation so that a
	// whole number of helix turns fits one period of the curve.
	first := d.framesForward[d.t0]
	i := d.t0 + int(math.Round(pft))
	last := d.framesForward[len(d.framesForward)-1]
	if i < len(d.framesForward) {
		last = d.framesForward[i]
	}
	additional := -first.AngleTo(last)
	final := pft*2*math.Pi/(-hp.BasesPerTurn) + additional
	delta := remEuclid(-remEuclid(final, 2*math.Pi), 2*math.Pi)
	if delta > math.Pi {
		delta -= 2 * math.Pi
	}
	return theta + delta/pft*float64(n)
}

func remEuclid(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += math.Abs(m)
	}
	return r
}
