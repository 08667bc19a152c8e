package dnacurve

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ClosureTolerance is the largest frame mismatch, in radians, left at the
// seam of a closed curve once the closure correction is applied.
var ClosureTolerance = 1e-6

// Discretized is a curve sampled at the position of its nucleotides.
// It is immutable and may be shared between goroutines.
//
// Samples are ordered by increasing parameter. The sample at index T0 is the
// first one with a non-negative parameter and holds the nucleotide of offset 0.
type Discretized struct {
	geometry Curve

	positionsForward  []r3.Vec
	positionsBackward []r3.Vec
	framesForward     []Frame
	framesBackward    []Frame
	curvature         []float64
	tNucl             []float64
	t0                int

	// nuclPosFullTurn is the number of nucleotides in one period, zero for
	// open curves.
	nuclPosFullTurn float64
	closureMismatch float64
	breakpoints     []int
	length          float64
	step            float64
	legacy          bool
}

// Discretize samples c every hp.Rise nanometers of arc length, scaled by the
// rise ratio of c, and attaches a transported frame to every sample.
// Discretize never fails. A curve with an empty domain yields an empty
// Discretized whose queries all report false.
func Discretize(c Curve, hp HelixParameters) *Discretized {
	d := &Discretized{geometry: c, legacy: IsLegacy(c)}
	if e, ok := c.(interface{ Empty() bool }); ok && e.Empty() {
		return d
	}
	tmin, tmax := TMin(c), TMax(c)
	if !(tmax >= tmin) || math.IsInf(tmin, 0) || math.IsInf(tmax, 0) {
		Logger().Warn("curve has an invalid domain", "tmin", tmin, "tmax", tmax)
		return d
	}
	al := arclengthOf(c, tmin, tmax)
	d.length = al.between(tmin, tmax)
	origin := math.Min(math.Max(0, tmin), tmax)

	delta := hp.Rise
	if r, ok := RiseRatio(c); ok && r > 0 {
		delta *= r
	}
	period, periodic := FullTurnAt(c)
	periodic = periodic && period > 0
	closed := periodic && math.Abs(tmax-tmin-period) <= 1e-9*math.Max(1, period)
	turnTarget, hasTarget := NucleotidesPerFullTurn(c)
	hasTarget = hasTarget && periodic && turnTarget > 0
	var periodLength float64
	if periodic {
		periodLength = al.between(origin, origin+period)
	}

	var ts []float64
	if n, ok := ObjectiveNucleotides(c); ok && n > 0 {
		ts, delta = objectiveTimes(al, tmin, tmax, d.length, n, closed)
		d.t0 = len(ts)
		for i, t := range ts {
			if t >= origin {
				d.t0 = i
				break
			}
		}
	} else {
		if hasTarget {
			delta = periodLength / float64(turnTarget)
		}
		ts, d.t0 = walk(al, origin, tmin, tmax, delta, d.length, closed)
	}
	d.step = delta
	d.tNucl = ts
	if len(ts) == 0 {
		return d
	}
	switch {
	case hasTarget:
		d.nuclPosFullTurn = float64(turnTarget)
	case periodic && delta > 0:
		d.nuclPosFullTurn = periodLength / delta
	}

	d.framesForward = transportFrames(c, ts, d.t0)
	if hasTarget {
		d.closureMismatch = correctClosure(c, ts, d.framesForward, d.t0, turnTarget, period)
	}
	if s, ok := c.(Surfacer); ok {
		for i, t := range ts {
			if info, ok := s.SurfaceInfo(t); ok {
				d.framesForward[i] = surfaceFrame(Speed(c, t), info.Normal)
			}
		}
	}

	translation, hasTranslation := r3.Vec{}, false
	if tr, ok := c.(Translator); ok {
		translation, hasTranslation = tr.Translation()
	}
	place := func(t float64, f Frame) r3.Vec {
		p := c.Position(t)
		if hasTranslation {
			p = r3.Add(p, f.Apply(translation))
		}
		return p
	}
	d.positionsForward = make([]r3.Vec, len(ts))
	d.curvature = make([]float64, len(ts))
	for i, t := range ts {
		d.positionsForward[i] = place(t, d.framesForward[i])
		d.curvature[i] = Curvature(c, t)
	}
	if hp.Inclination == 0 {
		d.positionsBackward = d.positionsForward
		d.framesBackward = d.framesForward
	} else {
		d.positionsBackward = make([]r3.Vec, len(ts))
		d.framesBackward = make([]Frame, len(ts))
		for i, t := range ts {
			tb := al.step(t, hp.Inclination)
			d.framesBackward[i] = d.framesForward[i].Transport(Speed(c, tb))
			d.positionsBackward[i] = place(tb, d.framesBackward[i])
		}
	}

	if sub, ok := c.(Subdivider); ok {
		prev, _ := sub.Subdivision(ts[0])
		for i := 1; i < len(ts); i++ {
			s, _ := sub.Subdivision(ts[i])
			if s != prev {
				d.breakpoints = append(d.breakpoints, i-d.t0)
			}
			prev = s
		}
	}
	Logger().Debug("discretized curve",
		"length", d.length,
		"step", d.step,
		"forward", d.PointCountForward(),
		"backward", d.PointCountBackward(),
		"closure_mismatch", d.closureMismatch,
	)
	return d
}

// walk samples [tmin, tmax] every delta starting from origin, in both
// directions. It returns the samples in increasing order and the index of
// origin among them.
func walk(al arclength, origin, tmin, tmax, delta, length float64, closed bool) ([]float64, int) {
	if !(delta > 0) {
		return []float64{origin}, 0
	}
	slack := 1e-9 * delta
	absolute := isAbsolute(al)
	var back []float64
	t := origin
	rem := al.between(tmin, origin)
	for i := 1; rem >= delta-slack; i++ {
		if absolute {
			t = al.step(origin, -float64(i)*delta)
		} else {
			t = al.step(t, -delta)
		}
		back = append(back, t)
		rem -= delta
	}
	ts := make([]float64, 0, len(back)+int(length/delta)+2)
	for i := len(back) - 1; i >= 0; i-- {
		ts = append(ts, back[i])
	}
	t0 := len(ts)
	ts = append(ts, origin)
	t = origin
	rem = al.between(origin, tmax)
	for i := 1; rem >= delta-slack; i++ {
		if absolute {
			t = al.step(origin, float64(i)*delta)
		} else {
			t = al.step(t, delta)
		}
		ts = append(ts, t)
		rem -= delta
	}
	if closed && len(ts)-t0 > 1 {
		// The sample closing the loop duplicates the first one.
		gap := length - float64(len(ts)-1)*delta
		if gap < delta/2 {
			ts = ts[:len(ts)-1]
		}
	}
	return ts, t0
}

// objectiveTimes divides [tmin, tmax] so that exactly n samples are produced.
func objectiveTimes(al arclength, tmin, tmax, length float64, n int, closed bool) ([]float64, float64) {
	if n == 1 {
		return []float64{tmin}, length
	}
	steps := n - 1
	if closed {
		steps = n
	}
	delta := length / float64(steps)
	absolute := isAbsolute(al)
	ts := make([]float64, n)
	ts[0] = tmin
	for i := 1; i < n; i++ {
		if absolute {
			ts[i] = al.step(tmin, float64(i)*delta)
		} else {
			ts[i] = al.step(ts[i-1], delta)
		}
	}
	if !closed {
		ts[n-1] = tmax
	}
	return ts, delta
}

// isAbsolute reports whether al can jump to any abscissa without walking.
func isAbsolute(al arclength) bool {
	switch a := al.(type) {
	case timeMapped:
		return true
	case closedForm:
		return a.inv != nil
	}
	return false
}

// transportFrames computes the frames at ts by parallel transport from the
// frame at index anchor.
func transportFrames(c Curve, ts []float64, anchor int) []Frame {
	frames := make([]Frame, len(ts))
	if anchor >= len(ts) {
		anchor = len(ts) - 1
	}
	tangent := Speed(c, ts[anchor])
	frames[anchor] = PerpendicularBasis(tangent)
	if fr, ok := c.(InitialFramer); ok {
		if f, ok := fr.InitialFrame(); ok {
			frames[anchor] = f.Transport(tangent)
		}
	}
	for i := anchor + 1; i < len(ts); i++ {
		frames[i] = frames[i-1].Transport(Speed(c, ts[i]))
	}
	for i := anchor - 1; i >= 0; i-- {
		frames[i] = frames[i+1].Transport(Speed(c, ts[i]))
	}
	return frames
}

// correctClosure measures the rotation about the tangent accumulated by the
// frames over one period and spreads its opposite linearly over the samples,
// so that the frame one period after the anchor matches the anchor.
// It returns the mismatch left after correction.
func correctClosure(c Curve, ts []float64, frames []Frame, anchor, k int, period float64) float64 {
	if anchor >= len(ts) {
		return 0
	}
	end := anchor + k
	var fEnd Frame
	switch {
	case end < len(frames):
		fEnd = frames[end]
	case end == len(frames):
		fEnd = frames[end-1].Transport(Speed(c, ts[anchor]+period))
	default:
		// Less than one period was sampled.
		return 0
	}
	mismatch := frames[anchor].AngleTo(fEnd)
	perStep := -mismatch / float64(k)
	for i := range frames {
		frames[i] = frames[i].RotateAboutTangent(float64(i-anchor) * perStep)
	}
	fEnd = fEnd.RotateAboutTangent(float64(k) * perStep)
	residual := math.Abs(frames[anchor].AngleTo(fEnd))
	if residual > ClosureTolerance {
		Logger().Warn("closed curve seam above tolerance", "mismatch", residual, "tolerance", ClosureTolerance)
	}
	return residual
}
