package dnacurve

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	// arcLengthTolerance is the relative tolerance of numeric arc lengths.
	arcLengthTolerance = 1e-5
	// deltaMax is the number of windows the domain of a curve is split into
	// when searching for the next nucleotide, so that a single quadrature
	// never spans regions of very different speed.
	deltaMax      = 256
	gaussPoints   = 8
	maxQuadDepth  = 30
	maxNewtonIter = 60
	quickNewton   = 6
)

// speedNorm returns |c'(t)|.
func speedNorm(c Curve, t float64) float64 {
	return r3.Norm(Speed(c, t))
}

// quadLength integrates |c'| over [a, b] with adaptive Gauss-Legendre panels.
// The result is negative when b < a.
func quadLength(c Curve, a, b, tol float64) float64 {
	if a == b {
		return 0
	}
	sign := 1.0
	if b < a {
		a, b = b, a
		sign = -1
	}
	f := func(t float64) float64 { return speedNorm(c, t) }
	whole := quad.Fixed(f, a, b, gaussPoints, quad.Legendre{}, 0)
	return sign * adaptiveQuad(f, a, b, whole, tol, maxQuadDepth)
}

func adaptiveQuad(f func(float64) float64, a, b, whole, tol float64, depth int) float64 {
	m := a + (b-a)/2
	left := quad.Fixed(f, a, m, gaussPoints, quad.Legendre{}, 0)
	right := quad.Fixed(f, m, b, gaussPoints, quad.Legendre{}, 0)
	sum := left + right
	if depth <= 0 || math.Abs(sum-whole) <= tol*math.Abs(sum) || math.Abs(sum-whole) < 1e-14 {
		return sum
	}
	return adaptiveQuad(f, a, m, left, tol, depth-1) + adaptiveQuad(f, m, b, right, tol, depth-1)
}

// Length returns the length of c between t1 and t2, using the closed form
// abscissa when c has one. It is negative when t2 < t1.
func Length(c Curve, t1, t2 float64) float64 {
	if s1, ok := Abscissa(c, t1); ok {
		s2, _ := Abscissa(c, t2)
		return s2 - s1
	}
	return quadLength(c, t1, t2, arcLengthTolerance)
}

// arclength measures distances along a curve and finds the parameter at a
// given distance.
type arclength interface {
	// between returns the signed length from a to b.
	between(a, b float64) float64
	// step returns the parameter at signed distance ds from t.
	step(t, ds float64) float64
}

// closedForm walks a curve with a closed form abscissa.
type closedForm struct {
	c   Abscissaer
	inv InverseAbscissaer
	num numericArclength
}

func (cf closedForm) between(a, b float64) float64 { return cf.c.Abscissa(b) - cf.c.Abscissa(a) }

func (cf closedForm) step(t, ds float64) float64 {
	if cf.inv != nil {
		return cf.inv.InverseAbscissa(cf.c.Abscissa(t) + ds)
	}
	return cf.num.solve(t, ds, cf.between)
}

// timeMapped walks a curve through a tabulated or linear time map.
type timeMapped struct {
	m *TimeMap
}

func (tm timeMapped) between(a, b float64) float64 { return tm.m.Abscissa(b) - tm.m.Abscissa(a) }

func (tm timeMapped) step(t, ds float64) float64 { return tm.m.Time(tm.m.Abscissa(t) + ds) }

// numericArclength walks a curve by quadrature and safeguarded Newton
// iterations, the derivative of the length being the speed.
type numericArclength struct {
	c          Curve
	tmin, tmax float64
	quick      bool
}

func (na numericArclength) tol() float64 {
	if na.quick {
		return 100 * arcLengthTolerance
	}
	return arcLengthTolerance
}

func (na numericArclength) between(a, b float64) float64 { return quadLength(na.c, a, b, na.tol()) }

func (na numericArclength) step(t, ds float64) float64 { return na.solve(t, ds, na.between) }

// solve finds u such that length(t, u) = ds. The search is bracketed by
// windows of width (tmax-tmin)/deltaMax.
func (na numericArclength) solve(t, ds float64, length func(a, b float64) float64) float64 {
	if ds == 0 {
		return t
	}
	dir := math.Copysign(1, ds)
	target := math.Abs(ds)
	window := (na.tmax - na.tmin) / deltaMax
	if !(window > 0) || math.IsInf(window, 0) {
		window = 1
	}
	// Grow the bracket [lo, hi] window by window until it contains the root.
	lo, hi := t, t+dir*window
	acc := 0.0
	for i := 0; ; i++ {
		l := math.Abs(length(lo, hi))
		if acc+l >= target || i > 4*deltaMax {
			break
		}
		acc += l
		lo = hi
		hi += dir * window
	}
	u := lo
	if v := speedNorm(na.c, lo); v > zeroSpeed {
		u = lo + dir*(target-acc)/v
	}
	iters := maxNewtonIter
	if na.quick {
		iters = quickNewton
	}
	a, b := math.Min(lo, hi), math.Max(lo, hi)
	for i := 0; i < iters; i++ {
		if u <= a || u >= b {
			u = a + (b-a)/2
		}
		g := acc + math.Abs(length(lo, u)) - target
		if math.Abs(g) <= 1e-12*math.Max(1, target) {
			return u
		}
		// g increases when u moves away from t.
		if (g > 0) == (dir > 0) {
			b = u
		} else {
			a = u
		}
		v := speedNorm(na.c, u)
		if v > zeroSpeed {
			u -= dir * g / v
		} else {
			u = a + (b-a)/2
		}
		if b-a <= 1e-15*math.Max(1, math.Abs(u)) {
			return u
		}
	}
	return u
}

// arclengthOf selects the way distances along c are measured.
func arclengthOf(c Curve, tmin, tmax float64) arclength {
	if s, ok := c.(Synchronizer); ok {
		if m, ok := s.TimeMap(); ok && m != nil {
			return timeMapped{m: m}
		}
	}
	num := numericArclength{c: c, tmin: tmin, tmax: tmax, quick: discretizeQuickly(c)}
	if a, ok := c.(Abscissaer); ok {
		inv, _ := c.(InverseAbscissaer)
		return closedForm{c: a, inv: inv, num: num}
	}
	if precomputePolynomials(c) {
		m, err := TimeMapOf(c, tmin, tmax, 0)
		if err == nil {
			return timeMapped{m: m}
		}
		Logger().Warn("abscissa precomputation failed, using quadrature", "err", err)
	}
	return num
}
