package dnacurve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Chebyshev is a polynomial expressed in the Chebyshev basis of the
// interval [Min, Max].
type Chebyshev struct {
	Coeffs   []float64
	Min, Max float64
}

func (ch Chebyshev) normalize(x float64) float64 {
	return (2*x - ch.Min - ch.Max) / (ch.Max - ch.Min)
}

// Evaluate returns the value of the polynomial at x using Clenshaw's
// recurrence.
func (ch Chebyshev) Evaluate(x float64) float64 {
	if len(ch.Coeffs) == 0 {
		return 0
	}
	u := ch.normalize(x)
	var b1, b2 float64
	for k := len(ch.Coeffs) - 1; k >= 1; k-- {
		b1, b2 = 2*u*b1-b2+ch.Coeffs[k], b1
	}
	return u*b1 - b2 + ch.Coeffs[0]
}

// Derivative returns the derivative of the polynomial with respect to x.
func (ch Chebyshev) Derivative() Chebyshev {
	n := len(ch.Coeffs) - 1
	if n < 1 {
		return Chebyshev{Coeffs: []float64{0}, Min: ch.Min, Max: ch.Max}
	}
	d := make([]float64, n+1)
	for k := n; k >= 1; k-- {
		d[k-1] = 2 * float64(k) * ch.Coeffs[k]
		if k+1 <= n {
			d[k-1] += d[k+1]
		}
	}
	d[0] /= 2
	scale := 2 / (ch.Max - ch.Min)
	for i := range d {
		d[i] *= scale
	}
	return Chebyshev{Coeffs: d[:n], Min: ch.Min, Max: ch.Max}
}

// Degree returns the degree of the polynomial.
func (ch Chebyshev) Degree() int { return len(ch.Coeffs) - 1 }

// FitChebyshevPoints fits the (xs[i], ys[i]) samples in the least squares
// sense with the polynomial of lowest degree whose largest residual is below
// tol, up to maxDegree.
func FitChebyshevPoints(xs, ys []float64, min, max, tol float64, maxDegree int) (Chebyshev, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return Chebyshev{}, fmt.Errorf("fitting %d abscissas to %d values: %w", len(xs), len(ys), ErrInvalidParameter)
	}
	if !(max > min) {
		return Chebyshev{}, fmt.Errorf("empty fitting interval [%g, %g]: %w", min, max, ErrInvalidParameter)
	}
	if maxDegree > len(xs)-1 {
		maxDegree = len(xs) - 1
	}
	var best Chebyshev
	for deg := 0; deg <= maxDegree; deg = nextDegree(deg, maxDegree) {
		ch, err := leastSquaresChebyshev(xs, ys, min, max, deg)
		if err != nil {
			return Chebyshev{}, err
		}
		best = ch
		worst := 0.0
		for i, x := range xs {
			worst = math.Max(worst, math.Abs(ch.Evaluate(x)-ys[i]))
		}
		if worst <= tol || deg == maxDegree {
			break
		}
	}
	return best, nil
}

func nextDegree(deg, maxDegree int) int {
	if deg == maxDegree {
		return deg + 1
	}
	next := 2*deg + 1
	if next > maxDegree {
		next = maxDegree
	}
	return next
}

func leastSquaresChebyshev(xs, ys []float64, min, max float64, deg int) (Chebyshev, error) {
	ch := Chebyshev{Min: min, Max: max}
	a := mat.NewDense(len(xs), deg+1, nil)
	for i, x := range xs {
		u := ch.normalize(x)
		tPrev, t := 1.0, u
		a.Set(i, 0, 1)
		for j := 1; j <= deg; j++ {
			a.Set(i, j, t)
			tPrev, t = t, 2*u*t-tPrev
		}
	}
	var c mat.VecDense
	if err := c.SolveVec(a, mat.NewVecDense(len(ys), append([]float64(nil), ys...))); err != nil {
		return Chebyshev{}, fmt.Errorf("chebyshev least squares of degree %d: %w", deg, err)
	}
	ch.Coeffs = make([]float64, deg+1)
	for j := range ch.Coeffs {
		ch.Coeffs[j] = c.AtVec(j)
	}
	return ch, nil
}

// FitChebyshev approximates f over [min, max] to tol, sampling it at
// Chebyshev nodes.
func FitChebyshev(f func(float64) float64, min, max, tol float64, maxDegree int) (Chebyshev, error) {
	n := 2*maxDegree + 2
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := range xs {
		u := math.Cos(math.Pi * (float64(i) + 0.5) / float64(n))
		xs[i] = min + (u+1)*(max-min)/2
		ys[i] = f(xs[i])
	}
	return FitChebyshevPoints(xs, ys, min, max, tol, maxDegree)
}

// PolynomialCurve is a curve whose coordinates are Chebyshev polynomials.
// t ∈ [0, 1] is mapped onto the interval of each coordinate and positions
// are multiplied by Scale.
type PolynomialCurve struct {
	X, Y, Z Chebyshev
	Scale   float64

	dx, dy, dz    Chebyshev
	ddx, ddy, ddz Chebyshev
}

// NewPolynomialCurve returns the curve of coordinates x, y and z. Positions
// are multiplied by scale, 0.1 for coordinates given in Ångström.
func NewPolynomialCurve(x, y, z Chebyshev, scale float64) (*PolynomialCurve, error) {
	for _, ch := range [3]Chebyshev{x, y, z} {
		if len(ch.Coeffs) == 0 || !(ch.Max > ch.Min) {
			return nil, fmt.Errorf("invalid polynomial coordinate: %w", ErrInvalidParameter)
		}
	}
	if scale == 0 {
		return nil, fmt.Errorf("zero polynomial curve scale: %w", ErrInvalidParameter)
	}
	pc := &PolynomialCurve{X: x, Y: y, Z: z, Scale: scale}
	pc.dx, pc.dy, pc.dz = x.Derivative(), y.Derivative(), z.Derivative()
	pc.ddx, pc.ddy, pc.ddz = pc.dx.Derivative(), pc.dy.Derivative(), pc.dz.Derivative()
	return pc, nil
}

// onInterval maps t ∈ [0, 1] onto the interval of ch.
func onInterval(ch Chebyshev, t float64) float64 { return ch.Min*(1-t) + ch.Max*t }

func intervalWidth(ch Chebyshev) float64 { return ch.Max - ch.Min }

func (pc *PolynomialCurve) Position(t float64) r3.Vec {
	return r3.Scale(pc.Scale, r3.Vec{
		X: pc.X.Evaluate(onInterval(pc.X, t)),
		Y: pc.Y.Evaluate(onInterval(pc.Y, t)),
		Z: pc.Z.Evaluate(onInterval(pc.Z, t)),
	})
}

func (pc *PolynomialCurve) Speed(t float64) r3.Vec {
	return r3.Scale(pc.Scale, r3.Vec{
		X: intervalWidth(pc.X) * pc.dx.Evaluate(onInterval(pc.X, t)),
		Y: intervalWidth(pc.Y) * pc.dy.Evaluate(onInterval(pc.Y, t)),
		Z: intervalWidth(pc.Z) * pc.dz.Evaluate(onInterval(pc.Z, t)),
	})
}

func (pc *PolynomialCurve) Acceleration(t float64) r3.Vec {
	wx, wy, wz := intervalWidth(pc.X), intervalWidth(pc.Y), intervalWidth(pc.Z)
	return r3.Scale(pc.Scale, r3.Vec{
		X: wx * wx * pc.ddx.Evaluate(onInterval(pc.X, t)),
		Y: wy * wy * pc.ddy.Evaluate(onInterval(pc.Y, t)),
		Z: wz * wz * pc.ddz.Evaluate(onInterval(pc.Z, t)),
	})
}

func (pc *PolynomialCurve) Bounds() Bounds { return Finite }

// PrecomputePolynomials implements PolynomialPrecomputer.
func (pc *PolynomialCurve) PrecomputePolynomials() bool { return true }
