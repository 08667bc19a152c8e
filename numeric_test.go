package dnacurve_test

import (
	"math"
	"testing"

	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestClosedFormAbscissa(t *testing.T) {
	hp := dnacurve.GearyDNA
	spiral, err := dnacurve.NewSpiralCylinder(dnacurve.SpiralCylinderParams{Radius: 5, NumberOfTurns: 3}, hp)
	if err != nil {
		t.Fatal(err)
	}
	circle, err := dnacurve.NewCircleCurve(dnacurve.CircleCurveParams{Radius: 7, Z: 1})
	if err != nil {
		t.Fatal(err)
	}
	tube, err := dnacurve.NewTubeSpiral(dnacurve.TubeSpiralParams{Radius: 4, Angle: 0.3, Turns: 2})
	if err != nil {
		t.Fatal(err)
	}
	seam, err := dnacurve.NewSphereTennisBallSeam(dnacurve.SphereTennisBallSeamParams{Radius: 10, PhiDeg: 40})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		c    dnacurve.Curve
		a, b float64
	}{
		{"twist", dnacurve.Twist{Omega: 0.4, Radius: 3, Theta0: 1}, -5, 7},
		{"spiral cylinder", spiral, -1, 4},
		{"circle", circle, 0, 1},
		{"tube spiral", tube, 0.2, 1.9},
		{"tennis ball seam", seam, 1, 50},
	} {
		closed := dnacurve.Length(test.c, test.a, test.b)
		numeric := dnacurve.Length(positionOnly{test.c}, test.a, test.b)
		if !scalar.EqualWithinRel(closed, numeric, 1e-4) {
			t.Errorf("%s: closed form length %g, quadrature %g", test.name, closed, numeric)
		}
		if back := dnacurve.Length(test.c, test.b, test.a); back != -closed {
			t.Errorf("%s: reversed length %g, want %g", test.name, back, -closed)
		}
	}
}

func TestInverseAbscissa(t *testing.T) {
	tw := dnacurve.Twist{Omega: 1.1, Radius: 2}
	for _, tt := range []float64{-3, 0, 0.5, 8} {
		s, _ := dnacurve.Abscissa(tw, tt)
		back, ok := dnacurve.InverseAbscissa(tw, s)
		if !ok || !scalar.EqualWithinAbs(back, tt, 1e-12) {
			t.Errorf("inverse abscissa of %g gave %g", tt, back)
		}
	}
	if _, ok := dnacurve.Abscissa(positionOnly{tw}, 1); ok {
		t.Error("curve without closed form abscissa reported one")
	}
}

func TestNumericDerivatives(t *testing.T) {
	tw := dnacurve.Twist{Omega: 0.7, Radius: 2.5, Theta0: 0.2}
	for _, tt := range []float64{-2, 0, 1.3} {
		if !vecClose(dnacurve.Speed(positionOnly{tw}, tt), tw.Speed(tt), 1e-6) {
			t.Errorf("numeric speed at %g differs from closed form", tt)
		}
		if !vecClose(dnacurve.Acceleration(positionOnly{tw}, tt), tw.Acceleration(tt), 1e-4) {
			t.Errorf("numeric acceleration at %g differs from closed form", tt)
		}
	}
}

func TestCurvature(t *testing.T) {
	circle, err := dnacurve.NewCircleCurve(dnacurve.CircleCurveParams{Radius: 10})
	if err != nil {
		t.Fatal(err)
	}
	for _, tt := range []float64{0, 0.25, 0.7} {
		if k := dnacurve.Curvature(circle, tt); !scalar.EqualWithinAbs(k, 0.1, 1e-12) {
			t.Errorf("circle of radius 10 has curvature %g at %g", k, tt)
		}
	}
	// Curvature of a helix is R/(R²+p²) with p = 1/ω.
	tw := dnacurve.Twist{Omega: 0.5, Radius: 3}
	want := 3 / (9 + 4.0)
	if k := dnacurve.Curvature(tw, 1); !scalar.EqualWithinAbs(k, want, 1e-12) {
		t.Errorf("helix curvature %g, want %g", k, want)
	}
	if k := dnacurve.Curvature(line{dir: r3.Vec{X: 1}, tmax: 1}, 0.5); k != 0 {
		t.Errorf("line curvature %g", k)
	}
	stopped := line{tmax: 1}
	if k := dnacurve.Curvature(stopped, 0.5); k != 0 || math.IsNaN(k) {
		t.Errorf("stationary curve curvature %g", k)
	}
}
