package dnacurve_test

import (
	"errors"
	"math"
	"testing"

	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSections(t *testing.T) {
	l := dnacurve.Lemniscate{Scale: 3}
	if p := l.Point(0); !scalar.EqualWithinAbs(p.X, 3, 1e-15) || p.Y != 0 {
		t.Errorf("lemniscate starts at %v", p)
	}
	if p := l.Point(0.25); r2.Norm(p) > 1e-12 {
		t.Errorf("lemniscate crosses itself at %v", p)
	}
	e := dnacurve.Ellipse{SemiMajor: 4, SemiMinor: 2}
	if p := e.Point(0.25); !scalar.EqualWithinAbs(p.Y, 2, 1e-12) {
		t.Errorf("ellipse top at %v", p)
	}

	const n, radius = 24, 3.0
	points := make([]r2.Vec, n)
	for i := range points {
		s, c := math.Sincos(2 * math.Pi * float64(i) / n)
		points[i] = r2.Vec{X: radius * c, Y: radius * s}
	}
	section, err := dnacurve.SectionParams{Kind: dnacurve.SectionInterpolated, Points: points}.Section()
	if err != nil {
		t.Fatal(err)
	}
	for u := -0.5; u < 1.5; u += 0.01 {
		if r := r2.Norm(section.Point(u)); !scalar.EqualWithinAbs(r, radius, 5e-2) {
			t.Fatalf("interpolated circle has radius %g at %g", r, u)
		}
	}
	if !scalar.EqualWithinAbs(section.Point(0).X, radius, 1e-12) {
		t.Errorf("interpolated section does not go through its first point: %v", section.Point(0))
	}

	for _, bad := range []dnacurve.SectionParams{
		{Kind: dnacurve.SectionEllipse, SemiMajor: 1},
		{Kind: dnacurve.SectionLemniscate},
		{Kind: dnacurve.SectionInterpolated, Points: points[:2]},
		{Kind: "square"},
	} {
		if _, err := bad.Section(); !errors.Is(err, dnacurve.ErrInvalidParameter) {
			t.Errorf("section %+v accepted: %v", bad, err)
		}
	}
}

func TestRevolutionCurve(t *testing.T) {
	rc, err := dnacurve.NewRevolutionCurve(dnacurve.RevolutionParams{
		Section:            dnacurve.SectionParams{Kind: dnacurve.SectionEllipse, SemiMajor: 4, SemiMinor: 2},
		RevolutionRadius:   20,
		NumberOfHelices:    8,
		HelixIndex:         1,
		ShiftPerRevolution: 3,
		SectionTwist:       0.4,
	})
	if err != nil {
		t.Fatal(err)
	}
	if rc.TMax() != 8 {
		t.Errorf("shift 3 of 8 helices closes after %g revolutions, want 8", rc.TMax())
	}
	if _, closed := rc.FullTurnAt(); closed {
		t.Error("section twist of 3.2 rad reported closed")
	}
	for _, tt := range []float64{0, 0.3, 2.7, 7.9} {
		speed := rc.Speed(tt)
		if !vecClose(speed, dnacurve.Speed(positionOnly{rc}, tt), 1e-5) {
			t.Errorf("closed form speed differs at %g", tt)
		}
		info, ok := rc.SurfaceInfo(tt)
		if !ok {
			t.Fatal("revolution curve without surface")
		}
		if !vecClose(info.Position, rc.Position(tt), 1e-12) {
			t.Errorf("surface point %v differs from curve point %v", info.Position, rc.Position(tt))
		}
		if d := r3.Dot(info.Normal, r3.Unit(speed)); math.Abs(d) > 1e-9 {
			t.Errorf("surface normal not orthogonal to the curve at %g: %g", tt, d)
		}
	}

	closed, err := dnacurve.NewRevolutionCurve(dnacurve.RevolutionParams{
		Section:            dnacurve.SectionParams{Kind: dnacurve.SectionEllipse, SemiMajor: 4, SemiMinor: 2},
		RevolutionRadius:   20,
		NumberOfHelices:    8,
		ShiftPerRevolution: 2,
		SectionTwist:       math.Pi / 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if period, ok := closed.FullTurnAt(); !ok || period != 4 {
		t.Errorf("shift 2 of 8 helices with quarter twists: period %g closed %v, want 4", period, ok)
	}
	if !vecClose(closed.Position(0), closed.Position(4), 1e-9) {
		t.Errorf("closed curve ends at %v, starts at %v", closed.Position(4), closed.Position(0))
	}
}

func TestTwistedTorus(t *testing.T) {
	hp := dnacurve.GearyDNA
	tt, err := dnacurve.NewTwistedTorus(dnacurve.TwistedTorusParams{
		BigRadius:    15,
		Section:      dnacurve.SectionParams{Kind: dnacurve.SectionEllipse, SemiMajor: 3, SemiMinor: 3},
		HelixIndex:   2,
		TwistPerTurn: 1,
	}, hp)
	if err != nil {
		t.Fatal(err)
	}
	// A 3nm circle fits 7 helices 2.65nm apart.
	if tt.NumberOfHelices != 7 || tt.Revolutions != 7 {
		t.Fatalf("twisted torus with %d helices over %d revolutions", tt.NumberOfHelices, tt.Revolutions)
	}
	if period, ok := tt.FullTurnAt(); !ok || period != 7 {
		t.Errorf("period %g %v", period, ok)
	}
	if !vecClose(tt.Position(0), tt.Position(7), 1e-9) {
		t.Error("twisted torus helix does not close")
	}
	d := dnacurve.Discretize(tt, hp)
	if d.Len() == 0 {
		t.Fatal("twisted torus not discretized")
	}
	for n := 0; n < d.Len(); n += 97 {
		f, _ := d.FrameAt(n, true)
		checkOrthonormal(t, f)
		tn, _ := d.NucleotideTime(n)
		info, _ := tt.SurfaceInfo(tn)
		if !vecClose(f.Y, info.Normal, 1e-9) {
			t.Fatalf("frame %d does not follow the surface normal", n)
		}
	}
	if _, err := dnacurve.NewTwistedTorus(dnacurve.TwistedTorusParams{
		BigRadius: 15,
		Section:   dnacurve.SectionParams{Kind: dnacurve.SectionEllipse, SemiMajor: 0.1, SemiMinor: 0.1},
	}, hp); !errors.Is(err, dnacurve.ErrDegenerate) {
		t.Errorf("section too small for a helix accepted: %v", err)
	}
}
