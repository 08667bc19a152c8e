package dnacurve_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/soypat/dnacurve"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// derivativeCurve is a curve with closed form derivatives.
type derivativeCurve interface {
	dnacurve.Curve
	dnacurve.Speeder
	dnacurve.Accelerator
}

func TestClosedFormDerivatives(t *testing.T) {
	hp := dnacurve.GearyDNA
	torus, err := dnacurve.NewTorus(dnacurve.TorusParams{HalfNbHelix: 3, BigRadius: 30, Theta0: 0.2}, hp)
	if err != nil {
		t.Fatal(err)
	}
	sphere, err := dnacurve.NewSphereLikeSpiral(dnacurve.SphereLikeSpiralParams{Radius: 10, Orientation: dnacurve.AxisX}, hp)
	if err != nil {
		t.Fatal(err)
	}
	parallel, err := dnacurve.NewSphereConcentricCircle(dnacurve.SphereConcentricCircleParams{Radius: 10, HelixIndex: -1}, hp)
	if err != nil {
		t.Fatal(err)
	}
	seam, err := dnacurve.NewSphereTennisBallSeam(dnacurve.SphereTennisBallSeamParams{Radius: 10, Theta0Deg: 30, PhiDeg: 20})
	if err != nil {
		t.Fatal(err)
	}
	for _, test := range []struct {
		name string
		c    derivativeCurve
	}{
		{"torus", torus},
		{"sphere like spiral", sphere},
		{"sphere concentric circle", parallel},
		{"tennis ball seam", seam},
		{"bezier", dnacurve.CubicBezier{Control1: r3.Vec{X: 1}, Control2: r3.Vec{X: 2, Y: 3}, End: r3.Vec{Z: 4}}},
		{"piecewise bezier", testPath()},
	} {
		for _, tt := range []float64{0.13, 0.5, 0.77} {
			if tt > dnacurve.TMax(test.c) {
				continue
			}
			scale := math.Max(1, r3.Norm(test.c.Speed(tt)))
			if !vecClose(test.c.Speed(tt), dnacurve.Speed(positionOnly{test.c}, tt), 1e-6*scale) {
				t.Errorf("%s: speed at %g is %v, numeric %v", test.name, tt, test.c.Speed(tt), dnacurve.Speed(positionOnly{test.c}, tt))
			}
			scale = math.Max(1, r3.Norm(test.c.Acceleration(tt)))
			if !vecClose(test.c.Acceleration(tt), dnacurve.Acceleration(positionOnly{test.c}, tt), 1e-4*scale) {
				t.Errorf("%s: acceleration at %g is %v, numeric %v", test.name, tt, test.c.Acceleration(tt), dnacurve.Acceleration(positionOnly{test.c}, tt))
			}
		}
	}
}

func TestCurvesStayOnTheirSurface(t *testing.T) {
	hp := dnacurve.GearyDNA
	sphere, err := dnacurve.NewSphereLikeSpiral(dnacurve.SphereLikeSpiralParams{Radius: 10, Orientation: dnacurve.AxisY}, hp)
	if err != nil {
		t.Fatal(err)
	}
	seam, err := dnacurve.NewSphereTennisBallSeam(dnacurve.SphereTennisBallSeamParams{Radius: 10, PhiDeg: 45})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i <= 100; i++ {
		u := float64(i) / 100
		if r := r3.Norm(sphere.Position(u)); !scalar.EqualWithinAbs(r, 10, 1e-9) {
			t.Fatalf("sphere spiral leaves the sphere at %g: %g", u, r)
		}
		if r := r3.Norm(seam.Position(u * seam.TMax())); !scalar.EqualWithinAbs(r, 10, 1e-9) {
			t.Fatalf("tennis ball seam leaves the sphere at %g: %g", u, r)
		}
		if v := r3.Norm(seam.Speed(u * seam.TMax())); !scalar.EqualWithinAbs(v, 1, 1e-12) {
			t.Fatalf("tennis ball seam is not parametrized by arc length: %g", v)
		}
	}
	if p := sphere.Position(0); !vecClose(p, r3.Vec{Y: 10}, 1e-9) {
		t.Errorf("spiral oriented along Y starts at %v", p)
	}
	spiral, err := dnacurve.NewSpiralCylinder(dnacurve.SpiralCylinderParams{Radius: 6, NumberOfTurns: 4, NumberOfHelices: 3}, hp)
	if err != nil {
		t.Fatal(err)
	}
	// Turns of a spiral leave room for the other helices of the family.
	gap := r3.Norm(r3.Sub(spiral.Position(1), spiral.Position(0)))
	if !scalar.EqualWithinAbs(gap, spiral.RisePerTurn(), 1e-12) || gap < 3*hp.InterHelixAxisGap() {
		t.Errorf("spiral rises %g per turn", gap)
	}
	if _, err := dnacurve.NewSpiralCylinder(dnacurve.SpiralCylinderParams{Radius: 0.5, NumberOfTurns: 4}, hp); !errors.Is(err, dnacurve.ErrInvalidParameter) {
		t.Errorf("spiral too tight accepted: %v", err)
	}
}

func TestTwistDomain(t *testing.T) {
	tw := dnacurve.Twist{Omega: 0.3, Radius: 1}
	if tw.TMin() != -10 || tw.TMax() != 10 {
		t.Errorf("default twist domain [%g, %g]", tw.TMin(), tw.TMax())
	}
	lo, hi := -3.0, 25.0
	tw.MinT, tw.MaxT = &lo, &hi
	d := dnacurve.Discretize(tw, dnacurve.GearyDNA)
	if d.PointCountForward() < d.PointCountBackward() {
		t.Errorf("twist over [-3, 25] has %d forward and %d backward nucleotides", d.PointCountForward(), d.PointCountBackward())
	}
	st := dnacurve.SuperTwist{Omega: 0.3, Radius: 2, SuperOmega: 1.5, SuperRadius: 0.5}
	if err := st.Validate(); err != nil {
		t.Fatal(err)
	}
	for _, tt := range []float64{-4, 0, 3.3} {
		axis := dnacurve.Twist{Omega: 0.3, Radius: 2}.Position(tt)
		if r := r3.Norm(r3.Sub(st.Position(tt), axis)); !scalar.EqualWithinAbs(r, 0.5, 1e-12) {
			t.Errorf("supercoil %g away from its axis at %g", r, tt)
		}
	}
	st.SuperRadius = -1
	if err := st.Validate(); !errors.Is(err, dnacurve.ErrInvalidParameter) {
		t.Errorf("negative radius accepted: %v", err)
	}
}

func TestAxisText(t *testing.T) {
	type holder struct {
		Orientation dnacurve.Axis `json:"orientation"`
	}
	b, err := json.Marshal(holder{Orientation: dnacurve.AxisY})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"orientation":"Y"}` {
		t.Errorf("axis marshaled as %s", b)
	}
	var h holder
	if err := json.Unmarshal([]byte(`{"orientation":"x"}`), &h); err != nil || h.Orientation != dnacurve.AxisX {
		t.Errorf("axis unmarshaled as %v: %v", h.Orientation, err)
	}
	if err := json.Unmarshal([]byte(`{"orientation":"W"}`), &h); err == nil {
		t.Error("unknown axis accepted")
	}
}

func TestPiecewiseBezier(t *testing.T) {
	points := []r3.Vec{{}, {X: 4}, {X: 4, Y: 4}, {Y: 4}}
	vs := dnacurve.BezierVertices(points, nil, []float64{1, 2, 1, 1}, true)
	if diff := cmp.Diff(r3.Scale(2, vs[1].VectorIn), vs[1].VectorOut); diff != "" {
		t.Errorf("outward coefficient not applied (-want +got):\n%s", diff)
	}
	pb := &dnacurve.PiecewiseBezier{Vertices: vs, Cyclic: true}
	if pb.Segments() != 4 {
		t.Fatalf("cyclic path of 4 points has %d segments", pb.Segments())
	}
	if period, ok := pb.FullTurnAt(); !ok || period != 4 {
		t.Errorf("cyclic path period %g %v", period, ok)
	}
	onPath := make([]r3.Vec, len(points))
	for i := range onPath {
		onPath[i] = pb.Position(float64(i))
	}
	if diff := cmp.Diff(points, onPath, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("path misses vertices (-want +got):\n%s", diff)
	}
	if !vecClose(pb.Position(4.5), pb.Position(0.5), 1e-12) {
		t.Error("cyclic path does not wrap")
	}
	if got := len(pb.ControlPoints()); got != 13 {
		t.Errorf("%d control points, want 13", got)
	}

	open := testPath()
	end := open.Position(3)
	speed := open.Speed(3)
	if !vecClose(open.Position(3.5), r3.Add(end, r3.Scale(0.5, speed)), 1e-12) {
		t.Error("open path is not extended linearly past its end")
	}
	if _, ok := open.FullTurnAt(); ok {
		t.Error("open path reported periodic")
	}
	lo := -1.0
	open.MinT = &lo
	d := dnacurve.Discretize(open, dnacurve.GearyDNA)
	if d.PointCountBackward() == 0 {
		t.Error("widened domain produced no negative nucleotides")
	}
}
