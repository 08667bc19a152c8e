package profile_test

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/profile"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/plot/cmpimg"
	"gonum.org/v1/plot/vg"
)

func bentPath() *dnacurve.Discretized {
	points := []r3.Vec{{}, {X: 10, Y: 5}, {X: 20, Z: 3}, {X: 30, Y: -5}}
	path := &dnacurve.PiecewiseBezier{Vertices: dnacurve.BezierVertices(points, nil, nil, false)}
	tp := &dnacurve.TranslatedPiecewiseBezier{Path: path, Frame: dnacurve.IdentityFrame}
	return dnacurve.Discretize(tp, dnacurve.GearyDNA)
}

func TestSampleCircle(t *testing.T) {
	const radius = 8.0
	c, err := dnacurve.NewCircleCurve(dnacurve.CircleCurveParams{Radius: radius, TargetNbNt: 60})
	if err != nil {
		t.Fatal(err)
	}
	d := dnacurve.Discretize(c, dnacurve.GearyDNA)
	curv := profile.Sample(d, profile.Curvature)
	if len(curv) != d.Len() {
		t.Fatalf("got %d curvature samples for %d nucleotides", len(curv), d.Len())
	}
	for _, xy := range curv {
		if math.Abs(xy.Y-1.0/radius) > 1e-6 {
			t.Fatalf("curvature %g at %g, want %g", xy.Y, xy.X, 1.0/radius)
		}
	}
	spacing := profile.Sample(d, profile.Spacing)
	if len(spacing) != d.Len()-1 {
		t.Fatalf("got %d spacing samples for %d nucleotides", len(spacing), d.Len())
	}
	chord := 2 * radius * math.Sin(math.Pi/60)
	for _, xy := range spacing {
		if math.Abs(xy.Y-chord) > 1e-6 {
			t.Fatalf("spacing %g at %g, want %g", xy.Y, xy.X, chord)
		}
	}
}

func TestPlotDeterministic(t *testing.T) {
	d := bentPath()
	if len(d.SegmentBreakpoints()) == 0 {
		t.Fatal("bent path has no breakpoints")
	}
	render := func() []byte {
		p, err := profile.New(profile.Curvature, profile.Series{Name: "path", Curve: d})
		if err != nil {
			t.Fatal(err)
		}
		var b bytes.Buffer
		if err := profile.Write(&b, p, 10*vg.Centimeter, 6*vg.Centimeter, "png"); err != nil {
			t.Fatal(err)
		}
		return b.Bytes()
	}
	a, b := render(), render()
	ok, err := cmpimg.Equal("png", a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("profile plot changed between renders")
	}
}

func TestPlotSave(t *testing.T) {
	p, err := profile.New(profile.Spacing, profile.Series{Name: "a", Curve: bentPath()}, profile.Series{Curve: bentPath()})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Save(8*vg.Centimeter, 5*vg.Centimeter, filepath.Join(t.TempDir(), "spacing.svg")); err != nil {
		t.Fatal(err)
	}
	if err := profile.Write(&bytes.Buffer{}, p, vg.Centimeter, vg.Centimeter, "bogus"); err == nil {
		t.Error("expected error for unknown image format")
	}
	if _, err := profile.New(profile.Curvature); err == nil {
		t.Error("expected error without series")
	}
}

func TestParseQuantity(t *testing.T) {
	for _, q := range []profile.Quantity{profile.Curvature, profile.Spacing} {
		got, err := profile.ParseQuantity(q.String())
		if err != nil || got != q {
			t.Errorf("ParseQuantity(%q) = %v, %v", q.String(), got, err)
		}
	}
	if _, err := profile.ParseQuantity("torsion"); err == nil {
		t.Error("expected error for unknown quantity")
	}
}
