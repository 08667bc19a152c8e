package render

import (
	"io"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestRosaryJoints(t *testing.T) {
	const sides = 16
	points := []r3.Vec{{}, {X: 1}, {X: 2, Y: 1}, {X: 2, Y: 2, Z: 1}}
	tubes := rosary(points, false, 0.1)
	if len(tubes) != 3 {
		t.Fatalf("got %d tubes, want 3", len(tubes))
	}
	for i := 0; i < len(tubes)-1; i++ {
		a, b := tubes[i], tubes[i+1]
		if a.Next != r3.Sub(b.To, b.From) || b.Prev != r3.Sub(a.To, a.From) {
			t.Fatalf("tube %d neighbours not linked", i)
		}
		// Both tubes are cut on the same plane through the shared point.
		n := bisector(a.Next, r3.Unit(r3.Sub(a.To, a.From)))
		for j, tri := range tubeTriangles(a, sides)[:2*sides] {
			if j%2 == 0 {
				continue
			}
			for _, v := range tri[1:] {
				if d := r3.Dot(n, r3.Sub(v, a.To)); math.Abs(d) > 1e-9 {
					t.Fatalf("tube %d end vertex off the joint plane by %g", i, d)
				}
			}
		}
		for j, tri := range tubeTriangles(b, sides)[:2*sides] {
			if j%2 != 0 {
				continue
			}
			for _, v := range tri[:2] {
				if d := r3.Dot(n, r3.Sub(v, b.From)); math.Abs(d) > 1e-9 {
					t.Fatalf("tube %d start vertex off the joint plane by %g", i+1, d)
				}
			}
		}
	}
}

func TestTubeRadius(t *testing.T) {
	const radius = 0.25
	tb := Tube{From: r3.Vec{X: 1, Y: 1, Z: 1}, To: r3.Vec{X: 2, Y: 3, Z: 1}, Radius: radius}
	axis := r3.Unit(r3.Sub(tb.To, tb.From))
	tris := tubeTriangles(tb, 10)
	if len(tris) != 4*10 {
		t.Fatalf("got %d triangles, want 40", len(tris))
	}
	for _, tri := range tris[:20] {
		for _, v := range tri {
			off := r3.Sub(v, tb.From)
			radial := r3.Sub(off, r3.Scale(r3.Dot(off, axis), axis))
			if math.Abs(r3.Norm(radial)-radius) > 1e-9 {
				t.Fatalf("side vertex %v at distance %g from the axis", v, r3.Norm(radial))
			}
		}
	}
	if tubeTriangles(Tube{From: tb.From, To: tb.From, Radius: radius}, 10) != nil {
		t.Error("zero length tube produced triangles")
	}
}

func TestModelRendererEOF(t *testing.T) {
	r := Model{}.Renderer(8)
	n, err := r.ReadTriangles(make([]r3.Triangle, 4))
	if n != 0 || err != io.EOF {
		t.Errorf("empty model read %d triangles with error %v", n, err)
	}
	r = Model{Spheres: []Sphere{{Radius: 1}}}.Renderer(8)
	buf := make([]r3.Triangle, 5)
	total := 0
	for {
		n, err := r.ReadTriangles(buf)
		total += n
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
	}
	if want := 8 * (2*4 - 2); total != want {
		t.Errorf("read %d sphere triangles in small chunks, want %d", total, want)
	}
}
