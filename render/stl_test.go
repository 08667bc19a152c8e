package render_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/internal/d3"
	"github.com/soypat/dnacurve/render"
	"gonum.org/v1/gonum/spatial/r3"
)

func straightModel(t testing.TB, length float64) render.Model {
	t.Helper()
	c := dnacurve.CubicBezier{
		Control1: r3.Vec{Z: length / 3},
		Control2: r3.Vec{Z: 2 * length / 3},
		End:      r3.Vec{Z: length},
	}
	d := dnacurve.Discretize(c, dnacurve.GearyDNA)
	if d.Len() == 0 {
		t.Fatal("empty discretization")
	}
	return render.NewModel(d, dnacurve.GearyDNA, render.DefaultStyle)
}

func TestSTLCreateWriteRead(t *testing.T) {
	model := straightModel(t, 10)
	path := filepath.Join(t.TempDir(), "helix.stl")
	err := render.CreateSTL(path, model.Renderer(render.DefaultStyle.Resolution))
	if err != nil {
		t.Fatal(err)
	}
	bfile, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	triangles, err := render.RenderAll(model.Renderer(render.DefaultStyle.Resolution))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	err = render.WriteSTL(&b, triangles)
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != len(bfile) {
		t.Fatalf("WriteSTL and CreateSTL output length mismatch: %d != %d", b.Len(), len(bfile))
	}
	if !bytes.Equal(b.Bytes(), bfile) {
		t.Fatal("WriteSTL and CreateSTL output mismatch")
	}
}

func TestSTLWriteReadback(t *testing.T) {
	const tol = 1e-5
	input, err := render.RenderAll(straightModel(t, 10).Renderer(8))
	if err != nil {
		t.Fatal(err)
	}
	var b bytes.Buffer
	if err = render.WriteSTL(&b, input); err != nil {
		t.Fatal(err)
	}
	output, err := render.ReadSTL(&b)
	if err != nil {
		t.Fatal(err)
	}
	if len(output) != len(input) {
		t.Fatalf("read %d triangles, wrote %d", len(output), len(input))
	}
	mismatches := 0
	for iface, expect := range input {
		got := output[iface]
		for i := range expect {
			if !d3.EqualWithin(got[i], expect[i], tol) {
				mismatches++
				t.Errorf("%dth triangle equality out of tolerance. got vertex %0.5g, want %0.5g", iface, got[i], expect[i])
			}
		}
		if mismatches > 10 {
			t.Fatal("too many mismatches")
		}
	}
}

func TestSTLErrors(t *testing.T) {
	if err := render.WriteSTL(&bytes.Buffer{}, nil); err == nil {
		t.Error("expected error writing no triangles")
	}
	if _, err := render.ReadSTL(bytes.NewReader(make([]byte, 10))); err == nil {
		t.Error("expected error on truncated header")
	}
	var b bytes.Buffer
	tri := r3.Triangle{{}, {X: 1}, {Y: 1}}
	if err := render.WriteSTL(&b, []r3.Triangle{tri, tri}); err != nil {
		t.Fatal(err)
	}
	truncated := b.Bytes()[:b.Len()-10]
	if _, err := render.ReadSTL(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error on truncated triangle record")
	}
}
