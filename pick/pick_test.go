package pick_test

import (
	"math"
	"testing"

	"github.com/soypat/dnacurve"
	"github.com/soypat/dnacurve/pick"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func straight(t *testing.T, x float64) *dnacurve.Discretized {
	t.Helper()
	c := dnacurve.CubicBezier{
		Start:    r3.Vec{X: x},
		Control1: r3.Vec{X: x, Z: 10.0 / 3},
		Control2: r3.Vec{X: x, Z: 20.0 / 3},
		End:      r3.Vec{X: x, Z: 10},
	}
	d := dnacurve.Discretize(c, dnacurve.GearyDNA)
	require.Equal(t, 31, d.Len())
	return d
}

func TestNearestMatchesBruteForce(t *testing.T) {
	hp := dnacurve.GearyDNA
	h0, h1 := straight(t, 0), straight(t, 2.65)
	ix := pick.New(hp, pick.Helix{ID: 0, Curve: h0}, pick.Helix{ID: 1, Curve: h1, Roll: 0.5})
	require.Equal(t, 4*31, ix.Len())

	queries := []r3.Vec{{X: 1, Y: 0.3, Z: 4}, {X: 3.5, Z: -1}, {X: -2, Y: 2, Z: 11}, {X: 1.3, Z: 5.5}}
	for _, q := range queries {
		got, ok := ix.Nearest(q)
		require.True(t, ok)
		best := math.Inf(1)
		for _, h := range []pick.Helix{{ID: 0, Curve: h0}, {ID: 1, Curve: h1, Roll: 0.5}} {
			for n := 0; n < h.Curve.Len(); n++ {
				for _, fwd := range []bool{true, false} {
					p, ok := h.Curve.NucleotidePosition(n, fwd, hp.Theta(n, fwd, h.Roll), hp)
					require.True(t, ok)
					best = math.Min(best, r3.Norm(r3.Sub(p, q)))
				}
			}
		}
		require.InDelta(t, best, got.Distance, 1e-12, "query %v", q)
		require.InDelta(t, got.Distance, r3.Norm(r3.Sub(got.Position, q)), 1e-12)
	}
}

func TestNearestN(t *testing.T) {
	ix := pick.New(dnacurve.GearyDNA, pick.Helix{Curve: straight(t, 0)})
	q := r3.Vec{Z: 5}
	hits := ix.NearestN(q, 5)
	require.Len(t, hits, 5)
	nearest, _ := ix.Nearest(q)
	require.Equal(t, nearest.Nucleotide, hits[0].Nucleotide)
	for i := 1; i < len(hits); i++ {
		require.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	require.Nil(t, ix.NearestN(q, 0))
	require.Len(t, ix.NearestN(q, 1000), ix.Len())
}

func TestWithin(t *testing.T) {
	hp := dnacurve.GearyDNA
	d := straight(t, 0)
	ix := pick.New(hp, pick.Helix{Curve: d})
	// Both nucleotides of a pair sit HelixRadius away from their axis point.
	q, ok := d.AxisPosition(15)
	require.True(t, ok)
	hits := ix.Within(q, hp.HelixRadius+1e-9)
	require.Len(t, hits, 2)
	for _, h := range hits {
		require.Equal(t, 15, h.Offset)
		require.InDelta(t, hp.HelixRadius, h.Distance, 1e-9)
	}
	require.NotEqual(t, hits[0].Forward, hits[1].Forward)
	require.Empty(t, ix.Within(r3.Vec{X: 100}, 1))
	require.Len(t, ix.Within(q, 100), ix.Len())

	box := ix.Bounds()
	require.InDelta(t, 0, box.Min.Z, 1e-9)
	require.InDelta(t, 10, box.Max.Z, 0.2)
	require.LessOrEqual(t, box.Max.X, hp.HelixRadius+1e-9)
	require.GreaterOrEqual(t, box.Min.Y, -hp.HelixRadius-1e-9)
}

func TestEmptyIndex(t *testing.T) {
	ix := pick.New(dnacurve.GearyDNA)
	_, ok := ix.Nearest(r3.Vec{})
	require.False(t, ok)
	require.Empty(t, ix.Within(r3.Vec{}, 10))
	require.Equal(t, r3.Box{}, ix.Bounds())
}
