package descriptor

import (
	"sync"
	"testing"

	"github.com/soypat/dnacurve"
	"github.com/stretchr/testify/require"
)

// countingCache returns a cache whose discretizations are counted and free.
func countingCache() (*Cache, *int) {
	c := NewCache()
	var mu sync.Mutex
	calls := 0
	c.build = func(Descriptor, dnacurve.HelixParameters) *dnacurve.Discretized {
		mu.Lock()
		calls++
		mu.Unlock()
		return &dnacurve.Discretized{}
	}
	return c, &calls
}

func twistedTorus(helix int) Descriptor {
	return Descriptor{TwistedTorus: &dnacurve.TwistedTorusParams{
		BigRadius:    15,
		Section:      dnacurve.SectionParams{Kind: dnacurve.SectionEllipse, SemiMajor: 3, SemiMinor: 3},
		HelixIndex:   helix,
		TwistPerTurn: 1,
	}}
}

func TestCacheHitsByContent(t *testing.T) {
	c, calls := countingCache()
	hp := dnacurve.GearyDNA

	first := Instantiate(Share(twistedTorus(0)), nil).Curve(hp, c)
	again := Instantiate(Share(twistedTorus(0)), nil).Curve(hp, c)
	require.Same(t, first, again, "equal descriptors share their curve")
	require.Equal(t, 1, *calls)

	Instantiate(Share(twistedTorus(1)), nil).Curve(hp, c)
	require.Equal(t, 2, *calls)

	hp.Rise = 0.34
	Instantiate(Share(twistedTorus(0)), nil).Curve(hp, c)
	require.Equal(t, 3, *calls, "helix parameters are part of the key")

	require.Equal(t, CacheStats{Hits: 1, Misses: 3, Entries: 3}, c.Stats())

	c.Flush()
	Instantiate(Share(twistedTorus(0)), nil).Curve(dnacurve.GearyDNA, c)
	require.Equal(t, 4, *calls)
}

func TestCacheSkipsCheapCurves(t *testing.T) {
	c, calls := countingCache()
	d := Descriptor{Torus: &dnacurve.TorusParams{HalfNbHelix: 2, BigRadius: 20}}
	disc := Instantiate(Share(d), nil).Curve(dnacurve.GearyDNA, c)
	require.Greater(t, disc.Len(), 0)
	require.Equal(t, 0, *calls)
	require.Equal(t, CacheStats{}, c.Stats())
}

func TestCacheConcurrentMisses(t *testing.T) {
	c, calls := countingCache()
	var wg sync.WaitGroup
	results := make([]*dnacurve.Discretized, 8)
	for i := range results {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			results[i] = Instantiate(Share(twistedTorus(2)), nil).Curve(dnacurve.GearyDNA, c)
		}()
	}
	wg.Wait()
	require.Equal(t, 1, *calls)
	for _, r := range results[1:] {
		require.Same(t, results[0], r)
	}
}

func TestCacheKeyIgnoresIdentity(t *testing.T) {
	a, err := cacheKey(twistedTorus(3), dnacurve.GearyDNA)
	require.NoError(t, err)
	b, err := cacheKey(twistedTorus(3), dnacurve.GearyDNA)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.True(t, cacheable(Descriptor{InterpolatedCurve: &dnacurve.RevolutionParams{}}))
	require.False(t, cacheable(Descriptor{Bezier: &dnacurve.CubicBezier{}}))
}
