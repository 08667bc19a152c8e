package dnacurve

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/interp"
)

// TimeMap maps the parameter of a curve to an abscissa shared by the members
// of a synchronization group. It is immutable once built.
type TimeMap struct {
	linear        bool
	slope, offset float64

	toAbscissa interp.FritschButland
	toTime     interp.FritschButland
}

// LinearTimeMap returns the map s = slope*t + offset.
func LinearTimeMap(slope, offset float64) (*TimeMap, error) {
	if slope == 0 {
		return nil, fmt.Errorf("zero slope time map: %w", ErrInvalidParameter)
	}
	return &TimeMap{linear: true, slope: slope, offset: offset}, nil
}

// NewTimeMap returns a monotone cubic map through the (ts[i], ss[i]) pairs.
// Both slices must be strictly increasing.
func NewTimeMap(ts, ss []float64) (*TimeMap, error) {
	if len(ts) != len(ss) {
		return nil, fmt.Errorf("time map with %d times and %d abscissas: %w", len(ts), len(ss), ErrInvalidParameter)
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("time map needs at least 2 samples: %w", ErrInvalidParameter)
	}
	for i := 1; i < len(ts); i++ {
		if !(ts[i] > ts[i-1]) || !(ss[i] > ss[i-1]) {
			return nil, fmt.Errorf("time map samples not strictly increasing at %d: %w", i, ErrInvalidParameter)
		}
	}
	m := &TimeMap{}
	if err := m.toAbscissa.Fit(ts, ss); err != nil {
		return nil, err
	}
	if err := m.toTime.Fit(ss, ts); err != nil {
		return nil, err
	}
	return m, nil
}

// TimeMapOf tabulates the arc length of c over [tmin, tmax] with n panels.
// n <= 0 selects a default resolution.
func TimeMapOf(c Curve, tmin, tmax float64, n int) (*TimeMap, error) {
	if !(tmax > tmin) {
		return nil, fmt.Errorf("empty domain [%g, %g]: %w", tmin, tmax, ErrDegenerate)
	}
	if n <= 0 {
		n = 4 * deltaMax
	}
	ts := []float64{tmin}
	ss := []float64{0}
	dt := (tmax - tmin) / float64(n)
	for i := 1; i <= n; i++ {
		t := tmin + float64(i)*dt
		if i == n {
			t = tmax
		}
		ds := quadLength(c, ts[len(ts)-1], t, arcLengthTolerance)
		if ds <= 0 {
			// Stationary panel, the next sample absorbs it.
			continue
		}
		ts = append(ts, t)
		ss = append(ss, ss[len(ss)-1]+ds)
	}
	if len(ts) < 2 {
		return nil, fmt.Errorf("curve has no length over [%g, %g]: %w", tmin, tmax, ErrDegenerate)
	}
	return NewTimeMap(ts, ss)
}

// Abscissa returns the synchronized abscissa at parameter t.
func (m *TimeMap) Abscissa(t float64) float64 {
	if m.linear {
		return m.slope*t + m.offset
	}
	return m.toAbscissa.Predict(t)
}

// Time returns the parameter at synchronized abscissa s.
func (m *TimeMap) Time(s float64) float64 {
	if m.linear {
		return (s - m.offset) / m.slope
	}
	return m.toTime.Predict(s)
}

// IsLinear reports whether m is an affine map.
func (m *TimeMap) IsLinear() bool { return m.linear }

// AbscissaConverter holds the time maps of the members of one
// synchronization group. Members can be added but never replaced.
type AbscissaConverter struct {
	mu   sync.RWMutex
	maps map[int]*TimeMap
}

// NewAbscissaConverter returns an empty converter.
func NewAbscissaConverter() *AbscissaConverter {
	return &AbscissaConverter{maps: make(map[int]*TimeMap)}
}

// Add registers the time map of member. It reports false and leaves the
// converter unchanged if member already has a time map.
func (ac *AbscissaConverter) Add(member int, m *TimeMap) bool {
	ac.mu.Lock()
	defer ac.mu.Unlock()
	if _, ok := ac.maps[member]; ok {
		return false
	}
	ac.maps[member] = m
	return true
}

// TimeMap returns the time map of member.
func (ac *AbscissaConverter) TimeMap(member int) (*TimeMap, bool) {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	m, ok := ac.maps[member]
	return m, ok
}

// Len returns the number of members of the group.
func (ac *AbscissaConverter) Len() int {
	ac.mu.RLock()
	defer ac.mu.RUnlock()
	return len(ac.maps)
}

// SyncGroups owns one AbscissaConverter per synchronization group, for
// instance one per Bezier path.
type SyncGroups struct {
	mu     sync.Mutex
	groups map[string]*AbscissaConverter
}

// Converter returns the converter of group key, creating it if needed.
func (g *SyncGroups) Converter(key string) *AbscissaConverter {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.groups == nil {
		g.groups = make(map[string]*AbscissaConverter)
	}
	ac, ok := g.groups[key]
	if !ok {
		ac = NewAbscissaConverter()
		g.groups[key] = ac
	}
	return ac
}

// Sync binds a curve to its time map. A singleton carries its map directly,
// other members find it in the converter of their group.
// The zero value is not synchronized.
type Sync struct {
	Converter *AbscissaConverter
	Member    int
	Singleton *TimeMap
}

// TimeMap implements Synchronizer.
func (s Sync) TimeMap() (*TimeMap, bool) {
	if s.Singleton != nil {
		return s.Singleton, true
	}
	if s.Converter != nil {
		return s.Converter.TimeMap(s.Member)
	}
	return nil, false
}

// TimeMapsSingleton implements TimeMapsSingleton.
func (s Sync) TimeMapsSingleton() bool { return s.Singleton != nil }
