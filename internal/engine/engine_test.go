package engine

import (
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// london is near the Sirius-like star's transit.
var london = Snapshot{
	Time:   time.Date(2024, 9, 22, 0, 25, 0, 0, time.UTC),
	LatDeg: 51.5,
	LonDeg: -0.13,
	ElevM:  35,
}

const singleStarCSV = `hip,nav,name,ra,dec,mag
677,1,Sirius-like,6.75,-16.72,-1.46
`

func writeCatalog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newDefaultEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(WithCatalog(catalog.Default()))
	require.NoError(t, e.SetObserver(london))
	return e
}

// reference computes az/el from go-satellite's mean sidereal time and the
// textbook spherical formulas.
func reference(t time.Time, raDeg, decDeg, latDeg, lonDeg float64) (az, el float64) {
	jd := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
	lst := satellite.ThetaG_JD(jd) + lonDeg*math.Pi/180

	ha := lst - raDeg*math.Pi/180
	dec := decDeg * math.Pi / 180
	lat := latDeg * math.Pi / 180

	sinEl := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	el = math.Asin(sinEl) * 180 / math.Pi

	// Azimuth from south, westward (Meeus 13.5), turned to north-based
	A := math.Atan2(math.Sin(ha), math.Cos(ha)*math.Sin(lat)-math.Tan(dec)*math.Cos(lat))
	az = math.Mod(A*180/math.Pi+180+360, 360)
	return az, el
}

func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+540, 360) - 180
	return math.Abs(d)
}

type SiriusSuite struct {
	suite.Suite
	engine *Engine
}

func TestSiriusSuite(t *testing.T) {
	suite.Run(t, new(SiriusSuite))
}

func (s *SiriusSuite) SetupTest() {
	path := writeCatalog(s.T(), "one.csv", singleStarCSV)
	s.engine = New()
	n, err := s.engine.LoadCatalog(path)
	s.Require().NoError(err)
	s.Require().Equal(1, n)
	s.Require().NoError(s.engine.SetObserver(london))
}

func (s *SiriusSuite) TestEndToEnd() {
	pos, err := s.engine.Star(catalog.ByHIP(677))
	s.Require().NoError(err)

	s.Equal(uint32(1), pos.Star.Nav)
	s.Equal("Sirius-like", pos.Star.Name)

	// Catalog place plus about a quarter century of precession
	s.InDelta(6.75, pos.RAdeg, 0.5)
	s.InDelta(-16.72, pos.DecDeg, 0.2)

	az, el := reference(london.Time, pos.RAdeg, pos.DecDeg, london.LatDeg, london.LonDeg)
	s.Greater(el, 15.0, "star should be near transit")
	s.Less(angleDiff(pos.AzDeg, az), 0.02, "azimuth %.4f vs reference %.4f", pos.AzDeg, az)

	// Refraction lifts by a few arc-minutes at this height
	s.Greater(pos.ElDeg, el)
	s.Less(pos.ElDeg-el, 0.08, "elevation %.4f vs reference %.4f", pos.ElDeg, el)
}

func (s *SiriusSuite) TestLookupByNav() {
	byHIP, err := s.engine.Star(catalog.ByHIP(677))
	s.Require().NoError(err)
	byNav, err := s.engine.Star(catalog.ByNav(1))
	s.Require().NoError(err)
	s.Equal(byHIP.Star.HIP, byNav.Star.HIP)
	s.Equal(byHIP.Position, byNav.Position)
}

func (s *SiriusSuite) TestInvalidLatitudeKeepsSnapshot() {
	before, err := s.engine.Star(catalog.ByHIP(677))
	s.Require().NoError(err)

	bad := london
	bad.LatDeg = 91
	bad.Time = london.Time.Add(6 * time.Hour)
	s.ErrorIs(s.engine.SetObserver(bad), ErrInvalidObserver)

	obs, ok := s.engine.Observer()
	s.True(ok)
	s.Equal(london.Time, obs.Time)
	s.Equal(51.5, obs.LatDeg)

	after, err := s.engine.Star(catalog.ByHIP(677))
	s.Require().NoError(err)
	s.Equal(before.Position, after.Position)
}

func (s *SiriusSuite) TestFailedLoadInstallsEmptyCatalog() {
	n, err := s.engine.LoadCatalog(filepath.Join(s.T().TempDir(), "missing.csv"))
	s.Error(err)
	s.ErrorIs(err, os.ErrNotExist)
	s.Zero(n)

	total, nav := s.engine.Counts()
	s.Zero(total)
	s.Zero(nav)

	_, err = s.engine.Star(catalog.ByHIP(677))
	s.ErrorIs(err, ErrCatalogUnavailable)
}

func (s *SiriusSuite) TestEmptyFileFailsLoad() {
	n, err := s.engine.LoadCatalog(writeCatalog(s.T(), "empty.csv", ""))
	s.ErrorIs(err, catalog.ErrEmpty)
	s.Zero(n)
	s.Nil(s.engine.Catalog())
}

func TestSnapshot_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Snapshot)
		ok     bool
	}{
		{"valid", func(*Snapshot) {}, true},
		{"north pole", func(s *Snapshot) { s.LatDeg = 90 }, true},
		{"south pole", func(s *Snapshot) { s.LatDeg = -90 }, true},
		{"lon 0..360", func(s *Snapshot) { s.LonDeg = 359.9 }, true},
		{"lon -180", func(s *Snapshot) { s.LonDeg = -180 }, true},
		{"lat 91", func(s *Snapshot) { s.LatDeg = 91 }, false},
		{"lat -90.5", func(s *Snapshot) { s.LatDeg = -90.5 }, false},
		{"lon 360", func(s *Snapshot) { s.LonDeg = 360 }, false},
		{"lon -181", func(s *Snapshot) { s.LonDeg = -181 }, false},
		{"nan lat", func(s *Snapshot) { s.LatDeg = math.NaN() }, false},
		{"inf elev", func(s *Snapshot) { s.ElevM = math.Inf(1) }, false},
		{"zero time", func(s *Snapshot) { s.Time = time.Time{} }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := london
			tc.mutate(&s)
			err := s.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidObserver)
			}
		})
	}
}

func TestSnapshot_SiteNormalizesLongitude(t *testing.T) {
	s := london
	s.LonDeg = 359.87
	assert.InDelta(t, -0.13, s.Site().LonDeg, 1e-9)
}

func TestEngine_ObserverUnset(t *testing.T) {
	e := New(WithCatalog(catalog.Default()))

	_, ok := e.Observer()
	assert.False(t, ok)

	_, err := e.Star(catalog.ByHIP(32349))
	assert.ErrorIs(t, err, ErrObserverUnset)
	_, err = e.Sun()
	assert.ErrorIs(t, err, ErrObserverUnset)
	_, err = e.Stars()
	assert.ErrorIs(t, err, ErrObserverUnset)
	assert.ErrorIs(t, e.Advance(time.Now()), ErrObserverUnset)
	_, err = e.Window(BodyTarget(ephem.Sun), 0, 0)
	assert.ErrorIs(t, err, ErrObserverUnset)
}

func TestEngine_StarErrors(t *testing.T) {
	e := newDefaultEngine(t)

	tests := []struct {
		name string
		key  catalog.Key
		want error
	}{
		{"hip zero", catalog.ByHIP(0), ErrInvalidID},
		{"nav zero", catalog.ByNav(0), ErrInvalidID},
		{"bad kind", catalog.Key{Kind: catalog.IDKind(7), ID: 1}, ErrInvalidID},
		{"hip absent", catalog.ByHIP(999999), ErrNotFound},
		{"nav absent", catalog.ByNav(58), ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Star(tc.key)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	e.SetCatalog(nil)
	_, err := e.Star(catalog.ByHIP(32349))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestEngine_CrossReference(t *testing.T) {
	e := newDefaultEngine(t)

	for _, s := range e.Catalog().Stars() {
		if !s.Navigational() {
			continue
		}
		byHIP, err := e.Star(catalog.ByHIP(s.HIP))
		require.NoError(t, err)
		byNav, err := e.Star(catalog.ByNav(s.Nav))
		require.NoError(t, err)

		assert.Equal(t, s.Nav, byHIP.Star.Nav, "HIP %d", s.HIP)
		assert.Equal(t, s.HIP, byNav.Star.HIP, "NAV %d", s.Nav)
		assert.Equal(t, byHIP.Position, byNav.Position)
	}
}

func TestEngine_Ranges(t *testing.T) {
	e := New(WithCatalog(catalog.Default()))

	sites := []Snapshot{
		london,
		{Time: time.Date(2031, 1, 5, 14, 0, 0, 0, time.UTC), LatDeg: -33.87, LonDeg: 151.21, ElevM: 50},
		{Time: time.Date(1999, 8, 11, 11, 0, 0, 0, time.UTC), LatDeg: 89.9, LonDeg: 200, ElevM: 2800},
		{Time: time.Date(2010, 3, 1, 0, 0, 0, 0, time.UTC), LatDeg: -90, LonDeg: 0, ElevM: 0},
	}

	check := func(t *testing.T, what string, p Position) {
		assert.GreaterOrEqual(t, p.AzDeg, 0.0, what)
		assert.Less(t, p.AzDeg, 360.0, what)
		assert.GreaterOrEqual(t, p.ElDeg, -90.0, what)
		assert.LessOrEqual(t, p.ElDeg, 90.0, what)
		assert.GreaterOrEqual(t, p.RAdeg, 0.0, what)
		assert.Less(t, p.RAdeg, 360.0, what)
	}

	for _, site := range sites {
		require.NoError(t, e.SetObserver(site))

		stars, err := e.Stars()
		require.NoError(t, err)
		assert.Len(t, stars, 58)
		for _, sp := range stars {
			check(t, sp.Star.Name, sp.Position)
		}

		for _, b := range ephem.Bodies() {
			p, err := e.Body(b)
			require.NoError(t, err, b.String())
			check(t, b.String(), p)
		}
	}
}

func TestEngine_BodyIndexAliases(t *testing.T) {
	e := newDefaultEngine(t)

	sun, err := e.Sun()
	require.NoError(t, err)
	b, err := ephem.FromIndex(8)
	require.NoError(t, err)
	viaIndex, err := e.Body(b)
	require.NoError(t, err)

	assert.InDelta(t, sun.AzDeg, viaIndex.AzDeg, 1e-9)
	assert.InDelta(t, sun.ElDeg, viaIndex.ElDeg, 1e-9)

	moon, err := e.Moon()
	require.NoError(t, err)
	b, _ = ephem.FromIndex(9)
	viaIndex, err = e.Body(b)
	require.NoError(t, err)
	assert.Equal(t, moon.AzDeg, viaIndex.AzDeg)
	assert.Equal(t, moon.ElDeg, viaIndex.ElDeg)
	assert.Equal(t, moon.Lunar, viaIndex.Lunar)
}

func TestEngine_Sun(t *testing.T) {
	e := New()
	// Local noon at Greenwich near the June solstice
	require.NoError(t, e.SetObserver(Snapshot{
		Time:   time.Date(2024, 6, 20, 12, 2, 0, 0, time.UTC),
		LatDeg: 51.4769,
		LonDeg: 0,
	}))

	sun, err := e.Sun()
	require.NoError(t, err)
	assert.InDelta(t, 180, sun.AzDeg, 1.0)
	assert.InDelta(t, 90-51.4769+23.44, sun.ElDeg, 0.1)
	assert.InDelta(t, 0.525, sun.DiameterDeg, 0.005)
	assert.InDelta(t, -26.705, sun.Magnitude, 0.03)
	assert.Nil(t, sun.Lunar)
}

func TestEngine_Moon(t *testing.T) {
	e := newDefaultEngine(t)

	for day := 0; day < 60; day += 3 {
		require.NoError(t, e.Advance(london.Time.Add(time.Duration(day)*24*time.Hour)))
		moon, err := e.Moon()
		require.NoError(t, err)
		require.NotNil(t, moon.Lunar)

		l := moon.Lunar
		assert.GreaterOrEqual(t, l.AgeDays, 0.0)
		assert.Less(t, l.AgeDays, l.MonthDays)
		assert.InDelta(t, 29.53, l.MonthDays, 0.3)
		assert.GreaterOrEqual(t, l.OrientationDeg, 0.0)
		assert.Less(t, l.OrientationDeg, 360.0)
		assert.InDelta(t, 0.52, moon.DiameterDeg, 0.05)

		obs, _ := e.Observer()
		untilNew := time.Duration((l.MonthDays - l.AgeDays) * 24 * float64(time.Hour))
		assert.WithinDuration(t, obs.Time.Add(untilNew), l.NextNewMoon, 2*time.Second)
	}
}

func TestEngine_Planet(t *testing.T) {
	e := newDefaultEngine(t)

	jup, err := e.Planet(astro.Jupiter)
	require.NoError(t, err)
	assert.Less(t, jup.Magnitude, -1.5)
	assert.Greater(t, jup.DiameterDeg, 0.0)
	assert.Greater(t, jup.DistAU, 3.9)

	_, err = e.Planet(astro.Planet(9))
	assert.ErrorIs(t, err, ephem.ErrUnknownBody)

	require.NoError(t, e.Advance(time.Date(2070, 1, 1, 0, 0, 0, 0, time.UTC)))
	_, err = e.Planet(astro.Mars)
	assert.ErrorIs(t, err, ephem.ErrOutOfRange)
	_, err = e.Sun()
	assert.NoError(t, err)
}

func TestEngine_StarColor(t *testing.T) {
	e := newDefaultEngine(t)

	// Betelgeuse is red, Rigel blue-white
	betelgeuse, err := e.Star(catalog.ByHIP(27989))
	require.NoError(t, err)
	rigel, err := e.Star(catalog.ByHIP(24436))
	require.NoError(t, err)

	assert.Greater(t, betelgeuse.Color.R-betelgeuse.Color.B, rigel.Color.R-rigel.Color.B)
	assert.Equal(t, 0.0, betelgeuse.DiameterDeg)
	assert.Equal(t, betelgeuse.Star.Mag, betelgeuse.Magnitude)
}

func TestEngine_Advance(t *testing.T) {
	e := newDefaultEngine(t)

	later := london.Time.Add(90 * time.Minute)
	require.NoError(t, e.Advance(later))
	assert.ErrorIs(t, e.Advance(time.Time{}), ErrInvalidObserver)

	obs, _ := e.Observer()
	assert.Equal(t, later, obs.Time)
	assert.Equal(t, london.LatDeg, obs.LatDeg)
}

func TestEngine_Window(t *testing.T) {
	e := New(WithCatalog(catalog.Default()))
	require.NoError(t, e.SetObserver(Snapshot{
		Time:   time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC),
		LatDeg: 51.5,
		LonDeg: -0.13,
		ElevM:  35,
	}))

	sun, err := e.Window(BodyTarget(ephem.Sun), 24*time.Hour, 5*time.Minute)
	require.NoError(t, err)
	require.True(t, sun.Valid)
	assert.WithinDuration(t, time.Date(2024, 6, 21, 3, 43, 0, 0, time.UTC), sun.Rise, 5*time.Minute)
	assert.WithinDuration(t, time.Date(2024, 6, 21, 20, 21, 0, 0, time.UTC), sun.Set, 5*time.Minute)
	assert.WithinDuration(t, time.Date(2024, 6, 21, 12, 2, 0, 0, time.UTC), sun.Transit, 5*time.Minute)

	polaris, err := e.Window(StarTarget(catalog.ByHIP(11767)), 0, 0)
	require.NoError(t, err)
	assert.True(t, polaris.AlwaysVisible)

	// Acrux never rises from London
	acrux, err := e.Window(StarTarget(catalog.ByNav(30)), 0, 0)
	require.NoError(t, err)
	assert.True(t, acrux.NeverVisible)

	_, err = e.Window(StarTarget(catalog.ByHIP(0)), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = e.Window(Target{}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestEngine_WindowTooFine(t *testing.T) {
	e := newDefaultEngine(t)

	targets := []Target{
		StarTarget(catalog.ByHIP(32349)),
		BodyTarget(ephem.Sun),
		BodyTarget(ephem.Moon),
	}
	for _, target := range targets {
		_, err := e.Window(target, 0, time.Nanosecond)
		assert.ErrorIs(t, err, ErrWindowTooFine, target.String())

		_, err = e.Window(target, 168*time.Hour, time.Second)
		assert.ErrorIs(t, err, ErrWindowTooFine, target.String())
	}

	// Exactly MaxWindowSamples samples is still accepted
	step := time.Minute
	_, err := e.Window(StarTarget(catalog.ByHIP(32349)), time.Duration(MaxWindowSamples-1)*step, step)
	assert.NoError(t, err)
}

func TestEngine_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	e := New(WithMetrics(m), WithCatalog(catalog.Default()))
	assert.Equal(t, 58.0, testutil.ToFloat64(m.CatalogStars.WithLabelValues("total")))
	assert.Equal(t, 57.0, testutil.ToFloat64(m.CatalogStars.WithLabelValues("navigational")))

	require.NoError(t, e.SetObserver(london))
	_, err = e.Star(catalog.ByHIP(32349))
	require.NoError(t, err)
	_, err = e.Star(catalog.ByHIP(1))
	require.Error(t, err)
	_, err = e.Sun()
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("star", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("star", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Queries.WithLabelValues("sun", "ok")))

	_, err = e.LoadCatalog("/nonexistent/catalog.csv")
	require.Error(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogLoads.WithLabelValues("error")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.CatalogStars.WithLabelValues("total")))

	// Registering twice reuses the existing collectors
	again, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m.Queries, again.Queries)
	assert.Equal(t, reg, again.Gatherer())

	var nilMetrics *Metrics
	assert.Nil(t, nilMetrics.Gatherer())
}

func TestEngine_Concurrent(t *testing.T) {
	e := newDefaultEngine(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					s := london
					s.Time = s.Time.Add(time.Duration(j) * time.Minute)
					assert.NoError(t, e.SetObserver(s))
					continue
				}
				_, err := e.Star(catalog.ByNav(uint32(j%57 + 1)))
				assert.NoError(t, err)
				_, err = e.Moon()
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
}

func TestIndependentEngines(t *testing.T) {
	a := newDefaultEngine(t)
	b := New()

	_, err := b.Star(catalog.ByHIP(32349))
	assert.ErrorIs(t, err, ErrCatalogUnavailable)

	_, err = a.Star(catalog.ByHIP(32349))
	assert.NoError(t, err)
}
