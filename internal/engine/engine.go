// Package engine answers "where is it now" queries for stars and
// solar-system bodies against a catalog and an observer snapshot.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/logging"
)

// Errors returned by queries.
var (
	ErrCatalogUnavailable = errors.New("no catalog loaded")
	ErrInvalidID          = errors.New("invalid catalog number")
	ErrNotFound           = errors.New("star not found")
	ErrObserverUnset      = errors.New("observer not configured")
	ErrInvalidObserver    = errors.New("invalid observer")
)

// airTemperature is the temperature assumed for refraction (°C).
const airTemperature = astro.StandardTemperature

// Snapshot is the observer state every query is evaluated against.
type Snapshot struct {
	Time   time.Time // instant of observation, UTC
	LatDeg float64   // geodetic latitude, north positive
	LonDeg float64   // longitude, east positive; [-180, 180] or [0, 360)
	ElevM  float64   // height above sea level in meters
}

// Validate checks the snapshot ranges.
func (s Snapshot) Validate() error {
	switch {
	case s.Time.IsZero():
		return fmt.Errorf("%w: time not set", ErrInvalidObserver)
	case !finite(s.LatDeg) || !finite(s.LonDeg) || !finite(s.ElevM):
		return fmt.Errorf("%w: non-finite input", ErrInvalidObserver)
	case s.LatDeg < -90 || s.LatDeg > 90:
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", ErrInvalidObserver, s.LatDeg)
	case s.LonDeg < -180 || s.LonDeg >= 360:
		return fmt.Errorf("%w: longitude %g outside [-180, 360)", ErrInvalidObserver, s.LonDeg)
	}
	return nil
}

// Site returns the snapshot location as an astro.Observer with the
// longitude normalized to (-180, 180].
func (s Snapshot) Site() astro.Observer {
	return astro.Observer{
		LatDeg: s.LatDeg,
		LonDeg: astro.NormalizeLongitude(s.LonDeg),
		ElevM:  s.ElevM,
	}
}

// Position is the apparent place of a target for the current observer.
type Position struct {
	RAdeg       float64 // apparent geocentric right ascension of date
	DecDeg      float64 // apparent geocentric declination of date
	AzDeg       float64 // topocentric azimuth, [0, 360)
	ElDeg       float64 // topocentric refracted elevation, [-90, 90]
	DiameterDeg float64 // apparent diameter, 0 for stars
	Magnitude   float64 // apparent visual magnitude
	DistAU      float64 // geocentric distance, 0 for stars
	Lunar       *Lunar  // Moon only
}

// Lunar holds the Moon-only extras.
type Lunar struct {
	AgeDays        float64 // days since the last new moon, [0, MonthDays)
	OrientationDeg float64 // bright limb, clockwise from the zenith direction
	MonthDays      float64 // length of the current synodic month
	Illuminated    float64 // illuminated fraction
	NextNewMoon    time.Time
}

// StarPosition is a catalog star with its apparent place and color.
type StarPosition struct {
	Star catalog.Star
	Position
	Color astro.RGB
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithCatalog installs an initial catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithProvider replaces the analytic ephemeris provider.
func WithProvider(p ephem.Provider) Option {
	return func(e *Engine) {
		e.provider = p
	}
}

// Engine owns one catalog and one observer snapshot. Independent engines
// share nothing; a single engine is safe for concurrent use.
type Engine struct {
	log      *logging.Logger
	metrics  *Metrics
	provider ephem.Provider

	mu       sync.RWMutex
	catalog  *catalog.Catalog
	observer Snapshot
	hasObs   bool
}

// New creates an engine with no observer configured.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	e.log = e.log.With("component", "engine")
	if e.provider == nil {
		e.provider = ephem.NewCachedProvider(ephem.Analytic{}, 0)
	}
	e.metrics.setCounts(e.catalog.Counts())
	return e
}

// LoadCatalog reads a catalog file and installs it, returning the number of
// stars. On failure an empty catalog is installed and 0 is returned.
func (e *Engine) LoadCatalog(path string) (int, error) {
	c, err := catalog.Load(path)
	if err != nil {
		e.mu.Lock()
		e.catalog = nil
		e.mu.Unlock()

		e.metrics.observeLoad(0, 0, err)
		e.log.Warn("catalog load failed: %v", err)
		return 0, err
	}

	total, nav := c.Counts()
	e.mu.Lock()
	e.catalog = c
	e.mu.Unlock()

	e.metrics.observeLoad(total, nav, nil)
	e.log.Info("loaded %d stars (%d navigational) from %s", total, nav, path)
	return total, nil
}

// SetCatalog installs c. A nil catalog clears the engine's stars.
func (e *Engine) SetCatalog(c *catalog.Catalog) {
	e.mu.Lock()
	e.catalog = c
	e.mu.Unlock()
	e.metrics.setCounts(c.Counts())
}

// Catalog returns the active catalog, nil when none is loaded.
func (e *Engine) Catalog() *catalog.Catalog {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog
}

// Counts reports the total and navigational star counts.
func (e *Engine) Counts() (total, navigational int) {
	return e.Catalog().Counts()
}

// SetObserver validates and installs a new observer snapshot. On error the
// previous snapshot stays in effect.
func (e *Engine) SetObserver(s Snapshot) error {
	if err := s.Validate(); err != nil {
		e.log.Warn("observer rejected: %v", err)
		return err
	}
	s.Time = s.Time.UTC()

	e.mu.Lock()
	e.observer = s
	e.hasObs = true
	e.mu.Unlock()

	e.log.Debug("observer set: lat=%.4f lon=%.4f elev=%.0fm t=%s",
		s.LatDeg, s.LonDeg, s.ElevM, s.Time.Format(time.RFC3339))
	return nil
}

// Observer returns the current snapshot and whether one has been set.
func (e *Engine) Observer() (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.observer, e.hasObs
}

// Advance moves the observer to t, keeping the site.
func (e *Engine) Advance(t time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasObs {
		return ErrObserverUnset
	}
	if t.IsZero() {
		return fmt.Errorf("%w: time not set", ErrInvalidObserver)
	}
	e.observer.Time = t.UTC()
	return nil
}

// state returns a consistent catalog/observer pair.
func (e *Engine) state() (*catalog.Catalog, Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.catalog, e.observer, e.hasObs
}

// Star returns the apparent place of a catalog star.
func (e *Engine) Star(k catalog.Key) (sp StarPosition, err error) {
	start := time.Now()
	defer func() { e.metrics.observeQuery("star", start, err) }()

	cat, obs, ok := e.state()
	s, err := lookup(cat, k)
	if err != nil {
		e.log.Debug("star %s: %v", k, err)
		return StarPosition{}, err
	}
	if !ok {
		return StarPosition{}, ErrObserverUnset
	}
	return starPosition(s, obs), nil
}

// Stars returns the apparent places of every catalog star, navigational
// stars first.
func (e *Engine) Stars() ([]StarPosition, error) {
	cat, obs, ok := e.state()
	if cat.Len() == 0 {
		return nil, ErrCatalogUnavailable
	}
	if !ok {
		return nil, ErrObserverUnset
	}

	stars := cat.Stars()
	out := make([]StarPosition, len(stars))
	for i, s := range stars {
		out[i] = starPosition(s, obs)
	}
	return out, nil
}

func lookup(cat *catalog.Catalog, k catalog.Key) (catalog.Star, error) {
	if k.ID == 0 || (k.Kind != catalog.Hipparcos && k.Kind != catalog.Navigational) {
		return catalog.Star{}, fmt.Errorf("%w: %s", ErrInvalidID, k)
	}
	if cat.Len() == 0 {
		return catalog.Star{}, ErrCatalogUnavailable
	}
	s, ok := cat.Lookup(k)
	if !ok {
		return catalog.Star{}, fmt.Errorf("%w: %s", ErrNotFound, k)
	}
	return s, nil
}

func starPosition(s catalog.Star, obs Snapshot) StarPosition {
	jd := astro.JulianDate(obs.Time)
	ra, dec := astro.PrecessionNutation(s.RAdeg, s.DecDeg, astro.J2000, jd)

	site := obs.Site()
	lst := astro.LocalSiderealTime(obs.Time, site.LonDeg)
	az, el := horizontal(ra, dec, lst, site)

	return StarPosition{
		Star: s,
		Position: Position{
			RAdeg:     ra,
			DecDeg:    dec,
			AzDeg:     az,
			ElDeg:     el,
			Magnitude: s.Mag,
		},
		Color: astro.ColorIndexToRGB(s.ColorIndex),
	}
}

// horizontal converts an apparent place to refracted az/el at site.
func horizontal(ra, dec, lst float64, site astro.Observer) (az, el float64) {
	az, el = astro.EquatorialToHorizontal(ra, dec, lst, site.LatDeg)
	el += astro.RefractionAt(el, astro.PressureAtElevation(site.ElevM), airTemperature)
	return az, math.Min(el, 90)
}

// Body returns the apparent place of a solar-system body.
func (e *Engine) Body(b ephem.Body) (pos Position, err error) {
	start := time.Now()
	defer func() { e.metrics.observeQuery(b.Kind().String(), start, err) }()

	_, obs, ok := e.state()
	if !ok {
		return Position{}, ErrObserverUnset
	}

	place, err := e.provider.Place(b, obs.Time)
	if err != nil {
		e.log.Debug("body %s: %v", b, err)
		return Position{}, err
	}
	return bodyPosition(place, obs), nil
}

func bodyPosition(p ephem.Place, obs Snapshot) Position {
	site := obs.Site()
	lst := astro.LocalSiderealTime(obs.Time, site.LonDeg)

	topoRA, topoDec := astro.Topocentric(p.RAdeg, p.DecDeg, p.DistAU, site, lst)
	az, el := horizontal(topoRA, topoDec, lst, site)

	pos := Position{
		RAdeg:       p.RAdeg,
		DecDeg:      p.DecDeg,
		AzDeg:       az,
		ElDeg:       el,
		DiameterDeg: p.DiameterDeg,
		Magnitude:   p.Magnitude,
		DistAU:      p.DistAU,
	}

	if p.Lunar != nil {
		q := astro.ParallacticAngle(lst-topoRA, topoDec, site.LatDeg)
		pos.Lunar = &Lunar{
			AgeDays:        p.Lunar.AgeDays,
			OrientationDeg: wrap360(q - p.Lunar.BrightLimbDeg),
			MonthDays:      p.Lunar.MonthDays,
			Illuminated:    p.Lunar.Illuminated,
			NextNewMoon:    p.Lunar.NextNewMoon,
		}
	}
	return pos
}

// Sun returns the apparent place of the Sun.
func (e *Engine) Sun() (Position, error) {
	return e.Body(ephem.Sun)
}

// Moon returns the apparent place of the Moon.
func (e *Engine) Moon() (Position, error) {
	return e.Body(ephem.Moon)
}

// Planet returns the apparent place of a planet.
func (e *Engine) Planet(p astro.Planet) (Position, error) {
	if !p.Valid() {
		return Position{}, fmt.Errorf("%w: planet %d", ephem.ErrUnknownBody, int(p))
	}
	return e.Body(ephem.PlanetBody(p))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func wrap360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}
