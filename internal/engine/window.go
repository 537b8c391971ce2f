package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/ephem"
)

const (
	// DefaultWindowSpan is the span searched for rise and set.
	DefaultWindowSpan = 24 * time.Hour
	// DefaultWindowStep is the sampling step for the search.
	DefaultWindowStep = 10 * time.Minute

	// MaxWindowSamples bounds the samples taken for one window.
	MaxWindowSamples = ephem.MaxPathSamples
)

// ErrWindowTooFine is returned when span/step exceeds MaxWindowSamples.
var ErrWindowTooFine = errors.New("window step too small for span")

// Target is either a catalog star or a solar-system body.
type Target struct {
	star *catalog.Key
	body *ephem.Body
}

// StarTarget targets a catalog star.
func StarTarget(k catalog.Key) Target { return Target{star: &k} }

// BodyTarget targets a solar-system body.
func BodyTarget(b ephem.Body) Target { return Target{body: &b} }

func (t Target) String() string {
	switch {
	case t.star != nil:
		return t.star.String()
	case t.body != nil:
		return t.body.String()
	default:
		return "none"
	}
}

// pathProvider is implemented by providers that sample paths themselves,
// such as ephem.CachedProvider.
type pathProvider interface {
	Path(b ephem.Body, start, end time.Time, step time.Duration) ([]ephem.Place, error)
}

// Window finds rise, transit and set of target over [now, now+span] for the
// current observer, sampling every step. Non-positive span or step select
// the defaults.
func (e *Engine) Window(target Target, span, step time.Duration) (w astro.VisibilityWindow, err error) {
	start := time.Now()
	defer func() { e.metrics.observeQuery("window", start, err) }()

	if span <= 0 {
		span = DefaultWindowSpan
	}
	if step <= 0 {
		step = DefaultWindowStep
	}

	cat, obs, ok := e.state()

	n, err := ephem.PathSamples(obs.Time, obs.Time.Add(span), step)
	if err != nil {
		return astro.VisibilityWindow{}, fmt.Errorf("%w: span %v at step %v", ErrWindowTooFine, span, step)
	}

	var samples []astro.ElevationSample
	horizon := astro.StarHorizon

	switch {
	case target.star != nil:
		s, err := lookup(cat, *target.star)
		if err != nil {
			return astro.VisibilityWindow{}, err
		}
		if !ok {
			return astro.VisibilityWindow{}, ErrObserverUnset
		}
		samples = e.starSamples(s, obs, n, step)

	case target.body != nil:
		if !ok {
			return astro.VisibilityWindow{}, ErrObserverUnset
		}
		b := *target.body
		switch b.Kind() {
		case ephem.KindSun:
			horizon = astro.SunHorizon
		case ephem.KindMoon:
			horizon = astro.MoonHorizon
		}
		samples, err = e.bodySamples(b, obs, span, step)
		if err != nil {
			return astro.VisibilityWindow{}, err
		}

	default:
		return astro.VisibilityWindow{}, fmt.Errorf("%w: empty target", ErrInvalidID)
	}

	return astro.RiseSet(samples, horizon)
}

// starSamples reuses the apparent place at the observer time; precession
// over a day is far below the sampling resolution.
func (e *Engine) starSamples(s catalog.Star, obs Snapshot, n int, step time.Duration) []astro.ElevationSample {
	jd := astro.JulianDate(obs.Time)
	ra, dec := astro.PrecessionNutation(s.RAdeg, s.DecDeg, astro.J2000, jd)
	site := obs.Site()

	out := make([]astro.ElevationSample, n)
	for i := range out {
		t := obs.Time.Add(time.Duration(i) * step)
		_, el := horizontal(ra, dec, astro.LocalSiderealTime(t, site.LonDeg), site)
		out[i] = astro.ElevationSample{Time: t, ElDeg: el}
	}
	return out
}

func (e *Engine) bodySamples(b ephem.Body, obs Snapshot, span, step time.Duration) ([]astro.ElevationSample, error) {
	end := obs.Time.Add(span)

	var places []ephem.Place
	var err error
	if pp, ok := e.provider.(pathProvider); ok {
		places, err = pp.Path(b, obs.Time, end, step)
	} else {
		places, err = ephem.Path(e.provider, b, obs.Time, end, step)
	}
	if err != nil {
		return nil, err
	}

	out := make([]astro.ElevationSample, len(places))
	for i, p := range places {
		at := obs
		at.Time = p.Time
		out[i] = astro.ElevationSample{Time: p.Time, ElDeg: bodyPosition(p, at).ElDeg}
	}
	return out, nil
}
