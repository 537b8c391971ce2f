// Package ephem provides apparent places of the Sun, the Moon and the
// planets from analytic theories.
package ephem

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Place is the apparent geocentric place of a body at one instant.
type Place struct {
	Body          Body
	Time          time.Time
	RAdeg         float64 // apparent right ascension of date
	DecDeg        float64 // apparent declination of date
	DistAU        float64 // geocentric distance
	DiameterDeg   float64 // apparent angular diameter
	Magnitude     float64 // apparent visual magnitude
	PhaseAngleDeg float64 // Sun-body-Earth angle, 0 for the Sun
	Lunar         *Lunar  // Moon only
}

// Lunar holds the Moon's phase quantities.
type Lunar struct {
	AgeDays       float64 // days since the last new moon
	MonthDays     float64 // length of the current synodic month
	Illuminated   float64 // illuminated fraction of the disk
	BrightLimbDeg float64 // position angle of the bright limb from celestial north
	NextNewMoon   time.Time
}

// Provider defines the interface for ephemeris sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// Place returns the apparent geocentric place of b at t.
	Place(b Body, t time.Time) (Place, error)

	// Available reports whether the provider can supply b at t.
	Available(b Body, t time.Time) bool
}

// Range is a half-open validity interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

var (
	// lunisolarRange bounds the Sun and Moon series.
	lunisolarRange = Range{
		Start: time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	// planetRange bounds the approximate Keplerian elements.
	planetRange = Range{
		Start: time.Date(1800, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2051, 1, 1, 0, 0, 0, 0, time.UTC),
	}
)

// Validity returns the interval over which b's model is trusted.
func Validity(b Body) Range {
	if b.Kind() == KindPlanet {
		return planetRange
	}
	return lunisolarRange
}

// Analytic computes places from the low-precision theories in astro.
// It is stateless and safe for concurrent use.
type Analytic struct{}

// Name implements Provider.
func (Analytic) Name() string {
	return "analytic"
}

// Available implements Provider.
func (Analytic) Available(b Body, t time.Time) bool {
	return b.Valid() && Validity(b).Contains(t)
}

// Place implements Provider.
func (a Analytic) Place(b Body, t time.Time) (Place, error) {
	if !b.Valid() {
		return Place{}, fmt.Errorf("%w: %v", ErrUnknownBody, b)
	}
	if !Validity(b).Contains(t) {
		return Place{}, fmt.Errorf("%w: %s at %s", ErrOutOfRange, b, t.UTC().Format(time.RFC3339))
	}

	jd := astro.JulianDate(t)
	p := Place{Body: b, Time: t}

	switch b.Kind() {
	case KindSun:
		sun := astro.SunApparent(jd)
		p.RAdeg, p.DecDeg = sun.RAdeg, sun.DecDeg
		p.DistAU = sun.DistAU
		p.DiameterDeg = sun.DiameterDeg
		p.Magnitude = astro.SunMagnitude(sun.DistAU)

	case KindMoon:
		moon := astro.MoonApparent(jd)
		sun := astro.SunApparent(jd)
		phase := astro.Phase(jd)

		p.RAdeg, p.DecDeg = moon.RAdeg, moon.DecDeg
		p.DistAU = moon.DistAU()
		p.DiameterDeg = moon.DiameterDeg
		p.PhaseAngleDeg = math.Acos(2*phase.Illuminated-1) * 180 / math.Pi
		p.Magnitude = astro.MoonMagnitude(p.PhaseAngleDeg, moon.DistKm)
		p.Lunar = &Lunar{
			AgeDays:       phase.AgeDays,
			MonthDays:     phase.MonthDays,
			Illuminated:   phase.Illuminated,
			BrightLimbDeg: astro.BrightLimbAngle(moon.RAdeg, moon.DecDeg, sun.RAdeg, sun.DecDeg),
			NextNewMoon:   astro.TimeFromJulian(phase.NextNewMoonJD),
		}

	case KindPlanet:
		planet, _ := b.Planet()
		pl, err := astro.PlanetApparent(planet, jd)
		if err != nil {
			return Place{}, err
		}
		p.RAdeg, p.DecDeg = pl.RAdeg, pl.DecDeg
		p.DistAU = pl.DistAU
		p.DiameterDeg = pl.DiameterDeg
		p.Magnitude = pl.Magnitude
		p.PhaseAngleDeg = pl.PhaseAngleDeg
	}

	return p, nil
}

// MaxPathSamples bounds the number of places in one sampled path.
const MaxPathSamples = 20000

// ErrPathTooLong is returned when a path would exceed MaxPathSamples.
var ErrPathTooLong = errors.New("path has too many samples")

// PathSamples returns the number of places sampled from start to end
// inclusive every step, or ErrPathTooLong above MaxPathSamples.
func PathSamples(start, end time.Time, step time.Duration) (int, error) {
	if step <= 0 {
		return 0, fmt.Errorf("path step must be positive, got %v", step)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("path end %v before start %v", end, start)
	}
	n := int64(end.Sub(start) / step)
	if n >= MaxPathSamples {
		return 0, fmt.Errorf("%w: %d > %d", ErrPathTooLong, n+1, MaxPathSamples)
	}
	return int(n) + 1, nil
}

// Path samples a body's place from start to end inclusive every step.
func Path(p Provider, b Body, start, end time.Time, step time.Duration) ([]Place, error) {
	n, err := PathSamples(start, end, step)
	if err != nil {
		return nil, err
	}

	out := make([]Place, 0, n)
	for i := 0; i < n; i++ {
		pl, err := p.Place(b, start.Add(time.Duration(i)*step))
		if err != nil {
			return nil, err
		}
		out = append(out, pl)
	}
	return out, nil
}
