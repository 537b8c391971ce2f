package astro

import (
	"errors"
	"math"
	"time"
)

// ElevationSample is an object's apparent elevation at one instant.
type ElevationSample struct {
	Time  time.Time
	ElDeg float64
}

// VisibilityWindow represents a rise-transit-set cycle for an object.
type VisibilityWindow struct {
	Rise          time.Time // Time object rises above horizon
	Transit       time.Time // Time of highest point in the sampled span
	Set           time.Time // Time object sets below horizon
	MaxElevation  float64   // Peak elevation in degrees
	Valid         bool      // Whether a valid window was found
	AlwaysVisible bool      // Object never sets (circumpolar)
	NeverVisible  bool      // Object never rises
}

// Horizon thresholds for apparent (refracted) elevations.
const (
	// StarHorizon is the rise/set altitude of a point source.
	StarHorizon = 0.0
	// SunHorizon puts the Sun's upper limb on the horizon.
	SunHorizon = -0.2667
	// MoonHorizon puts the Moon's upper limb on the horizon.
	MoonHorizon = -0.2590
)

// Errors for visibility calculations.
var (
	ErrInsufficientSamples = errors.New("insufficient samples for visibility calculation")
	ErrUnorderedSamples    = errors.New("samples are not in chronological order")
)

// RiseSet computes rise, transit, and set times from chronologically ordered
// elevation samples. Crossings of horizonDeg are found by linear
// interpolation; the transit is refined with a parabola through the three
// samples around the maximum.
func RiseSet(samples []ElevationSample, horizonDeg float64) (VisibilityWindow, error) {
	if len(samples) < 3 {
		return VisibilityWindow{}, ErrInsufficientSamples
	}

	minEl, maxEl := 90.0, -90.0
	maxIdx := 0
	for i, s := range samples {
		if i > 0 && !s.Time.After(samples[i-1].Time) {
			return VisibilityWindow{}, ErrUnorderedSamples
		}
		if s.ElDeg < minEl {
			minEl = s.ElDeg
		}
		if s.ElDeg > maxEl {
			maxEl = s.ElDeg
			maxIdx = i
		}
	}

	if minEl > horizonDeg {
		return VisibilityWindow{
			Transit:       samples[maxIdx].Time,
			MaxElevation:  maxEl,
			Valid:         true,
			AlwaysVisible: true,
		}, nil
	}
	if maxEl < horizonDeg {
		return VisibilityWindow{
			Valid:        true,
			NeverVisible: true,
		}, nil
	}

	var w VisibilityWindow
	riseIdx := -1
	for i := 1; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.ElDeg <= horizonDeg && curr.ElDeg > horizonDeg {
			w.Rise = interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, horizonDeg)
			riseIdx = i
			break
		}
	}

	// Look for the set after the rise, or from the start if already up
	start := 1
	if riseIdx > 0 {
		start = riseIdx + 1
	}
	w.Set = findSet(samples, start, horizonDeg)
	if w.Set.IsZero() && start > 1 {
		// Rose late in the span; report the earlier set instead
		w.Set = findSet(samples, 1, horizonDeg)
	}

	w.Transit, w.MaxElevation = refineMaxElevation(samples, maxIdx)
	w.Valid = true
	return w, nil
}

// findSet returns the first downward crossing at or after samples[from].
func findSet(samples []ElevationSample, from int, horizonDeg float64) time.Time {
	for i := from; i < len(samples); i++ {
		prev, curr := samples[i-1], samples[i]
		if prev.ElDeg > horizonDeg && curr.ElDeg <= horizonDeg {
			return interpolateCrossing(prev.Time, curr.Time, prev.ElDeg, curr.ElDeg, horizonDeg)
		}
	}
	return time.Time{}
}

// refineMaxElevation fits a parabola through the samples around idx.
func refineMaxElevation(samples []ElevationSample, idx int) (time.Time, float64) {
	best := samples[idx]
	if idx == 0 || idx == len(samples)-1 {
		return best.Time, best.ElDeg
	}

	y0 := samples[idx-1].ElDeg
	y1 := best.ElDeg
	y2 := samples[idx+1].ElDeg

	// Parabola y = a t^2 + b t + c through t = -1, 0, +1
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	if a >= 0 {
		return best.Time, best.ElDeg
	}

	tMax := clamp(-b/(2*a), -1, 1)

	var dt time.Duration
	if tMax < 0 {
		dt = best.Time.Sub(samples[idx-1].Time)
	} else {
		dt = samples[idx+1].Time.Sub(best.Time)
	}
	refined := best.Time.Add(time.Duration(float64(dt) * tMax))

	return refined, a*tMax*tMax + b*tMax + c
}

// interpolateCrossing finds the time when elevation crosses a threshold.
func interpolateCrossing(t1, t2 time.Time, el1, el2, threshold float64) time.Time {
	if math.Abs(el2-el1) < 0.0001 {
		return t1
	}

	fraction := clamp((threshold-el1)/(el2-el1), 0, 1)

	dt := t2.Sub(t1)
	return t1.Add(time.Duration(float64(dt) * fraction))
}

// ElevationTier categorizes elevation for UI display.
type ElevationTier int

const (
	ElevationNone   ElevationTier = iota // Below horizon
	ElevationLow                         // 0-15 degrees
	ElevationMedium                      // 15-45 degrees
	ElevationHigh                        // 45+ degrees
)

// GetElevationTier returns the tier for a given elevation.
func GetElevationTier(elDeg float64) ElevationTier {
	switch {
	case elDeg <= 0:
		return ElevationNone
	case elDeg < 15:
		return ElevationLow
	case elDeg < 45:
		return ElevationMedium
	default:
		return ElevationHigh
	}
}
