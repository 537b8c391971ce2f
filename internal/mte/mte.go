// Package mte exposes the engine through a flat call-and-return contract
// for embedding hosts: numeric ids in, zero or false on failure.
package mte

import (
	"sync"
	"time"

	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// Body numbers accepted by GetPlanet.
const (
	Mercury uint32 = iota
	Venus
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Sun
	Moon
)

// StarInfo is the star record returned by the star getters.
type StarInfo struct {
	HipparcosID     uint32
	NavigationalID  uint32 // 0 when the star has no navigational number
	Name            string
	NameRU          string
	Constellation   string
	ConstellationRU string
	Alphabet        string // Bayer letter
	RightAscension  float64
	Declination     float64
	Azimuth         float64
	Elevation       float64
	Magnitude       float64
	Red             float64
	Green           float64
	Blue            float64
}

// SunInfo is the result of GetSun.
type SunInfo struct {
	RightAscension   float64
	Declination      float64
	Azimuth          float64
	Elevation        float64
	ApparentDiameter float64
}

// MoonInfo is the result of GetMoon.
type MoonInfo struct {
	RightAscension   float64
	Declination      float64
	Azimuth          float64
	Elevation        float64
	Age              float64 // days
	Orientation      float64 // degrees clockwise
	Month            float64 // days
	ApparentDiameter float64
}

// PlanetInfo is the result of GetPlanet.
type PlanetInfo struct {
	RightAscension   float64
	Declination      float64
	Azimuth          float64
	Elevation        float64
	Magnitude        float64
	ApparentDiameter float64
}

// Library is one independent almanac context.
type Library struct {
	eng *engine.Engine
}

// NewLibrary wraps an engine. A nil engine gets a fresh one.
func NewLibrary(e *engine.Engine) *Library {
	if e == nil {
		e = engine.New()
	}
	return &Library{eng: e}
}

// Engine returns the wrapped engine.
func (l *Library) Engine() *engine.Engine {
	return l.eng
}

// LoadEphemerides loads a star catalog and returns the number of stars,
// 0 if nothing was loaded.
func (l *Library) LoadEphemerides(path string) uint32 {
	n, err := l.eng.LoadCatalog(path)
	if err != nil {
		return 0
	}
	return uint32(n)
}

// GetStarsCount returns the total and navigational star counts.
func (l *Library) GetStarsCount() (total, navigational uint32) {
	t, n := l.eng.Counts()
	return uint32(t), uint32(n)
}

// SetObserver sets the observer from a Unix time, degrees and meters.
func (l *Library) SetObserver(timeUTC int64, latitude, longitude, elevation float64) bool {
	return l.eng.SetObserver(engine.Snapshot{
		Time:   time.Unix(timeUTC, 0).UTC(),
		LatDeg: latitude,
		LonDeg: longitude,
		ElevM:  elevation,
	}) == nil
}

// GetHipparcosStar returns the star with Hipparcos number id. The second
// result is id, or 0 on failure.
func (l *Library) GetHipparcosStar(id uint32) (StarInfo, uint32) {
	info, ok := l.star(catalog.ByHIP(id))
	if !ok {
		return StarInfo{}, 0
	}
	return info, info.HipparcosID
}

// GetNavigationalStar returns the star with navigational number id. The
// second result is id, or 0 on failure.
func (l *Library) GetNavigationalStar(id uint32) (StarInfo, uint32) {
	info, ok := l.star(catalog.ByNav(id))
	if !ok {
		return StarInfo{}, 0
	}
	return info, info.NavigationalID
}

func (l *Library) star(k catalog.Key) (StarInfo, bool) {
	sp, err := l.eng.Star(k)
	if err != nil {
		return StarInfo{}, false
	}
	s := sp.Star
	return StarInfo{
		HipparcosID:     s.HIP,
		NavigationalID:  s.Nav,
		Name:            s.Name,
		NameRU:          s.NameRU,
		Constellation:   s.Constellation,
		ConstellationRU: s.ConstellationRU,
		Alphabet:        s.Bayer,
		RightAscension:  sp.RAdeg,
		Declination:     sp.DecDeg,
		Azimuth:         sp.AzDeg,
		Elevation:       sp.ElDeg,
		Magnitude:       sp.Magnitude,
		Red:             sp.Color.R,
		Green:           sp.Color.G,
		Blue:            sp.Color.B,
	}, true
}

// GetSun returns the Sun's place.
func (l *Library) GetSun() (SunInfo, bool) {
	p, err := l.eng.Sun()
	if err != nil {
		return SunInfo{}, false
	}
	return SunInfo{
		RightAscension:   p.RAdeg,
		Declination:      p.DecDeg,
		Azimuth:          p.AzDeg,
		Elevation:        p.ElDeg,
		ApparentDiameter: p.DiameterDeg,
	}, true
}

// GetMoon returns the Moon's place and phase.
func (l *Library) GetMoon() (MoonInfo, bool) {
	p, err := l.eng.Moon()
	if err != nil || p.Lunar == nil {
		return MoonInfo{}, false
	}
	return MoonInfo{
		RightAscension:   p.RAdeg,
		Declination:      p.DecDeg,
		Azimuth:          p.AzDeg,
		Elevation:        p.ElDeg,
		Age:              p.Lunar.AgeDays,
		Orientation:      p.Lunar.OrientationDeg,
		Month:            p.Lunar.MonthDays,
		ApparentDiameter: p.DiameterDeg,
	}, true
}

// GetPlanet returns the place of body number index (Mercury=0 .. Moon=9).
func (l *Library) GetPlanet(index uint32) (PlanetInfo, bool) {
	b, err := ephem.FromIndex(index)
	if err != nil {
		return PlanetInfo{}, false
	}
	p, err := l.eng.Body(b)
	if err != nil {
		return PlanetInfo{}, false
	}
	return PlanetInfo{
		RightAscension:   p.RAdeg,
		Declination:      p.DecDeg,
		Azimuth:          p.AzDeg,
		Elevation:        p.ElDeg,
		Magnitude:        p.Magnitude,
		ApparentDiameter: p.DiameterDeg,
	}, true
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the process-wide library used by the package functions.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = NewLibrary(nil)
	})
	return defaultLib
}

// LoadEphemerides calls Default().LoadEphemerides.
func LoadEphemerides(path string) uint32 { return Default().LoadEphemerides(path) }

// GetStarsCount calls Default().GetStarsCount.
func GetStarsCount() (total, navigational uint32) { return Default().GetStarsCount() }

// SetObserver calls Default().SetObserver.
func SetObserver(timeUTC int64, latitude, longitude, elevation float64) bool {
	return Default().SetObserver(timeUTC, latitude, longitude, elevation)
}

// GetHipparcosStar calls Default().GetHipparcosStar.
func GetHipparcosStar(id uint32) (StarInfo, uint32) { return Default().GetHipparcosStar(id) }

// GetNavigationalStar calls Default().GetNavigationalStar.
func GetNavigationalStar(id uint32) (StarInfo, uint32) { return Default().GetNavigationalStar(id) }

// GetSun calls Default().GetSun.
func GetSun() (SunInfo, bool) { return Default().GetSun() }

// GetMoon calls Default().GetMoon.
func GetMoon() (MoonInfo, bool) { return Default().GetMoon() }

// GetPlanet calls Default().GetPlanet.
func GetPlanet(index uint32) (PlanetInfo, bool) { return Default().GetPlanet(index) }
