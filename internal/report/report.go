// Package report renders headless sky snapshots as JSON or a text table.
package report

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// SkySnapshot is the JSON-serializable state of the sky for one observer.
type SkySnapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Observer    ObserverExport `json:"observer"`
	Catalog     CatalogExport  `json:"catalog"`
	Sun         *BodyExport    `json:"sun,omitempty"`
	Moon        *MoonExport    `json:"moon,omitempty"`
	Planets     []BodyExport   `json:"planets"`
	Stars       []StarExport   `json:"stars"`
}

// ObserverExport is a JSON-friendly observer snapshot.
type ObserverExport struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation_m"`
	LST       float64   `json:"local_sidereal_time_deg"`
}

// CatalogExport reports the catalog counts.
type CatalogExport struct {
	Total        int `json:"total"`
	Navigational int `json:"navigational"`
}

// BodyExport is a JSON-friendly solar-system body.
type BodyExport struct {
	Index     uint32  `json:"index"`
	Name      string  `json:"name"`
	NameRU    string  `json:"name_ru"`
	RA        float64 `json:"ra"`
	Dec       float64 `json:"dec"`
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Magnitude float64 `json:"magnitude"`
	Diameter  float64 `json:"diameter_deg"`
	Distance  float64 `json:"distance_au"`
	Visible   bool    `json:"visible"`
}

// MoonExport adds the lunar phase quantities.
type MoonExport struct {
	BodyExport
	Age         float64   `json:"age_days"`
	Orientation float64   `json:"orientation_deg"`
	Month       float64   `json:"month_days"`
	Illuminated float64   `json:"illuminated"`
	NextNewMoon time.Time `json:"next_new_moon"`
}

// StarExport is a JSON-friendly catalog star.
type StarExport struct {
	HIP           uint32   `json:"hip"`
	Nav           uint32   `json:"nav,omitempty"`
	Name          string   `json:"name"`
	NameRU        string   `json:"name_ru,omitempty"`
	Constellation string   `json:"constellation,omitempty"`
	Bayer         string   `json:"bayer,omitempty"`
	RA            float64  `json:"ra"`
	Dec           float64  `json:"dec"`
	Azimuth       float64  `json:"azimuth"`
	Elevation     float64  `json:"elevation"`
	Magnitude     float64  `json:"magnitude"`
	Color         string   `json:"color"`
	ColorIndex    *float64 `json:"bv,omitempty"`
	Temperature   *float64 `json:"temperature_k,omitempty"`
	Visible       bool     `json:"visible"`
}

// BuildSnapshot evaluates the Sun, the Moon, the planets and the
// navigational stars for the engine's current observer. Bodies outside
// their model's validity range are left out.
func BuildSnapshot(e *engine.Engine, generatedAt time.Time) (*SkySnapshot, error) {
	obs, ok := e.Observer()
	if !ok {
		return nil, engine.ErrObserverUnset
	}

	site := obs.Site()
	total, nav := e.Counts()
	snap := &SkySnapshot{
		GeneratedAt: generatedAt,
		Observer: ObserverExport{
			Time:      obs.Time,
			Latitude:  site.LatDeg,
			Longitude: site.LonDeg,
			Elevation: site.ElevM,
			LST:       astro.LocalSiderealTime(obs.Time, site.LonDeg),
		},
		Catalog: CatalogExport{Total: total, Navigational: nav},
	}

	for _, b := range ephem.Bodies() {
		p, err := e.Body(b)
		if errors.Is(err, ephem.ErrOutOfRange) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b, err)
		}

		be := bodyExport(b, p)
		switch b.Kind() {
		case ephem.KindSun:
			snap.Sun = &be
		case ephem.KindMoon:
			m := &MoonExport{BodyExport: be}
			if p.Lunar != nil {
				m.Age = p.Lunar.AgeDays
				m.Orientation = p.Lunar.OrientationDeg
				m.Month = p.Lunar.MonthDays
				m.Illuminated = p.Lunar.Illuminated
				m.NextNewMoon = p.Lunar.NextNewMoon
			}
			snap.Moon = m
		default:
			snap.Planets = append(snap.Planets, be)
		}
	}

	stars, err := e.Stars()
	switch {
	case errors.Is(err, engine.ErrCatalogUnavailable):
	case err != nil:
		return nil, err
	default:
		for _, sp := range stars {
			if sp.Star.Navigational() {
				snap.Stars = append(snap.Stars, starExport(sp))
			}
		}
	}

	return snap, nil
}

func bodyExport(b ephem.Body, p engine.Position) BodyExport {
	return BodyExport{
		Index:     b.Index(),
		Name:      b.String(),
		NameRU:    b.NameRU(),
		RA:        p.RAdeg,
		Dec:       p.DecDeg,
		Azimuth:   p.AzDeg,
		Elevation: p.ElDeg,
		Magnitude: p.Magnitude,
		Diameter:  p.DiameterDeg,
		Distance:  p.DistAU,
		Visible:   p.ElDeg > 0,
	}
}

func starExport(sp engine.StarPosition) StarExport {
	s := sp.Star
	se := StarExport{
		HIP:           s.HIP,
		Nav:           s.Nav,
		Name:          s.Name,
		NameRU:        s.NameRU,
		Constellation: s.Constellation,
		Bayer:         s.Bayer,
		RA:            sp.RAdeg,
		Dec:           sp.DecDeg,
		Azimuth:       sp.AzDeg,
		Elevation:     sp.ElDeg,
		Magnitude:     sp.Magnitude,
		Color:         sp.Color.Hex(),
		Visible:       sp.ElDeg > 0,
	}
	if !math.IsNaN(s.ColorIndex) {
		bv := s.ColorIndex
		temp := math.Round(astro.ColorTemperature(bv))
		se.ColorIndex = &bv
		se.Temperature = &temp
	}
	return se
}

// WriteJSON writes the snapshot as JSON to the given writer.
func (s *SkySnapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteSummaryTable writes a text table of bodies and visible navigational
// stars to the given writer.
func WriteSummaryTable(w io.Writer, s *SkySnapshot) {
	fmt.Fprintf(w, "Sky @ %s  lat %.4f  lon %.4f  elev %.0fm\n",
		s.Observer.Time.Format(time.RFC3339), s.Observer.Latitude, s.Observer.Longitude, s.Observer.Elevation)
	fmt.Fprintln(w, strings.Repeat("─", 78))

	fmt.Fprintf(w, "%-10s %9s %9s %8s %8s %6s %9s\n",
		"Body", "RA", "Dec", "Az", "El", "Mag", "Diameter")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	row := func(b BodyExport) {
		fmt.Fprintf(w, "%-10s %9.4f %+9.4f %8.3f %+8.3f %6.2f %8.4f°\n",
			b.Name, b.RA, b.Dec, b.Azimuth, b.Elevation, b.Magnitude, b.Diameter)
	}
	if s.Sun != nil {
		row(*s.Sun)
	}
	if s.Moon != nil {
		row(s.Moon.BodyExport)
	}
	for _, p := range s.Planets {
		row(p)
	}
	if s.Moon != nil {
		fmt.Fprintf(w, "\nMoon: age %.2f of %.2f days, %.0f%% lit, limb %.1f°, next new moon %s\n",
			s.Moon.Age, s.Moon.Month, s.Moon.Illuminated*100, s.Moon.Orientation,
			s.Moon.NextNewMoon.Format("2006-01-02 15:04 UTC"))
	}

	fmt.Fprintln(w)
	if s.Catalog.Total == 0 {
		fmt.Fprintln(w, "No star catalog loaded")
		return
	}

	fmt.Fprintf(w, "%-4s %-16s %-8s %8s %8s %6s %-7s\n",
		"Nav", "Star", "HIP", "Az", "El", "Mag", "Color")
	fmt.Fprintln(w, strings.Repeat("─", 78))

	visible := 0
	for _, st := range s.Stars {
		if !st.Visible {
			continue
		}
		visible++
		name := st.Name
		if name == "" {
			name = fmt.Sprintf("HIP %d", st.HIP)
		}
		fmt.Fprintf(w, "%-4d %-16s %-8d %8.3f %+8.3f %6.2f %-7s\n",
			st.Nav, truncateStr(name, 16), st.HIP, st.Azimuth, st.Elevation, st.Magnitude, st.Color)
	}

	fmt.Fprintf(w, "\nVisible: %d of %d navigational stars\n", visible, len(s.Stars))
}

func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-2]) + ".."
}
