package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/ephem"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ObserverRequest is the body of PUT /api/v1/observer.
type ObserverRequest struct {
	Time      *time.Time `json:"time"`
	Latitude  *float64   `json:"latitude" binding:"required"`
	Longitude *float64   `json:"longitude" binding:"required"`
	Elevation float64    `json:"elevation_m"`
}

// ObserverResponse describes the current observer.
type ObserverResponse struct {
	Time      time.Time `json:"time"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Elevation float64   `json:"elevation_m"`
}

// CountResponse is the body of GET /api/v1/stars/count.
type CountResponse struct {
	Total        int `json:"total"`
	Navigational int `json:"navigational"`
}

// PositionResponse is an apparent place.
type PositionResponse struct {
	RA        float64  `json:"ra"`
	Dec       float64  `json:"dec"`
	Azimuth   float64  `json:"azimuth"`
	Elevation float64  `json:"elevation"`
	Magnitude float64  `json:"magnitude"`
	Diameter  float64  `json:"diameter_deg,omitempty"`
	Distance  float64  `json:"distance_au,omitempty"`
	Moon      *MoonExt `json:"moon,omitempty"`
}

// MoonExt holds the lunar extras.
type MoonExt struct {
	Age         float64 `json:"age_days"`
	Orientation float64 `json:"orientation_deg"`
	Month       float64 `json:"month_days"`
	Illuminated float64 `json:"illuminated"`
}

// BodyResponse is a solar-system body with its place.
type BodyResponse struct {
	Index  uint32 `json:"index"`
	Name   string `json:"name"`
	NameRU string `json:"name_ru"`
	PositionResponse
}

// StarResponse is a catalog star with its place.
type StarResponse struct {
	HIP             uint32     `json:"hip"`
	Nav             uint32     `json:"nav"`
	Name            string     `json:"name"`
	NameRU          string     `json:"name_ru"`
	Constellation   string     `json:"constellation"`
	ConstellationRU string     `json:"constellation_ru"`
	Bayer           string     `json:"bayer"`
	RGB             [3]float64 `json:"rgb"`
	Color           string     `json:"color"`
	PositionResponse
}

// WindowResponse is a rise/transit/set window.
type WindowResponse struct {
	Rise          *time.Time `json:"rise,omitempty"`
	Transit       *time.Time `json:"transit,omitempty"`
	Set           *time.Time `json:"set,omitempty"`
	MaxElevation  float64    `json:"max_elevation"`
	AlwaysVisible bool       `json:"always_visible"`
	NeverVisible  bool       `json:"never_visible"`
}

func positionResponse(p engine.Position) PositionResponse {
	pr := PositionResponse{
		RA:        p.RAdeg,
		Dec:       p.DecDeg,
		Azimuth:   p.AzDeg,
		Elevation: p.ElDeg,
		Magnitude: p.Magnitude,
		Diameter:  p.DiameterDeg,
		Distance:  p.DistAU,
	}
	if p.Lunar != nil {
		pr.Moon = &MoonExt{
			Age:         p.Lunar.AgeDays,
			Orientation: p.Lunar.OrientationDeg,
			Month:       p.Lunar.MonthDays,
			Illuminated: p.Lunar.Illuminated,
		}
	}
	return pr
}

func starResponse(sp engine.StarPosition) StarResponse {
	s := sp.Star
	return StarResponse{
		HIP:              s.HIP,
		Nav:              s.Nav,
		Name:             s.Name,
		NameRU:           s.NameRU,
		Constellation:    s.Constellation,
		ConstellationRU:  s.ConstellationRU,
		Bayer:            s.Bayer,
		RGB:              [3]float64{sp.Color.R, sp.Color.G, sp.Color.B},
		Color:            sp.Color.Hex(),
		PositionResponse: positionResponse(sp.Position),
	}
}

func bodyResponse(b ephem.Body, p engine.Position) BodyResponse {
	return BodyResponse{
		Index:            b.Index(),
		Name:             b.String(),
		NameRU:           b.NameRU(),
		PositionResponse: positionResponse(p),
	}
}

func windowResponse(w astro.VisibilityWindow) WindowResponse {
	opt := func(t time.Time) *time.Time {
		if t.IsZero() {
			return nil
		}
		return &t
	}
	return WindowResponse{
		Rise:          opt(w.Rise),
		Transit:       opt(w.Transit),
		Set:           opt(w.Set),
		MaxElevation:  w.MaxElevation,
		AlwaysVisible: w.AlwaysVisible,
		NeverVisible:  w.NeverVisible,
	}
}

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInvalidID),
		errors.Is(err, engine.ErrInvalidObserver),
		errors.Is(err, engine.ErrWindowTooFine),
		errors.Is(err, ephem.ErrUnknownBody):
		return http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrObserverUnset),
		errors.Is(err, engine.ErrCatalogUnavailable):
		return http.StatusConflict
	case errors.Is(err, ephem.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (r *Router) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		r.log.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
