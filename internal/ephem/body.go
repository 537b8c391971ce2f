package ephem

import (
	"errors"
	"fmt"
	"strings"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Kind distinguishes the analytic model behind a Body.
type Kind int

const (
	KindPlanet Kind = iota
	KindSun
	KindMoon
)

func (k Kind) String() string {
	switch k {
	case KindPlanet:
		return "planet"
	case KindSun:
		return "sun"
	case KindMoon:
		return "moon"
	default:
		return "unknown"
	}
}

// Body is a solar-system body: one of the planets, the Sun or the Moon.
// The zero value is Mercury.
type Body struct {
	kind   Kind
	planet astro.Planet
}

// Sun and Moon are the two non-planetary bodies.
var (
	Sun  = Body{kind: KindSun}
	Moon = Body{kind: KindMoon}
)

// PlanetBody wraps a planet.
func PlanetBody(p astro.Planet) Body {
	return Body{kind: KindPlanet, planet: p}
}

// Kind returns which model computes the body.
func (b Body) Kind() Kind { return b.kind }

// Planet returns the planet for planetary bodies.
func (b Body) Planet() (astro.Planet, bool) {
	return b.planet, b.kind == KindPlanet
}

// Valid reports whether b names a known body.
func (b Body) Valid() bool {
	switch b.kind {
	case KindSun, KindMoon:
		return true
	case KindPlanet:
		return b.planet.Valid()
	default:
		return false
	}
}

func (b Body) String() string {
	switch b.kind {
	case KindSun:
		return "Sun"
	case KindMoon:
		return "Moon"
	default:
		return b.planet.String()
	}
}

// Errors for body identification.
var (
	ErrUnknownBody = errors.New("unknown body")
	ErrOutOfRange  = errors.New("epoch outside the validity range of the model")
)

// Body numbers used at the external boundary: the planets in order from
// Mercury (0) to Pluto (7), then the Sun and the Moon.
const (
	IndexSun  uint32 = 8
	IndexMoon uint32 = 9
)

// FromIndex maps a boundary body number to a Body.
func FromIndex(i uint32) (Body, error) {
	switch {
	case i <= uint32(astro.Pluto):
		return PlanetBody(astro.Planet(i)), nil
	case i == IndexSun:
		return Sun, nil
	case i == IndexMoon:
		return Moon, nil
	default:
		return Body{}, fmt.Errorf("%w: index %d", ErrUnknownBody, i)
	}
}

// Index returns the boundary body number of b.
func (b Body) Index() uint32 {
	switch b.kind {
	case KindSun:
		return IndexSun
	case KindMoon:
		return IndexMoon
	default:
		return uint32(b.planet)
	}
}

// Bodies returns every body in boundary order.
func Bodies() []Body {
	out := make([]Body, 0, IndexMoon+1)
	for i := uint32(0); i <= IndexMoon; i++ {
		b, _ := FromIndex(i)
		out = append(out, b)
	}
	return out
}

// ParseBody resolves a body by English or Russian name (case-insensitive)
// or by its boundary number.
func ParseBody(s string) (Body, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, b := range Bodies() {
		if key == strings.ToLower(b.String()) || key == strings.ToLower(b.NameRU()) ||
			key == fmt.Sprint(b.Index()) {
			return b, nil
		}
	}
	return Body{}, fmt.Errorf("%w: %q", ErrUnknownBody, s)
}

var namesRU = [...]string{
	"Меркурий", "Венера", "Марс", "Юпитер", "Сатурн", "Уран", "Нептун", "Плутон", "Солнце", "Луна",
}

// NameRU returns the Russian name of the body.
func (b Body) NameRU() string {
	if !b.Valid() {
		return ""
	}
	return namesRU[b.Index()]
}
