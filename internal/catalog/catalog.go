// Package catalog holds the star catalog: records keyed by Hipparcos
// number with a cross-reference into the navigational star list.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Star is one catalogued star. Coordinates are J2000 mean place.
type Star struct {
	HIP             uint32  // Hipparcos number, non-zero
	Nav             uint32  // Navigational star number, 0 if none
	Name            string  // Common name (e.g., "Sirius")
	NameRU          string  // Russian name
	Constellation   string  // Constellation (e.g., "Canis Major")
	ConstellationRU string  // Russian constellation name
	Bayer           string  // Designator within the constellation (e.g., "α")
	RAdeg           float64 // Right Ascension in degrees (J2000)
	DecDeg          float64 // Declination in degrees (J2000)
	Mag             float64 // Apparent visual magnitude
	ColorIndex      float64 // B-V color index, NaN when unknown
}

// Navigational reports whether the star has a navigational number.
func (s Star) Navigational() bool {
	return s.Nav != 0
}

// IDKind selects which catalog number a Key refers to.
type IDKind int

const (
	Hipparcos IDKind = iota
	Navigational
)

func (k IDKind) String() string {
	switch k {
	case Hipparcos:
		return "HIP"
	case Navigational:
		return "NAV"
	default:
		return "unknown"
	}
}

// Key identifies a star by one of its catalog numbers.
type Key struct {
	Kind IDKind
	ID   uint32
}

// ByHIP returns a key for a Hipparcos number.
func ByHIP(id uint32) Key { return Key{Kind: Hipparcos, ID: id} }

// ByNav returns a key for a navigational star number.
func ByNav(id uint32) Key { return Key{Kind: Navigational, ID: id} }

func (k Key) String() string {
	return fmt.Sprintf("%s %d", k.Kind, k.ID)
}

// Errors returned when building or loading a catalog.
var (
	ErrEmpty        = errors.New("catalog contains no stars")
	ErrMalformed    = errors.New("malformed catalog record")
	ErrZeroHIP      = errors.New("hipparcos number must be non-zero")
	ErrDuplicateHIP = errors.New("duplicate hipparcos number")
	ErrDuplicateNav = errors.New("duplicate navigational number")
)

// Catalog is an immutable set of stars with one index per catalog number.
// A nil *Catalog behaves as an empty catalog.
type Catalog struct {
	stars []Star
	byHIP map[uint32]int
	byNav map[uint32]int
}

// New validates stars and builds both indices. Any invalid record fails
// the whole catalog.
func New(stars []Star) (*Catalog, error) {
	if len(stars) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		stars: make([]Star, len(stars)),
		byHIP: make(map[uint32]int, len(stars)),
		byNav: make(map[uint32]int),
	}
	copy(c.stars, stars)

	for i := range c.stars {
		s := &c.stars[i]
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("star %d: %w", i+1, err)
		}
		if _, dup := c.byHIP[s.HIP]; dup {
			return nil, fmt.Errorf("%w: HIP %d", ErrDuplicateHIP, s.HIP)
		}
		c.byHIP[s.HIP] = i

		if s.Nav != 0 {
			if _, dup := c.byNav[s.Nav]; dup {
				return nil, fmt.Errorf("%w: NAV %d", ErrDuplicateNav, s.Nav)
			}
			c.byNav[s.Nav] = i
		}
	}

	return c, nil
}

// validate checks one record and normalizes RA into [0, 360).
func validate(s *Star) error {
	if s.HIP == 0 {
		return ErrZeroHIP
	}
	if !isFinite(s.RAdeg) || !isFinite(s.DecDeg) || !isFinite(s.Mag) {
		return fmt.Errorf("%w: HIP %d has non-finite coordinates or magnitude", ErrMalformed, s.HIP)
	}
	if s.DecDeg < -90 || s.DecDeg > 90 {
		return fmt.Errorf("%w: HIP %d declination %.4f out of range", ErrMalformed, s.HIP, s.DecDeg)
	}
	s.RAdeg = math.Mod(s.RAdeg, 360)
	if s.RAdeg < 0 {
		s.RAdeg += 360
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Lookup finds a star by either catalog number. It fails for id 0, an
// empty catalog, or an unknown id.
func (c *Catalog) Lookup(k Key) (Star, bool) {
	if c == nil || k.ID == 0 {
		return Star{}, false
	}

	var idx map[uint32]int
	switch k.Kind {
	case Hipparcos:
		idx = c.byHIP
	case Navigational:
		idx = c.byNav
	default:
		return Star{}, false
	}

	i, ok := idx[k.ID]
	if !ok {
		return Star{}, false
	}
	return c.stars[i], true
}

// Counts returns the number of stars and how many of them are navigational.
func (c *Catalog) Counts() (total, navigational int) {
	if c == nil {
		return 0, 0
	}
	return len(c.stars), len(c.byNav)
}

// Len returns the number of stars.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.stars)
}

// Stars returns a copy of all records: navigational stars first in
// navigational order, then the rest by Hipparcos number.
func (c *Catalog) Stars() []Star {
	if c == nil {
		return nil
	}
	out := make([]Star, len(c.stars))
	copy(out, c.stars)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.Nav != 0 && b.Nav != 0:
			return a.Nav < b.Nav
		case a.Nav != 0:
			return true
		case b.Nav != 0:
			return false
		default:
			return a.HIP < b.HIP
		}
	})
	return out
}
