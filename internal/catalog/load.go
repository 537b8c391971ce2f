package catalog

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Format is a catalog file encoding.
type Format int

const (
	// FormatJSONL is one JSON object per line.
	FormatJSONL Format = iota
	// FormatCSV is comma-separated text with a header row.
	FormatCSV
	// FormatTSV is tab-separated text with a header row.
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatJSONL:
		return "jsonl"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// FormatFromPath picks the format from a file extension. Anything that is
// not .csv or .tsv is read as JSON Lines.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV
	case ".tsv", ".tab":
		return FormatTSV
	default:
		return FormatJSONL
	}
}

// Load reads and validates a catalog file. No partially loaded catalog is
// ever returned: any error yields nil.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Read(f, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return c, nil
}

// Read decodes a catalog in the given format.
func Read(r io.Reader, format Format) (*Catalog, error) {
	var (
		stars []Star
		err   error
	)
	switch format {
	case FormatJSONL:
		stars, err = readJSONL(r)
	case FormatCSV:
		stars, err = readDelimited(r, ',')
	case FormatTSV:
		stars, err = readDelimited(r, '\t')
	default:
		return nil, fmt.Errorf("unsupported catalog format %d", format)
	}
	if err != nil {
		return nil, err
	}
	return New(stars)
}

// jsonStar mirrors Star with pointers for the fields that must be present.
type jsonStar struct {
	HIP             uint32   `json:"hip"`
	Nav             uint32   `json:"nav"`
	Name            string   `json:"name"`
	NameRU          string   `json:"name_ru"`
	Constellation   string   `json:"constellation"`
	ConstellationRU string   `json:"constellation_ru"`
	Bayer           string   `json:"bayer"`
	RA              *float64 `json:"ra"`
	Dec             *float64 `json:"dec"`
	Mag             *float64 `json:"mag"`
	BV              *float64 `json:"bv"`
}

func readJSONL(r io.Reader) ([]Star, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	var stars []Star
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var rec jsonStar
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		if rec.RA == nil || rec.Dec == nil || rec.Mag == nil {
			return nil, fmt.Errorf("%w: line %d: ra, dec and mag are required", ErrMalformed, line)
		}

		bv := math.NaN()
		if rec.BV != nil {
			bv = *rec.BV
		}
		stars = append(stars, Star{
			HIP:             rec.HIP,
			Nav:             rec.Nav,
			Name:            rec.Name,
			NameRU:          rec.NameRU,
			Constellation:   rec.Constellation,
			ConstellationRU: rec.ConstellationRU,
			Bayer:           rec.Bayer,
			RAdeg:           *rec.RA,
			DecDeg:          *rec.Dec,
			Mag:             *rec.Mag,
			ColorIndex:      bv,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return stars, nil
}

// readDelimited reads a header row and one star per line. Columns are
// matched by name: hip, nav, name, name_ru, constellation,
// constellation_ru, bayer, ra, dec, mag, bv. hip, ra, dec and mag are
// required.
func readDelimited(r io.Reader, comma rune) ([]Star, error) {
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.Comment = '#'

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrMalformed, err)
	}

	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range []string{"hip", "ra", "dec", "mag"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: header is missing column %q", ErrMalformed, name)
		}
	}

	var stars []Star
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		line, _ := cr.FieldPos(0)

		s, err := parseRow(rec, col)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformed, line, err)
		}
		stars = append(stars, s)
	}
	return stars, nil
}

func parseRow(rec []string, col map[string]int) (Star, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	uintField := func(name string) (uint32, error) {
		v := field(name)
		if v == "" {
			return 0, nil
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return uint32(n), nil
	}
	floatField := func(name string, required bool) (float64, error) {
		v := field(name)
		if v == "" {
			if required {
				return 0, fmt.Errorf("%s is required", name)
			}
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return f, nil
	}

	var (
		s   Star
		err error
	)
	if s.HIP, err = uintField("hip"); err != nil {
		return Star{}, err
	}
	if s.Nav, err = uintField("nav"); err != nil {
		return Star{}, err
	}
	if s.RAdeg, err = floatField("ra", true); err != nil {
		return Star{}, err
	}
	if s.DecDeg, err = floatField("dec", true); err != nil {
		return Star{}, err
	}
	if s.Mag, err = floatField("mag", true); err != nil {
		return Star{}, err
	}
	if s.ColorIndex, err = floatField("bv", false); err != nil {
		return Star{}, err
	}
	s.Name = field("name")
	s.NameRU = field("name_ru")
	s.Constellation = field("constellation")
	s.ConstellationRU = field("constellation_ru")
	s.Bayer = field("bayer")
	return s, nil
}
