package catalog

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvCatalog = `# navigational subset
hip,nav,name,name_ru,constellation,constellation_ru,bayer,ra,dec,mag,bv
32349,18,Sirius,Сириус,Canis Major,Большой Пёс,α,101.287,-16.716,-1.46,0.00
91262,49,Vega,Вега,Lyra,Лира,α,279.235,38.784,0.03,0.00
11767,,Polaris,Полярная,Ursa Minor,Малая Медведица,α,37.954,89.264,2.02,
`

const jsonlCatalog = `{"hip":32349,"nav":18,"name":"Sirius","name_ru":"Сириус","ra":101.287,"dec":-16.716,"mag":-1.46,"bv":0.0}

{"hip":11767,"name":"Polaris","ra":37.954,"dec":89.264,"mag":2.02}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatCSV, FormatFromPath("stars.csv"))
	assert.Equal(t, FormatCSV, FormatFromPath("/data/STARS.CSV"))
	assert.Equal(t, FormatTSV, FormatFromPath("stars.tsv"))
	assert.Equal(t, FormatJSONL, FormatFromPath("stars.jsonl"))
	assert.Equal(t, FormatJSONL, FormatFromPath("stars"))
}

func TestLoad_CSV(t *testing.T) {
	c, err := Load(writeFile(t, "stars.csv", csvCatalog))
	require.NoError(t, err)

	total, nav := c.Counts()
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, nav)

	s, ok := c.Lookup(ByNav(18))
	require.True(t, ok)
	assert.Equal(t, uint32(32349), s.HIP)
	assert.Equal(t, "Сириус", s.NameRU)
	assert.Equal(t, "Большой Пёс", s.ConstellationRU)
	assert.Equal(t, "α", s.Bayer)
	assert.InDelta(t, 101.287, s.RAdeg, 1e-9)
	assert.InDelta(t, -1.46, s.Mag, 1e-9)

	polaris, ok := c.Lookup(ByHIP(11767))
	require.True(t, ok)
	assert.Zero(t, polaris.Nav)
	assert.True(t, math.IsNaN(polaris.ColorIndex))
}

func TestLoad_TSV(t *testing.T) {
	tsv := strings.ReplaceAll(csvCatalog, ",", "\t")
	c, err := Load(writeFile(t, "stars.tsv", tsv))
	require.NoError(t, err)
	assert.Equal(t, 3, c.Len())
}

func TestLoad_JSONL(t *testing.T) {
	c, err := Load(writeFile(t, "stars.jsonl", jsonlCatalog))
	require.NoError(t, err)

	total, nav := c.Counts()
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, nav)

	s, ok := c.Lookup(ByHIP(32349))
	require.True(t, ok)
	assert.Equal(t, "Sirius", s.Name)
	assert.Equal(t, 0.0, s.ColorIndex)

	polaris, ok := c.Lookup(ByHIP(11767))
	require.True(t, ok)
	assert.True(t, math.IsNaN(polaris.ColorIndex))
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
	}{
		{"empty jsonl", "empty.jsonl", "", ErrEmpty},
		{"header only", "empty.csv", "hip,ra,dec,mag\n", ErrEmpty},
		{"bad json", "bad.jsonl", `{"hip":1,"ra":`, ErrMalformed},
		{"missing dec", "nodec.jsonl", `{"hip":1,"ra":10,"mag":1}`, ErrMalformed},
		{"missing column", "nocol.csv", "hip,ra,mag\n1,10,1\n", ErrMalformed},
		{"bad number", "badnum.csv", "hip,ra,dec,mag\n1,ten,0,1\n", ErrMalformed},
		{"short row", "short.csv", "hip,ra,dec,mag\n1,10,0\n", ErrMalformed},
		{"zero hip", "zero.csv", "hip,ra,dec,mag\n0,10,0,1\n", ErrZeroHIP},
		{"duplicate nav", "dup.csv", "hip,nav,ra,dec,mag\n1,5,10,0,1\n2,5,20,0,1\n", ErrDuplicateNav},
		{"one bad record fails all", "partial.jsonl",
			"{\"hip\":1,\"ra\":10,\"dec\":0,\"mag\":1}\n{\"hip\":2,\"ra\":10,\"dec\":95,\"mag\":1}\n", ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeFile(t, tt.file, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, c)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Nil(t, c)
}

func TestRead_UnknownFormat(t *testing.T) {
	_, err := Read(strings.NewReader(csvCatalog), Format(99))
	assert.Error(t, err)
}
