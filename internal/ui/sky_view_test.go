package ui

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/state"
)

func TestNormalizeAngle(t *testing.T) {
	tests := []struct {
		input    float64
		expected float64
	}{
		{0, 0},
		{180, 180},
		{-180, -180},
		{360, 0},
		{-360, 0},
		{350, -10},
		{370, 10},
		{-190, 170},
		{540, 180},
		{-540, -180},
	}

	for _, tt := range tests {
		got := normalizeAngle(tt.input)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLerpAngle_ShortestPath(t *testing.T) {
	tests := []struct {
		from, to, t float64
		expected    float64
	}{
		{0, 90, 0.5, 45},
		{0, 180, 0.5, 90},

		// Wrap-around: 350 to 10 should go +20, not -340
		{350, 10, 0.5, 360},
		{350, 10, 0.0, 350},
		{350, 10, 1.0, 370},

		// Other direction: 10 to 350 should go -20
		{10, 350, 0.5, 0},
		{10, 350, 1.0, -10},
	}

	for _, tt := range tests {
		got := normalizeAngle(lerpAngle(tt.from, tt.to, tt.t))
		want := normalizeAngle(tt.expected)

		diff := math.Abs(got - want)
		if diff > 180 {
			diff = 360 - diff
		}
		if diff > 0.001 {
			t.Errorf("lerpAngle(%v, %v, %v) = %v, want %v", tt.from, tt.to, tt.t, got, want)
		}
	}
}

func TestProjectToScreen(t *testing.T) {
	m := SkyViewModel{camAz: 180, camEl: 45}

	tests := []struct {
		az, el  float64
		visible bool
		desc    string
	}{
		{180, 45, true, "center of view"},
		{180, 70, true, "high elevation within FOV"},
		{180, 20, true, "low elevation within FOV"},
		{180, 90, false, "above FOV (camEl=45, fov=60)"},
		{180, 0, false, "below FOV"},
		{0, 45, false, "opposite side (180 away)"},
		{240, 45, true, "within FOV right"},
		{120, 45, true, "within FOV left"},
		{300, 45, false, "outside FOV"},
	}

	for _, tt := range tests {
		_, _, visible := m.projectToScreen(tt.az, tt.el, 100, 50)
		if visible != tt.visible {
			t.Errorf("projectToScreen(%v, %v) visible = %v, want %v (%s)",
				tt.az, tt.el, visible, tt.visible, tt.desc)
		}
	}
}

func TestProjectToScreen_CenterIsCenter(t *testing.T) {
	m := SkyViewModel{camAz: 180, camEl: 30}

	x, y, visible := m.projectToScreen(180, 30, 100, 50)
	if !visible {
		t.Fatal("center object should be visible")
	}
	if x < 40 || x > 60 {
		t.Errorf("center x = %d, expected near 50", x)
	}
	if y < 10 || y > 40 {
		t.Errorf("center y = %d, expected in middle region", y)
	}
}

func TestClampCamEl(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 30},
		{45, 45},
		{89, 60},
		{-10, 30},
	}
	for _, tt := range tests {
		if got := clampCamEl(tt.in); got != tt.want {
			t.Errorf("clampCamEl(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func testSky() *report.SkySnapshot {
	return &report.SkySnapshot{
		Observer: report.ObserverExport{
			Time:      time.Date(2024, 3, 20, 22, 0, 0, 0, time.UTC),
			Latitude:  51.5,
			Longitude: -0.13,
		},
		Sun: &report.BodyExport{Index: 8, Name: "Sun", Azimuth: 280, Elevation: -12, RA: 0, Dec: 0},
		Moon: &report.MoonExport{
			BodyExport: report.BodyExport{
				Index: 9, Name: "Moon", Azimuth: 150, Elevation: 35, Visible: true, RA: 120, Dec: 20, Magnitude: -11,
			},
			NextNewMoon: time.Date(2024, 4, 8, 18, 21, 0, 0, time.UTC),
		},
		Planets: []report.BodyExport{
			{Index: 4, Name: "Jupiter", Azimuth: 200, Elevation: 40, Visible: true, Magnitude: -2.5},
			{Index: 1, Name: "Venus", Azimuth: 290, Elevation: -20},
		},
		Stars: []report.StarExport{
			{HIP: 24436, Nav: 11, Name: "Rigel", Azimuth: 190, Elevation: 30, Magnitude: 0.18, Color: "#aabfff", Visible: true},
			{HIP: 32349, Nav: 18, Name: "Sirius", Azimuth: 170, Elevation: 25, Magnitude: -1.46, Color: "#cad7ff", Visible: true},
			{HIP: 60718, Nav: 30, Name: "Acrux", Azimuth: 180, Elevation: -40, Magnitude: 0.77, Color: "#aabfff"},
		},
	}
}

func TestBuildSkyObjects(t *testing.T) {
	objs, sun := buildSkyObjects(testSky())

	if sun == nil || sun.name != "Sun" {
		t.Fatal("sun should be tracked even below the horizon")
	}

	var names []string
	for _, o := range objs {
		names = append(names, o.name)
	}
	// Bodies first, then stars brightest first; below-horizon objects dropped
	want := "Moon,Jupiter,Sirius,Rigel"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("objects = %s, want %s", got, want)
	}

	if objs[2].glyph != glyphStarBright || objs[2].color != "#cad7ff" || objs[2].hip != 32349 {
		t.Errorf("Sirius drawn as %+v", objs[2])
	}

	if got, _ := buildSkyObjects(nil); got != nil {
		t.Error("nil sky should give no objects")
	}
}

func TestSkyView_FocusTracksName(t *testing.T) {
	m := NewSkyViewModel().SetSize(100, 40)
	m = m.UpdateData(state.Snapshot{Sky: testSky()})

	if got := m.FocusedName(); got != "Moon" {
		t.Fatalf("initial focus = %q, want Moon", got)
	}

	m = m.FocusOn("Rigel")
	if got := m.FocusedName(); got != "Rigel" {
		t.Fatalf("focus = %q, want Rigel", got)
	}

	// Jupiter sets; focus stays on Rigel even though its index moves
	sky := testSky()
	sky.Planets[0].Visible = false
	m = m.UpdateData(state.Snapshot{Sky: sky})
	if got := m.FocusedName(); got != "Rigel" {
		t.Errorf("focus after update = %q, want Rigel", got)
	}

	target, ok := m.FocusedTarget()
	if !ok || target.String() != "HIP 24436" {
		t.Errorf("FocusedTarget = %v, %v", target, ok)
	}

	m = m.FocusOn("Moon")
	target, ok = m.FocusedTarget()
	if !ok || target.String() != "Moon" {
		t.Errorf("FocusedTarget = %v, %v", target, ok)
	}
}

func TestSkyView_RenderContainsFocus(t *testing.T) {
	m := NewSkyViewModel().SetSize(120, 40)
	m = m.UpdateData(state.Snapshot{Sky: testSky()})

	out := m.View()
	if !strings.Contains(out, ">>> Moon") {
		t.Error("status line should name the focused object")
	}
	if !strings.Contains(out, "sun-sep") {
		t.Error("status line should show sun separation")
	}
	// Moon at RA 120, Dec +20 against the equinox Sun
	sep := astro.SunSeparation(120, 20, time.Date(2024, 3, 20, 22, 0, 0, 0, time.UTC))
	if sep < 110 || sep > 125 {
		t.Errorf("sun separation = %.1f°, want about 118°", sep)
	}
	if want := fmt.Sprintf("%.1f°", sep); !strings.Contains(out, want) {
		t.Errorf("status line missing separation %s", want)
	}

	empty := NewSkyViewModel().SetSize(120, 40)
	if out := empty.View(); !strings.Contains(out, "Nothing above the horizon") {
		t.Error("empty sky should say so")
	}

	small := NewSkyViewModel().SetSize(10, 5)
	if small.View() != "Sky view requires larger terminal" {
		t.Error("small terminal message missing")
	}
}
