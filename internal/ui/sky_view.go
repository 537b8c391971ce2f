package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/catalog"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/ephem"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Star glyphs by magnitude
	glyphStarBright = '✶' // mag < 1.5
	glyphStarMedium = '✸' // mag 1.5-3.0
	glyphStarDim    = '·' // mag > 3.0

	glyphSun    = '☉'
	glyphMoon   = '☾'
	glyphPlanet = '●'

	colorSun     = "#FFD75F"
	colorMoon    = "#E4E4E4"
	colorPlanet  = "#d0c8ff"
	colorFocused = "229" // bright gold
)

// LabelMode controls how object labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only focused object
	LabelAll                      // All bodies and bright stars
)

// skyObject is anything drawn on the dome.
type skyObject struct {
	name  string
	az    float64
	el    float64
	ra    float64
	dec   float64
	mag   float64
	glyph rune
	color string
	body  bool
	hip   uint32
	index uint32 // body index, for bodies
}

// SkyViewModel renders the sky dome for the current observer.
type SkyViewModel struct {
	width  int
	height int

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	// Focus cycles over the objects above the horizon
	focusIdx int
	objects  []skyObject
	sun      *skyObject
	skyTime  time.Time

	labelMode LabelMode

	// Rise/set line of the focused object, filled in by the root model
	window     astro.VisibilityWindow
	windowName string
}

// NewSkyViewModel creates a new sky view model.
func NewSkyViewModel() SkyViewModel {
	return SkyViewModel{
		camAz:     180,
		camEl:     45,
		labelMode: LabelFocused,
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData rebuilds the object list from a state snapshot, keeping focus
// on the same object when it is still above the horizon.
func (m SkyViewModel) UpdateData(snapshot state.Snapshot) SkyViewModel {
	prev := m.FocusedName()
	m.objects, m.sun = buildSkyObjects(snapshot.Sky)
	if snapshot.Sky != nil {
		m.skyTime = snapshot.Sky.Observer.Time
	}

	m.focusIdx = 0
	for i, o := range m.objects {
		if o.name == prev {
			m.focusIdx = i
			break
		}
	}

	if !m.animating && len(m.objects) > 0 {
		o := m.objects[m.focusIdx]
		m.camAz = o.az
		m.camEl = clampCamEl(o.el)
	}
	return m
}

// SetWindow attaches the rise/set window of the focused object.
func (m SkyViewModel) SetWindow(name string, w astro.VisibilityWindow) SkyViewModel {
	m.windowName = name
	m.window = w
	return m
}

// FocusedName returns the name of the focused object, or "".
func (m SkyViewModel) FocusedName() string {
	if m.focusIdx < 0 || m.focusIdx >= len(m.objects) {
		return ""
	}
	return m.objects[m.focusIdx].name
}

// FocusedTarget returns the engine target of the focused object.
func (m SkyViewModel) FocusedTarget() (engine.Target, bool) {
	if m.focusIdx < 0 || m.focusIdx >= len(m.objects) {
		return engine.Target{}, false
	}
	o := m.objects[m.focusIdx]
	if o.body {
		b, err := ephem.FromIndex(o.index)
		if err != nil {
			return engine.Target{}, false
		}
		return engine.BodyTarget(b), true
	}
	return engine.StarTarget(catalog.ByHIP(o.hip)), true
}

// FocusOn moves focus to the named object, if above the horizon.
func (m SkyViewModel) FocusOn(name string) SkyViewModel {
	for i, o := range m.objects {
		if o.name == name {
			m.focusIdx = i
			m.camAz = o.az
			m.camEl = clampCamEl(o.el)
			break
		}
	}
	return m
}

// buildSkyObjects lists bodies first, then stars by brightness.
func buildSkyObjects(sky *report.SkySnapshot) ([]skyObject, *skyObject) {
	if sky == nil {
		return nil, nil
	}

	var out []skyObject
	var sun *skyObject
	addBody := func(b report.BodyExport, glyph rune, color string) {
		o := skyObject{
			name: b.Name, az: b.Azimuth, el: b.Elevation, ra: b.RA, dec: b.Dec,
			mag: b.Magnitude, glyph: glyph, color: color, body: true, index: b.Index,
		}
		if glyph == glyphSun {
			sun = &o
		}
		if b.Visible {
			out = append(out, o)
		}
	}

	if sky.Sun != nil {
		addBody(*sky.Sun, glyphSun, colorSun)
	}
	if sky.Moon != nil {
		addBody(sky.Moon.BodyExport, glyphMoon, colorMoon)
	}
	for _, p := range sky.Planets {
		addBody(p, glyphPlanet, colorPlanet)
	}

	first := len(out)
	for _, s := range sky.Stars {
		if !s.Visible {
			continue
		}
		out = append(out, skyObject{
			name: s.Name, az: s.Azimuth, el: s.Elevation, ra: s.RA, dec: s.Dec,
			mag: s.Magnitude, glyph: starGlyph(s.Magnitude), color: s.Color, hip: s.HIP,
		})
	}
	stars := out[first:]
	sort.SliceStable(stars, func(i, j int) bool { return stars[i].mag < stars[j].mag })
	return out, sun
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			return m.focusPrev()
		case "down", "j":
			return m.focusNext()
		case "left", "h":
			m.camAz = math.Mod(m.camAz-15+360, 360)
		case "right", "l":
			m.camAz = math.Mod(m.camAz+15, 360)
		case "L":
			m.labelMode = (m.labelMode + 1) % 3
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

func (m SkyViewModel) focusNext() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx = (m.focusIdx + 1) % len(m.objects)
	return m.startAnimation()
}

func (m SkyViewModel) focusPrev() (SkyViewModel, tea.Cmd) {
	if len(m.objects) == 0 {
		return m, nil
	}
	m.focusIdx--
	if m.focusIdx < 0 {
		m.focusIdx = len(m.objects) - 1
	}
	return m.startAnimation()
}

func (m SkyViewModel) startAnimation() (SkyViewModel, tea.Cmd) {
	if m.focusIdx >= len(m.objects) {
		return m, nil
	}

	o := m.objects[m.focusIdx]
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = o.az
	m.animTargEl = clampCamEl(o.el)
	m.animStart = time.Now()
	m.windowName = ""

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	t := float64(time.Since(m.animStart)) / float64(animDuration)

	if t >= 1.0 {
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Reserve lines for header and status
	viewHeight := m.height - 5

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSkyCanvas(m.width, viewHeight))
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorPlanet))

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelFocused:
		labelStr = accentStyle.Render("Labels: focus")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f°", m.camAz, m.camEl))
	count := dimStyle.Render(fmt.Sprintf("%d objects up", len(m.objects)))

	return fmt.Sprintf("%s | %s | %s | %s", titleStyle.Render("Sky View"), count, labelStr, compass)
}

func (m SkyViewModel) renderStatus() string {
	if len(m.objects) == 0 || m.focusIdx >= len(m.objects) {
		return "Nothing above the horizon"
	}

	o := m.objects[m.focusIdx]
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorFocused))
	line := accentStyle.Render(fmt.Sprintf(">>> %s | Az:%.1f° El:%.1f° | mag %.2f",
		o.name, o.az, o.el, o.mag))

	if m.sun != nil && o.name != m.sun.name {
		line += "  " + RenderSunSeparation(astro.SunSeparation(o.ra, o.dec, m.skyTime))
	}

	if m.windowName == o.name {
		line += "\n    " + RenderWindowLine(o.name, m.window, o.el)
	}
	return line
}

// objectPos tracks a drawn object for label rendering
type objectPos struct {
	x, y       int
	name       string
	isFocused  bool
	labelStart int
	labelEnd   int
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	horizonY := height - 2

	// Stars first so bodies draw over them
	var positions []objectPos
	for pass := 0; pass < 2; pass++ {
		for i, o := range m.objects {
			if o.body != (pass == 1) {
				continue
			}
			x, y, visible := m.projectToScreen(o.az, o.el, width, height)
			if !visible || x < 0 || x >= width || y < 0 || y >= horizonY {
				continue
			}

			isFocused := i == m.focusIdx
			canvas[y][x] = o.glyph
			colors[y][x] = lipgloss.Color(o.color)
			if isFocused {
				colors[y][x] = colorFocused
			}
			if o.body || o.mag < 1.5 || isFocused {
				positions = append(positions, objectPos{x: x, y: y, name: o.name, isFocused: isFocused})
			}
		}
	}

	// Horizon line
	for x := 0; x < width; x++ {
		canvas[horizonY][x] = '─'
		colors[horizonY][x] = "60"
	}
	m.drawCardinal(canvas, colors, width, height, "N", 0)
	m.drawCardinal(canvas, colors, width, height, "E", 90)
	m.drawCardinal(canvas, colors, width, height, "S", 180)
	m.drawCardinal(canvas, colors, width, height, "W", 270)

	m.renderLabels(canvas, colors, width, horizonY, positions)

	// Observer marker at bottom center
	if x, y := width/2, height-1; y >= 0 && x < width {
		canvas[y][x] = '▲'
		colors[y][x] = "46"
	}

	var b strings.Builder
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		if y < height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderLabels draws object labels on the canvas based on label mode.
// The focused label wins in overlapping regions.
func (m SkyViewModel) renderLabels(canvas [][]rune, colors [][]lipgloss.Color, width, horizonY int, positions []objectPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for i := range positions {
		pos := &positions[i]
		pos.labelStart = pos.x + 2
		n := len([]rune(pos.name))
		if pos.isFocused {
			n += 2
		}
		pos.labelEnd = pos.labelStart + n
	}

	focusedClaims := make(map[int]map[int]bool) // y -> x -> claimed
	for _, pos := range positions {
		if !pos.isFocused {
			continue
		}
		if focusedClaims[pos.y] == nil {
			focusedClaims[pos.y] = make(map[int]bool)
		}
		for x := pos.labelStart; x < pos.labelEnd; x++ {
			focusedClaims[pos.y][x] = true
		}
	}

	for _, pos := range positions {
		if m.labelMode == LabelFocused && !pos.isFocused {
			continue
		}

		labelColor := lipgloss.Color(colorPlanet)
		labelText := pos.name
		if pos.isFocused {
			labelColor = colorFocused
			labelText = "◄ " + pos.name
		}

		for i, r := range []rune(labelText) {
			x := pos.labelStart + i
			if x < 0 || x >= width || pos.y < 0 || pos.y >= horizonY {
				continue
			}
			if !pos.isFocused && focusedClaims[pos.y][x] {
				continue
			}
			canvas[pos.y][x] = r
			colors[pos.y][x] = labelColor
		}
	}
}

// starGlyph returns the glyph for a star of the given magnitude.
func starGlyph(mag float64) rune {
	switch {
	case mag < 1.5:
		return glyphStarBright
	case mag < 3.0:
		return glyphStarMedium
	default:
		return glyphStarDim
	}
}

func (m SkyViewModel) drawCardinal(canvas [][]rune, colors [][]lipgloss.Color, width, height int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, m.camEl-fovEl/2, width, height)
	if !visible {
		return
	}
	y := height - 2

	if x >= 0 && x < width && y >= 0 && y < height {
		canvas[y][x] = rune(label[0])
		colors[y][x] = "252"
	}
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	dAz := normalizeAngle(az - m.camAz)
	dEl := el - m.camEl

	if dAz < -fovAz/2 || dAz > fovAz/2 {
		return 0, 0, false
	}
	if dEl < -fovEl/2 || dEl > fovEl/2 {
		return 0, 0, false
	}

	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..horizon (higher el = higher on screen)
	horizonY := height - 2

	x := int((dAz + fovAz/2) / fovAz * float64(width))
	y := int((fovEl/2 - dEl) / fovEl * float64(horizonY))

	return x, y, true
}

// clampCamEl keeps the horizon inside the view.
func clampCamEl(el float64) float64 {
	return math.Max(fovEl/2, math.Min(90-fovEl/2, el))
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	return a + normalizeAngle(b-a)*t
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
