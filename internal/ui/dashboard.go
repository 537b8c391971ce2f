package ui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/state"
)

// Styles for the dashboard
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	belowRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// DashboardModel is the almanac table view: bodies and navigational stars.
type DashboardModel struct {
	width     int
	height    int
	cursor    int
	snapshot  state.Snapshot
	lastErr   error
	showBelow bool
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel() DashboardModel {
	return DashboardModel{}
}

// Init implements the Bubble Tea model interface.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m DashboardModel) SetSize(width, height int) DashboardModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data.
func (m DashboardModel) UpdateData(snapshot state.Snapshot) DashboardModel {
	m.snapshot = snapshot
	m.lastErr = snapshot.LastError
	if n := len(m.stars()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	return m
}

// SetShowBelow toggles listing of stars below the horizon.
func (m DashboardModel) SetShowBelow(show bool) DashboardModel {
	m.showBelow = show
	m.cursor = 0
	return m
}

// Update handles messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.stars())

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}

	return m, nil
}

// stars returns the listed stars, highest first.
func (m DashboardModel) stars() []report.StarExport {
	if m.snapshot.Sky == nil {
		return nil
	}
	out := make([]report.StarExport, 0, len(m.snapshot.Sky.Stars))
	for _, s := range m.snapshot.Sky.Stars {
		if s.Visible || m.showBelow {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Elevation > out[j].Elevation })
	return out
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var b strings.Builder

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render("Error: " + m.lastErr.Error()))
		b.WriteString("\n\n")
	}

	if m.snapshot.Sky == nil {
		if m.lastErr == nil {
			b.WriteString("Computing sky...\n")
		}
		return b.String()
	}

	b.WriteString(m.renderBodies())
	b.WriteString("\n")
	b.WriteString(m.renderStarTable())
	b.WriteString(m.renderEvents())

	return b.String()
}

func (m DashboardModel) renderBodies() string {
	var b strings.Builder
	sky := m.snapshot.Sky

	b.WriteString(titleStyle.Render("Sun, Moon & Planets"))
	b.WriteString("\n")

	header := fmt.Sprintf("%-10s %7s %7s %6s %10s  %s", "Body", "Az", "El", "Mag", "Dist", "Elev")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	bodies := make([]report.BodyExport, 0, len(sky.Planets)+2)
	if sky.Sun != nil {
		bodies = append(bodies, *sky.Sun)
	}
	if sky.Moon != nil {
		bodies = append(bodies, sky.Moon.BodyExport)
	}
	bodies = append(bodies, sky.Planets...)

	if len(bodies) == 0 {
		b.WriteString("  Outside ephemeris range\n")
		return b.String()
	}

	for _, body := range bodies {
		row := fmt.Sprintf("%-10s %6.1f° %6.1f° %6.2f %10s  ",
			truncate(body.Name, 10), body.Azimuth, body.Elevation, body.Magnitude, formatDistance(body.Distance))
		style := rowStyle
		if !body.Visible {
			style = belowRowStyle
		}
		b.WriteString(style.Render(row))
		b.WriteString(RenderElevationBar("", body.Elevation))
		b.WriteString("\n")
	}

	if sky.Moon != nil {
		b.WriteString(fmt.Sprintf("  Moon: age %.1f d of %.1f, %.0f%% lit, limb %.0f°",
			sky.Moon.Age, sky.Moon.Month, sky.Moon.Illuminated*100, sky.Moon.Orientation))
		if !sky.Moon.NextNewMoon.IsZero() {
			b.WriteString(", new moon " + sky.Moon.NextNewMoon.Format("Jan 02 15:04"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m DashboardModel) renderStarTable() string {
	var b strings.Builder

	title := "Navigational Stars"
	if !m.showBelow {
		title += " (above horizon)"
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	header := fmt.Sprintf("%-3s %-3s %-14s %-12s %5s %7s %7s",
		"", "Nav", "Name", "Constel.", "Mag", "Az", "El")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	stars := m.stars()
	if len(stars) == 0 {
		b.WriteString("  No stars above the horizon\n")
		return b.String()
	}

	maxRows := m.height - 22 // room for bodies, headers and events
	if maxRows < 5 {
		maxRows = 5
	}

	startIdx := 0
	if m.cursor >= maxRows {
		startIdx = m.cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(stars) {
		endIdx = len(stars)
	}

	for i := startIdx; i < endIdx; i++ {
		s := stars[i]
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(" ● ")

		row := fmt.Sprintf("%3d %-14s %-12s %5.2f %6.1f° %6.1f°",
			s.Nav,
			truncate(s.Name, 14),
			truncate(s.Constellation, 12),
			s.Magnitude,
			s.Azimuth,
			s.Elevation,
		)

		switch {
		case i == m.cursor:
			row = selectedRowStyle.Render(row)
		case !s.Visible:
			row = belowRowStyle.Render(row)
		default:
			row = rowStyle.Render(row)
		}
		b.WriteString(swatch + " " + row + "\n")
	}

	if len(stars) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d stars\n", startIdx+1, endIdx, len(stars)))
	}

	return b.String()
}

func (m DashboardModel) renderEvents() string {
	events := m.snapshot.Events
	if len(events) == 0 {
		return ""
	}
	if len(events) > 3 {
		events = events[len(events)-3:]
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	var b strings.Builder
	b.WriteString("\n")
	for _, e := range events {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s %-4s %s @ %.0f°",
			e.Timestamp.Local().Format("15:04"), e.Type, e.Object, e.Azimuth)))
		b.WriteString("\n")
	}
	return b.String()
}

// GetSelectedStar returns the star under the cursor, if any.
func (m DashboardModel) GetSelectedStar() *report.StarExport {
	stars := m.stars()
	if m.cursor < 0 || m.cursor >= len(stars) {
		return nil
	}
	s := stars[m.cursor]
	return &s
}

func formatDistance(au float64) string {
	switch {
	case au <= 0:
		return "-"
	case au < 0.01:
		return fmt.Sprintf("%.0f km", astro.AUToKm(au))
	default:
		return fmt.Sprintf("%.3f AU", au)
	}
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
