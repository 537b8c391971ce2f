// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/engine"
	"github.com/litescript/ls-almanac/internal/report"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewDashboard ViewMode = iota
	ViewSky
)

const viewCount = 2

// timeStep is the jump applied by the [ and ] keys.
const timeStep = time.Hour

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic sky refreshes.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// windowMsg carries the rise/set window of the focused sky object.
	windowMsg struct {
		name   string
		window astro.VisibilityWindow
		err    error
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	engine *engine.Engine
	state  *state.Manager
	clock  func() time.Time

	// Sky time control: live time is clock()+offset, paused time is frozen
	offset time.Duration
	paused bool
	frozen time.Time

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	showBelow bool
	animTick  int

	// Sub-models
	dashboard DashboardModel
	skyView   SkyViewModel

	snapshot state.Snapshot
}

// New creates a new root UI model. The engine must have an observer.
func New(e *engine.Engine, mgr *state.Manager) Model {
	m := Model{
		engine:    e,
		state:     mgr,
		clock:     time.Now,
		viewMode:  ViewDashboard,
		dashboard: NewDashboardModel(),
		skyView:   NewSkyViewModel(),
	}
	if obs, ok := e.Observer(); ok {
		m.offset = obs.Time.Sub(m.clock())
		if m.offset.Abs() < time.Minute {
			m.offset = 0
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return TickMsg(time.Now()) },
		animTickCmd(),
	)
}

// SkyTime returns the instant the sky is computed for.
func (m Model) SkyTime() time.Time {
	if m.paused {
		return m.frozen
	}
	return m.clock().Add(m.offset)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "d":
			m.viewMode = ViewDashboard
		case "2", "v":
			if m.viewMode != ViewSky {
				if s := m.dashboard.GetSelectedStar(); s != nil {
					m.skyView = m.skyView.FocusOn(s.Name)
				}
			}
			m.viewMode = ViewSky
			cmds = append(cmds, m.windowCmd())
		case "tab":
			m.viewMode = (m.viewMode + 1) % viewCount

		case " ":
			if m.paused {
				m.offset = m.frozen.Sub(m.clock())
			} else {
				m.frozen = m.SkyTime()
			}
			m.paused = !m.paused
		case "[":
			m = m.jump(-timeStep)
			cmds = append(cmds, m.windowCmd())
		case "]":
			m = m.jump(timeStep)
			cmds = append(cmds, m.windowCmd())
		case "n":
			m.offset = 0
			m.frozen = m.clock()
			m = m.jump(0)
			cmds = append(cmds, m.windowCmd())
		case "s":
			m.showBelow = !m.showBelow
			m.dashboard = m.dashboard.SetShowBelow(m.showBelow)

		default:
			prev := m.skyView.FocusedName()
			cmds = append(cmds, m.updateActiveView(msg))
			if m.viewMode == ViewSky && m.skyView.FocusedName() != prev {
				cmds = append(cmds, m.windowCmd())
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 4 lines, footer 2
		contentHeight := msg.Height - 6
		m.dashboard = m.dashboard.SetSize(msg.Width, contentHeight)
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd(m.state.RefreshInterval()))
		if !m.paused || !m.state.HasData() {
			m = m.refresh()
		}

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case windowMsg:
		if msg.err == nil {
			m.skyView = m.skyView.SetWindow(msg.name, msg.window)
		}

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

// jump moves sky time by d and recomputes. History is reset so the jump
// does not register as horizon events.
func (m Model) jump(d time.Duration) Model {
	if m.paused {
		m.frozen = m.frozen.Add(d)
	} else {
		m.offset += d
	}
	m.state.Reset()
	return m.refresh()
}

// refresh advances the engine to SkyTime and rebuilds the snapshot.
func (m Model) refresh() Model {
	start := time.Now()
	sky, err := m.computeSky()
	m.state.Update(sky, time.Since(start), err)

	m.snapshot = m.state.Snapshot()
	m.dashboard = m.dashboard.UpdateData(m.snapshot)
	m.skyView = m.skyView.UpdateData(m.snapshot)
	return m
}

func (m Model) computeSky() (*report.SkySnapshot, error) {
	if err := m.engine.Advance(m.SkyTime()); err != nil {
		return nil, err
	}
	return report.BuildSnapshot(m.engine, time.Now())
}

// windowCmd computes the focused object's rise/set window off the UI loop.
func (m Model) windowCmd() tea.Cmd {
	target, ok := m.skyView.FocusedTarget()
	if !ok {
		return nil
	}
	name := m.skyView.FocusedName()
	e := m.engine
	return func() tea.Msg {
		w, err := e.Window(target, 0, 0)
		return windowMsg{name: name, window: w, err: err}
	}
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewDashboard:
		content = m.dashboard.View()
	case ViewSky:
		content = m.skyView.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString(renderTitle("  ls-almanac"))
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  v%s · stars, Sun, Moon & planets", version.Version)))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// renderTitle draws text with a horizontal gradient blended in HCL space.
func renderTitle(text string) string {
	from, _ := colorful.Hex("#3B82F6")
	to, _ := colorful.Hex("#EC4899")

	runes := []rune(text)
	var b strings.Builder
	for i, r := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		c := from.BlendHcl(to, t).Clamped()
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.Hex())).Render(string(r)))
	}
	return b.String()
}

func (m Model) renderStatusLine() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	liveStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	pauseStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	mode := liveStyle.Render("LIVE")
	if m.paused {
		mode = pauseStyle.Render("PAUSED")
	}

	t := m.SkyTime().UTC()
	line := fmt.Sprintf("  %s %s UTC", mode, t.Format("2006-01-02 15:04:05"))
	if !m.paused && m.offset != 0 {
		line += dimStyle.Render(fmt.Sprintf(" (%+.0fh)", m.offset.Hours()))
	}

	if sky := m.snapshot.Sky; sky != nil {
		o := sky.Observer
		line += dimStyle.Render(fmt.Sprintf("  |  %.4f°, %.4f°, %.0f m  |  LST %s",
			o.Latitude, o.Longitude, o.Elevation, formatLST(o.LST)))
	}
	return line
}

// formatLST renders sidereal time in degrees as hh:mm.
func formatLST(deg float64) string {
	minutes := int(deg/15*60+0.5) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Almanac", "[2] Sky"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]
	if m.paused {
		spinner = "⏸"
	}

	var status string
	switch {
	case m.snapshot.LastError != nil:
		status = errorStyle.Render("ERROR: " + m.snapshot.LastError.Error())
	case !m.snapshot.LastCompute.IsZero():
		status = accentStyle.Render(spinner) +
			dimStyle.Render(" computed in "+m.snapshot.ComputeDuration.Round(time.Microsecond).String())
	default:
		status = accentStyle.Render(spinner) + dimStyle.Render(" computing...")
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = "j/k: focus | h/l: pan | L: labels"
	default:
		help = "↑↓: navigate | s: below horizon"
	}
	help += " | space: pause | [/]: ∓1h | n: now | tab: view | q: quit"

	return "  " + status + "  " + dimStyle.Render("|") + "  " + dimStyle.Render(help)
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		d = time.Second
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}
