package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Visibility display colors
const (
	colorVisHigh   = "#7CFC00" // Lawn green - high elevation
	colorVisMedium = "#FFD700" // Gold - medium elevation
	colorVisLow    = "#FF6347" // Tomato - low elevation
	colorVisNone   = "#444444" // Dark gray - below horizon

	// Sun separation colors
	colorSunSafe    = "#7CFC00"
	colorSunCaution = "#FFD700"
	colorSunWarning = "#FF4500"
)

// sunSepTier grades the angular distance of an object from the Sun.
type sunSepTier int

const (
	sunSepSafe    sunSepTier = iota // >= 20°
	sunSepCaution                   // 10-20°
	sunSepWarning                   // < 10°, lost in twilight glare
)

func sunSeparationTier(sepDeg float64) sunSepTier {
	switch {
	case sepDeg < 10:
		return sunSepWarning
	case sepDeg < 20:
		return sunSepCaution
	default:
		return sunSepSafe
	}
}

// RenderWindowLine renders one object's rise/transit/set line.
// Format:
//
//	Sirius      Rise 22:14   Peak 23:02 @ 58°   Set 23:49
//	Acrux       Below horizon
//	Polaris     Always visible @ 51°
func RenderWindowLine(name string, w astro.VisibilityWindow, currentEl float64) string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("135")).Bold(true)
	tier := astro.GetElevationTier(currentEl)

	line := labelStyle.Render(fmt.Sprintf("%-12s", truncate(name, 12)))

	switch {
	case !w.Valid:
		return line + dimStyle.Render("No data")
	case w.NeverVisible:
		return line + dimStyle.Render("Below horizon")
	case w.AlwaysVisible:
		return line + colorByTier(tier, fmt.Sprintf("Always visible @ %.0f°", currentEl))
	}

	var parts []string
	if !w.Rise.IsZero() {
		parts = append(parts, fmt.Sprintf("Rise %s", w.Rise.Local().Format("15:04")))
	}
	if !w.Transit.IsZero() {
		parts = append(parts, fmt.Sprintf("Peak %s @ %.0f°", w.Transit.Local().Format("15:04"), w.MaxElevation))
	}
	if !w.Set.IsZero() {
		parts = append(parts, fmt.Sprintf("Set %s", w.Set.Local().Format("15:04")))
	}
	if len(parts) == 0 {
		return line + dimStyle.Render("Calculating...")
	}
	return line + colorByTier(tier, strings.Join(parts, "   "))
}

// RenderElevationBar renders a compact 4-cell elevation gauge.
// Format: Sun ████
func RenderElevationBar(name string, elDeg float64) string {
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	tier := astro.GetElevationTier(elDeg)
	barStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return labelStyle.Render(name+" ") + barStyle.Render(tierToBar(tier))
}

// tierToBar converts elevation tier to a 4-character bar representation.
func tierToBar(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return "████"
	case astro.ElevationMedium:
		return "██░░"
	case astro.ElevationLow:
		return "█░░░"
	default:
		return "░░░░"
	}
}

// tierToColor returns the color for an elevation tier.
func tierToColor(tier astro.ElevationTier) string {
	switch tier {
	case astro.ElevationHigh:
		return colorVisHigh
	case astro.ElevationMedium:
		return colorVisMedium
	case astro.ElevationLow:
		return colorVisLow
	default:
		return colorVisNone
	}
}

// colorByTier applies tier-based coloring to text.
func colorByTier(tier astro.ElevationTier, text string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(tierToColor(tier)))
	return style.Render(text)
}

// RenderSunSeparation renders the angular distance from the Sun.
func RenderSunSeparation(sepDeg float64) string {
	tier := sunSeparationTier(sepDeg)
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(sunTierToColor(tier)))

	var status string
	switch tier {
	case sunSepWarning:
		status = " (glare)"
	case sunSepCaution:
		status = " (twilight)"
	}

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	return dimStyle.Render("sun-sep: ") + style.Render(fmt.Sprintf("%.1f°", sepDeg)+status)
}

func sunTierToColor(tier sunSepTier) string {
	switch tier {
	case sunSepWarning:
		return colorSunWarning
	case sunSepCaution:
		return colorSunCaution
	default:
		return colorSunSafe
	}
}
