package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"routemap/internal/view"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	mapWidth, mapHeight := m.mapSize()

	// Header
	title := titleStyle.Render(" routemap ─ delivery routes ")
	if m.pending > 0 {
		title += " " + m.spin.View() + dimStyle.Render(fmt.Sprintf(" %d pending", m.pending))
	}
	header := lipgloss.NewStyle().Width(contentWidth).Render(title)

	// Map viewport
	var mapView string
	if m.showLegend {
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		legend := boxStyle.Width(maxW).Render(m.tbl.View() + "\n" + m.renderSwatches())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, legend)
	} else {
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(mapWidth, mapHeight))
	}

	popup := ""
	if m.inspectPopup != "" && !m.showLegend {
		maxPopupW := max(20, min(56, contentWidth/2))
		box := boxStyle.MaxWidth(maxPopupW).Render(m.inspectPopup)
		popup = lipgloss.Place(contentWidth, lipgloss.Height(box), lipgloss.Left, lipgloss.Top, box)
	}

	// Footer / help
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lat=%.5f lng=%.5f  ", m.hoverPos.Lat, m.hoverPos.Lng))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, mapView, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderSwatches shows the stroke palette in the order colours are handed out.
func (m Model) renderSwatches() string {
	parts := make([]string, len(view.Palette))
	next := m.session.Cursor() % len(view.Palette)
	for i, c := range view.Palette {
		s := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("━━ " + c)
		if i == next {
			s += dimStyle.Render(" (next)")
		}
		parts[i] = s
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"m markers",
		"l lines",
		"↑↓←→ pan",
		"+/- zoom",
		"f fit",
		"1/2 layers",
		"a legend",
		"i inspect",
		"e export",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
