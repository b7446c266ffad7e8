package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"routemap/internal/geom"
)

type cell struct {
	r     rune
	color string
}

const (
	markerGlyph = '●'
	hoverGlyph  = '◯'
	markerColor = "#EA4335"
	hoverColor  = "#FFA500"
)

// renderMap draws polylines, then markers, then the hover ring onto a w x h cell grid.
func (m Model) renderMap(w, h int) string {
	c := m.canvas
	br := newBrailleBuf(w, h)

	if m.showLines {
		// densify great-circle segments to roughly 8 micro-pixels per piece
		step := 8 * c.metersPerPixel()
		for _, p := range c.polylines {
			path := p.Path
			if p.Geodesic {
				path = geom.GeodesicPath(path, step)
			}
			for i := 1; i < len(path); i++ {
				x0, y0 := c.toMicro(path[i-1], w, h)
				x1, y1 := c.toMicro(path[i], w, h)
				br.drawLineMicro(x0, y0, x1, y1, p.Color)
				if p.Weight >= 2 {
					br.drawLineMicro(x0+1, y0, x1+1, y1, p.Color)
				}
			}
		}
	}
	grid := br.cells()

	put := func(mx, my int, r rune, color string) {
		if mx < 0 || my < 0 {
			return
		}
		cx, cy := mx/2, my/4
		if cy < len(grid) && cx < len(grid[cy]) {
			grid[cy][cx] = cell{r: r, color: color}
		}
	}
	if m.showMarkers {
		for _, mk := range c.markers {
			mx, my := c.toMicro(mk.Position, w, h)
			put(mx, my, markerGlyph, markerColor)
		}
	}
	if m.hovering {
		put(m.hoverMicX, m.hoverMicY, hoverGlyph, hoverColor)
	}
	return joinCells(grid)
}

// joinCells renders rows, styling each run of same-coloured cells once.
func joinCells(grid [][]cell) string {
	styles := map[string]lipgloss.Style{}
	lines := make([]string, len(grid))
	for y, row := range grid {
		var sb strings.Builder
		var run []rune
		runColor := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runColor == "" {
				sb.WriteString(string(run))
			} else {
				st, ok := styles[runColor]
				if !ok {
					st = lipgloss.NewStyle().Foreground(lipgloss.Color(runColor))
					styles[runColor] = st
				}
				sb.WriteString(st.Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			if c.color != runColor {
				flush()
				runColor = c.color
			}
			run = append(run, c.r)
		}
		flush()
		lines[y] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// nearestVertex finds the marker or polyline vertex closest to a micro-pixel position.
func (m Model) nearestVertex(hx, hy, w, h int) (bx, by int, ok bool) {
	c := m.canvas
	best := 1<<31 - 1
	try := func(p geom.LatLng) {
		mx, my := c.toMicro(p, w, h)
		dx, dy := mx-hx, my-hy
		if d := dx*dx + dy*dy; d < best {
			best, bx, by, ok = d, mx, my, true
		}
	}
	if m.showMarkers {
		for _, mk := range c.markers {
			try(mk.Position)
		}
	}
	if m.showLines {
		for _, p := range c.polylines {
			for _, v := range p.Path {
				try(v)
			}
		}
	}
	return bx, by, ok
}

// inspectNearest finds the marker closest to the viewport center.
func (m Model) inspectNearest() (idx int, pos geom.LatLng, ok bool) {
	c := m.canvas
	w, h := m.mapW, m.mapH
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	best := 1<<31 - 1
	for i, mk := range c.markers {
		mx, my := c.toMicro(mk.Position, w, h)
		dx, dy := mx-w, my-h*2
		if d := dx*dx + dy*dy; d < best {
			best, idx, pos, ok = d, i, mk.Position, true
		}
	}
	return idx, pos, ok
}
