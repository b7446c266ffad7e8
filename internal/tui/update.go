package tui

import (
	"fmt"
	"strings"

	spinner "github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"routemap/internal/geom"
	"routemap/internal/view"
)

type addressesFetchedMsg struct {
	addrs []geom.Address
	err   error
}

type snapshotFetchedMsg struct {
	snap view.Snapshot
	err  error
}

const (
	headerHeight = 1
	footerHeight = 2
)

// mapSize is the map area for the current window; it fills everything between header and footer.
func (m Model) mapSize() (int, int) {
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}

// fetchAddresses runs the address request off the event loop.
func (m Model) fetchAddresses() tea.Cmd {
	ctx, f := m.ctx, m.fetch
	return func() tea.Msg {
		addrs, err := f.FetchAddresses(ctx)
		return addressesFetchedMsg{addrs: addrs, err: err}
	}
}

// fetchSnapshot runs the address and route requests off the event loop.
func (m Model) fetchSnapshot() tea.Cmd {
	ctx, s := m.ctx, m.session
	return func() tea.Msg {
		snap, err := s.FetchSnapshot(ctx)
		return snapshotFetchedMsg{snap: snap, err: err}
	}
}

// startRequest counts a request in flight and starts the spinner with the first one.
func (m *Model) startRequest(cmd tea.Cmd) tea.Cmd {
	m.pending++
	if m.pending == 1 {
		return tea.Batch(cmd, m.spin.Tick)
	}
	return cmd
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.mapW, m.mapH = m.mapSize()
		m.tbl.SetHeight(min(m.mapH-2, 20))

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case addressesFetchedMsg:
		m.pending = max(0, m.pending-1)
		if msg.err != nil {
			// no user feedback for a failed marker fetch
			m.log.WithError(msg.err).Error("unhandled: add markers")
			return m, nil
		}
		if err := m.session.PlaceMarkers(msg.addrs); err != nil {
			m.log.WithError(err).Error("unhandled: add markers")
			return m, nil
		}
		m.status = fmt.Sprintf("markers: +%d (%d total)", len(msg.addrs), len(m.canvas.markers))

	case snapshotFetchedMsg:
		m.pending = max(0, m.pending-1)
		out := m.session.ApplyRoutes(msg.snap, msg.err)
		m.log.Debug(out.String())
		if out.OK() {
			m.status = fmt.Sprintf("routes: +%d (%d total)", out.Polylines, len(m.canvas.polylines))
		}
		if m.showLegend {
			m.refreshLegend()
		}

	case tea.KeyMsg:
		if m.showLegend {
			switch msg.String() {
			case "a", "esc":
				m.showLegend = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "m":
			m.status = "fetching addresses"
			return m, m.startRequest(m.fetchAddresses())
		case "l":
			m.status = "fetching routes"
			return m, m.startRequest(m.fetchSnapshot())
		case "1":
			m.showMarkers = !m.showMarkers
			m.status = fmt.Sprintf("markers: %v", m.showMarkers)
		case "2":
			m.showLines = !m.showLines
			m.status = fmt.Sprintf("lines: %v", m.showLines)
		case "+", "=":
			m.canvas.zoomBy(1)
			m.status = fmt.Sprintf("zoom: %.0f", m.canvas.zoom)
		case "-", "_":
			m.canvas.zoomBy(-1)
			m.status = fmt.Sprintf("zoom: %.0f", m.canvas.zoom)
		case "up":
			m.canvas.pan(0, -8)
		case "down":
			m.canvas.pan(0, 8)
		case "left":
			m.canvas.pan(-8, 0)
		case "right":
			m.canvas.pan(8, 0)
		case "f":
			if m.canvas.fit(m.mapSize()) {
				m.status = fmt.Sprintf("fit: zoom %.0f", m.canvas.zoom)
			} else {
				m.status = "nothing to fit"
			}
		case "a":
			if m.refreshLegend() {
				m.showLegend = true
			} else {
				m.status = "no routes drawn"
			}
		case "e":
			m.export()
		case "h":
			m.helpVisible = !m.helpVisible
		case "esc":
			m.inspectPopup = ""
		case "i":
			if idx, pos, ok := m.inspectNearest(); ok {
				meta := []string{
					fmt.Sprintf("marker: #%d of %d", idx, len(m.canvas.markers)),
					fmt.Sprintf("position: lat=%.6f lng=%.6f", pos.Lat, pos.Lng),
					fmt.Sprintf("polylines: %d  next color: %s", len(m.canvas.polylines),
						view.Palette[m.session.Cursor()%len(view.Palette)]),
					fmt.Sprintf("view: lat=%.5f lng=%.5f zoom=%.0f", m.canvas.center.Lat, m.canvas.center.Lng, m.canvas.zoom),
				}
				m.inspectPopup = strings.Join(meta, "\n")
				m.status = "inspect popup"
			} else {
				m.inspectPopup = "no marker on the map"
				m.status = m.inspectPopup
			}
		}

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.canvas.zoomBy(1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.canvas.zoomBy(-1)
			return m, nil
		}
		w, h := m.mapSize()
		cx, cy := msg.X, msg.Y-headerHeight
		if cx < 0 || cx >= w || cy < 0 || cy >= h {
			m.hovering = false
			m.hoverHasGeo = false
			return m, nil
		}
		m.hoverHasGeo = m.canvas.ready
		m.hoverPos = m.canvas.cellToLatLng(cx, cy, w, h)
		if bx, by, ok := m.nearestVertex(cx*2, cy*4, w, h); ok {
			m.hovering = true
			m.hoverMicX, m.hoverMicY = bx, by
		} else {
			m.hovering = false
		}
	}
	return m, nil
}
