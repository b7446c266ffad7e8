package tui

import (
	"fmt"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/samber/lo"

	"routemap/internal/geom"
	"routemap/internal/view"
)

// refreshLegend rebuilds the legend table from the polylines on the canvas.
// It returns false when there is nothing to list.
func (m *Model) refreshLegend() bool {
	if len(m.canvas.polylines) == 0 {
		return false
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "route", Width: 8},
		{Title: "color", Width: 9},
		{Title: "stops", Width: 6},
		{Title: "km", Width: 8},
	}
	rows := lo.Map(m.canvas.polylines, func(p *view.Polyline, i int) table.Row {
		return table.Row{
			fmt.Sprintf("%d", i+1),
			p.RouteKey,
			p.Color,
			fmt.Sprintf("%d", len(p.Path)),
			fmt.Sprintf("%.2f", geom.PathLength(p.Path)/1000),
		}
	})
	// clear rows first so the table never sees rows wider than its columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	return true
}
