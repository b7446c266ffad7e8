// Package tui is the terminal front end of the map view controller: a bubbletea program
// whose map canvas is the session's surface.
package tui

import (
	"context"
	"os"
	"time"

	spinner "github.com/charmbracelet/bubbles/spinner"
	table "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"routemap/internal/geom"
	"routemap/internal/view"
)

type Model struct {
	width  int
	height int

	helpVisible bool
	status      string

	ctx     context.Context
	fetch   view.Fetcher
	session *view.Session
	canvas  *canvas
	log     *log.Logger
	cwd     string
	now     func() time.Time

	// last rendered map size (for inspect and hover)
	mapW int
	mapH int

	// layer visibility
	showMarkers bool
	showLines   bool

	// requests in flight
	pending int
	spin    spinner.Model

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverPos    geom.LatLng

	// route legend
	showLegend bool
	tbl        table.Model
}

// New creates the model and initializes the map on its canvas. ctx bounds every fetch the
// program starts.
func New(ctx context.Context, f view.Fetcher, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	m := Model{
		helpVisible: true,
		status:      "routemap ready",
		ctx:         ctx,
		fetch:       f,
		session:     view.NewSession(f, logger),
		canvas:      &canvas{},
		log:         logger,
		now:         time.Now,
		showMarkers: true,
		showLines:   true,
	}
	if err := m.session.InitMap(m.canvas); err != nil {
		return Model{}, err
	}
	m.cwd, _ = os.Getwd()
	m.spin = spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(titleStyle))
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Session exposes the controller behind the model.
func (m Model) Session() *view.Session { return m.session }
