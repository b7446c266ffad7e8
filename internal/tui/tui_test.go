package tui

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"routemap/internal/geom"
	"routemap/internal/view"
)

type stubFetcher struct {
	addrs  []geom.Address
	routes geom.RouteSet
	err    error
}

func (f *stubFetcher) FetchAddresses(ctx context.Context) ([]geom.Address, error) {
	return f.addrs, f.err
}

func (f *stubFetcher) FetchRoutes(ctx context.Context) (geom.RouteSet, error) {
	return f.routes, f.err
}

var zagreb = []geom.Address{
	{Lat: 45.8150, Lng: 15.9819},
	{Lat: 45.8003, Lng: 15.9710},
	{Lat: 45.8131, Lng: 16.0040},
}

func newModel(t *testing.T, f view.Fetcher) (Model, *logtest.Hook) {
	t.Helper()
	logger, hook := logtest.NewNullLogger()
	m, err := New(context.Background(), f, logger)
	if err != nil {
		t.Fatal(err)
	}
	m.cwd = t.TempDir()
	m.now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC) }
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 27})
	return next.(Model), hook
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewInitializesMap(t *testing.T) {
	m, _ := newModel(t, &stubFetcher{})
	if !m.canvas.ready {
		t.Fatal("canvas not initialized")
	}
	if m.canvas.center != view.DefaultCenter || m.canvas.zoom != view.DefaultZoom {
		t.Errorf("view = %v @ %v", m.canvas.center, m.canvas.zoom)
	}
	if !m.Session().Initialized() {
		t.Error("session not initialized")
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	c := &canvas{}
	c.SetView(view.DefaultCenter, 12)
	w, h := 80, 24
	mx, my := c.toMicro(c.center, w, h)
	if mx != w || my != 2*h {
		t.Fatalf("center projects to (%d,%d), want (%d,%d)", mx, my, w, 2*h)
	}
	p := c.cellToLatLng(10, 5, w, h)
	x, y := c.toMicro(p, w, h)
	if x/2 != 10 || y/4 != 5 {
		t.Errorf("cell (10,5) round trips to (%d,%d)", x/2, y/4)
	}
}

func TestPanAndZoom(t *testing.T) {
	c := &canvas{}
	c.SetView(view.DefaultCenter, 12)
	c.pan(8, 0)
	if c.center.Lng <= view.DefaultCenter.Lng {
		t.Errorf("pan right moved center to %v", c.center)
	}
	if math.Abs(c.center.Lat-view.DefaultCenter.Lat) > 1e-9 {
		t.Errorf("horizontal pan changed latitude: %v", c.center.Lat)
	}
	c.zoomBy(100)
	if c.zoom != maxZoom {
		t.Errorf("zoom = %v, want %v", c.zoom, maxZoom)
	}
	c.zoomBy(-100)
	if c.zoom != minZoom {
		t.Errorf("zoom = %v, want %v", c.zoom, minZoom)
	}
}

func TestBraillePixels(t *testing.T) {
	b := newBrailleBuf(2, 1)
	b.setPixel(0, 0, "#FF0000")
	b.setPixel(1, 3, "#FF0000")
	b.setPixel(99, 99, "#FF0000")
	got := b.cells()
	if got[0][0].r != rune(0x2800+0x01+0x80) || got[0][0].color != "#FF0000" {
		t.Errorf("cell 0 = %q %q", got[0][0].r, got[0][0].color)
	}
	if got[0][1].r != ' ' {
		t.Errorf("cell 1 = %q, want blank", got[0][1].r)
	}

	b = newBrailleBuf(4, 1)
	b.drawLineMicro(0, 0, 7, 0, "#0000FF")
	for x, c := range b.cells()[0] {
		if c.r == ' ' {
			t.Errorf("line gap at cell %d", x)
		}
	}
}

func TestMarkersKey(t *testing.T) {
	f := &stubFetcher{addrs: zagreb}
	m, _ := newModel(t, f)

	m, cmd := update(t, m, key("m"))
	if cmd == nil || m.pending != 1 {
		t.Fatalf("pending = %d, cmd = %v", m.pending, cmd)
	}
	m, _ = update(t, m, m.fetchAddresses()())
	if m.pending != 0 {
		t.Errorf("pending = %d after response", m.pending)
	}
	if len(m.canvas.markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(m.canvas.markers))
	}
	if !strings.ContainsRune(m.renderMap(80, 24), markerGlyph) {
		t.Error("marker glyph not rendered")
	}

	m, _ = update(t, m, addressesFetchedMsg{addrs: zagreb})
	if len(m.canvas.markers) != 6 {
		t.Errorf("markers = %d after second press, want 6", len(m.canvas.markers))
	}
}

func TestMarkersFetchFailureIsSilent(t *testing.T) {
	m, hook := newModel(t, &stubFetcher{})
	before := m.status

	m, _ = update(t, m, addressesFetchedMsg{err: errors.New("connection refused")})
	if len(m.canvas.markers) != 0 {
		t.Errorf("markers = %d, want 0", len(m.canvas.markers))
	}
	if m.status != before {
		t.Errorf("status = %q, want unchanged %q", m.status, before)
	}
	e := hook.LastEntry()
	if e == nil || !strings.HasPrefix(e.Message, "unhandled") {
		t.Errorf("last log entry = %+v", e)
	}
}

func TestRoutesKeyDrawsInOrder(t *testing.T) {
	routes := geom.RouteSet{}.Set("0", []int{0, 1, 0}).Set("1", []int{0, 2, 0})
	f := &stubFetcher{addrs: zagreb, routes: routes}
	m, _ := newModel(t, f)

	m, _ = update(t, m, key("l"))
	m, _ = update(t, m, m.fetchSnapshot()())
	if len(m.canvas.polylines) != 2 {
		t.Fatalf("polylines = %d, want 2", len(m.canvas.polylines))
	}
	if m.canvas.polylines[0].Color != "#FF0000" || m.canvas.polylines[1].Color != "#0000FF" {
		t.Errorf("colors = %s, %s", m.canvas.polylines[0].Color, m.canvas.polylines[1].Color)
	}

	m, _ = update(t, m, m.fetchSnapshot()())
	if got := m.canvas.polylines[2].Color; got != "#00FF00" {
		t.Errorf("third polyline color = %s, want #00FF00", got)
	}

	m, _ = update(t, m, key("a"))
	if !m.showLegend || len(m.tbl.Rows()) != 4 {
		t.Errorf("legend shown=%v rows=%d", m.showLegend, len(m.tbl.Rows()))
	}
}

func TestRoutesFailureKeepsStatus(t *testing.T) {
	m, hook := newModel(t, &stubFetcher{addrs: zagreb, routes: geom.RouteSet{}.Set("0", []int{0, 7})})
	before := m.status

	m, _ = update(t, m, m.fetchSnapshot()())
	if len(m.canvas.polylines) != 0 {
		t.Errorf("polylines = %d, want 0", len(m.canvas.polylines))
	}
	if m.status != before {
		t.Errorf("status = %q, want unchanged", m.status)
	}
	if e := hook.LastEntry(); e == nil || e.Message != "Error drawing routes" {
		t.Errorf("last log entry = %+v", e)
	}
}

func TestExport(t *testing.T) {
	m, _ := newModel(t, &stubFetcher{})
	m, _ = update(t, m, addressesFetchedMsg{addrs: zagreb})
	m, _ = update(t, m, key("e"))

	want := filepath.Join(m.cwd, "routemap-20240309-140507.geojson")
	if got := exportPath(m.cwd, m.now()); got != want {
		t.Fatalf("exportPath = %s, want %s", got, want)
	}
	b, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"FeatureCollection"`) {
		t.Errorf("export is not a feature collection: %s", b)
	}
}

func TestViewRendersHelp(t *testing.T) {
	m, _ := newModel(t, &stubFetcher{})
	out := m.View()
	for _, want := range []string{"routemap", "m markers", "l lines"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFitShowsEverything(t *testing.T) {
	m, _ := newModel(t, &stubFetcher{})
	if m.canvas.fit(m.mapSize()) {
		t.Fatal("fit on an empty canvas")
	}
	far := []geom.Address{{Lat: 45.0, Lng: 14.0}, {Lat: 46.5, Lng: 17.5}}
	m, _ = update(t, m, addressesFetchedMsg{addrs: far})
	m, _ = update(t, m, key("f"))

	w, h := m.mapSize()
	for _, mk := range m.canvas.markers {
		x, y := m.canvas.toMicro(mk.Position, w, h)
		if x < 0 || x >= 2*w || y < 0 || y >= 4*h {
			t.Errorf("marker %v at micro (%d,%d) is outside %dx%d", mk.Position, x, y, 2*w, 4*h)
		}
	}
	if m.canvas.zoom >= view.DefaultZoom {
		t.Errorf("zoom = %v, expected to zoom out", m.canvas.zoom)
	}
}
