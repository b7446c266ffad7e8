package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"routemap/internal/api"
	"routemap/internal/geom"
	"routemap/internal/solver"
	"routemap/internal/store"
	"routemap/internal/view"
)

const zagrebYAML = `addresses:
  - {lat: 45.8131, lng: 15.9775}
  - {lat: 45.8150, lng: 15.9819}
  - {lat: 45.8003, lng: 15.9710}
  - {lat: 45.8271, lng: 15.9890}
  - {lat: 45.7965, lng: 15.9502}
  - {lat: 45.8060, lng: 16.0240}
`

const viennaYAML = `addresses:
  - {lat: 45.8131, lng: 15.9775}
  - {lat: 48.2082, lng: 16.3738}
`

func init() {
	gin.SetMode(gin.TestMode)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func setup(t *testing.T, name, body string) (*Server, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	writeFile(t, path, body)

	st, err := store.Open("")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })

	logger, _ := logtest.NewNullLogger()
	return New(path, solver.DefaultOptions(), st, logger), path
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.Router().ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	s, _ := setup(t, "addresses.yaml", zagrebYAML)

	w := get(t, s, "/ping")
	if w.Code != http.StatusOK {
		t.Errorf("Expected '%v' but got '%v'", http.StatusOK, w.Code)
	}
}

func TestGetAddresses(t *testing.T) {
	s, _ := setup(t, "addresses.yaml", zagrebYAML)

	w := get(t, s, "/get_addresses")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected '%v' but got '%v': %s", http.StatusOK, w.Code, w.Body)
	}
	var book geom.AddressBook
	if err := json.Unmarshal(w.Body.Bytes(), &book); err != nil {
		t.Fatal(err)
	}
	if len(book.Addresses) != 6 || book.Addresses[5] != (geom.Address{Lat: 45.8060, Lng: 16.0240}) {
		t.Errorf("unexpected addresses: %v", book.Addresses)
	}
}

func TestGetAddressesCSV(t *testing.T) {
	s, _ := setup(t, "addresses.csv", "lat,lng\n45.81,15.98\n45.80,15.97\n")

	w := get(t, s, "/get_addresses")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected '%v' but got '%v': %s", http.StatusOK, w.Code, w.Body)
	}
	expected := `{"addresses":[{"lat":45.81,"lng":15.98},{"lat":45.8,"lng":15.97}]}`
	if w.Body.String() != expected {
		t.Errorf("Expected '%s' but got '%s'", expected, w.Body)
	}
}

func TestGetAddressesMissingFile(t *testing.T) {
	s, path := setup(t, "addresses.yaml", zagrebYAML)
	os.Remove(path)

	if w := get(t, s, "/get_addresses"); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected '%v' but got '%v'", http.StatusInternalServerError, w.Code)
	}
}

func TestGetRoutes(t *testing.T) {
	s, _ := setup(t, "addresses.yaml", zagrebYAML)

	w := get(t, s, "/get_routes")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected '%v' but got '%v': %s", http.StatusOK, w.Code, w.Body)
	}
	var routes geom.RouteSet
	if err := json.Unmarshal(w.Body.Bytes(), &routes); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(routes.Keys(), []string{"0", "1", "2", "3"}) {
		t.Errorf("unexpected route keys %v", routes.Keys())
	}

	snap, ok, err := s.store.Latest()
	if err != nil || !ok {
		t.Fatalf("Expected stored snapshot, ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(snap.Routes, routes) || snap.Addresses != 6 {
		t.Errorf("stored snapshot does not match the response: %+v", snap)
	}
}

func TestGetRoutesFallsBackToPreviousPlan(t *testing.T) {
	s, path := setup(t, "addresses.yaml", zagrebYAML)

	first := get(t, s, "/get_routes")
	if first.Code != http.StatusOK {
		t.Fatalf("first solve failed: %s", first.Body)
	}

	writeFile(t, path, viennaYAML)
	second := get(t, s, "/get_routes")
	if second.Code != http.StatusOK {
		t.Fatalf("Expected '%v' but got '%v'", http.StatusOK, second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("Expected the previous plan %s but got %s", first.Body, second.Body)
	}
}

func TestGetRoutesNoSolutionWithoutHistory(t *testing.T) {
	s, _ := setup(t, "addresses.yaml", viennaYAML)

	if w := get(t, s, "/get_routes"); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected '%v' but got '%v'", http.StatusInternalServerError, w.Code)
	}
}

func TestClientSessionAgainstServer(t *testing.T) {
	s, _ := setup(t, "addresses.yaml", zagrebYAML)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	logger, hook := logtest.NewNullLogger()
	sess := view.NewSession(api.NewClient(srv.URL, srv.Client()), logger)
	surf := &nopSurface{}
	if err := sess.InitMap(surf); err != nil {
		t.Fatal(err)
	}

	if err := sess.AddMarkers(context.Background()); err != nil {
		t.Fatal(err)
	}
	out := sess.DrawRoutes(context.Background())
	if !out.OK() || out.Polylines != 4 {
		t.Fatalf("unexpected outcome: %v", out)
	}
	if len(sess.Markers()) != 6 || surf.lines != 4 {
		t.Errorf("Expected 6 markers and 4 polylines but got %d and %d", len(sess.Markers()), surf.lines)
	}
	if len(hook.AllEntries()) != 0 {
		t.Errorf("unexpected log entries: %v", hook.AllEntries())
	}
}

type nopSurface struct{ lines int }

func (n *nopSurface) SetView(geom.LatLng, float64) {}
func (n *nopSurface) AddMarker(*view.Marker)       {}
func (n *nopSurface) AddPolyline(*view.Polyline)   { n.lines++ }
