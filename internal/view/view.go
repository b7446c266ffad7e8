// Package view is the map view controller: it owns the map surface, the markers and
// polylines placed on it, and the palette cursor used to colour routes.
//
// A Session is created once per program run. InitMap binds the surface; AddMarkers and
// DrawRoutes append to it. Nothing is ever removed: repeated calls duplicate markers and
// polylines. A Session is not safe for concurrent use; callers serialize access the way the
// terminal event loop does.
package view

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sanity-io/litter"
	log "github.com/sirupsen/logrus"

	"routemap/internal/geom"
)

var (
	ErrNotInitialized     = errors.New("map surface not initialized")
	ErrAlreadyInitialized = errors.New("map surface already initialized")
)

// DefaultCenter and DefaultZoom are the view the map opens on.
var DefaultCenter = geom.LatLng{Lat: 45.81, Lng: 15.98}

const DefaultZoom = 12.0

// Palette is cycled across routes: red, blue, green, orange.
var Palette = []string{"#FF0000", "#0000FF", "#00FF00", "#FFA500"}

const (
	StrokeOpacity = 1.0
	StrokeWeight  = 2
)

// Fetcher is the data source for a session.
type Fetcher interface {
	FetchAddresses(ctx context.Context) ([]geom.Address, error)
	FetchRoutes(ctx context.Context) (geom.RouteSet, error)
}

// Surface is where markers and polylines are drawn.
type Surface interface {
	SetView(center geom.LatLng, zoom float64)
	AddMarker(m *Marker)
	AddPolyline(p *Polyline)
}

type Marker struct {
	ID       uuid.UUID
	Position geom.LatLng
}

type Polyline struct {
	ID       uuid.UUID
	RouteKey string
	Path     []geom.LatLng
	Geodesic bool
	Color    string
	Opacity  float64
	Weight   int
}

type Session struct {
	fetch   Fetcher
	log     *log.Entry
	surface Surface

	markers   []*Marker
	polylines []*Polyline
	cursor    int // next palette slot, never reset
}

// NewSession returns an uninitialized session. A nil logger uses the logrus standard logger.
func NewSession(f Fetcher, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Session{fetch: f, log: logger.WithField("component", "view")}
}

// InitMap binds the surface and centers it on the default view. It may only run once.
func (s *Session) InitMap(surface Surface) error {
	if s.surface != nil {
		return ErrAlreadyInitialized
	}
	if surface == nil {
		return errors.New("nil map surface")
	}
	s.surface = surface
	surface.SetView(DefaultCenter, DefaultZoom)
	s.log.WithFields(log.Fields{"lat": DefaultCenter.Lat, "lng": DefaultCenter.Lng, "zoom": DefaultZoom}).Debug("map initialized")
	return nil
}

func (s *Session) Initialized() bool { return s.surface != nil }

// Markers returns the marker handles placed so far, oldest first.
func (s *Session) Markers() []*Marker { return append([]*Marker(nil), s.markers...) }

// Polylines returns the polyline handles drawn so far, oldest first.
func (s *Session) Polylines() []*Polyline { return append([]*Polyline(nil), s.polylines...) }

// Cursor is the palette slot the next route will take.
func (s *Session) Cursor() int { return s.cursor }

// AddMarkers fetches the current addresses and places one marker per address.
// A fetch error is returned as is and leaves the session untouched.
func (s *Session) AddMarkers(ctx context.Context) error {
	addrs, err := s.fetch.FetchAddresses(ctx)
	if err != nil {
		return err
	}
	return s.PlaceMarkers(addrs)
}

// PlaceMarkers attaches a marker per address and appends it to the marker list.
func (s *Session) PlaceMarkers(addrs []geom.Address) error {
	if s.surface == nil {
		return ErrNotInitialized
	}
	for _, a := range addrs {
		m := &Marker{ID: uuid.New(), Position: a.LatLng()}
		s.surface.AddMarker(m)
		s.markers = append(s.markers, m)
	}
	s.log.WithField("count", len(addrs)).Debug("markers placed")
	return nil
}

// Snapshot is the data of one draw cycle. Addresses and routes are fetched one after the
// other, not atomically, so they may describe different server states.
type Snapshot struct {
	Addresses []geom.Address
	Routes    geom.RouteSet
}

// FetchSnapshot fetches addresses, then routes. It touches no session state and may run
// off the event loop.
func (s *Session) FetchSnapshot(ctx context.Context) (Snapshot, error) {
	addrs, err := s.fetch.FetchAddresses(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch addresses: %w", err)
	}
	routes, err := s.fetch.FetchRoutes(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("fetch routes: %w", err)
	}
	return Snapshot{Addresses: addrs, Routes: routes}, nil
}

// DrawRoutes fetches a snapshot and draws it. It never fails: problems are logged and
// reported in the outcome.
func (s *Session) DrawRoutes(ctx context.Context) Outcome {
	snap, err := s.FetchSnapshot(ctx)
	return s.ApplyRoutes(snap, err)
}

// ApplyRoutes draws one polyline per route in route order. fetchErr is the error of the
// fetch that produced snap, if any. Routes drawn before a failing route stay on the map.
func (s *Session) ApplyRoutes(snap Snapshot, fetchErr error) Outcome {
	out := Outcome{Op: OpDrawRoutes}
	defer func() {
		if out.Err != nil {
			s.log.WithError(out.Err).WithField("drawn", out.Polylines).Error("Error drawing routes")
		}
	}()

	if fetchErr != nil {
		out.Err = fetchErr
		return out
	}
	if s.surface == nil {
		out.Err = ErrNotInitialized
		return out
	}

	if s.log.Logger.IsLevelEnabled(log.DebugLevel) {
		s.log.Debug("Addresses: " + litter.Sdump(snap.Addresses))
		s.log.Debug("Routes: " + litter.Sdump(snap.Routes))
	}

	for _, r := range snap.Routes {
		s.log.WithField("route", r.Key).Debugf("Drawing route #%s with points: %v", r.Key, r.Stops)

		path, err := geom.ResolvePath(snap.Addresses, r.Stops)
		if err != nil {
			out.Err = fmt.Errorf("route %q: %w", r.Key, err)
			return out
		}
		p := &Polyline{
			ID:       uuid.New(),
			RouteKey: r.Key,
			Path:     path,
			Geodesic: true,
			Color:    Palette[s.cursor%len(Palette)],
			Opacity:  StrokeOpacity,
			Weight:   StrokeWeight,
		}
		s.surface.AddPolyline(p)
		s.polylines = append(s.polylines, p)
		s.cursor++
		out.Polylines++
	}
	return out
}
