package tui

import (
	"math"

	"routemap/internal/geom"
	"routemap/internal/view"
)

const (
	tileSize = 256.0
	minZoom  = 1.0
	maxZoom  = 20.0
)

// canvas is the terminal map surface. It keeps what the session attached to it and the
// current view; one braille micro-pixel is one web-mercator pixel at the current zoom.
type canvas struct {
	center    geom.LatLng
	zoom      float64
	ready     bool
	markers   []*view.Marker
	polylines []*view.Polyline
}

func (c *canvas) SetView(center geom.LatLng, zoom float64) {
	c.center = center
	c.zoom = clamp(zoom, minZoom, maxZoom)
	c.ready = true
}

func (c *canvas) AddMarker(m *view.Marker) { c.markers = append(c.markers, m) }

func (c *canvas) AddPolyline(p *view.Polyline) { c.polylines = append(c.polylines, p) }

// worldXY projects to normalized web-mercator coordinates in [0,1].
func worldXY(p geom.LatLng) (float64, float64) {
	siny := clamp(math.Sin(p.Lat*math.Pi/180), -0.9999, 0.9999)
	x := (p.Lng + 180) / 360
	y := 0.5 - math.Log((1+siny)/(1-siny))/(4*math.Pi)
	return x, y
}

func fromWorld(x, y float64) geom.LatLng {
	lng := x*360 - 180
	n := math.Pi - 2*math.Pi*y
	lat := 180 / math.Pi * math.Atan(math.Sinh(n))
	return geom.LatLng{Lat: lat, Lng: lng}
}

func (c *canvas) scale() float64 { return tileSize * math.Pow(2, c.zoom) }

// toMicro maps a coordinate onto the micro-pixel grid of a w x h cell map, center in the middle.
func (c *canvas) toMicro(p geom.LatLng, w, h int) (int, int) {
	s := c.scale()
	cx, cy := worldXY(c.center)
	px, py := worldXY(p)
	mx := int(math.Floor((px-cx)*s)) + w
	my := int(math.Floor((py-cy)*s)) + h*2
	return mx, my
}

// cellToLatLng converts a map cell back to a coordinate (cell center).
func (c *canvas) cellToLatLng(cellX, cellY, w, h int) geom.LatLng {
	s := c.scale()
	cx, cy := worldXY(c.center)
	mx := float64(cellX*2+1) - float64(w)
	my := float64(cellY*4+2) - float64(h*2)
	return fromWorld(cx+mx/s, cy+my/s)
}

// pan moves the view center by micro-pixels.
func (c *canvas) pan(dxMic, dyMic float64) {
	s := c.scale()
	cx, cy := worldXY(c.center)
	c.center = fromWorld(cx+dxMic/s, clamp(cy+dyMic/s, 0, 1))
}

func (c *canvas) zoomBy(delta float64) {
	c.zoom = clamp(c.zoom+delta, minZoom, maxZoom)
}

// metersPerPixel is the ground size of one micro-pixel at the view center.
func (c *canvas) metersPerPixel() float64 {
	return math.Cos(c.center.Lat*math.Pi/180) * 2 * math.Pi * geom.EarthRadius / c.scale()
}

// points lists every coordinate on the canvas.
func (c *canvas) points() []geom.LatLng {
	var pts []geom.LatLng
	for _, m := range c.markers {
		pts = append(pts, m.Position)
	}
	for _, p := range c.polylines {
		pts = append(pts, p.Path...)
	}
	return pts
}

// fit centers the view on the bbox of everything drawn and picks the largest zoom that
// shows all of it on a w x h cell map. It returns false when the canvas is empty.
func (c *canvas) fit(w, h int) bool {
	bb, ok := geom.Bounds(c.points())
	if !ok {
		return false
	}
	x0, y0 := worldXY(geom.LatLng{Lat: bb.MaxY, Lng: bb.MinX})
	x1, y1 := worldXY(geom.LatLng{Lat: bb.MinY, Lng: bb.MaxX})
	c.center = fromWorld((x0+x1)/2, (y0+y1)/2)

	// leave a one-cell margin on every side
	wMic, hMic := float64(max(1, w-2)*2), float64(max(1, h-2)*4)
	z := maxZoom
	if dx, dy := x1-x0, y1-y0; dx > 0 || dy > 0 {
		s := math.Inf(1)
		if dx > 0 {
			s = wMic / dx
		}
		if dy > 0 {
			s = math.Min(s, hMic/dy)
		}
		z = math.Floor(math.Log2(s / tileSize))
	}
	c.zoom = clamp(z, minZoom, maxZoom)
	return true
}
