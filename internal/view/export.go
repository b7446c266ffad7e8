package view

import (
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"

	"routemap/internal/geom"
)

// Features returns the session content as GeoJSON features: markers first, then polylines.
func (s *Session) Features() []*geojson.Feature {
	markers := lo.Map(s.markers, func(m *Marker, _ int) *geojson.Feature {
		return geom.PointFeature(m.Position, map[string]any{
			"id":   m.ID.String(),
			"kind": "marker",
		})
	})
	lines := lo.Map(s.polylines, func(p *Polyline, _ int) *geojson.Feature {
		return geom.LineFeature(p.Path, map[string]any{
			"id":       p.ID.String(),
			"kind":     "polyline",
			"route":    p.RouteKey,
			"color":    p.Color,
			"opacity":  p.Opacity,
			"weight":   p.Weight,
			"geodesic": p.Geodesic,
		})
	})
	return append(markers, lines...)
}

// Export writes the session content to path as a GeoJSON FeatureCollection.
func (s *Session) Export(path string) error {
	return geom.WriteGeoJSON(path, s.Features())
}
