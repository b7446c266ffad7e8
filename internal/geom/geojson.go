package geom

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/samber/lo"
)

func toOrb(p LatLng) orb.Point { return orb.Point{p.Lng, p.Lat} }

// PointFeature builds a GeoJSON Point feature.
func PointFeature(p LatLng, props map[string]any) *geojson.Feature {
	f := geojson.NewFeature(toOrb(p))
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// LineFeature builds a GeoJSON LineString feature. GeoJSON coordinates are [lng, lat].
func LineFeature(path []LatLng, props map[string]any) *geojson.Feature {
	ls := orb.LineString(lo.Map(path, func(p LatLng, _ int) orb.Point { return toOrb(p) }))
	f := geojson.NewFeature(ls)
	for k, v := range props {
		f.Properties[k] = v
	}
	return f
}

// EncodeFeatures marshals features as a FeatureCollection.
func EncodeFeatures(features []*geojson.Feature) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, f := range features {
		fc.Append(f)
	}
	return fc.MarshalJSON()
}

// WriteGeoJSON writes features as a FeatureCollection file.
func WriteGeoJSON(path string, features []*geojson.Feature) error {
	data, err := EncodeFeatures(features)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
