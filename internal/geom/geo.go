package geom

import "math"

// EarthRadius is the mean earth radius in metres used for route distances.
const EarthRadius = 6371000.0

func radians(d float64) float64 { return d * math.Pi / 180.0 }

func degrees(r float64) float64 { return r * 180.0 / math.Pi }

// centralAngle returns the great-circle angle between two coordinates (haversine).
func centralAngle(p1, p2 LatLng) float64 {
	lat1, lon1 := radians(p1.Lat), radians(p1.Lng)
	lat2, lon2 := radians(p2.Lat), radians(p2.Lng)
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Haversine returns the great-circle distance in metres.
func Haversine(p1, p2 LatLng) float64 {
	return EarthRadius * centralAngle(p1, p2)
}

// PathLength sums the haversine length of consecutive segments.
func PathLength(path []LatLng) float64 {
	total := 0.0
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1], path[i])
	}
	return total
}

// Geodesic interpolates n segments along the great circle from a to b.
// The result holds n+1 points and always starts at a and ends at b.
func Geodesic(a, b LatLng, n int) []LatLng {
	if n < 1 {
		n = 1
	}
	d := centralAngle(a, b)
	if d == 0 || n == 1 {
		return []LatLng{a, b}
	}
	lat1, lon1 := radians(a.Lat), radians(a.Lng)
	lat2, lon2 := radians(b.Lat), radians(b.Lng)
	sinD := math.Sin(d)
	out := make([]LatLng, 0, n+1)
	out = append(out, a)
	for i := 1; i < n; i++ {
		f := float64(i) / float64(n)
		ka := math.Sin((1-f)*d) / sinD
		kb := math.Sin(f*d) / sinD
		x := ka*math.Cos(lat1)*math.Cos(lon1) + kb*math.Cos(lat2)*math.Cos(lon2)
		y := ka*math.Cos(lat1)*math.Sin(lon1) + kb*math.Cos(lat2)*math.Sin(lon2)
		z := ka*math.Sin(lat1) + kb*math.Sin(lat2)
		out = append(out, LatLng{
			Lat: degrees(math.Atan2(z, math.Sqrt(x*x+y*y))),
			Lng: degrees(math.Atan2(y, x)),
		})
	}
	return append(out, b)
}

// GeodesicPath densifies every segment of path so that no piece is longer than step metres.
func GeodesicPath(path []LatLng, step float64) []LatLng {
	if len(path) < 2 || step <= 0 {
		return path
	}
	out := []LatLng{path[0]}
	for i := 1; i < len(path); i++ {
		n := int(math.Ceil(Haversine(path[i-1], path[i]) / step))
		if n > 256 {
			n = 256
		}
		seg := Geodesic(path[i-1], path[i], n)
		out = append(out, seg[1:]...)
	}
	return out
}
