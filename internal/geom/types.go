package geom

type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Extend grows the box to include lng/lat. A zero box is seeded by the first point when empty is true.
func (b BBox) Extend(lng, lat float64, empty bool) BBox {
	if empty {
		return BBox{MinX: lng, MinY: lat, MaxX: lng, MaxY: lat}
	}
	if lng < b.MinX {
		b.MinX = lng
	}
	if lat < b.MinY {
		b.MinY = lat
	}
	if lng > b.MaxX {
		b.MaxX = lng
	}
	if lat > b.MaxY {
		b.MaxY = lat
	}
	return b
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Address is a geocoded stop. It has no identifier of its own: routes refer to it by its
// position in the address list it was fetched with.
type Address struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (a Address) LatLng() LatLng { return LatLng{Lat: a.Lat, Lng: a.Lng} }

// AddressBook is the document shape served by /get_addresses and stored in addresses.yaml.
type AddressBook struct {
	Addresses []Address `json:"addresses" yaml:"addresses"`
}

// Bounds returns the bbox of a coordinate list and false when the list is empty.
func Bounds(pts []LatLng) (BBox, bool) {
	var bb BBox
	for i, p := range pts {
		bb = bb.Extend(p.Lng, p.Lat, i == 0)
	}
	return bb, len(pts) > 0
}
