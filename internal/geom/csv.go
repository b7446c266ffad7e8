package geom

import (
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
)

// ReadAddressesCSV reads a CSV with latitude/longitude columns and returns addresses in row order.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
// Rows that do not parse are skipped, which shifts the index of every later address.
func ReadAddressesCSV(rd io.Reader) ([]Address, error) {
	r := csv.NewReader(rd)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxLat, idxLng := -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLng == -1 {
				idxLng = i
			}
		}
	}
	if idxLat == -1 || idxLng == -1 {
		return nil, errors.New("csv: latitude/longitude columns not found")
	}
	var addrs []Address
	for _, row := range recs[1:] {
		if idxLng >= len(row) || idxLat >= len(row) {
			continue
		}
		lng, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLng]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		addrs = append(addrs, Address{Lat: lat, Lng: lng})
	}
	if len(addrs) == 0 {
		return nil, errors.New("csv: no valid addresses parsed")
	}
	return addrs, nil
}
