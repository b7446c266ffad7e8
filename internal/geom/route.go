package geom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("address index out of range")

// Route is an ordered traversal of addresses, expressed as indices into an address list.
type Route struct {
	Key   string
	Stops []int
}

// RouteSet is the route mapping served by /get_routes. Its order is the order of the keys in
// the JSON object and is significant: colours are assigned by position.
type RouteSet []Route

// Set replaces the stops of key in place, or appends a new route.
func (rs RouteSet) Set(key string, stops []int) RouteSet {
	for i := range rs {
		if rs[i].Key == key {
			rs[i].Stops = stops
			return rs
		}
	}
	return append(rs, Route{Key: key, Stops: stops})
}

// Get returns the stops for key.
func (rs RouteSet) Get(key string) ([]int, bool) {
	for _, r := range rs {
		if r.Key == key {
			return r.Stops, true
		}
	}
	return nil, false
}

func (rs RouteSet) Keys() []string {
	keys := make([]string, len(rs))
	for i, r := range rs {
		keys[i] = r.Key
	}
	return keys
}

func (rs RouteSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(r.Key)
		if err != nil {
			return nil, err
		}
		stops := r.Stops
		if stops == nil {
			stops = []int{}
		}
		v, err := json.Marshal(stops)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object token by token so the key order of the body survives.
func (rs *RouteSet) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("routes: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("routes: expected object, got %v", tok)
	}
	out := RouteSet{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("routes: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("routes: unexpected key token %v", tok)
		}
		var stops []int
		if err := dec.Decode(&stops); err != nil {
			return fmt.Errorf("routes: route %q: %w", key, err)
		}
		out = out.Set(key, stops)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("routes: %w", err)
	}
	*rs = out
	return nil
}

// ResolvePath maps each stop index to the coordinate of the address at that position.
// The lookup is positional only; an index outside the list fails the whole path.
func ResolvePath(addrs []Address, stops []int) ([]LatLng, error) {
	path := make([]LatLng, 0, len(stops))
	for _, idx := range stops {
		if idx < 0 || idx >= len(addrs) {
			return nil, fmt.Errorf("%w: index %d, %d addresses", ErrIndexOutOfRange, idx, len(addrs))
		}
		path = append(path, addrs[idx].LatLng())
	}
	return path, nil
}
