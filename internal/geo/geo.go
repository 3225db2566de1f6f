package geo

import (
	"context"
	"errors"
)

// ErrNotFound means the place or coordinate could not be resolved; callers
// treat it as "no usable answer", not as a transport failure.
var ErrNotFound = errors.New("geo: no result")

type LatLng struct {
	Lat float64
	Lng float64
}

// Geocoder turns a free-form place name (a country, here) into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (LatLng, error)
}

// TimezoneLookup maps coordinates to an IANA timezone name.
type TimezoneLookup interface {
	TimezoneAt(ctx context.Context, at LatLng) (string, error)
}
