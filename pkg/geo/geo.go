package geo

import (
	"context"
	"errors"
)

// Coordinates is a geocoded point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ErrNotFound is returned when an address resolves to no location.
var ErrNotFound = errors.New("no location for address")

// Geocoder is a minimal abstraction over address lookup services used by
// the domain. It intentionally hides concrete providers to preserve
// dependency direction.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (Coordinates, error)
}
