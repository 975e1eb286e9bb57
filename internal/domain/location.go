// Package domain models geocoding lookups against the Baidu Maps web service.
//
// A lookup is a single stateless request/response round trip: an address
// (forward geocoding) or a coordinate pair (reverse geocoding) goes out, a
// normalized Location comes back. The Baidu service exposes two incompatible
// API versions with different credentials, response shapes, and status code
// spaces; both are modeled behind the same Geocoder interface.
package domain

import (
	"context"
	"encoding/json"
	"time"
)

// Point is a coordinate pair in the provider's coordinate reference system
// (bd09ll unless a reverse lookup selects otherwise).
type Point struct {
	Lat float64
	Lng float64
}

// Location is a normalized geocoding result. Point is nil when the provider
// reported a null or zero value for either axis; it is never half-populated.
// Raw retains the provider's result payload for downstream inspection.
type Location struct {
	Label string
	Point *Point
	Raw   json.RawMessage
}

// GeocodeOptions carries per-call settings for forward geocoding.
// Timeout, when positive, overrides the client's default for this call only.
type GeocodeOptions struct {
	City    string
	Timeout time.Duration
}

// ReverseOptions carries per-call settings for reverse geocoding.
// CoordType selects the input coordinate system on API versions that
// support it; empty means the provider default.
type ReverseOptions struct {
	CoordType string
	Timeout   time.Duration
}

// Geocoder resolves addresses to coordinates and back.
//
// Both methods return (nil, nil) when the provider legitimately found
// nothing, and a *baidu.QueryError when the provider rejected the request.
// Transport failures propagate unchanged.
type Geocoder interface {
	// Geocode converts a free-text address to a location.
	Geocode(ctx context.Context, query string, opts *GeocodeOptions) (*Location, error)

	// Reverse converts a point-like value (Point, *Point, [2]float64,
	// []float64, or a "lat,lng" string) to the closest location.
	Reverse(ctx context.Context, point any, opts *ReverseOptions) (*Location, error)
}
