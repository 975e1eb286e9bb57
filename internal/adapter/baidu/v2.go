package baidu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/AdamsLee/baidu-geocode/internal/domain"
)

// DefaultCoordType is the input coordinate system the V2 API assumes for
// reverse lookups when a call does not select one.
const DefaultCoordType = "bd09ll"

// V2 implements domain.Geocoder against the current Baidu geocoding API.
// It differs from V1 in its credential parameter (ak), its versioned
// endpoint path, its list-valued response root, and its purely numeric
// status code space.
type V2 struct {
	ak     string
	api    string
	client *client
}

var _ domain.Geocoder = (*V2)(nil)

// NewV2 creates a current API adapter authenticating with the given ak.
func NewV2(ak string, opts Options) (*V2, error) {
	c, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return &V2{
		ak:     ak,
		api:    c.scheme + "://api.map.baidu.com/geocoder/v2/",
		client: c,
	}, nil
}

// Geocode converts an address to a location.
func (g *V2) Geocode(ctx context.Context, query string, opts *domain.GeocodeOptions) (*domain.Location, error) {
	if opts == nil {
		opts = &domain.GeocodeOptions{}
	}
	params := url.Values{
		"address": {g.client.formatQuery(query)},
		"output":  {outputJSON},
		"ak":      {g.ak},
	}
	if opts.City != "" {
		params.Set("city", opts.City)
	}
	return g.call(ctx, params, "geocode", opts.Timeout)
}

// Reverse converts a point-like value to the closest location. The
// coordtype option selects the input coordinate system, bd09ll by default.
func (g *V2) Reverse(ctx context.Context, point any, opts *domain.ReverseOptions) (*domain.Location, error) {
	if opts == nil {
		opts = &domain.ReverseOptions{}
	}
	location, err := domain.FormatPoint(point)
	if err != nil {
		return nil, err
	}
	coordType := opts.CoordType
	if coordType == "" {
		coordType = DefaultCoordType
	}
	params := url.Values{
		"location":  {location},
		"coordtype": {coordType},
		"output":    {outputJSON},
		"ak":        {g.ak},
	}
	return g.call(ctx, params, "reverse", opts.Timeout)
}

func (g *V2) call(ctx context.Context, params url.Values, method string, timeout time.Duration) (*domain.Location, error) {
	body, err := g.client.get(ctx, g.api+"?"+params.Encode(), "v2", method, timeout)
	if err != nil {
		g.client.metrics.GeocodeRequests.WithLabelValues("v2", method, "error").Inc()
		return nil, err
	}

	loc, err := parseV2(body)
	g.client.metrics.GeocodeRequests.WithLabelValues("v2", method, outcomeOf(loc, err)).Inc()
	return loc, err
}

// parseV2 extracts a location from the current response shape:
// {status, results: [{level, location: {lat, lng}}, ...]}. Only the first
// entry is consumed; the API has never been observed to return more. The
// label is the level field, a location-precision descriptor.
func parseV2(body []byte) (*domain.Location, error) {
	var resp v2Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(resp.Results) == 0 {
		if err := checkStatus(resp.Status, v2StatusOK, v2StatusMessages); err != nil {
			return nil, err
		}
		return nil, nil
	}

	first := resp.Results[0]
	var res v2Result
	if err := json.Unmarshal(first, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	loc := &domain.Location{
		Label: res.Level,
		Raw:   first,
	}
	if res.Location.Lat != 0 && res.Location.Lng != 0 {
		loc.Point = &domain.Point{Lat: res.Location.Lat, Lng: res.Location.Lng}
	}
	return loc, nil
}

// Current API response types.

type v2Response struct {
	Status  json.RawMessage   `json:"status"`
	Results []json.RawMessage `json:"results"`
}

type v2Result struct {
	Level    string `json:"level"`
	Location struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}
