package baidu

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/AdamsLee/baidu-geocode/internal/domain"
)

// V1 implements domain.Geocoder against the legacy Baidu geocoding API.
// Documentation at http://developer.baidu.com/map/webservice-geocoding.htm.
type V1 struct {
	key    string
	api    string
	client *client
}

var _ domain.Geocoder = (*V1)(nil)

// NewV1 creates a legacy API adapter authenticating with the given key.
func NewV1(key string, opts Options) (*V1, error) {
	c, err := newClient(opts)
	if err != nil {
		return nil, err
	}
	return &V1{
		key:    key,
		api:    c.scheme + "://api.map.baidu.com/geocoder",
		client: c,
	}, nil
}

// Geocode converts an address to a location.
func (g *V1) Geocode(ctx context.Context, query string, opts *domain.GeocodeOptions) (*domain.Location, error) {
	if opts == nil {
		opts = &domain.GeocodeOptions{}
	}
	params := url.Values{
		"address": {g.client.formatQuery(query)},
		"output":  {outputJSON},
		"key":     {g.key},
	}
	if opts.City != "" {
		params.Set("city", opts.City)
	}
	return g.call(ctx, params, "geocode", opts.Timeout)
}

// Reverse converts a point-like value to the closest address.
func (g *V1) Reverse(ctx context.Context, point any, opts *domain.ReverseOptions) (*domain.Location, error) {
	if opts == nil {
		opts = &domain.ReverseOptions{}
	}
	location, err := domain.FormatPoint(point)
	if err != nil {
		return nil, err
	}
	params := url.Values{
		"location": {location},
		"output":   {outputJSON},
		"key":      {g.key},
	}
	return g.call(ctx, params, "reverse", opts.Timeout)
}

func (g *V1) call(ctx context.Context, params url.Values, method string, timeout time.Duration) (*domain.Location, error) {
	body, err := g.client.get(ctx, g.api+"?"+params.Encode(), "v1", method, timeout)
	if err != nil {
		g.client.metrics.GeocodeRequests.WithLabelValues("v1", method, "error").Inc()
		return nil, err
	}

	loc, err := parseV1(body)
	g.client.metrics.GeocodeRequests.WithLabelValues("v1", method, outcomeOf(loc, err)).Inc()
	return loc, err
}

// parseV1 extracts a location from the legacy response shape:
// {status, result: {formatted_address, location: {lat, lng}}}. An empty
// result collection triggers status validation; zero or null coordinate
// axes make the point absent.
func parseV1(body []byte) (*domain.Location, error) {
	var resp v1Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if emptyResult(resp.Result) {
		if err := checkStatus(resp.Status, v1StatusOK, v1StatusMessages); err != nil {
			return nil, err
		}
		return nil, nil
	}

	var res v1Result
	if err := json.Unmarshal(resp.Result, &res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}

	loc := &domain.Location{
		Label: res.FormattedAddress,
		Raw:   resp.Result,
	}
	if res.Location.Lat != 0 && res.Location.Lng != 0 {
		loc.Point = &domain.Point{Lat: res.Location.Lat, Lng: res.Location.Lng}
	}
	return loc, nil
}

func outcomeOf(loc *domain.Location, err error) string {
	switch {
	case err != nil:
		return "error"
	case loc == nil:
		return "empty"
	default:
		return "success"
	}
}

// Legacy API response types. The result field is a single object on a
// match but an empty list on no match, so it stays raw until inspected.

type v1Response struct {
	Status json.RawMessage `json:"status"`
	Result json.RawMessage `json:"result"`
}

type v1Result struct {
	FormattedAddress string `json:"formatted_address"`
	Location         struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
}
