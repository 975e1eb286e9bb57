// Package baidu adapts the two incompatible versions of the Baidu Maps
// geocoding web service behind the domain.Geocoder interface. V1 targets the
// legacy endpoint and authenticates with a "key" parameter; V2 targets the
// current endpoint, authenticates with an "ak" parameter, and supports an
// input coordinate system selector on reverse lookups.
package baidu

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/AdamsLee/baidu-geocode/internal/observability"
)

const (
	outputJSON = "json"

	defaultScheme  = "http"
	defaultFormat  = "%s"
	defaultTimeout = 5 * time.Second
)

// Options configure a version adapter. The zero value is usable: http
// scheme, plain "%s" query template, 5s timeout, no proxy.
type Options struct {
	// Scheme is the API URL scheme, "http" or "https".
	Scheme string
	// Format is a template with one %s slot interpolated with the query
	// text before forward geocoding, e.g. "%s, Mountain View, CA".
	Format string
	// Timeout bounds each request unless a call overrides it.
	Timeout time.Duration
	// ProxyURL, when set, routes requests through the given proxy.
	ProxyURL string

	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// client is the HTTP geocoding core shared by both version adapters: request
// transport, per-call timeout handling, query formatting, and request
// tracing. It holds no per-call state.
type client struct {
	httpClient *http.Client
	scheme     string
	format     string
	timeout    time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
}

func newClient(opts Options) (*client, error) {
	scheme := opts.Scheme
	if scheme == "" {
		scheme = defaultScheme
	}
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("baidu: scheme must be http or https, got %q", scheme)
	}

	format := opts.Format
	if format == "" {
		format = defaultFormat
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	metrics := opts.Metrics
	if metrics == nil {
		// Unregistered collectors; observations go nowhere.
		metrics = observability.NewMetricsForTesting()
	}

	var transport http.RoundTripper
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("baidu: invalid proxy URL: %w", err)
		}
		transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	}

	return &client{
		// Timeout is enforced per call via context deadline so a call
		// override can extend past the instance default.
		httpClient: &http.Client{Transport: transport},
		scheme:     scheme,
		format:     format,
		timeout:    timeout,
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// formatQuery applies the configured template to the query text.
func (c *client) formatQuery(query string) string {
	return fmt.Sprintf(c.format, query)
}

// get issues one GET request and returns the raw response body. A positive
// timeout overrides the instance default for this call only. The version and
// method labels feed request tracing and the duration histogram.
func (c *client) get(ctx context.Context, fullURL, version, method string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	c.logger.Debug("baidu request", "version", version, "method", method, "url", fullURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(version, method).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s %s request: %w", version, method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("baidu API error: status %d: %s", resp.StatusCode, body)
	}
	return body, nil
}
