// Package http exposes the geocoding service over HTTP: per-version lookup
// routes plus health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AdamsLee/baidu-geocode/internal/adapter/baidu"
	"github.com/AdamsLee/baidu-geocode/internal/domain"
	"github.com/AdamsLee/baidu-geocode/internal/observability"
)

// Server routes lookup requests to the configured version adapters.
type Server struct {
	httpServer *http.Server
	geocoders  map[string]domain.Geocoder // keyed by "v1"/"v2"
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with lookup routes for each configured
// version plus /healthz, /readyz, and /metrics.
func NewServer(addr string, geocoders map[string]domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		geocoders: geocoders,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("GET /v1/geocode", s.handleGeocode("v1"))
	mux.HandleFunc("GET /v1/reverse", s.handleReverse("v1"))
	mux.HandleFunc("GET /v2/geocode", s.handleGeocode("v2"))
	mux.HandleFunc("GET /v2/reverse", s.handleReverse("v2"))
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleGeocode(version string) http.HandlerFunc {
	route := "/" + version + "/geocode"
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.geocoders[version]
		if !ok {
			s.writeError(w, route, http.StatusServiceUnavailable, version+" geocoder is not configured")
			return
		}

		query := r.URL.Query().Get("q")
		if query == "" {
			s.writeError(w, route, http.StatusBadRequest, "missing q parameter")
			return
		}

		loc, err := g.Geocode(r.Context(), query, &domain.GeocodeOptions{
			City: r.URL.Query().Get("city"),
		})
		s.writeLookup(w, route, loc, err)
	}
}

func (s *Server) handleReverse(version string) http.HandlerFunc {
	route := "/" + version + "/reverse"
	return func(w http.ResponseWriter, r *http.Request) {
		g, ok := s.geocoders[version]
		if !ok {
			s.writeError(w, route, http.StatusServiceUnavailable, version+" geocoder is not configured")
			return
		}

		lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if err != nil {
			s.writeError(w, route, http.StatusBadRequest, "invalid lat parameter")
			return
		}
		lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
		if err != nil {
			s.writeError(w, route, http.StatusBadRequest, "invalid lng parameter")
			return
		}

		loc, err := g.Reverse(r.Context(), domain.Point{Lat: lat, Lng: lng}, &domain.ReverseOptions{
			CoordType: r.URL.Query().Get("coordtype"),
		})
		s.writeLookup(w, route, loc, err)
	}
}

// writeLookup maps a lookup outcome onto the response: provider rejection →
// 422, transport failure → 502, legitimate no-match → 404, result → 200.
func (s *Server) writeLookup(w http.ResponseWriter, route string, loc *domain.Location, err error) {
	if err != nil {
		var qerr *baidu.QueryError
		if errors.As(err, &qerr) {
			s.writeError(w, route, http.StatusUnprocessableEntity, qerr.Message)
			return
		}
		s.logger.Error("lookup failed", "route", route, "error", err)
		s.writeError(w, route, http.StatusBadGateway, "upstream request failed")
		return
	}
	if loc == nil {
		s.writeError(w, route, http.StatusNotFound, "no results")
		return
	}

	resp := locationResponse{Label: loc.Label, Raw: loc.Raw}
	if loc.Point != nil {
		resp.Lat = &loc.Point.Lat
		resp.Lng = &loc.Point.Lng
	}
	s.writeJSON(w, route, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, "/healthz", http.StatusOK, map[string]string{"status": "healthy"})
}

// handleReady reports ready once at least one version adapter is configured.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if len(s.geocoders) == 0 {
		s.writeJSON(w, "/readyz", http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "no geocoder versions configured",
		})
		return
	}
	s.writeJSON(w, "/readyz", http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) writeError(w http.ResponseWriter, route string, status int, msg string) {
	s.writeJSON(w, route, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, route string, status int, v any) {
	s.metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response body
}

type locationResponse struct {
	Label string          `json:"label"`
	Lat   *float64        `json:"lat,omitempty"`
	Lng   *float64        `json:"lng,omitempty"`
	Raw   json.RawMessage `json:"raw,omitempty"`
}
