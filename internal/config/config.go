package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	// Baidu API credentials. A version adapter is enabled iff its
	// credential is set.
	V1Key string // legacy API "key" parameter
	AK    string // current API "ak" parameter

	// Shared geocoding client settings.
	Scheme   string // http or https
	Format   string // template with one %s slot applied to forward queries
	Timeout  time.Duration
	ProxyURL string // optional; routes Baidu requests through a proxy

	// Cache decorator settings.
	CacheSize int
	CacheTTL  time.Duration // 0 disables expiry

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// V1Enabled reports whether the legacy API adapter is configured.
func (c *Config) V1Enabled() bool { return c.V1Key != "" }

// V2Enabled reports whether the current API adapter is configured.
func (c *Config) V2Enabled() bool { return c.AK != "" }

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	timeout, err := parseDuration("BAIDU_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseCacheTTL()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		V1Key:           os.Getenv("BAIDU_V1_KEY"),
		AK:              os.Getenv("BAIDU_AK"),
		Scheme:          envOrDefault("BAIDU_SCHEME", "http"),
		Format:          envOrDefault("BAIDU_FORMAT", "%s"),
		Timeout:         timeout,
		ProxyURL:        os.Getenv("BAIDU_PROXY_URL"),
		CacheSize:       parseCacheSize(),
		CacheTTL:        cacheTTL,
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.Scheme != "http" && cfg.Scheme != "https" {
		return nil, fmt.Errorf("BAIDU_SCHEME must be http or https, got %q", cfg.Scheme)
	}
	if strings.Count(cfg.Format, "%s") != 1 {
		return nil, errors.New("BAIDU_FORMAT must contain exactly one %s slot")
	}
	if cfg.ProxyURL != "" {
		if _, err := url.Parse(cfg.ProxyURL); err != nil {
			return nil, fmt.Errorf("invalid BAIDU_PROXY_URL: %w", err)
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() int {
	if s := os.Getenv("GEOCODE_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// parseCacheTTL allows 0 to disable expiry, unlike the other durations.
func parseCacheTTL() (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault("GEOCODE_CACHE_TTL", "24h"))
	if err != nil || d < 0 {
		return 0, errors.New("invalid GEOCODE_CACHE_TTL")
	}
	return d, nil
}
