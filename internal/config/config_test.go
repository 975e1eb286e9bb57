package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAK = "test-ak-0123456789"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.V1Key)
	assert.Empty(t, cfg.AK)
	assert.False(t, cfg.V1Enabled())
	assert.False(t, cfg.V2Enabled())
	assert.Equal(t, "http", cfg.Scheme)
	assert.Equal(t, "%s", cfg.Format)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.ProxyURL)
	assert.Equal(t, 1000, cfg.CacheSize)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("BAIDU_V1_KEY", "legacy-key")
	t.Setenv("BAIDU_AK", testAK)
	t.Setenv("BAIDU_SCHEME", "https")
	t.Setenv("BAIDU_FORMAT", "%s, Shanghai")
	t.Setenv("BAIDU_TIMEOUT", "2s")
	t.Setenv("BAIDU_PROXY_URL", "http://proxy.internal:3128")
	t.Setenv("GEOCODE_CACHE_SIZE", "250")
	t.Setenv("GEOCODE_CACHE_TTL", "1h")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.V1Key)
	assert.Equal(t, testAK, cfg.AK)
	assert.True(t, cfg.V1Enabled())
	assert.True(t, cfg.V2Enabled())
	assert.Equal(t, "https", cfg.Scheme)
	assert.Equal(t, "%s, Shanghai", cfg.Format)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, "http://proxy.internal:3128", cfg.ProxyURL)
	assert.Equal(t, 250, cfg.CacheSize)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidScheme(t *testing.T) {
	t.Setenv("BAIDU_SCHEME", "ftp")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAIDU_SCHEME")
}

func TestLoad_InvalidTimeout(t *testing.T) {
	t.Setenv("BAIDU_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAIDU_TIMEOUT")
}

func TestLoad_NegativeTimeout(t *testing.T) {
	t.Setenv("BAIDU_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAIDU_TIMEOUT")
}

func TestLoad_FormatWithoutSlot(t *testing.T) {
	t.Setenv("BAIDU_FORMAT", "no slot here")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAIDU_FORMAT")
}

func TestLoad_FormatWithTwoSlots(t *testing.T) {
	t.Setenv("BAIDU_FORMAT", "%s %s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAIDU_FORMAT")
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_CacheTTLZeroDisablesExpiry(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_TTL", "0s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.CacheTTL)
}

func TestLoad_InvalidCacheSizeFallsBack(t *testing.T) {
	t.Setenv("GEOCODE_CACHE_SIZE", "-5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.CacheSize)
}
