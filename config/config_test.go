package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://api.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://api.test", cfg.Backend.BaseURL)
	assert.Equal(t, "http://api.test", cfg.Backend.AssetBaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ASSET_BASE_URL", "https://cdn.test")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PRODUCT_CACHE_TTL", "30s")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.test", cfg.Backend.AssetBaseURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Redis.ProductCacheTTL)
	assert.True(t, cfg.Session.CookieSecure)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("BACKEND_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}
