package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "HTTP_ADDR", "STORE_DRIVER", "JWT_EXPIRY", "KITCHEN_AUTO_TICKET", "CORS_ALLOWED_ORIGINS", "WS_HEARTBEAT_INTERVAL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8086", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, int64(3600), cfg.JWTExpirySeconds)
	assert.False(t, cfg.KitchenAutoTicket)
	assert.Nil(t, cfg.CorsAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WSHeartbeatInterval)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("JWT_EXPIRY", "-5")
	t.Setenv("KITCHEN_AUTO_TICKET", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.test, ,https://b.test ")
	t.Setenv("WS_HEARTBEAT_INTERVAL", "not-a-duration")
	t.Setenv("OBJECT_STORE_ENDPOINT", "")
	t.Setenv("S3_ENDPOINT", "minio:9000")

	cfg := Load()
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.UsesMemoryStore())
	assert.Equal(t, int64(3600), cfg.JWTExpirySeconds)
	assert.True(t, cfg.KitchenAutoTicket)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.CorsAllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.WSHeartbeatInterval)
	assert.Equal(t, "minio:9000", cfg.ObjectStore.Endpoint)
}

func TestLoadRestaurant(t *testing.T) {
	profile, err := LoadRestaurant("")
	require.NoError(t, err)
	assert.Equal(t, "Your Restaurant Name", profile.Name)
	assert.True(t, profile.TaxRate.Equal(decimal.RequireFromString("0.1")))

	dir := t.TempDir()
	path := filepath.Join(dir, "restaurant.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Casa Verde\ncurrency: EUR\ntax_rate: 0.07\n"), 0o600))

	profile, err = LoadRestaurant(path)
	require.NoError(t, err)
	assert.Equal(t, "Casa Verde", profile.Name)
	assert.Equal(t, "EUR", profile.Currency)
	assert.Equal(t, "Restaurant Address", profile.Address)
	assert.True(t, profile.TaxRate.Equal(decimal.RequireFromString("0.07")), profile.TaxRate.String())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tax_rate: 1.5\n"), 0o600))
	_, err = LoadRestaurant(bad)
	assert.Error(t, err)

	_, err = LoadRestaurant(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
