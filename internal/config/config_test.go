package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_ACCESS_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv("DATABASE_URL", "postgres://localhost/bookshelf")
}

// loadIsolated loads from a non-existent env file so a developer's .env never
// leaks into the test.
func loadIsolated(t *testing.T) (*Config, error) {
	t.Helper()
	return Load(filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTRefreshTTL)
	assert.Equal(t, 24*time.Hour, cfg.AccessCookieMaxAge)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshCookieMaxAge)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.RefreshRotation)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "lax", cfg.CookieSameSite)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "15m")
	t.Setenv("REFRESH_ROTATION", "true")
	t.Setenv("COOKIE_SECURE", "1")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("STORE_DRIVER", "MEMORY")

	cfg, err := loadIsolated(t)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTTL)
	assert.True(t, cfg.RefreshRotation)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_ACCESS_TTL", "soon")
	t.Setenv("REFRESH_ROTATION", "maybe")

	cfg, err := loadIsolated(t)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.JWTAccessTTL)
	assert.False(t, cfg.RefreshRotation)
}

func TestLoadReadsEnvFile(t *testing.T) {
	// godotenv never overrides a variable that is already set, even to "".
	for _, key := range []string{"JWT_ACCESS_SECRET", "JWT_REFRESH_SECRET", "STORE_DRIVER"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_ACCESS_SECRET=from-file-a\nJWT_REFRESH_SECRET=from-file-r\nSTORE_DRIVER=memory\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file-a", cfg.JWTAccessSecret)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
}

func TestValidateFailsFast(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		errMsg string
	}{
		{name: "missing access secret", env: map[string]string{"JWT_ACCESS_SECRET": ""}, errMsg: "JWT_ACCESS_SECRET is required"},
		{name: "missing refresh secret", env: map[string]string{"JWT_REFRESH_SECRET": ""}, errMsg: "JWT_REFRESH_SECRET is required"},
		{name: "identical secrets", env: map[string]string{"JWT_REFRESH_SECRET": "access"}, errMsg: "must differ"},
		{name: "missing database url", env: map[string]string{"DATABASE_URL": ""}, errMsg: "DATABASE_URL is required"},
		{name: "unknown store driver", env: map[string]string{"STORE_DRIVER": "sqlite"}, errMsg: "STORE_DRIVER must be"},
		{name: "bcrypt cost too high", env: map[string]string{"BCRYPT_COST": "40"}, errMsg: "BCRYPT_COST"},
		{name: "samesite none without secure", env: map[string]string{"COOKIE_SAMESITE": "None"}, errMsg: "COOKIE_SAMESITE=none requires COOKIE_SECURE"},
		{name: "unknown samesite", env: map[string]string{"COOKIE_SAMESITE": "loose"}, errMsg: "COOKIE_SAMESITE must be"},
		{name: "min conns above max", env: map[string]string{"DB_MIN_CONNS": "5", "DB_MAX_CONNS": "2"}, errMsg: "DB_MIN_CONNS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := loadIsolated(t)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestMemoryDriverDoesNotNeedDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := loadIsolated(t)
	require.NoError(t, err)
}

func TestCrossSiteCookiesWithSecure(t *testing.T) {
	setRequired(t)
	t.Setenv("COOKIE_SAMESITE", "none")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := loadIsolated(t)
	require.NoError(t, err)
	assert.Equal(t, "none", cfg.CookieSameSite)
}
