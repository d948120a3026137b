package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bookshelf/internal/config"
	"go-bookshelf/internal/model"
)

func memoryConfig() *config.Config {
	return &config.Config{
		ServerPort:                "0",
		ServerReadHeaderTimeout:   time.Second,
		RequestTimeout:            5 * time.Second,
		StoreDriver:               config.StoreDriverMemory,
		JWTAccessSecret:           "access",
		JWTRefreshSecret:          "refresh",
		JWTAccessTTL:              time.Hour,
		JWTRefreshTTL:             7 * 24 * time.Hour,
		BcryptCost:                4,
		RefreshRotation:           true,
		RevocationCleanupInterval: time.Minute,
		MetricsEnabled:            true,
	}
}

func TestNewWiresMemoryStore(t *testing.T) {
	application, err := New(context.Background(), memoryConfig())
	require.NoError(t, err)
	t.Cleanup(application.Close)

	h := application.Handler()

	raw, err := json.Marshal(model.RegisterRequest{Name: "A", Email: "a@b.com", Password: "pw12345"})
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(raw)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bookshelf_auth_operations_total")
}

func TestNewRejectsInvalidBcryptCost(t *testing.T) {
	cfg := memoryConfig()
	cfg.BcryptCost = 99

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	application, err := New(context.Background(), memoryConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
