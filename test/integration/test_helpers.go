//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-bookshelf/internal/app"
	"go-bookshelf/internal/config"
	"go-bookshelf/internal/model"
)

// newServer boots the fully wired application. It runs against PostgreSQL
// when BOOKSHELF_TEST_DATABASE_URL is set and the in-memory store otherwise.
func newServer(t *testing.T, mutate ...func(*config.Config)) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:                "0",
		RequestTimeout:            10 * time.Second,
		StoreDriver:               config.StoreDriverMemory,
		DBMaxConns:                4,
		JWTAccessSecret:           "integration-access-secret",
		JWTRefreshSecret:          "integration-refresh-secret",
		JWTAccessTTL:              time.Hour,
		JWTRefreshTTL:             7 * 24 * time.Hour,
		BcryptCost:                4,
		AccessCookieMaxAge:        24 * time.Hour,
		RefreshCookieMaxAge:       7 * 24 * time.Hour,
		RevocationCleanupInterval: time.Minute,
	}
	if url := os.Getenv("BOOKSHELF_TEST_DATABASE_URL"); url != "" {
		cfg.StoreDriver = config.StoreDriverPostgres
		cfg.DatabaseURL = url
	}
	for _, fn := range mutate {
		fn(cfg)
	}

	application, err := app.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(application.Close)

	server := httptest.NewServer(application.Handler())
	t.Cleanup(server.Close)
	return server
}

// newClient returns a client with its own cookie jar, i.e. one browser.
func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

// uniqueEmail keeps tests independent when they share a database.
func uniqueEmail() string {
	return uuid.NewString()[:8] + "@example.com"
}

func doJSON(t *testing.T, client *http.Client, method string, url string, body any) *http.Response {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func registerAndLogin(t *testing.T, client *http.Client, baseURL string, email string, password string) {
	t.Helper()

	resp := doJSON(t, client, http.MethodPost, baseURL+"/auth/register", model.RegisterRequest{Name: "Reader", Email: email, Password: password})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, client, http.MethodPost, baseURL+"/auth/login", model.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
