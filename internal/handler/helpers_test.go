package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-bookshelf/internal/middleware"
	"go-bookshelf/internal/model"
	"go-bookshelf/internal/repository"
	"go-bookshelf/internal/security"
	"go-bookshelf/internal/service"
	"go-bookshelf/internal/session"
)

type testServer struct {
	router  http.Handler
	users   *repository.MemoryUserRepository
	auth    *service.AuthService
	now     time.Time
	advance func(time.Duration)
}

func newTestServer(t *testing.T, opts ...service.AuthOption) *testServer {
	t.Helper()

	ts := &testServer{now: time.Now().UTC()}
	clock := func() time.Time { return ts.now }
	ts.advance = func(d time.Duration) { ts.now = ts.now.Add(d) }

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	access, err := security.NewTokenIssuer("access-secret", time.Hour, security.WithClock(clock))
	require.NoError(t, err)
	refresh, err := security.NewTokenIssuer("refresh-secret", 7*24*time.Hour, security.WithClock(clock))
	require.NoError(t, err)

	ts.users = repository.NewMemoryUserRepository()
	ts.auth, err = service.NewAuthService(ts.users, hasher, access, refresh, opts...)
	require.NoError(t, err)

	cookies := session.NewCookieManager(session.CookieOptions{})
	authHandler := NewAuthHandler(ts.auth, cookies)
	bookHandler := NewBookHandler(service.NewBookService(repository.NewMemoryBookRepository()))
	guard := middleware.NewAuthMiddleware(ts.auth, cookies)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/user", authHandler.Authenticate)
		r.Post("/refresh", authHandler.Refresh)
		r.Get("/logout", authHandler.Logout)
		r.Post("/logout", authHandler.Logout)
	})
	r.Route("/books", func(r chi.Router) {
		r.Get("/", bookHandler.List)
		r.Get("/{id}", bookHandler.Get)
		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			r.Post("/", bookHandler.Create)
			r.Put("/{id}", bookHandler.Update)
			r.Delete("/{id}", bookHandler.Delete)
		})
	})
	ts.router = r

	return ts
}

func (ts *testServer) do(t *testing.T, method string, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch v := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(v))
	default:
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

// login registers name/email/password and returns the cookies set by login.
func (ts *testServer) login(t *testing.T, email string, password string) []*http.Cookie {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/auth/register", model.RegisterRequest{Name: "Reader", Email: email, Password: password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = ts.do(t, http.MethodPost, "/auth/login", model.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return rec.Result().Cookies()
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body model.MessageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Message
}
