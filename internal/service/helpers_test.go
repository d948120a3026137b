package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-bookshelf/internal/model"
	"go-bookshelf/internal/repository"
	"go-bookshelf/internal/security"
	"go-bookshelf/pkg/apierror"
)

type testClock struct {
	mu      sync.Mutex
	current time.Time
}

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
}

type authFixture struct {
	service *AuthService
	users   *repository.MemoryUserRepository
	clock   *testClock
}

func newAuthFixture(t *testing.T, opts ...AuthOption) authFixture {
	t.Helper()

	clock := newTestClock()
	users := repository.NewMemoryUserRepository()
	svc := newAuthServiceWithStore(t, users, clock, opts...)

	return authFixture{service: svc, users: users, clock: clock}
}

func newAuthServiceWithStore(t *testing.T, users userStore, clock *testClock, opts ...AuthOption) *AuthService {
	t.Helper()

	hasher, err := security.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	access, err := security.NewTokenIssuer("access-secret", time.Hour, security.WithClock(clock.Now))
	require.NoError(t, err)
	refresh, err := security.NewTokenIssuer("refresh-secret", 7*24*time.Hour, security.WithClock(clock.Now))
	require.NoError(t, err)

	opts = append([]AuthOption{WithClock(clock.Now)}, opts...)
	svc, err := NewAuthService(users, hasher, access, refresh, opts...)
	require.NoError(t, err)

	return svc
}

func requireAPIError(t *testing.T, err error, code string, status int) *apierror.APIError {
	t.Helper()

	require.Error(t, err)
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr), "expected *apierror.APIError, got %T: %v", err, err)
	require.Equal(t, code, apiErr.Code)
	require.Equal(t, status, apiErr.HTTPStatus)

	return apiErr
}

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *mockUserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(model.User), args.Error(1)
}

type mockRevocationStore struct {
	mock.Mock
}

func (m *mockRevocationStore) Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) (bool, error) {
	args := m.Called(ctx, tokenID, userID, expiresAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockRevocationStore) CleanExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// issueFailingIssuer verifies like the wrapped issuer but cannot sign.
type issueFailingIssuer struct {
	*security.TokenIssuer
}

func (i issueFailingIssuer) Issue(string) (string, model.AuthClaims, error) {
	return "", model.AuthClaims{}, errors.New("signing key unavailable")
}
