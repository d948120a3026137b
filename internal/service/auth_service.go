package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-bookshelf/internal/event"
	"go-bookshelf/internal/metrics"
	"go-bookshelf/internal/model"
)

type userStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, hash string) bool
}

type tokenIssuer interface {
	Issue(subject string) (string, model.AuthClaims, error)
	Verify(token string) (model.AuthClaims, error)
}

type revocationStore interface {
	Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) (bool, error)
	CleanExpired(ctx context.Context) (int64, error)
}

// AuthService implements register, login, authenticate, refresh and logout.
// It holds no per-session state: tokens are verified by signature and expiry
// only, unless refresh rotation is enabled.
type AuthService struct {
	users       userStore
	hasher      passwordHasher
	access      tokenIssuer
	refresh     tokenIssuer
	revocations revocationStore
	events      event.Publisher
	now         func() time.Time
}

type AuthOption func(*AuthService)

// WithRefreshRotation makes every refresh token single-use: Refresh revokes the
// presented token and issues a new one, and Logout revokes it.
func WithRefreshRotation(store revocationStore) AuthOption {
	return func(s *AuthService) {
		s.revocations = store
	}
}

// WithAuthEvents publishes an audit event for registrations, logins, refreshes
// and logouts.
func WithAuthEvents(p event.Publisher) AuthOption {
	return func(s *AuthService) {
		s.events = p
	}
}

func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) {
		s.now = now
	}
}

func NewAuthService(users userStore, hasher passwordHasher, access tokenIssuer, refresh tokenIssuer, opts ...AuthOption) (*AuthService, error) {
	if users == nil || hasher == nil || access == nil || refresh == nil {
		return nil, errors.New("auth service requires a user store, hasher and both token issuers")
	}

	s := &AuthService{
		users:   users,
		hasher:  hasher,
		access:  access,
		refresh: refresh,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func (s *AuthService) RotatesRefreshTokens() bool {
	return s.revocations != nil
}

// Register stores a new user with a hashed password. Name and email are
// trimmed; the password is hashed exactly as given.
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (user model.User, err error) {
	defer func() { metrics.RecordAuthOperation("register", outcomeFor(err)) }()

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return model.User{}, errMissingFields()
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		slog.Error("password hashing failed", "error", err)
		return model.User{}, errInternal().Wrap(err)
	}

	created, err := s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, model.ErrDuplicateEmail) {
		return model.User{}, errDuplicateUser()
	}
	if err != nil {
		slog.Error("user registration failed", "error", err)
		return model.User{}, errInternal().Wrap(err)
	}

	slog.Info("user registered", "user_id", created.ID)
	publish(s.events, event.TypeUserRegistered, created.ID, nil)
	return created, nil
}

// Login verifies credentials and issues an access/refresh token pair. Unknown
// email and wrong password produce the same error after the same amount of
// bcrypt work.
func (s *AuthService) Login(ctx context.Context, email string, password string) (session model.Session, err error) {
	defer func() { metrics.RecordAuthOperation("login", outcomeFor(err)) }()

	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return model.Session{}, errMissingFields()
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrUserNotFound) {
		slog.Error("credential lookup failed", "error", err)
		return model.Session{}, errInternal().Wrap(err)
	}

	// user.PasswordHash is empty for an unknown email; Verify still does the work.
	if !s.hasher.Verify(password, user.PasswordHash) {
		publish(s.events, event.TypeLoginFailed, user.ID, map[string]string{"email": email})
		return model.Session{}, errInvalidCredentials().Wrap(model.ErrInvalidCredentials)
	}

	accessToken, _, err := s.access.Issue(user.ID)
	if err != nil {
		return model.Session{}, errInternal().Wrap(err)
	}
	refreshToken, _, err := s.refresh.Issue(user.ID)
	if err != nil {
		return model.Session{}, errInternal().Wrap(err)
	}

	slog.Debug("user logged in", "user_id", user.ID)
	publish(s.events, event.TypeLoginSucceeded, user.ID, nil)
	return model.Session{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Authenticate resolves the user behind an access token with a fresh store
// lookup. A missing, invalid or expired token and a deleted user all fail the
// same way.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (user model.User, err error) {
	defer func() { metrics.RecordAuthOperation("authenticate", outcomeFor(err)) }()

	if accessToken == "" {
		return model.User{}, errUnauthorized()
	}

	claims, err := s.access.Verify(accessToken)
	if err != nil {
		slog.Debug("access token rejected", "error", err)
		return model.User{}, errUnauthorized().Wrap(err)
	}

	user, err = s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, errUnauthorized().Wrap(err)
	}
	if err != nil {
		slog.Error("user lookup failed", "user_id", claims.UserID, "error", err)
		return model.User{}, errInternal().Wrap(err)
	}

	return user, nil
}

// ValidateAccessToken verifies an access token without touching the store.
// It backs the request guard.
func (s *AuthService) ValidateAccessToken(accessToken string) (*model.AuthClaims, error) {
	if accessToken == "" {
		return nil, errUnauthorized()
	}

	claims, err := s.access.Verify(accessToken)
	if err != nil {
		return nil, errUnauthorized().Wrap(err)
	}
	return &claims, nil
}

// Refresh mints a new access token from a valid refresh token. Without
// rotation the refresh token stays usable until it expires and the returned
// session has no RefreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (session model.Session, err error) {
	defer func() { metrics.RecordAuthOperation("refresh", outcomeFor(err)) }()

	if refreshToken == "" {
		return model.Session{}, errUnauthorized()
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		slog.Debug("refresh token rejected", "error", err)
		return model.Session{}, errUnauthorized().Wrap(err)
	}

	accessToken, _, err := s.access.Issue(claims.UserID)
	if err != nil {
		return model.Session{}, errInternal().Wrap(err)
	}
	session = model.Session{AccessToken: accessToken}

	if s.revocations != nil {
		// Sign the replacement before burning the presented token.
		session.RefreshToken, _, err = s.refresh.Issue(claims.UserID)
		if err != nil {
			return model.Session{}, errInternal().Wrap(err)
		}

		revoked, err := s.revocations.Revoke(ctx, claims.TokenID, claims.UserID, claims.ExpiresAt)
		if err != nil {
			slog.Error("refresh token revocation failed", "user_id", claims.UserID, "error", err)
			return model.Session{}, errInternal().Wrap(err)
		}
		if !revoked {
			slog.Warn("revoked refresh token presented", "user_id", claims.UserID)
			publish(s.events, event.TypeRefreshReplayed, claims.UserID, map[string]string{"token_id": claims.TokenID})
			return model.Session{}, errUnauthorized().Wrap(model.ErrTokenRevoked)
		}
	}

	publish(s.events, event.TypeSessionRefreshed, claims.UserID, nil)
	return session, nil
}

// Logout never fails. With rotation enabled the presented refresh token is
// revoked on a best-effort basis.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	metrics.RecordAuthOperation("logout", metrics.OutcomeSuccess)

	if refreshToken == "" {
		return
	}

	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return
	}
	publish(s.events, event.TypeLoggedOut, claims.UserID, nil)

	if s.revocations == nil {
		return
	}
	if _, err := s.revocations.Revoke(ctx, claims.TokenID, claims.UserID, claims.ExpiresAt); err != nil {
		slog.Warn("logout revocation failed", "user_id", claims.UserID, "error", err)
	}
}

// StartRevocationCleanup purges expired revocations every interval until ctx
// is done. It returns immediately when rotation is disabled.
func (s *AuthService) StartRevocationCleanup(ctx context.Context, interval time.Duration) {
	if s.revocations == nil || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.revocations.CleanExpired(ctx)
			if err != nil {
				slog.Warn("revocation cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("expired revocations purged", "count", removed)
			}
		}
	}
}
