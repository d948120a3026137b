package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"go-bookshelf/internal/metrics"
	"go-bookshelf/internal/model"
)

type tokenValidator interface {
	ValidateAccessToken(accessToken string) (*model.AuthClaims, error)
}

type accessTokenReader interface {
	AccessToken(r *http.Request) (string, bool)
}

type contextKey string

const authClaimsContextKey contextKey = "auth_claims"

// AuthMiddleware guards routes with the access token cookie. It never touches
// the user store: a signed, unexpired token is enough to pass.
type AuthMiddleware struct {
	validator tokenValidator
	cookies   accessTokenReader
}

func NewAuthMiddleware(validator tokenValidator, cookies accessTokenReader) *AuthMiddleware {
	return &AuthMiddleware{validator: validator, cookies: cookies}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := m.cookies.AccessToken(r)
		if !ok {
			metrics.RecordGuardRejection("missing_token")
			writeUnauthorized(w)
			return
		}

		claims, err := m.validator.ValidateAccessToken(token)
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, model.ErrTokenExpired) {
				reason = "expired_token"
			}
			metrics.RecordGuardRejection(reason)
			slog.Debug("request rejected by auth guard", "path", r.URL.Path, "reason", reason)
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), authClaimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the claims attached by RequireAuth.
func ClaimsFromContext(ctx context.Context) (*model.AuthClaims, bool) {
	claims, ok := ctx.Value(authClaimsContextKey).(*model.AuthClaims)
	return claims, ok && claims != nil
}

// ContextWithClaims attaches claims the same way RequireAuth does.
func ContextWithClaims(ctx context.Context, claims *model.AuthClaims) context.Context {
	return context.WithValue(ctx, authClaimsContextKey, claims)
}

func writeUnauthorized(w http.ResponseWriter) {
	writeMessage(w, http.StatusUnauthorized, "Unauthorized")
}
