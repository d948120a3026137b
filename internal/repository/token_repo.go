package repository

import (
	"context"
	"fmt"
	"time"
)

// TokenRepository records refresh token IDs that may no longer be used.
// Only consulted when refresh rotation is enabled.
type TokenRepository struct {
	pool pgxPool
}

func NewTokenRepository(pool pgxPool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

// Revoke records tokenID and reports whether this call revoked it. A false
// result means the token had already been revoked.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, userID string, expiresAt time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO revoked_refresh_tokens (token_id, user_id, revoked_at, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (token_id) DO NOTHING`,
		tokenID, userID, time.Now().UTC(), expiresAt)
	if err != nil {
		return false, fmt.Errorf("revoke refresh token: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CleanExpired drops revocations for tokens that would fail expiry checks anyway.
func (r *TokenRepository) CleanExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM revoked_refresh_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("clean expired revocations: %w", err)
	}
	return tag.RowsAffected(), nil
}
