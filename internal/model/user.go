package model

import "time"

// User is a stored identity. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthClaims is the verified content of an access or refresh token.
type AuthClaims struct {
	UserID    string    `json:"sub"`
	TokenID   string    `json:"jti"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Session carries the signed tokens issued by a successful login or refresh.
// RefreshToken is empty when only the access token was renewed.
type Session struct {
	AccessToken  string
	RefreshToken string
}
