package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenRevoked = errors.New("token revoked")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")

	// Book related errors
	ErrBookNotFound = errors.New("book not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
