// Package common defines shared constants and sentinel errors used across
// BookWorm components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration / credential errors.
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateUsername = errors.New("username already in use")
	ErrEmailNotFound     = errors.New("email not found")
	ErrWrongPassword     = errors.New("password is wrong")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	// Request validation errors.
	ErrInvalidListKind  = errors.New("invalid list kind")
	ErrInvalidAttribute = errors.New("invalid attribute")

	// External catalog errors.
	ErrUpstreamFailure = errors.New("catalog request failed")
)
