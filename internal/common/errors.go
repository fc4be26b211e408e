// Package common defines shared constants and sentinel errors used across
// client and server layers of SecureVault. Callers should use errors.Is to
// match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal           = errors.New("internal error")
	ErrorUnauthorized       = errors.New("unauthorized")
	ErrorForbidden          = errors.New("forbidden")
	ErrorBackendUnavailable = errors.New("backend unavailable")

	// Validation errors.
	ErrorInvalidInput       = errors.New("invalid input")
	ErrorInvalidCredentials = errors.New("invalid userid or password")

	// CAPTCHA errors. A non-numeric answer is also an input error.
	ErrorIncorrectCaptcha     = errors.New("incorrect captcha")
	ErrorInvalidCaptchaAnswer = fmt.Errorf("captcha answer must be a number: %w", ErrorInvalidInput)

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")
)
