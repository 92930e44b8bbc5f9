// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package apperr defines the centralized error handling framework for Caro.

It provides a rich error type that bridges the gap between low-level provider/
storage errors and high-level HTTP responses.

Architecture:

  - AppError: A struct containing machine-readable ErrorCode and user-friendly messages.
  - Classification: Every failure that crosses a facade boundary is tagged here.
  - Mapping: Explicit mapping from AppError to standard HTTP Status Codes.

Every error that leaves the service layer should be wrapped as an [AppError] to ensure
consistent API responses.
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the canonical error type for the Caro API.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., provider payloads).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "DUPLICATE_USER").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Profile") // Returns "Profile not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       "NOT_FOUND",
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       "UNAUTHORIZED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       "FORBIDDEN",
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       "CONFLICT",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       "VALIDATION_ERROR",
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// RateLimited creates a 429 [AppError].
func RateLimited(retryAfterSeconds int) *AppError {
	return &AppError{
		Code:       "RATE_LIMITED",
		Message:    fmt.Sprintf("Too many requests. Try again in %ds.", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// # Identity Provider Errors

// The identity facade inspects raw provider responses once and converts
// them into exactly one of the tagged variants below. Downstream code
// (gate, signup flow) branches on Code, never on message text.

// DuplicateUser creates a 409 [AppError] for sign-up identity conflicts.
func DuplicateUser(msg string) *AppError {
	return &AppError{
		Code:       "DUPLICATE_USER",
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidCredentials creates a 401 [AppError] for failed sign-in attempts.
func InvalidCredentials(msg string) *AppError {
	return &AppError{
		Code:       "INVALID_CREDENTIALS",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidCode creates a 401 [AppError] for rejected one-time passcodes.
func InvalidCode(msg string) *AppError {
	return &AppError{
		Code:       "INVALID_CODE",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ExpiredSession creates a 401 [AppError] for invalid or expired sessions.
// The gate treats this as "refreshable", not as an infrastructure fault.
func ExpiredSession(msg string) *AppError {
	return &AppError{
		Code:       "SESSION_EXPIRED",
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Provider creates a 502 [AppError] for provider connectivity or unexpected
// provider faults. It is deliberately distinct from the auth failures above:
// an unreachable provider must never be misread as "not authenticated".
func Provider(cause error) *AppError {
	return &AppError{
		Code:       "PROVIDER_ERROR",
		Message:    "Identity provider request failed",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// ProfileProvision creates a non-fatal [AppError] for a profile bootstrap
// failure after identity creation succeeded. Callers surface it as a warning
// alongside a successful account result.
func ProfileProvision(cause error) *AppError {
	return &AppError{
		Code:       "PROFILE_PROVISION",
		Message:    "Account created, but profile setup failed",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// ServiceUnavailable creates a 503 [AppError] for maintenance mode.
func ServiceUnavailable(msg string) *AppError {
	return &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries the given machine-readable code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}
