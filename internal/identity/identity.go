// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package identity is the facade over the external hosted identity provider.

The provider owns the hard parts of authentication — password storage, OTP
delivery, token issuance and refresh cryptography. This package consumes its
REST API and exposes a small, typed surface to the rest of the application.

# Architecture

  - Client: One method per provider operation (sign-up, sign-in, verify,
    refresh, sign-out, user lookup).
  - Classification: Every provider failure is inspected exactly once and
    converted into a tagged [apperr.AppError]; no raw provider error or
    panic ever crosses the facade boundary.
  - Transport: Plain HTTP with the provider API key attached per request.
*/
package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Domain Entities

// Identity represents an account record owned by the external provider.
// It is the authoritative identity; the application's Profile is derived
// from it and may legitimately be missing.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the provider-issued token pair plus its lifetime.
//
// # Invariant
//
// A session is never half-set: access and refresh tokens are both present
// or the session is not a session. [Session.Complete] is the single check.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
	// User is the identity the provider attached to the token response,
	// when present. Saves a user-lookup round-trip after refresh.
	User *Identity `json:"user,omitempty"`
}

// Complete reports whether both tokens are present.
func (s *Session) Complete() bool {
	return s != nil && s.AccessToken != "" && s.RefreshToken != ""
}

// normalizeExpiry backfills ExpiresIn from the access token's unverified
// exp claim when the provider response omits it. This is introspection
// only — no trust decision is ever made from an unverified claim.
func (s *Session) normalizeExpiry(now time.Time) {
	if s == nil || s.ExpiresIn > 0 || s.AccessToken == "" {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return
	}

	if remaining := expiry.Time.Sub(now); remaining > 0 {
		s.ExpiresIn = int64(remaining / time.Second)
	}
}

// # Constraints

const (
	// OTPLength is the exact digit count of an email one-time passcode.
	OTPLength = 6
)
