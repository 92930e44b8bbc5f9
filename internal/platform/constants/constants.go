// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session cookie names and route classification prefixes.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "caro-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Session Cookies

// Cookie names follow the provider's convention so existing browser sessions
// written by the hosted SDK remain readable. Absence of either cookie is
// equivalent to no session.
const (
	// AccessTokenCookieName stores the short-lived access token.
	AccessTokenCookieName = "sb-access-token"

	// RefreshTokenCookieName stores the long-lived refresh token.
	RefreshTokenCookieName = "sb-refresh-token"

	// SessionCookiePath scopes both session cookies to the whole site.
	SessionCookiePath = "/"
)

// # Route Classification

const (
	// ProtectedRoutePrefix guards everything under /home/**.
	ProtectedRoutePrefix = "/home"

	// LoginRoute is the sign-in page; authenticated users are bounced to home.
	LoginRoute = "/login"

	// SignupRoute is the registration page; authenticated users are bounced to home.
	SignupRoute = "/signup"

	// HomeRoute is the landing page of the protected area.
	HomeRoute = "/home"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldWarning = "warning"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixOTPChallenge = "auth:otp_challenge:"
)
