// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package gate implements the per-request authentication decision point.

Every incoming request passes through the gate before reaching a domain
handler. The gate reads the session cookies, classifies the request, and
produces exactly one [Decision] — there is no server-side session cache,
so each request is judged fresh from its own cookies.

# Decision Policy

 1. Missing either session cookie on a protected path → redirect to login.
 2. Tokens present → validate with the identity provider.
    Valid session on a protected path → allow.
    Valid session on /login or /signup → redirect to home.
    Invalid/expired session → attempt a refresh; success persists the new
    session and allows, failure falls back to the no-session rules.
 3. A provider fault that is not a recognized auth failure fails the
    request with a 502 — an unreachable provider is never read as
    "not authenticated".

Validation always precedes refresh; the gate never rotates tokens for a
session that might still be valid.
*/
package gate

import (
	"context"
	"net/http"
	"strings"

	"github.com/caovandan/caro/internal/identity"
	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/platform/constants"
	"github.com/caovandan/caro/internal/platform/ctxutil"
	"github.com/caovandan/caro/internal/platform/metrics"
	"github.com/caovandan/caro/internal/platform/respond"
	"github.com/caovandan/caro/internal/session"
)

// # Decisions

// Decision classifies one request. It is derived per request, never stored.
type Decision int

const (
	// DecisionAllow lets the request proceed (anonymous or authenticated).
	DecisionAllow Decision = iota

	// DecisionRedirectLogin bounces an unauthenticated request off a
	// protected path.
	DecisionRedirectLogin

	// DecisionRedirectHome bounces an authenticated request off the
	// login/signup pages.
	DecisionRedirectHome

	// DecisionRefreshed is an allow that rotated the session on the way
	// through; the new cookies ride on this response.
	DecisionRefreshed
)

// String returns the metrics/log label for the decision.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectHome:
		return "redirect_home"
	case DecisionRefreshed:
		return "refreshed"
	default:
		return "unknown"
	}
}

// # Contracts

// SessionValidator is the slice of the identity facade the gate consumes.
//
// # Why an interface?
//
// Defining it here decouples the gate from the concrete provider client,
// so tests inject scripted doubles instead of an httptest provider.
type SessionValidator interface {
	// GetUser validates an access token. SESSION_EXPIRED means
	// refreshable; PROVIDER_ERROR means infrastructure fault.
	GetUser(ctx context.Context, accessToken string) (*identity.Identity, error)

	// RefreshSession rotates the session using its refresh token.
	RefreshSession(ctx context.Context, refreshToken string) (*identity.Session, error)
}

// # Gate

// Gate is the auth decision middleware.
type Gate struct {
	provider SessionValidator
	cookies  *session.CookieStore
	recorder metrics.Recorder
}

// New constructs a [Gate].
func New(provider SessionValidator, cookies *session.CookieStore, recorder metrics.Recorder) *Gate {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &Gate{
		provider: provider,
		cookies:  cookies,
		recorder: recorder,
	}
}

// Outcome is the full result of one gate evaluation.
type Outcome struct {
	Decision Decision

	// Identity is populated for authenticated allows (including refreshed).
	Identity *identity.Identity

	// Session is the rotated session to persist. Set whenever a refresh
	// succeeded, regardless of which decision carries it.
	Session *identity.Session
}

/*
Decide evaluates one request against the decision policy.

Description: Pure with respect to the response — Decide never writes
cookies or headers; [Gate.Middleware] applies the outcome.

Parameters:
  - request: *http.Request

Returns:
  - Outcome: The decision plus any identity/session it produced
  - error: PROVIDER_ERROR (or other infrastructure faults) only; auth
    failures are absorbed into the decision
*/
func (gate *Gate) Decide(request *http.Request) (Outcome, error) {
	ctx := request.Context()
	path := request.URL.Path

	// 1. No complete cookie pair: protected paths bounce, the rest pass.
	pair, present := gate.cookies.Read(request)
	if !present {
		return gate.anonymousOutcome(path), nil
	}

	// 2. Validate before any refresh. Rotating tokens for a session that
	// might still be valid is wasted rotation.
	user, err := gate.provider.GetUser(ctx, pair.AccessToken)
	if err == nil {
		if isAuthOnlyPath(path) {
			return Outcome{Decision: DecisionRedirectHome, Identity: user}, nil
		}
		return Outcome{Decision: DecisionAllow, Identity: user}, nil
	}

	// Infrastructure faults fail the request; they are not "logged out".
	if !apperr.IsCode(err, "SESSION_EXPIRED") {
		return Outcome{}, err
	}

	// 3. Session invalid or expired: try the refresh token.
	refreshed, refreshErr := gate.provider.RefreshSession(ctx, pair.RefreshToken)
	if refreshErr == nil {
		outcome := Outcome{
			Decision: DecisionRefreshed,
			Identity: refreshed.User,
			Session:  refreshed,
		}
		if isAuthOnlyPath(path) {
			outcome.Decision = DecisionRedirectHome
		}
		return outcome, nil
	}

	if apperr.IsCode(refreshErr, "SESSION_EXPIRED") {
		// Both tokens are dead. Stale cookies are left for the client to
		// overwrite on the next login.
		return gate.anonymousOutcome(path), nil
	}

	return Outcome{}, refreshErr
}

// anonymousOutcome applies the no-session rules to a path.
func (gate *Gate) anonymousOutcome(path string) Outcome {
	if isProtectedPath(path) {
		return Outcome{Decision: DecisionRedirectLogin}
	}
	return Outcome{Decision: DecisionAllow}
}

/*
Middleware intercepts every request, applies the [Outcome], and attaches
the authenticated identity (if any) to the request context.

Description: A rotated session is persisted through the cookie store on
whichever response carries the decision, redirects included — the provider
consumed the old refresh token during rotation, so a redirect that dropped
the new pair would strand the browser with dead cookies. Concurrent
refreshes of the same expiring session race benignly — last writer wins,
by policy.
*/
func (gate *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		outcome, err := gate.Decide(request)
		if err != nil {
			gate.recorder.RecordGateDecision("fault")
			respond.Error(writer, request, err)
			return
		}

		gate.recorder.RecordGateDecision(outcome.Decision.String())

		if outcome.Session != nil {
			gate.cookies.Persist(writer, outcome.Session)
		}

		switch outcome.Decision {
		case DecisionRedirectLogin:
			respond.Redirect(writer, request, constants.LoginRoute)
			return

		case DecisionRedirectHome:
			respond.Redirect(writer, request, constants.HomeRoute)
			return
		}

		if outcome.Identity != nil {
			ctx := ctxutil.WithIdentity(request.Context(), outcome.Identity)
			request = request.WithContext(ctx)
		}

		next.ServeHTTP(writer, request)
	})
}

// RequireIdentity blocks protected handlers reached without an identity.
//
// # Usage
//
// Mounted under /home AFTER [Gate.Middleware]. The gate already redirects
// cookie-less requests; this guard covers the refreshed-without-user edge
// where the provider omitted the user record from the token response.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetIdentity(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// # Path Classification

// isProtectedPath reports whether the path is under the protected prefix.
func isProtectedPath(path string) bool {
	return path == constants.ProtectedRoutePrefix ||
		strings.HasPrefix(path, constants.ProtectedRoutePrefix+"/")
}

// isAuthOnlyPath reports whether the path serves the auth forms.
func isAuthOnlyPath(path string) bool {
	return path == constants.LoginRoute || path == constants.SignupRoute
}
