// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"time"

	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/platform/metrics"
)

// otpDigits guards the VerifyOTP fast path: malformed codes are rejected
// before any network round-trip.
var otpDigits = regexp.MustCompile(`^[0-9]{6}$`)

// # Client Definition

// Client talks to the hosted identity provider's REST API.
//
// # Construction
//
// The client is explicitly constructed and injected into every component
// that needs it (gate, signup flow, auth handlers) — there is no package
// level singleton, so tests swap in an httptest server freely.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	recorder   metrics.Recorder
	now        func() time.Time
}

// NewClient constructs a provider [Client].
//
// # Parameters
//   - baseURL: Provider root URL (no trailing slash required).
//   - apiKey: Project API key, attached to every request.
//   - logger: Structured logger for provider faults.
//   - recorder: Metrics sink for call outcomes and latency.
func NewClient(baseURL, apiKey string, logger *slog.Logger, recorder metrics.Recorder) *Client {
	if recorder == nil {
		recorder = metrics.Noop()
	}
	return &Client{
		baseURL: trimTrailingSlash(baseURL),
		apiKey:  apiKey,
		// Timeouts are the transport's responsibility; the provider SDK
		// default of 10s matches the original deployment.
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		recorder:   recorder,
		now:        time.Now,
	}
}

// # Provider Operations

// signUpRequest is the provider sign-up payload. First/last name ride along
// as user metadata, exactly like the original client SDK call.
type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

/*
SignUp creates a new identity record with the provider.

Description: The provider sends the verification OTP out-of-band; the
returned Identity is unverified until [Client.VerifyOTP] succeeds.

Parameters:
  - ctx: context.Context
  - email, password: Primary credentials
  - firstName, lastName: Stored as provider user metadata

Returns:
  - *Identity: The created (unverified) identity
  - error: DUPLICATE_USER, VALIDATION_ERROR, or PROVIDER_ERROR
*/
func (client *Client) SignUp(ctx context.Context, email, password, firstName, lastName string) (*Identity, error) {
	payload := signUpRequest{
		Email:    email,
		Password: password,
		Data: map[string]string{
			"first_name": firstName,
			"last_name":  lastName,
		},
	}

	statusCode, body, err := client.do(ctx, "signup", http.MethodPost, "/auth/v1/signup", "", payload)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return parseIdentity(body)
	case statusCode >= 400 && statusCode < 500:
		return nil, classifySignUpError(statusCode, body)
	default:
		return nil, apperr.Provider(fmt.Errorf("signup returned status %d", statusCode))
	}
}

// credentialsRequest is the password-grant payload.
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
SignIn exchanges email/password credentials for a session.

Parameters:
  - ctx: context.Context
  - email, password: Primary credentials

Returns:
  - *Session: Complete token pair with expiry
  - error: INVALID_CREDENTIALS or PROVIDER_ERROR
*/
func (client *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	payload := credentialsRequest{Email: email, Password: password}

	statusCode, body, err := client.do(ctx, "signin", http.MethodPost, "/auth/v1/token?grant_type=password", "", payload)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return client.parseSession(body)
	case statusCode >= 400 && statusCode < 500:
		// The provider's own message is passed through without adding any
		// detail about which factor was wrong.
		return nil, apperr.InvalidCredentials(parseErrorMessage(body))
	default:
		return nil, apperr.Provider(fmt.Errorf("signin returned status %d", statusCode))
	}
}

// verifyRequest is the OTP verification payload. Type "email" selects the
// sign-up confirmation flow.
type verifyRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Token string `json:"token"`
}

/*
VerifyOTP confirms email ownership with the 6-digit passcode.

Description: Non-numeric or wrong-length codes are rejected locally; the
provider is only consulted for well-formed codes.

Parameters:
  - ctx: context.Context
  - email: Address the code was sent to
  - code: Exactly six ASCII digits

Returns:
  - *Session: The first authenticated session for this identity
  - error: INVALID_CODE or PROVIDER_ERROR
*/
func (client *Client) VerifyOTP(ctx context.Context, email, code string) (*Session, error) {
	if !otpDigits.MatchString(code) {
		return nil, apperr.InvalidCode("Code must be exactly 6 digits")
	}

	payload := verifyRequest{Type: "email", Email: email, Token: code}

	statusCode, body, err := client.do(ctx, "verify", http.MethodPost, "/auth/v1/verify", "", payload)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return client.parseSession(body)
	case statusCode >= 400 && statusCode < 500:
		return nil, apperr.InvalidCode(parseErrorMessage(body))
	default:
		return nil, apperr.Provider(fmt.Errorf("verify returned status %d", statusCode))
	}
}

// refreshRequest is the refresh-grant payload.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

/*
RefreshSession rotates an expired session using its refresh token.

Parameters:
  - ctx: context.Context
  - refreshToken: The long-lived token from the previous session

Returns:
  - *Session: Fresh token pair
  - error: SESSION_EXPIRED (token no longer usable) or PROVIDER_ERROR
*/
func (client *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	payload := refreshRequest{RefreshToken: refreshToken}

	statusCode, body, err := client.do(ctx, "refresh", http.MethodPost, "/auth/v1/token?grant_type=refresh_token", "", payload)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return client.parseSession(body)
	case statusCode >= 400 && statusCode < 500:
		return nil, apperr.ExpiredSession(parseErrorMessage(body))
	default:
		return nil, apperr.Provider(fmt.Errorf("refresh returned status %d", statusCode))
	}
}

/*
GetUser validates an access token and returns its identity.

Description: This is the gate's session check. A 401/403 answer means the
session is invalid or expired (refreshable); anything else unexpected is an
infrastructure fault and must not be read as "unauthenticated".

Parameters:
  - ctx: context.Context
  - accessToken: Bearer token from the session cookie

Returns:
  - *Identity: The authenticated identity
  - error: SESSION_EXPIRED or PROVIDER_ERROR
*/
func (client *Client) GetUser(ctx context.Context, accessToken string) (*Identity, error) {
	statusCode, body, err := client.do(ctx, "get_user", http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		return parseIdentity(body)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return nil, apperr.ExpiredSession(parseErrorMessage(body))
	default:
		return nil, apperr.Provider(fmt.Errorf("get_user returned status %d", statusCode))
	}
}

/*
SignOut revokes the session behind the given access token.

Parameters:
  - ctx: context.Context
  - accessToken: Bearer token of the session being terminated

Returns:
  - error: PROVIDER_ERROR; already-dead sessions are treated as success
    (sign-out is idempotent)
*/
func (client *Client) SignOut(ctx context.Context, accessToken string) error {
	statusCode, body, err := client.do(ctx, "signout", http.MethodPost, "/auth/v1/logout", accessToken, nil)
	if err != nil {
		return err
	}

	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	// A 401 here means the session was already gone. Idempotent success.
	if statusCode == http.StatusUnauthorized {
		return nil
	}

	return apperr.Provider(fmt.Errorf("signout returned status %d: %s", statusCode, parseErrorMessage(body)))
}

// # Transport

// do performs one provider round-trip and returns the raw status and body.
// Connectivity failures come back already classified as PROVIDER_ERROR.
func (client *Client) do(ctx context.Context, operation, method, path, accessToken string, payload any) (int, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, apperr.Internal(fmt.Errorf("identity: encode %s payload: %w", operation, err))
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, client.baseURL+path, bodyReader)
	if err != nil {
		return 0, nil, apperr.Internal(fmt.Errorf("identity: build %s request: %w", operation, err))
	}

	request.Header.Set("apikey", client.apiKey)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	// User-scoped endpoints authenticate with the session's access token;
	// everything else uses the project API key.
	bearer := client.apiKey
	if accessToken != "" {
		bearer = accessToken
	}
	request.Header.Set("Authorization", "Bearer "+bearer)

	startTime := client.now()
	response, err := client.httpClient.Do(request)
	client.recorder.RecordProviderLatency(operation, client.now().Sub(startTime))

	if err != nil {
		client.recorder.RecordProviderCall(operation, 0)
		client.logger.ErrorContext(ctx, "provider_request_failed",
			slog.String("operation", operation),
			slog.Any("error", err),
		)
		return 0, nil, apperr.Provider(fmt.Errorf("identity: %s request failed: %w", operation, err))
	}
	defer func() { _ = response.Body.Close() }()

	client.recorder.RecordProviderCall(operation, response.StatusCode)

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		return 0, nil, apperr.Provider(fmt.Errorf("identity: read %s response: %w", operation, err))
	}

	return response.StatusCode, responseBody, nil
}

// # Response Parsing

// identityPayload mirrors the provider's user record shape. Names live in
// the user_metadata bag, matching what SignUp stored there.
type identityPayload struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"user_metadata"`
}

// signUpEnvelope accepts both response shapes the provider has shipped:
// the user record at the top level, or nested under "user".
type signUpEnvelope struct {
	identityPayload
	User *identityPayload `json:"user"`
}

func (p identityPayload) toIdentity() *Identity {
	return &Identity{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.UserMetadata.FirstName,
		LastName:  p.UserMetadata.LastName,
		CreatedAt: p.CreatedAt,
	}
}

// parseIdentity decodes a provider user record from a success response.
func parseIdentity(body []byte) (*Identity, error) {
	var envelope signUpEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperr.Provider(fmt.Errorf("identity: decode user payload: %w", err))
	}

	payload := envelope.identityPayload
	if payload.ID == "" && envelope.User != nil {
		payload = *envelope.User
	}

	if payload.ID == "" {
		return nil, apperr.Provider(errors.New("identity: provider user payload missing id"))
	}

	return payload.toIdentity(), nil
}

// sessionPayload mirrors the provider token response, with the user record
// in its raw metadata shape.
type sessionPayload struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	ExpiresIn    int64            `json:"expires_in"`
	User         *identityPayload `json:"user"`
}

// parseSession decodes a provider token response and enforces the
// both-or-nothing session invariant.
func (client *Client) parseSession(body []byte) (*Session, error) {
	var payload sessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.Provider(fmt.Errorf("identity: decode session payload: %w", err))
	}

	session := &Session{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
	}
	if payload.User != nil && payload.User.ID != "" {
		session.User = payload.User.toIdentity()
	}

	if !session.Complete() {
		return nil, apperr.Provider(errors.New("identity: provider returned a partial session"))
	}

	session.normalizeExpiry(client.now())
	return session, nil
}

func trimTrailingSlash(url string) string {
	for len(url) > 0 && url[len(url)-1] == '/' {
		url = url[:len(url)-1]
	}
	return url
}
