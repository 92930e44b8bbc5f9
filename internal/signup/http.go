// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package signup

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/caovandan/caro/internal/platform/request"
	"github.com/caovandan/caro/internal/platform/respond"
	"github.com/caovandan/caro/internal/session"
)

// Handler implements the HTTP layer for registration and sign-in.
//
// It is the only place where controller results meet the cookie store:
// a session returned by the controller is persisted here, on the response
// that carries the success payload.
type Handler struct {
	controller *Controller
	cookies    *session.CookieStore
}

// NewHandler constructs an auth [Handler].
func NewHandler(controller *Controller, cookies *session.CookieStore) *Handler {
	return &Handler{controller: controller, cookies: cookies}
}

// Routes returns a [chi.Router] with the credentialed entry points.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/signup/verify", handler.verify)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)

	return router
}

/*
POST /api/v1/auth/signup.

Description: Validates the registration form and creates the identity. The
response never carries a session — the account is unusable until the
emailed passcode is confirmed.

Request:
  - body: Credentials

Response:
  - 201: SignUpResult (with a warning when profile bootstrap failed)
  - 400: VALIDATION_ERROR: One entry per offending field
  - 409: DUPLICATE_USER: Email already registered
  - 502: PROVIDER_ERROR: Identity provider unreachable
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input Credentials
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.controller.BeginSignUp(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if result.Warning != "" {
		respond.CreatedWithWarning(writer, result, result.Warning)
		return
	}
	respond.Created(writer, result)
}

// verifyRequest defines the expected JSON payload for passcode confirmation.
type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

/*
POST /api/v1/auth/signup/verify.

Description: Confirms the emailed passcode and establishes the session.
Both session cookies are set on this response.

Request:
  - body: verifyRequest

Response:
  - 200: identity.Identity: The now-verified account
  - 401: INVALID_CODE: Wrong or malformed passcode; the challenge stays open
  - 404: NOT_FOUND: Challenge expired; the sign-up must be restarted
  - 502: PROVIDER_ERROR: Identity provider unreachable
*/
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authenticated, warning, err := handler.controller.CompleteSignUp(request.Context(), input.Email, input.Code)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Persist(writer, authenticated)

	if warning != "" {
		respond.JSON(writer, http.StatusOK, respond.SuccessEnvelope{Data: authenticated.User, Warning: warning})
		return
	}
	respond.OK(writer, authenticated.User)
}

/*
POST /api/v1/auth/login.

Request:
  - body: LoginCredentials

Response:
  - 200: identity.Identity: The signed-in account, session cookies set
  - 400: VALIDATION_ERROR: Malformed form
  - 401: INVALID_CREDENTIALS: Wrong email or password
  - 502: PROVIDER_ERROR: Identity provider unreachable
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginCredentials
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	authenticated, err := handler.controller.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.cookies.Persist(writer, authenticated)
	respond.OK(writer, authenticated.User)
}

/*
POST /api/v1/auth/logout.

Description: Revokes the session at the provider and clears both cookies.
Clearing always happens, even when revocation fails — the browser must not
keep tokens the user asked to discard.

Response:
  - 204: No Content: Cookies cleared
  - 502: PROVIDER_ERROR: Revocation failed; cookies are cleared regardless
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	pair, present := handler.cookies.Read(request)

	handler.cookies.Clear(writer)

	if present {
		if err := handler.controller.Logout(request.Context(), pair.AccessToken); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.NoContent(writer)
}
