// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/caovandan/caro/internal/platform/request"
	"github.com/caovandan/caro/internal/platform/respond"
	"github.com/caovandan/caro/internal/platform/validate"
)

// Handler implements the HTTP layer for player profiles.
type Handler struct {
	provisioner *Provisioner
	repository  Repository
}

// NewHandler constructs a profile [Handler].
func NewHandler(provisioner *Provisioner, repository Repository) *Handler {
	return &Handler{provisioner: provisioner, repository: repository}
}

// Routes returns a [chi.Router] with the profile endpoints. All routes
// require an authenticated identity on the request context.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/me", handler.getMe)
	router.Put("/me/theme", handler.updateTheme)

	return router
}

/*
GET /api/v1/profile/me.

Description: Returns the player's profile, provisioning it on the fly if the
post-sign-up bootstrap never completed.

Response:
  - 200: Profile
  - 401: Authentication required
  - 500: PROFILE_PROVISION: Lazy provisioning also failed
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.provisioner.Ensure(request.Context(), user)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}

// updateThemeRequest defines the expected JSON payload for theme changes.
type updateThemeRequest struct {
	Theme string `json:"theme"`
}

/*
PUT /api/v1/profile/me/theme.

Request:
  - body: updateThemeRequest

Response:
  - 200: Profile: The profile with the new theme applied
  - 400: VALIDATION_ERROR: Unknown theme
  - 401: Authentication required
*/
func (handler *Handler) updateTheme(writer http.ResponseWriter, request *http.Request) {
	user, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateThemeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.OneOf("theme", input.Theme, "light", "dark")
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.repository.UpdateTheme(request.Context(), user.ID, input.Theme); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.repository.FindByUserID(request.Context(), user.ID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, record)
}
