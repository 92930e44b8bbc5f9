// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/caovandan/caro/internal/platform/request"
	"github.com/caovandan/caro/internal/platform/respond"
	"github.com/caovandan/caro/internal/profile"
)

// Handler implements the HTTP layer for the protected game area.
//
// All routes live under the protected prefix, so the auth gate has already
// redirected unauthenticated requests before any of these run.
type Handler struct {
	gameService *Service
	provisioner *profile.Provisioner
}

// NewHandler constructs a game [Handler].
func NewHandler(gameService *Service, provisioner *profile.Provisioner) *Handler {
	return &Handler{gameService: gameService, provisioner: provisioner}
}

// Routes returns a [chi.Router] with the protected game endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.dashboard)
	router.Get("/games", handler.history)
	router.Post("/games", handler.record)

	return router
}

// dashboardResponse aggregates what the home page renders in one request.
type dashboardResponse struct {
	Profile *profile.Profile `json:"profile"`
	Recent  []Game           `json:"recent_games"`
}

/*
GET /home.

Description: The landing payload of the protected area: the player's
profile (provisioned on the fly if missing) and their recent games.

Response:
  - 200: dashboardResponse
  - 401: Authentication required
*/
func (handler *Handler) dashboard(writer http.ResponseWriter, request *http.Request) {
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

	recent, err := handler.gameService.History(request.Context(), user.ID, 10)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, dashboardResponse{Profile: record, Recent: recent})
}

/*
GET /home/games?limit=N.

Response:
  - 200: []Game: Most recent first
  - 401: Authentication required
*/
func (handler *Handler) history(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	limit, _ := strconv.Atoi(request.URL.Query().Get("limit"))

	games, err := handler.gameService.History(request.Context(), userID, limit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, games)
}

/*
POST /home/games.

Description: Archives a finished game. The outcome is derived server-side
from the move list.

Request:
  - body: RecordInput

Response:
  - 201: Game: The archived game with derived outcome and win line
  - 400: VALIDATION_ERROR: Illegal move sequence or unfinished game
  - 401: Authentication required
*/
func (handler *Handler) record(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input RecordInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	record, err := handler.gameService.Record(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, record)
}
