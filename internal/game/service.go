// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/profile"
)

// # Service Layer

// Service orchestrates game recording: replay, outcome derivation,
// archiving, and the player's win/loss record.
type Service struct {
	games    Repository
	profiles profile.Repository
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService constructs a game [Service].
func NewService(games Repository, profiles profile.Repository, logger *slog.Logger) *Service {
	return &Service{
		games:    games,
		profiles: profiles,
		logger:   logger,
		now:      time.Now,
		newID:    newGameID,
	}
}

// RecordInput is a finished game as reported by the client.
type RecordInput struct {
	Moves []Move `json:"moves"`

	// Opponent is the free-text name of the O side; empty means the
	// computer was the guest.
	Opponent string `json:"opponent"`

	StartedAt time.Time `json:"started_at"`
}

/*
Record validates a finished game, archives it, and updates the player's
win/loss record.

Description: The outcome is derived by replaying the moves, never taken
from the client. The game must actually be over — a won line or a full
board; an unfinished game is rejected. The player holds X, so an X line is
a win, an O line a loss, a full board with no line a draw. The archive row
names both sides: the player's username as host, the opponent label (or
the computer) as guest.

Parameters:
  - ctx: context.Context
  - userID: string
  - input: RecordInput

Returns:
  - *Game: The archived game with its derived outcome
  - error: VALIDATION_ERROR on illegal or unfinished games, storage failures
*/
func (service *Service) Record(ctx context.Context, userID string, input RecordInput) (*Game, error) {
	board, winner, line, err := Replay(input.Moves)
	if err != nil {
		return nil, err
	}

	var outcome profile.GameOutcome
	switch {
	case winner == MarkerX:
		outcome = profile.OutcomeWin
	case winner == MarkerO:
		outcome = profile.OutcomeLoss
	case board.Full():
		outcome = profile.OutcomeDraw
	default:
		return nil, apperr.ValidationError("Game is not finished")
	}

	startedAt := input.StartedAt
	if startedAt.IsZero() {
		startedAt = service.now()
	}

	record := &Game{
		ID:         service.newID(),
		UserID:     userID,
		Host:       service.hostName(ctx, userID),
		Guest:      guestName(input.Opponent),
		Moves:      input.Moves,
		Outcome:    outcome,
		WinLine:    line,
		StartedAt:  startedAt,
		FinishedAt: service.now(),
	}

	if err := service.games.Insert(ctx, record); err != nil {
		return nil, fmt.Errorf("game_service_archive_failed: %w", err)
	}

	// The archive row is the source of truth; a lost counter bump is
	// recoverable, so it does not fail the request.
	if err := service.profiles.ApplyResult(ctx, userID, outcome); err != nil {
		service.logger.Warn("game_stats_update_failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("game_recorded",
		slog.String("user_id", userID),
		slog.String("outcome", string(outcome)),
		slog.Int("moves", len(record.Moves)),
	)

	return record, nil
}

/*
History returns the player's archived games, most recent first.

Parameters:
  - ctx: context.Context
  - userID: string
  - limit: int

Returns:
  - []Game: Archive entries
  - error: Storage failures
*/
func (service *Service) History(ctx context.Context, userID string, limit int) ([]Game, error) {
	games, err := service.games.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("game_service_history_failed: %w", err)
	}
	return games, nil
}

// hostName snapshots the player's username for the archive row. A player
// without a profile (bootstrap warning path) is archived as "player".
func (service *Service) hostName(ctx context.Context, userID string) string {
	record, err := service.profiles.FindByUserID(ctx, userID)
	if err != nil || record.Username == "" {
		return "player"
	}
	return record.Username
}

// guestName normalizes the client-supplied opponent label.
func guestName(opponent string) string {
	if name := strings.TrimSpace(opponent); name != "" {
		return name
	}
	return DefaultGuestName
}

// newGameID issues a time-ordered UUID for the archive primary key.
func newGameID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
