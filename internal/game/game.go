// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game

import (
	"context"
	"time"

	"github.com/caovandan/caro/internal/profile"
)

// # Game Archive

// DefaultGuestName labels the opponent when the client names none.
const DefaultGuestName = "computer"

// Game is one archived game, owned by the player who recorded it. The
// player always holds X; the opponent (local or computer) holds O.
type Game struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	// Host is the recording player's display name, snapshotted at record
	// time. The host always holds X.
	Host string `json:"host"`

	// Guest labels the O side. Games are played against a local opponent
	// or the computer, so this is a free-text name, never an account.
	Guest string `json:"guest"`

	Moves      []Move              `json:"moves"`
	Outcome    profile.GameOutcome `json:"outcome"`
	WinLine    []string            `json:"win_line,omitempty"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}

// Repository is the persistence contract for the game archive.
type Repository interface {
	// Insert archives a finished game.
	Insert(ctx context.Context, record *Game) error

	// ListByUserID returns the player's games, most recent first.
	ListByUserID(ctx context.Context, userID string, limit int) ([]Game, error)
}
