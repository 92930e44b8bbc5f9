// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package profile manages the application-owned player record.

The identity provider owns authentication; this package owns everything the
game needs to know about a player — username, theme, win/loss record. A
profile is derived from an identity and may legitimately lag behind it:
provisioning happens after sign-up and is retried, not guaranteed.

# Architecture

  - Profile: The player entity, one row per identity.
  - Repository: Postgres persistence behind a narrow interface.
  - Provisioner: Post-sign-up bootstrap with a bounded retry budget.
  - Username generation: Deterministic normalization plus a random suffix.
*/
package profile

import (
	"context"
	"time"
)

// # Domain Entities

// Profile is the application-side player record keyed by provider user ID.
type Profile struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Theme      string    `json:"theme"`
	GamesWon   int       `json:"games_won"`
	GamesLost  int       `json:"games_lost"`
	GamesDrawn int       `json:"games_drawn"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultTheme is the theme every freshly provisioned profile starts with.
const DefaultTheme = "light"

// GameOutcome classifies a finished game from the player's perspective.
type GameOutcome string

const (
	OutcomeWin  GameOutcome = "win"
	OutcomeLoss GameOutcome = "loss"
	OutcomeDraw GameOutcome = "draw"
)

// # Repository Contract

// Repository is the persistence contract for player profiles.
type Repository interface {
	// Insert creates the profile row. A userid conflict surfaces as
	// apperr.Conflict.
	Insert(ctx context.Context, profile *Profile) error

	// FindByUserID retrieves the profile for a provider user ID.
	// Missing rows surface as apperr.NotFound.
	FindByUserID(ctx context.Context, userID string) (*Profile, error)

	// ApplyResult bumps exactly one of the win/loss/draw counters.
	ApplyResult(ctx context.Context, userID string, outcome GameOutcome) error

	// UpdateTheme persists a theme change.
	UpdateTheme(ctx context.Context, userID, theme string) error
}
