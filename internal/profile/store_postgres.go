// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caovandan/caro/internal/platform/database/schema"
	"github.com/caovandan/caro/internal/platform/dberr"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres implementation for player profiles.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Insert creates the profile row for a freshly signed-up player.

Parameters:
  - ctx: context.Context
  - profile: *Profile (ID and timestamps must be populated by the caller)

Returns:
  - error: apperr.Conflict on a userid/username collision, or execution failures
*/
func (repository *PostgresRepository) Insert(ctx context.Context, profile *Profile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.Profile.Table,
		schema.Profile.ID, schema.Profile.UserID, schema.Profile.Username,
		schema.Profile.Theme, schema.Profile.GamesWon, schema.Profile.GamesLost,
		schema.Profile.GamesDrawn, schema.Profile.CreatedAt, schema.Profile.UpdatedAt,
	)

	_, err := repository.pool.Exec(ctx, query,
		profile.ID,
		profile.UserID,
		profile.Username,
		profile.Theme,
		profile.GamesWon,
		profile.GamesLost,
		profile.GamesDrawn,
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Profile")
	}

	return nil
}

/*
FindByUserID retrieves a profile by the provider user ID it belongs to.

Parameters:
  - ctx: context.Context
  - userID: string (provider UUID)

Returns:
  - *Profile: Hydrated player record
  - error: apperr.NotFound or execution failures
*/
func (repository *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*Profile, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.Profile.ID, schema.Profile.UserID, schema.Profile.Username,
		schema.Profile.Theme, schema.Profile.GamesWon, schema.Profile.GamesLost,
		schema.Profile.GamesDrawn, schema.Profile.CreatedAt, schema.Profile.UpdatedAt,
		schema.Profile.Table,
		schema.Profile.UserID,
	)

	record := &Profile{}
	err := repository.pool.QueryRow(ctx, query, userID).Scan(
		&record.ID,
		&record.UserID,
		&record.Username,
		&record.Theme,
		&record.GamesWon,
		&record.GamesLost,
		&record.GamesDrawn,
		&record.CreatedAt,
		&record.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Profile")
	}

	return record, nil
}

/*
ApplyResult increments the counter matching a finished game's outcome.

Description: A single UPDATE, so concurrent game completions for the same
player never lose increments.

Parameters:
  - ctx: context.Context
  - userID: string
  - outcome: GameOutcome

Returns:
  - error: apperr.NotFound if no profile row exists, or execution failures
*/
func (repository *PostgresRepository) ApplyResult(ctx context.Context, userID string, outcome GameOutcome) error {
	column := schema.Profile.GamesDrawn
	switch outcome {
	case OutcomeWin:
		column = schema.Profile.GamesWon
	case OutcomeLoss:
		column = schema.Profile.GamesLost
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = %s + 1, %s = $2
		WHERE %s = $1`,
		schema.Profile.Table,
		column, column, schema.Profile.UpdatedAt,
		schema.Profile.UserID,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Profile")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Profile")
	}

	return nil
}

/*
UpdateTheme persists the player's theme preference.

Parameters:
  - ctx: context.Context
  - userID: string
  - theme: string

Returns:
  - error: apperr.NotFound if no profile row exists, or execution failures
*/
func (repository *PostgresRepository) UpdateTheme(ctx context.Context, userID, theme string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1`,
		schema.Profile.Table,
		schema.Profile.Theme, schema.Profile.UpdatedAt,
		schema.Profile.UserID,
	)

	tag, err := repository.pool.Exec(ctx, query, userID, theme, time.Now())
	if err != nil {
		return dberr.Wrap(err, "Profile")
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Profile")
	}

	return nil
}
