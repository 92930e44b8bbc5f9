// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caovandan/caro/internal/platform/database/schema"
	"github.com/caovandan/caro/internal/platform/dberr"
	"github.com/caovandan/caro/internal/profile"
)

// # Repository Implementation

// PostgresRepository implements [Repository] using pgx. Move lists and win
// lines are stored as JSONB.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres implementation of the game archive.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Insert archives a finished game.

Parameters:
  - ctx: context.Context
  - record: *Game (fully populated, outcome already derived by the service)

Returns:
  - error: Serialization or execution failures
*/
func (repository *PostgresRepository) Insert(ctx context.Context, record *Game) error {
	moves, err := json.Marshal(record.Moves)
	if err != nil {
		return fmt.Errorf("postgres_game_repo_marshal_moves_failed: %w", err)
	}

	winLine, err := json.Marshal(record.WinLine)
	if err != nil {
		return fmt.Errorf("postgres_game_repo_marshal_winline_failed: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.Game.Table,
		schema.Game.ID, schema.Game.UserID, schema.Game.Host,
		schema.Game.Guest, schema.Game.Moves, schema.Game.Outcome,
		schema.Game.WinLine, schema.Game.StartedAt, schema.Game.FinishedAt,
	)

	_, err = repository.pool.Exec(ctx, query,
		record.ID,
		record.UserID,
		record.Host,
		record.Guest,
		moves,
		string(record.Outcome),
		winLine,
		record.StartedAt,
		record.FinishedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Game")
	}

	return nil
}

/*
ListByUserID returns the player's archived games, most recent first.

Parameters:
  - ctx: context.Context
  - userID: string
  - limit: int (rows returned; non-positive defaults to 20)

Returns:
  - []Game: Hydrated archive entries
  - error: Execution or deserialization failures
*/
func (repository *PostgresRepository) ListByUserID(ctx context.Context, userID string, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2`,
		schema.Game.ID, schema.Game.UserID, schema.Game.Host,
		schema.Game.Guest, schema.Game.Moves, schema.Game.Outcome,
		schema.Game.WinLine, schema.Game.StartedAt, schema.Game.FinishedAt,
		schema.Game.Table,
		schema.Game.UserID,
		schema.Game.FinishedAt,
	)

	rows, err := repository.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Game")
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var record Game
		var moves, winLine []byte
		var outcome string

		if err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Host,
			&record.Guest,
			&moves,
			&outcome,
			&winLine,
			&record.StartedAt,
			&record.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_game_repo_scan_failed: %w", err)
		}

		if err := json.Unmarshal(moves, &record.Moves); err != nil {
			return nil, fmt.Errorf("postgres_game_repo_unmarshal_moves_failed: %w", err)
		}
		if len(winLine) > 0 {
			if err := json.Unmarshal(winLine, &record.WinLine); err != nil {
				return nil, fmt.Errorf("postgres_game_repo_unmarshal_winline_failed: %w", err)
			}
		}
		record.Outcome = profile.GameOutcome(outcome)

		games = append(games, record)
	}

	return games, nil
}
