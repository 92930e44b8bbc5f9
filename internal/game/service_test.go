// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/game"
	"github.com/caovandan/caro/internal/platform/apperr"
	"github.com/caovandan/caro/internal/profile"
)

// fakeArchive records inserted games and serves a scripted history.
type fakeArchive struct {
	inserted  []*game.Game
	insertErr error
	history   []game.Game
	listErr   error
}

func (f *fakeArchive) Insert(_ context.Context, record *game.Game) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, record)
	return nil
}

func (f *fakeArchive) ListByUserID(_ context.Context, _ string, _ int) ([]game.Game, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.history, nil
}

// fakeStats records win/loss counter bumps and serves an optional profile.
type fakeStats struct {
	record   *profile.Profile
	applied  []profile.GameOutcome
	applyErr error
}

func (f *fakeStats) Insert(_ context.Context, _ *profile.Profile) error { return nil }

func (f *fakeStats) FindByUserID(_ context.Context, _ string) (*profile.Profile, error) {
	if f.record != nil {
		return f.record, nil
	}
	return nil, apperr.NotFound("Profile")
}

func (f *fakeStats) ApplyResult(_ context.Context, _ string, outcome profile.GameOutcome) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, outcome)
	return nil
}

func (f *fakeStats) UpdateTheme(_ context.Context, _, _ string) error { return nil }

func newTestService(archive *fakeArchive, stats *fakeStats) *game.Service {
	return game.NewService(archive, stats, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// xWinMoves completes the top row for X.
func xWinMoves() []game.Move {
	return moves("a1", "a2", "b1", "b2", "c1")
}

// oWinMoves completes the middle row for O.
func oWinMoves() []game.Move {
	return moves("a1", "a2", "b1", "b2", "c3", "c2")
}

// drawMoves fills the board without a line.
func drawMoves() []game.Move {
	return moves("a1", "b1", "c1", "b2", "a2", "c2", "b3", "a3", "c3")
}

/*
TestService_Record_DerivesOutcome verifies the outcome is computed from the
moves and the matching counter is bumped. The player holds X.
*/
func TestService_Record_DerivesOutcome(t *testing.T) {
	tests := []struct {
		name    string
		moves   []game.Move
		outcome profile.GameOutcome
		winLine []string
	}{
		{"x_line_is_a_win", xWinMoves(), profile.OutcomeWin, []string{"a1", "b1", "c1"}},
		{"o_line_is_a_loss", oWinMoves(), profile.OutcomeLoss, []string{"a2", "b2", "c2"}},
		{"full_board_is_a_draw", drawMoves(), profile.OutcomeDraw, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := &fakeArchive{}
			stats := &fakeStats{}
			service := newTestService(archive, stats)

			record, err := service.Record(context.Background(), "user-1", game.RecordInput{Moves: tt.moves})
			require.NoError(t, err)

			assert.Equal(t, tt.outcome, record.Outcome)
			assert.Equal(t, tt.winLine, record.WinLine)
			assert.Equal(t, "user-1", record.UserID)
			assert.NotEmpty(t, record.ID)
			assert.False(t, record.FinishedAt.IsZero())

			require.Len(t, archive.inserted, 1)
			assert.Equal(t, []profile.GameOutcome{tt.outcome}, stats.applied)
		})
	}
}

/*
TestService_Record_HostAndGuest verifies the archive row names both sides:
the host is the player's username snapshotted at record time, the guest a
normalized free-text opponent label.
*/
func TestService_Record_HostAndGuest(t *testing.T) {
	t.Run("named_sides", func(t *testing.T) {
		archive := &fakeArchive{}
		stats := &fakeStats{record: &profile.Profile{UserID: "user-1", Username: "annlee7"}}
		service := newTestService(archive, stats)

		record, err := service.Record(context.Background(), "user-1", game.RecordInput{
			Moves:    xWinMoves(),
			Opponent: "  Bob  ",
		})
		require.NoError(t, err)
		assert.Equal(t, "annlee7", record.Host)
		assert.Equal(t, "Bob", record.Guest)
	})

	t.Run("defaults", func(t *testing.T) {
		// No profile yet (bootstrap warning path), no opponent named.
		service := newTestService(&fakeArchive{}, &fakeStats{})

		record, err := service.Record(context.Background(), "user-1", game.RecordInput{Moves: xWinMoves()})
		require.NoError(t, err)
		assert.Equal(t, "player", record.Host)
		assert.Equal(t, game.DefaultGuestName, record.Guest)
	})
}

/*
TestService_Record_RejectsUnfinishedGame verifies a game that is neither
won nor drawn is not archived.
*/
func TestService_Record_RejectsUnfinishedGame(t *testing.T) {
	archive := &fakeArchive{}
	stats := &fakeStats{}
	service := newTestService(archive, stats)

	_, err := service.Record(context.Background(), "user-1", game.RecordInput{
		Moves: moves("a1", "b1", "a2"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	assert.Empty(t, archive.inserted)
	assert.Empty(t, stats.applied)
}

/*
TestService_Record_RejectsIllegalMoves verifies replay violations surface
before anything is persisted.
*/
func TestService_Record_RejectsIllegalMoves(t *testing.T) {
	archive := &fakeArchive{}
	service := newTestService(archive, &fakeStats{})

	_, err := service.Record(context.Background(), "user-1", game.RecordInput{
		Moves: moves("a1", "a2", "b1", "b2", "c1", "c3"),
	})

	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	assert.Empty(t, archive.inserted)
}

/*
TestService_Record_ArchiveFailureIsFatal verifies a failed insert fails the
request and leaves the counters untouched.
*/
func TestService_Record_ArchiveFailureIsFatal(t *testing.T) {
	archive := &fakeArchive{insertErr: errors.New("pool closed")}
	stats := &fakeStats{}
	service := newTestService(archive, stats)

	_, err := service.Record(context.Background(), "user-1", game.RecordInput{Moves: xWinMoves()})

	require.Error(t, err)
	assert.Empty(t, stats.applied)
}

/*
TestService_Record_StatsFailureIsNotFatal verifies a failed counter bump is
logged but the archived game is still returned.
*/
func TestService_Record_StatsFailureIsNotFatal(t *testing.T) {
	archive := &fakeArchive{}
	stats := &fakeStats{applyErr: errors.New("pool closed")}
	service := newTestService(archive, stats)

	record, err := service.Record(context.Background(), "user-1", game.RecordInput{Moves: xWinMoves()})

	require.NoError(t, err, "the archive row is the source of truth")
	assert.Equal(t, profile.OutcomeWin, record.Outcome)
	require.Len(t, archive.inserted, 1)
}

/*
TestService_Record_KeepsClientStartTime verifies a provided start time is
preserved and a missing one is backfilled.
*/
func TestService_Record_KeepsClientStartTime(t *testing.T) {
	service := newTestService(&fakeArchive{}, &fakeStats{})
	startedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	record, err := service.Record(context.Background(), "user-1", game.RecordInput{
		Moves:     xWinMoves(),
		StartedAt: startedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, startedAt, record.StartedAt)

	backfilled, err := service.Record(context.Background(), "user-1", game.RecordInput{Moves: xWinMoves()})
	require.NoError(t, err)
	assert.False(t, backfilled.StartedAt.IsZero())
}

/*
TestService_History verifies the archive passthrough and its error wrapping.
*/
func TestService_History(t *testing.T) {
	t.Run("returns_archive_entries", func(t *testing.T) {
		archive := &fakeArchive{history: []game.Game{{ID: "g-1"}, {ID: "g-2"}}}
		service := newTestService(archive, &fakeStats{})

		games, err := service.History(context.Background(), "user-1", 10)
		require.NoError(t, err)
		assert.Len(t, games, 2)
	})

	t.Run("wraps_storage_failure", func(t *testing.T) {
		archive := &fakeArchive{listErr: errors.New("pool closed")}
		service := newTestService(archive, &fakeStats{})

		_, err := service.History(context.Background(), "user-1", 10)
		require.Error(t, err)
	})
}
