// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

package game_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caovandan/caro/internal/game"
	"github.com/caovandan/caro/internal/platform/apperr"
)

// moves builds an alternating X/O move list from position names.
func moves(positions ...string) []game.Move {
	list := make([]game.Move, 0, len(positions))
	for i, position := range positions {
		marker := game.MarkerX
		if i%2 == 1 {
			marker = game.MarkerO
		}
		list = append(list, game.Move{Position: position, Marker: marker})
	}
	return list
}

/*
TestBoard_Apply verifies the placement rules one at a time.
*/
func TestBoard_Apply(t *testing.T) {
	t.Run("unknown_position", func(t *testing.T) {
		err := game.NewBoard().Apply(game.Move{Position: "d4", Marker: game.MarkerX})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("unknown_marker", func(t *testing.T) {
		err := game.NewBoard().Apply(game.Move{Position: "a1", Marker: "Z"})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("occupied_cell", func(t *testing.T) {
		board := game.NewBoard()
		require.NoError(t, board.Apply(game.Move{Position: "b2", Marker: game.MarkerX}))

		err := board.Apply(game.Move{Position: "b2", Marker: game.MarkerO})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("o_cannot_open", func(t *testing.T) {
		err := game.NewBoard().Apply(game.Move{Position: "a1", Marker: game.MarkerO})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})

	t.Run("x_cannot_move_twice", func(t *testing.T) {
		board := game.NewBoard()
		require.NoError(t, board.Apply(game.Move{Position: "a1", Marker: game.MarkerX}))

		err := board.Apply(game.Move{Position: "b1", Marker: game.MarkerX})
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

/*
TestBoard_NextMarker verifies X opens and turns alternate.
*/
func TestBoard_NextMarker(t *testing.T) {
	board := game.NewBoard()
	assert.Equal(t, game.MarkerX, board.NextMarker())

	require.NoError(t, board.Apply(game.Move{Position: "a1", Marker: game.MarkerX}))
	assert.Equal(t, game.MarkerO, board.NextMarker())

	require.NoError(t, board.Apply(game.Move{Position: "b2", Marker: game.MarkerO}))
	assert.Equal(t, game.MarkerX, board.NextMarker())
}

/*
TestReplay_WinLines verifies win detection across rows, columns, and both
diagonals, with the winning line reported in board order.
*/
func TestReplay_WinLines(t *testing.T) {
	tests := []struct {
		name      string
		positions []string
		winner    game.Marker
		line      []string
	}{
		{"top_row_x", []string{"a1", "a2", "b1", "b2", "c1"}, game.MarkerX, []string{"a1", "b1", "c1"}},
		{"middle_column_o", []string{"a1", "b1", "a2", "b2", "c3", "b3"}, game.MarkerO, []string{"b1", "b2", "b3"}},
		{"main_diagonal_x", []string{"a1", "b1", "b2", "c1", "c3"}, game.MarkerX, []string{"a1", "b2", "c3"}},
		{"anti_diagonal_x", []string{"c1", "a1", "b2", "b1", "a3"}, game.MarkerX, []string{"c1", "b2", "a3"}},
		{"bottom_row_o", []string{"a1", "a3", "b1", "b3", "c2", "c3"}, game.MarkerO, []string{"a3", "b3", "c3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, winner, line, err := game.Replay(moves(tt.positions...))
			require.NoError(t, err)
			assert.Equal(t, tt.winner, winner)
			assert.Equal(t, tt.line, line)
		})
	}
}

/*
TestReplay_Draw verifies a full board with no line yields no winner.
*/
func TestReplay_Draw(t *testing.T) {
	// Final board: X O X / X O O / O X X
	board, winner, line, err := game.Replay(moves(
		"a1", "b1", "c1",
		"b2", "a2", "c2",
		"b3", "a3", "c3",
	))
	require.NoError(t, err)
	assert.Equal(t, game.Marker(""), winner)
	assert.Nil(t, line)
	assert.True(t, board.Full())
}

/*
TestReplay_RejectsMovesAfterWin verifies a finished game cannot be padded
with further moves.
*/
func TestReplay_RejectsMovesAfterWin(t *testing.T) {
	// X completes the top row on move 5; move 6 must be rejected.
	_, _, _, err := game.Replay(moves("a1", "a2", "b1", "b2", "c1", "c3"))
	require.Error(t, err)
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	assert.Contains(t, err.Error(), "already won")
}

/*
TestReplay_PropagatesIllegalMove verifies replay stops on the first
rule violation in the list.
*/
func TestReplay_PropagatesIllegalMove(t *testing.T) {
	_, _, _, err := game.Replay([]game.Move{
		{Position: "a1", Marker: game.MarkerX},
		{Position: "a1", Marker: game.MarkerO},
	})
	assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
}
