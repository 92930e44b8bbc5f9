// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package game implements the tic-tac-toe domain: the board, move replay,
win detection, and the per-player game archive.

A finished game arrives from the client as an ordered move list. The server
never trusts the client's claimed outcome — it replays the moves against
the board rules and derives the outcome itself before anything is persisted
or counted toward a player's record.
*/
package game

import (
	"fmt"

	"github.com/caovandan/caro/internal/platform/apperr"
)

// # Board Model

// Marker is one player's symbol.
type Marker string

const (
	MarkerX Marker = "X"
	MarkerO Marker = "O"

	// markerNone is an empty cell.
	markerNone Marker = ""
)

// Positions are named column-row, chess style: columns a–c left to right,
// rows 1–3 top to bottom. "a1" is the top-left corner, "c3" bottom-right.
var positionIndex = map[string]int{
	"a1": 0, "b1": 1, "c1": 2,
	"a2": 3, "b2": 4, "c2": 5,
	"a3": 6, "b3": 7, "c3": 8,
}

// positionNames is the inverse of positionIndex, in board order.
var positionNames = [9]string{"a1", "b1", "c1", "a2", "b2", "c2", "a3", "b3", "c3"}

// winLines enumerates the eight winning triples: three rows, three
// columns, two diagonals.
var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Move is one placement in a game.
type Move struct {
	Position string `json:"position"`
	Marker   Marker `json:"marker"`
}

// Board is the 3×3 grid state.
type Board struct {
	cells [9]Marker
	moves int
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{}
}

/*
Apply places a marker, enforcing the board rules.

Description: Rejects unknown positions, occupied cells, markers other than
X/O, and out-of-turn placements (X always moves first, turns alternate).

Parameters:
  - move: Move

Returns:
  - error: VALIDATION_ERROR describing the violated rule
*/
func (board *Board) Apply(move Move) error {
	index, known := positionIndex[move.Position]
	if !known {
		return apperr.ValidationError(fmt.Sprintf("Unknown position %q", move.Position))
	}

	if move.Marker != MarkerX && move.Marker != MarkerO {
		return apperr.ValidationError(fmt.Sprintf("Unknown marker %q", move.Marker))
	}

	if board.cells[index] != markerNone {
		return apperr.ValidationError(fmt.Sprintf("Position %q is already occupied", move.Position))
	}

	if move.Marker != board.NextMarker() {
		return apperr.ValidationError(fmt.Sprintf("It is not %s's turn", move.Marker))
	}

	board.cells[index] = move.Marker
	board.moves++
	return nil
}

// NextMarker returns whose turn it is. X opens every game.
func (board *Board) NextMarker() Marker {
	if board.moves%2 == 0 {
		return MarkerX
	}
	return MarkerO
}

// Full reports whether every cell is occupied.
func (board *Board) Full() bool {
	return board.moves == len(board.cells)
}

/*
Winner scans the eight lines for three matching markers.

Returns:
  - Marker: The winning marker, or "" if no line is complete
  - []string: The winning line's positions, nil when there is no winner
*/
func (board *Board) Winner() (Marker, []string) {
	for _, line := range winLines {
		first := board.cells[line[0]]
		if first == markerNone {
			continue
		}
		if board.cells[line[1]] == first && board.cells[line[2]] == first {
			return first, []string{
				positionNames[line[0]],
				positionNames[line[1]],
				positionNames[line[2]],
			}
		}
	}
	return markerNone, nil
}

/*
Replay runs a full move list through a fresh board.

Description: Moves after a completed win line are rejected — a finished
game cannot be padded. The move list is treated as append-only history;
Replay never reorders it.

Parameters:
  - moves: []Move

Returns:
  - *Board: Final board state
  - Marker: Winning marker, "" on a draw or unfinished game
  - []string: Winning line positions
  - error: VALIDATION_ERROR on any illegal move
*/
func Replay(moves []Move) (*Board, Marker, []string, error) {
	board := NewBoard()

	for i, move := range moves {
		if winner, _ := board.Winner(); winner != markerNone {
			return nil, markerNone, nil, apperr.ValidationError(
				fmt.Sprintf("Move %d played after the game was already won", i+1))
		}
		if err := board.Apply(move); err != nil {
			return nil, markerNone, nil, err
		}
	}

	winner, line := board.Winner()
	return board, winner, line, nil
}
