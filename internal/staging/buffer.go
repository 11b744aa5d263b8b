// Package staging holds the tentative move a viewer has picked before it is
// submitted. The staged overlay is a pure UI preview: nothing here touches
// the chain, and the buffer is reseeded from the next snapshot after every
// submission attempt, successful or not.
package staging

import (
	"fmt"

	"github.com/stxplay/tictactoe-client/internal/apperror"
	"github.com/stxplay/tictactoe-client/internal/entity"
	"github.com/stxplay/tictactoe-client/internal/view"
)

// NoSelection marks a buffer with no staged move.
const NoSelection = -1

// Buffer stages at most one move per turn on top of a game snapshot.
type Buffer struct {
	game     *entity.Game
	viewer   string
	board    [entity.BoardSize]entity.Move
	selected int
}

// New seeds a buffer from a fetched snapshot for one viewer.
func New(game *entity.Game, viewer string) *Buffer {
	that := &Buffer{viewer: viewer}
	that.Reseed(game)
	return that
}

// NewBlank seeds a buffer for the create-game screen: an empty board where
// the creator stages the opening X.
func NewBlank(viewer string) *Buffer {
	return &Buffer{
		viewer:   viewer,
		board:    entity.EmptyBoard(),
		selected: NoSelection,
	}
}

// Reseed replaces the underlying snapshot and discards any staged move. It
// is called for every new fetch and whenever the game identity changes; an
// in-flight submission is unaffected because its arguments were copied out
// at submit time.
func (that *Buffer) Reseed(game *entity.Game) {
	that.game = game
	that.board = game.Board
	that.selected = NoSelection
}

// Select stages the next move at index, replacing any previous selection.
// Only one move may be staged at a time: the contract accepts one move per
// call.
func (that *Buffer) Select(index int) error {
	if index < 0 || index >= entity.BoardSize {
		return fmt.Errorf("%w: %d", apperror.ErrInvalidMoveIndex, index)
	}

	snapshot := entity.EmptyBoard()
	nextMove := entity.MoveX
	if that.game != nil {
		snapshot = that.game.Board

		state := view.Derive(that.game, that.viewer)
		if state.IsGameOver {
			return apperror.ErrGameFinished
		}
		if !state.IsMyTurn && !state.IsJoinable {
			return apperror.ErrNotYourTurn
		}
		nextMove = state.NextMove
	}

	if snapshot[index] != entity.MoveEmpty {
		return fmt.Errorf("%w: cell %d", apperror.ErrCellOccupied, index)
	}

	// drop the previous overlay before placing the new one
	that.board = snapshot
	that.board[index] = nextMove
	that.selected = index

	return nil
}

// Board returns the snapshot board with the staged move overlaid.
func (that *Buffer) Board() [entity.BoardSize]entity.Move {
	return that.board
}

// SelectedIndex returns the staged cell, or NoSelection.
func (that *Buffer) SelectedIndex() int {
	return that.selected
}

// NextMove returns the mark a staged move would place.
func (that *Buffer) NextMove() entity.Move {
	if that.game == nil || that.game.IsPlayerOneTurn {
		return entity.MoveX
	}
	return entity.MoveO
}
