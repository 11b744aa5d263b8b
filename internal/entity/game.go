package entity

import "math/big"

const BoardSize = 9

// Move is the contents of a single board cell as the contract encodes it.
type Move uint

const (
	MoveEmpty Move = 0
	MoveX     Move = 1
	MoveO     Move = 2
)

func (that Move) String() string {
	switch that {
	case MoveX:
		return "X"
	case MoveO:
		return "O"
	default:
		return ""
	}
}

// IsMark reports whether the move is a playable mark, not an empty cell.
func (that Move) IsMark() bool {
	return that == MoveX || that == MoveO
}

// Game is an immutable snapshot of one on-chain game as of a single fetch.
// Later fetches supersede it; nothing in the client mutates it in place.
type Game struct {
	ID              uint64          `json:"id"`
	PlayerOne       string          `json:"player_one"`
	PlayerTwo       string          `json:"player_two,omitempty"`
	IsPlayerOneTurn bool            `json:"is_player_one_turn"`
	BetAmount       *big.Int        `json:"bet_amount"`
	Board           [BoardSize]Move `json:"board"`
	Winner          string          `json:"winner,omitempty"`
}

// IsOpen reports whether the game is still waiting for a second player.
func (that *Game) IsOpen() bool {
	return that.PlayerTwo == ""
}

// IsOver reports whether the contract has recorded a terminal outcome.
// A full board with no winner is still "active": draw handling lives in
// the contract and is only ever observed through the winner field.
func (that *Game) IsOver() bool {
	return that.Winner != ""
}

func EmptyBoard() [BoardSize]Move {
	return [BoardSize]Move{}
}

// PlayerStats is a best-effort win/loss record for one principal. It is
// fetched independently of games and must never be treated as
// correctness-critical input.
type PlayerStats struct {
	Wins   uint64 `json:"wins"`
	Losses uint64 `json:"losses"`
}
