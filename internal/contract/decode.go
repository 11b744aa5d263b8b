package contract

import (
	"errors"
	"math/big"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/entity"
)

var ErrGameNotFound = errors.New("game not found")

// DecodeGame maps the optional game tuple returned by get-game onto a Game
// snapshot. Any structurally unexpected shape yields ErrGameNotFound rather
// than a partially populated record: an enumeration over all games must be
// able to skip unreadable entries.
func DecodeGame(gameID uint64, v clarity.Value) (*entity.Game, error) {
	wrapper, ok := v.(clarity.Optional)
	if !ok || wrapper.IsNone() {
		return nil, ErrGameNotFound
	}

	tuple, ok := wrapper.Some.(clarity.Tuple)
	if !ok {
		return nil, ErrGameNotFound
	}

	playerOne, ok := principalField(tuple, "player-one")
	if !ok {
		return nil, ErrGameNotFound
	}

	playerTwo, ok := optionalPrincipalField(tuple, "player-two")
	if !ok {
		return nil, ErrGameNotFound
	}

	isPlayerOneTurn, ok := tuple.Field("is-player-one-turn").(clarity.Bool)
	if !ok {
		return nil, ErrGameNotFound
	}

	betAmount, ok := uintField(tuple, "bet-amount")
	if !ok {
		return nil, ErrGameNotFound
	}

	board, ok := boardField(tuple, "board")
	if !ok {
		return nil, ErrGameNotFound
	}

	winner, ok := optionalPrincipalField(tuple, "winner")
	if !ok {
		return nil, ErrGameNotFound
	}

	return &entity.Game{
		ID:              gameID,
		PlayerOne:       playerOne,
		PlayerTwo:       playerTwo,
		IsPlayerOneTurn: bool(isPlayerOneTurn),
		BetAmount:       betAmount,
		Board:           board,
		Winner:          winner,
	}, nil
}

// DecodePlayerStats maps the stats tuple onto PlayerStats. Stats are
// best-effort telemetry: any decode problem falls back to a zero record
// instead of an error.
func DecodePlayerStats(v clarity.Value) entity.PlayerStats {
	tuple, ok := v.(clarity.Tuple)
	if !ok {
		return entity.PlayerStats{}
	}

	wins, ok := counterField(tuple, "wins")
	if !ok {
		return entity.PlayerStats{}
	}

	losses, ok := counterField(tuple, "losses")
	if !ok {
		return entity.PlayerStats{}
	}

	return entity.PlayerStats{Wins: wins, Losses: losses}
}

func principalField(t clarity.Tuple, name string) (string, bool) {
	p, ok := t.Field(name).(clarity.Principal)
	if !ok {
		return "", false
	}
	return p.String(), true
}

func optionalPrincipalField(t clarity.Tuple, name string) (string, bool) {
	opt, ok := t.Field(name).(clarity.Optional)
	if !ok {
		return "", false
	}

	if opt.IsNone() {
		return "", true
	}

	p, ok := opt.Some.(clarity.Principal)
	if !ok {
		return "", false
	}

	return p.String(), true
}

func uintField(t clarity.Tuple, name string) (*big.Int, bool) {
	u, ok := t.Field(name).(clarity.UInt)
	if !ok || u.N == nil || u.N.Sign() < 0 {
		return nil, false
	}
	return new(big.Int).Set(u.N), true
}

func counterField(t clarity.Tuple, name string) (uint64, bool) {
	u, ok := t.Field(name).(clarity.UInt)
	if !ok {
		return 0, false
	}

	n, err := u.Uint64()
	if err != nil {
		return 0, false
	}

	return n, true
}

func boardField(t clarity.Tuple, name string) ([entity.BoardSize]entity.Move, bool) {
	var board [entity.BoardSize]entity.Move

	list, ok := t.Field(name).(clarity.List)
	if !ok || len(list.Items) != entity.BoardSize {
		return board, false
	}

	for i, item := range list.Items {
		cell, ok := item.(clarity.UInt)
		if !ok {
			return board, false
		}

		n, err := cell.Uint64()
		if err != nil || n > uint64(entity.MoveO) {
			return board, false
		}

		board[i] = entity.Move(n)
	}

	return board, true
}
