// Package view derives the UI-relevant reading of a game snapshot for one
// viewer. Everything here is pure: no I/O, no mutation, total over any
// decoded Game.
package view

import "github.com/stxplay/tictactoe-client/internal/entity"

type Role int

const (
	RoleSpectator Role = iota
	RolePlayerOne
	RolePlayerTwo
)

func (that Role) String() string {
	switch that {
	case RolePlayerOne:
		return "player-one"
	case RolePlayerTwo:
		return "player-two"
	default:
		return "spectator"
	}
}

// State is the derived reading of one snapshot. NextMove is the mark the
// next accepted move will place, whoever ends up placing it.
type State struct {
	Role       Role
	IsJoinable bool
	HasJoined  bool
	IsMyTurn   bool
	IsGameOver bool
	NextMove   entity.Move
}

// Derive computes the viewer's state for a snapshot. An empty viewer means
// unauthenticated and is always a spectator.
func Derive(game *entity.Game, viewer string) State {
	role := RoleSpectator
	switch {
	case viewer != "" && viewer == game.PlayerOne:
		role = RolePlayerOne
	case viewer != "" && viewer == game.PlayerTwo:
		role = RolePlayerTwo
	}

	nextMove := entity.MoveO
	if game.IsPlayerOneTurn {
		nextMove = entity.MoveX
	}

	return State{
		Role:       role,
		IsJoinable: game.IsOpen() && role != RolePlayerOne,
		HasJoined:  role == RolePlayerOne || role == RolePlayerTwo,
		IsMyTurn: (role == RolePlayerOne && game.IsPlayerOneTurn) ||
			(role == RolePlayerTwo && !game.IsPlayerOneTurn),
		IsGameOver: game.IsOver(),
		NextMove:   nextMove,
	}
}
