package contract

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/entity"
)

func principalOne() clarity.Principal {
	p := clarity.Principal{Version: 26}
	p.Hash[0] = 0x11
	return p
}

func principalTwo() clarity.Principal {
	p := clarity.Principal{Version: 26}
	p.Hash[0] = 0x22
	return p
}

func uintCell(n uint64) clarity.Value {
	return clarity.NewUInt(n)
}

func boardList(cells ...uint64) clarity.Value {
	items := make([]clarity.Value, 0, len(cells))
	for _, cell := range cells {
		items = append(items, uintCell(cell))
	}
	return clarity.List{Items: items}
}

func gameTuple(overrides map[string]clarity.Value) clarity.Value {
	fields := map[string]clarity.Value{
		"player-one":         principalOne(),
		"player-two":         clarity.SomeOf(principalTwo()),
		"is-player-one-turn": clarity.Bool(true),
		"bet-amount":         clarity.NewUInt(5000000),
		"board":              boardList(1, 2, 0, 0, 0, 0, 0, 0, 0),
		"winner":             clarity.None(),
	}
	for name, v := range overrides {
		if v == nil {
			delete(fields, name)
			continue
		}
		fields[name] = v
	}

	return clarity.SomeOf(clarity.Tuple{Fields: fields})
}

func TestDecodeGame(t *testing.T) {
	// Given: a well-formed optional game tuple
	v := gameTuple(nil)

	// When: it is decoded
	game, err := DecodeGame(7, v)

	// Then: every field maps onto the snapshot
	require.NoError(t, err)
	assert.Equal(t, uint64(7), game.ID)
	assert.Equal(t, principalOne().String(), game.PlayerOne)
	assert.Equal(t, principalTwo().String(), game.PlayerTwo)
	assert.True(t, game.IsPlayerOneTurn)
	assert.Equal(t, int64(5000000), game.BetAmount.Int64())
	assert.Equal(t, [entity.BoardSize]entity.Move{entity.MoveX, entity.MoveO}, game.Board)
	assert.Empty(t, game.Winner)
	assert.False(t, game.IsOver())
}

func TestDecodeGame_Deterministic(t *testing.T) {
	first, err := DecodeGame(1, gameTuple(nil))
	require.NoError(t, err)

	second, err := DecodeGame(1, gameTuple(nil))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestDecodeGame_OpenGame(t *testing.T) {
	// Given: a game nobody has joined yet
	v := gameTuple(map[string]clarity.Value{"player-two": clarity.None()})

	game, err := DecodeGame(0, v)

	require.NoError(t, err)
	assert.Empty(t, game.PlayerTwo)
	assert.True(t, game.IsOpen())
}

func TestDecodeGame_Winner(t *testing.T) {
	v := gameTuple(map[string]clarity.Value{"winner": clarity.SomeOf(principalOne())})

	game, err := DecodeGame(0, v)

	require.NoError(t, err)
	assert.Equal(t, principalOne().String(), game.Winner)
	assert.True(t, game.IsOver())
}

func TestDecodeGame_BigBetAmount(t *testing.T) {
	// Given: a bet amount beyond the float64-safe integer range
	bet, ok := new(big.Int).SetString("9007199254740993", 10)
	require.True(t, ok)

	v := gameTuple(map[string]clarity.Value{"bet-amount": clarity.UInt{N: bet}})

	game, err := DecodeGame(0, v)

	// Then: the amount decodes without precision loss
	require.NoError(t, err)
	assert.Equal(t, "9007199254740993", game.BetAmount.String())
	assert.Equal(t, 1, game.BetAmount.Cmp(big.NewInt(9007199254740992)))
}

func TestDecodeGame_NotFound(t *testing.T) {
	tests := []struct {
		name  string
		input clarity.Value
	}{
		{name: "None", input: clarity.None()},
		{name: "NotAnOptional", input: clarity.Bool(true)},
		{name: "SomeOfNonTuple", input: clarity.SomeOf(clarity.NewUInt(1))},
		{name: "MissingPlayerOne", input: gameTuple(map[string]clarity.Value{"player-one": nil})},
		{name: "MistypedTurnFlag", input: gameTuple(map[string]clarity.Value{"is-player-one-turn": clarity.NewUInt(1)})},
		{name: "MissingBoard", input: gameTuple(map[string]clarity.Value{"board": nil})},
		{name: "ShortBoard", input: gameTuple(map[string]clarity.Value{"board": boardList(1, 2)})},
		{name: "BoardCellOutOfRange", input: gameTuple(map[string]clarity.Value{"board": boardList(9, 0, 0, 0, 0, 0, 0, 0, 0)})},
		{name: "MistypedWinner", input: gameTuple(map[string]clarity.Value{"winner": clarity.Bool(false)})},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			game, err := DecodeGame(0, tc.input)

			// Then: no partially-populated record comes back
			require.ErrorIs(t, err, ErrGameNotFound)
			assert.Nil(t, game)
		})
	}
}

func TestDecodePlayerStats(t *testing.T) {
	v := clarity.Tuple{Fields: map[string]clarity.Value{
		"wins":   clarity.NewUInt(4),
		"losses": clarity.NewUInt(2),
	}}

	record := DecodePlayerStats(v)

	assert.Equal(t, entity.PlayerStats{Wins: 4, Losses: 2}, record)
}

func TestDecodePlayerStats_FallsBackToZero(t *testing.T) {
	tests := []struct {
		name  string
		input clarity.Value
	}{
		{name: "NotATuple", input: clarity.NewUInt(1)},
		{name: "MissingWins", input: clarity.Tuple{Fields: map[string]clarity.Value{"losses": clarity.NewUInt(2)}}},
		{name: "MistypedLosses", input: clarity.Tuple{Fields: map[string]clarity.Value{
			"wins":   clarity.NewUInt(1),
			"losses": clarity.Bool(true),
		}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Then: stats degrade to a zero record, never an error
			assert.Equal(t, entity.PlayerStats{}, DecodePlayerStats(tc.input))
		})
	}
}

func TestContractCalls(t *testing.T) {
	c := New("ST1B95HGVJ45TG1970HCTCVZMZJYVAMJ4VV8SZGRC", "tic-tac-toe-v2")

	t.Run("CreateGame", func(t *testing.T) {
		call := c.CreateGame(big.NewInt(1000000), 4, entity.MoveX)

		assert.Equal(t, FnCreateGame, call.Function)
		require.Len(t, call.Args, 3)
		assert.Equal(t, int64(1000000), call.Args[0].(clarity.UInt).N.Int64())
		assert.Equal(t, int64(4), call.Args[1].(clarity.UInt).N.Int64())
		assert.Equal(t, int64(entity.MoveX), call.Args[2].(clarity.UInt).N.Int64())
	})

	t.Run("JoinGame", func(t *testing.T) {
		call := c.JoinGame(3, 0, entity.MoveO)

		assert.Equal(t, FnJoinGame, call.Function)
		require.Len(t, call.Args, 3)
		assert.Equal(t, int64(3), call.Args[0].(clarity.UInt).N.Int64())
	})

	t.Run("Play", func(t *testing.T) {
		call := c.Play(3, 8, entity.MoveX)

		assert.Equal(t, FnPlay, call.Function)
		require.Len(t, call.Args, 3)
		assert.Equal(t, int64(8), call.Args[1].(clarity.UInt).N.Int64())
	})

	t.Run("GetPlayerStats", func(t *testing.T) {
		call, err := c.GetPlayerStats("ST1B95HGVJ45TG1970HCTCVZMZJYVAMJ4VV8SZGRC")

		require.NoError(t, err)
		assert.Equal(t, FnGetPlayerStats, call.Function)
		require.Len(t, call.Args, 1)
	})

	t.Run("GetPlayerStatsRejectsBadPrincipal", func(t *testing.T) {
		_, err := c.GetPlayerStats("not-an-address")

		require.Error(t, err)
	})
}
