// Package contract knows the tic-tac-toe contract surface: the fixed
// function names, their argument order, and how its tuple values map onto
// domain entities.
package contract

import (
	"fmt"
	"math/big"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/entity"
)

// Read-only functions.
const (
	FnGetLatestGameID = "get-latest-game-id"
	FnGetGame         = "get-game"
	FnGetPlayerStats  = "get-player-stats"
)

// State-changing functions.
const (
	FnCreateGame = "create-game"
	FnJoinGame   = "join-game"
	FnPlay       = "play"
)

// Call is an immutable descriptor of one contract invocation: the target
// contract, the function, and its arguments in contract order.
type Call struct {
	ContractAddress string
	ContractName    string
	Function        string
	Args            []clarity.Value
}

// Contract binds the descriptor builders to one deployed contract identity.
type Contract struct {
	Address string
	Name    string
}

func New(address, name string) Contract {
	return Contract{Address: address, Name: name}
}

func (that Contract) call(function string, args ...clarity.Value) Call {
	return Call{
		ContractAddress: that.Address,
		ContractName:    that.Name,
		Function:        function,
		Args:            args,
	}
}

func (that Contract) GetLatestGameID() Call {
	return that.call(FnGetLatestGameID)
}

func (that Contract) GetGame(gameID uint64) Call {
	return that.call(FnGetGame, clarity.NewUInt(gameID))
}

func (that Contract) GetPlayerStats(player string) (Call, error) {
	principal, err := clarity.ParsePrincipal(player)
	if err != nil {
		return Call{}, fmt.Errorf("failed to parse player principal: %w", err)
	}

	return that.call(FnGetPlayerStats, principal), nil
}

func (that Contract) CreateGame(betAmount *big.Int, moveIndex uint, move entity.Move) Call {
	return that.call(FnCreateGame,
		clarity.UInt{N: new(big.Int).Set(betAmount)},
		clarity.NewUInt(uint64(moveIndex)),
		clarity.NewUInt(uint64(move)),
	)
}

func (that Contract) JoinGame(gameID uint64, moveIndex uint, move entity.Move) Call {
	return that.call(FnJoinGame,
		clarity.NewUInt(gameID),
		clarity.NewUInt(uint64(moveIndex)),
		clarity.NewUInt(uint64(move)),
	)
}

func (that Contract) Play(gameID uint64, moveIndex uint, move entity.Move) Call {
	return that.call(FnPlay,
		clarity.NewUInt(gameID),
		clarity.NewUInt(uint64(moveIndex)),
		clarity.NewUInt(uint64(move)),
	)
}
