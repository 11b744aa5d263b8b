package repository

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/contract"
	"github.com/stxplay/tictactoe-client/internal/entity"
)

var ErrGameNotFound = contract.ErrGameNotFound

// fetchParallelism bounds the concurrent get-game reads during enumeration.
const fetchParallelism = 8

// ReadOnlyCaller executes a read-only contract call and returns its decoded
// clarity value. Transport failures propagate as-is; retries, if any, belong
// to the caller implementation.
type ReadOnlyCaller interface {
	Call(ctx context.Context, call contract.Call) (clarity.Value, error)
}

type GameRepository interface {
	GameCount(ctx context.Context) (uint64, error)
	GetByID(ctx context.Context, id uint64) (*entity.Game, error)
	GetAll(ctx context.Context) ([]*entity.Game, error)
	PlayerStats(ctx context.Context, player string) (entity.PlayerStats, error)
}

type chainGame struct {
	caller   ReadOnlyCaller
	contract contract.Contract
}

func NewGameRepository(caller ReadOnlyCaller, c contract.Contract) GameRepository {
	return &chainGame{
		caller:   caller,
		contract: c,
	}
}

// GameCount returns the exclusive upper bound of assigned game ids.
func (that *chainGame) GameCount(ctx context.Context) (uint64, error) {
	v, err := that.caller.Call(ctx, that.contract.GetLatestGameID())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch game count: %w", err)
	}

	count, ok := v.(clarity.UInt)
	if !ok {
		return 0, fmt.Errorf("%w: game count is not a uint", clarity.ErrBadValue)
	}

	n, err := count.Uint64()
	if err != nil {
		return 0, fmt.Errorf("failed to read game count: %w", err)
	}

	return n, nil
}

func (that *chainGame) GetByID(ctx context.Context, id uint64) (*entity.Game, error) {
	v, err := that.caller.Call(ctx, that.contract.GetGame(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch game %d: %w", id, err)
	}

	game, err := contract.DecodeGame(id, v)
	if err != nil {
		return nil, err
	}

	return game, nil
}

// GetAll enumerates ids [0, count) with a bounded number of concurrent
// reads and reassembles the results in ascending id order. Unreadable or
// missing entries are skipped; a transport failure fails the whole listing.
func (that *chainGame) GetAll(ctx context.Context) ([]*entity.Game, error) {
	count, err := that.GameCount(ctx)
	if err != nil {
		return nil, err
	}

	fetched := make([]*entity.Game, count)

	g, groupCtx := errgroup.WithContext(ctx)
	g.SetLimit(fetchParallelism)

	for id := uint64(0); id < count; id++ {
		g.Go(func() error {
			game, err := that.GetByID(groupCtx, id)
			if errors.Is(err, ErrGameNotFound) {
				return nil
			}
			if err != nil {
				return err
			}

			fetched[id] = game
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	games := make([]*entity.Game, 0, count)
	for _, game := range fetched {
		if game != nil {
			games = append(games, game)
		}
	}

	return games, nil
}

// PlayerStats fetches one player's record. A transport failure propagates;
// an undecodable tuple degrades to a zero record.
func (that *chainGame) PlayerStats(ctx context.Context, player string) (entity.PlayerStats, error) {
	call, err := that.contract.GetPlayerStats(player)
	if err != nil {
		return entity.PlayerStats{}, err
	}

	v, err := that.caller.Call(ctx, call)
	if err != nil {
		return entity.PlayerStats{}, fmt.Errorf("failed to fetch stats for %s: %w", player, err)
	}

	return contract.DecodePlayerStats(v), nil
}
