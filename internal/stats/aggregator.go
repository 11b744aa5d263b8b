// Package stats fetches and exposes per-player win/loss records. Stats are
// best-effort telemetry: a failed fetch degrades to a zero record and is
// never surfaced as an error to the consumer.
package stats

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/stxplay/tictactoe-client/internal/entity"
)

type statsRepository interface {
	PlayerStats(ctx context.Context, player string) (entity.PlayerStats, error)
}

// GameStats carries the records of both participants of one game.
// PlayerTwo is nil while the game is open. The value is all-or-nothing:
// consumers never observe a half-fetched aggregate.
type GameStats struct {
	PlayerOne entity.PlayerStats  `json:"player_one"`
	PlayerTwo *entity.PlayerStats `json:"player_two,omitempty"`
}

type Aggregator struct {
	logger *slog.Logger
	repo   statsRepository
}

func NewAggregator(logger *slog.Logger, repo statsRepository) *Aggregator {
	return &Aggregator{
		logger: logger.With("component", "stats"),
		repo:   repo,
	}
}

// ForPlayer returns one player's record, absorbing any fetch failure into a
// zero record.
func (that *Aggregator) ForPlayer(ctx context.Context, player string) entity.PlayerStats {
	record, err := that.repo.PlayerStats(ctx, player)
	if err != nil {
		that.logger.Warn("failed to fetch player stats", "player", player, "error", err)
		return entity.PlayerStats{}
	}

	return record
}

// ForGame fetches player-one's record unconditionally and player-two's only
// once someone has joined. Both fetches run concurrently and the result is
// reported only after every requested fetch has resolved.
func (that *Aggregator) ForGame(ctx context.Context, game *entity.Game) *GameStats {
	result := &GameStats{}

	g, groupCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result.PlayerOne = that.ForPlayer(groupCtx, game.PlayerOne)
		return nil
	})

	if !game.IsOpen() {
		g.Go(func() error {
			record := that.ForPlayer(groupCtx, game.PlayerTwo)
			result.PlayerTwo = &record
			return nil
		})
	}

	_ = g.Wait() // fetches absorb their own failures

	return result
}
