package stats

import (
	"context"
	"log/slog"
	"sync"

	"github.com/stxplay/tictactoe-client/internal/entity"
)

// Loader re-runs the aggregate fetch every time a new game snapshot
// arrives. Each refresh carries a generation number; a fetch that finishes
// after a newer snapshot has superseded it is discarded instead of
// overwriting fresher data.
type Loader struct {
	logger *slog.Logger
	agg    *Aggregator

	mu      sync.Mutex
	gen     uint64
	current *GameStats
}

func NewLoader(logger *slog.Logger, agg *Aggregator) *Loader {
	return &Loader{
		logger: logger.With("component", "stats-loader"),
		agg:    agg,
	}
}

// Refresh starts a fetch for the snapshot and applies the result unless a
// later Refresh has since bumped the generation. onDone, if non-nil, runs
// after the result is applied; it does not run for discarded results.
func (that *Loader) Refresh(ctx context.Context, game *entity.Game, onDone func(*GameStats)) {
	that.mu.Lock()
	that.gen++
	gen := that.gen
	that.mu.Unlock()

	go func() {
		result := that.agg.ForGame(ctx, game)

		that.mu.Lock()
		if gen != that.gen {
			that.mu.Unlock()
			that.logger.Debug("discarding stale stats fetch", "game_id", game.ID)
			return
		}
		that.current = result
		that.mu.Unlock()

		if onDone != nil {
			onDone(result)
		}
	}()
}

// Current returns the last applied aggregate, or nil while still loading.
func (that *Loader) Current() *GameStats {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.current
}
