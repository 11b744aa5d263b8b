package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stxplay/tictactoe-client/internal/entity"
)

// cachedGame is a read-through cache over a GameRepository. Terminal games
// are immutable on chain and cached without expiry; active games and the
// counter get a short TTL. Cache failures degrade to direct reads and are
// only logged: the chain stays the source of truth.
type cachedGame struct {
	logger *slog.Logger
	inner  GameRepository
	client *redis.Client
	ttl    time.Duration
}

func NewCachedGameRepository(logger *slog.Logger, inner GameRepository, client *redis.Client, ttl time.Duration) GameRepository {
	return &cachedGame{
		logger: logger.With("component", "game-cache"),
		inner:  inner,
		client: client,
		ttl:    ttl,
	}
}

func (that *cachedGame) GameCount(ctx context.Context) (uint64, error) {
	const key = "games:count"

	if raw, err := that.client.Get(ctx, key).Result(); err == nil {
		if count, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil {
			return count, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		that.logger.Warn("cache read failed", "key", key, "error", err)
	}

	count, err := that.inner.GameCount(ctx)
	if err != nil {
		return 0, err
	}

	if err = that.client.Set(ctx, key, strconv.FormatUint(count, 10), that.ttl).Err(); err != nil {
		that.logger.Warn("cache write failed", "key", key, "error", err)
	}

	return count, nil
}

func (that *cachedGame) GetByID(ctx context.Context, id uint64) (*entity.Game, error) {
	key := gameKey(id)

	if raw, err := that.client.Get(ctx, key).Result(); err == nil {
		var game entity.Game
		if unmarshalErr := json.Unmarshal([]byte(raw), &game); unmarshalErr == nil {
			return &game, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		that.logger.Warn("cache read failed", "key", key, "error", err)
	}

	game, err := that.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	that.store(ctx, key, game)

	return game, nil
}

func (that *cachedGame) GetAll(ctx context.Context) ([]*entity.Game, error) {
	count, err := that.GameCount(ctx)
	if err != nil {
		return nil, err
	}

	games := make([]*entity.Game, 0, count)
	for id := uint64(0); id < count; id++ {
		game, err := that.GetByID(ctx, id)
		if errors.Is(err, ErrGameNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		games = append(games, game)
	}

	return games, nil
}

func (that *cachedGame) PlayerStats(ctx context.Context, player string) (entity.PlayerStats, error) {
	return that.inner.PlayerStats(ctx, player)
}

func (that *cachedGame) store(ctx context.Context, key string, game *entity.Game) {
	raw, err := json.Marshal(game)
	if err != nil {
		that.logger.Warn("failed to marshal game for cache", "key", key, "error", err)
		return
	}

	ttl := that.ttl
	if game.IsOver() {
		ttl = 0 // terminal games never change again
	}

	if err = that.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		that.logger.Warn("cache write failed", "key", key, "error", err)
	}
}

func gameKey(id uint64) string {
	return fmt.Sprintf("game:%d", id)
}
