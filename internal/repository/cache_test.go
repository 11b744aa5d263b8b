package repository

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stxplay/tictactoe-client/internal/clarity"
	"github.com/stxplay/tictactoe-client/internal/entity"
	"github.com/stxplay/tictactoe-client/testing/suite"
)

func finishedGameValue(winner clarity.Principal) clarity.Value {
	return clarity.SomeOf(clarity.Tuple{Fields: map[string]clarity.Value{
		"player-one":         winner,
		"player-two":         clarity.SomeOf(player(0x22)),
		"is-player-one-turn": clarity.Bool(true),
		"bet-amount":         clarity.NewUInt(1000000),
		"board":              clarity.List{Items: boardItems()},
		"winner":             clarity.SomeOf(winner),
	}})
}

func statsTuple(wins, losses uint64) clarity.Value {
	return clarity.Tuple{Fields: map[string]clarity.Value{
		"wins":   clarity.NewUInt(wins),
		"losses": clarity.NewUInt(losses),
	}}
}

// countingRepo wraps a fake chain repository and counts reads hitting it.
type countingRepo struct {
	inner GameRepository
	reads atomic.Int64
}

func (that *countingRepo) GameCount(ctx context.Context) (uint64, error) {
	that.reads.Add(1)
	return that.inner.GameCount(ctx)
}

func (that *countingRepo) GetByID(ctx context.Context, id uint64) (*entity.Game, error) {
	that.reads.Add(1)
	return that.inner.GetByID(ctx, id)
}

func (that *countingRepo) GetAll(ctx context.Context) ([]*entity.Game, error) {
	that.reads.Add(1)
	return that.inner.GetAll(ctx)
}

func (that *countingRepo) PlayerStats(ctx context.Context, player string) (entity.PlayerStats, error) {
	that.reads.Add(1)
	return that.inner.PlayerStats(ctx, player)
}

func TestCachedRepository_GetByID(t *testing.T) {
	ctx, st := suite.New(t)

	winner := player(0x11)
	finished := finishedGameValue(winner)

	inner := &countingRepo{inner: newTestRepo(&fakeCaller{games: map[uint64]clarity.Value{0: finished}})}
	cached := NewCachedGameRepository(st.Logger, inner, st.Storage, time.Minute)

	// When: the same terminal game is fetched twice
	first, err := cached.GetByID(ctx, 0)
	require.NoError(t, err)

	second, err := cached.GetByID(ctx, 0)
	require.NoError(t, err)

	// Then: the second read is served from the cache
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), inner.reads.Load())
	assert.Equal(t, winner.String(), second.Winner)
}

func TestCachedRepository_NotFoundIsNotCached(t *testing.T) {
	ctx, st := suite.New(t)

	inner := &countingRepo{inner: newTestRepo(&fakeCaller{})}
	cached := NewCachedGameRepository(st.Logger, inner, st.Storage, time.Minute)

	_, err := cached.GetByID(ctx, 5)
	require.ErrorIs(t, err, ErrGameNotFound)

	_, err = cached.GetByID(ctx, 5)
	require.ErrorIs(t, err, ErrGameNotFound)

	// a missing game is re-read every time: it may appear later
	assert.Equal(t, int64(2), inner.reads.Load())
}

func TestCachedRepository_GameCount(t *testing.T) {
	ctx, st := suite.New(t)

	inner := &countingRepo{inner: newTestRepo(&fakeCaller{count: 4})}
	cached := NewCachedGameRepository(st.Logger, inner, st.Storage, time.Minute)

	count, err := cached.GameCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	count, err = cached.GameCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), count)

	assert.Equal(t, int64(1), inner.reads.Load())
}

func TestCachedRepository_GetAll(t *testing.T) {
	ctx, st := suite.New(t)

	caller := &fakeCaller{
		count: 2,
		games: map[uint64]clarity.Value{
			0: gameValue(player(0x11)),
			1: gameValue(player(0x22)),
		},
	}
	inner := &countingRepo{inner: newTestRepo(caller)}
	cached := NewCachedGameRepository(st.Logger, inner, st.Storage, time.Minute)

	games, err := cached.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, uint64(0), games[0].ID)
	assert.Equal(t, uint64(1), games[1].ID)

	// When: the listing is fetched again inside the TTL
	reads := inner.reads.Load()
	_, err = cached.GetAll(ctx)
	require.NoError(t, err)

	// Then: count and games are all served from the cache
	assert.Equal(t, reads, inner.reads.Load())
}

func TestCachedRepository_StatsPassThrough(t *testing.T) {
	ctx, st := suite.New(t)

	caller := &fakeCaller{stats: statsTuple(3, 1)}
	inner := &countingRepo{inner: newTestRepo(caller)}
	cached := NewCachedGameRepository(st.Logger, inner, st.Storage, time.Minute)

	record, err := cached.PlayerStats(ctx, testContractAddress)
	require.NoError(t, err)
	assert.Equal(t, entity.PlayerStats{Wins: 3, Losses: 1}, record)

	_, err = cached.PlayerStats(ctx, testContractAddress)
	require.NoError(t, err)

	// stats are telemetry and always read through
	assert.Equal(t, int64(2), inner.reads.Load())
}
