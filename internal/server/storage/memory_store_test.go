package storage

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestMemoryStore(t *testing.T, expiration time.Duration) (*MemoryStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	ms := NewMemoryStore(expiration, 0)
	ms.now = clock.now
	t.Cleanup(func() { _ = ms.Close() })
	return ms, clock
}

func TestMemoryStore_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	ms, _ := newTestMemoryStore(t, time.Hour)
	ctx := context.Background()

	game := sampleGame("g1")
	require.NoError(t, ms.SaveGame(ctx, game))

	loaded, err := ms.LoadGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, game, loaded)

	require.NoError(t, ms.DeleteGame(ctx, "g1"))
	loaded, err = ms.LoadGame(ctx, "g1")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestMemoryStore_CopiesRecords(t *testing.T) {
	t.Parallel()

	ms, _ := newTestMemoryStore(t, time.Hour)
	ctx := context.Background()

	game := sampleGame("g1")
	require.NoError(t, ms.SaveGame(ctx, game))

	// 修改调用方持有的数据不影响已保存的记录
	game.Scores["A"] = 99

	first, err := ms.LoadGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 0, first.Scores["A"])

	first.Scores["B"] = 50
	second, err := ms.LoadGame(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Scores["B"])
}

func TestMemoryStore_Expiration(t *testing.T) {
	t.Parallel()

	ms, clock := newTestMemoryStore(t, 10*time.Minute)
	ctx := context.Background()

	require.NoError(t, ms.SaveGame(ctx, sampleGame("old")))
	clock.t = clock.t.Add(6 * time.Minute)
	require.NoError(t, ms.SaveGame(ctx, sampleGame("new")))
	clock.t = clock.t.Add(5 * time.Minute)

	loaded, err := ms.LoadGame(ctx, "old")
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	ids, err := ms.GetAllGameIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, ids)

	assert.Equal(t, 1, ms.purgeExpired())
	assert.Len(t, ms.entries, 1)
}

func TestMemoryStore_GetAllGameIDs(t *testing.T) {
	t.Parallel()

	ms, _ := newTestMemoryStore(t, time.Hour)
	ctx := context.Background()

	for _, id := range []string{"b", "a", "c"} {
		require.NoError(t, ms.SaveGame(ctx, sampleGame(id)))
	}

	ids, err := ms.GetAllGameIDs(ctx)
	require.NoError(t, err)
	sort.Strings(ids)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestMemoryStore_CloseIsIdempotent(t *testing.T) {
	t.Parallel()

	ms := NewMemoryStore(time.Hour, time.Millisecond)
	assert.NoError(t, ms.Close())
	assert.NoError(t, ms.Close())
}

func TestMemoryStore_ImplementsStore(t *testing.T) {
	t.Parallel()

	var _ Store = (*MemoryStore)(nil)
	var _ Store = (*RedisStore)(nil)
}
