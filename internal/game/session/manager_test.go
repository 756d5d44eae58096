package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
	"github.com/palemoky/kash-scorekeeper/internal/metrics"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
	"github.com/palemoky/kash-scorekeeper/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, *metrics.Metrics, *testutil.RecordingNotifier) {
	t.Helper()

	store := storage.NewMemoryStore(time.Hour, 0)
	t.Cleanup(func() { _ = store.Close() })

	mt := metrics.New()
	rec := &testutil.RecordingNotifier{}

	m := NewManager(store, 0)
	m.SetMetrics(mt)
	m.SetNotifier(rec)
	return m, mt, rec
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func TestManager_CreateGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, mt, rec := newTestManager(t)

	g, err := m.CreateGame(ctx, []string{"Ann", " Bob ", "Cid"})
	require.NoError(t, err)
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, g.Players)

	loaded, err := m.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Players, loaded.Players)
	assert.Equal(t, kash.PhaseRoundInProgress, loaded.Phase)

	assert.Equal(t, 1.0, promtest.ToFloat64(mt.GamesStarted))
	assert.Equal(t, []protocol.MessageType{protocol.MsgGameState}, rec.Types(g.ID))
}

func TestManager_CreateGame_InvalidPlayers(t *testing.T) {
	t.Parallel()

	m, mt, _ := newTestManager(t)

	_, err := m.CreateGame(context.Background(), []string{"Ann", "Ann", "Cid"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPlayers)
	assert.Equal(t, 0.0, promtest.ToFloat64(mt.GamesStarted))
}

func TestManager_GetGame_NotFound(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t)

	for _, id := range []string{"", "missing"} {
		_, err := m.GetGame(context.Background(), id)
		assert.ErrorIs(t, err, apperrors.ErrGameNotFound)
	}
}

func TestManager_SubmitRound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, mt, rec := newTestManager(t)
	g, err := m.CreateGame(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)

	updated, res, err := m.SubmitRound(ctx, g.ID, scoring.Tricks{"A": 5, "B": 6, "C": 5})
	require.NoError(t, err)
	assert.Equal(t, scoring.SwapSchedule{"B": {"A": 2}}, res.Swaps)
	assert.Equal(t, 2, updated.RoundNumber)

	// 已写回存储
	loaded, err := m.GetGame(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.RoundNumber)
	assert.Equal(t, 2, loaded.Scores["B"])
	assert.Len(t, loaded.History, 1)

	assert.Equal(t, 1.0, promtest.ToFloat64(mt.RoundsSettled))
	assert.Equal(t, 2.0, promtest.ToFloat64(mt.Penalties.WithLabelValues("suit_chooser")))
	assert.Equal(t, 0.0, promtest.ToFloat64(mt.UnmatchedTricks))
	assert.Equal(t, []protocol.MessageType{
		protocol.MsgGameState,
		protocol.MsgRoundResult,
		protocol.MsgGameState,
	}, rec.Types(g.ID))

	msg := rec.Messages[g.ID][1]
	payload, err := testutil.DecodePayload[protocol.RoundResultPayload](msg)
	require.NoError(t, err)
	assert.Equal(t, []string{"B swaps 2 cards with A (A takes LOW, B takes TOP)"}, payload.SwapInstructions)
}

func TestManager_SubmitRound_GameOver(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, mt, rec := newTestManager(t)
	g, err := m.CreateGame(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)

	// 每轮由庄家拿走全部 16 墩
	_, _, err = m.SubmitRound(ctx, g.ID, scoring.Tricks{"A": 16})
	require.NoError(t, err)
	_, res, err := m.SubmitRound(ctx, g.ID, scoring.Tricks{"B": 16})
	require.NoError(t, err)
	require.Empty(t, res.Loser)
	_, res, err = m.SubmitRound(ctx, g.ID, scoring.Tricks{"C": 16})
	require.NoError(t, err)

	// 第 1 轮 B 8 + C 5；第 2 轮 C 8 + A 5；第 3 轮 A 8 + B 5
	assert.Equal(t, scoring.Scores{"A": 13, "B": 13, "C": 13}, res.Scores)
	assert.Empty(t, res.Loser)

	_, res, err = m.SubmitRound(ctx, g.ID, scoring.Tricks{"A": 16})
	require.NoError(t, err)
	assert.Equal(t, "B", res.Loser)

	_, _, err = m.SubmitRound(ctx, g.ID, scoring.Tricks{"A": 16})
	assert.ErrorIs(t, err, apperrors.ErrGameOver)

	assert.Equal(t, 1.0, promtest.ToFloat64(mt.GamesFinished))
	types := rec.Types(g.ID)
	assert.Equal(t, protocol.MsgGameOver, types[len(types)-1])
}

func TestManager_SubmitRound_NotFound(t *testing.T) {
	t.Parallel()

	m, _, _ := newTestManager(t)
	_, _, err := m.SubmitRound(context.Background(), "nope", scoring.Tricks{})
	assert.ErrorIs(t, err, apperrors.ErrGameNotFound)
	assert.Zero(t, m.locks.size())
}

func TestManager_SubmitRound_Serialised(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, mt, _ := newTestManager(t)
	g, err := m.CreateGame(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// 对局结束后的提交会返回 ErrGameOver
			_, _, _ = m.SubmitRound(ctx, g.ID, scoring.Tricks{"A": 16})
		}()
	}
	wg.Wait()

	loaded, err := m.GetGame(ctx, g.ID)
	require.NoError(t, err)
	// 每次提交都基于上一轮写回的状态
	assert.Equal(t, len(loaded.History), int(promtest.ToFloat64(mt.RoundsSettled)))
	for i, r := range loaded.History {
		assert.Equal(t, i+1, r.Round)
	}
	assert.Zero(t, m.locks.size())
}

func TestManager_ResetGame(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, mt, rec := newTestManager(t)
	g, err := m.CreateGame(ctx, []string{"A", "B", "C"})
	require.NoError(t, err)

	require.NoError(t, m.ResetGame(ctx, g.ID))

	_, err = m.GetGame(ctx, g.ID)
	assert.ErrorIs(t, err, apperrors.ErrGameNotFound)
	assert.Equal(t, 1.0, promtest.ToFloat64(mt.GamesReset))
	types := rec.Types(g.ID)
	assert.Equal(t, protocol.MsgGameReset, types[len(types)-1])
}

func TestManager_ActiveGames(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	m, _, _ := newTestManager(t)
	for i := range 3 {
		_, err := m.CreateGame(ctx, []string{fmt.Sprintf("A%d", i), "B", "C"})
		require.NoError(t, err)
	}

	over, err := m.CreateGame(ctx, []string{"X", "Y", "Z"})
	require.NoError(t, err)
	for over.Phase != kash.PhaseGameOver {
		over, _, err = m.SubmitRound(ctx, over.ID, scoring.Tricks{})
		require.NoError(t, err)
	}

	n, err := m.ActiveGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestManager_StoreErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	boom := errors.New("boom")

	t.Run("save on create", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{}
		store.On("SaveGame", mock.Anything, mock.Anything).Return(boom)

		_, err := NewManager(store, 0).CreateGame(ctx, []string{"A", "B", "C"})
		assert.ErrorIs(t, err, boom)
		store.AssertExpectations(t)
	})

	t.Run("load", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{}
		store.On("LoadGame", mock.Anything, "g1").Return(nil, boom)

		_, err := NewManager(store, 0).GetGame(ctx, "g1")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, apperrors.ErrGameNotFound)
	})

	t.Run("save on submit", func(t *testing.T) {
		t.Parallel()
		g, err := kash.NewGame("g1", []string{"A", "B", "C"}, 0)
		require.NoError(t, err)

		store := &testutil.MockStore{}
		store.On("LoadGame", mock.Anything, "g1").Return(g.ToGameData(), nil)
		store.On("SaveGame", mock.Anything, mock.Anything).Return(boom)
		notifier := &testutil.MockNotifier{}

		m := NewManager(store, 0)
		m.SetNotifier(notifier)
		_, _, err = m.SubmitRound(ctx, "g1", scoring.Tricks{})
		assert.ErrorIs(t, err, boom)
		notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{}
		store.On("DeleteGame", mock.Anything, "g1").Return(boom)

		assert.ErrorIs(t, NewManager(store, 0).ResetGame(ctx, "g1"), boom)
	})

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		store := &testutil.MockStore{}
		store.On("GetAllGameIDs", mock.Anything).Return(nil, boom)

		_, err := NewManager(store, 0).ActiveGames(ctx)
		assert.ErrorIs(t, err, boom)
	})
}

func TestManager_NotifierMock(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore(time.Hour, 0)
	t.Cleanup(func() { _ = store.Close() })

	notifier := &testutil.MockNotifier{}
	notifier.On("Publish", "fixed-id", mock.MatchedBy(func(msg *protocol.Message) bool {
		return msg.Type == protocol.MsgGameState
	})).Once()

	m := NewManager(store, 5)
	m.newID = func() string { return "fixed-id" }
	m.SetNotifier(notifier)

	g, err := m.CreateGame(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", g.ID)
	assert.Equal(t, 5, g.LosingScore)
	notifier.AssertExpectations(t)
}
