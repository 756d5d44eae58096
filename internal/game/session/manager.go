// Package session owns the lifecycle of stored games: it loads them from a
// storage.Store, applies one operation under a per-game lock, saves them back
// and tells live subscribers what changed.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
	"github.com/palemoky/kash-scorekeeper/internal/metrics"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/codec"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/convert"
	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
)

// Notifier 接收对局变更推送
type Notifier interface {
	Publish(gameID string, msg *protocol.Message)
}

// Manager 对局管理器
type Manager struct {
	store       storage.Store
	losingScore int
	metrics     *metrics.Metrics
	notifier    Notifier
	locks       keyedMutex
	newID       func() string
}

// NewManager 创建对局管理器。losingScore <= 0 时使用 21。
func NewManager(store storage.Store, losingScore int) *Manager {
	return &Manager{
		store:       store,
		losingScore: losingScore,
		locks:       keyedMutex{locks: make(map[string]*refLock)},
		newID:       uuid.NewString,
	}
}

// SetMetrics 绑定指标收集器
func (m *Manager) SetMetrics(mt *metrics.Metrics) {
	m.metrics = mt
}

// SetNotifier 绑定推送目标
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// CreateGame 创建新对局并保存
func (m *Manager) CreateGame(ctx context.Context, names []string) (*kash.Game, error) {
	g, err := kash.NewGame(m.newID(), names, m.losingScore)
	if err != nil {
		return nil, err
	}

	if err := m.store.SaveGame(ctx, g.ToGameData()); err != nil {
		return nil, fmt.Errorf("save game %s: %w", g.ID, err)
	}

	if m.metrics != nil {
		m.metrics.GamesStarted.Inc()
	}
	m.publish(g.ID, protocol.MsgGameState, convert.GameState(g))

	slog.Info("🎲 对局已创建", "game", g.ID, "players", g.Players)
	return g, nil
}

// GetGame 读取对局，不存在时返回 ErrGameNotFound
func (m *Manager) GetGame(ctx context.Context, id string) (*kash.Game, error) {
	if id == "" {
		return nil, apperrors.ErrGameNotFound
	}

	data, err := m.store.LoadGame(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", id, err)
	}
	if data == nil {
		return nil, apperrors.ErrGameNotFound
	}
	return kash.FromGameData(data), nil
}

// SubmitRound 结算一轮。同一对局的并发提交会被串行化。
func (m *Manager) SubmitRound(ctx context.Context, id string, actual scoring.Tricks) (*kash.Game, *kash.RoundResult, error) {
	unlock := m.locks.Lock(id)
	defer unlock()

	g, err := m.GetGame(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	roles := g.Roles()
	res, err := g.SubmitRound(actual)
	if err != nil {
		return nil, nil, err
	}

	if err := m.store.SaveGame(ctx, g.ToGameData()); err != nil {
		return nil, nil, fmt.Errorf("save game %s: %w", id, err)
	}

	m.observeRound(roles, res)
	m.publish(id, protocol.MsgRoundResult, convert.RoundResult(id, g.Players, res))

	if res.Loser != "" {
		m.publish(id, protocol.MsgGameOver, convert.GameOver(g))
		slog.Info("🏁 对局结束", "game", id, "loser", res.Loser, "rounds", len(g.History))
	} else {
		m.publish(id, protocol.MsgGameState, convert.GameState(g))
	}

	return g, res, nil
}

// ResetGame 删除对局
func (m *Manager) ResetGame(ctx context.Context, id string) error {
	unlock := m.locks.Lock(id)
	defer unlock()

	if err := m.store.DeleteGame(ctx, id); err != nil {
		return fmt.Errorf("delete game %s: %w", id, err)
	}

	if m.metrics != nil {
		m.metrics.GamesReset.Inc()
	}
	m.publish(id, protocol.MsgGameReset, protocol.GameResetPayload{GameID: id})

	slog.Info("🧹 对局已重置", "game", id)
	return nil
}

// ActiveGames 统计仍在进行中的对局数量
func (m *Manager) ActiveGames(ctx context.Context) (int, error) {
	ids, err := m.store.GetAllGameIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list games: %w", err)
	}

	count := 0
	for _, id := range ids {
		data, err := m.store.LoadGame(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("load game %s: %w", id, err)
		}
		// 列举与读取之间可能已过期
		if data != nil && kash.Phase(data.Phase) == kash.PhaseRoundInProgress {
			count++
		}
	}
	return count, nil
}

func (m *Manager) observeRound(roles kash.Roles, res *kash.RoundResult) {
	if m.metrics == nil {
		return
	}

	m.metrics.RoundsSettled.Inc()
	m.metrics.SwapCards.Observe(float64(res.Swaps.Total()))

	unmatched := 0
	for _, n := range res.Unmatched {
		unmatched += n
	}
	m.metrics.UnmatchedTricks.Add(float64(unmatched))

	byRole := map[string]string{
		roles.Dealer:      convert.RoleDealer,
		roles.SuitChooser: convert.RoleSuitChooser,
		roles.Third:       convert.RoleThird,
	}
	for p, n := range res.Missing {
		if n > 0 {
			m.metrics.Penalties.WithLabelValues(byRole[p]).Add(float64(n))
		}
	}

	if res.Loser != "" {
		m.metrics.GamesFinished.Inc()
	}
}

func (m *Manager) publish(id string, msgType protocol.MessageType, payload any) {
	if m.notifier == nil {
		return
	}
	msg, err := codec.NewMessage(msgType, payload)
	if err != nil {
		slog.Error("❌ 构造推送消息失败", "game", id, "type", msgType, "error", err)
		return
	}
	m.notifier.Publish(id, msg)
}

// keyedMutex 按对局 ID 加锁，无人持有时回收
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

// Lock 锁住 key，返回解锁函数
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
