package server

import (
	"log/slog"
	"sync"

	"github.com/palemoky/kash-scorekeeper/internal/metrics"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/codec"
)

// Hub 按对局分组的实时订阅者集合，实现 session.Notifier
type Hub struct {
	subs    map[string]map[*Subscriber]struct{}
	metrics *metrics.Metrics
	closed  bool
	mu      sync.RWMutex
}

// NewHub 创建订阅中心，m 可为 nil
func NewHub(m *metrics.Metrics) *Hub {
	return &Hub{
		subs:    make(map[string]map[*Subscriber]struct{}),
		metrics: m,
	}
}

// Publish 把消息推给订阅该对局的所有连接，消息只编码一次
func (h *Hub) Publish(gameID string, msg *protocol.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	subs := h.subs[gameID]
	if len(subs) == 0 {
		return
	}

	data, err := codec.Encode(msg)
	if err != nil {
		slog.Error("❌ 推送消息编码失败", "game", gameID, "type", msg.Type, "error", err)
		return
	}
	for sub := range subs {
		sub.sendRaw(data)
	}
}

// Count 返回某个对局的订阅者数量
func (h *Hub) Count(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[gameID])
}

// Total 返回全部订阅者数量
func (h *Hub) Total() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, subs := range h.subs {
		n += len(subs)
	}
	return n
}

func (h *Hub) register(sub *Subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	set, ok := h.subs[sub.GameID]
	if !ok {
		set = make(map[*Subscriber]struct{})
		h.subs[sub.GameID] = set
	}
	set[sub] = struct{}{}
	if h.metrics != nil {
		h.metrics.LiveSubscribers.Inc()
	}
	return true
}

func (h *Hub) unregister(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[sub.GameID]
	if !ok {
		return
	}
	if _, ok := set[sub]; !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.GameID)
	}
	if h.metrics != nil {
		h.metrics.LiveSubscribers.Dec()
	}
}

// Close 关闭所有订阅连接，之后的注册会被拒绝
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Subscriber
	for _, set := range h.subs {
		for sub := range set {
			all = append(all, sub)
		}
	}
	h.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
}
