//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

// MockNotifier 推送目标 mock
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Publish(gameID string, msg *protocol.Message) {
	m.Called(gameID, msg)
}

// RecordingNotifier 记录所有推送，不做断言（用于只关心消息序列的测试）
type RecordingNotifier struct {
	mu       sync.Mutex
	Messages map[string][]*protocol.Message
}

func (r *RecordingNotifier) Publish(gameID string, msg *protocol.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Messages == nil {
		r.Messages = make(map[string][]*protocol.Message)
	}
	r.Messages[gameID] = append(r.Messages[gameID], msg)
}

// Types 返回某个对局收到的消息类型序列
func (r *RecordingNotifier) Types(gameID string) []protocol.MessageType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]protocol.MessageType, 0, len(r.Messages[gameID]))
	for _, m := range r.Messages[gameID] {
		out = append(out, m.Type)
	}
	return out
}
