//go:build !production

package testutil

import (
	"encoding/json"

	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

// DecodePayload 把推送消息的 Payload 解成指定类型
func DecodePayload[T any](msg *protocol.Message) (*T, error) {
	var payload T
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
