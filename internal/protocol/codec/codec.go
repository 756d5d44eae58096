// Package codec encodes protocol messages as JSON.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

// 广播时每条消息都要编码一次，复用 Message 与缓冲区
var (
	messagePool = sync.Pool{New: func() any { return &protocol.Message{} }}
	bufferPool  = sync.Pool{New: func() any { return new(bytes.Buffer) }}
)

// getMessage 取出一个空 Message
func getMessage() *protocol.Message {
	return messagePool.Get().(*protocol.Message)
}

// PutMessage 清空后归还 Message
func PutMessage(msg *protocol.Message) {
	if msg == nil {
		return
	}
	*msg = protocol.Message{}
	messagePool.Put(msg)
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	buf.Reset()
	bufferPool.Put(buf)
}

// NewMessage 创建一个新消息
func NewMessage(msgType protocol.MessageType, payload any) (*protocol.Message, error) {
	msg := &protocol.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s payload: %w", msgType, err)
		}
		msg.Payload = data
	}
	return msg, nil
}

// MustNewMessage 创建消息，失败时 panic
func MustNewMessage(msgType protocol.MessageType, payload any) *protocol.Message {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		panic(err)
	}
	return msg
}

// Encode 将消息编码为 JSON 字节
func Encode(m *protocol.Message) ([]byte, error) {
	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(m); err != nil {
		return nil, err
	}
	// Encoder 会追加换行
	out := buf.Bytes()
	return append([]byte(nil), out[:len(out)-1]...), nil
}

// Decode 从 JSON 字节解码消息
// 注意: 使用完毕后可调用 PutMessage 归还对象到池
func Decode(data []byte) (*protocol.Message, error) {
	msg := getMessage()
	if err := json.Unmarshal(data, msg); err != nil {
		PutMessage(msg)
		return nil, err
	}
	return msg, nil
}

// NewErrorMessage 创建错误消息
func NewErrorMessage(code int, text string) *protocol.Message {
	msg, _ := NewMessage(protocol.MsgError, protocol.ErrorPayload{
		Code:    code,
		Message: text,
	})
	return msg
}
