// Package protocol defines the JSON messages pushed to live-feed subscribers.
package protocol

import "encoding/json"

// Message 基础消息结构
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MessageType 消息类型
type MessageType string

// 服务端 → 订阅者 消息类型
const (
	MsgGameState   MessageType = "game_state"   // 当前对局快照
	MsgRoundResult MessageType = "round_result" // 一轮结算结果
	MsgGameOver    MessageType = "game_over"    // 有人输掉
	MsgGameReset   MessageType = "game_reset"   // 对局被重置

	MsgPong  MessageType = "pong"
	MsgError MessageType = "error"
)

// 订阅者 → 服务端 消息类型
const (
	MsgPing MessageType = "ping" // 心跳
)
