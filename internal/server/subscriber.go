package server

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/logger"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 10 * time.Second

	// 读取超时（pong 等待时间）
	pongWait = 60 * time.Second

	// ping 发送间隔（必须小于 pongWait）
	pingPeriod = (pongWait * 9) / 10

	// 消息最大大小
	maxMessageSize = 1024

	sendBufferSize = 32
)

// Subscriber 一个实时订阅连接
type Subscriber struct {
	ID     string
	GameID string
	IP     string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func newSubscriber(hub *Hub, conn *websocket.Conn, gameID, ip string) *Subscriber {
	return &Subscriber{
		ID:     uuid.NewString(),
		GameID: gameID,
		IP:     ip,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
	}
}

// SendMessage 发送消息给订阅者
func (s *Subscriber) SendMessage(msg *protocol.Message) {
	data, err := codec.Encode(msg)
	if err != nil {
		slog.Error("消息编码错误", "error", err)
		return
	}
	s.sendRaw(data)
}

func (s *Subscriber) sendRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	select {
	case s.send <- data:
	default:
		// 发送缓冲区已满，断开慢订阅者
		slog.Warn("订阅者发送缓冲区已满", "subscriber", s.ID, "game", s.GameID)
		s.closed = true
		close(s.send)
	}
}

// Close 关闭订阅连接
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.send)
	}
}

// readPump 读取订阅者消息，只处理心跳
func (s *Subscriber) readPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		s.hub.unregister(s)
		s.Close()
		_ = s.conn.Close()
	}()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("订阅者读取错误", "subscriber", s.ID, "error", err)
			}
			return
		}

		msg, err := codec.Decode(data)
		if err != nil {
			s.SendMessage(codec.NewErrorMessage(apperrors.ErrCodeUnknown, "invalid message"))
			continue
		}
		if msg.Type == protocol.MsgPing {
			s.SendMessage(codec.MustNewMessage(protocol.MsgPong, protocol.PongPayload{
				ServerTime: time.Now().UnixMilli(),
			}))
		}
		codec.PutMessage(msg)
	}
}

// writePump 向订阅者写入消息并定期 ping
func (s *Subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case message, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// 通道已关闭
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
