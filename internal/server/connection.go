package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/codec"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/convert"
)

// handleLive 把连接升级为 websocket 并订阅对局推送
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)
	gameID := chi.URLParam(r, "gameID")

	// 来源验证
	if !s.originChecker.Check(r) {
		slog.Warn("🚫 来源验证失败", "origin", r.Header.Get("Origin"), "ip", clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	g, err := s.manager.GetGame(r.Context(), gameID)
	if err != nil {
		respondAPIError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket 升级失败", "ip", clientIP, "error", err)
		return
	}

	sub := newSubscriber(s.hub, conn, gameID, clientIP)
	if !s.hub.register(sub) {
		_ = conn.Close()
		return
	}

	// 先推送当前快照
	sub.SendMessage(codec.MustNewMessage(protocol.MsgGameState, convert.GameState(g)))

	slog.Info("✅ 订阅者已连接", "subscriber", sub.ID, "game", gameID, "ip", clientIP)

	go sub.readPump()
	go sub.writePump()
}
