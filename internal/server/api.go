package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/convert"
	"github.com/palemoky/kash-scorekeeper/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// respondJSON 写 JSON 响应
func respondJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func respondAPIError(w http.ResponseWriter, err error) {
	code := apperrors.Code(err)
	status := http.StatusInternalServerError
	msg := http.StatusText(status)

	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		msg = ge.Message
		switch code {
		case apperrors.ErrCodeGameNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeInvalidPlayers:
			status = http.StatusBadRequest
		case apperrors.ErrCodeGameOver:
			status = http.StatusConflict
		case apperrors.ErrCodeRateLimit:
			status = http.StatusTooManyRequests
		}
	} else {
		slog.Error("❌ API 请求失败", "error", err)
	}

	respondJSON(w, status, protocol.ErrorPayload{Code: code, Message: msg})
}

// handleAPIGame 返回对局快照
func (s *Server) handleAPIGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.manager.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		respondAPIError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, convert.GameState(g))
}

// handleExport 下载当前对局的 xlsx 记分表
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	data, err := report.Scoresheet(g)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="kash-%s.xlsx"`, shortID(g.ID)))
	_, _ = w.Write(data)
}

// handleChart 返回当前对局的分数曲线
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	data, err := report.ScoreChart(g)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
