package server

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/protocol/convert"
)

// gameCookie 保存当前对局 ID 的 cookie
const gameCookie = "kash_game"

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

// playerRow 页面表格中的一行
type playerRow struct {
	Name     string
	Role     string
	Field    string
	Required int
	Actual   int
	Missing  int
	Extra    int
	Score    int
	Loser    bool
}

type startPage struct {
	Error string
	Names []string
}

type roundPage struct {
	GameID       string
	Round        int
	Dealer       string
	LosingScore  int
	Players      []playerRow
	PendingSwaps []string
}

type resultPage struct {
	GameID     string
	Round      int
	Players    []playerRow
	Swaps      []string
	Unmatched  []string
	NextRound  int
	NextDealer string
}

type gameOverPage struct {
	GameID  string
	Loser   string
	Rounds  int
	Players []playerRow
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "start", startPage{Names: make([]string, 3)})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	names := []string{r.FormValue("player1"), r.FormValue("player2"), r.FormValue("player3")}

	g, err := s.manager.CreateGame(r.Context(), names)
	if errors.Is(err, apperrors.ErrInvalidPlayers) {
		s.render(w, http.StatusBadRequest, "start", startPage{Error: err.Error(), Names: names})
		return
	}
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     gameCookie,
		Value:    g.ID,
		Path:     "/",
		MaxAge:   int(s.config.Game.GameTTLDuration().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/round", http.StatusSeeOther)
}

func (s *Server) handleRound(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if g.IsOver() {
		http.Redirect(w, r, "/gameover", http.StatusSeeOther)
		return
	}

	state := convert.GameState(g)
	page := roundPage{
		GameID:       g.ID,
		Round:        g.RoundNumber,
		Dealer:       g.Dealer(),
		LosingScore:  g.LosingScore,
		PendingSwaps: state.PendingSwaps,
	}
	for _, p := range state.Players {
		page.Players = append(page.Players, playerRow{
			Name:     p.Name,
			Role:     p.Role,
			Field:    kash.TricksField(p.Name),
			Required: p.Required,
			Score:    p.Score,
		})
	}
	s.render(w, http.StatusOK, "round", page)
}

func (s *Server) handleSubmitRound(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	actual := kash.ParseTricks(g.Players, r.FormValue)
	_, res, err := s.manager.SubmitRound(r.Context(), g.ID, actual)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	if res.Loser != "" {
		http.Redirect(w, r, "/gameover", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/result", http.StatusSeeOther)
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	res := g.LastResult
	if res == nil {
		http.Redirect(w, r, "/round", http.StatusSeeOther)
		return
	}

	page := resultPage{
		GameID:     g.ID,
		Round:      res.Round,
		Swaps:      kash.SwapInstructions(g.Players, res.Swaps),
		NextRound:  g.RoundNumber,
		NextDealer: g.Dealer(),
	}
	for _, p := range g.Players {
		page.Players = append(page.Players, playerRow{
			Name:     p,
			Required: res.Required[p],
			Actual:   res.Actual[p],
			Missing:  res.Missing[p],
			Extra:    res.Extra[p],
			Score:    res.Scores[p],
		})
		if n := res.Unmatched[p]; n > 0 {
			page.Unmatched = append(page.Unmatched, fmt.Sprintf("%s is short %d tricks that no one could cover", p, n))
		}
	}
	s.render(w, http.StatusOK, "result", page)
}

func (s *Server) handleGameOver(w http.ResponseWriter, r *http.Request) {
	g, err := s.currentGame(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	if !g.IsOver() {
		http.Redirect(w, r, "/round", http.StatusSeeOther)
		return
	}

	page := gameOverPage{GameID: g.ID, Loser: g.Loser, Rounds: len(g.History)}
	for _, p := range g.Players {
		page.Players = append(page.Players, playerRow{Name: p, Score: g.Scores[p], Loser: p == g.Loser})
	}
	s.render(w, http.StatusOK, "gameover", page)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(gameCookie); err == nil && c.Value != "" {
		if err := s.manager.ResetGame(r.Context(), c.Value); err != nil {
			slog.Error("❌ 重置对局失败", "game", c.Value, "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{Name: gameCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentGame 读取 cookie 指向的对局
func (s *Server) currentGame(r *http.Request) (*kash.Game, error) {
	c, err := r.Cookie(gameCookie)
	if err != nil || c.Value == "" {
		return nil, apperrors.ErrGameNotFound
	}
	return s.manager.GetGame(r.Context(), c.Value)
}

// handleError 页面流程的统一错误处理
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperrors.ErrGameNotFound):
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, apperrors.ErrGameOver):
		http.Redirect(w, r, "/gameover", http.StatusSeeOther)
	default:
		slog.Error("❌ 请求处理失败", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("❌ 渲染模板失败", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
