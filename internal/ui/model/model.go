// Package model contains the bubbletea model of the terminal scorekeeper.
package model

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
	"github.com/palemoky/kash-scorekeeper/internal/ui/view"
)

// Phase 界面阶段
type Phase int

const (
	PhaseNames Phase = iota
	PhaseRound
	PhaseResult
	PhaseGameOver
)

// Model 本地记分器，直接驱动一个 kash.Game
type Model struct {
	game        *kash.Game
	losingScore int
	phase       Phase

	inputs []textinput.Model
	focus  int
	err    string

	width  int
	height int
}

// New 创建记分器，losingScore <= 0 时使用默认值
func New(losingScore int) *Model {
	m := &Model{losingScore: losingScore}
	m.inputs = nameInputs(nil)
	m.focusInput(0)
	return m
}

func nameInputs(previous []string) []textinput.Model {
	inputs := make([]textinput.Model, scoring.PlayerCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "name"
		ti.CharLimit = 24
		ti.Width = 24
		if i < len(previous) {
			ti.SetValue(previous[i])
		}
		inputs[i] = ti
	}
	return inputs
}

func trickInputs(players []string) []textinput.Model {
	inputs := make([]textinput.Model, len(players))
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 2
		ti.Width = 4
		inputs[i] = ti
	}
	return inputs
}

// Phase 当前阶段
func (m *Model) Phase() Phase { return m.phase }

// Game 当前对局，输入名字之前为 nil
func (m *Model) Game() *kash.Game { return m.game }

// Err 最近一次输入错误
func (m *Model) Err() string { return m.err }

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if handled, cmd := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	return m, m.updateFocused(msg)
}

func (m *Model) View() string {
	switch m.phase {
	case PhaseNames:
		return view.NamesView(m.width, m.inputViews(), m.err)
	case PhaseRound:
		return view.RoundView(m.width, m.game, m.inputViews(), m.err)
	case PhaseResult:
		return view.ResultView(m.width, m.game)
	case PhaseGameOver:
		return view.GameOverView(m.width, m.game)
	default:
		return "Unknown phase"
	}
}

func (m *Model) inputViews() []string {
	out := make([]string, len(m.inputs))
	for i := range m.inputs {
		out[i] = m.inputs[i].View()
	}
	return out
}

func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus < 0 || m.focus >= len(m.inputs) {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

func (m *Model) focusInput(i int) tea.Cmd {
	if len(m.inputs) == 0 {
		return nil
	}
	i = (i + len(m.inputs)) % len(m.inputs)
	for j := range m.inputs {
		m.inputs[j].Blur()
	}
	m.focus = i
	return m.inputs[i].Focus()
}

// startGame 用输入的名字开局
func (m *Model) startGame() tea.Cmd {
	names := make([]string, len(m.inputs))
	for i := range m.inputs {
		names[i] = m.inputs[i].Value()
	}

	g, err := kash.NewGame(uuid.NewString(), names, m.losingScore)
	if err != nil {
		m.err = errorText(err)
		return nil
	}

	slog.Info("🎲 本地对局开始", "game", g.ID, "players", g.Players, "losing_score", g.LosingScore)
	m.game = g
	m.err = ""
	return m.enterRound()
}

func (m *Model) enterRound() tea.Cmd {
	m.phase = PhaseRound
	m.inputs = trickInputs(m.game.Players)
	return m.focusInput(0)
}

// submitRound 结算本轮，非数字或负数按 0 处理
func (m *Model) submitRound() tea.Cmd {
	values := make(map[string]string, len(m.inputs))
	for i, p := range m.game.Players {
		values[kash.TricksField(p)] = m.inputs[i].Value()
	}
	actual := kash.ParseTricks(m.game.Players, func(field string) string { return values[field] })

	res, err := m.game.SubmitRound(actual)
	if err != nil {
		m.err = errorText(err)
		return nil
	}

	slog.Info("🧮 本地结算", "game", m.game.ID, "round", res.Round, "scores", res.Scores, "swaps", res.Swaps.Total())
	m.err = ""
	m.inputs = nil
	m.focus = -1
	if m.game.IsOver() {
		slog.Info("🏁 本地对局结束", "game", m.game.ID, "loser", res.Loser, "rounds", len(m.game.History))
		m.phase = PhaseGameOver
		return nil
	}
	m.phase = PhaseResult
	return nil
}

// reset 重新开局，保留上局的玩家名
func (m *Model) reset() tea.Cmd {
	var previous []string
	if m.game != nil {
		previous = m.game.Players
		m.game.Reset()
	}
	m.game = nil
	m.err = ""
	m.phase = PhaseNames
	m.inputs = nameInputs(previous)
	return m.focusInput(0)
}

func errorText(err error) string {
	var ge *apperrors.GameError
	if errors.As(err, &ge) {
		return ge.Message
	}
	return err.Error()
}
