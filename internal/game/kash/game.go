// Package kash holds the state of one Kash game between three players and drives it
// round by round through the scoring rules.
package kash

import (
	"fmt"
	"strings"
	"time"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
)

// RoundResult 一轮结束后的结算记录
type RoundResult struct {
	Round     int
	Dealer    string
	Required  scoring.Quota
	Actual    scoring.Tricks
	Missing   map[string]int
	Extra     map[string]int
	Swaps     scoring.SwapSchedule
	Unmatched map[string]int
	Scores    scoring.Scores // 本轮结束后的累计分数快照
	Loser     string
}

// Roles 本轮三种角色
type Roles struct {
	Dealer      string
	SuitChooser string
	Third       string
}

// Game 一局 Kash
type Game struct {
	ID          string
	Players     []string
	Scores      scoring.Scores
	RoundNumber int
	DealerIndex int
	Phase       Phase
	LosingScore int

	required     scoring.Quota
	PendingSwaps scoring.SwapSchedule
	LastResult   *RoundResult
	History      []RoundResult
	Loser        string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidatePlayers 去除首尾空白，要求三个互不相同的非空名字
func ValidatePlayers(names []string) ([]string, error) {
	if len(names) != scoring.PlayerCount {
		return nil, apperrors.ErrInvalidPlayers
	}

	players := make([]string, 0, scoring.PlayerCount)
	seen := make(map[string]struct{}, scoring.PlayerCount)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return nil, apperrors.ErrInvalidPlayers
		}
		if _, dup := seen[n]; dup {
			return nil, apperrors.ErrInvalidPlayers
		}
		seen[n] = struct{}{}
		players = append(players, n)
	}
	return players, nil
}

// NewGame 创建对局并直接进入第一轮。losingScore <= 0 时使用默认的 21。
func NewGame(id string, names []string, losingScore int) (*Game, error) {
	players, err := ValidatePlayers(names)
	if err != nil {
		return nil, err
	}
	if losingScore <= 0 {
		losingScore = scoring.LosingScore
	}

	now := time.Now()
	g := &Game{
		ID:           id,
		Players:      players,
		Scores:       make(scoring.Scores, scoring.PlayerCount),
		LosingScore:  losingScore,
		PendingSwaps: scoring.SwapSchedule{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, p := range players {
		g.Scores[p] = 0
	}
	g.startRound(1, 0)

	return g, nil
}

func (g *Game) startRound(round, dealerIndex int) {
	g.RoundNumber = round
	g.DealerIndex = dealerIndex
	g.required = scoring.DetermineRequired(g.Players, dealerIndex)
	g.Phase = PhaseRoundInProgress
}

// Required 当前轮的墩数要求（返回副本）
func (g *Game) Required() scoring.Quota {
	q := make(scoring.Quota, len(g.required))
	for k, v := range g.required {
		q[k] = v
	}
	return q
}

// Dealer 当前庄家
func (g *Game) Dealer() string {
	if len(g.Players) == 0 {
		return ""
	}
	return g.Players[g.DealerIndex]
}

// Roles 当前轮的角色分配
func (g *Game) Roles() Roles {
	if len(g.Players) != scoring.PlayerCount {
		return Roles{}
	}
	return Roles{
		Dealer:      g.Players[g.DealerIndex],
		SuitChooser: g.Players[(g.DealerIndex+1)%scoring.PlayerCount],
		Third:       g.Players[(g.DealerIndex+2)%scoring.PlayerCount],
	}
}

// IsOver 对局是否已结束
func (g *Game) IsOver() bool {
	return g.Phase == PhaseGameOver
}

// SubmitRound 提交本轮实际墩数并结算。
// 有人输掉时进入 PhaseGameOver，否则庄家顺延、轮数加一。
func (g *Game) SubmitRound(actual scoring.Tricks) (*RoundResult, error) {
	if g.Phase != PhaseRoundInProgress {
		return nil, apperrors.ErrGameOver
	}

	clean := make(scoring.Tricks, len(g.Players))
	for _, p := range g.Players {
		clean[p] = max(0, actual[p])
	}

	required := g.Required()
	s := scoring.Settle(g.Scores, g.Players, required, clean)
	g.Scores = s.Scores

	result := RoundResult{
		Round:     g.RoundNumber,
		Dealer:    g.Dealer(),
		Required:  required,
		Actual:    clean,
		Missing:   s.Missing,
		Extra:     s.Extra,
		Swaps:     s.Swaps,
		Unmatched: s.Unmatched,
		Scores:    copyScores(g.Scores),
	}

	g.PendingSwaps = s.Swaps
	g.UpdatedAt = time.Now()

	if loser, ok := scoring.CheckLoser(g.Players, g.Scores, g.LosingScore); ok {
		result.Loser = loser
		g.Loser = loser
		g.Phase = PhaseGameOver
	} else {
		g.startRound(g.RoundNumber+1, scoring.RotateDealer(g.DealerIndex))
	}

	g.LastResult = &result
	g.History = append(g.History, result)

	return &result, nil
}

// Reset 清空对局，回到 PhaseSetup
func (g *Game) Reset() {
	id := g.ID
	losing := g.LosingScore
	*g = Game{ID: id, LosingScore: losing, Phase: PhaseSetup, UpdatedAt: time.Now()}
}

// SwapInstructions 生成可读的换牌说明，欠墩者与多墩者均按玩家顺序输出
func SwapInstructions(players []string, swaps scoring.SwapSchedule) []string {
	var lines []string
	for _, debtor := range players {
		creditors, ok := swaps[debtor]
		if !ok {
			continue
		}
		for _, creditor := range players {
			count, ok := creditors[creditor]
			if !ok || count <= 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s swaps %d cards with %s (%s takes LOW, %s takes TOP)",
				debtor, count, creditor, creditor, debtor))
		}
	}
	return lines
}

// PendingSwapInstructions 上一轮留下、本轮开始前需要执行的换牌说明
func (g *Game) PendingSwapInstructions() []string {
	return SwapInstructions(g.Players, g.PendingSwaps)
}

func copyScores(s scoring.Scores) scoring.Scores {
	out := make(scoring.Scores, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
