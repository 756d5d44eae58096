// Package convert turns in-memory games into protocol payloads.
package convert

import (
	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

// 角色名
const (
	RoleDealer      = "dealer"
	RoleSuitChooser = "suit_chooser"
	RoleThird       = "third"
)

// GameState 构造对局快照，玩家按座位顺序输出
func GameState(g *kash.Game) protocol.GameStatePayload {
	state := protocol.GameStatePayload{
		GameID:       g.ID,
		Phase:        g.Phase.String(),
		Round:        g.RoundNumber,
		Dealer:       g.Dealer(),
		LosingScore:  g.LosingScore,
		Players:      make([]protocol.PlayerScore, 0, len(g.Players)),
		PendingSwaps: g.PendingSwapInstructions(),
		Loser:        g.Loser,
		RoundsPlayed: len(g.History),
	}

	roles := roleNames(g.Roles())
	required := g.Required()
	inRound := g.Phase == kash.PhaseRoundInProgress
	for _, p := range g.Players {
		ps := protocol.PlayerScore{Name: p, Score: g.Scores[p]}
		if inRound {
			ps.Role = roles[p]
			ps.Required = required[p]
		}
		state.Players = append(state.Players, ps)
	}

	if g.LastResult != nil {
		state.LastResult = RoundResult(g.ID, g.Players, g.LastResult)
	}
	return state
}

// RoundResult 构造一轮结算的推送内容
func RoundResult(gameID string, players []string, res *kash.RoundResult) *protocol.RoundResultPayload {
	swaps := make(map[string]map[string]int, len(res.Swaps))
	for debtor, creditors := range res.Swaps {
		inner := make(map[string]int, len(creditors))
		for c, n := range creditors {
			inner[c] = n
		}
		swaps[debtor] = inner
	}

	return &protocol.RoundResultPayload{
		GameID:           gameID,
		Round:            res.Round,
		Dealer:           res.Dealer,
		Required:         copyInts(res.Required),
		Actual:           copyInts(res.Actual),
		Missing:          copyInts(res.Missing),
		Extra:            copyInts(res.Extra),
		Swaps:            swaps,
		SwapInstructions: kash.SwapInstructions(players, res.Swaps),
		Unmatched:        copyInts(res.Unmatched),
		Scores:           copyInts(res.Scores),
		Loser:            res.Loser,
	}
}

// GameOver 构造对局结束的推送内容
func GameOver(g *kash.Game) protocol.GameOverPayload {
	return protocol.GameOverPayload{
		GameID: g.ID,
		Loser:  g.Loser,
		Scores: copyInts(g.Scores),
		Rounds: len(g.History),
	}
}

func roleNames(r kash.Roles) map[string]string {
	if r.Dealer == "" {
		return nil
	}
	return map[string]string{
		r.Dealer:      RoleDealer,
		r.SuitChooser: RoleSuitChooser,
		r.Third:       RoleThird,
	}
}

func copyInts[M ~map[string]int](m M) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
