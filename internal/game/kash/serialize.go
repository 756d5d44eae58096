package kash

import (
	"time"

	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
	"github.com/palemoky/kash-scorekeeper/internal/server/storage"
)

// ToGameData 将 Game 转换为可序列化的 GameData
func (g *Game) ToGameData() *storage.GameData {
	data := &storage.GameData{
		ID:           g.ID,
		Players:      append([]string(nil), g.Players...),
		Scores:       copyScores(g.Scores),
		RoundNumber:  g.RoundNumber,
		DealerIndex:  g.DealerIndex,
		Phase:        int(g.Phase),
		LosingScore:  g.LosingScore,
		Required:     g.Required(),
		PendingSwaps: copySwaps(g.PendingSwaps),
		Loser:        g.Loser,
		CreatedAt:    g.CreatedAt.Unix(),
		UpdatedAt:    g.UpdatedAt.Unix(),
	}

	if g.LastResult != nil {
		rd := toRoundData(*g.LastResult)
		data.LastResult = &rd
	}
	if len(g.History) > 0 {
		data.History = make([]storage.RoundData, 0, len(g.History))
		for _, r := range g.History {
			data.History = append(data.History, toRoundData(r))
		}
	}

	return data
}

// FromGameData 从存储数据重建 Game
func FromGameData(data *storage.GameData) *Game {
	g := &Game{
		ID:           data.ID,
		Players:      append([]string(nil), data.Players...),
		Scores:       scoring.Scores(copyMap(data.Scores)),
		RoundNumber:  data.RoundNumber,
		DealerIndex:  data.DealerIndex,
		Phase:        Phase(data.Phase),
		LosingScore:  data.LosingScore,
		required:     scoring.Quota(copyMap(data.Required)),
		PendingSwaps: copySwaps(data.PendingSwaps),
		Loser:        data.Loser,
		CreatedAt:    time.Unix(data.CreatedAt, 0),
		UpdatedAt:    time.Unix(data.UpdatedAt, 0),
	}
	if g.Scores == nil {
		g.Scores = scoring.Scores{}
	}

	if data.LastResult != nil {
		r := fromRoundData(*data.LastResult)
		g.LastResult = &r
	}
	for _, rd := range data.History {
		g.History = append(g.History, fromRoundData(rd))
	}

	return g
}

func toRoundData(r RoundResult) storage.RoundData {
	return storage.RoundData{
		Round:     r.Round,
		Dealer:    r.Dealer,
		Required:  copyMap(r.Required),
		Actual:    copyMap(r.Actual),
		Missing:   copyMap(r.Missing),
		Extra:     copyMap(r.Extra),
		Swaps:     copySwaps(r.Swaps),
		Unmatched: copyMap(r.Unmatched),
		Scores:    copyMap(r.Scores),
		Loser:     r.Loser,
	}
}

func fromRoundData(rd storage.RoundData) RoundResult {
	return RoundResult{
		Round:     rd.Round,
		Dealer:    rd.Dealer,
		Required:  scoring.Quota(copyMap(rd.Required)),
		Actual:    scoring.Tricks(copyMap(rd.Actual)),
		Missing:   copyMap(rd.Missing),
		Extra:     copyMap(rd.Extra),
		Swaps:     copySwaps(rd.Swaps),
		Unmatched: copyMap(rd.Unmatched),
		Scores:    scoring.Scores(copyMap(rd.Scores)),
		Loser:     rd.Loser,
	}
}

func copyMap[M ~map[string]int](m M) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copySwaps[M ~map[string]map[string]int](m M) scoring.SwapSchedule {
	out := make(scoring.SwapSchedule, len(m))
	for debtor, creditors := range m {
		inner := make(map[string]int, len(creditors))
		for c, n := range creditors {
			inner[c] = n
		}
		out[debtor] = inner
	}
	return out
}
