// Package scoring implements the round arithmetic of Kash: trick quotas per role,
// shortfall penalties, surplus-to-shortfall swap allocation, loser detection and dealer rotation.
//
// Every function here is pure. Game state lives with the caller.
package scoring

// PlayerCount 每局固定三名玩家
const PlayerCount = 3

// LosingScore 累计分数达到该值即输掉整局
const LosingScore = 21

// 各角色本轮需要拿到的墩数，三者之和恒为 16
const (
	DealerQuota      = 3
	SuitChooserQuota = 8
	ThirdQuota       = 5
)

type (
	// Quota 玩家 -> 本轮需要的墩数
	Quota map[string]int
	// Tricks 玩家 -> 本轮实际拿到的墩数
	Tricks map[string]int
	// Scores 玩家 -> 累计罚分
	Scores map[string]int
	// SwapSchedule 欠墩者 -> 多墩者 -> 需要交换的张数
	SwapSchedule map[string]map[string]int
)

// Settlement 一轮结算的完整结果
type Settlement struct {
	Scores    Scores
	Missing   map[string]int
	Extra     map[string]int // 分配前的多墩数
	Swaps     SwapSchedule
	Unmatched map[string]int // 无人可补的欠墩数，仅包含大于 0 的玩家
}

// DetermineRequired 根据庄家位置给出三名玩家本轮的墩数要求
func DetermineRequired(players []string, dealerIndex int) Quota {
	return Quota{
		players[dealerIndex]:                 DealerQuota,
		players[(dealerIndex+1)%PlayerCount]: SuitChooserQuota,
		players[(dealerIndex+2)%PlayerCount]: ThirdQuota,
	}
}

// ComputeRound 结算一轮：累加罚分并生成下一轮的换牌表。
// scores 会被原地更新并返回。
func ComputeRound(scores Scores, players []string, required Quota, actual Tricks) (Scores, map[string]int, SwapSchedule) {
	s := Settle(scores, players, required, actual)
	return s.Scores, s.Missing, s.Swaps
}

// Settle 与 ComputeRound 相同，额外返回多墩数与未能补足的欠墩数
func Settle(scores Scores, players []string, required Quota, actual Tricks) Settlement {
	if scores == nil {
		scores = make(Scores, len(players))
	}

	missing := make(map[string]int, len(players))
	for _, p := range players {
		miss := max(0, required[p]-actual[p])
		missing[p] = miss
		scores[p] += miss
	}

	extra := make(map[string]int, len(players))
	available := make(map[string]int, len(players))
	for _, p := range players {
		extra[p] = max(0, actual[p]-required[p])
		available[p] = extra[p]
	}

	swaps := make(SwapSchedule)
	unmatched := make(map[string]int)

	// 按玩家顺序依次为欠墩者寻找多墩者，先到先得。
	// 欠墩者总会有一条记录，即使没有任何人能补。
	for _, debtor := range players {
		need := missing[debtor]
		if need == 0 {
			continue
		}
		swaps[debtor] = make(map[string]int)
		for _, creditor := range players {
			if need == 0 {
				break
			}
			if creditor == debtor || available[creditor] <= 0 {
				continue
			}
			take := min(need, available[creditor])
			swaps[debtor][creditor] += take
			available[creditor] -= take
			need -= take
		}
		if need > 0 {
			unmatched[debtor] = need
		}
	}

	return Settlement{
		Scores:    scores,
		Missing:   missing,
		Extra:     extra,
		Swaps:     swaps,
		Unmatched: unmatched,
	}
}

// CheckLoser 按玩家顺序返回第一个分数达到阈值的玩家。threshold <= 0 时使用 LosingScore。
func CheckLoser(players []string, scores Scores, threshold int) (string, bool) {
	if threshold <= 0 {
		threshold = LosingScore
	}
	for _, p := range players {
		if scores[p] >= threshold {
			return p, true
		}
	}
	return "", false
}

// RotateDealer 庄家顺延到下一位
func RotateDealer(dealerIndex int) int {
	return (dealerIndex + 1) % PlayerCount
}

// Total 换牌表中的总张数
func (s SwapSchedule) Total() int {
	total := 0
	for _, creditors := range s {
		for _, n := range creditors {
			total += n
		}
	}
	return total
}
