package protocol

// PlayerScore 玩家分数与本轮角色
type PlayerScore struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Role     string `json:"role,omitempty"` // dealer/suit_chooser/third
	Required int    `json:"required,omitempty"`
}

// GameStatePayload 对局快照，也是 /api/games/{id} 的响应体
type GameStatePayload struct {
	GameID       string              `json:"game_id"`
	Phase        string              `json:"phase"`
	Round        int                 `json:"round"`
	Dealer       string              `json:"dealer,omitempty"`
	LosingScore  int                 `json:"losing_score"`
	Players      []PlayerScore       `json:"players"`
	PendingSwaps []string            `json:"pending_swaps,omitempty"`
	Loser        string              `json:"loser,omitempty"`
	RoundsPlayed int                 `json:"rounds_played"`
	LastResult   *RoundResultPayload `json:"last_result,omitempty"`
}

// RoundResultPayload 一轮结算结果
type RoundResultPayload struct {
	GameID           string                    `json:"game_id"`
	Round            int                       `json:"round"`
	Dealer           string                    `json:"dealer"`
	Required         map[string]int            `json:"required"`
	Actual           map[string]int            `json:"actual"`
	Missing          map[string]int            `json:"missing"`
	Extra            map[string]int            `json:"extra"`
	Swaps            map[string]map[string]int `json:"swaps"`
	SwapInstructions []string                  `json:"swap_instructions,omitempty"`
	Unmatched        map[string]int            `json:"unmatched,omitempty"`
	Scores           map[string]int            `json:"scores"`
	Loser            string                    `json:"loser,omitempty"`
}

// GameOverPayload 对局结束
type GameOverPayload struct {
	GameID string         `json:"game_id"`
	Loser  string         `json:"loser"`
	Scores map[string]int `json:"scores"`
	Rounds int            `json:"rounds"`
}

// GameResetPayload 对局被重置
type GameResetPayload struct {
	GameID string `json:"game_id"`
}

// PongPayload 心跳响应
type PongPayload struct {
	ServerTime int64 `json:"server_time"` // 毫秒
}

// ErrorPayload 错误消息
type ErrorPayload struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
