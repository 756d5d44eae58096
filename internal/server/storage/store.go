package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// GameData 对局数据（用于存储序列化）
type GameData struct {
	ID           string                    `json:"id"`
	Players      []string                  `json:"players"`
	Scores       map[string]int            `json:"scores"`
	RoundNumber  int                       `json:"round_number"`
	DealerIndex  int                       `json:"dealer_index"`
	Phase        int                       `json:"phase"`
	LosingScore  int                       `json:"losing_score"`
	Required     map[string]int            `json:"required,omitempty"`
	PendingSwaps map[string]map[string]int `json:"pending_swaps,omitempty"`
	LastResult   *RoundData                `json:"last_result,omitempty"`
	History      []RoundData               `json:"history,omitempty"`
	Loser        string                    `json:"loser,omitempty"`
	CreatedAt    int64                     `json:"created_at"`
	UpdatedAt    int64                     `json:"updated_at"`
}

// RoundData 单轮结算数据
type RoundData struct {
	Round     int                       `json:"round"`
	Dealer    string                    `json:"dealer"`
	Required  map[string]int            `json:"required"`
	Actual    map[string]int            `json:"actual"`
	Missing   map[string]int            `json:"missing"`
	Extra     map[string]int            `json:"extra"`
	Swaps     map[string]map[string]int `json:"swaps,omitempty"`
	Unmatched map[string]int            `json:"unmatched,omitempty"`
	Scores    map[string]int            `json:"scores"`
	Loser     string                    `json:"loser,omitempty"`
}

// Store 对局存储。LoadGame 在对局不存在时返回 (nil, nil)。
type Store interface {
	SaveGame(ctx context.Context, data *GameData) error
	LoadGame(ctx context.Context, id string) (*GameData, error)
	DeleteGame(ctx context.Context, id string) error
	GetAllGameIDs(ctx context.Context) ([]string, error)
}

func encode(data *GameData) ([]byte, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("序列化对局数据失败: %w", err)
	}
	return b, nil
}

func decode(b []byte) (*GameData, error) {
	var data GameData
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("反序列化对局数据失败: %w", err)
	}
	return &data, nil
}
