package apperrors

import "errors"

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeRateLimit      = 1002 // 速率限制
	ErrCodeInvalidPlayers = 2001
	ErrCodeGameNotFound   = 2002
	ErrCodeGameOver       = 3001
)

// GameError 游戏错误（表现层与会话层共享）
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrInvalidPlayers = &GameError{Code: ErrCodeInvalidPlayers, Message: "All player names must be unique and non-empty"}
	ErrGameNotFound   = &GameError{Code: ErrCodeGameNotFound, Message: "game not found"}
	ErrGameOver       = &GameError{Code: ErrCodeGameOver, Message: "game is over"}
	ErrRateLimited    = &GameError{Code: ErrCodeRateLimit, Message: "too many requests"}
)

// Code 返回错误链中第一个 GameError 的错误码，找不到时返回 ErrCodeUnknown
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ErrCodeUnknown
}
