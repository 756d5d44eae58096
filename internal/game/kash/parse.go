package kash

import (
	"strconv"
	"strings"

	"github.com/palemoky/kash-scorekeeper/internal/game/scoring"
)

// TricksField 表单中某位玩家墩数字段的名字
func TricksField(player string) string {
	return "tricks_" + player
}

// ParseTricks 从表单值读取每位玩家的墩数，非数字或负数一律按 0 处理
func ParseTricks(players []string, lookup func(field string) string) scoring.Tricks {
	actual := make(scoring.Tricks, len(players))
	for _, p := range players {
		actual[p] = ParseCount(lookup(TricksField(p)))
	}
	return actual
}

// ParseCount 解析单个墩数
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
