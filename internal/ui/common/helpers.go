package common

import "strings"

// TruncateName truncates a player name to the specified maximum length.
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen-1]) + "…"
	}
	return name
}

// ScoreBar draws how close score is to the losing score, width cells wide.
func ScoreBar(score, losing, width int) string {
	if width <= 0 {
		return ""
	}
	if losing <= 0 {
		losing = 1
	}
	filled := min(max(score, 0)*width/losing, width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
