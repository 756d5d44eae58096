// Package common provides shared styles and helpers for the terminal scorekeeper.
package common

import (
	"github.com/charmbracelet/lipgloss"
)

// 角色图标
const (
	DealerIcon      = "🃏"
	SuitChooserIcon = "♠"
	ThirdIcon       = "•"
	LoserIcon       = "💀"
)

// Lipgloss Styles
var (
	DocStyle     = lipgloss.NewStyle().Margin(1, 2)
	TitleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	SubtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	BoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	PromptStyle  = lipgloss.NewStyle().MarginTop(1)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	DangerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Bold(true)
	SwapStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)
