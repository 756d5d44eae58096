// Package view renders the terminal scorekeeper screens.
package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
	"github.com/palemoky/kash-scorekeeper/internal/ui/common"
)

const (
	nameWidth = 12
	barWidth  = 21
)

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func roleIcon(g *kash.Game, player string) string {
	if g.Phase != kash.PhaseRoundInProgress {
		return " "
	}
	switch roles := g.Roles(); player {
	case roles.Dealer:
		return common.DealerIcon
	case roles.SuitChooser:
		return common.SuitChooserIcon
	default:
		return common.ThirdIcon
	}
}

// Scoreboard 分数表，每行一个玩家，按座位顺序
func Scoreboard(g *kash.Game) string {
	var sb strings.Builder
	for i, p := range g.Players {
		icon := roleIcon(g, p)
		if p == g.Loser {
			icon = common.LoserIcon
		}
		score := g.Scores[p]
		line := fmt.Sprintf("%s %-*s %3d  %s", icon, nameWidth, common.TruncateName(p, nameWidth), score,
			common.ScoreBar(score, g.LosingScore, barWidth))
		if score >= g.LosingScore {
			line = common.DangerStyle.Render(line)
		}
		sb.WriteString(line)
		if i < len(g.Players)-1 {
			sb.WriteString("\n")
		}
	}
	return common.BoxStyle.Render(sb.String())
}

// NamesView 输入三名玩家
func NamesView(width int, inputs []string, errMsg string) string {
	var sb strings.Builder
	sb.WriteString(center(width, common.TitleStyle("🎲 Kash Scorekeeper")))
	sb.WriteString("\n\n")
	sb.WriteString("Enter the three players in seating order:\n\n")
	for i, in := range inputs {
		fmt.Fprintf(&sb, "  Player %d  %s\n", i+1, in)
	}
	if errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(common.ErrorStyle.Render(errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(common.PromptStyle.Render(common.SubtleStyle.Render("tab/↑↓ move · enter next/start · esc quit")))
	return common.DocStyle.Render(sb.String())
}

// RoundView 一轮的录入界面
func RoundView(width int, g *kash.Game, inputs []string, errMsg string) string {
	var sb strings.Builder
	sb.WriteString(center(width, common.TitleStyle(fmt.Sprintf("Round %d", g.RoundNumber))))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Dealer: %s\n\n", g.Dealer())
	sb.WriteString(Scoreboard(g))
	sb.WriteString("\n")

	if swaps := g.PendingSwapInstructions(); len(swaps) > 0 {
		sb.WriteString("\nSwap before playing:\n")
		for _, line := range swaps {
			sb.WriteString("  ")
			sb.WriteString(common.SwapStyle.Render(line))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\nTricks taken:\n")
	required := g.Required()
	for i, p := range g.Players {
		in := ""
		if i < len(inputs) {
			in = inputs[i]
		}
		fmt.Fprintf(&sb, "  %-*s (needs %d)  %s\n", nameWidth, common.TruncateName(p, nameWidth), required[p], in)
	}
	if errMsg != "" {
		sb.WriteString("\n")
		sb.WriteString(common.ErrorStyle.Render(errMsg))
		sb.WriteString("\n")
	}
	sb.WriteString(common.PromptStyle.Render(common.SubtleStyle.Render("tab/↑↓ move · enter next/score · esc quit")))
	return common.DocStyle.Render(sb.String())
}

// ResultView 上一轮结算结果
func ResultView(width int, g *kash.Game) string {
	res := g.LastResult
	if res == nil {
		return common.DocStyle.Render("No round has been played yet.")
	}

	var sb strings.Builder
	sb.WriteString(center(width, common.TitleStyle(fmt.Sprintf("Round %d result", res.Round))))
	sb.WriteString("\n\n")

	fmt.Fprintf(&sb, "  %-*s %8s %6s %7s %5s\n", nameWidth, "Player", "Required", "Tricks", "Missing", "Extra")
	for _, p := range g.Players {
		fmt.Fprintf(&sb, "  %-*s %8d %6d %7d %5d\n", nameWidth, common.TruncateName(p, nameWidth),
			res.Required[p], res.Actual[p], res.Missing[p], res.Extra[p])
	}
	sb.WriteString("\n")
	sb.WriteString(Scoreboard(g))
	sb.WriteString("\n")

	if lines := kash.SwapInstructions(g.Players, res.Swaps); len(lines) > 0 {
		sb.WriteString("\nSwaps for next round:\n")
		for _, line := range lines {
			sb.WriteString("  ")
			sb.WriteString(common.SwapStyle.Render(line))
			sb.WriteString("\n")
		}
	} else {
		sb.WriteString("\nNo swaps needed.\n")
	}
	for _, p := range g.Players {
		if n := res.Unmatched[p]; n > 0 {
			fmt.Fprintf(&sb, "  %s is short %d tricks that no one could cover\n", p, n)
		}
	}

	prompt := fmt.Sprintf("enter: continue to round %d (%s deals) · q quit", g.RoundNumber, g.Dealer())
	sb.WriteString(common.PromptStyle.Render(common.SubtleStyle.Render(prompt)))
	return common.DocStyle.Render(sb.String())
}

// GameOverView 对局结束界面
func GameOverView(width int, g *kash.Game) string {
	var sb strings.Builder
	sb.WriteString(center(width, common.TitleStyle("Game over")))
	sb.WriteString("\n\n")
	sb.WriteString(common.DangerStyle.Render(fmt.Sprintf("%s %s loses after %d rounds.", common.LoserIcon, g.Loser, len(g.History))))
	sb.WriteString("\n\n")
	sb.WriteString(Scoreboard(g))
	sb.WriteString("\n")
	sb.WriteString(common.PromptStyle.Render(common.SubtleStyle.Render("r: new game with the same players · q quit")))
	return common.DocStyle.Render(sb.String())
}
