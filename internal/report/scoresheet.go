// Package report renders finished or in-progress games as downloadable files.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
)

// 工作表名称
const (
	RoundsSheet  = "Rounds"
	SummarySheet = "Summary"
)

// Scoresheet 生成对局的 xlsx 记分表。
// Rounds 表每轮一行：轮次、庄家、每位玩家的要求/实际/累计分数、换牌说明。
// Summary 表列出最终分数与输家。
func Scoresheet(g *kash.Game) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RoundsSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := writeRounds(f, g, header); err != nil {
		return nil, err
	}
	if err := writeSummary(f, g, header); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRounds(f *excelize.File, g *kash.Game, headerStyle int) error {
	header := []any{"Round", "Dealer"}
	for _, p := range g.Players {
		header = append(header, p+" required", p+" tricks", p+" score")
	}
	header = append(header, "Swaps")

	if err := setRow(f, RoundsSheet, 1, header); err != nil {
		return err
	}
	if err := styleRow(f, RoundsSheet, 1, len(header), headerStyle); err != nil {
		return err
	}

	for i, r := range g.History {
		row := []any{r.Round, r.Dealer}
		for _, p := range g.Players {
			row = append(row, r.Required[p], r.Actual[p], r.Scores[p])
		}
		row = append(row, strings.Join(kash.SwapInstructions(g.Players, r.Swaps), "; "))

		if err := setRow(f, RoundsSheet, i+2, row); err != nil {
			return err
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	return f.SetColWidth(RoundsSheet, "C", last, 14)
}

func writeSummary(f *excelize.File, g *kash.Game, headerStyle int) error {
	if err := setRow(f, SummarySheet, 1, []any{"Player", "Score", "Lost"}); err != nil {
		return err
	}
	if err := styleRow(f, SummarySheet, 1, 3, headerStyle); err != nil {
		return err
	}

	for i, p := range g.Players {
		lost := ""
		if p == g.Loser {
			lost = "yes"
		}
		if err := setRow(f, SummarySheet, i+2, []any{p, g.Scores[p], lost}); err != nil {
			return err
		}
	}

	footer := len(g.Players) + 3
	if err := setRow(f, SummarySheet, footer, []any{"Rounds played", len(g.History)}); err != nil {
		return err
	}
	return setRow(f, SummarySheet, footer+1, []any{"Losing score", g.LosingScore})
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, cols, style int) error {
	from, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(cols, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}
