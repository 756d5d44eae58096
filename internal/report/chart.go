package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/palemoky/kash-scorekeeper/internal/game/kash"
)

// 图表尺寸
const (
	ChartWidth  = 800
	ChartHeight = 400
)

var thresholdColor = drawing.ColorFromHex("c0392b")

// ScoreChart 画出每位玩家的累计分数曲线与输局分数线（PNG）。
// 第 0 轮为开局时的 0 分，所以没有结算记录的对局也能出图。
func ScoreChart(g *kash.Game) ([]byte, error) {
	rounds := len(g.History)
	xValues := make([]float64, rounds+1)
	for i := range xValues {
		xValues[i] = float64(i)
	}

	yMax := float64(g.LosingScore)
	series := make([]chart.Series, 0, len(g.Players)+1)
	for i, p := range g.Players {
		yValues := make([]float64, rounds+1)
		for r, res := range g.History {
			yValues[r+1] = float64(res.Scores[p])
			yMax = max(yMax, yValues[r+1])
		}
		color := chart.GetDefaultColor(i)
		series = append(series, chart.ContinuousSeries{
			Name:    p,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	xMax := float64(max(rounds, 1))
	series = append(series, chart.ContinuousSeries{
		Name:    fmt.Sprintf("Loses at %d", g.LosingScore),
		XValues: []float64{0, xMax},
		YValues: []float64{float64(g.LosingScore), float64(g.LosingScore)},
		Style: chart.Style{
			StrokeColor:     thresholdColor,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	})

	graph := chart.Chart{
		Width:  ChartWidth,
		Height: ChartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Right: 20},
		},
		XAxis: chart.XAxis{
			Name:           "Round",
			ValueFormatter: intFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{
			Name:           "Penalty points",
			ValueFormatter: intFormatter,
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax + 1},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("render score chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func intFormatter(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
