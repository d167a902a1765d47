package leaderboardservice

import (
	"fmt"
	"io"

	scoredomain "github.com/Black-And-White-Club/poptrivia/app/modules/score/domain"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ChartPalette holds the colours used by the leaderboard chart.
type ChartPalette struct {
	Background drawing.Color
	Bar        drawing.Color
	BarStroke  drawing.Color
	TextColor  drawing.Color
}

// DefaultPalette is a light theme that prints well.
var DefaultPalette = ChartPalette{
	Background: drawing.ColorWhite,
	Bar:        drawing.ColorFromHex("4C8BF5"),
	BarStroke:  drawing.ColorFromHex("2A5DB0"),
	TextColor:  drawing.ColorFromHex("333333"),
}

const (
	barWidth    = 40
	barSpacing  = 24
	minWidth    = 480
	chartHeight = 360
)

// RenderChart writes a PNG bar chart of scores to w. An empty leaderboard
// renders a placeholder image.
func RenderChart(w io.Writer, scores []scoredomain.UserScore, palette ChartPalette) error {
	if len(scores) == 0 {
		return renderNoDataPlaceholder(w, palette)
	}

	bars := make([]chart.Value, len(scores))
	maxScore := 1
	for i, s := range scores {
		bars[i] = chart.Value{
			Label: fmt.Sprintf("%d. %s", i+1, s.Username),
			Value: float64(s.Score),
			Style: chart.Style{
				FillColor:   palette.Bar,
				StrokeColor: palette.BarStroke,
				StrokeWidth: 1,
			},
		}
		maxScore = max(maxScore, s.Score)
	}

	graph := chart.BarChart{
		Title:  "Leaderboard",
		Width:  max(minWidth, len(scores)*(barWidth+barSpacing)+160),
		Height: chartHeight,
		Background: chart.Style{
			FillColor: palette.Background,
			Padding:   chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		TitleStyle: chart.Style{
			FontColor: palette.TextColor,
		},
		XAxis: chart.Style{
			FontColor: palette.TextColor,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: palette.TextColor,
			},
			// the explicit range keeps an all-zero leaderboard drawable
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxScore)},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Bars:       bars,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render leaderboard chart: %w", err)
	}
	return nil
}

func renderNoDataPlaceholder(w io.Writer, palette ChartPalette) error {
	const (
		width  = 400
		height = 200
		msg    = "No scores yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{Style: chart.Hidden()},
		YAxis: chart.YAxis{Style: chart.Hidden()},
		// the renderer needs one visible series; this one is drawn in the
		// background colour
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: palette.Background,
					StrokeWidth: 1,
				},
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFont(chartDefaults.GetFont())
				r.SetFontColor(palette.TextColor)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render placeholder chart: %w", err)
	}
	return nil
}
