package widgets

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/folio/internal/models"
)

// PerformanceChart renders a performance result as a PNG line chart:
// portfolio value (blue solid) against the normalized benchmark (gray
// dashed). Returns raw PNG bytes.
func (s *Service) PerformanceChart(ctx context.Context, result *models.PerformanceResult) ([]byte, error) {
	if result == nil || len(result.Series) < 2 {
		return nil, fmt.Errorf("need at least 2 data points to render a chart")
	}

	parseDates := func(points []models.PerformancePoint) ([]time.Time, []float64) {
		xs := make([]time.Time, 0, len(points))
		ys := make([]float64, 0, len(points))
		for _, p := range points {
			t, err := time.Parse("2006-01-02", p.Date)
			if err != nil {
				continue
			}
			xs = append(xs, t)
			ys = append(ys, p.Value)
		}
		return xs, ys
	}

	portfolioX, portfolioY := parseDates(result.Series)
	if len(portfolioX) < 2 {
		return nil, fmt.Errorf("need at least 2 data points to render a chart")
	}

	series := []chart.Series{
		chart.TimeSeries{
			Name: "Portfolio",
			Style: chart.Style{
				StrokeColor: drawing.ColorFromHex("2563eb"),
				StrokeWidth: 2.5,
			},
			XValues: portfolioX,
			YValues: portfolioY,
		},
	}

	if len(result.Benchmark) >= 2 {
		benchX, benchY := parseDates(result.Benchmark)
		if len(benchX) >= 2 {
			series = append(series, chart.TimeSeries{
				Name: result.BenchmarkSymbol,
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: benchX,
				YValues: benchY,
			})
		}
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Portfolio Performance (%s)", result.Period),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 02")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("$%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}

	graph.Elements = []chart.Renderable{
		chart.LegendLeft(&graph),
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}
