package widgets

import (
	"bytes"
	"context"
	"testing"

	"github.com/bobmcallan/folio/internal/models"
)

func TestPerformanceChartRendersPNG(t *testing.T) {
	svc := newTestService(&mockGateway{})

	result := &models.PerformanceResult{
		Period: "1mo",
		Series: []models.PerformancePoint{
			{Date: "2026-07-01", Value: 10000},
			{Date: "2026-07-02", Value: 10100},
			{Date: "2026-07-03", Value: 10050},
		},
		Benchmark: []models.PerformancePoint{
			{Date: "2026-07-01", Value: 10000},
			{Date: "2026-07-02", Value: 10050},
			{Date: "2026-07-03", Value: 10080},
		},
		BenchmarkSymbol: "SPY",
	}

	png, err := svc.PerformanceChart(context.Background(), result)
	if err != nil {
		t.Fatalf("PerformanceChart returned error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestPerformanceChartTooFewPoints(t *testing.T) {
	svc := newTestService(&mockGateway{})

	if _, err := svc.PerformanceChart(context.Background(), nil); err == nil {
		t.Error("nil result should not render")
	}

	result := &models.PerformanceResult{
		Series: []models.PerformancePoint{{Date: "2026-07-01", Value: 10000}},
	}
	if _, err := svc.PerformanceChart(context.Background(), result); err == nil {
		t.Error("single point should not render")
	}
}
