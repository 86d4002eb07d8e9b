package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/model"
)

func TestRenderTable_Shape(t *testing.T) {
	out := RenderTable(Table{
		Title:   "Runway",
		Headers: []string{"Date", "Months"},
		Rows: [][]string{
			{"01/01/2024", "9"},
			{"---"},
			{"02/01/2024", "12.5"},
		},
	})

	if !strings.Contains(out, "Runway") || !strings.Contains(out, "12.5") {
		t.Fatalf("table missing content:\n%s", out)
	}
	if got := strings.Count(out, "\n"); got != 8 {
		t.Errorf("table has %d lines, want 8:\n%s", got, out)
	}
}

func TestRenderSparkline_Range(t *testing.T) {
	got := []rune(RenderSparkline([]float64{-10, 0, 10}))
	if len(got) != 3 || got[0] != '▁' || got[2] != '█' {
		t.Errorf("RenderSparkline = %q", string(got))
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty input should render nothing")
	}
}

func TestRenderMetrics(t *testing.T) {
	m := model.Metrics{
		AverageMonthlyBurn: decimal.RequireFromString("116.6666666667"),
		CurrentBalance:     decimal.NewFromInt(900),
		MonthsToZero:       7.714,
		CashBurnRateMonths: 7.714,
		ZeroCashDate:       time.Date(2024, 8, 23, 0, 0, 0, 0, time.UTC),
	}

	out := RenderMetrics(m)
	for _, want := range []string{"$116.67", "$900.00", "7.71 Months", "08/23/2024", "No Additional Cash Inflows"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderMetrics missing %q:\n%s", want, out)
		}
	}
}

func TestRenderLineChart(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	raw := []model.Point{
		{Date: start, Value: 900},
		{Date: start.AddDate(0, 1, 0), Value: 750},
		{Date: start.AddDate(0, 2, 0), Value: 650},
	}

	out := RenderLineChart(nil, raw, 40, 8)
	if strings.Count(out, "●") != 3 {
		t.Errorf("want 3 markers:\n%s", out)
	}
	if !strings.Contains(out, "01/01/2024") || !strings.Contains(out, "03/01/2024") {
		t.Errorf("missing date axis:\n%s", out)
	}
	if RenderLineChart(nil, nil, 40, 8) != "" {
		t.Error("empty chart should render nothing")
	}
}

func TestRenderHorizontalBar(t *testing.T) {
	full := RenderHorizontalBar("01/01/2024", 10, 10, 20, "10")
	if strings.Count(full, "█") != 20 {
		t.Errorf("full bar = %q", full)
	}
	neg := RenderHorizontalBar("01/01/2024", -3, 10, 20, "-3")
	if strings.Contains(neg, "█") {
		t.Errorf("negative bar = %q", neg)
	}
}
