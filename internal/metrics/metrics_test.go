package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/model"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

func row(t *testing.T, date string, opening, closing int64) model.LedgerRow {
	t.Helper()
	return model.LedgerRow{
		Date:           mustDate(t, date),
		OpeningBalance: decimal.NewFromInt(opening),
		ClosingBalance: decimal.NewFromInt(closing),
	}
}

func threeMonthLedger(t *testing.T) *model.Ledger {
	return &model.Ledger{Rows: []model.LedgerRow{
		row(t, "2024-01-01", 1000, 900),
		row(t, "2024-02-01", 900, 750),
		row(t, "2024-03-01", 750, 650),
	}}
}

func TestCalculate_ThreeMonthExample(t *testing.T) {
	m, err := Calculate(threeMonthLedger(t), config.BalanceFirst)
	require.NoError(t, err)

	assert.Equal(t, "116.67", m.AverageMonthlyBurn.StringFixed(2))
	assert.True(t, m.CurrentBalance.Equal(decimal.NewFromInt(900)))
	assert.InDelta(t, 7.714, m.MonthsToZero, 0.001)
	assert.Equal(t, m.MonthsToZero, m.CashBurnRateMonths)
	assert.Equal(t, mustDate(t, "2024-08-23"), m.ZeroCashDate)
	assert.Equal(t, 3, m.Rows)
}

func TestCalculate_Deterministic(t *testing.T) {
	a, err := Calculate(threeMonthLedger(t), "")
	require.NoError(t, err)
	b, err := Calculate(threeMonthLedger(t), "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCalculate_ZeroBurn(t *testing.T) {
	l := &model.Ledger{Rows: []model.LedgerRow{
		row(t, "2024-05-10", 500, 600),
		row(t, "2024-06-10", 600, 500),
	}}

	m, err := Calculate(l, config.BalanceFirst)
	require.NoError(t, err)

	assert.True(t, m.NoBurn())
	assert.Zero(t, m.MonthsToZero)
	assert.Equal(t, mustDate(t, "2024-05-10"), m.ZeroCashDate)
}

func TestCalculate_LatestBalance(t *testing.T) {
	m, err := Calculate(threeMonthLedger(t), config.BalanceLatest)
	require.NoError(t, err)

	assert.True(t, m.CurrentBalance.Equal(decimal.NewFromInt(650)))
	// 650 / (350/3) = 5.571..., Jun 1 + 0.571*30 days
	assert.Equal(t, mustDate(t, "2024-06-18"), m.ZeroCashDate)
}

func TestCalculate_GrowingCashProjectsBackwards(t *testing.T) {
	l := &model.Ledger{Rows: []model.LedgerRow{
		row(t, "2024-03-15", 100, 150),
	}}
	m, err := Calculate(l, "")
	require.NoError(t, err)

	// 150 / -50 = -3 months
	assert.Equal(t, -3.0, m.MonthsToZero)
	assert.Equal(t, mustDate(t, "2023-12-15"), m.ZeroCashDate)
}

func TestCalculate_Empty(t *testing.T) {
	_, err := Calculate(&model.Ledger{}, "")
	require.ErrorIs(t, err, ledger.ErrEmptyLedger)
}

func TestCalculate_UnknownPolicy(t *testing.T) {
	_, err := Calculate(threeMonthLedger(t), "median")
	require.Error(t, err)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		start  string
		months float64
		want   string
	}{
		{"2024-01-01", 0, "2024-01-01"},
		{"2024-01-01", 1, "2024-02-01"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-11-15", 3, "2025-02-15"},
		{"2024-01-01", 0.5, "2024-01-16"},
		{"2024-02-01", 0.5, "2024-02-15"},
		{"2024-01-01", 7.714285714, "2024-08-23"},
		{"2024-03-15", -0.5, "2024-02-29"},
		{"2024-01-10", -13, "2022-12-10"},
	}

	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := AddMonths(mustDate(t, tt.start), tt.months)
			assert.Equal(t, mustDate(t, tt.want), got, "AddMonths(%s, %v)", tt.start, tt.months)
		})
	}
}

func TestAddMonths_DropsTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 18, 30, 0, 0, time.UTC)
	assert.Equal(t, mustDate(t, "2024-01-01"), AddMonths(start, 0))
	assert.Equal(t, mustDate(t, "2024-02-01"), AddMonths(start, 1))
}

func TestAddMonths_ClampsHugeOffsets(t *testing.T) {
	start := mustDate(t, "2024-01-01")
	got := AddMonths(start, 1e12)
	assert.Equal(t, 3024, got.Year())

	assert.Equal(t, start, AddMonths(start, math.NaN()))
}

func TestTrendPoints(t *testing.T) {
	l := threeMonthLedger(t)

	closing, err := TrendPoints(l, config.TrendClosing)
	require.NoError(t, err)
	require.Len(t, closing, 3)
	assert.Equal(t, 900.0, closing[0].Value)

	burn, err := TrendPoints(l, config.TrendBurn)
	require.NoError(t, err)
	assert.Equal(t, []float64{100, 150, 100}, values(burn))

	opening, err := TrendPoints(l, config.TrendOpening)
	require.NoError(t, err)
	assert.Equal(t, 750.0, opening[2].Value)

	_, err = TrendPoints(l, "volume")
	assert.Error(t, err)
}

func values(pts []model.Point) []float64 {
	out := make([]float64, len(pts))
	for i, p := range pts {
		out[i] = p.Value
	}
	return out
}
