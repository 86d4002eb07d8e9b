// Package metrics derives cash-burn figures from a ledger.
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/model"
)

// MaxMonths bounds the offset used to project the zero-cash date. Larger
// runways are clamped so the date stays representable.
const MaxMonths = 12000

// Calculate computes the burn metrics for l.
//
// The average burn is the population mean of opening minus closing over
// every row. The current balance is the first row's closing balance unless
// policy is config.BalanceLatest. A zero average burn yields zero months and
// a zero-cash date equal to the first row's date.
func Calculate(l *model.Ledger, policy string) (model.Metrics, error) {
	first, ok := l.First()
	if !ok {
		return model.Metrics{}, ledger.ErrEmptyLedger
	}

	total := decimal.Zero
	for _, r := range l.Rows {
		total = total.Add(r.Burn())
	}
	avg := total.Div(decimal.NewFromInt(int64(len(l.Rows))))

	current := first.ClosingBalance
	switch policy {
	case "", config.BalanceFirst:
	case config.BalanceLatest:
		last, _ := l.Last()
		current = last.ClosingBalance
	default:
		return model.Metrics{}, fmt.Errorf("unknown current balance policy %q", policy)
	}

	var months float64
	if !avg.IsZero() {
		months = current.Div(avg).InexactFloat64()
	}

	return model.Metrics{
		AverageMonthlyBurn: avg,
		CurrentBalance:     current,
		MonthsToZero:       months,
		ZeroCashDate:       AddMonths(first.Date, months),
		CashBurnRateMonths: months,
		Rows:               len(l.Rows),
	}, nil
}

// AddMonths advances t by a fractional number of months.
//
// Whole months move along the calendar, clamping to the last day of a
// shorter month. The fractional remainder becomes that share of the days in
// the month reached, rounded down to a whole day. Negative offsets floor the
// whole part so the remainder always moves forward. The time of day is
// dropped.
func AddMonths(t time.Time, months float64) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	if math.IsNaN(months) || months == 0 {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	months = math.Max(-MaxMonths, math.Min(MaxMonths, months))

	whole := math.Floor(months)
	frac := months - whole

	idx := int(m) - 1 + int(whole)
	year := y + floorDiv(idx, 12)
	month := time.Month(idx - floorDiv(idx, 12)*12 + 1)

	day := min(d, daysIn(year, month))
	base := time.Date(year, month, day, 0, 0, 0, 0, loc)

	extra := int(math.Floor(frac * float64(daysIn(year, month))))
	return base.AddDate(0, 0, extra)
}

// TrendPoints returns the series charted as the trendline, one point per
// ledger row in file order. column is one of the config.Trend* values.
func TrendPoints(l *model.Ledger, column string) ([]model.Point, error) {
	var value func(model.LedgerRow) decimal.Decimal
	switch column {
	case "", config.TrendClosing:
		value = func(r model.LedgerRow) decimal.Decimal { return r.ClosingBalance }
	case config.TrendOpening:
		value = func(r model.LedgerRow) decimal.Decimal { return r.OpeningBalance }
	case config.TrendBurn:
		value = model.LedgerRow.Burn
	default:
		return nil, fmt.Errorf("unknown trend column %q", column)
	}

	pts := make([]model.Point, len(l.Rows))
	for i, r := range l.Rows {
		pts[i] = model.Point{Date: r.Date, Value: value(r).InexactFloat64()}
	}
	return pts, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
