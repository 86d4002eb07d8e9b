package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Metrics holds the derived cash-burn figures for a ledger.
type Metrics struct {
	AverageMonthlyBurn decimal.Decimal `json:"average_monthly_burn"`
	CurrentBalance     decimal.Decimal `json:"current_balance"`
	MonthsToZero       float64         `json:"months_to_zero"`
	ZeroCashDate       time.Time       `json:"zero_cash_date"`
	CashBurnRateMonths float64         `json:"cash_burn_rate_months"`
	Rows               int             `json:"rows"`
}

// NoBurn reports whether the average burn was zero, in which case no
// projection was made and ZeroCashDate equals the first row's date.
func (m Metrics) NoBurn() bool {
	return m.AverageMonthlyBurn.IsZero()
}

// RunwayRow pairs a ledger date with its verbatim runway value.
type RunwayRow struct {
	Date     time.Time `json:"date"`
	Raw      string    `json:"raw"`
	Months   *float64  `json:"months,omitempty"` // nil when Raw is not numeric
	BurnRate string    `json:"burn_rate,omitempty"`
}

// AssumptionCell is one assumption value paired with its ledger date.
type AssumptionCell struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// AssumptionColumn is a recognised assumption column projected against Date.
type AssumptionColumn struct {
	Name   string           `json:"name"`
	Values []AssumptionCell `json:"values"`
}

// Trend is a materialised smoothed curve plus the raw points it was fit to.
type Trend struct {
	Column string  `json:"column"`
	Points []Point `json:"points"`
	Raw    []Point `json:"raw"`
}

// Report is the full result of analysing one ledger.
type Report struct {
	ID          string    `json:"id,omitempty"`
	Source      string    `json:"source"`
	GeneratedAt time.Time `json:"generated_at"`
	TotalRows   int       `json:"total_rows"`
	DroppedRows int       `json:"dropped_rows"`

	Metrics Metrics `json:"metrics"`

	Trend            *Trend `json:"trend,omitempty"`
	SmoothingSkipped bool   `json:"smoothing_skipped"`
	SmoothingReason  string `json:"smoothing_reason,omitempty"`

	Runway      []RunwayRow        `json:"runway,omitempty"`
	Assumptions []AssumptionColumn `json:"assumptions,omitempty"`
}
