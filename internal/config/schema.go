package config

import (
	"slices"
	"strings"
)

// Schema names the ledger columns cashburn recognises. Names are matched
// exactly and case-sensitively.
type Schema struct {
	Date           string `toml:"date"`
	OpeningBalance string `toml:"opening_balance"`
	ClosingBalance string `toml:"closing_balance"`
	Runway         string `toml:"runway"`
	BurnRate       string `toml:"burn_rate"`

	// AssumptionColumns lists assumption columns explicitly. When empty,
	// any column whose name contains AssumptionMatch is treated as one.
	AssumptionColumns []string `toml:"assumption_columns,omitempty"`
	AssumptionMatch   string   `toml:"assumption_match"`
}

// DefaultSchema returns the column names produced by the usual cash report export.
func DefaultSchema() Schema {
	return Schema{
		Date:            "Date",
		OpeningBalance:  "Opening Balance",
		ClosingBalance:  "Closing Balance",
		Runway:          "Cash Runway (Months)",
		BurnRate:        "Monthly Cash Burn Rate",
		AssumptionMatch: "Assumption",
	}
}

// Required returns the columns that must be present before any computation.
func (s Schema) Required() []string {
	return []string{s.Date, s.OpeningBalance, s.ClosingBalance}
}

// Optional returns the recognised optional columns that have a fixed name.
func (s Schema) Optional() []string {
	out := []string{s.Runway, s.BurnRate}
	return append(out, s.AssumptionColumns...)
}

// IsAssumption reports whether column holds assumption text.
func (s Schema) IsAssumption(column string) bool {
	if len(s.AssumptionColumns) > 0 {
		return slices.Contains(s.AssumptionColumns, column)
	}
	if s.AssumptionMatch == "" {
		return false
	}
	if slices.Contains(s.Required(), column) {
		return false
	}
	return strings.Contains(column, s.AssumptionMatch)
}

func (s *Schema) fillDefaults() {
	d := DefaultSchema()
	if s.Date == "" {
		s.Date = d.Date
	}
	if s.OpeningBalance == "" {
		s.OpeningBalance = d.OpeningBalance
	}
	if s.ClosingBalance == "" {
		s.ClosingBalance = d.ClosingBalance
	}
	if s.Runway == "" {
		s.Runway = d.Runway
	}
	if s.BurnRate == "" {
		s.BurnRate = d.BurnRate
	}
}
