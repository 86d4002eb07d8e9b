// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// DateLayout is the display layout for ledger and zero-cash dates.
const DateLayout = "01/02/2006"

// FormatMoney formats an amount as dollars with thousands separators and
// two decimals, e.g. 1234.5 -> "$1,234.50", -75 -> "-$75.00".
func FormatMoney(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	if f < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -f)
	}
	return "$" + humanize.FormatFloat("#,###.##", f)
}

// FormatCompactMoney formats a dollar value with a magnitude suffix for
// chart axes, e.g. 1234 -> "$1.2K", 2500000 -> "$2.5M".
func FormatCompactMoney(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	switch {
	case v >= 1_000_000_000:
		return fmt.Sprintf("%s$%.1fB", sign, v/1_000_000_000)
	case v >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%s$%.1fK", sign, v/1_000)
	default:
		return fmt.Sprintf("%s$%.0f", sign, v)
	}
}

// FormatMonths formats a runway length, e.g. 7.714 -> "7.71 Months".
func FormatMonths(m float64) string {
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return "n/a"
	}
	return strconv.FormatFloat(m, 'f', 2, 64) + " Months"
}

// FormatDate formats a ledger date as MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	return humanize.Comma(n)
}

// FormatAge describes how long ago t was, e.g. "3 minutes ago".
func FormatAge(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
