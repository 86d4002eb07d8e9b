package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultDateLayouts are tried in order by ParseDate. Slash dates are read
// month first.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"2006/1/2",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"02-Jan-2006",
	"2006-01",
	"Jan 2006",
	"January 2006",
}

var errNotNumber = errors.New("not a number")

// ParseDate parses s as a calendar date, trying extra layouts before the
// defaults. The result is truncated to midnight UTC.
func ParseDate(s string, extra ...string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layouts := range [][]string{extra, DefaultDateLayouts} {
		for _, layout := range layouts {
			t, err := time.Parse(layout, s)
			if err == nil {
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

// ParseAmount parses a money cell. It accepts a currency symbol, thousands
// separators and accounting-style parentheses for negatives.
func ParseAmount(s string) (decimal.Decimal, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return decimal.Zero, errNotNumber
	}

	negative := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		negative = true
		v = strings.TrimSpace(v[1 : len(v)-1])
	}
	if strings.HasPrefix(v, "-") {
		negative = !negative
		v = strings.TrimSpace(v[1:])
	}

	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, " ", "")
	if v == "" {
		return decimal.Zero, errNotNumber
	}

	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
