// Package model defines domain types for cashburn ledgers and reports.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one period of the uploaded cash ledger.
type LedgerRow struct {
	Date           time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal

	// Fields holds every raw cell of the row keyed by header name.
	Fields map[string]string
}

// Burn returns the net cash decrease over the row's period.
func (r LedgerRow) Burn() decimal.Decimal {
	return r.OpeningBalance.Sub(r.ClosingBalance)
}

// Ledger is the parsed contents of one uploaded file, in file order.
type Ledger struct {
	Source      string
	Columns     []string
	Rows        []LedgerRow
	TotalRows   int
	DroppedRows int   // rows excluded because their date did not parse
	DroppedLine []int // 1-based CSV line numbers of the dropped rows
}

// First returns the first row of the ledger. ok is false for an empty ledger.
func (l *Ledger) First() (LedgerRow, bool) {
	if l == nil || len(l.Rows) == 0 {
		return LedgerRow{}, false
	}
	return l.Rows[0], true
}

// Last returns the last row of the ledger. ok is false for an empty ledger.
func (l *Ledger) Last() (LedgerRow, bool) {
	if l == nil || len(l.Rows) == 0 {
		return LedgerRow{}, false
	}
	return l.Rows[len(l.Rows)-1], true
}

// HasColumn reports whether the ledger header contains name exactly.
func (l *Ledger) HasColumn(name string) bool {
	for _, c := range l.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Point is a single (date, value) pair used for charting.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}
