// Package extract projects optional ledger columns (runway, assumptions)
// against the ledger dates for tables and bar charts. Values are passed
// through verbatim.
package extract

import (
	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/model"
)

// Runway pairs each row's runway cell with its date. It returns nil when the
// ledger has no runway column. Months is set only when the cell is numeric.
func Runway(l *model.Ledger, s config.Schema) []model.RunwayRow {
	if s.Runway == "" || !l.HasColumn(s.Runway) {
		return nil
	}
	withRate := s.BurnRate != "" && l.HasColumn(s.BurnRate)

	out := make([]model.RunwayRow, 0, len(l.Rows))
	for _, r := range l.Rows {
		rr := model.RunwayRow{Date: r.Date, Raw: r.Fields[s.Runway]}
		if v, err := ledger.ParseAmount(rr.Raw); err == nil {
			f := v.InexactFloat64()
			rr.Months = &f
		}
		if withRate {
			rr.BurnRate = r.Fields[s.BurnRate]
		}
		out = append(out, rr)
	}
	return out
}

// Assumptions returns every assumption column selected by the schema, in
// header order, each paired with the row dates.
func Assumptions(l *model.Ledger, s config.Schema) []model.AssumptionColumn {
	var out []model.AssumptionColumn
	for _, col := range l.Columns {
		if !s.IsAssumption(col) {
			continue
		}
		ac := model.AssumptionColumn{
			Name:   col,
			Values: make([]model.AssumptionCell, len(l.Rows)),
		}
		for i, r := range l.Rows {
			ac.Values[i] = model.AssumptionCell{Date: r.Date, Text: r.Fields[col]}
		}
		out = append(out, ac)
	}
	return out
}
