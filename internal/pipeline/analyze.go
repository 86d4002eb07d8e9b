// Package pipeline loads ledger files and turns them into reports.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/extract"
	"github.com/theirongolddev/cashburn/internal/metrics"
	"github.com/theirongolddev/cashburn/internal/model"
	"github.com/theirongolddev/cashburn/internal/smooth"
)

// Analyze derives the full report for one ledger. A ledger too short to
// smooth still yields a report, with SmoothingSkipped set and the raw trend
// points kept for markers.
func Analyze(l *model.Ledger, cfg config.Config) (*model.Report, error) {
	m, err := metrics.Calculate(l, cfg.General.CurrentBalance)
	if err != nil {
		return nil, fmt.Errorf("calculating metrics: %w", err)
	}

	if l.DroppedRows > 0 {
		log.Debug().
			Str("source", l.Source).
			Int("dropped", l.DroppedRows).
			Ints("lines", l.DroppedLine).
			Msg("rows with unparseable dates excluded")
	}

	rep := &model.Report{
		Source:      l.Source,
		GeneratedAt: time.Now().UTC(),
		TotalRows:   l.TotalRows,
		DroppedRows: l.DroppedRows,
		Metrics:     m,
		Runway:      extract.Runway(l, cfg.Schema),
		Assumptions: extract.Assumptions(l, cfg.Schema),
	}

	column := cfg.General.TrendColumn
	if column == "" {
		column = config.TrendClosing
	}
	raw, err := metrics.TrendPoints(l, column)
	if err != nil {
		return nil, err
	}
	rep.Trend = &model.Trend{Column: column, Raw: raw}

	n := cfg.General.SmoothingPoints
	if n < 2 {
		n = smooth.DefaultPoints
	}
	series, err := smooth.Smooth(raw, n)
	switch {
	case errors.Is(err, smooth.ErrInsufficientPoints):
		rep.SmoothingSkipped = true
		rep.SmoothingReason = err.Error()
	case err != nil:
		return nil, fmt.Errorf("smoothing trend: %w", err)
	default:
		rep.Trend.Points = series.Collect()
	}

	return rep, nil
}
