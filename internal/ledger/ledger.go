package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/model"
)

// Options controls how a table is turned into a ledger.
type Options struct {
	Schema      config.Schema
	DateLayouts []string // tried before DefaultDateLayouts
}

// DefaultOptions uses the default schema and date layouts.
func DefaultOptions() Options {
	return Options{Schema: config.DefaultSchema()}
}

// OptionsFor returns the parse options configured in cfg.
func OptionsFor(cfg config.Config) Options {
	return Options{Schema: cfg.Schema, DateLayouts: cfg.General.DateLayouts}
}

// Fingerprint identifies the options for cache invalidation: a ledger
// cached under one fingerprint is stale under any other.
func (o Options) Fingerprint() string {
	b, err := msgpack.Marshal(struct {
		Schema  config.Schema
		Layouts []string
	}{o.Schema, o.DateLayouts})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:8])
}

// Build validates t against the schema and converts it to a ledger.
//
// Rows whose date does not parse are dropped and counted; they never reach
// the metrics or the trend. A row with a valid date but a non-numeric
// balance aborts the build with *InvalidNumberError.
func Build(source string, t *Table, opts Options) (*model.Ledger, error) {
	s := opts.Schema
	if res := Validate(t.Columns, s.Required()); !res.OK {
		return nil, res.Err()
	}

	dateIdx := t.Index(s.Date)
	openIdx := t.Index(s.OpeningBalance)
	closeIdx := t.Index(s.ClosingBalance)

	l := &model.Ledger{
		Source:    source,
		Columns:   append([]string(nil), t.Columns...),
		TotalRows: len(t.Records),
		Rows:      make([]model.LedgerRow, 0, len(t.Records)),
	}

	for i, rec := range t.Records {
		line := i + 2
		if i < len(t.Lines) {
			line = t.Lines[i]
		}

		date, ok := ParseDate(cell(rec, dateIdx), opts.DateLayouts...)
		if !ok {
			l.DroppedRows++
			l.DroppedLine = append(l.DroppedLine, line)
			continue
		}

		opening, err := ParseAmount(cell(rec, openIdx))
		if err != nil {
			return nil, &InvalidNumberError{Line: line, Column: s.OpeningBalance, Value: cell(rec, openIdx)}
		}
		closing, err := ParseAmount(cell(rec, closeIdx))
		if err != nil {
			return nil, &InvalidNumberError{Line: line, Column: s.ClosingBalance, Value: cell(rec, closeIdx)}
		}

		fields := make(map[string]string, len(t.Columns))
		for j, col := range t.Columns {
			fields[col] = cell(rec, j)
		}

		l.Rows = append(l.Rows, model.LedgerRow{
			Date:           date,
			OpeningBalance: opening,
			ClosingBalance: closing,
			Fields:         fields,
		})
	}

	if len(l.Rows) == 0 {
		return l, ErrEmptyLedger
	}
	return l, nil
}

// Read parses CSV from r and builds a ledger from it.
func Read(source string, r io.Reader, opts Options) (*model.Ledger, error) {
	t, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	return Build(source, t, opts)
}

// ReadFile opens path and builds a ledger from its contents.
func ReadFile(path string, opts Options) (*model.Ledger, error) {
	f, err := os.Open(path) //nolint:gosec // path supplied by the user on the command line
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Read(path, f, opts)
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
