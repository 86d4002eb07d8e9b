// Package ledger reads cash ledger CSV files, validates their columns and
// converts them into model.Ledger values.
package ledger

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a raw CSV table: a header row plus string records.
type Table struct {
	Columns []string
	Records [][]string
	Lines   []int // 1-based source line of each record
}

// Index returns the position of column in the header, or -1.
func (t *Table) Index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Cell returns the value of column in record i, or "" when the record is short.
func (t *Table) Cell(i int, column string) string {
	idx := t.Index(column)
	if idx < 0 || i < 0 || i >= len(t.Records) || idx >= len(t.Records[i]) {
		return ""
	}
	return t.Records[i][idx]
}

// ReadCSV reads a CSV document with a header row.
// Header names are trimmed of surrounding whitespace and a leading BOM.
// Fully blank records are skipped.
func ReadCSV(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // tolerate ragged rows, short cells read as ""
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoHeader
		}
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	t := &Table{Columns: make([]string, len(header))}
	for i, h := range header {
		t.Columns[i] = strings.TrimSpace(h)
	}

	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv records: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		t.Records = append(t.Records, rec)
		t.Lines = append(t.Lines, line)
	}

	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
