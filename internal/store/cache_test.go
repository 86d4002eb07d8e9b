package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashburn/internal/model"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleLedger(source string) *model.Ledger {
	return &model.Ledger{
		Source:      source,
		Columns:     []string{"Date", "Opening Balance", "Closing Balance", "Assumptions"},
		TotalRows:   3,
		DroppedRows: 1,
		DroppedLine: []int{3},
		Rows: []model.LedgerRow{
			{
				Date:           time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				OpeningBalance: decimal.RequireFromString("1000.50"),
				ClosingBalance: decimal.RequireFromString("900"),
				Fields:         map[string]string{"Assumptions": "flat revenue"},
			},
			{
				Date:           time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
				OpeningBalance: decimal.RequireFromString("900"),
				ClosingBalance: decimal.RequireFromString("-12.25"),
				Fields:         map[string]string{"Assumptions": ""},
			},
		},
	}
}

func TestSaveLoadLedger(t *testing.T) {
	c := openTemp(t)
	want := sampleLedger("/data/q1.csv")

	if err := c.SaveLedger(want, FileInfo{MtimeNs: 42, SizeBytes: 128, Fingerprint: "abc"}); err != nil {
		t.Fatalf("SaveLedger: %v", err)
	}

	got, err := c.LoadLedger(want.Source)
	if err != nil {
		t.Fatalf("LoadLedger: %v", err)
	}

	if len(got.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(got.Rows))
	}
	if got.TotalRows != 3 || got.DroppedRows != 1 || len(got.DroppedLine) != 1 || got.DroppedLine[0] != 3 {
		t.Errorf("counts = %d/%d/%v", got.TotalRows, got.DroppedRows, got.DroppedLine)
	}
	if len(got.Columns) != 4 || got.Columns[3] != "Assumptions" {
		t.Errorf("columns = %v", got.Columns)
	}
	for i := range want.Rows {
		w, g := want.Rows[i], got.Rows[i]
		if !g.Date.Equal(w.Date) {
			t.Errorf("row %d date = %v, want %v", i, g.Date, w.Date)
		}
		if !g.OpeningBalance.Equal(w.OpeningBalance) || !g.ClosingBalance.Equal(w.ClosingBalance) {
			t.Errorf("row %d balances = %s/%s", i, g.OpeningBalance, g.ClosingBalance)
		}
		if g.Fields["Assumptions"] != w.Fields["Assumptions"] {
			t.Errorf("row %d fields = %v", i, g.Fields)
		}
	}

	tracked, err := c.GetTrackedFiles()
	if err != nil {
		t.Fatalf("GetTrackedFiles: %v", err)
	}
	if fi := tracked[want.Source]; fi.MtimeNs != 42 || fi.SizeBytes != 128 || fi.Fingerprint != "abc" {
		t.Errorf("tracked = %+v", fi)
	}
}

func TestSaveLedger_ReplacesRows(t *testing.T) {
	c := openTemp(t)
	l := sampleLedger("/data/q1.csv")
	if err := c.SaveLedger(l, FileInfo{MtimeNs: 1, SizeBytes: 1}); err != nil {
		t.Fatal(err)
	}

	l.Rows = l.Rows[:1]
	if err := c.SaveLedger(l, FileInfo{MtimeNs: 2, SizeBytes: 2}); err != nil {
		t.Fatal(err)
	}

	got, err := c.LoadLedger(l.Source)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Rows) != 1 {
		t.Errorf("rows after replace = %d, want 1", len(got.Rows))
	}
	n, err := c.LedgerCount()
	if err != nil || n != 1 {
		t.Errorf("LedgerCount = %d, %v", n, err)
	}
}

func TestLoadLedger_NotCached(t *testing.T) {
	c := openTemp(t)
	_, err := c.LoadLedger("/nope.csv")
	if !errors.Is(err, ErrNotCached) {
		t.Fatalf("err = %v, want ErrNotCached", err)
	}
}

func TestDeleteLedger(t *testing.T) {
	c := openTemp(t)
	l := sampleLedger("/data/q1.csv")
	if err := c.SaveLedger(l, FileInfo{MtimeNs: 1, SizeBytes: 1}); err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteLedger(l.Source); err != nil {
		t.Fatalf("DeleteLedger: %v", err)
	}

	if _, err := c.LoadLedger(l.Source); !errors.Is(err, ErrNotCached) {
		t.Errorf("LoadLedger after delete: %v", err)
	}
	tracked, _ := c.GetTrackedFiles()
	if _, ok := tracked[l.Source]; ok {
		t.Error("tracker entry survived delete")
	}
}
