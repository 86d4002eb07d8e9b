package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/cashburn/internal/config"
	"github.com/theirongolddev/cashburn/internal/ledger"
	"github.com/theirongolddev/cashburn/internal/store"
)

// writeLedgers creates n ledger files of months rows each and returns the
// directory holding them.
func writeLedgers(tb testing.TB, n, months int) string {
	tb.Helper()
	dir := tb.TempDir()
	for i := 0; i < n; i++ {
		var b strings.Builder
		b.WriteString("Date,Opening Balance,Closing Balance,Cash Runway (Months),Assumptions\n")
		bal := 250000.0
		start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
		for m := 0; m < months; m++ {
			next := bal - 4000 - float64((m*37)%900)
			fmt.Fprintf(&b, "%s,%.2f,%.2f,%.1f,steady hiring\n",
				start.AddDate(0, m, 0).Format("2006-01-02"), bal, next, next/4000)
			bal = next
		}
		path := filepath.Join(dir, fmt.Sprintf("ledger-%03d.csv", i))
		if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
			tb.Fatal(err)
		}
	}
	return dir
}

func BenchmarkLoad(b *testing.B) {
	dir := writeLedgers(b, 32, 48)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load([]string{dir}, ledger.DefaultOptions(), nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkAnalyze(b *testing.B) {
	dir := writeLedgers(b, 1, 120)
	l, err := ledger.ReadFile(filepath.Join(dir, "ledger-000.csv"), ledger.DefaultOptions())
	if err != nil {
		b.Fatal(err)
	}
	cfg := config.DefaultConfig()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Analyze(l, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	dir := writeLedgers(b, 32, 48)

	cache, err := store.Open(filepath.Join(b.TempDir(), "ledgers.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache([]string{dir}, ledger.DefaultOptions(), cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}
