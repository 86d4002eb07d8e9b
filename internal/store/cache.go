// Package store provides a SQLite-backed cache for parsed ledgers.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/theirongolddev/cashburn/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrNotCached is returned by LoadLedger for a path with no cached entry.
var ErrNotCached = errors.New("ledger not cached")

// Cache provides SQLite-backed ledger caching.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// FileInfo holds the tracked mtime and size for a file, plus a fingerprint
// of the parse options the cached ledger was built with.
type FileInfo struct {
	MtimeNs     int64
	SizeBytes   int64
	Fingerprint string
}

// Stat returns the FileInfo for info parsed under fingerprint.
func Stat(info os.FileInfo, fingerprint string) FileInfo {
	return FileInfo{
		MtimeNs:     info.ModTime().UnixNano(),
		SizeBytes:   info.Size(),
		Fingerprint: fingerprint,
	}
}

// GetTrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (c *Cache) GetTrackedFiles() (map[string]FileInfo, error) {
	rows, err := c.db.Query("SELECT file_path, mtime_ns, size_bytes, fingerprint FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes, &fi.Fingerprint); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveLedger stores a parsed ledger and its file tracking info, replacing
// any earlier entry for the same source path.
func (c *Cache) SaveLedger(l *model.Ledger, fi FileInfo) error {
	columns, err := msgpack.Marshal(l.Columns)
	if err != nil {
		return fmt.Errorf("encoding columns: %w", err)
	}
	dropped, err := msgpack.Marshal(l.DroppedLine)
	if err != nil {
		return fmt.Errorf("encoding dropped lines: %w", err)
	}

	tx, err := c.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	// Rows go first so a replaced ledger never leaves stale rows behind.
	if _, err := tx.Exec("DELETE FROM ledger_rows WHERE file_path = ?", l.Source); err != nil {
		return err
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO ledgers
		(file_path, columns, total_rows, dropped_rows, dropped_lines, file_mtime_ns, file_size, parsed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.Source, columns, l.TotalRows, l.DroppedRows, dropped, fi.MtimeNs, fi.SizeBytes, now,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO ledger_rows
		(file_path, row_index, date, opening_balance, closing_balance, fields)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range l.Rows {
		fields, err := msgpack.Marshal(r.Fields)
		if err != nil {
			return fmt.Errorf("encoding row %d: %w", i, err)
		}
		_, err = stmt.Exec(l.Source, i, r.Date.Format(time.DateOnly),
			r.OpeningBalance.String(), r.ClosingBalance.String(), fields)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes, fingerprint)
		VALUES (?, ?, ?, ?)`, l.Source, fi.MtimeNs, fi.SizeBytes, fi.Fingerprint)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// LoadLedger reads the cached ledger for path.
func (c *Cache) LoadLedger(path string) (*model.Ledger, error) {
	l := &model.Ledger{Source: path}
	var columns, dropped []byte

	err := c.db.QueryRow(`SELECT columns, total_rows, dropped_rows, dropped_lines
		FROM ledgers WHERE file_path = ?`, path).
		Scan(&columns, &l.TotalRows, &l.DroppedRows, &dropped)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, err
	}

	if err := msgpack.Unmarshal(columns, &l.Columns); err != nil {
		return nil, fmt.Errorf("decoding columns: %w", err)
	}
	if len(dropped) > 0 {
		if err := msgpack.Unmarshal(dropped, &l.DroppedLine); err != nil {
			return nil, fmt.Errorf("decoding dropped lines: %w", err)
		}
	}

	rows, err := c.db.Query(`SELECT date, opening_balance, closing_balance, fields
		FROM ledger_rows WHERE file_path = ? ORDER BY row_index`, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var dateStr, openStr, closeStr string
		var fields []byte
		if err := rows.Scan(&dateStr, &openStr, &closeStr, &fields); err != nil {
			return nil, err
		}

		var r model.LedgerRow
		if r.Date, err = time.Parse(time.DateOnly, dateStr); err != nil {
			return nil, fmt.Errorf("decoding cached date: %w", err)
		}
		if r.OpeningBalance, err = decimal.NewFromString(openStr); err != nil {
			return nil, fmt.Errorf("decoding cached balance: %w", err)
		}
		if r.ClosingBalance, err = decimal.NewFromString(closeStr); err != nil {
			return nil, fmt.Errorf("decoding cached balance: %w", err)
		}
		if len(fields) > 0 {
			if err := msgpack.Unmarshal(fields, &r.Fields); err != nil {
				return nil, fmt.Errorf("decoding cached fields: %w", err)
			}
		}
		l.Rows = append(l.Rows, r)
	}

	return l, rows.Err()
}

// DeleteLedger removes a cached ledger, its rows and its tracker entry.
func (c *Cache) DeleteLedger(path string) error {
	if _, err := c.db.Exec("DELETE FROM ledger_rows WHERE file_path = ?", path); err != nil {
		return err
	}
	if _, err := c.db.Exec("DELETE FROM ledgers WHERE file_path = ?", path); err != nil {
		return err
	}
	return c.DeleteFileTracker(path)
}

// DeleteFileTracker removes a file tracking entry.
func (c *Cache) DeleteFileTracker(filePath string) error {
	_, err := c.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// LedgerCount returns the number of cached ledgers.
func (c *Cache) LedgerCount() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM ledgers").Scan(&count)
	return count, err
}
