package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS ledgers (
    file_path            TEXT PRIMARY KEY,
    columns              BLOB NOT NULL,
    total_rows           INTEGER NOT NULL,
    dropped_rows         INTEGER NOT NULL,
    dropped_lines        BLOB,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ledger_rows (
    file_path            TEXT NOT NULL REFERENCES ledgers(file_path) ON DELETE CASCADE,
    row_index            INTEGER NOT NULL,
    date                 TEXT NOT NULL,
    opening_balance      TEXT NOT NULL,
    closing_balance      TEXT NOT NULL,
    fields               BLOB,
    PRIMARY KEY (file_path, row_index)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL,
    fingerprint          TEXT NOT NULL DEFAULT ''
);
`
