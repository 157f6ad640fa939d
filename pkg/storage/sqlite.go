package storage

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteBackend persists records in a single-table SQLite database. A byte
// quota is enforced by the backend itself so quota recovery behaves the same
// as on capacity-limited media.
type SQLiteBackend struct {
	db    *sql.DB
	quota int
}

// SQLiteOption configures a SQLiteBackend.
type SQLiteOption func(*SQLiteBackend)

// WithSQLiteQuota caps the total stored bytes.
func WithSQLiteQuota(bytes int) SQLiteOption {
	return func(b *SQLiteBackend) {
		b.quota = bytes
	}
}

// NewSQLiteBackend opens (or creates) the database at path.
func NewSQLiteBackend(path string, opts ...SQLiteOption) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("set pragma %s: %w", pragma, err)
		}
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			key TEXT PRIMARY KEY,
			value BLOB NOT NULL
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}

	b := &SQLiteBackend{db: db}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *SQLiteBackend) Read(key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.QueryRow("SELECT value FROM records WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %q: %w", key, err)
	}
	return value, true, nil
}

func (b *SQLiteBackend) Write(key string, value []byte) error {
	if b.quota > 0 {
		used, err := b.usedExcluding(key)
		if err != nil {
			return err
		}
		if used+len(key)+len(value) > b.quota {
			return ErrQuotaExceeded
		}
	}
	_, err := b.db.Exec(
		"INSERT INTO records (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Delete(key string) error {
	if _, err := b.db.Exec("DELETE FROM records WHERE key = ?", key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

func (b *SQLiteBackend) Keys(prefix string) ([]string, error) {
	pattern := strings.ReplaceAll(strings.ReplaceAll(prefix, "%", `\%`), "_", `\_`) + "%"
	rows, err := b.db.Query(`SELECT key FROM records WHERE key LIKE ? ESCAPE '\'`, pattern)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

func (b *SQLiteBackend) usedExcluding(key string) (int, error) {
	var used sql.NullInt64
	err := b.db.QueryRow(
		"SELECT SUM(LENGTH(key) + LENGTH(value)) FROM records WHERE key != ?", key,
	).Scan(&used)
	if err != nil {
		return 0, fmt.Errorf("compute usage: %w", err)
	}
	return int(used.Int64), nil
}
