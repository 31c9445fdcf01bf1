package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/skvdb/skv/lib/backend"

	_ "modernc.org/sqlite"
)

// schema is applied as one batch on every construction; all statements are
// idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key        TEXT PRIMARY KEY,
    value      BLOB NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// MemoryDSN is the sentinel path for an ephemeral in-memory database.
const MemoryDSN = ":memory:"

// --------------------------------------------------------------------------
// Core Backend Structure
// --------------------------------------------------------------------------

// sqliteBackend is the single-engine convenience implementation: it talks
// directly to the embedded SQLite driver through exactly one connection and
// serializes all operations behind a mutex. For the generalized multi-engine
// implementation see the sqlmulti package.
type sqliteBackend struct {
	mu     sync.Mutex // Serializes all access to the single connection
	db     *sql.DB
	caps   backend.Capabilities
	closed atomic.Bool
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// New creates a new SQLite backend. The path is a filesystem path or the
// MemoryDSN sentinel.
func New(ctx context.Context, path string) (backend.IBackend, error) {
	url := fmt.Sprintf("file:%s?mode=rwc", path)
	if path == MemoryDSN {
		url = "file::memory:"
	}

	db, err := sql.Open("sqlite", url)
	if err != nil {
		return nil, backend.NewErrorf(backend.RetCConnection, "failed to open sqlite database: %v", err)
	}

	// One exclusively-held connection; the mutex above it guarantees no two
	// operations ever interleave on it.
	db.SetMaxOpenConns(1)

	// WAL mode for better concurrency with external readers, foreign keys
	// for the consumers that model relations on top of the store.
	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA journal_mode = WAL"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, backend.NewErrorf(backend.RetCConnection, "failed to apply %q: %v", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, backend.NewErrorf(backend.RetCMigration, "failed to initialize schema: %v", err)
	}

	return &sqliteBackend{
		db: db,
		caps: backend.Capabilities{
			Transactions: true,
			Directories:  true,
			SQLQueries:   true,
			Indexes:      true,
			MaxKeySize:   1024 * 1024,        // 1 MiB
			MaxValueSize: 1024 * 1024 * 1024, // 1 GiB
		},
	}, nil
}

func (s *sqliteBackend) guard() error {
	if s.closed.Load() {
		return backend.NewError(backend.RetCClosed, "backend is closed")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend/interface.go)
// --------------------------------------------------------------------------

func (s *sqliteBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO kv_store (key, value, updated_at) VALUES (?, ?, datetime('now'))",
		key, value)
	if err != nil {
		return backend.NewErrorf(backend.RetCBackend, "set %q: %v", key, err)
	}
	return nil
}

func (s *sqliteBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := s.guard(); err != nil {
		return nil, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, backend.NewErrorf(backend.RetCBackend, "get %q: %v", key, err)
	}
	return value, true, nil
}

func (s *sqliteBackend) Delete(ctx context.Context, key string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM kv_store WHERE key = ?", key)
	if err != nil {
		return backend.NewErrorf(backend.RetCBackend, "delete %q: %v", key, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return backend.NewErrorf(backend.RetCBackend, "delete %q: %v", key, err)
	}
	if affected == 0 {
		return backend.NewErrorf(backend.RetCNotFound, "key %q not found", key)
	}
	return nil
}

func (s *sqliteBackend) Has(ctx context.Context, key string) (bool, error) {
	if err := s.guard(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM kv_store WHERE key = ? LIMIT 1", key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, backend.NewErrorf(backend.RetCBackend, "has %q: %v", key, err)
	}
	return true, nil
}

func (s *sqliteBackend) Scan(ctx context.Context, prefix string) (backend.ScanResult, error) {
	if err := s.guard(); err != nil {
		return backend.ScanResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM kv_store WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
		escapeLike(prefix)+"%")
	if err != nil {
		return backend.ScanResult{}, backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return backend.ScanResult{}, backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return backend.ScanResult{}, backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err)
	}
	return backend.ScanResult{Keys: keys}, nil
}

func (s *sqliteBackend) Query(ctx context.Context, query string, params [][]byte) (backend.QueryResult, error) {
	if err := s.guard(); err != nil {
		return backend.QueryResult{}, err
	}
	if len(params) > 0 {
		return backend.QueryResult{}, backend.NewError(backend.RetCUnsupported, "query parameters are not supported, only literal SQL text")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if isReadStatement(query) {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return backend.QueryResult{}, backend.NewErrorf(backend.RetCBackend, "query: %v", err)
		}
		defer rows.Close()

		decoded, err := decodeRows(rows)
		if err != nil {
			return backend.QueryResult{}, backend.NewErrorf(backend.RetCBackend, "query: %v", err)
		}
		return backend.QueryResult{Rows: decoded}, nil
	}

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return backend.QueryResult{}, backend.NewErrorf(backend.RetCBackend, "query: %v", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return backend.QueryResult{}, backend.NewErrorf(backend.RetCBackend, "query: %v", err)
	}
	return backend.QueryResult{Affected: uint64(affected)}, nil
}

func (s *sqliteBackend) Begin(context.Context) (backend.Transaction, error) {
	return nil, backend.NewError(backend.RetCUnsupported, "transactions are not supported by the SQLite backend")
}

func (s *sqliteBackend) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.db.Close(); err != nil {
		return backend.NewErrorf(backend.RetCConnection, "close: %v", err)
	}
	return nil
}

func (s *sqliteBackend) Capabilities() backend.Capabilities {
	return s.caps
}

func (s *sqliteBackend) Family() backend.Family {
	return backend.FamilySQL
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

// decodeRows drains a result set into canonical rows, trying blob first and
// falling back to the textual representation of other scalar kinds.
func decodeRows(rows *sql.Rows) ([]backend.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var decoded []backend.Row
	for rows.Next() {
		values := make([]any, len(columns))
		scans := make([]any, len(columns))
		for i := range values {
			scans[i] = &values[i]
		}
		if err := rows.Scan(scans...); err != nil {
			return nil, err
		}

		row := backend.Row{Columns: make([]backend.Column, 0, len(columns))}
		for i, name := range columns {
			row.AddColumn(name, coerceValue(values[i]))
		}
		decoded = append(decoded, row)
	}
	return decoded, rows.Err()
}

func coerceValue(v any) []byte {
	switch value := v.(type) {
	case nil:
		return nil
	case []byte:
		out := make([]byte, len(value))
		copy(out, value)
		return out
	case string:
		return []byte(value)
	case int64:
		return strconv.AppendInt(nil, value, 10)
	case float64:
		return strconv.AppendFloat(nil, value, 'g', -1, 64)
	case bool:
		if value {
			return []byte("1")
		}
		return []byte("0")
	default:
		return nil
	}
}
