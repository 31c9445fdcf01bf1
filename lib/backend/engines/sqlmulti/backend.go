package sqlmulti

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"

	"github.com/skvdb/skv/lib/backend"
)

// --------------------------------------------------------------------------
// Core Backend Structure
// --------------------------------------------------------------------------

// sqlBackend implements backend.IBackend over one of the three supported
// SQL engines, selected at construction.
type sqlBackend struct {
	db     *sql.DB          // Pooled connection handle, shared by all operations
	engine Engine           // Fixed engine identity, no runtime switching
	stmts  dialect          // Per-engine SQL text, resolved once
	caps   backend.Capabilities
	ops    *opMetrics
	closed atomic.Bool
}

// --------------------------------------------------------------------------
// Initialization and Setup
// --------------------------------------------------------------------------

// New creates a new SQL backend for the configured engine. Construction
// connects, validates the connection and runs the schema migration; any
// failure aborts construction entirely and no partially-initialized backend
// is returned.
func New(ctx context.Context, cfg Config) (backend.IBackend, error) {
	if err := installDrivers(); err != nil {
		return nil, backend.NewError(backend.RetCConnection, err.Error())
	}

	driverName, url, memory, err := cfg.resolve()
	if err != nil {
		return nil, backend.NewError(backend.RetCConnection, err.Error())
	}

	db, err := sql.Open(driverName, url)
	if err != nil {
		return nil, backend.NewErrorf(backend.RetCConnection, "failed to open %s pool: %v", cfg.Engine, err)
	}

	// An in-memory database is capped at exactly one connection: every
	// additional connection would otherwise see its own isolated, empty
	// instance. On-disk and server engines keep the driver's unconstrained,
	// grown-on-demand pool.
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, backend.NewErrorf(backend.RetCConnection, "failed to connect to %s: %v", cfg.Engine, err)
	}

	if err := migrate(ctx, db, cfg.Engine); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqlBackend{
		db:     db,
		engine: cfg.Engine,
		stmts:  dialects[cfg.Engine],
		caps:   capabilitiesFor(cfg.Engine),
		ops:    newOpMetrics(cfg.Engine),
	}, nil
}

// NewSQLite creates a backend for the embedded SQLite engine. The path is a
// filesystem path or the MemoryDSN sentinel.
func NewSQLite(ctx context.Context, path string) (backend.IBackend, error) {
	return New(ctx, Config{Engine: EngineSQLite, DSN: path})
}

// NewPostgres creates a backend for a PostgreSQL server.
func NewPostgres(ctx context.Context, url string) (backend.IBackend, error) {
	return New(ctx, Config{Engine: EnginePostgres, DSN: url})
}

// NewMySQL creates a backend for a MySQL server.
func NewMySQL(ctx context.Context, url string) (backend.IBackend, error) {
	return New(ctx, Config{Engine: EngineMySQL, DSN: url})
}

// guard rejects operations on a closed backend with a distinct error
// instead of letting the pool attempt a silent reconnect.
func (s *sqlBackend) guard() error {
	if s.closed.Load() {
		return backend.NewError(backend.RetCClosed, "backend is closed")
	}
	return nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see backend/interface.go)
// --------------------------------------------------------------------------

func (s *sqlBackend) Set(ctx context.Context, key string, value []byte) error {
	s.ops.set.Inc()
	if err := s.guard(); err != nil {
		return s.ops.countErr(err)
	}

	args := []any{key, value}
	if s.stmts.setBindsTwice {
		args = append(args, value)
	}

	if _, err := s.db.ExecContext(ctx, s.stmts.set, args...); err != nil {
		return s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "set %q: %v", key, err))
	}
	return nil
}

func (s *sqlBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.ops.get.Inc()
	if err := s.guard(); err != nil {
		return nil, false, s.ops.countErr(err)
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, s.stmts.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "get %q: %v", key, err))
	}
	return value, true, nil
}

func (s *sqlBackend) Delete(ctx context.Context, key string) error {
	s.ops.delete.Inc()
	if err := s.guard(); err != nil {
		return s.ops.countErr(err)
	}

	result, err := s.db.ExecContext(ctx, s.stmts.delete, key)
	if err != nil {
		return s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "delete %q: %v", key, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "delete %q: %v", key, err))
	}
	if affected == 0 {
		// A delete that affects zero rows is not success: surface the
		// absence so callers can tell "already absent" from "removed".
		return s.ops.countErr(backend.NewErrorf(backend.RetCNotFound, "key %q not found", key))
	}
	return nil
}

func (s *sqlBackend) Has(ctx context.Context, key string) (bool, error) {
	s.ops.has.Inc()
	if err := s.guard(); err != nil {
		return false, s.ops.countErr(err)
	}

	var one int
	err := s.db.QueryRowContext(ctx, s.stmts.has, key).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "has %q: %v", key, err))
	}
	return true, nil
}

func (s *sqlBackend) Scan(ctx context.Context, prefix string) (backend.ScanResult, error) {
	s.ops.scan.Inc()
	if err := s.guard(); err != nil {
		return backend.ScanResult{}, s.ops.countErr(err)
	}

	pattern := escapeLike(prefix) + "%"
	rows, err := s.db.QueryContext(ctx, s.stmts.scan, pattern)
	if err != nil {
		return backend.ScanResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err))
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return backend.ScanResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err))
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return backend.ScanResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "scan %q: %v", prefix, err))
	}
	return backend.ScanResult{Keys: keys}, nil
}

func (s *sqlBackend) Query(ctx context.Context, query string, params [][]byte) (backend.QueryResult, error) {
	s.ops.query.Inc()
	if err := s.guard(); err != nil {
		return backend.QueryResult{}, s.ops.countErr(err)
	}

	if len(params) > 0 {
		return backend.QueryResult{}, s.ops.countErr(backend.NewError(backend.RetCUnsupported, "query parameters are not supported, only literal SQL text"))
	}

	if isReadStatement(query) {
		rows, err := s.db.QueryContext(ctx, query)
		if err != nil {
			return backend.QueryResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "query: %v", err))
		}
		defer rows.Close()

		decoded, err := decodeRows(rows)
		if err != nil {
			return backend.QueryResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "query: %v", err))
		}
		return backend.QueryResult{Rows: decoded}, nil
	}

	result, err := s.db.ExecContext(ctx, query)
	if err != nil {
		return backend.QueryResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "query: %v", err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return backend.QueryResult{}, s.ops.countErr(backend.NewErrorf(backend.RetCBackend, "query: %v", err))
	}
	return backend.QueryResult{Affected: uint64(affected)}, nil
}

func (s *sqlBackend) Begin(context.Context) (backend.Transaction, error) {
	// Deliberate capability gap: no partial transaction object is ever
	// returned, and the backend stays usable for non-transactional
	// operations afterwards.
	return nil, backend.NewError(backend.RetCUnsupported, "transactions are not supported by the SQL backend")
}

func (s *sqlBackend) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return backend.NewErrorf(backend.RetCConnection, "close: %v", err)
	}
	return nil
}

func (s *sqlBackend) Capabilities() backend.Capabilities {
	return s.caps
}

func (s *sqlBackend) Family() backend.Family {
	return backend.FamilySQL
}
