// Package sqlite provides a minimal, single-engine implementation of the
// backend.IBackend interface on top of the embedded SQLite driver
// (modernc.org/sqlite, pure Go, no cgo).
//
// Unlike the sqlmulti package, which generalizes over three engines through
// a dialect table, this package hardcodes SQLite semantics and trades
// concurrency for simplicity: it holds exactly one connection and serializes
// every operation behind a mutex. This makes it a good fit for embedded,
// single-process usage (CLI tools, tests, sidecars) where the pooling and
// dialect machinery of sqlmulti is unnecessary weight.
//
// The schema is applied as one idempotent batch at construction; WAL mode
// and foreign key enforcement are enabled via pragmas.
//
// Example usage:
//
//	b, err := sqlite.New(ctx, sqlite.MemoryDSN)
//	if err != nil {
//		return err
//	}
//	defer b.Close()
//
//	if err := b.Set(ctx, "greeting", []byte("hello")); err != nil {
//		return err
//	}
package sqlite
