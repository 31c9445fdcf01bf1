// Package sqlmulti implements the backend.IBackend interface over three SQL
// engines with a single code path: embedded SQLite (pure-Go driver,
// modernc.org/sqlite), PostgreSQL (jackc/pgx) and MySQL
// (go-sql-driver/mysql). The engine is selected at construction from a
// Config and is fixed for the lifetime of the backend.
//
// The package focuses on:
//   - Runtime engine selection behind one backend type
//   - A dialect dispatch table reconciling the engines' incompatible
//     placeholder syntaxes, upsert idioms and identifier quoting rules
//   - Idempotent, construction-time schema migration
//   - Schema-agnostic decoding of arbitrary query results into opaque bytes
//
// Key Components:
//
//   - Config/Engine: the engine descriptor. SQLite accepts a filesystem
//     path or the ":memory:" sentinel; the sentinel maps to a shared-cache
//     in-memory URL with the pool capped at one connection so all logical
//     connections observe the same ephemeral database. The server engines
//     take their native connection URL untouched.
//
//   - Dialect table: per-engine SQL text for set/get/delete/has/scan,
//     resolved once at construction instead of branching on the engine in
//     every method. Scan prefixes are escaped against LIKE metacharacters
//     and matched with an explicit ESCAPE clause, so prefixes containing
//     `%` or `_` match literally.
//
//   - Migration runner: one bundled DDL script per engine, split on the
//     statement terminator with comment and blank lines stripped, executed
//     sequentially on a single connection outside any transaction (SQLite
//     auto-commits DDL). Every statement is idempotent; migration runs on
//     every construction.
//
//   - Row coercion: ad-hoc query results are decoded without schema
//     knowledge by probing each column against a fixed priority of scalar
//     kinds (see decode.go); the order is a documented contract.
//
// Error Handling:
//
//	Every driver error is wrapped into a backend.Error with the native
//	message preserved. Construction failures (connection, migration) abort
//	construction atomically. Operation failures are returned per call and
//	never retried. Begin always fails with Unsupported. After Close all
//	operations fail fast with a Closed error.
//
// Thread Safety:
//
//	The backend is safe for concurrent use; the database/sql pool is the
//	only shared mutable resource. Concurrent Sets on one key race at the
//	storage engine, where the upsert converges to one of the written values
//	without partial writes; no ordering between racing writers is imposed
//	above the engine's own row-level locking.
package sqlmulti
