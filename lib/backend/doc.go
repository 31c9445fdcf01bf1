// Package backend provides a uniform interface for key-value storage with an
// additional tabular-query escape hatch. It is the contract shared by all
// backend implementations in this repository and by code consuming them, so
// applications can switch between an embedded database, a database server or
// a remote sKV instance without code changes.
//
// The package focuses on:
//   - A unified interface (IBackend) for key-value and ad-hoc SQL operations
//   - A static capability profile for feature detection before use
//   - A structured error system with typed return codes
//
// Key Components:
//
//   - IBackend Interface: The core abstraction defining operations for
//     interacting with a backend: Set, Get, Delete, Has, Scan, Query, Begin,
//     Close, plus the Capabilities and Family introspection methods. All
//     implementations share this interface. Operations take a context and
//     may block on pooled connections or I/O.
//
//   - Capabilities: A read-only, per-backend record describing supported
//     features (transactions, directories, SQL queries, indexes, TTL) and
//     size limits. Produced once at construction. The limits are advisory:
//     the backend does not enforce them, callers check them before writing.
//
//   - Row/Column/QueryResult/ScanResult: The canonical result types. A Row
//     is an ordered mapping from column name to an opaque byte value; order
//     mirrors the source result set and duplicate names are preserved. A nil
//     column value means SQL NULL, a non-nil empty value means an empty
//     string or blob.
//
//   - Error System: A structured error reporting mechanism using typed
//     return codes (Connection, Migration, Backend, NotFound, Unsupported,
//     Serialization, Io, Closed) and descriptive messages that preserve the
//     native driver error text.
//
// Implementations:
//
//   - sqlmulti (lib/backend/engines/sqlmulti): the generalized SQL backend
//     targeting SQLite, PostgreSQL or MySQL, selected at construction.
//
//   - sqlite (lib/backend/engines/sqlite): a convenience implementation that
//     talks directly to the embedded SQLite driver through one serialized
//     connection.
//
//   - rpc client (rpc/client): an IBackend that forwards all operations to a
//     remote sKV server.
package backend
