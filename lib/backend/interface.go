package backend

import "context"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// BackendFactory is a function type that creates a new backend instance.
// This is used to abstract the creation of backends from the code using them
// (shared test suites, the RPC server, the CLI).
type BackendFactory func() (IBackend, error)

// IBackend is the generic interface for interacting with a key–value backend.
// Write operations return only an error (nil on success), read operations
// return the requested data along with an error (nil on success).
//
// All operations accept a context and may block while waiting for a pooled
// connection or network/disk I/O. Cancelling the context abandons the call;
// a cancelled write may still have completed at the storage engine, so
// callers must treat cancellation as "unknown outcome", not "no-op".
type IBackend interface {
	// Set inserts or updates a key–value pair (upsert). A Set of an existing
	// key overwrites the value and timestamp, it never creates a duplicate.
	Set(ctx context.Context, key string, value []byte) (err error)
	// Get returns the value for a key. The boolean return value indicates
	// whether a value for the key was found.
	Get(ctx context.Context, key string) (value []byte, loaded bool, err error)
	// Delete deletes a key–value pair. Deleting an absent key returns a
	// NotFound error so callers can distinguish "already absent" from
	// "removed".
	Delete(ctx context.Context, key string) (err error)
	// Has returns whether a key exists in the backend. It is a read-only
	// probe and never creates or locks rows.
	Has(ctx context.Context, key string) (loaded bool, err error)
	// Scan returns all keys with the given textual prefix, sorted ascending.
	// The prefix is matched literally; pattern metacharacters in it are
	// escaped before matching.
	Scan(ctx context.Context, prefix string) (result ScanResult, err error)
	// Query executes an ad-hoc SQL statement. Statements starting with
	// SELECT (case-insensitive) are executed as reads and every result row
	// is decoded; all other statements are executed as writes and the
	// affected row count is reported. Only literal SQL text is supported,
	// params must be empty. This is a narrow escape hatch, not a query
	// builder.
	Query(ctx context.Context, query string, params [][]byte) (result QueryResult, err error)
	// Begin starts a transaction. Backends that do not support transactions
	// return an Unsupported error and never a partial transaction object.
	Begin(ctx context.Context) (tx Transaction, err error)
	// Close releases all resources held by the backend. Close is terminal:
	// subsequent operations fail with a Closed error rather than reconnect.
	Close() (err error)
	// Capabilities returns the static feature/limit profile of the backend.
	Capabilities() (caps Capabilities)
	// Family identifies the backend family (e.g. SQL).
	Family() (family Family)
}

// Transaction is the contract for transactional access to a backend. It is
// part of the external interface; none of the backends in this repository
// implement it (their Begin returns Unsupported).
type Transaction interface {
	// Set inserts or updates a key–value pair within the transaction.
	Set(ctx context.Context, key string, value []byte) (err error)
	// Delete deletes a key–value pair within the transaction.
	Delete(ctx context.Context, key string) (err error)
	// Commit makes all operations of the transaction durable.
	Commit(ctx context.Context) (err error)
	// Rollback discards all operations of the transaction.
	Rollback(ctx context.Context) (err error)
}

// --------------------------------------------------------------------------
// Helper Types
// --------------------------------------------------------------------------

// Family identifies the family a backend belongs to.
type Family string

const (
	// FamilySQL marks backends built on a SQL engine.
	FamilySQL Family = "sql"
	// FamilyUnknown is returned by backends that cannot determine their
	// family (e.g. a remote proxy before its first contact with the server).
	FamilyUnknown Family = "unknown"
)

// Capabilities describes the features and size limits of a backend. The
// values are fixed when the backend is constructed and never mutated.
//
// The limits are informational: the backend does not reject oversized
// writes itself, callers must check before writing (the underlying engine
// may still refuse them).
type Capabilities struct {
	Transactions bool `json:"transactions"`
	Directories  bool `json:"directories"`
	GraphQueries bool `json:"graph_queries"`
	SQLQueries   bool `json:"sql_queries"`
	Indexes      bool `json:"indexes"`
	TTL          bool `json:"ttl"`

	// MaxKeySize and MaxValueSize are in bytes; 0 means no limit.
	MaxKeySize   int64 `json:"max_key_size"`
	MaxValueSize int64 `json:"max_value_size"`
}

// Column is a single named value within a Row. A nil Value represents SQL
// NULL, a non-nil empty Value represents an empty string or blob.
type Column struct {
	Name  string `json:"name"`
	Value []byte `json:"value"`
}

// Row is an ordered list of columns, the universal decoding target for
// arbitrary query results. Column order mirrors the source result set;
// duplicate column names are preserved in order.
type Row struct {
	Columns []Column `json:"columns"`
}

// Get returns the value of the first column with the given name.
func (r *Row) Get(name string) (value []byte, ok bool) {
	for _, c := range r.Columns {
		if c.Name == name {
			return c.Value, true
		}
	}
	return nil, false
}

// AddColumn appends a column to the row, preserving insertion order.
func (r *Row) AddColumn(name string, value []byte) {
	r.Columns = append(r.Columns, Column{Name: name, Value: value})
}

// QueryResult is the result of an ad-hoc query. Read statements fill Rows
// and leave Affected zero, write statements fill Affected and leave Rows
// empty.
type QueryResult struct {
	Rows     []Row  `json:"rows"`
	Affected uint64 `json:"affected"`
}

// ScanResult is the result of a prefix scan: the matching keys in ascending
// lexicographic order.
type ScanResult struct {
	Keys []string `json:"keys"`
}
