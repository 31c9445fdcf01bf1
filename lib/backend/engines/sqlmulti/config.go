package sqlmulti

import (
	"fmt"

	"github.com/skvdb/skv/lib/backend"
)

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

const (
	// MemoryDSN is the sentinel DSN for an ephemeral in-memory SQLite
	// database.
	MemoryDSN = ":memory:"

	kib = int64(1024)
	mib = 1024 * kib
	gib = 1024 * mib
)

// --------------------------------------------------------------------------
// Engine Identity
// --------------------------------------------------------------------------

// Engine identifies which SQL engine a backend instance targets. The engine
// is fixed at construction and determines every dialect branch thereafter.
type Engine string

const (
	EngineSQLite   Engine = "sqlite"
	EnginePostgres Engine = "postgres"
	EngineMySQL    Engine = "mysql"
)

// ParseEngine converts a string into an Engine.
func ParseEngine(s string) (Engine, error) {
	switch Engine(s) {
	case EngineSQLite, EnginePostgres, EngineMySQL:
		return Engine(s), nil
	default:
		return "", fmt.Errorf("unknown engine %q (expected one of: sqlite, postgres, mysql)", s)
	}
}

// --------------------------------------------------------------------------
// Configuration
// --------------------------------------------------------------------------

// Config selects the engine and the connection string or path to use.
//
// For SQLite the DSN is a filesystem path or the MemoryDSN sentinel. For
// PostgreSQL and MySQL the DSN is a connection URL in the engine's native
// grammar; it is passed to the driver untouched.
type Config struct {
	Engine Engine
	DSN    string
}

// resolve maps the config onto a database/sql driver name, the URL to open
// and whether the database is in-memory.
func (c Config) resolve() (driverName, url string, memory bool, err error) {
	switch c.Engine {
	case EngineSQLite:
		if c.DSN == MemoryDSN {
			// Shared cache mode ensures all pooled connections observe the
			// same ephemeral database.
			return driverSQLite, "file::memory:?cache=shared", true, nil
		}
		return driverSQLite, fmt.Sprintf("file:%s?mode=rwc", c.DSN), false, nil
	case EnginePostgres:
		return driverPostgres, c.DSN, false, nil
	case EngineMySQL:
		return driverMySQL, c.DSN, false, nil
	default:
		return "", "", false, fmt.Errorf("unknown engine %q", c.Engine)
	}
}

// capabilitiesFor returns the static capability profile of an engine.
func capabilitiesFor(engine Engine) backend.Capabilities {
	caps := backend.Capabilities{
		Transactions: true,
		Directories:  true,
		GraphQueries: false,
		SQLQueries:   true,
		Indexes:      true,
		TTL:          false,
	}
	switch engine {
	case EngineSQLite:
		caps.MaxKeySize = 1 * mib
		caps.MaxValueSize = 1 * gib
	case EngineMySQL:
		// Key column is VARCHAR(255), value is LONGBLOB (unlimited).
		caps.MaxKeySize = 255
	}
	return caps
}
