package sqlmulti

import (
	"database/sql"
	"fmt"
	"sync"

	// The three supported drivers register themselves with database/sql on
	// import. Registration is process-wide and must happen before any
	// connection is opened.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Driver names as registered by the imported driver packages.
const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
	driverMySQL    = "mysql"
)

var (
	installOnce sync.Once
	installErr  error
)

// installDrivers verifies that all supported drivers are registered. It is
// idempotent and safe to call from every constructor; the check runs only
// once per process.
func installDrivers() error {
	installOnce.Do(func() {
		registered := make(map[string]bool)
		for _, name := range sql.Drivers() {
			registered[name] = true
		}
		for _, name := range []string{driverSQLite, driverPostgres, driverMySQL} {
			if !registered[name] {
				installErr = fmt.Errorf("sql driver %q is not registered", name)
				return
			}
		}
	})
	return installErr
}
