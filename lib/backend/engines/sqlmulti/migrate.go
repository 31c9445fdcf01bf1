package sqlmulti

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/skvdb/skv/lib/backend"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationScript returns the bundled DDL script for an engine. Each engine
// owns its own script because identifier quoting and column type syntax
// differ.
func migrationScript(engine Engine) (string, error) {
	raw, err := migrationFS.ReadFile(fmt.Sprintf("migrations/%s.sql", engine))
	if err != nil {
		return "", fmt.Errorf("no migration script for engine %q: %w", engine, err)
	}
	return string(raw), nil
}

// splitStatements splits a DDL script into discrete statements. Candidates
// are split on the `;` terminator; full-line `--` comments and blank lines
// are stripped from each candidate and fully empty results are dropped, so
// the bundled scripts can carry any number of comment lines and blank
// separators without producing spurious empty executions.
func splitStatements(script string) []string {
	var statements []string
	for _, candidate := range strings.Split(script, ";") {
		var kept []string
		for _, line := range strings.Split(candidate, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" || strings.HasPrefix(trimmed, "--") {
				continue
			}
			kept = append(kept, line)
		}
		statement := strings.TrimSpace(strings.Join(kept, "\n"))
		if statement == "" {
			continue
		}
		statements = append(statements, statement)
	}
	return statements
}

// migrate applies the engine's schema script. It runs exactly once during
// construction, before the backend is handed to the caller, so no operation
// can observe a partially-migrated schema.
//
// Statements execute sequentially on one acquired connection and outside
// any transaction: SQLite auto-commits DDL and wrapping it in an explicit
// transaction causes spurious failures there.
func migrate(ctx context.Context, db *sql.DB, engine Engine) error {
	script, err := migrationScript(engine)
	if err != nil {
		return backend.NewError(backend.RetCMigration, err.Error())
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return backend.NewErrorf(backend.RetCMigration, "failed to acquire connection: %v", err)
	}
	defer conn.Close()

	for idx, statement := range splitStatements(script) {
		if _, err := conn.ExecContext(ctx, statement); err != nil {
			return backend.NewErrorf(backend.RetCMigration,
				"failed to execute migration statement #%d: %s - Error: %v", idx, statement, err)
		}
	}

	return nil
}
