package sqlmulti

import (
	"strings"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE IF NOT EXISTS t (id INT);

-- another comment
-- spanning two lines
CREATE INDEX IF NOT EXISTS idx ON t (id);

`
	statements := splitStatements(script)
	if len(statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d: %v", len(statements), statements)
	}
	if !strings.HasPrefix(statements[0], "CREATE TABLE") {
		t.Errorf("Unexpected first statement: %q", statements[0])
	}
	if !strings.HasPrefix(statements[1], "CREATE INDEX") {
		t.Errorf("Unexpected second statement: %q", statements[1])
	}
	for _, statement := range statements {
		if strings.Contains(statement, "--") {
			t.Errorf("Comment line survived splitting: %q", statement)
		}
	}
}

func TestSplitStatementsEmptyInput(t *testing.T) {
	for _, script := range []string{"", ";;;", "-- only a comment\n", "\n\n  \n"} {
		if statements := splitStatements(script); len(statements) != 0 {
			t.Errorf("Expected no statements for %q, got %v", script, statements)
		}
	}
}

func TestSplitStatementsKeepsInlineStructure(t *testing.T) {
	script := "CREATE TABLE t (\n    id INT,\n    name TEXT\n);"
	statements := splitStatements(script)
	if len(statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(statements))
	}
	if !strings.Contains(statements[0], "name TEXT") {
		t.Errorf("Multi-line statement body lost: %q", statements[0])
	}
}

func TestMigrationScripts(t *testing.T) {
	for _, engine := range []Engine{EngineSQLite, EnginePostgres, EngineMySQL} {
		script, err := migrationScript(engine)
		if err != nil {
			t.Fatalf("No migration script for %s: %v", engine, err)
		}

		statements := splitStatements(script)
		if len(statements) == 0 {
			t.Fatalf("Empty migration script for %s", engine)
		}

		// Every statement must be idempotent so migration can run on every
		// construction.
		for _, statement := range statements {
			upper := strings.ToUpper(statement)
			if !strings.Contains(upper, "IF NOT EXISTS") {
				t.Errorf("Engine %s has a non-idempotent statement: %q", engine, statement)
			}
		}
	}

	if _, err := migrationScript(Engine("oracle")); err == nil {
		t.Errorf("Expected error for unknown engine")
	}
}
