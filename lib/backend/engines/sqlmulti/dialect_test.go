package sqlmulti

import (
	"strings"
	"testing"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{`\%`, `\\\%`},
	}

	for _, c := range cases {
		if got := escapeLike(c.in); got != c.expected {
			t.Errorf("escapeLike(%q): expected %q, got %q", c.in, c.expected, got)
		}
	}
}

func TestIsReadStatement(t *testing.T) {
	reads := []string{
		"SELECT 1",
		"select * from kv_store",
		"  SELECT key FROM kv_store",
		"\n\tselect 1",
		"SeLeCt 1",
	}
	for _, q := range reads {
		if !isReadStatement(q) {
			t.Errorf("Expected %q to classify as read", q)
		}
	}

	writes := []string{
		"INSERT INTO kv_store (key, value) VALUES ('a', 'b')",
		"UPDATE kv_store SET value = 'x'",
		"DELETE FROM kv_store",
		"CREATE TABLE t (id INT)",
		"WITH cte AS (SELECT 1) SELECT * FROM cte",
		"",
	}
	for _, q := range writes {
		if isReadStatement(q) {
			t.Errorf("Expected %q to classify as write", q)
		}
	}
}

func TestDialectTable(t *testing.T) {
	for _, engine := range []Engine{EngineSQLite, EnginePostgres, EngineMySQL} {
		d, ok := dialects[engine]
		if !ok {
			t.Fatalf("No dialect for engine %s", engine)
		}
		for name, stmt := range map[string]string{
			"set": d.set, "get": d.get, "delete": d.delete, "has": d.has, "scan": d.scan,
		} {
			if stmt == "" {
				t.Errorf("Engine %s has empty %s statement", engine, name)
			}
		}
		if !strings.Contains(d.scan, "ORDER BY") {
			t.Errorf("Engine %s scan statement must order by key", engine)
		}
		if !strings.Contains(d.scan, "ESCAPE") {
			t.Errorf("Engine %s scan statement must carry an ESCAPE clause", engine)
		}
	}

	// MySQL is the only engine whose upsert binds the value twice and the
	// only one that must quote the reserved key column.
	if !dialects[EngineMySQL].setBindsTwice {
		t.Errorf("Expected MySQL set statement to bind the value twice")
	}
	if dialects[EngineSQLite].setBindsTwice || dialects[EnginePostgres].setBindsTwice {
		t.Errorf("Expected only MySQL to bind the value twice")
	}
	if !strings.Contains(dialects[EngineMySQL].get, "`key`") {
		t.Errorf("Expected MySQL statements to backtick-quote the key column")
	}
}

func TestParseEngine(t *testing.T) {
	for _, valid := range []string{"sqlite", "postgres", "mysql"} {
		engine, err := ParseEngine(valid)
		if err != nil {
			t.Errorf("Unexpected error for %q: %v", valid, err)
		}
		if string(engine) != valid {
			t.Errorf("Expected engine %q, got %q", valid, engine)
		}
	}

	for _, invalid := range []string{"", "sqlite3", "postgresql", "ORACLE"} {
		if _, err := ParseEngine(invalid); err == nil {
			t.Errorf("Expected error for %q", invalid)
		}
	}
}

func TestResolveMemoryDSN(t *testing.T) {
	driver, url, memory, err := Config{Engine: EngineSQLite, DSN: MemoryDSN}.resolve()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if driver != driverSQLite {
		t.Errorf("Expected driver %q, got %q", driverSQLite, driver)
	}
	if !memory {
		t.Errorf("Expected memory flag for %q", MemoryDSN)
	}
	if !strings.Contains(url, "cache=shared") {
		t.Errorf("Expected shared cache URL, got %q", url)
	}

	driver, url, memory, err = Config{Engine: EngineSQLite, DSN: "/tmp/data.db"}.resolve()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if memory {
		t.Errorf("Expected no memory flag for a file path")
	}
	if url != "file:/tmp/data.db?mode=rwc" {
		t.Errorf("Unexpected file URL %q", url)
	}

	// Server engine DSNs pass through untouched
	_, url, _, err = Config{Engine: EnginePostgres, DSN: "postgres://u:p@host/db"}.resolve()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if url != "postgres://u:p@host/db" {
		t.Errorf("Expected DSN to pass through, got %q", url)
	}
	_ = driver
}

func TestCapabilitiesFor(t *testing.T) {
	sqlite := capabilitiesFor(EngineSQLite)
	if sqlite.MaxKeySize != 1*mib || sqlite.MaxValueSize != 1*gib {
		t.Errorf("Unexpected SQLite limits: %d/%d", sqlite.MaxKeySize, sqlite.MaxValueSize)
	}

	postgres := capabilitiesFor(EnginePostgres)
	if postgres.MaxKeySize != 0 || postgres.MaxValueSize != 0 {
		t.Errorf("Expected unlimited Postgres sizes, got %d/%d", postgres.MaxKeySize, postgres.MaxValueSize)
	}

	mysql := capabilitiesFor(EngineMySQL)
	if mysql.MaxKeySize != 255 {
		t.Errorf("Expected MySQL key limit 255, got %d", mysql.MaxKeySize)
	}
	if mysql.MaxValueSize != 0 {
		t.Errorf("Expected unlimited MySQL value size, got %d", mysql.MaxValueSize)
	}

	for _, engine := range []Engine{EngineSQLite, EnginePostgres, EngineMySQL} {
		caps := capabilitiesFor(engine)
		if !caps.SQLQueries || !caps.Transactions || !caps.Indexes || !caps.Directories {
			t.Errorf("Unexpected feature profile for %s: %+v", engine, caps)
		}
		if caps.TTL || caps.GraphQueries {
			t.Errorf("Unexpected feature profile for %s: %+v", engine, caps)
		}
	}
}
