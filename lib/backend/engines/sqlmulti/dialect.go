package sqlmulti

import "strings"

// --------------------------------------------------------------------------
// Dialect Dispatch Table
// --------------------------------------------------------------------------

// The three engines disagree on placeholder syntax (`?` vs `$n`), upsert
// idiom and identifier quoting (`key` is a reserved word on MySQL and must
// be backtick-quoted there). Instead of scattering engine checks through
// every method body, each logical operation resolves its SQL text through a
// per-engine statement table that is selected once at construction.

// dialect holds the SQL text for every logical operation of one engine.
type dialect struct {
	// set upserts a row. On MySQL the value is bound twice: once for the
	// insert and once for the ON DUPLICATE KEY UPDATE clause.
	set           string
	setBindsTwice bool

	get    string
	delete string
	has    string

	// scan matches a LIKE pattern (the escaped prefix plus a trailing `%`
	// wildcard) and orders by key ascending. Each statement carries the
	// engine's own ESCAPE clause so a `\`-escaped prefix matches literally.
	scan string
}

var dialects = map[Engine]dialect{
	EngineSQLite: {
		set:    "INSERT OR REPLACE INTO kv_store (key, value, updated_at) VALUES (?, ?, datetime('now'))",
		get:    "SELECT value FROM kv_store WHERE key = ?",
		delete: "DELETE FROM kv_store WHERE key = ?",
		has:    "SELECT 1 FROM kv_store WHERE key = ? LIMIT 1",
		scan:   `SELECT key FROM kv_store WHERE key LIKE ? ESCAPE '\' ORDER BY key`,
	},
	EnginePostgres: {
		set:    "INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, NOW()) ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = NOW()",
		get:    "SELECT value FROM kv_store WHERE key = $1",
		delete: "DELETE FROM kv_store WHERE key = $1",
		has:    "SELECT 1 FROM kv_store WHERE key = $1 LIMIT 1",
		scan:   `SELECT key FROM kv_store WHERE key LIKE $1 ESCAPE '\' ORDER BY key`,
	},
	EngineMySQL: {
		set:           "INSERT INTO kv_store (`key`, value, updated_at) VALUES (?, ?, NOW()) ON DUPLICATE KEY UPDATE value = ?, updated_at = NOW()",
		setBindsTwice: true,
		get:           "SELECT value FROM kv_store WHERE `key` = ?",
		delete:        "DELETE FROM kv_store WHERE `key` = ?",
		has:           "SELECT 1 FROM kv_store WHERE `key` = ? LIMIT 1",
		scan:          "SELECT `key` FROM kv_store WHERE `key` LIKE ? ESCAPE '\\\\' ORDER BY `key`",
	},
}

// --------------------------------------------------------------------------
// Helper Functions
// --------------------------------------------------------------------------

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// escapeLike escapes LIKE pattern metacharacters in a scan prefix so the
// prefix always matches literally, even when it contains `%` or `_`.
func escapeLike(prefix string) string {
	return likeEscaper.Replace(prefix)
}

// isReadStatement classifies an ad-hoc statement as read or write by a
// case-insensitive check for a leading SELECT keyword.
func isReadStatement(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}
