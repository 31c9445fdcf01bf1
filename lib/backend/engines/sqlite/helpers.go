package sqlite

import "strings"

// likeEscaper neutralizes LIKE metacharacters so a scan prefix always
// matches literally. The backslash must be escaped first.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(prefix string) string {
	return likeEscaper.Replace(prefix)
}

// isReadStatement reports whether a statement produces a result set.
// Classification is by the leading keyword only.
func isReadStatement(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "SELECT")
}
