package sql

import (
	"strings"
)

// Identifier names a table, column, or table alias. Identifiers are case sensitive.
type Identifier string

func ID(s string) Identifier {
	return Identifier(s)
}

func (id Identifier) String() string {
	return string(id)
}

// Quote returns the identifier as a double quoted SQL identifier.
func (id Identifier) Quote() string {
	return `"` + strings.ReplaceAll(string(id), `"`, `""`) + `"`
}

func joinIdentifiers(ids []Identifier, sep string) string {
	var b strings.Builder
	for i, id := range ids {
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(id.String())
	}
	return b.String()
}
