package evaluate

import (
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

// Context resolves column references against the row being evaluated and, for correlated
// subqueries, against the rows of enclosing queries. The returned pointer refers to the value
// in the row and is valid for as long as the row is.
type Context interface {
	GetValue(nam sql.Identifier) (*sql.Value, error)
	GetAliasValue(alias, nam sql.Identifier) (*sql.Value, error)
}

// Selector runs a query; outer is the scope of the enclosing query, if any.
type Selector interface {
	Select(st storage.Store, stmt *sql.Select, outer Context) (sql.Rows, error)
}

type SelectFunc func(st storage.Store, stmt *sql.Select, outer Context) (sql.Rows, error)

func (fn SelectFunc) Select(st storage.Store, stmt *sql.Select, outer Context) (sql.Rows,
	error) {

	return fn(st, stmt, outer)
}
