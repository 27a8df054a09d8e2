package filter

import (
	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/sql"
)

// Context is one immutable frame of a scope chain: the columns and values of a single row
// visible under a table alias. Lookups that miss continue in the outer scope. A nil *Context
// is an empty scope.
type Context struct {
	alias   sql.Identifier
	columns []sql.Identifier
	row     sql.Row
	outer   evaluate.Context
}

func NewContext(alias sql.Identifier, columns []sql.Identifier, row sql.Row,
	outer evaluate.Context) *Context {

	return &Context{
		alias:   alias,
		columns: columns,
		row:     row,
		outer:   outer,
	}
}

func (fc *Context) value(nam sql.Identifier) (*sql.Value, bool) {
	for cdx, col := range fc.columns {
		if col == nam && cdx < len(fc.row) {
			return &fc.row[cdx], true
		}
	}
	return nil, false
}

func (fc *Context) GetValue(nam sql.Identifier) (*sql.Value, error) {
	if fc == nil {
		return nil, &evaluate.ColumnNotFoundError{Column: nam}
	}
	if v, ok := fc.value(nam); ok {
		return v, nil
	}
	if fc.outer != nil {
		return fc.outer.GetValue(nam)
	}
	return nil, &evaluate.ColumnNotFoundError{Column: nam}
}

func (fc *Context) GetAliasValue(alias, nam sql.Identifier) (*sql.Value, error) {
	if fc == nil {
		return nil, &evaluate.ColumnNotFoundError{Alias: alias, Column: nam}
	}
	if fc.alias == alias {
		if v, ok := fc.value(nam); ok {
			return v, nil
		}
	}
	if fc.outer != nil {
		return fc.outer.GetAliasValue(alias, nam)
	}
	return nil, &evaluate.ColumnNotFoundError{Alias: alias, Column: nam}
}
