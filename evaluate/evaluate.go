package evaluate

import (
	"io"

	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

// Evaluate computes the value of e. Column references are resolved with fc and subqueries are
// run with sel against st, with fc as their outer scope. Only numeric and boolean literals,
// identifiers, nested expressions, scalar subqueries, and +, -, *, / are supported; every
// other expression fails with ErrUnimplemented.
func Evaluate(st storage.Store, sel Selector, fc Context, e sql.Expr) (Evaluated, error) {
	switch e := e.(type) {
	case *sql.Literal:
		switch e.Kind() {
		case sql.LiteralNumber, sql.LiteralBoolean:
			return LiteralRef(e), nil
		}
	case *sql.Ident:
		if e.Quoted {
			return StringRef(e.Name.String()), nil
		}
		if fc == nil {
			return Evaluated{}, &ColumnNotFoundError{Column: e.Name}
		}
		v, err := fc.GetValue(e.Name)
		if err != nil {
			return Evaluated{}, err
		}
		return ValueRef(v), nil
	case *sql.Nested:
		return Evaluate(st, sel, fc, e.Expr)
	case sql.CompoundIdent:
		if len(e) != 2 {
			return Evaluated{}, &UnsupportedCompoundIdentifierError{Expr: e.String()}
		}
		if fc == nil {
			return Evaluated{}, &ColumnNotFoundError{Alias: e[0], Column: e[1]}
		}
		v, err := fc.GetAliasValue(e[0], e[1])
		if err != nil {
			return Evaluated{}, err
		}
		return ValueRef(v), nil
	case *sql.Subquery:
		if sel != nil {
			return evaluateSubquery(st, sel, fc, e.Select)
		}
	case *sql.Binary:
		var op func(l, r Evaluated) (Evaluated, error)
		switch e.Op {
		case sql.AddOp:
			op = Evaluated.Add
		case sql.SubtractOp:
			op = Evaluated.Subtract
		case sql.MultiplyOp:
			op = Evaluated.Multiply
		case sql.DivideOp:
			op = Evaluated.Divide
		default:
			return Evaluated{}, unimplemented(e)
		}

		l, err := Evaluate(st, sel, fc, e.Left)
		if err != nil {
			return Evaluated{}, err
		}
		r, err := Evaluate(st, sel, fc, e.Right)
		if err != nil {
			return Evaluated{}, err
		}
		return op(l, r)
	}

	return Evaluated{}, unimplemented(e)
}

// evaluateSubquery returns the first column of the first row of the subquery; any rows after
// the first are not read.
func evaluateSubquery(st storage.Store, sel Selector, fc Context, stmt *sql.Select) (Evaluated,
	error) {

	rows, err := sel.Select(st, stmt, fc)
	if err != nil {
		return Evaluated{}, err
	}
	defer rows.Close()

	row, err := rows.Next()
	if err == io.EOF {
		return Evaluated{}, ErrNestedSelectRowNotFound
	} else if err != nil {
		return Evaluated{}, err
	}
	if len(row) == 0 {
		return Evaluated{}, ErrNestedSelectEmptyRow
	}
	return Owned(row[0]), nil
}
