package filter

import (
	"errors"
	"fmt"
	"io"

	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

var (
	ErrNotBoolean = errors.New("filter: expected a boolean condition")
)

// Filter checks rows against an optional WHERE condition. It holds no per row state.
type Filter struct {
	st    storage.Store
	sel   evaluate.Selector
	where sql.Expr
	outer evaluate.Context
}

// New returns a filter for the condition where, which may be nil; outer is the scope of an
// enclosing query, if any.
func New(st storage.Store, sel evaluate.Selector, where sql.Expr,
	outer evaluate.Context) *Filter {

	return &Filter{
		st:    st,
		sel:   sel,
		where: where,
		outer: outer,
	}
}

// Check reports whether row, whose columns are visible under alias, satisfies the condition.
// A condition that is unknown (NULL) does not pass.
func (f *Filter) Check(alias sql.Identifier, columns []sql.Identifier, row sql.Row) (bool,
	error) {

	if f == nil || f.where == nil {
		return true, nil
	}
	return Check(f.st, f.sel, NewContext(alias, columns, row, f.outer), f.where)
}

// Check evaluates the condition e in the scope fc.
func Check(st storage.Store, sel evaluate.Selector, fc evaluate.Context, e sql.Expr) (bool,
	error) {

	ch := checker{st: st, sel: sel, fc: fc}
	v, err := ch.predicate(e)
	if err != nil {
		return false, err
	}
	return v == sql.BoolValue(true), nil
}

type checker struct {
	st  storage.Store
	sel evaluate.Selector
	fc  evaluate.Context
}

// evaluate computes an operand of a predicate; a bare NULL is allowed as an operand.
func (ch checker) evaluate(e sql.Expr) (evaluate.Evaluated, error) {
	if l, ok := e.(*sql.Literal); ok && l.Kind() == sql.LiteralNull {
		return evaluate.Owned(nil), nil
	}
	return evaluate.Evaluate(ch.st, ch.sel, ch.fc, e)
}

// predicate returns TRUE, FALSE, or NULL for unknown.
func (ch checker) predicate(e sql.Expr) (sql.Value, error) {
	switch e := e.(type) {
	case *sql.Binary:
		switch e.Op {
		case sql.AndOp:
			l, err := ch.predicate(e.Left)
			if err != nil {
				return nil, err
			} else if l == sql.BoolValue(false) {
				return l, nil
			}
			r, err := ch.predicate(e.Right)
			if err != nil {
				return nil, err
			} else if r == sql.BoolValue(false) {
				return r, nil
			} else if l == nil || r == nil {
				return nil, nil
			}
			return sql.BoolValue(true), nil
		case sql.OrOp:
			l, err := ch.predicate(e.Left)
			if err != nil {
				return nil, err
			} else if l == sql.BoolValue(true) {
				return l, nil
			}
			r, err := ch.predicate(e.Right)
			if err != nil {
				return nil, err
			} else if r == sql.BoolValue(true) {
				return r, nil
			} else if l == nil || r == nil {
				return nil, nil
			}
			return sql.BoolValue(false), nil
		case sql.EqualOp, sql.NotEqualOp, sql.LessThanOp, sql.LessEqualOp, sql.GreaterThanOp,
			sql.GreaterEqualOp:

			return ch.comparison(e.Op, e.Left, e.Right)
		}
	case *sql.Unary:
		if e.Op == sql.NotOp {
			v, err := ch.predicate(e.Expr)
			if err != nil || v == nil {
				return nil, err
			}
			return sql.BoolValue(v == sql.BoolValue(false)), nil
		}
	case *sql.Nested:
		return ch.predicate(e.Expr)
	case *sql.IsNull:
		ev, err := ch.evaluate(e.Expr)
		if err != nil {
			return nil, err
		}
		return sql.BoolValue(ev.IsNull() != e.Not), nil
	case *sql.InList:
		return ch.inList(e)
	case *sql.InSubquery:
		return ch.inSubquery(e)
	case *sql.Between:
		return ch.between(e)
	case *sql.Exists:
		return ch.exists(e)
	}

	ev, err := ch.evaluate(e)
	if err != nil {
		return nil, err
	}
	switch v := ev.Value().(type) {
	case nil:
		return nil, nil
	case sql.BoolValue:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s: got %s", ErrNotBoolean, e, sql.Format(v))
	}
}

func (ch checker) comparison(op sql.Op, left, right sql.Expr) (sql.Value, error) {
	l, err := ch.evaluate(left)
	if err != nil {
		return nil, err
	}
	r, err := ch.evaluate(right)
	if err != nil {
		return nil, err
	}
	cmp, null, err := l.Compare(r)
	if err != nil {
		return nil, err
	} else if null {
		return nil, nil
	}

	switch op {
	case sql.EqualOp:
		return sql.BoolValue(cmp == 0), nil
	case sql.NotEqualOp:
		return sql.BoolValue(cmp != 0), nil
	case sql.LessThanOp:
		return sql.BoolValue(cmp < 0), nil
	case sql.LessEqualOp:
		return sql.BoolValue(cmp <= 0), nil
	case sql.GreaterThanOp:
		return sql.BoolValue(cmp > 0), nil
	case sql.GreaterEqualOp:
		return sql.BoolValue(cmp >= 0), nil
	}
	panic(fmt.Sprintf("unexpected comparison operator: %s", op))
}

// member tracks the result of testing a value for membership in a list: TRUE if any item
// is equal, otherwise NULL if any comparison was unknown, otherwise FALSE.
type member struct {
	target  evaluate.Evaluated
	found   bool
	unknown bool
}

func (m *member) test(item evaluate.Evaluated) error {
	cmp, null, err := m.target.Compare(item)
	if err != nil {
		return err
	} else if null {
		m.unknown = true
	} else if cmp == 0 {
		m.found = true
	}
	return nil
}

func (m *member) result(not bool) sql.Value {
	if m.found {
		return sql.BoolValue(!not)
	} else if m.unknown {
		return nil
	}
	return sql.BoolValue(not)
}

func (ch checker) inList(e *sql.InList) (sql.Value, error) {
	target, err := ch.evaluate(e.Expr)
	if err != nil {
		return nil, err
	}
	m := member{target: target}
	for _, item := range e.List {
		ev, err := ch.evaluate(item)
		if err != nil {
			return nil, err
		}
		err = m.test(ev)
		if err != nil {
			return nil, err
		}
		if m.found {
			break
		}
	}
	return m.result(e.Not), nil
}

func (ch checker) subquery(stmt *sql.Select) (sql.Rows, error) {
	if ch.sel == nil {
		return nil, fmt.Errorf("%w: subquery: %s", evaluate.ErrUnimplemented, stmt)
	}
	return ch.sel.Select(ch.st, stmt, ch.fc)
}

func (ch checker) inSubquery(e *sql.InSubquery) (sql.Value, error) {
	target, err := ch.evaluate(e.Expr)
	if err != nil {
		return nil, err
	}
	rows, err := ch.subquery(e.Select)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := member{target: target}
	for !m.found {
		row, err := rows.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			return nil, evaluate.ErrNestedSelectEmptyRow
		}
		err = m.test(evaluate.ValueRef(&row[0]))
		if err != nil {
			return nil, err
		}
	}
	return m.result(e.Not), nil
}

func (ch checker) between(e *sql.Between) (sql.Value, error) {
	v, err := ch.evaluate(e.Expr)
	if err != nil {
		return nil, err
	}
	low, err := ch.evaluate(e.Low)
	if err != nil {
		return nil, err
	}
	high, err := ch.evaluate(e.High)
	if err != nil {
		return nil, err
	}

	lcmp, lnull, err := low.Compare(v)
	if err != nil {
		return nil, err
	}
	hcmp, hnull, err := v.Compare(high)
	if err != nil {
		return nil, err
	}

	if (!lnull && lcmp > 0) || (!hnull && hcmp > 0) {
		return sql.BoolValue(e.Not), nil
	} else if lnull || hnull {
		return nil, nil
	}
	return sql.BoolValue(!e.Not), nil
}

func (ch checker) exists(e *sql.Exists) (sql.Value, error) {
	rows, err := ch.subquery(e.Select)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	_, err = rows.Next()
	if err == io.EOF {
		return sql.BoolValue(false), nil
	} else if err != nil {
		return nil, err
	}
	return sql.BoolValue(true), nil
}
