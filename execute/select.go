package execute

import (
	"fmt"
	"io"

	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/filter"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

func selector() evaluate.Selector {
	return evaluate.SelectFunc(Select)
}

type source interface {
	Next() (FetchedRow, error)
	Close() error
}

// oneEmptyRow is the source of a SELECT without a FROM clause.
type oneEmptyRow struct {
	done bool
}

func (oer *oneEmptyRow) Next() (FetchedRow, error) {
	if oer.done {
		return FetchedRow{}, io.EOF
	}
	oer.done = true
	return FetchedRow{}, nil
}

func (oer *oneEmptyRow) Close() error {
	oer.done = true
	return nil
}

type emptyFilterRows struct {
	src    source
	filter *filter.Filter
}

func (efr emptyFilterRows) Next() (FetchedRow, error) {
	for {
		fr, err := efr.src.Next()
		if err != nil {
			return FetchedRow{}, err
		}
		ok, err := efr.filter.Check("", nil, nil)
		if err != nil {
			return FetchedRow{}, err
		} else if ok {
			return fr, nil
		}
	}
}

func (efr emptyFilterRows) Close() error {
	return efr.src.Close()
}

// result is one item of the select list: all of the columns of the row when star is true,
// otherwise the value of expr.
type result struct {
	star bool
	expr sql.Expr
}

// Select runs a query and returns its rows lazily; outer is the scope of the enclosing query
// when the query is a subquery. Rows are pulled from storage only as the caller pulls them.
func Select(st storage.Store, stmt *sql.Select, outer evaluate.Context) (sql.Rows, error) {
	limit, err := limitValue("LIMIT", stmt.Limit)
	if err != nil {
		return nil, err
	}
	offset, err := limitValue("OFFSET", stmt.Offset)
	if err != nil {
		return nil, err
	}

	var alias sql.Identifier
	var columns []sql.Identifier
	var src source
	f := filter.New(st, selector(), stmt.Where, outer)
	if stmt.From == nil {
		src = emptyFilterRows{src: &oneEmptyRow{}, filter: f}
	} else {
		alias = stmt.From.Label()
		columns, err = FetchColumns(st, stmt.From.Name)
		if err != nil {
			return nil, err
		}
		src, err = Fetch(st, *stmt.From, columns, f)
		if err != nil {
			return nil, err
		}
	}

	var cols []sql.Identifier
	var results []result
	for _, item := range stmt.Items {
		switch item := item.(type) {
		case sql.Star:
			if item.Table != "" && item.Table != alias {
				src.Close()
				return nil, fmt.Errorf("%w: %s", ErrAliasNotFound, item.Table)
			}
			cols = append(cols, columns...)
			results = append(results, result{star: true})
		case sql.AliasedExpr:
			cols = append(cols, item.Label())
			results = append(results, result{expr: item.Expr})
		default:
			src.Close()
			return nil, fmt.Errorf("execute: unexpected select item: %s", item)
		}
	}

	return &selectRows{
		st:      st,
		alias:   alias,
		outer:   outer,
		src:     src,
		cols:    cols,
		results: results,
		limit:   limit,
		offset:  offset,
	}, nil
}

// limitValue returns the value of a LIMIT or OFFSET clause, or -1 if there is none.
func limitValue(clause string, e sql.Expr) (int64, error) {
	if e == nil {
		return -1, nil
	}
	if l, ok := e.(*sql.Literal); ok {
		if i, ok := l.Value.(sql.Int64Value); ok && i >= 0 {
			return int64(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %s %s", ErrInvalidLimit, clause, e)
}

type selectRows struct {
	st      storage.Store
	alias   sql.Identifier
	outer   evaluate.Context
	src     source
	cols    []sql.Identifier
	results []result
	limit   int64
	offset  int64
	count   int64
}

func (sr *selectRows) Columns() []sql.Identifier {
	return sr.cols
}

func (sr *selectRows) Close() error {
	return sr.src.Close()
}

func (sr *selectRows) Next() (sql.Row, error) {
	for sr.offset > 0 {
		_, err := sr.src.Next()
		if err != nil {
			return nil, err
		}
		sr.offset -= 1
	}

	if sr.limit >= 0 && sr.count >= sr.limit {
		return nil, io.EOF
	}

	fr, err := sr.src.Next()
	if err != nil {
		return nil, err
	}
	sr.count += 1

	fc := filter.NewContext(sr.alias, fr.Columns, fr.Row, sr.outer)
	row := make(sql.Row, 0, len(sr.cols))
	for _, r := range sr.results {
		if r.star {
			row = append(row, fr.Row...)
			continue
		}
		ev, err := evaluate.Evaluate(sr.st, selector(), fc, r.expr)
		if err != nil {
			return nil, err
		}
		row = append(row, ev.Value())
	}
	return row, nil
}
