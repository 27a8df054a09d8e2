package execute_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/execute"
	"github.com/cl-kim/gluesql/filter"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
	"github.com/cl-kim/gluesql/testutil"
)

var errScan = errors.New("scan failed")

type scanItem struct {
	row sql.Row
	err error
}

type testStore struct {
	sch   sql.Schema
	items []scanItem
	scan  *testScan
}

func (ts *testStore) FetchSchema(tblname sql.Identifier) (*sql.Schema, error) {
	if tblname != ts.sch.Table {
		return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, tblname)
	}
	return &ts.sch, nil
}

func (ts *testStore) ScanData(tblname sql.Identifier) (storage.Scan, error) {
	_, err := ts.FetchSchema(tblname)
	if err != nil {
		return nil, err
	}
	ts.scan = &testScan{items: ts.items}
	return ts.scan, nil
}

type testScan struct {
	items  []scanItem
	idx    int
	closed bool
}

func (ts *testScan) Next() (storage.Key, sql.Row, error) {
	if ts.idx >= len(ts.items) {
		return nil, nil, io.EOF
	}
	item := ts.items[ts.idx]
	ts.idx += 1
	if item.err != nil {
		return nil, nil, item.err
	}
	return storage.Key{byte(ts.idx)}, item.row, nil
}

func (ts *testScan) Close() error {
	ts.closed = true
	return nil
}

func idRow(id int64) sql.Row {
	return sql.Row{sql.Int64Value(id)}
}

func TestFetchColumns(t *testing.T) {
	st := &testStore{
		sch: sql.Schema{
			Table: sql.ID("Test"),
			Columns: []sql.ColumnDef{
				{Name: sql.ID("id"), Type: sql.IntegerType},
				{Name: sql.ID("name"), Type: sql.TextType},
			},
		},
	}

	cols, err := execute.FetchColumns(st, sql.ID("Test"))
	if err != nil {
		t.Errorf("FetchColumns(Test) failed with %s", err)
	} else if !testutil.DeepEqual(cols, []sql.Identifier{sql.ID("id"), sql.ID("name")}) {
		t.Errorf("FetchColumns(Test) got %v", cols)
	}

	_, err = execute.FetchColumns(st, sql.ID("Missing"))
	if !errors.Is(err, storage.ErrTableNotFound) {
		t.Errorf("FetchColumns(Missing) got %v want ErrTableNotFound", err)
	}

	_, err = execute.Fetch(st, sql.TableAlias{Name: sql.ID("Missing")}, nil, nil)
	if !errors.Is(err, storage.ErrTableNotFound) {
		t.Errorf("Fetch(Missing) got %v want ErrTableNotFound", err)
	}
}

func TestFetch(t *testing.T) {
	st := &testStore{
		sch: sql.Schema{
			Table:   sql.ID("Test"),
			Columns: []sql.ColumnDef{{Name: sql.ID("id"), Type: sql.IntegerType}},
		},
		items: []scanItem{
			{row: idRow(1)},
			{err: errScan},
			{row: idRow(0)},
			{row: idRow(5)},
			{row: idRow(2)},
		},
	}
	columns := []sql.Identifier{sql.ID("id")}

	type result struct {
		row sql.Row
		err error
	}
	cases := []struct {
		alias   sql.Identifier
		where   sql.Expr
		results []result
	}{
		{
			results: []result{
				{row: idRow(1)},
				{err: errScan},
				{row: idRow(0)},
				{row: idRow(5)},
				{row: idRow(2)},
			},
		},
		{
			where: &sql.Binary{Op: sql.GreaterThanOp, Left: sql.ColumnRef("id"),
				Right: sql.Int64Literal(1)},
			results: []result{
				{err: errScan},
				{row: idRow(5)},
				{row: idRow(2)},
			},
		},
		{
			where: &sql.Binary{
				Op: sql.GreaterThanOp,
				Left: &sql.Binary{Op: sql.DivideOp, Left: sql.Int64Literal(10),
					Right: sql.ColumnRef("id")},
				Right: sql.Int64Literal(3),
			},
			results: []result{
				{row: idRow(1)},
				{err: errScan},
				{err: evaluate.ErrDivisionByZero},
				{row: idRow(2)},
			},
		},
		{
			alias: sql.ID("t"),
			where: &sql.Binary{Op: sql.LessThanOp,
				Left: sql.CompoundIdent{sql.ID("t"), sql.ID("id")}, Right: sql.Int64Literal(2)},
			results: []result{
				{row: idRow(1)},
				{err: errScan},
				{row: idRow(0)},
			},
		},
		{
			where: &sql.Binary{Op: sql.EqualOp,
				Left: sql.CompoundIdent{sql.ID("t"), sql.ID("id")}, Right: sql.Int64Literal(2)},
			results: []result{
				{err: evaluate.ErrColumnNotFound},
				{err: errScan},
				{err: evaluate.ErrColumnNotFound},
				{err: evaluate.ErrColumnNotFound},
				{err: evaluate.ErrColumnNotFound},
			},
		},
	}

	for _, c := range cases {
		var f *filter.Filter
		if c.where != nil {
			f = filter.New(st, nil, c.where, nil)
		}
		fr, err := execute.Fetch(st, sql.TableAlias{Name: sql.ID("Test"), Alias: c.alias},
			columns, f)
		if err != nil {
			t.Fatalf("Fetch(%s) failed with %s", c.where, err)
		}

		for _, r := range c.results {
			got, err := fr.Next()
			if r.err != nil {
				if !errors.Is(err, r.err) {
					t.Errorf("Fetch(%s).Next() got %v want %s", c.where, err, r.err)
				}
			} else if err != nil {
				t.Errorf("Fetch(%s).Next() failed with %s", c.where, err)
			} else {
				if !testutil.DeepEqual(got.Row, r.row) {
					t.Errorf("Fetch(%s).Next() got %v want %v", c.where, got.Row, r.row)
				}
				if !testutil.DeepEqual(got.Columns, columns) {
					t.Errorf("Fetch(%s).Next() got columns %v want %v", c.where, got.Columns,
						columns)
				}
			}
		}

		_, err = fr.Next()
		if err != io.EOF {
			t.Errorf("Fetch(%s).Next() got %v want io.EOF", c.where, err)
		}
		err = fr.Close()
		if err != nil {
			t.Errorf("Fetch(%s).Close() failed with %s", c.where, err)
		}
	}
}

func TestFetchPulls(t *testing.T) {
	st := &testStore{
		sch: sql.Schema{
			Table:   sql.ID("Test"),
			Columns: []sql.ColumnDef{{Name: sql.ID("id"), Type: sql.IntegerType}},
		},
		items: []scanItem{
			{row: idRow(1)},
			{row: idRow(2)},
			{row: idRow(3)},
			{row: idRow(4)},
			{row: idRow(5)},
		},
	}
	where := &sql.Binary{Op: sql.GreaterThanOp, Left: sql.ColumnRef("id"),
		Right: sql.Int64Literal(2)}

	fr, err := execute.Fetch(st, sql.TableAlias{Name: sql.ID("Test")},
		[]sql.Identifier{sql.ID("id")}, filter.New(st, nil, where, nil))
	if err != nil {
		t.Fatalf("Fetch(%s) failed with %s", where, err)
	}
	if st.scan.idx != 0 {
		t.Errorf("Fetch(%s) pulled %d rows before Next", where, st.scan.idx)
	}

	for _, id := range []int64{3, 4} {
		got, err := fr.Next()
		if err != nil {
			t.Fatalf("Fetch(%s).Next() failed with %s", where, err)
		}
		if !testutil.DeepEqual(got.Row, idRow(id)) {
			t.Errorf("Fetch(%s).Next() got %v want %v", where, got.Row, idRow(id))
		}
		if st.scan.idx != int(id) {
			t.Errorf("Fetch(%s).Next() pulled %d rows want %d", where, st.scan.idx, id)
		}
	}

	err = fr.Close()
	if err != nil {
		t.Errorf("Fetch(%s).Close() failed with %s", where, err)
	}
	if !st.scan.closed {
		t.Errorf("Fetch(%s).Close() did not close the scan", where)
	}
}
