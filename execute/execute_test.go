package execute_test

import (
	"errors"
	"testing"

	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/execute"
	"github.com/cl-kim/gluesql/filter"
	"github.com/cl-kim/gluesql/parser"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
	"github.com/cl-kim/gluesql/storage/kv"
	"github.com/cl-kim/gluesql/storage/kvstore"
	"github.com/cl-kim/gluesql/testutil"
)

func newStore(t *testing.T) *kvstore.Store {
	t.Helper()

	kvst, err := kv.MakeBTreeKV()
	if err != nil {
		t.Fatalf("MakeBTreeKV() failed with %s", err)
	}
	return kvstore.New(kvst)
}

func execute1(t *testing.T, st storage.StoreMut, s string) (execute.Payload, error) {
	t.Helper()

	stmt, err := parser.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q) failed with %s", s, err)
	}
	return execute.Execute(st, stmt)
}

func mustExecute(t *testing.T, st storage.StoreMut, script string) {
	t.Helper()

	for _, s := range parser.Split(script) {
		_, err := execute1(t, st, s)
		if err != nil {
			t.Fatalf("Execute(%q) failed with %s", s, err)
		}
	}
}

const testTable = `
create table Test (id int not null, name varchar(10), rate float);
insert into Test values (1, 'a', 1.5), (2, 'b', null), (3, null, 2.5);
`

func TestExecute(t *testing.T) {
	st := newStore(t)
	defer st.Close()

	cases := []struct {
		sql     string
		kind    execute.PayloadKind
		cnt     int64
		columns []sql.Identifier
		rows    []sql.Row
	}{
		{sql: "create table Test (id int not null, name varchar(10))", kind: execute.CreatePayload},
		{sql: "create table if not exists Test (x int)", kind: execute.CreatePayload},
		{sql: "insert into Test values (1, 'one'), (2, 'two')", kind: execute.InsertPayload,
			cnt: 2},
		{sql: "insert into Test (name, id) values ('three', 1 + 2)", kind: execute.InsertPayload,
			cnt: 1},
		{sql: "insert into Test (id) values (4)", kind: execute.InsertPayload, cnt: 1},
		{
			sql:     "select * from Test",
			kind:    execute.SelectPayload,
			columns: []sql.Identifier{sql.ID("id"), sql.ID("name")},
			rows: []sql.Row{
				{sql.Int64Value(1), sql.StringValue("one")},
				{sql.Int64Value(2), sql.StringValue("two")},
				{sql.Int64Value(3), sql.StringValue("three")},
				{sql.Int64Value(4), nil},
			},
		},
		{sql: "update Test set id = id * 10, name = 'many' where id > 2",
			kind: execute.UpdatePayload, cnt: 2},
		{sql: "update Test set name = 'none' where id > 100", kind: execute.UpdatePayload},
		{sql: "update Test t set name = t.name where t.id = 2", kind: execute.UpdatePayload,
			cnt: 1},
		{
			sql:     "select id, name from Test where id >= 2",
			kind:    execute.SelectPayload,
			columns: []sql.Identifier{sql.ID("id"), sql.ID("name")},
			rows: []sql.Row{
				{sql.Int64Value(2), sql.StringValue("two")},
				{sql.Int64Value(30), sql.StringValue("many")},
				{sql.Int64Value(40), sql.StringValue("many")},
			},
		},
		{sql: "delete from Test where name = 'many'", kind: execute.DeletePayload, cnt: 2},
		{
			sql:     "select name from Test",
			kind:    execute.SelectPayload,
			columns: []sql.Identifier{sql.ID("name")},
			rows: []sql.Row{
				{sql.StringValue("one")},
				{sql.StringValue("two")},
			},
		},
		{sql: "delete from Test", kind: execute.DeletePayload, cnt: 2},
		{
			sql:     "select * from Test",
			kind:    execute.SelectPayload,
			columns: []sql.Identifier{sql.ID("id"), sql.ID("name")},
			rows:    []sql.Row{},
		},
		{sql: "drop table Test", kind: execute.DropTablePayload},
		{sql: "drop table if exists Test", kind: execute.DropTablePayload},
	}

	for _, c := range cases {
		pl, err := execute1(t, st, c.sql)
		if err != nil {
			t.Errorf("Execute(%q) failed with %s", c.sql, err)
			continue
		}
		want := execute.Payload{
			Kind:         c.kind,
			RowsAffected: c.cnt,
			Columns:      c.columns,
			Rows:         c.rows,
		}
		if !testutil.DeepEqual(pl, want) {
			t.Errorf("Execute(%q) got %v want %v", c.sql, pl, want)
		}
	}

	_, err := st.FetchSchema(sql.ID("Test"))
	if !errors.Is(err, storage.ErrTableNotFound) {
		t.Errorf("FetchSchema(Test) got %v want ErrTableNotFound", err)
	}
}

func TestExecuteErrors(t *testing.T) {
	st := newStore(t)
	defer st.Close()

	mustExecute(t, st, testTable)

	cases := []struct {
		sql string
		err error
	}{
		{"create table Test (id int)", execute.ErrTableAlreadyExists},
		{"create table Dup (a int, b int, a int)", execute.ErrDuplicateColumn},
		{"drop table Missing", storage.ErrTableNotFound},
		{"insert into Missing values (1)", storage.ErrTableNotFound},
		{"insert into Test values (1)", execute.ErrColumnCount},
		{"insert into Test values (1, 'a', 1.0, 2)", execute.ErrColumnCount},
		{"insert into Test (name) values ('x')", execute.ErrNotNull},
		{"insert into Test values (null, 'x', 1.0)", execute.ErrNotNull},
		{"insert into Test (id, id) values (1, 2)", execute.ErrDuplicateColumn},
		{"insert into Test (nope) values (1)", evaluate.ErrColumnNotFound},
		{"insert into Test values (1 / 0, 'x', 1.0)", evaluate.ErrDivisionByZero},
		{"update Test set nope = 1", evaluate.ErrColumnNotFound},
		{"update Test set id = null", execute.ErrNotNull},
		{"update Test set name = nope", evaluate.ErrColumnNotFound},
		{"update Missing set id = 1", storage.ErrTableNotFound},
		{"delete from Test where nope = 1", evaluate.ErrColumnNotFound},
		{"delete from Missing", storage.ErrTableNotFound},
		{"select * from Missing", storage.ErrTableNotFound},
		{"select * from Test limit -1", execute.ErrInvalidLimit},
		{"select * from Test limit 1 + 1", execute.ErrInvalidLimit},
		{"select x.* from Test", execute.ErrAliasNotFound},
		{"select * from Test where name", filter.ErrNotBoolean},
		{"select * from Test where nope = 1", evaluate.ErrColumnNotFound},
		{"select * from Test where x.id = 1", evaluate.ErrColumnNotFound},
		{"select a.b.c from Test", evaluate.ErrUnsupportedCompoundIdentifier},
		{"select * from Test where Test.id.x = 1", evaluate.ErrUnsupportedCompoundIdentifier},
		{"update Test t set rate = 1 where Test.id = 1", evaluate.ErrColumnNotFound},
		{"select * from Test where id = (select id from Test where id > 100)",
			evaluate.ErrNestedSelectRowNotFound},
		{"select name + 1 from Test", evaluate.ErrTypeMismatch},
		{"select id from Test where name > 1", evaluate.ErrIncomparable},
		{"select 1 / 0", evaluate.ErrDivisionByZero},
		{"select 9223372036854775807 + 1", evaluate.ErrIntegerOverflow},
		{"select id % 2 from Test", evaluate.ErrUnimplemented},
	}

	for _, c := range cases {
		_, err := execute1(t, st, c.sql)
		if err == nil {
			t.Errorf("Execute(%q) did not fail", c.sql)
		} else if !errors.Is(err, c.err) {
			t.Errorf("Execute(%q) got %s want %s", c.sql, err, c.err)
		}
	}

	pl, err := execute1(t, st, "select * from Test")
	if err != nil {
		t.Fatalf("Execute(select) failed with %s", err)
	}
	if len(pl.Rows) != 3 {
		t.Errorf("Execute(select) got %d rows want 3", len(pl.Rows))
	}
}
