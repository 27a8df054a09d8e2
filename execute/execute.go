package execute

import (
	"errors"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"github.com/cl-kim/gluesql/evaluate"
	"github.com/cl-kim/gluesql/filter"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

var (
	ErrTableAlreadyExists = errors.New("execute: table already exists")
	ErrColumnCount        = errors.New("execute: wrong number of values")
	ErrNotNull            = errors.New("execute: column may not be NULL")
	ErrInvalidLimit       = errors.New("execute: expected a non-negative integer")
	ErrAliasNotFound      = errors.New("execute: table alias not found")
	ErrDuplicateColumn    = errors.New("execute: duplicate column")
)

type PayloadKind int

const (
	CreatePayload PayloadKind = iota
	DropTablePayload
	InsertPayload
	UpdatePayload
	DeletePayload
	SelectPayload
)

func (pk PayloadKind) String() string {
	switch pk {
	case CreatePayload:
		return "CREATE TABLE"
	case DropTablePayload:
		return "DROP TABLE"
	case InsertPayload:
		return "INSERT"
	case UpdatePayload:
		return "UPDATE"
	case DeletePayload:
		return "DELETE"
	case SelectPayload:
		return "SELECT"
	}
	return fmt.Sprintf("payload(%d)", int(pk))
}

// Payload is the result of executing one statement. Columns and Rows are only set for
// SELECT; RowsAffected is set for INSERT, UPDATE, and DELETE.
type Payload struct {
	Kind         PayloadKind
	RowsAffected int64
	Columns      []sql.Identifier
	Rows         []sql.Row
}

// Execute runs one statement to completion against st.
func Execute(st storage.StoreMut, stmt sql.Stmt) (Payload, error) {
	log.WithField("stmt", stmt.String()).Debug("execute")

	switch stmt := stmt.(type) {
	case *sql.CreateTable:
		return createTable(st, stmt)
	case *sql.DropTable:
		return dropTable(st, stmt)
	case *sql.Insert:
		return insert(st, stmt)
	case *sql.Update:
		return update(st, stmt)
	case *sql.Delete:
		return deleteRows(st, stmt)
	case *sql.Select:
		rows, err := Select(st, stmt, nil)
		if err != nil {
			return Payload{}, err
		}
		all, err := evaluate.AllRows(rows)
		if err != nil {
			return Payload{}, err
		}
		return Payload{
			Kind:    SelectPayload,
			Columns: rows.Columns(),
			Rows:    all,
		}, nil
	}
	return Payload{}, fmt.Errorf("execute: unexpected statement: %s", stmt)
}

func createTable(st storage.StoreMut, stmt *sql.CreateTable) (Payload, error) {
	_, err := st.FetchSchema(stmt.Schema.Table)
	if err == nil {
		if stmt.IfNotExists {
			return Payload{Kind: CreatePayload}, nil
		}
		return Payload{}, fmt.Errorf("%w: %s", ErrTableAlreadyExists, stmt.Schema.Table)
	} else if !errors.Is(err, storage.ErrTableNotFound) {
		return Payload{}, err
	}

	cols := map[sql.Identifier]struct{}{}
	for _, cd := range stmt.Schema.Columns {
		if _, ok := cols[cd.Name]; ok {
			return Payload{}, fmt.Errorf("%w: %s: %s", ErrDuplicateColumn, stmt.Schema.Table,
				cd.Name)
		}
		cols[cd.Name] = struct{}{}
	}

	sch := stmt.Schema
	err = st.InsertSchema(&sch)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: CreatePayload}, nil
}

func dropTable(st storage.StoreMut, stmt *sql.DropTable) (Payload, error) {
	_, err := st.FetchSchema(stmt.Table)
	if err != nil {
		if stmt.IfExists && errors.Is(err, storage.ErrTableNotFound) {
			return Payload{Kind: DropTablePayload}, nil
		}
		return Payload{}, err
	}

	err = st.DeleteSchema(stmt.Table)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: DropTablePayload}, nil
}

// columnValue converts v to the type of column cd and enforces NOT NULL.
func columnValue(tblname sql.Identifier, cd sql.ColumnDef, v sql.Value) (sql.Value, error) {
	v, err := sql.ConvertValue(cd.Type, v)
	if err != nil {
		return nil, fmt.Errorf("execute: %s: column %s: %s", tblname, cd.Name, err)
	}
	if v == nil && cd.NotNull {
		return nil, fmt.Errorf("%w: %s: %s", ErrNotNull, tblname, cd.Name)
	}
	return v, nil
}

// exprValue returns the value to store for e; unlike in a query, any literal, including
// NULL, may be stored.
func exprValue(st storage.Store, fc evaluate.Context, e sql.Expr) (sql.Value, error) {
	if l, ok := e.(*sql.Literal); ok {
		return l.Value, nil
	}
	ev, err := evaluate.Evaluate(st, selector(), fc, e)
	if err != nil {
		return nil, err
	}
	return ev.Value(), nil
}

func insert(st storage.StoreMut, stmt *sql.Insert) (Payload, error) {
	sch, err := st.FetchSchema(stmt.Table)
	if err != nil {
		return Payload{}, err
	}

	var cdxs []int
	if stmt.Columns == nil {
		for cdx := range sch.Columns {
			cdxs = append(cdxs, cdx)
		}
	} else {
		seen := map[int]struct{}{}
		for _, col := range stmt.Columns {
			cdx, ok := sch.ColumnIndex(col)
			if !ok {
				return Payload{}, &evaluate.ColumnNotFoundError{Column: col}
			}
			if _, ok := seen[cdx]; ok {
				return Payload{}, fmt.Errorf("%w: %s: %s", ErrDuplicateColumn, stmt.Table, col)
			}
			seen[cdx] = struct{}{}
			cdxs = append(cdxs, cdx)
		}
	}

	rows := make([]sql.Row, 0, len(stmt.Rows))
	for _, exprs := range stmt.Rows {
		if len(exprs) != len(cdxs) {
			return Payload{}, fmt.Errorf("%w: %s: got %d want %d", ErrColumnCount, stmt.Table,
				len(exprs), len(cdxs))
		}

		vals := make(sql.Row, len(sch.Columns))
		for edx, e := range exprs {
			vals[cdxs[edx]], err = exprValue(st, nil, e)
			if err != nil {
				return Payload{}, err
			}
		}

		for cdx, cd := range sch.Columns {
			vals[cdx], err = columnValue(stmt.Table, cd, vals[cdx])
			if err != nil {
				return Payload{}, err
			}
		}
		rows = append(rows, vals)
	}

	err = st.InsertData(stmt.Table, rows)
	if err != nil {
		return Payload{}, err
	}
	return Payload{Kind: InsertPayload, RowsAffected: int64(len(rows))}, nil
}

// fetchAll drains the rows of the table matching where, stopping at the first error. The
// scan is closed before returning so that the caller may modify the table.
func fetchAll(st storage.Store, tbl sql.TableAlias, where sql.Expr) ([]sql.Identifier,
	[]FetchedRow, error) {

	columns, err := FetchColumns(st, tbl.Name)
	if err != nil {
		return nil, nil, err
	}
	fr, err := Fetch(st, tbl, columns, filter.New(st, selector(), where, nil))
	if err != nil {
		return nil, nil, err
	}
	defer fr.Close()

	var all []FetchedRow
	for {
		row, err := fr.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, nil, err
		}
		all = append(all, row)
	}
	return columns, all, nil
}

func update(st storage.StoreMut, stmt *sql.Update) (Payload, error) {
	sch, err := st.FetchSchema(stmt.Table)
	if err != nil {
		return Payload{}, err
	}

	cdxs := make([]int, len(stmt.Set))
	for adx, a := range stmt.Set {
		cdx, ok := sch.ColumnIndex(a.Column)
		if !ok {
			return Payload{}, &evaluate.ColumnNotFoundError{Column: a.Column}
		}
		cdxs[adx] = cdx
	}

	tbl := stmt.Target()
	columns, all, err := fetchAll(st, tbl, stmt.Where)
	if err != nil {
		return Payload{}, err
	}

	updates := make([]storage.KeyRow, 0, len(all))
	for _, fr := range all {
		fc := filter.NewContext(tbl.Label(), columns, fr.Row, nil)
		row := append(sql.Row(nil), fr.Row...)
		for adx, a := range stmt.Set {
			v, err := exprValue(st, fc, a.Expr)
			if err != nil {
				return Payload{}, err
			}
			cdx := cdxs[adx]
			row[cdx], err = columnValue(stmt.Table, sch.Columns[cdx], v)
			if err != nil {
				return Payload{}, err
			}
		}
		updates = append(updates, storage.KeyRow{Key: fr.Key, Row: row})
	}

	if len(updates) > 0 {
		err = st.UpdateData(stmt.Table, updates)
		if err != nil {
			return Payload{}, err
		}
	}
	return Payload{Kind: UpdatePayload, RowsAffected: int64(len(updates))}, nil
}

func deleteRows(st storage.StoreMut, stmt *sql.Delete) (Payload, error) {
	_, all, err := fetchAll(st, stmt.Target(), stmt.Where)
	if err != nil {
		return Payload{}, err
	}

	keys := make([]storage.Key, len(all))
	for idx, fr := range all {
		keys[idx] = fr.Key
	}
	if len(keys) > 0 {
		err = st.DeleteData(stmt.Table, keys)
		if err != nil {
			return Payload{}, err
		}
	}
	return Payload{Kind: DeletePayload, RowsAffected: int64(len(keys))}, nil
}
