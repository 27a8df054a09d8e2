package parser

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"

	"github.com/cl-kim/gluesql/sql"
)

var (
	ErrUnsupported = errors.New("parser: unsupported")

	ifNotExistsRegexp = regexp.MustCompile(`(?is)^\s*create\s+table\s+if\s+not\s+exists\s`)
)

func unsupported(what string, node sqlparser.SQLNode) error {
	return fmt.Errorf("%w: %s: %s", ErrUnsupported, what, sqlparser.String(node))
}

// Parse parses a single statement.
func Parse(text string) (sql.Stmt, error) {
	stmt, err := sqlparser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parser: %s", err)
	}

	switch stmt := stmt.(type) {
	case *sqlparser.Select:
		return convertSelect(stmt)
	case *sqlparser.Insert:
		return convertInsert(stmt)
	case *sqlparser.Update:
		return convertUpdate(stmt)
	case *sqlparser.Delete:
		return convertDelete(stmt)
	case *sqlparser.DDL:
		return convertDDL(stmt, ifNotExistsRegexp.MatchString(text))
	}
	return nil, unsupported("statement", stmt)
}

// ParseAll parses a script of statements separated by semicolons.
func ParseAll(script string) ([]sql.Stmt, error) {
	var stmts []sql.Stmt
	for _, text := range Split(script) {
		stmt, err := Parse(text)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func tableName(tn sqlparser.TableName) (sql.Identifier, error) {
	if !tn.Qualifier.IsEmpty() {
		return "", unsupported("qualified table name", tn)
	}
	return sql.ID(tn.Name.String()), nil
}

func convertDDL(ddl *sqlparser.DDL, ifNotExists bool) (sql.Stmt, error) {
	switch ddl.Action {
	case sqlparser.CreateStr:
		tn := ddl.NewName
		if tn.IsEmpty() {
			tn = ddl.Table
		}
		tblname, err := tableName(tn)
		if err != nil {
			return nil, err
		}
		if ddl.TableSpec == nil {
			return nil, unsupported("create", ddl)
		}

		stmt := sql.CreateTable{
			Schema:      sql.Schema{Table: tblname},
			IfNotExists: ifNotExists,
		}
		for _, cd := range ddl.TableSpec.Columns {
			dt, err := dataType(cd.Type)
			if err != nil {
				return nil, err
			}
			stmt.Schema.Columns = append(stmt.Schema.Columns, sql.ColumnDef{
				Name:    sql.ID(cd.Name.String()),
				Type:    dt,
				NotNull: bool(cd.Type.NotNull),
			})
		}
		return &stmt, nil
	case sqlparser.DropStr:
		tn := ddl.Table
		if tn.IsEmpty() {
			tn = ddl.NewName
		}
		tblname, err := tableName(tn)
		if err != nil {
			return nil, err
		}
		return &sql.DropTable{Table: tblname, IfExists: ddl.IfExists}, nil
	}
	return nil, unsupported(ddl.Action, ddl)
}

func dataType(ct sqlparser.ColumnType) (sql.DataType, error) {
	switch strings.ToLower(ct.Type) {
	case "int", "integer", "bigint", "smallint", "tinyint", "mediumint":
		return sql.IntegerType, nil
	case "float", "double", "real", "decimal", "numeric":
		return sql.FloatType, nil
	case "bool", "boolean", "bit":
		return sql.BooleanType, nil
	case "char", "varchar", "text", "tinytext", "mediumtext", "longtext":
		return sql.TextType, nil
	case "binary", "varbinary", "blob", "tinyblob", "mediumblob", "longblob":
		return sql.BytesType, nil
	}
	return 0, fmt.Errorf("%w: column type: %s", ErrUnsupported, ct.Type)
}

func singleTable(tes sqlparser.TableExprs) (*sql.TableAlias, error) {
	if len(tes) != 1 {
		return nil, unsupported("multiple tables", tes)
	}
	ate, ok := tes[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, unsupported("table expression", tes[0])
	}
	tn, ok := ate.Expr.(sqlparser.TableName)
	if !ok {
		return nil, unsupported("table expression", ate)
	}
	tblname, err := tableName(tn)
	if err != nil {
		return nil, err
	}
	return &sql.TableAlias{Name: tblname, Alias: sql.ID(ate.As.String())}, nil
}

func where(w *sqlparser.Where) (sql.Expr, error) {
	if w == nil {
		return nil, nil
	}
	return convertExpr(w.Expr)
}

func convertSelect(stmt *sqlparser.Select) (*sql.Select, error) {
	if stmt.Distinct != "" || len(stmt.GroupBy) > 0 || stmt.Having != nil ||
		len(stmt.OrderBy) > 0 {

		return nil, unsupported("select", stmt)
	}

	var sel sql.Select
	for _, se := range stmt.SelectExprs {
		switch se := se.(type) {
		case *sqlparser.StarExpr:
			var tblname sql.Identifier
			if !se.TableName.IsEmpty() {
				var err error
				tblname, err = tableName(se.TableName)
				if err != nil {
					return nil, err
				}
			}
			sel.Items = append(sel.Items, sql.Star{Table: tblname})
		case *sqlparser.AliasedExpr:
			e, err := convertExpr(se.Expr)
			if err != nil {
				return nil, err
			}
			sel.Items = append(sel.Items, sql.AliasedExpr{Expr: e, Alias: sql.ID(se.As.String())})
		default:
			return nil, unsupported("select expression", se)
		}
	}

	var err error
	if len(stmt.From) > 0 && !isDual(stmt.From) {
		sel.From, err = singleTable(stmt.From)
		if err != nil {
			return nil, err
		}
	}

	sel.Where, err = where(stmt.Where)
	if err != nil {
		return nil, err
	}

	if stmt.Limit != nil {
		if stmt.Limit.Rowcount != nil {
			sel.Limit, err = convertExpr(stmt.Limit.Rowcount)
			if err != nil {
				return nil, err
			}
		}
		if stmt.Limit.Offset != nil {
			sel.Offset, err = convertExpr(stmt.Limit.Offset)
			if err != nil {
				return nil, err
			}
		}
	}
	return &sel, nil
}

// isDual reports whether tes is the dual table the parser supplies for SELECT without FROM.
func isDual(tes sqlparser.TableExprs) bool {
	if len(tes) != 1 {
		return false
	}
	ate, ok := tes[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return false
	}
	tn, ok := ate.Expr.(sqlparser.TableName)
	return ok && tn.Qualifier.IsEmpty() && tn.Name.String() == "dual"
}

func convertInsert(stmt *sqlparser.Insert) (*sql.Insert, error) {
	if stmt.Action != sqlparser.InsertStr || len(stmt.OnDup) > 0 {
		return nil, unsupported("insert", stmt)
	}
	tblname, err := tableName(stmt.Table)
	if err != nil {
		return nil, err
	}

	ins := sql.Insert{Table: tblname}
	for _, col := range stmt.Columns {
		ins.Columns = append(ins.Columns, sql.ID(col.String()))
	}

	vals, ok := stmt.Rows.(sqlparser.Values)
	if !ok {
		return nil, unsupported("insert rows", stmt.Rows)
	}
	for _, vt := range vals {
		var row []sql.Expr
		for _, ve := range vt {
			e, err := convertExpr(ve)
			if err != nil {
				return nil, err
			}
			row = append(row, e)
		}
		ins.Rows = append(ins.Rows, row)
	}
	return &ins, nil
}

func convertUpdate(stmt *sqlparser.Update) (*sql.Update, error) {
	if len(stmt.OrderBy) > 0 || stmt.Limit != nil {
		return nil, unsupported("update", stmt)
	}
	ta, err := singleTable(stmt.TableExprs)
	if err != nil {
		return nil, err
	}

	upd := sql.Update{Table: ta.Name, Alias: ta.Alias}
	for _, ue := range stmt.Exprs {
		e, err := convertExpr(ue.Expr)
		if err != nil {
			return nil, err
		}
		upd.Set = append(upd.Set, sql.Assignment{Column: sql.ID(ue.Name.Name.String()), Expr: e})
	}

	upd.Where, err = where(stmt.Where)
	if err != nil {
		return nil, err
	}
	return &upd, nil
}

func convertDelete(stmt *sqlparser.Delete) (*sql.Delete, error) {
	if len(stmt.OrderBy) > 0 || stmt.Limit != nil {
		return nil, unsupported("delete", stmt)
	}
	ta, err := singleTable(stmt.TableExprs)
	if err != nil {
		return nil, err
	}

	del := sql.Delete{Table: ta.Name, Alias: ta.Alias}
	del.Where, err = where(stmt.Where)
	if err != nil {
		return nil, err
	}
	return &del, nil
}

func convertSubquery(sq *sqlparser.Subquery) (*sql.Select, error) {
	stmt, ok := sq.Select.(*sqlparser.Select)
	if !ok {
		return nil, unsupported("subquery", sq)
	}
	return convertSelect(stmt)
}

func convertSQLVal(v *sqlparser.SQLVal, neg bool) (sql.Expr, error) {
	s := string(v.Val)
	if neg {
		s = "-" + s
	}

	switch v.Type {
	case sqlparser.StrVal:
		return sql.QuotedIdent(string(v.Val)), nil
	case sqlparser.IntVal:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: integer: %s: %s", s, err)
		}
		return sql.Int64Literal(i), nil
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("parser: float: %s: %s", s, err)
		}
		return sql.Float64Literal(f), nil
	case sqlparser.HexVal:
		b, err := hex.DecodeString(string(v.Val))
		if err != nil {
			return nil, fmt.Errorf("parser: hex: %s: %s", v.Val, err)
		}
		return sql.BytesLiteral(b), nil
	}
	return nil, unsupported("value", v)
}

var binaryOps = map[string]sql.Op{
	sqlparser.PlusStr:  sql.AddOp,
	sqlparser.MinusStr: sql.SubtractOp,
	sqlparser.MultStr:  sql.MultiplyOp,
	sqlparser.DivStr:   sql.DivideOp,
	sqlparser.ModStr:   sql.ModuloOp,
}

var comparisonOps = map[string]sql.Op{
	sqlparser.EqualStr:        sql.EqualOp,
	sqlparser.NotEqualStr:     sql.NotEqualOp,
	sqlparser.LessThanStr:     sql.LessThanOp,
	sqlparser.LessEqualStr:    sql.LessEqualOp,
	sqlparser.GreaterThanStr:  sql.GreaterThanOp,
	sqlparser.GreaterEqualStr: sql.GreaterEqualOp,
}

func convertBinary(op sql.Op, left, right sqlparser.Expr) (sql.Expr, error) {
	l, err := convertExpr(left)
	if err != nil {
		return nil, err
	}
	r, err := convertExpr(right)
	if err != nil {
		return nil, err
	}
	return &sql.Binary{Op: op, Left: l, Right: r}, nil
}

func convertExprs(exprs []sqlparser.Expr) ([]sql.Expr, error) {
	var ret []sql.Expr
	for _, e := range exprs {
		ce, err := convertExpr(e)
		if err != nil {
			return nil, err
		}
		ret = append(ret, ce)
	}
	return ret, nil
}

func convertIn(ce *sqlparser.ComparisonExpr, not bool) (sql.Expr, error) {
	l, err := convertExpr(ce.Left)
	if err != nil {
		return nil, err
	}

	switch r := ce.Right.(type) {
	case sqlparser.ValTuple:
		list, err := convertExprs(r)
		if err != nil {
			return nil, err
		}
		return &sql.InList{Expr: l, List: list, Not: not}, nil
	case *sqlparser.Subquery:
		sel, err := convertSubquery(r)
		if err != nil {
			return nil, err
		}
		return &sql.InSubquery{Expr: l, Select: sel, Not: not}, nil
	}
	return nil, unsupported("in", ce)
}

func convertExpr(e sqlparser.Expr) (sql.Expr, error) {
	switch e := e.(type) {
	case *sqlparser.SQLVal:
		return convertSQLVal(e, false)
	case *sqlparser.NullVal:
		return sql.Nil(), nil
	case sqlparser.BoolVal:
		if e {
			return sql.True(), nil
		}
		return sql.False(), nil
	case *sqlparser.ColName:
		if e.Qualifier.IsEmpty() {
			return sql.ColumnRef(e.Name.String()), nil
		}
		ci := sql.CompoundIdent{sql.ID(e.Qualifier.Name.String()), sql.ID(e.Name.String())}
		if !e.Qualifier.Qualifier.IsEmpty() {
			ci = append(sql.CompoundIdent{sql.ID(e.Qualifier.Qualifier.String())}, ci...)
		}
		return ci, nil
	case *sqlparser.ParenExpr:
		ne, err := convertExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &sql.Nested{Expr: ne}, nil
	case *sqlparser.Subquery:
		sel, err := convertSubquery(e)
		if err != nil {
			return nil, err
		}
		return &sql.Subquery{Select: sel}, nil
	case *sqlparser.BinaryExpr:
		op, ok := binaryOps[e.Operator]
		if !ok {
			return nil, unsupported("operator", e)
		}
		return convertBinary(op, e.Left, e.Right)
	case *sqlparser.UnaryExpr:
		switch e.Operator {
		case sqlparser.UMinusStr:
			if v, ok := e.Expr.(*sqlparser.SQLVal); ok &&
				(v.Type == sqlparser.IntVal || v.Type == sqlparser.FloatVal) {

				return convertSQLVal(v, true)
			}
			ue, err := convertExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			return &sql.Unary{Op: sql.NegateOp, Expr: ue}, nil
		case sqlparser.UPlusStr:
			ue, err := convertExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			return &sql.Unary{Op: sql.PlusOp, Expr: ue}, nil
		}
	case *sqlparser.ComparisonExpr:
		switch e.Operator {
		case sqlparser.InStr:
			return convertIn(e, false)
		case sqlparser.NotInStr:
			return convertIn(e, true)
		}
		op, ok := comparisonOps[e.Operator]
		if !ok {
			return nil, unsupported("operator", e)
		}
		return convertBinary(op, e.Left, e.Right)
	case *sqlparser.AndExpr:
		return convertBinary(sql.AndOp, e.Left, e.Right)
	case *sqlparser.OrExpr:
		return convertBinary(sql.OrOp, e.Left, e.Right)
	case *sqlparser.NotExpr:
		ne, err := convertExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		return &sql.Unary{Op: sql.NotOp, Expr: ne}, nil
	case *sqlparser.RangeCond:
		x, err := convertExpr(e.Left)
		if err != nil {
			return nil, err
		}
		low, err := convertExpr(e.From)
		if err != nil {
			return nil, err
		}
		high, err := convertExpr(e.To)
		if err != nil {
			return nil, err
		}
		return &sql.Between{Expr: x, Low: low, High: high,
			Not: e.Operator == sqlparser.NotBetweenStr}, nil
	case *sqlparser.IsExpr:
		switch e.Operator {
		case sqlparser.IsNullStr, sqlparser.IsNotNullStr:
			ie, err := convertExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			return &sql.IsNull{Expr: ie, Not: e.Operator == sqlparser.IsNotNullStr}, nil
		}
	case *sqlparser.ExistsExpr:
		sel, err := convertSubquery(e.Subquery)
		if err != nil {
			return nil, err
		}
		return &sql.Exists{Select: sel}, nil
	case *sqlparser.FuncExpr:
		if e.Distinct || !e.Qualifier.IsEmpty() {
			return nil, unsupported("function", e)
		}
		call := sql.Call{Name: sql.ID(e.Name.String())}
		for _, se := range e.Exprs {
			ae, ok := se.(*sqlparser.AliasedExpr)
			if !ok {
				return nil, unsupported("function argument", se)
			}
			arg, err := convertExpr(ae.Expr)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		}
		return &call, nil
	}
	return nil, unsupported("expression", e)
}
