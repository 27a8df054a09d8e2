package sql

import (
	"fmt"
	"strings"
)

// Stmt is a parsed statement: *Select, *Insert, *Update, *Delete, *CreateTable, or
// *DropTable.
type Stmt interface {
	fmt.Stringer
}

type SelectItem interface {
	fmt.Stringer
}

// Star is * or alias.* in a select list.
type Star struct {
	Table Identifier
}

func (s Star) String() string {
	if s.Table == "" {
		return "*"
	}
	return fmt.Sprintf("%s.*", s.Table)
}

type AliasedExpr struct {
	Expr  Expr
	Alias Identifier
}

func (ae AliasedExpr) String() string {
	if ae.Alias == "" {
		return ae.Expr.String()
	}
	return fmt.Sprintf("%s AS %s", ae.Expr, ae.Alias)
}

// Label is the name of the output column produced by the expression.
func (ae AliasedExpr) Label() Identifier {
	if ae.Alias != "" {
		return ae.Alias
	}
	switch e := ae.Expr.(type) {
	case *Ident:
		return e.Name
	case CompoundIdent:
		return e[len(e)-1]
	}
	return ID(ae.Expr.String())
}

type TableAlias struct {
	Name  Identifier
	Alias Identifier
}

func (ta TableAlias) String() string {
	if ta.Alias == "" {
		return ta.Name.String()
	}
	return fmt.Sprintf("%s AS %s", ta.Name, ta.Alias)
}

// Label is the name that qualified column references use for the table.
func (ta TableAlias) Label() Identifier {
	if ta.Alias != "" {
		return ta.Alias
	}
	return ta.Name
}

type Select struct {
	Items  []SelectItem
	From   *TableAlias
	Where  Expr
	Limit  Expr
	Offset Expr
}

func (stmt *Select) String() string {
	items := make([]string, len(stmt.Items))
	for i, item := range stmt.Items {
		items[i] = item.String()
	}
	s := "SELECT " + strings.Join(items, ", ")
	if stmt.From != nil {
		s += fmt.Sprintf(" FROM %s", stmt.From)
	}
	if stmt.Where != nil {
		s += fmt.Sprintf(" WHERE %s", stmt.Where)
	}
	if stmt.Limit != nil {
		s += fmt.Sprintf(" LIMIT %s", stmt.Limit)
	}
	if stmt.Offset != nil {
		s += fmt.Sprintf(" OFFSET %s", stmt.Offset)
	}
	return s
}

type Insert struct {
	Table   Identifier
	Columns []Identifier
	Rows    [][]Expr
}

func (stmt *Insert) String() string {
	s := fmt.Sprintf("INSERT INTO %s ", stmt.Table)
	if stmt.Columns != nil {
		s += fmt.Sprintf("(%s) ", joinIdentifiers(stmt.Columns, ", "))
	}
	s += "VALUES "
	for i, r := range stmt.Rows {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("(%s)", joinExprs(r))
	}
	return s
}

type Assignment struct {
	Column Identifier
	Expr   Expr
}

func (a Assignment) String() string {
	return fmt.Sprintf("%s = %s", a.Column, a.Expr)
}

type Update struct {
	Table Identifier
	Alias Identifier
	Set   []Assignment
	Where Expr
}

// Target is the updated table under the name that the SET and WHERE expressions use for it.
func (stmt *Update) Target() TableAlias {
	return TableAlias{Name: stmt.Table, Alias: stmt.Alias}
}

func (stmt *Update) String() string {
	set := make([]string, len(stmt.Set))
	for i, a := range stmt.Set {
		set[i] = a.String()
	}
	s := fmt.Sprintf("UPDATE %s SET %s", stmt.Target(), strings.Join(set, ", "))
	if stmt.Where != nil {
		s += fmt.Sprintf(" WHERE %s", stmt.Where)
	}
	return s
}

type Delete struct {
	Table Identifier
	Alias Identifier
	Where Expr
}

func (stmt *Delete) Target() TableAlias {
	return TableAlias{Name: stmt.Table, Alias: stmt.Alias}
}

func (stmt *Delete) String() string {
	s := fmt.Sprintf("DELETE FROM %s", stmt.Target())
	if stmt.Where != nil {
		s += fmt.Sprintf(" WHERE %s", stmt.Where)
	}
	return s
}

type CreateTable struct {
	Schema      Schema
	IfNotExists bool
}

func (stmt *CreateTable) String() string {
	s := "CREATE TABLE "
	if stmt.IfNotExists {
		s += "IF NOT EXISTS "
	}
	return s + stmt.Schema.String()
}

type DropTable struct {
	Table    Identifier
	IfExists bool
}

func (stmt *DropTable) String() string {
	s := "DROP TABLE "
	if stmt.IfExists {
		s += "IF EXISTS "
	}
	return s + stmt.Table.String()
}
