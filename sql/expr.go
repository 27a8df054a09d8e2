package sql

import (
	"fmt"
	"strings"
)

// Expr is a node of an expression tree. Trees are immutable once built; String renders the
// node back to SQL text.
type Expr interface {
	fmt.Stringer
}

type Op int

const (
	AddOp Op = iota
	AndOp
	DivideOp
	EqualOp
	GreaterEqualOp
	GreaterThanOp
	LessEqualOp
	LessThanOp
	ModuloOp
	MultiplyOp
	NegateOp
	NotEqualOp
	NotOp
	OrOp
	PlusOp
	SubtractOp
)

var ops = [...]string{
	AddOp:          "+",
	AndOp:          "AND",
	DivideOp:       "/",
	EqualOp:        "=",
	GreaterEqualOp: ">=",
	GreaterThanOp:  ">",
	LessEqualOp:    "<=",
	LessThanOp:     "<",
	ModuloOp:       "%",
	MultiplyOp:     "*",
	NegateOp:       "-",
	NotEqualOp:     "<>",
	NotOp:          "NOT",
	OrOp:           "OR",
	PlusOp:         "+",
	SubtractOp:     "-",
}

func (op Op) String() string {
	return ops[op]
}

type LiteralKind int

const (
	LiteralNull LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralString
	LiteralBytes
)

type Literal struct {
	Value Value
}

func (l *Literal) String() string {
	return Format(l.Value)
}

func (l *Literal) Kind() LiteralKind {
	switch l.Value.(type) {
	case Int64Value, Float64Value:
		return LiteralNumber
	case BoolValue:
		return LiteralBoolean
	case StringValue:
		return LiteralString
	case BytesValue:
		return LiteralBytes
	}
	return LiteralNull
}

func Nil() *Literal {
	return &Literal{nil}
}

func True() *Literal {
	return &Literal{BoolValue(true)}
}

func False() *Literal {
	return &Literal{BoolValue(false)}
}

func Int64Literal(i int64) *Literal {
	return &Literal{Int64Value(i)}
}

func Float64Literal(f float64) *Literal {
	return &Literal{Float64Value(f)}
}

func StringLiteral(s string) *Literal {
	return &Literal{StringValue(s)}
}

func BytesLiteral(b []byte) *Literal {
	return &Literal{BytesValue(b)}
}

// Ident is a single identifier. A quoted identifier is never resolved as a column; it stands
// for its own text.
type Ident struct {
	Name   Identifier
	Quoted bool
}

func (id *Ident) String() string {
	if id.Quoted {
		return id.Name.Quote()
	}
	return id.Name.String()
}

func ColumnRef(nam string) *Ident {
	return &Ident{Name: ID(nam)}
}

func QuotedIdent(s string) *Ident {
	return &Ident{Name: ID(s), Quoted: true}
}

// CompoundIdent is a dotted identifier such as alias.column.
type CompoundIdent []Identifier

func (ci CompoundIdent) String() string {
	return joinIdentifiers(ci, ".")
}

type Nested struct {
	Expr Expr
}

func (n *Nested) String() string {
	return fmt.Sprintf("(%s)", n.Expr)
}

type Subquery struct {
	Select *Select
}

func (sq *Subquery) String() string {
	return fmt.Sprintf("(%s)", sq.Select)
}

type Unary struct {
	Op   Op
	Expr Expr
}

func (u *Unary) String() string {
	if u.Op == NotOp {
		return fmt.Sprintf("NOT %s", u.Expr)
	}
	return fmt.Sprintf("%s%s", u.Op, u.Expr)
}

type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("%s %s %s", b.Left, b.Op, b.Right)
}

type IsNull struct {
	Expr Expr
	Not  bool
}

func (in *IsNull) String() string {
	if in.Not {
		return fmt.Sprintf("%s IS NOT NULL", in.Expr)
	}
	return fmt.Sprintf("%s IS NULL", in.Expr)
}

func notString(not bool) string {
	if not {
		return "NOT "
	}
	return ""
}

type InList struct {
	Expr Expr
	List []Expr
	Not  bool
}

func (il *InList) String() string {
	return fmt.Sprintf("%s %sIN (%s)", il.Expr, notString(il.Not), joinExprs(il.List))
}

type InSubquery struct {
	Expr   Expr
	Select *Select
	Not    bool
}

func (is *InSubquery) String() string {
	return fmt.Sprintf("%s %sIN (%s)", is.Expr, notString(is.Not), is.Select)
}

type Between struct {
	Expr Expr
	Low  Expr
	High Expr
	Not  bool
}

func (b *Between) String() string {
	return fmt.Sprintf("%s %sBETWEEN %s AND %s", b.Expr, notString(b.Not), b.Low, b.High)
}

type Exists struct {
	Select *Select
}

func (e *Exists) String() string {
	return fmt.Sprintf("EXISTS (%s)", e.Select)
}

type Call struct {
	Name Identifier
	Args []Expr
}

func (c *Call) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, joinExprs(c.Args))
}

func joinExprs(exprs []Expr) string {
	ss := make([]string, len(exprs))
	for i, e := range exprs {
		ss[i] = e.String()
	}
	return strings.Join(ss, ", ")
}
