package evaluate

import (
	"fmt"
	"math"

	"github.com/cl-kim/gluesql/sql"
)

type Kind int

const (
	KindOwned Kind = iota
	KindLiteralRef
	KindStringRef
	KindValueRef
)

func (k Kind) String() string {
	switch k {
	case KindOwned:
		return "owned"
	case KindLiteralRef:
		return "literal ref"
	case KindStringRef:
		return "string ref"
	case KindValueRef:
		return "value ref"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Evaluated is the result of evaluating one expression. The reference kinds point at a
// literal in the expression tree, at the text of a quoted identifier, or at a value in a row,
// and are only valid for as long as what they point at. Owned results hold a newly computed
// value. The zero Evaluated is an owned NULL.
type Evaluated struct {
	kind Kind
	lit  *sql.Literal
	str  string
	ref  *sql.Value
	val  sql.Value
}

func LiteralRef(l *sql.Literal) Evaluated {
	return Evaluated{kind: KindLiteralRef, lit: l}
}

func StringRef(s string) Evaluated {
	return Evaluated{kind: KindStringRef, str: s}
}

func ValueRef(v *sql.Value) Evaluated {
	return Evaluated{kind: KindValueRef, ref: v}
}

func Owned(v sql.Value) Evaluated {
	return Evaluated{kind: KindOwned, val: v}
}

func (e Evaluated) Kind() Kind {
	return e.kind
}

// Value returns the value of e; it does not copy the data that a reference points at.
func (e Evaluated) Value() sql.Value {
	switch e.kind {
	case KindLiteralRef:
		return e.lit.Value
	case KindStringRef:
		return sql.StringValue(e.str)
	case KindValueRef:
		return *e.ref
	}
	return e.val
}

func (e Evaluated) IsNull() bool {
	return e.Value() == nil
}

func (e Evaluated) String() string {
	return sql.Format(e.Value())
}

func (e Evaluated) Add(r Evaluated) (Evaluated, error) {
	return arithmetic(sql.AddOp, e, r,
		func(i0, i1 int64) (int64, error) {
			i := i0 + i1
			if (i > i0) != (i1 > 0) {
				return 0, overflow(sql.AddOp, i0, i1)
			}
			return i, nil
		},
		func(f0, f1 float64) (float64, error) {
			return f0 + f1, nil
		})
}

func (e Evaluated) Subtract(r Evaluated) (Evaluated, error) {
	return arithmetic(sql.SubtractOp, e, r,
		func(i0, i1 int64) (int64, error) {
			i := i0 - i1
			if (i < i0) != (i1 > 0) {
				return 0, overflow(sql.SubtractOp, i0, i1)
			}
			return i, nil
		},
		func(f0, f1 float64) (float64, error) {
			return f0 - f1, nil
		})
}

func (e Evaluated) Multiply(r Evaluated) (Evaluated, error) {
	return arithmetic(sql.MultiplyOp, e, r,
		func(i0, i1 int64) (int64, error) {
			if i0 == 0 || i1 == 0 {
				return 0, nil
			}
			i := i0 * i1
			if (i0 == -1 && i1 == math.MinInt64) || (i1 == -1 && i0 == math.MinInt64) ||
				i/i1 != i0 {

				return 0, overflow(sql.MultiplyOp, i0, i1)
			}
			return i, nil
		},
		func(f0, f1 float64) (float64, error) {
			return f0 * f1, nil
		})
}

// Divide truncates integer quotients toward zero.
func (e Evaluated) Divide(r Evaluated) (Evaluated, error) {
	return arithmetic(sql.DivideOp, e, r,
		func(i0, i1 int64) (int64, error) {
			if i1 == 0 {
				return 0, ErrDivisionByZero
			} else if i0 == math.MinInt64 && i1 == -1 {
				return 0, overflow(sql.DivideOp, i0, i1)
			}
			return i0 / i1, nil
		},
		func(f0, f1 float64) (float64, error) {
			if f1 == 0 {
				return 0, ErrDivisionByZero
			}
			return f0 / f1, nil
		})
}

func overflow(op sql.Op, i0, i1 int64) error {
	return fmt.Errorf("%w: %d %s %d", ErrIntegerOverflow, i0, op, i1)
}

func arithmetic(op sql.Op, l, r Evaluated, ifn func(i0, i1 int64) (int64, error),
	ffn func(f0, f1 float64) (float64, error)) (Evaluated, error) {

	lv := l.Value()
	rv := r.Value()
	if lv == nil || rv == nil {
		return Owned(nil), nil
	}

	switch lv := lv.(type) {
	case sql.Int64Value:
		switch rv := rv.(type) {
		case sql.Int64Value:
			i, err := ifn(int64(lv), int64(rv))
			if err != nil {
				return Evaluated{}, err
			}
			return Owned(sql.Int64Value(i)), nil
		case sql.Float64Value:
			return floatResult(ffn(float64(lv), float64(rv)))
		}
	case sql.Float64Value:
		switch rv := rv.(type) {
		case sql.Int64Value:
			return floatResult(ffn(float64(lv), float64(rv)))
		case sql.Float64Value:
			return floatResult(ffn(float64(lv), float64(rv)))
		}
	default:
		return Evaluated{}, &TypeMismatchError{Op: op, Side: "left", Value: lv}
	}
	return Evaluated{}, &TypeMismatchError{Op: op, Side: "right", Value: rv}
}

func floatResult(f float64, err error) (Evaluated, error) {
	if err != nil {
		return Evaluated{}, err
	}
	return Owned(sql.Float64Value(f)), nil
}

// Compare returns -1, 0, or 1 as e is less than, equal to, or greater than r. If either value
// is NULL, the comparison is unknown and null is true.
func (e Evaluated) Compare(r Evaluated) (cmp int, null bool, err error) {
	lv := e.Value()
	rv := r.Value()
	if lv == nil || rv == nil {
		return 0, true, nil
	}

	cmp, err = lv.Compare(rv)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s and %s", ErrIncomparable, sql.Format(lv),
			sql.Format(rv))
	}
	return cmp, false, nil
}
