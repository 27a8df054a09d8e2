package evaluate

import (
	"errors"
	"fmt"

	"github.com/cl-kim/gluesql/sql"
)

var (
	ErrUnimplemented                 = errors.New("evaluate: unimplemented")
	ErrUnsupportedCompoundIdentifier = errors.New("evaluate: unsupported compound identifier")
	ErrNestedSelectRowNotFound       = errors.New("evaluate: nested select row not found")
	ErrNestedSelectEmptyRow          = errors.New("evaluate: nested select row has no columns")
	ErrColumnNotFound                = errors.New("evaluate: column not found")
	ErrTypeMismatch                  = errors.New("evaluate: type mismatch")
	ErrDivisionByZero                = errors.New("evaluate: division by zero")
	ErrIntegerOverflow               = errors.New("evaluate: integer overflow")
	ErrIncomparable                  = errors.New("evaluate: incomparable values")
)

func unimplemented(e sql.Expr) error {
	return fmt.Errorf("%w: %s", ErrUnimplemented, e)
}

type UnsupportedCompoundIdentifierError struct {
	Expr string
}

func (e *UnsupportedCompoundIdentifierError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsupportedCompoundIdentifier, e.Expr)
}

func (e *UnsupportedCompoundIdentifierError) Is(target error) bool {
	return target == ErrUnsupportedCompoundIdentifier
}

// ColumnNotFoundError is returned by Context implementations when a column reference can not
// be resolved in any scope.
type ColumnNotFoundError struct {
	Alias  sql.Identifier
	Column sql.Identifier
}

func (e *ColumnNotFoundError) Error() string {
	if e.Alias == "" {
		return fmt.Sprintf("%s: %s", ErrColumnNotFound, e.Column)
	}
	return fmt.Sprintf("%s: %s.%s", ErrColumnNotFound, e.Alias, e.Column)
}

func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

type TypeMismatchError struct {
	Op    sql.Op
	Side  string
	Value sql.Value
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: %s operand of %s: want number got %s", ErrTypeMismatch, e.Side,
		e.Op, sql.Format(e.Value))
}

func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
