package sql

// Row is the ordered column values of one row.
type Row []Value

// Rows is a lazy, single pass sequence of rows. Next returns io.EOF when there are no more
// rows; any other error belongs to that position only, and Next may be called again to
// continue with the following row.
type Rows interface {
	Columns() []Identifier
	Next() (Row, error)
	Close() error
}
