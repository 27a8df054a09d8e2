package evaluate

import (
	"io"

	"github.com/cl-kim/gluesql/sql"
)

// Values is a Rows over rows that are already materialized.
type Values struct {
	Cols  []sql.Identifier
	Rows  []sql.Row
	index int
}

func (v *Values) Columns() []sql.Identifier {
	return v.Cols
}

func (v *Values) Close() error {
	v.index = len(v.Rows)
	return nil
}

func (v *Values) Next() (sql.Row, error) {
	if v.index == len(v.Rows) {
		return nil, io.EOF
	}
	row := v.Rows[v.index]
	v.index += 1
	return row, nil
}
