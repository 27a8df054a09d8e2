package evaluate

import (
	"io"

	"github.com/cl-kim/gluesql/sql"
)

// AllRows returns all of the rows from a Rows and closes it; it stops at the first error.
func AllRows(rows sql.Rows) ([]sql.Row, error) {
	all := []sql.Row{}
	for {
		row, err := rows.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			rows.Close()
			return nil, err
		}
		all = append(all, row)
	}
	err := rows.Close()
	if err != nil {
		return nil, err
	}
	return all, nil
}
