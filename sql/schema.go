package sql

import (
	"fmt"
	"strings"
)

type ColumnDef struct {
	Name    Identifier
	Type    DataType
	NotNull bool
}

func (cd ColumnDef) String() string {
	s := fmt.Sprintf("%s %s", cd.Name, cd.Type)
	if cd.NotNull {
		s += " NOT NULL"
	}
	return s
}

// Schema is the ordered column definitions of a table.
type Schema struct {
	Table   Identifier
	Columns []ColumnDef
}

func (sch *Schema) String() string {
	cols := make([]string, len(sch.Columns))
	for cdx, cd := range sch.Columns {
		cols[cdx] = cd.String()
	}
	return fmt.Sprintf("%s (%s)", sch.Table, strings.Join(cols, ", "))
}

func (sch *Schema) ColumnNames() []Identifier {
	cols := make([]Identifier, len(sch.Columns))
	for cdx, cd := range sch.Columns {
		cols[cdx] = cd.Name
	}
	return cols
}

func (sch *Schema) ColumnIndex(nam Identifier) (int, bool) {
	for cdx, cd := range sch.Columns {
		if cd.Name == nam {
			return cdx, true
		}
	}
	return -1, false
}
