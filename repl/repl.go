package repl

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/cl-kim/gluesql/execute"
	"github.com/cl-kim/gluesql/parser"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

// Run parses and executes each statement of script in order, writing results to w. Errors
// are written to w and execution continues with the next statement.
func Run(st storage.StoreMut, script string, w io.Writer) {
	for _, text := range parser.Split(script) {
		stmt, err := parser.Parse(text)
		if err != nil {
			fmt.Fprintln(w, err)
			continue
		}

		err = RunStmt(st, stmt, w)
		if err != nil {
			fmt.Fprintln(w, err)
		}
	}
}

// RunStmt executes one statement and writes its result to w.
func RunStmt(st storage.StoreMut, stmt sql.Stmt, w io.Writer) error {
	pl, err := execute.Execute(st, stmt)
	if err != nil {
		return err
	}

	switch pl.Kind {
	case execute.CreatePayload:
		fmt.Fprintln(w, "table created")
	case execute.DropTablePayload:
		fmt.Fprintln(w, "table dropped")
	case execute.InsertPayload, execute.UpdatePayload, execute.DeletePayload:
		fmt.Fprintf(w, "%d rows updated\n", pl.RowsAffected)
	case execute.SelectPayload:
		writeRows(w, pl.Columns, pl.Rows)
	default:
		panic(fmt.Sprintf("unexpected payload kind: %s", pl.Kind))
	}
	return nil
}

func writeRows(w io.Writer, cols []sql.Identifier, rows []sql.Row) {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)

	hdr := make([]string, len(cols))
	for cdx, col := range cols {
		hdr[cdx] = col.String()
	}
	tw.SetHeader(hdr)

	for _, row := range rows {
		line := make([]string, len(row))
		for cdx, v := range row {
			if s, ok := v.(sql.StringValue); ok {
				line[cdx] = string(s)
			} else {
				line[cdx] = sql.Format(v)
			}
		}
		tw.Append(line)
	}
	tw.Render()
	fmt.Fprintf(w, "(%d rows)\n", len(rows))
}
