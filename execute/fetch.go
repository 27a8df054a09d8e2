package execute

import (
	log "github.com/sirupsen/logrus"

	"github.com/cl-kim/gluesql/filter"
	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/storage"
)

// FetchColumns returns the column names of the table in order.
func FetchColumns(st storage.Store, tblname sql.Identifier) ([]sql.Identifier, error) {
	sch, err := st.FetchSchema(tblname)
	if err != nil {
		return nil, err
	}
	return sch.ColumnNames(), nil
}

type FetchedRow struct {
	Columns []sql.Identifier
	Key     storage.Key
	Row     sql.Row
}

// FetchRows is the lazy sequence of the rows of a table which pass a filter. Next returns
// io.EOF at the end. Any other error, from the scan or from checking the filter, belongs to
// that row only; calling Next again continues with the following row.
type FetchRows struct {
	tbl     sql.TableAlias
	columns []sql.Identifier
	scan    storage.Scan
	filter  *filter.Filter
}

// Fetch scans the table tbl; columns are the names of its columns, and f, which may be nil,
// selects the rows to return. Filter conditions refer to the table by its alias.
func Fetch(st storage.Store, tbl sql.TableAlias, columns []sql.Identifier,
	f *filter.Filter) (*FetchRows, error) {

	scan, err := st.ScanData(tbl.Name)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"table": tbl.Name,
		"alias": tbl.Label(),
	}).Debug("fetch")
	return &FetchRows{
		tbl:     tbl,
		columns: columns,
		scan:    scan,
		filter:  f,
	}, nil
}

func (fr *FetchRows) Next() (FetchedRow, error) {
	for {
		key, row, err := fr.scan.Next()
		if err != nil {
			return FetchedRow{}, err
		}

		ok, err := fr.filter.Check(fr.tbl.Label(), fr.columns, row)
		if err != nil {
			return FetchedRow{}, err
		} else if ok {
			return FetchedRow{
				Columns: fr.columns,
				Key:     key,
				Row:     row,
			}, nil
		}
	}
}

func (fr *FetchRows) Close() error {
	return fr.scan.Close()
}
