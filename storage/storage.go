package storage

import (
	"encoding/hex"
	"errors"

	"github.com/cl-kim/gluesql/sql"
)

var (
	ErrTableNotFound = errors.New("storage: table not found")
)

// Key uniquely identifies a row within a table; its contents are defined by the store.
type Key []byte

func (k Key) String() string {
	return hex.EncodeToString(k)
}

// Scan is a lazy, single pass sequence of the rows of a table. Next returns io.EOF after the
// last row. Any other error belongs to that position only: the scan may be continued with
// another call to Next.
type Scan interface {
	Next() (Key, sql.Row, error)
	Close() error
}

type Store interface {
	// FetchSchema returns an error wrapping ErrTableNotFound if the table does not exist.
	FetchSchema(tblname sql.Identifier) (*sql.Schema, error)
	ScanData(tblname sql.Identifier) (Scan, error)
}

type KeyRow struct {
	Key Key
	Row sql.Row
}

type StoreMut interface {
	Store

	InsertSchema(sch *sql.Schema) error
	// DeleteSchema removes the table and all of its rows.
	DeleteSchema(tblname sql.Identifier) error
	// InsertData adds rows to the table, generating a new key for each row.
	InsertData(tblname sql.Identifier, rows []sql.Row) error
	// UpdateData replaces the rows with the specified keys.
	UpdateData(tblname sql.Identifier, rows []KeyRow) error
	DeleteData(tblname sql.Identifier, keys []Key) error
}
