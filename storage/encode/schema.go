package encode

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cl-kim/gluesql/sql"
)

var (
	ErrCorruptSchema = errors.New("encode: corrupt schema")
)

// Schema fields; each column is a nested message of column fields.
const (
	tableField  = 1
	columnField = 2

	nameField    = 1
	typeField    = 2
	notNullField = 3
)

func EncodeSchema(sch *sql.Schema) []byte {
	buf := protowire.AppendTag(nil, tableField, protowire.BytesType)
	buf = protowire.AppendString(buf, sch.Table.String())

	for _, cd := range sch.Columns {
		col := protowire.AppendTag(nil, nameField, protowire.BytesType)
		col = protowire.AppendString(col, cd.Name.String())
		col = protowire.AppendTag(col, typeField, protowire.VarintType)
		col = protowire.AppendVarint(col, uint64(cd.Type))
		if cd.NotNull {
			col = protowire.AppendTag(col, notNullField, protowire.VarintType)
			col = protowire.AppendVarint(col, protowire.EncodeBool(true))
		}

		buf = protowire.AppendTag(buf, columnField, protowire.BytesType)
		buf = protowire.AppendBytes(buf, col)
	}
	return buf
}

func corruptSchema(n int) error {
	return fmt.Errorf("%w: %s", ErrCorruptSchema, protowire.ParseError(n))
}

func DecodeSchema(buf []byte) (*sql.Schema, error) {
	var sch sql.Schema
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, corruptSchema(n)
		}
		buf = buf[n:]

		switch {
		case num == tableField && typ == protowire.BytesType:
			var b []byte
			b, n = protowire.ConsumeBytes(buf)
			sch.Table = sql.ID(string(b))
		case num == columnField && typ == protowire.BytesType:
			var b []byte
			b, n = protowire.ConsumeBytes(buf)
			if n >= 0 {
				cd, err := decodeColumn(b)
				if err != nil {
					return nil, err
				}
				sch.Columns = append(sch.Columns, cd)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, buf)
		}
		if n < 0 {
			return nil, corruptSchema(n)
		}
		buf = buf[n:]
	}

	if sch.Table == "" {
		return nil, fmt.Errorf("%w: missing table name", ErrCorruptSchema)
	}
	return &sch, nil
}

func decodeColumn(buf []byte) (sql.ColumnDef, error) {
	var cd sql.ColumnDef
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return cd, corruptSchema(n)
		}
		buf = buf[n:]

		switch {
		case num == nameField && typ == protowire.BytesType:
			var b []byte
			b, n = protowire.ConsumeBytes(buf)
			cd.Name = sql.ID(string(b))
		case num == typeField && typ == protowire.VarintType:
			var u uint64
			u, n = protowire.ConsumeVarint(buf)
			cd.Type = sql.DataType(u)
		case num == notNullField && typ == protowire.VarintType:
			var u uint64
			u, n = protowire.ConsumeVarint(buf)
			cd.NotNull = protowire.DecodeBool(u)
		default:
			n = protowire.ConsumeFieldValue(num, typ, buf)
		}
		if n < 0 {
			return cd, corruptSchema(n)
		}
		buf = buf[n:]
	}

	if cd.Name == "" || cd.Type < sql.BooleanType || cd.Type > sql.BytesType {
		return cd, fmt.Errorf("%w: bad column: %s", ErrCorruptSchema, cd.Name)
	}
	return cd, nil
}
