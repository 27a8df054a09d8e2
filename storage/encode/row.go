package encode

import (
	"errors"
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/cl-kim/gluesql/sql"
)

var (
	ErrCorruptRow = errors.New("encode: corrupt row")
)

// A row is encoded in the protobuf wire format. Field 1 is the number of columns. Each
// non-NULL value is a field numbered ((column + 1) << 3) | tag, where tag is the type of the
// value.
const (
	lengthField = 1

	boolValueTag    = 1
	int64ValueTag   = 2
	float64ValueTag = 3
	stringValueTag  = 4
	bytesValueTag   = 5
	// Value tags must be less than 8.
)

func valueField(cdx int, tag int) protowire.Number {
	return protowire.Number(((cdx + 1) << 3) | tag)
}

func EncodeRow(row sql.Row) []byte {
	buf := protowire.AppendTag(nil, lengthField, protowire.VarintType)
	buf = protowire.AppendVarint(buf, uint64(len(row)))

	for cdx, val := range row {
		switch val := val.(type) {
		case nil:
		case sql.BoolValue:
			buf = protowire.AppendTag(buf, valueField(cdx, boolValueTag), protowire.VarintType)
			buf = protowire.AppendVarint(buf, protowire.EncodeBool(bool(val)))
		case sql.Int64Value:
			buf = protowire.AppendTag(buf, valueField(cdx, int64ValueTag), protowire.VarintType)
			buf = protowire.AppendVarint(buf, protowire.EncodeZigZag(int64(val)))
		case sql.Float64Value:
			buf = protowire.AppendTag(buf, valueField(cdx, float64ValueTag),
				protowire.Fixed64Type)
			buf = protowire.AppendFixed64(buf, math.Float64bits(float64(val)))
		case sql.StringValue:
			buf = protowire.AppendTag(buf, valueField(cdx, stringValueTag), protowire.BytesType)
			buf = protowire.AppendString(buf, string(val))
		case sql.BytesValue:
			buf = protowire.AppendTag(buf, valueField(cdx, bytesValueTag), protowire.BytesType)
			buf = protowire.AppendBytes(buf, val)
		default:
			panic(fmt.Sprintf("unexpected type for sql.Value: %T: %v", val, val))
		}
	}
	return buf
}

func corruptRow(msg string) error {
	return fmt.Errorf("%w: %s", ErrCorruptRow, msg)
}

// DecodeRow decodes a row encoded by EncodeRow. The returned row does not share memory with
// buf.
func DecodeRow(buf []byte) (sql.Row, error) {
	num, typ, n := protowire.ConsumeTag(buf)
	if n < 0 || num != lengthField || typ != protowire.VarintType {
		return nil, corruptRow("missing length")
	}
	buf = buf[n:]
	u, n := protowire.ConsumeVarint(buf)
	if n < 0 || u > math.MaxInt32 {
		return nil, corruptRow("bad length")
	}
	buf = buf[n:]
	row := make(sql.Row, u)

	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return nil, corruptRow(protowire.ParseError(n).Error())
		}
		buf = buf[n:]

		cdx := int(num>>3) - 1
		if cdx < 0 || cdx >= len(row) {
			return nil, corruptRow(fmt.Sprintf("column %d out of range", cdx))
		}

		var val sql.Value
		switch tag := int(num & 0x7); {
		case tag == boolValueTag && typ == protowire.VarintType:
			u, n = protowire.ConsumeVarint(buf)
			val = sql.BoolValue(protowire.DecodeBool(u))
		case tag == int64ValueTag && typ == protowire.VarintType:
			u, n = protowire.ConsumeVarint(buf)
			val = sql.Int64Value(protowire.DecodeZigZag(u))
		case tag == float64ValueTag && typ == protowire.Fixed64Type:
			var f uint64
			f, n = protowire.ConsumeFixed64(buf)
			val = sql.Float64Value(math.Float64frombits(f))
		case tag == stringValueTag && typ == protowire.BytesType:
			var b []byte
			b, n = protowire.ConsumeBytes(buf)
			val = sql.StringValue(b)
		case tag == bytesValueTag && typ == protowire.BytesType:
			var b []byte
			b, n = protowire.ConsumeBytes(buf)
			val = sql.BytesValue(append([]byte(nil), b...))
		default:
			return nil, corruptRow(fmt.Sprintf("column %d: unexpected tag %d", cdx, tag))
		}
		if n < 0 {
			return nil, corruptRow(protowire.ParseError(n).Error())
		}
		buf = buf[n:]
		row[cdx] = val
	}

	return row, nil
}
