package sql

type DataType int

const (
	BooleanType DataType = iota + 1
	IntegerType
	FloatType
	TextType
	BytesType
)

func (dt DataType) String() string {
	switch dt {
	case BooleanType:
		return "BOOLEAN"
	case IntegerType:
		return "INTEGER"
	case FloatType:
		return "FLOAT"
	case TextType:
		return "TEXT"
	case BytesType:
		return "BYTES"
	}

	return ""
}
