package sql

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	NullString  = "NULL"
	TrueString  = "TRUE"
	FalseString = "FALSE"
)

// Value is a single SQL value; a nil Value is NULL.
type Value interface {
	fmt.Stringer

	// return -1 if v1 < v2
	// return 0 if v1 == v2
	// return 1 if v1 > v2
	Compare(v2 Value) (int, error)
}

type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return TrueString
	}
	return FalseString
}

func (b1 BoolValue) Compare(v2 Value) (int, error) {
	if b2, ok := v2.(BoolValue); ok {
		if b1 == b2 {
			return 0, nil
		} else if b2 {
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("sql: want boolean got %s", Format(v2))
}

type Int64Value int64

func (i Int64Value) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func (i1 Int64Value) Compare(v2 Value) (int, error) {
	switch v2 := v2.(type) {
	case Int64Value:
		if i1 < v2 {
			return -1, nil
		} else if i1 > v2 {
			return 1, nil
		}
		return 0, nil
	case Float64Value:
		return compareIntFloat(int64(i1), float64(v2)), nil
	}
	return 0, fmt.Errorf("sql: want number got %s", Format(v2))
}

// compareIntFloat compares i and f exactly; int64 values beyond 2^53 do not all convert to a
// float64. NaN compares equal to everything, as it does between floats.
func compareIntFloat(i int64, f float64) int {
	if math.IsNaN(f) {
		return 0
	} else if f >= -math.MinInt64 {
		return -1
	} else if f < math.MinInt64 {
		return 1
	}

	t := math.Trunc(f)
	if ti := int64(t); i < ti {
		return -1
	} else if i > ti {
		return 1
	} else if f > t {
		return -1
	} else if f < t {
		return 1
	}
	return 0
}

type Float64Value float64

func (f Float64Value) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 64)
}

func (f1 Float64Value) Compare(v2 Value) (int, error) {
	var f2 Float64Value
	switch v2 := v2.(type) {
	case Int64Value:
		return -compareIntFloat(int64(v2), float64(f1)), nil
	case Float64Value:
		f2 = v2
	default:
		return 0, fmt.Errorf("sql: want number got %s", Format(v2))
	}

	if f1 < f2 {
		return -1, nil
	} else if f1 > f2 {
		return 1, nil
	}
	return 0, nil
}

type StringValue string

func (s StringValue) String() string {
	return "'" + strings.ReplaceAll(string(s), "'", "''") + "'"
}

func (s1 StringValue) Compare(v2 Value) (int, error) {
	if s2, ok := v2.(StringValue); ok {
		return strings.Compare(string(s1), string(s2)), nil
	}
	return 0, fmt.Errorf("sql: want string got %s", Format(v2))
}

type BytesValue []byte

var (
	hexDigits = [16]rune{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9', 'a', 'b', 'c', 'd',
		'e', 'f'}
)

func (b BytesValue) String() string {
	var buf bytes.Buffer
	buf.WriteString("'\\x")
	for _, v := range b {
		buf.WriteRune(hexDigits[v>>4])
		buf.WriteRune(hexDigits[v&0xF])
	}

	buf.WriteRune('\'')
	return buf.String()
}

func (b1 BytesValue) Compare(v2 Value) (int, error) {
	if b2, ok := v2.(BytesValue); ok {
		return bytes.Compare([]byte(b1), []byte(b2)), nil
	}
	return 0, fmt.Errorf("sql: want bytes got %s", Format(v2))
}

func Format(v Value) string {
	if v == nil {
		return NullString
	}

	return v.String()
}

// ConvertValue converts v to the data type dt; NULL converts to NULL.
func ConvertValue(dt DataType, v Value) (Value, error) {
	if v == nil {
		return nil, nil
	}

	switch dt {
	case BooleanType:
		if sv, ok := v.(StringValue); ok {
			s := strings.ToLower(strings.Trim(string(sv), " \t\n"))
			if s == "t" || s == "true" || s == "y" || s == "yes" || s == "on" || s == "1" {
				return BoolValue(true), nil
			} else if s == "f" || s == "false" || s == "n" || s == "no" || s == "off" || s == "0" {
				return BoolValue(false), nil
			}
			return nil, fmt.Errorf("sql: expected a boolean value: %v", v)
		} else if _, ok := v.(BoolValue); !ok {
			return nil, fmt.Errorf("sql: expected a boolean value: %v", v)
		}
	case TextType:
		if i, ok := v.(Int64Value); ok {
			return StringValue(strconv.FormatInt(int64(i), 10)), nil
		} else if f, ok := v.(Float64Value); ok {
			return StringValue(strconv.FormatFloat(float64(f), 'g', -1, 64)), nil
		} else if b, ok := v.(BytesValue); ok {
			if !utf8.Valid([]byte(b)) {
				return nil, fmt.Errorf("sql: expected a valid utf8 string: %v", v)
			}
			return StringValue(b), nil
		} else if _, ok := v.(StringValue); !ok {
			return nil, fmt.Errorf("sql: expected a string value: %v", v)
		}
	case BytesType:
		if s, ok := v.(StringValue); ok {
			return BytesValue(s), nil
		} else if _, ok := v.(BytesValue); !ok {
			return nil, fmt.Errorf("sql: expected a bytes value: %v", v)
		}
	case FloatType:
		if i, ok := v.(Int64Value); ok {
			return Float64Value(i), nil
		} else if s, ok := v.(StringValue); ok {
			f, err := strconv.ParseFloat(strings.Trim(string(s), " \t\n"), 64)
			if err != nil {
				return nil, fmt.Errorf("sql: expected a float: %v: %s", v, err)
			}
			return Float64Value(f), nil
		} else if _, ok := v.(Float64Value); !ok {
			return nil, fmt.Errorf("sql: expected a float value: %v", v)
		}
	case IntegerType:
		if f, ok := v.(Float64Value); ok {
			return Int64Value(f), nil
		} else if s, ok := v.(StringValue); ok {
			i, err := strconv.ParseInt(strings.Trim(string(s), " \t\n"), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("sql: expected an integer: %v: %s", v, err)
			}
			return Int64Value(i), nil
		} else if _, ok := v.(Int64Value); !ok {
			return nil, fmt.Errorf("sql: expected an integer value: %v", v)
		}
	default:
		panic(fmt.Sprintf("expected a valid data type; got %v", dt))
	}

	return v, nil
}
