package sql_test

import (
	"math"
	"testing"

	"github.com/cl-kim/gluesql/sql"
	"github.com/cl-kim/gluesql/testutil"
)

func TestCompare(t *testing.T) {
	cases := []struct {
		v1, v2 sql.Value
		cmp    int
	}{
		{sql.BoolValue(true), sql.BoolValue(true), 0},
		{sql.BoolValue(false), sql.BoolValue(false), 0},
		{sql.BoolValue(false), sql.BoolValue(true), -1},
		{sql.BoolValue(true), sql.BoolValue(false), 1},

		{sql.Float64Value(1.23), sql.Int64Value(123), -1},
		{sql.Float64Value(1.23), sql.Float64Value(2.34), -1},
		{sql.Float64Value(1.23), sql.Float64Value(1.23), 0},
		{sql.Float64Value(1.23), sql.Float64Value(0.12), 1},

		{sql.Int64Value(123), sql.Float64Value(1.23), 1},
		{sql.Int64Value(123), sql.Float64Value(123), 0},
		{sql.Int64Value(123), sql.Int64Value(234), -1},
		{sql.Int64Value(123), sql.Int64Value(123), 0},
		{sql.Int64Value(123), sql.Int64Value(12), 1},
		{sql.Int64Value(1), sql.Float64Value(1.5), -1},
		{sql.Int64Value(-1), sql.Float64Value(-1.5), 1},
		{sql.Int64Value(9007199254740993), sql.Float64Value(9007199254740992), 1},
		{sql.Float64Value(9007199254740992), sql.Int64Value(9007199254740993), -1},
		{sql.Int64Value(math.MaxInt64), sql.Float64Value(math.MaxInt64), -1},
		{sql.Int64Value(math.MinInt64), sql.Float64Value(math.MinInt64), 0},
		{sql.Int64Value(math.MinInt64), sql.Float64Value(-1e19), 1},
		{sql.Float64Value(1e19), sql.Int64Value(math.MaxInt64), 1},

		{sql.StringValue("def"), sql.StringValue("ghi"), -1},
		{sql.StringValue("def"), sql.StringValue("def"), 0},
		{sql.StringValue("def"), sql.StringValue("abc"), 1},

		{sql.BytesValue{1, 2}, sql.BytesValue{1, 2}, 0},
		{sql.BytesValue{1, 2}, sql.BytesValue{1, 3}, -1},
		{sql.BytesValue{1, 2}, sql.BytesValue{1}, 1},
	}

	for _, c := range cases {
		cmp, err := c.v1.Compare(c.v2)
		if err != nil {
			t.Errorf("%v.Compare(%v) failed with %s", c.v1, c.v2, err)
		} else if cmp != c.cmp {
			t.Errorf("%v.Compare(%v) got %d want %d", c.v1, c.v2, cmp, c.cmp)
		}
	}
}

func TestValueCompareMismatch(t *testing.T) {
	cases := []struct {
		v1, v2 sql.Value
	}{
		{sql.BoolValue(true), sql.Int64Value(1)},
		{sql.Int64Value(1), sql.StringValue("1")},
		{sql.Float64Value(1), sql.BoolValue(true)},
		{sql.StringValue("1"), sql.Int64Value(1)},
		{sql.BytesValue{1}, sql.StringValue("1")},
		{sql.Int64Value(1), nil},
	}

	for _, c := range cases {
		_, err := c.v1.Compare(c.v2)
		if err == nil {
			t.Errorf("%v.Compare(%v) did not fail", c.v1, c.v2)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		v sql.Value
		s string
	}{
		{nil, "NULL"},
		{sql.BoolValue(true), "TRUE"},
		{sql.Int64Value(-12), "-12"},
		{sql.Float64Value(1.5), "1.5"},
		{sql.StringValue("it's"), "'it''s'"},
		{sql.BytesValue{0xab, 0x01}, "'\\xab01'"},
	}

	for _, c := range cases {
		if s := sql.Format(c.v); s != c.s {
			t.Errorf("Format(%#v) got %s want %s", c.v, s, c.s)
		}
	}
}

func TestConvertValue(t *testing.T) {
	cases := []struct {
		dt   sql.DataType
		v    sql.Value
		r    sql.Value
		fail bool
	}{
		{dt: sql.IntegerType, v: nil, r: nil},
		{dt: sql.IntegerType, v: sql.Int64Value(5), r: sql.Int64Value(5)},
		{dt: sql.IntegerType, v: sql.Float64Value(5.7), r: sql.Int64Value(5)},
		{dt: sql.IntegerType, v: sql.StringValue(" 42 "), r: sql.Int64Value(42)},
		{dt: sql.IntegerType, v: sql.StringValue("abc"), fail: true},
		{dt: sql.IntegerType, v: sql.BoolValue(true), fail: true},
		{dt: sql.FloatType, v: sql.Int64Value(2), r: sql.Float64Value(2)},
		{dt: sql.FloatType, v: sql.StringValue("2.5"), r: sql.Float64Value(2.5)},
		{dt: sql.BooleanType, v: sql.StringValue("Yes"), r: sql.BoolValue(true)},
		{dt: sql.BooleanType, v: sql.StringValue("off"), r: sql.BoolValue(false)},
		{dt: sql.BooleanType, v: sql.Int64Value(1), fail: true},
		{dt: sql.TextType, v: sql.Int64Value(12), r: sql.StringValue("12")},
		{dt: sql.TextType, v: sql.BytesValue("ab"), r: sql.StringValue("ab")},
		{dt: sql.BytesType, v: sql.StringValue("ab"), r: sql.BytesValue("ab")},
		{dt: sql.BytesType, v: sql.Int64Value(1), fail: true},
	}

	for _, c := range cases {
		r, err := sql.ConvertValue(c.dt, c.v)
		if c.fail {
			if err == nil {
				t.Errorf("ConvertValue(%s, %v) did not fail", c.dt, c.v)
			}
		} else if err != nil {
			t.Errorf("ConvertValue(%s, %v) failed with %s", c.dt, c.v, err)
		} else if !testutil.DeepEqual(r, c.r) {
			t.Errorf("ConvertValue(%s, %v) got %v want %v", c.dt, c.v, r, c.r)
		}
	}
}
