package table

import (
	"strconv"
)

// ColumnType is the declared type of a column. Numbers of an Int column are integral.
type ColumnType uint8

const (
	Object ColumnType = iota
	Int
	Float
)

// String returns the dtype name shown to users.
func (c ColumnType) String() string {
	switch c {
	case Int:
		return "int64"
	case Float:
		return "float64"
	default:
		return "object"
	}
}

// IsNumeric reports whether the column is declared as integer or floating-point.
func (c ColumnType) IsNumeric() bool {
	return c == Int || c == Float
}

func (c ColumnType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Column is a named sequence of values.
type Column struct {
	Name   string
	Type   ColumnType
	Values []Value
}

// NewColumn creates a column of the given type.
func NewColumn(name string, typ ColumnType, values ...Value) *Column {
	return &Column{Name: name, Type: typ, Values: values}
}

// Len returns the number of rows of the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Missing returns the number of missing values of the column.
func (c *Column) Missing() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}

	return n
}

// Numbers returns the numbers held by the column, skipping every other value.
func (c *Column) Numbers() []float64 {
	nums := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.Float(); ok {
			nums = append(nums, f)
		}
	}

	return nums
}

// Format formats the i-th value according to the column type. Missing values format as the
// empty string.
func (c *Column) Format(i int) string {
	v := c.Values[i]
	f, ok := v.Float()
	if !ok {
		return v.String()
	}
	switch c.Type {
	case Int:
		return strconv.FormatFloat(f, 'f', 0, 64)
	case Float:
		return formatFloat(f)
	default:
		return v.String()
	}
}

func (c *Column) clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)

	return &Column{Name: c.Name, Type: c.Type, Values: values}
}
