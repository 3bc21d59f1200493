package table

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Kind is the kind of a cell value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell. The zero Value is missing, which is distinct from zero and from the
// empty string.
type Value struct {
	kind Kind
	num  float64
	str  string
}

// Missing returns the missing marker.
func Missing() Value {
	return Value{}
}

// Number returns a numeric value. NaN is stored as missing.
func Number(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}

	return Value{kind: KindNumber, num: f}
}

// Text returns a textual value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Float returns the number held by v.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Str returns the text held by v.
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindText
}

// Equal reports whether v and o hold the same value. Two missing values are equal.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindText:
		return v.str == o.str
	default:
		return true
	}
}

// appendKey appends an unambiguous encoding of v, used to compare rows.
func (v Value) appendKey(b []byte) []byte {
	switch v.kind {
	case KindNumber:
		num := v.num
		if num == 0 {
			// -0 and +0 are the same value
			num = 0
		}
		b = append(b, 'n')
		b = strconv.AppendFloat(b, num, 'g', -1, 64)
		b = append(b, ';')
	case KindText:
		b = append(b, 't')
		b = strconv.AppendInt(b, int64(len(v.str)), 10)
		b = append(b, ':')
		b = append(b, v.str...)
	default:
		b = append(b, 'm')
	}

	return b
}

// String formats numbers in their shortest form and returns texts as is. Missing values
// format as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.str
	default:
		return ""
	}
}

// MarshalJSON encodes missing values and non finite numbers as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}

		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.str)
	default:
		return []byte("null"), nil
	}
}

// formatFloat formats f the way a float64 column displays it: integral values keep a
// trailing ".0".
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsInf(f, 0) || strings.Contains(s, ".") {
		return s
	}

	return s + ".0"
}
