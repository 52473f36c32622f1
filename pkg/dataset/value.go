package dataset

import (
	"math"
	"strconv"
	"strings"
)

// ValueKind tells which variant a Value holds.
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindNumber
	KindText
)

func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	default:
		return "missing"
	}
}

// Value is a single cell. The zero Value is Missing.
type Value struct {
	kind ValueKind
	num  float64
	text string
}

// Missing returns the missing value.
func Missing() Value { return Value{} }

// Number returns a numeric value. NaN and infinities are stored as Missing.
func Number(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: f}
}

// Text returns a textual value. The empty string is Missing.
func Text(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: KindText, text: s}
}

// Parse converts a raw cell into a Value. Surrounding whitespace is
// ignored for the emptiness and number checks but kept in Text values.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Value{}
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}
	return Text(raw)
}

// Kind returns the variant held by v.
func (v Value) Kind() ValueKind { return v.kind }

// IsMissing reports whether v is Missing.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the numeric payload. ok is false unless v is a Number.
func (v Value) Float() (f float64, ok bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// String renders v as it would appear as a category label. Numbers use the
// shortest representation that round-trips; Missing renders as "".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.num == o.num && v.text == o.text
}
