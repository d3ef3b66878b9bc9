package statvalue

import (
	"math"
	"strconv"
)

// Kind tags the outcome of coercing a raw source value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindInvalid
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInvalid:
		return "invalid"
	default:
		return "missing"
	}
}

// Value is a numeric field that may be absent. The zero value is Missing.
// Invalid values keep their raw text so diagnostics can report it; canonical
// records never hold an Invalid value.
type Value struct {
	kind Kind
	num  float64
	raw  string
}

func Number(v float64) Value {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Value{}
	}
	return Value{kind: KindNumber, num: v}
}

func Missing() Value {
	return Value{}
}

func Invalid(raw string) Value {
	return Value{kind: KindInvalid, raw: raw}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsPresent() bool {
	return v.kind == KindNumber
}

func (v Value) IsInvalid() bool {
	return v.kind == KindInvalid
}

// Float64 returns the number and whether it is present.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Or returns the number or fallback when the value is not present.
func (v Value) Or(fallback float64) float64 {
	if v.kind != KindNumber {
		return fallback
	}
	return v.num
}

// Raw returns the source text of an Invalid value.
func (v Value) Raw() string {
	return v.raw
}

// Ptr converts the value to the nullable pointer form used by sql models.
func (v Value) Ptr() *float64 {
	if v.kind != KindNumber {
		return nil
	}
	n := v.num
	return &n
}

func FromPtr(p *float64) Value {
	if p == nil {
		return Value{}
	}
	return Number(*p)
}

// Clean drops Invalid to Missing.
func (v Value) Clean() Value {
	if v.kind == KindInvalid {
		return Value{}
	}
	return v
}

// Add sums two values. Missing operands make the result Missing.
func (v Value) Add(other Value) Value {
	if v.kind != KindNumber || other.kind != KindNumber {
		return Value{}
	}
	return Number(v.num + other.num)
}

func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindInvalid:
		return v.raw
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.kind != KindNumber {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, v.num, 'f', -1, 64), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == "" {
		*v = Value{}
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*v = Number(f)
	return nil
}
