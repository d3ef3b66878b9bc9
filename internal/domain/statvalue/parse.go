package statvalue

import (
	"strings"

	"github.com/shopspring/decimal"
)

var missingTokens = map[string]struct{}{
	"":     {},
	"?":    {},
	"-":    {},
	"na":   {},
	"n/a":  {},
	"nan":  {},
	"null": {},
	"none": {},
}

var numberStripper = strings.NewReplacer("$", "", ",", "", "+", "", "%", "", " ", "", "\u00a0", "")

// Parse coerces a raw text cell into a Value. Currency and percentage
// decorations are removed and a leading minus keeps the sign.
func Parse(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if IsMissingToken(trimmed) {
		return Missing()
	}

	cleaned := numberStripper.Replace(trimmed)
	if cleaned == "" || cleaned == "-" {
		return Missing()
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Invalid(trimmed)
	}
	f, _ := d.Float64()
	return Number(f)
}

// IsMissingToken reports whether s is one of the tokens sources use for "no value".
func IsMissingToken(s string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Flag is a tri-state boolean.
type Flag uint8

const (
	FlagUnknown Flag = iota
	FlagTrue
	FlagFalse
)

func (f Flag) Known() bool {
	return f != FlagUnknown
}

func (f Flag) Bool() (bool, bool) {
	switch f {
	case FlagTrue:
		return true, true
	case FlagFalse:
		return false, true
	default:
		return false, false
	}
}

func (f Flag) String() string {
	switch f {
	case FlagTrue:
		return "true"
	case FlagFalse:
		return "false"
	default:
		return ""
	}
}

func (f Flag) MarshalJSON() ([]byte, error) {
	switch f {
	case FlagTrue:
		return []byte("true"), nil
	case FlagFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// ParseFlag maps textual booleans to a Flag. The second result is false when
// the text is not blank but cannot be read as a boolean.
func ParseFlag(raw string) (Flag, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "t", "yes", "y", "1":
		return FlagTrue, true
	case "false", "f", "no", "n", "0":
		return FlagFalse, true
	case "", "null", "none", "na", "n/a", "nan":
		return FlagUnknown, true
	default:
		return FlagUnknown, false
	}
}

func FlagFromPtr(p *bool) Flag {
	if p == nil {
		return FlagUnknown
	}
	if *p {
		return FlagTrue
	}
	return FlagFalse
}

func (f Flag) Ptr() *bool {
	b, ok := f.Bool()
	if !ok {
		return nil
	}
	return &b
}
