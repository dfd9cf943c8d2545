package schemadex

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"regexp"
	"strconv"
)

// ValueKind identifies what a dumped scalar looked like in the source JSON.
type ValueKind int

// Value kinds.
const (
	ValueAbsent ValueKind = iota
	ValueNumber
	ValueString
	ValueOther
)

// Value is a dumped offset or enumerant value. Dumpers emit offsets as JSON
// numbers, as decimal strings, and occasionally as something else entirely,
// so the original form is kept and only interpreted for display.
type Value struct {
	kind ValueKind
	text string // number literal, unquoted string, or compact JSON
}

// Int returns a numeric Value.
func Int(n int64) Value {
	return Value{kind: ValueNumber, text: strconv.FormatInt(n, 10)}
}

// Text returns a string Value.
func Text(s string) Value {
	return Value{kind: ValueString, text: s}
}

// ValueFromJSON classifies a raw JSON value. Empty input yields an absent Value.
func ValueFromJSON(raw []byte) Value {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{kind: ValueOther, text: string(raw)}
		}
		return Text(s)
	case c == '-' || (c >= '0' && c <= '9'):
		return Value{kind: ValueNumber, text: string(raw)}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return Value{kind: ValueOther, text: string(raw)}
	}
	return Value{kind: ValueOther, text: buf.String()}
}

// Kind returns the kind of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsAbsent reports whether the value was missing from the source.
func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

// String returns the value as it appeared in the source.
func (v Value) String() string { return v.text }

// Hex formats the value for display. See FormatHex.
func (v Value) Hex() string {
	switch v.kind {
	case ValueAbsent:
		return "?"
	case ValueNumber:
		if decimalPattern.MatchString(v.text) {
			return hexDecimal(v.text)
		}
		f, err := strconv.ParseFloat(v.text, 64)
		if err != nil {
			return v.text
		}
		return hexFloat(f)
	case ValueString:
		if decimalPattern.MatchString(v.text) {
			return hexDecimal(v.text)
		}
	}
	return v.text
}

// MarshalJSON writes the value back in its source form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueAbsent:
		return []byte("null"), nil
	case ValueString:
		return json.Marshal(v.text)
	}
	return []byte(v.text), nil
}

// UnmarshalJSON classifies the raw JSON value. A JSON null decodes as an
// absent value, which is how MarshalJSON encodes one.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*v = Value{}
		return nil
	}
	*v = ValueFromJSON(data)
	return nil
}

var decimalPattern = regexp.MustCompile(`^-?\d+$`)

// FormatHex maps a number or a decimal string to uppercase hexadecimal with a
// 0x prefix and no padding (255 and "255" both give "0xFF"). Other values are
// returned in their string form and nil renders as "?".
func FormatHex(v any) string {
	switch x := v.(type) {
	case nil:
		return "?"
	case Value:
		return x.Hex()
	case *Value:
		if x == nil {
			return "?"
		}
		return x.Hex()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("0x%X", x)
	case float32:
		return hexFloat(float64(x))
	case float64:
		return hexFloat(x)
	case json.Number:
		return Value{kind: ValueNumber, text: string(x)}.Hex()
	case string:
		if decimalPattern.MatchString(x) {
			return hexDecimal(x)
		}
		return x
	}
	return fmt.Sprint(v)
}

func hexDecimal(s string) string {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return s
	}
	return fmt.Sprintf("0x%X", n)
}

// hexFloat formats integral floats as hex and anything else as a plain number.
func hexFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("0x%X", int64(f))
}
