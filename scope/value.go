// scope/value.go
package scope

import "strconv"

type ValueKind int

const (
	ValInt ValueKind = iota
	ValString
)

// Value is a Bare Bones variable value: a signed integer or an opaque
// string. Type is determined by parse, never declared.
type Value struct {
	Kind ValueKind
	Int  int64
	Str  string
}

func IntValue(n int64) Value { return Value{Kind: ValInt, Int: n} }

func StringValue(s string) Value { return Value{Kind: ValString, Str: s} }

// Classify turns raw text into a value: an integer if it parses as one,
// otherwise an opaque string.
func Classify(text string) Value {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return IntValue(n)
	}
	return StringValue(text)
}

// IsInt reports whether the value participates in arithmetic and ordering.
func (v Value) IsInt() bool { return v.Kind == ValInt }

func (v Value) Text() string {
	if v.Kind == ValInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return v.Str
}
