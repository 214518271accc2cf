package query

import (
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindNumber
	KindSet
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindSet:
		return "set"
	default:
		return "string"
	}
}

// Value is a typed filter value coerced from a raw query string.
// Set members are never sets themselves.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	String string
	Set    []Value
}

func Bool(b bool) Value          { return Value{Kind: KindBool, Bool: b} }
func Number(n float64) Value     { return Value{Kind: KindNumber, Number: n} }
func String(s string) Value      { return Value{Kind: KindString, String: s} }
func Set(members ...Value) Value { return Value{Kind: KindSet, Set: members} }

// Any returns the Go value for scalar kinds and a []any for sets.
func (v Value) Any() any {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number
	case KindSet:
		out := make([]any, len(v.Set))
		for i, m := range v.Set {
			out[i] = m.Any()
		}
		return out
	default:
		return v.String
	}
}

// ParseValue turns a raw parameter into a Value. The comma check runs before
// any scalar coercion, so "1,2" is a set of two numbers and never a string.
func ParseValue(raw string) Value {
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		members := make([]Value, 0, len(parts))
		for _, p := range parts {
			members = append(members, Coerce(strings.TrimSpace(p)))
		}
		return Set(members...)
	}
	return Coerce(raw)
}

// Coerce converts a scalar string: "true"/"false" become booleans, strings that
// parse fully as a number become numbers, anything else stays a string.
func Coerce(raw string) Value {
	switch raw {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, ok := parseNumber(raw); ok {
		return Number(n)
	}
	return String(raw)
}

func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
