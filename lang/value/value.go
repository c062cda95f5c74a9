// Package value implements the tagged runtime value representation shared by
// the loader and the execution engine.
package value

import "strconv"

// Kind identifies which variant of Value is populated.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	// KindUndefined marks a declared-but-unassigned variable slot. It is an
	// internal sentinel: opcode handlers must never accept it as an operand
	// value except where the table explicitly allows it (TYPE).
	KindUndefined
)

// TypeName returns the name used by the TYPE opcode and in diagnostics.
// Undefined has no type name, per the TYPE opcode contract.
func (k Kind) TypeName() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return ""
	}
}

// Value is a tagged sum type: Nil, Bool, Int, Float, String or Undefined.
// It is a small value type, safe to copy. It holds a rune slice, so it is
// not comparable with ==; compare values through their typed accessors.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    []rune
}

// Nil is the singleton nil value.
var Nil = Value{kind: KindNil}

// Undefined is the singleton sentinel for a declared-but-unassigned slot.
var Undefined = Value{kind: KindUndefined}

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Int value.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a Float value.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a String value, indexed by code point.
func String(s string) Value { return Value{kind: KindString, s: []rune(s)} }

// StringRunes returns a String value from an already-decoded rune slice. The
// caller must not mutate runes afterwards.
func StringRunes(runes []rune) Value { return Value{kind: KindString, s: runes} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// BoolVal returns the boolean payload; the caller must have checked Kind.
func (v Value) BoolVal() bool { return v.b }

// IntVal returns the integer payload; the caller must have checked Kind.
func (v Value) IntVal() int64 { return v.i }

// FloatVal returns the float payload; the caller must have checked Kind.
func (v Value) FloatVal() float64 { return v.f }

// Runes returns the code points of a String value; the caller must have
// checked Kind. The returned slice must not be mutated.
func (v Value) Runes() []rune { return v.s }

// Text returns the Go string form of a String value; the caller must have
// checked Kind.
func (v Value) Text() string { return string(v.s) }

// TypeName returns the TYPE opcode's name for this value ("" for Undefined).
func (v Value) TypeName() string { return v.kind.TypeName() }

// String renders the value for debugging and error messages. It is distinct
// from the WRITE opcode's formatting rules, which live in the machine
// package.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return string(v.s)
	default:
		return "<undefined>"
	}
}
