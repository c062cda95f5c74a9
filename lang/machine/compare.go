package machine

import (
	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/ipcode"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// execOrder handles LT and GT: operands must share a type that supports
// ordering (int, float, bool, string); false orders before true.
func (e *Engine) execOrder(ins *loader.Instruction) error {
	x, err := e.resolve(ins.Args[1], false)
	if err != nil {
		return err
	}
	y, err := e.resolve(ins.Args[2], false)
	if err != nil {
		return err
	}
	c, err := compareOrdered(x, y)
	if err != nil {
		return err
	}
	var result bool
	if ins.Op == ipcode.OpLt {
		result = c < 0
	} else {
		result = c > 0
	}
	return e.write(ins.Args[0], value.Bool(result))
}

func compareOrdered(x, y value.Value) (int, error) {
	if x.Kind() != y.Kind() {
		return 0, ipperr.New(ipperr.TypeError, "cannot order %s against %s", x.TypeName(), y.TypeName())
	}
	switch x.Kind() {
	case value.KindInt:
		return cmpInt(x.IntVal(), y.IntVal()), nil
	case value.KindFloat:
		return cmpFloat(x.FloatVal(), y.FloatVal()), nil
	case value.KindBool:
		return cmpBool(x.BoolVal(), y.BoolVal()), nil
	case value.KindString:
		return cmpRunes(x.Runes(), y.Runes()), nil
	default:
		return 0, ipperr.New(ipperr.TypeError, "type %s does not support ordering", x.TypeName())
	}
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// cmpBool orders false before true.
func cmpBool(a, b bool) int {
	if a == b {
		return 0
	}
	if !a {
		return -1
	}
	return 1
}

func cmpRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return cmpInt(int64(len(a)), int64(len(b)))
}

// execEq handles EQ: operands must share a type, or at least one must be
// Nil (Nil equals only Nil).
func (e *Engine) execEq(ins *loader.Instruction) error {
	x, err := e.resolve(ins.Args[1], false)
	if err != nil {
		return err
	}
	y, err := e.resolve(ins.Args[2], false)
	if err != nil {
		return err
	}
	eq, err := valuesEqual(x, y)
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.Bool(eq))
}

func valuesEqual(x, y value.Value) (bool, error) {
	if x.Kind() == value.KindNil || y.Kind() == value.KindNil {
		return x.Kind() == value.KindNil && y.Kind() == value.KindNil, nil
	}
	if x.Kind() != y.Kind() {
		return false, ipperr.New(ipperr.TypeError, "cannot compare %s to %s for equality", x.TypeName(), y.TypeName())
	}
	switch x.Kind() {
	case value.KindInt:
		return x.IntVal() == y.IntVal(), nil
	case value.KindFloat:
		return x.FloatVal() == y.FloatVal(), nil
	case value.KindBool:
		return x.BoolVal() == y.BoolVal(), nil
	case value.KindString:
		return string(x.Runes()) == string(y.Runes()), nil
	default:
		return false, ipperr.New(ipperr.TypeError, "type %s does not support equality", x.TypeName())
	}
}

// execCondJump handles JUMPIFEQ and JUMPIFNEQ, sharing EQ's comparison
// rules.
func (e *Engine) execCondJump(ins *loader.Instruction) error {
	x, err := e.resolve(ins.Args[1], false)
	if err != nil {
		return err
	}
	y, err := e.resolve(ins.Args[2], false)
	if err != nil {
		return err
	}
	eq, err := valuesEqual(x, y)
	if err != nil {
		return err
	}
	take := eq
	if ins.Op == ipcode.OpJumpIfNeq {
		take = !eq
	}
	if !take {
		return nil
	}
	idx, err := e.labelIndex(ins)
	if err != nil {
		return err
	}
	e.pc = idx
	return nil
}

// execBoolBinary handles AND and OR.
func (e *Engine) execBoolBinary(ins *loader.Instruction) error {
	x, err := e.readBoolArg(ins.Args[1])
	if err != nil {
		return err
	}
	y, err := e.readBoolArg(ins.Args[2])
	if err != nil {
		return err
	}
	var r bool
	if ins.Op == ipcode.OpAnd {
		r = x && y
	} else {
		r = x || y
	}
	return e.write(ins.Args[0], value.Bool(r))
}

// execNot handles NOT.
func (e *Engine) execNot(ins *loader.Instruction) error {
	x, err := e.readBoolArg(ins.Args[1])
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.Bool(!x))
}
