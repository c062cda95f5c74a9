package machine

import (
	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/ipcode"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// execArith handles ADD, SUB and MUL: both operands must be Int or both
// Float, and the result carries the same kind.
func (e *Engine) execArith(ins *loader.Instruction) error {
	x, err := e.resolve(ins.Args[1], false)
	if err != nil {
		return err
	}
	y, err := e.resolve(ins.Args[2], false)
	if err != nil {
		return err
	}
	if x.Kind() != y.Kind() || (x.Kind() != value.KindInt && x.Kind() != value.KindFloat) {
		return ipperr.New(ipperr.TypeError, "%s requires two int or two float operands, got %s and %s",
			ins.Opcode, x.TypeName(), y.TypeName())
	}

	var result value.Value
	if x.Kind() == value.KindInt {
		a, b := x.IntVal(), y.IntVal()
		switch ins.Op {
		case ipcode.OpAdd:
			result = value.Int(a + b)
		case ipcode.OpSub:
			result = value.Int(a - b)
		case ipcode.OpMul:
			result = value.Int(a * b)
		}
	} else {
		a, b := x.FloatVal(), y.FloatVal()
		switch ins.Op {
		case ipcode.OpAdd:
			result = value.Float(a + b)
		case ipcode.OpSub:
			result = value.Float(a - b)
		case ipcode.OpMul:
			result = value.Float(a * b)
		}
	}
	return e.write(ins.Args[0], result)
}

// execIdiv handles IDIV: integer division truncating toward zero, as Go's
// / operator already does for int64.
func (e *Engine) execIdiv(ins *loader.Instruction) error {
	a, err := e.readIntArg(ins.Args[1])
	if err != nil {
		return err
	}
	b, err := e.readIntArg(ins.Args[2])
	if err != nil {
		return err
	}
	if b == 0 {
		return ipperr.New(ipperr.OperandValue, "IDIV by zero")
	}
	return e.write(ins.Args[0], value.Int(a/b))
}

// execDiv handles DIV: float division.
func (e *Engine) execDiv(ins *loader.Instruction) error {
	a, err := e.readFloatArg(ins.Args[1])
	if err != nil {
		return err
	}
	b, err := e.readFloatArg(ins.Args[2])
	if err != nil {
		return err
	}
	if b == 0 {
		return ipperr.New(ipperr.OperandValue, "DIV by zero")
	}
	return e.write(ins.Args[0], value.Float(a/b))
}
