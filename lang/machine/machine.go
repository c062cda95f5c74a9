// Package machine implements the execution engine that runs a loaded
// IPPcode21 Program: the frame/memory model, the call and data stacks, and
// the dispatch of each opcode with its operand typing rules.
package machine

import (
	"bufio"
	"io"

	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/ipcode"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// Engine is the aggregate owning all runtime state: memory, stacks, program
// counter and return code. It is passed explicitly (via its methods) to
// every opcode handler rather than relying on package-level mutable state.
type Engine struct {
	program *loader.Program
	memory  *Memory

	pc         int
	callStack  []int
	dataStack  []value.Value
	returnCode int

	stats *Stats

	stdin  *bufio.Reader
	stdout *bufio.Writer
	stderr io.Writer

	// DebugPrint gates DPRINT/BREAK diagnostic emission to stderr. Neither
	// opcode affects the instruction or hot-instruction statistics regardless
	// of this flag.
	DebugPrint bool
}

// NewEngine creates an Engine ready to run prog.
func NewEngine(prog *loader.Program, stdin io.Reader, stdout, stderr io.Writer) *Engine {
	return &Engine{
		program:    prog,
		memory:     newMemory(),
		stats:      &Stats{},
		stdin:      bufio.NewReader(stdin),
		stdout:     bufio.NewWriter(stdout),
		stderr:     stderr,
		DebugPrint: true,
	}
}

// ReturnCode is the value set by EXIT, or 0 if the program ran to
// completion without one.
func (e *Engine) ReturnCode() int { return e.returnCode }

// Stats returns the statistics accumulated during Run.
func (e *Engine) Stats() *Stats { return e.stats }

// Run executes the loaded program until the program counter runs out of
// instructions (naturally, or because EXIT moved it past the end).
func (e *Engine) Run() error {
	defer e.stdout.Flush()

	instrs := e.program.Instructions
	for e.pc < len(instrs) {
		e.stats.Sample(e.memory)

		ins := &instrs[e.pc]
		if err := e.dispatch(ins); err != nil {
			return err
		}
		if !ipcode.NoStats[ins.Op] {
			ins.ExecCount++
			e.stats.RecordExec(ins)
		}
		e.pc++
	}
	return nil
}

func (e *Engine) dispatch(ins *loader.Instruction) error {
	switch ins.Op {
	case ipcode.OpMove:
		v, err := e.resolve(ins.Args[1], false)
		if err != nil {
			return err
		}
		return e.write(ins.Args[0], v)

	case ipcode.OpCreateFrame:
		e.memory.CreateFrame()
		return nil

	case ipcode.OpPushFrame:
		return e.memory.PushFrame()

	case ipcode.OpPopFrame:
		return e.memory.PopFrame()

	case ipcode.OpDefVar:
		return e.memory.DefVar(ins.Args[0].Var)

	case ipcode.OpCall:
		idx, err := e.labelIndex(ins)
		if err != nil {
			return err
		}
		e.callStack = append(e.callStack, e.pc)
		e.pc = idx
		return nil

	case ipcode.OpReturn:
		if len(e.callStack) == 0 {
			return ipperr.New(ipperr.ValueMissing, "RETURN with empty call stack")
		}
		n := len(e.callStack) - 1
		e.pc = e.callStack[n]
		e.callStack = e.callStack[:n]
		return nil

	case ipcode.OpPushs:
		v, err := e.resolve(ins.Args[0], false)
		if err != nil {
			return err
		}
		e.dataStack = append(e.dataStack, v)
		return nil

	case ipcode.OpPops:
		if len(e.dataStack) == 0 {
			return ipperr.New(ipperr.ValueMissing, "POPS with empty data stack")
		}
		n := len(e.dataStack) - 1
		v := e.dataStack[n]
		e.dataStack = e.dataStack[:n]
		return e.write(ins.Args[0], v)

	case ipcode.OpAdd, ipcode.OpSub, ipcode.OpMul:
		return e.execArith(ins)

	case ipcode.OpIdiv:
		return e.execIdiv(ins)

	case ipcode.OpDiv:
		return e.execDiv(ins)

	case ipcode.OpLt, ipcode.OpGt:
		return e.execOrder(ins)

	case ipcode.OpEq:
		return e.execEq(ins)

	case ipcode.OpAnd, ipcode.OpOr:
		return e.execBoolBinary(ins)

	case ipcode.OpNot:
		return e.execNot(ins)

	case ipcode.OpInt2Char:
		return e.execInt2Char(ins)

	case ipcode.OpStri2Int:
		return e.execStri2Int(ins)

	case ipcode.OpInt2Float:
		return e.execInt2Float(ins)

	case ipcode.OpFloat2Int:
		return e.execFloat2Int(ins)

	case ipcode.OpRead:
		return e.execRead(ins)

	case ipcode.OpWrite:
		return e.execWrite(ins)

	case ipcode.OpConcat:
		return e.execConcat(ins)

	case ipcode.OpStrlen:
		return e.execStrlen(ins)

	case ipcode.OpGetChar:
		return e.execGetChar(ins)

	case ipcode.OpSetChar:
		return e.execSetChar(ins)

	case ipcode.OpType:
		return e.execType(ins)

	case ipcode.OpLabel:
		return nil

	case ipcode.OpJump:
		idx, err := e.labelIndex(ins)
		if err != nil {
			return err
		}
		e.pc = idx
		return nil

	case ipcode.OpJumpIfEq, ipcode.OpJumpIfNeq:
		return e.execCondJump(ins)

	case ipcode.OpExit:
		return e.execExit(ins)

	case ipcode.OpDprint:
		return e.execDprint(ins)

	case ipcode.OpBreak:
		return e.execBreak(ins)

	default:
		return ipperr.New(ipperr.Structure, "unimplemented opcode %s", ins.Opcode)
	}
}

// labelIndex resolves the label argument of a CALL/JUMP-family instruction.
// The loader already verified every such target exists, so failure here
// would indicate an internal inconsistency rather than a user error.
func (e *Engine) labelIndex(ins *loader.Instruction) (int, error) {
	name := ins.Args[0].Text
	idx, ok := e.program.Labels[name]
	if !ok {
		return 0, ipperr.New(ipperr.Semantic, "%s targets undefined label %q", ins.Opcode, name)
	}
	return idx, nil
}

// resolve reads an operand's runtime value: a literal unchanged, or a
// variable reference through memory. This is the operand resolver described
// in the design: it uniformly turns a static Operand into a Value.
func (e *Engine) resolve(op loader.Operand, allowUndefined bool) (value.Value, error) {
	switch op.Kind {
	case loader.OperandLiteral:
		return op.Literal, nil
	case loader.OperandVar:
		return e.memory.ReadVar(op.Var, allowUndefined)
	default:
		return value.Value{}, ipperr.New(ipperr.TypeError, "operand does not denote a value")
	}
}

// write stores v into a variable operand.
func (e *Engine) write(op loader.Operand, v value.Value) error {
	if op.Kind != loader.OperandVar {
		return ipperr.New(ipperr.TypeError, "destination operand is not a variable")
	}
	return e.memory.WriteVar(op.Var, v)
}

func (e *Engine) readIntArg(op loader.Operand) (int64, error) {
	v, err := e.resolve(op, false)
	if err != nil {
		return 0, err
	}
	if v.Kind() != value.KindInt {
		return 0, ipperr.New(ipperr.TypeError, "expected int operand, got %s", v.TypeName())
	}
	return v.IntVal(), nil
}

func (e *Engine) readFloatArg(op loader.Operand) (float64, error) {
	v, err := e.resolve(op, false)
	if err != nil {
		return 0, err
	}
	if v.Kind() != value.KindFloat {
		return 0, ipperr.New(ipperr.TypeError, "expected float operand, got %s", v.TypeName())
	}
	return v.FloatVal(), nil
}

func (e *Engine) readBoolArg(op loader.Operand) (bool, error) {
	v, err := e.resolve(op, false)
	if err != nil {
		return false, err
	}
	if v.Kind() != value.KindBool {
		return false, ipperr.New(ipperr.TypeError, "expected bool operand, got %s", v.TypeName())
	}
	return v.BoolVal(), nil
}

func (e *Engine) readStringArg(op loader.Operand) ([]rune, error) {
	v, err := e.resolve(op, false)
	if err != nil {
		return nil, err
	}
	if v.Kind() != value.KindString {
		return nil, ipperr.New(ipperr.TypeError, "expected string operand, got %s", v.TypeName())
	}
	return v.Runes(), nil
}
