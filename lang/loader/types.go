package loader

import (
	"github.com/mna/ippvm/lang/ipcode"
	"github.com/mna/ippvm/lang/value"
)

// FrameKind identifies which of the three frames a variable reference names.
type FrameKind int

const (
	FrameGlobal FrameKind = iota
	FrameLocal
	FrameTemp
)

func (f FrameKind) String() string {
	switch f {
	case FrameGlobal:
		return "GF"
	case FrameLocal:
		return "LF"
	case FrameTemp:
		return "TF"
	default:
		return "?F"
	}
}

// OperandKind identifies what an Operand decoded to.
type OperandKind int

const (
	OperandVar OperandKind = iota
	OperandLiteral
	OperandLabel
	OperandType
)

// VarRef is a (frame, name) pair naming a variable slot.
type VarRef struct {
	Frame FrameKind
	Name  string
}

// Operand is the decoded, statically-typed form of one instruction argument:
// a variable reference, a literal value, a label name, or a type tag.
type Operand struct {
	Kind    OperandKind
	Var     VarRef
	Literal value.Value
	Text    string // label name (OperandLabel) or type tag (OperandType)
}

// Instruction is one decoded, verified instruction ready for execution.
type Instruction struct {
	Order     int
	Opcode    string
	Op        ipcode.Op
	Args      []Operand
	ExecCount int
}

// Program is the loader's output: an ordered instruction list and the label
// index built while scanning it.
type Program struct {
	Instructions []Instruction
	Labels       map[string]int
}
