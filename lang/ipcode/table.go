// Package ipcode defines the IPPcode21 instruction set: opcode identifiers,
// their argument arity and argument roles. The loader uses this table to
// verify instruction shape; the engine uses the Op constants to dispatch.
package ipcode

// Role identifies what kind of operand a given argument slot accepts.
type Role int

const (
	RoleVar   Role = iota // variable reference only
	RoleSymb              // variable reference or literal
	RoleLabel             // label name
	RoleType              // type tag (int/string/bool/float)
)

// Op is the decoded, dispatchable form of an opcode name.
type Op int

const (
	OpMove Op = iota
	OpCreateFrame
	OpPushFrame
	OpPopFrame
	OpDefVar
	OpCall
	OpReturn
	OpPushs
	OpPops
	OpAdd
	OpSub
	OpMul
	OpIdiv
	OpDiv
	OpLt
	OpGt
	OpEq
	OpAnd
	OpOr
	OpNot
	OpInt2Char
	OpStri2Int
	OpInt2Float
	OpFloat2Int
	OpRead
	OpWrite
	OpConcat
	OpStrlen
	OpGetChar
	OpSetChar
	OpType
	OpLabel
	OpJump
	OpJumpIfEq
	OpJumpIfNeq
	OpExit
	OpDprint
	OpBreak
)

// Spec describes one opcode's arity and per-slot operand roles.
type Spec struct {
	Name  string
	Op    Op
	Arity int
	Roles [3]Role
}

// Table maps the uppercase opcode name to its Spec. It is the single source
// of truth shared by the loader (to verify instruction shape) and the
// engine (to dispatch); see the design notes on keeping arity/role lookup in
// one place.
var Table = map[string]Spec{
	"MOVE":         {Name: "MOVE", Op: OpMove, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"CREATEFRAME":  {Name: "CREATEFRAME", Op: OpCreateFrame, Arity: 0},
	"PUSHFRAME":    {Name: "PUSHFRAME", Op: OpPushFrame, Arity: 0},
	"POPFRAME":     {Name: "POPFRAME", Op: OpPopFrame, Arity: 0},
	"DEFVAR":       {Name: "DEFVAR", Op: OpDefVar, Arity: 1, Roles: [3]Role{RoleVar}},
	"CALL":         {Name: "CALL", Op: OpCall, Arity: 1, Roles: [3]Role{RoleLabel}},
	"RETURN":       {Name: "RETURN", Op: OpReturn, Arity: 0},
	"PUSHS":        {Name: "PUSHS", Op: OpPushs, Arity: 1, Roles: [3]Role{RoleSymb}},
	"POPS":         {Name: "POPS", Op: OpPops, Arity: 1, Roles: [3]Role{RoleVar}},
	"ADD":          {Name: "ADD", Op: OpAdd, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"SUB":          {Name: "SUB", Op: OpSub, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"MUL":          {Name: "MUL", Op: OpMul, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"IDIV":         {Name: "IDIV", Op: OpIdiv, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"DIV":          {Name: "DIV", Op: OpDiv, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"LT":           {Name: "LT", Op: OpLt, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"GT":           {Name: "GT", Op: OpGt, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"EQ":           {Name: "EQ", Op: OpEq, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"AND":          {Name: "AND", Op: OpAnd, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"OR":           {Name: "OR", Op: OpOr, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"NOT":          {Name: "NOT", Op: OpNot, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"INT2CHAR":     {Name: "INT2CHAR", Op: OpInt2Char, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"STRI2INT":     {Name: "STRI2INT", Op: OpStri2Int, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"INT2FLOAT":    {Name: "INT2FLOAT", Op: OpInt2Float, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"FLOAT2INT":    {Name: "FLOAT2INT", Op: OpFloat2Int, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"READ":         {Name: "READ", Op: OpRead, Arity: 2, Roles: [3]Role{RoleVar, RoleType}},
	"WRITE":        {Name: "WRITE", Op: OpWrite, Arity: 1, Roles: [3]Role{RoleSymb}},
	"CONCAT":       {Name: "CONCAT", Op: OpConcat, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"STRLEN":       {Name: "STRLEN", Op: OpStrlen, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"GETCHAR":      {Name: "GETCHAR", Op: OpGetChar, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"SETCHAR":      {Name: "SETCHAR", Op: OpSetChar, Arity: 3, Roles: [3]Role{RoleVar, RoleSymb, RoleSymb}},
	"TYPE":         {Name: "TYPE", Op: OpType, Arity: 2, Roles: [3]Role{RoleVar, RoleSymb}},
	"LABEL":        {Name: "LABEL", Op: OpLabel, Arity: 1, Roles: [3]Role{RoleLabel}},
	"JUMP":         {Name: "JUMP", Op: OpJump, Arity: 1, Roles: [3]Role{RoleLabel}},
	"JUMPIFEQ":     {Name: "JUMPIFEQ", Op: OpJumpIfEq, Arity: 3, Roles: [3]Role{RoleLabel, RoleSymb, RoleSymb}},
	"JUMPIFNEQ":    {Name: "JUMPIFNEQ", Op: OpJumpIfNeq, Arity: 3, Roles: [3]Role{RoleLabel, RoleSymb, RoleSymb}},
	"EXIT":         {Name: "EXIT", Op: OpExit, Arity: 1, Roles: [3]Role{RoleSymb}},
	"DPRINT":       {Name: "DPRINT", Op: OpDprint, Arity: 1, Roles: [3]Role{RoleSymb}},
	"BREAK":        {Name: "BREAK", Op: OpBreak, Arity: 0},
}

// NoStats is the set of opcodes excluded from the executed-instruction count
// and from hot-instruction tracking (but not from the variable high-water
// sampling, which runs before every dispatch regardless of opcode).
var NoStats = map[Op]bool{
	OpLabel:  true,
	OpDprint: true,
	OpBreak:  true,
}
