package ipcode_test

import (
	"testing"

	"github.com/mna/ippvm/lang/ipcode"
	"github.com/stretchr/testify/assert"
)

func TestTableEntriesAreSelfConsistent(t *testing.T) {
	for name, spec := range ipcode.Table {
		assert.Equal(t, name, spec.Name)
		assert.LessOrEqual(t, spec.Arity, 3, "%s: arity must fit the fixed 3-slot Roles array", name)
	}
}

func TestNoStatsOpcodes(t *testing.T) {
	assert.True(t, ipcode.NoStats[ipcode.OpLabel])
	assert.True(t, ipcode.NoStats[ipcode.OpDprint])
	assert.True(t, ipcode.NoStats[ipcode.OpBreak])
	assert.False(t, ipcode.NoStats[ipcode.OpAdd])
}

func TestKnownOpcodesPresent(t *testing.T) {
	names := []string{
		"MOVE", "CREATEFRAME", "PUSHFRAME", "POPFRAME", "DEFVAR", "CALL", "RETURN",
		"PUSHS", "POPS", "ADD", "SUB", "MUL", "IDIV", "DIV", "LT", "GT", "EQ",
		"AND", "OR", "NOT", "INT2CHAR", "STRI2INT", "INT2FLOAT", "FLOAT2INT",
		"READ", "WRITE", "CONCAT", "STRLEN", "GETCHAR", "SETCHAR", "TYPE",
		"LABEL", "JUMP", "JUMPIFEQ", "JUMPIFNEQ", "EXIT", "DPRINT", "BREAK",
	}
	for _, n := range names {
		_, ok := ipcode.Table[n]
		assert.True(t, ok, "missing opcode %s", n)
	}
	assert.Len(t, ipcode.Table, len(names))
}
