package machine_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runProgram(t *testing.T, xmlSrc, stdin string) (stdout string, exitCode int, err error) {
	t.Helper()
	prog, lerr := loader.Load(strings.NewReader(xmlSrc))
	require.NoError(t, lerr)

	var out, errBuf bytes.Buffer
	eng := machine.NewEngine(prog, strings.NewReader(stdin), &out, &errBuf)
	eng.DebugPrint = false
	runErr := eng.Run()
	return out.String(), eng.ReturnCode(), runErr
}

func TestHelloWorld(t *testing.T) {
	out, code, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@g</arg1></instruction>
		<instruction order="2" opcode="MOVE">
			<arg1 type="var">GF@g</arg1>
			<arg2 type="string">Hello\032world</arg2>
		</instruction>
		<instruction order="3" opcode="WRITE"><arg1 type="var">GF@g</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", out)
	assert.Equal(t, 0, code)
}

func TestArithmeticTypeMismatch(t *testing.T) {
	_, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@x</arg1></instruction>
		<instruction order="2" opcode="ADD">
			<arg1 type="var">GF@x</arg1>
			<arg2 type="int">1</arg2>
			<arg3 type="string">oops</arg3>
		</instruction>
	</program>`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADD requires")
}

func TestIntegerDivisionByZero(t *testing.T) {
	_, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@x</arg1></instruction>
		<instruction order="2" opcode="IDIV">
			<arg1 type="var">GF@x</arg1>
			<arg2 type="int">10</arg2>
			<arg3 type="int">0</arg3>
		</instruction>
	</program>`, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IDIV by zero")
}

func TestFramesRoundTrip(t *testing.T) {
	out, code, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="CREATEFRAME"></instruction>
		<instruction order="2" opcode="DEFVAR"><arg1 type="var">TF@x</arg1></instruction>
		<instruction order="3" opcode="MOVE">
			<arg1 type="var">TF@x</arg1>
			<arg2 type="int">7</arg2>
		</instruction>
		<instruction order="4" opcode="PUSHFRAME"></instruction>
		<instruction order="5" opcode="WRITE"><arg1 type="var">LF@x</arg1></instruction>
		<instruction order="6" opcode="POPFRAME"></instruction>
		<instruction order="7" opcode="WRITE"><arg1 type="var">TF@x</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "77", out)
	assert.Equal(t, 0, code)
}

func TestCallReturnThenExit(t *testing.T) {
	_, code, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="CALL"><arg1 type="label">fn</arg1></instruction>
		<instruction order="2" opcode="EXIT"><arg1 type="int">5</arg1></instruction>
		<instruction order="3" opcode="LABEL"><arg1 type="label">fn</arg1></instruction>
		<instruction order="4" opcode="RETURN"></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, 5, code)
}

func TestEqWithNil(t *testing.T) {
	out, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@r</arg1></instruction>
		<instruction order="2" opcode="EQ">
			<arg1 type="var">GF@r</arg1>
			<arg2 type="nil">nil</arg2>
			<arg3 type="nil">nil</arg3>
		</instruction>
		<instruction order="3" opcode="WRITE"><arg1 type="var">GF@r</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "true", out)
}

func TestEqNilAgainstTypedValueIsFalse(t *testing.T) {
	out, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@r</arg1></instruction>
		<instruction order="2" opcode="EQ">
			<arg1 type="var">GF@r</arg1>
			<arg2 type="nil">nil</arg2>
			<arg3 type="int">0</arg3>
		</instruction>
		<instruction order="3" opcode="WRITE"><arg1 type="var">GF@r</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "false", out)
}

func TestStatsHotInstructionAndMaxVars(t *testing.T) {
	// Loops i from 0 to 3, incrementing with ADD and branching back with
	// JUMPIFNEQ until i == 3. Both end up executed 3 times; ADD reaches that
	// count first, so it is the hot instruction.
	prog, err := loader.Load(strings.NewReader(`<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@i</arg1></instruction>
		<instruction order="2" opcode="MOVE"><arg1 type="var">GF@i</arg1><arg2 type="int">0</arg2></instruction>
		<instruction order="3" opcode="LABEL"><arg1 type="label">loop</arg1></instruction>
		<instruction order="4" opcode="ADD">
			<arg1 type="var">GF@i</arg1>
			<arg2 type="var">GF@i</arg2>
			<arg3 type="int">1</arg3>
		</instruction>
		<instruction order="5" opcode="JUMPIFNEQ">
			<arg1 type="label">loop</arg1>
			<arg2 type="var">GF@i</arg2>
			<arg3 type="int">3</arg3>
		</instruction>
	</program>`))
	require.NoError(t, err)

	var out, errBuf bytes.Buffer
	eng := machine.NewEngine(prog, strings.NewReader(""), &out, &errBuf)
	require.NoError(t, eng.Run())

	st := eng.Stats()
	assert.Equal(t, 1, st.MaxVars)
	assert.Equal(t, 8, st.Insts) // defvar + move + add x3 + jumpifneq x3
	assert.Equal(t, 4, st.HotOrder)
}

func TestSetCharMutatesThroughDestination(t *testing.T) {
	out, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@s</arg1></instruction>
		<instruction order="2" opcode="MOVE">
			<arg1 type="var">GF@s</arg1>
			<arg2 type="string">cat</arg2>
		</instruction>
		<instruction order="3" opcode="SETCHAR">
			<arg1 type="var">GF@s</arg1>
			<arg2 type="int">0</arg2>
			<arg3 type="string">b</arg3>
		</instruction>
		<instruction order="4" opcode="WRITE"><arg1 type="var">GF@s</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "bat", out)
}

func TestReadFallsBackToNilOnEOF(t *testing.T) {
	out, _, err := runProgram(t, `<program language="ippcode21">
		<instruction order="1" opcode="DEFVAR"><arg1 type="var">GF@v</arg1></instruction>
		<instruction order="2" opcode="READ"><arg1 type="var">GF@v</arg1><arg2 type="type">int</arg2></instruction>
		<instruction order="3" opcode="WRITE"><arg1 type="var">GF@v</arg1></instruction>
	</program>`, "")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
