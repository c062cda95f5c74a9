package loader_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mna/ippvm/lang/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadHelloFromFile(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "programs", "hello.xml"))
	require.NoError(t, err)
	defer f.Close()

	prog, err := loader.Load(f)
	require.NoError(t, err)
	require.Len(t, prog.Instructions, 3)
	assert.Equal(t, "DEFVAR", prog.Instructions[0].Opcode)
	assert.Equal(t, "MOVE", prog.Instructions[1].Opcode)
	assert.Equal(t, "WRITE", prog.Instructions[2].Opcode)
}

func TestLoadCases(t *testing.T) {
	cases := []struct {
		desc string
		in   string
		err  string // substring of the error, or "" for success
	}{
		{
			desc: "malformed xml",
			in:   `<program language="ippcode21">`,
			err:  "malformed XML",
		},
		{
			desc: "wrong language",
			in:   `<program language="notippcode21"></program>`,
			err:  "unsupported or missing language",
		},
		{
			desc: "unexpected element",
			in:   `<program language="ippcode21"><foo/></program>`,
			err:  "unexpected element",
		},
		{
			desc: "non positive order",
			in: `<program language="ippcode21">
				<instruction order="0" opcode="CREATEFRAME"></instruction>
			</program>`,
			err: "not a positive integer",
		},
		{
			desc: "duplicate order",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="CREATEFRAME"></instruction>
				<instruction order="1" opcode="PUSHFRAME"></instruction>
			</program>`,
			err: "duplicate instruction order",
		},
		{
			desc: "unknown opcode",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="FROB"></instruction>
			</program>`,
			err: "unknown opcode",
		},
		{
			desc: "wrong arity",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="ADD">
					<arg1 type="var">GF@x</arg1>
				</instruction>
			</program>`,
			err: "expected 3 argument",
		},
		{
			desc: "bad variable reference",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="DEFVAR">
					<arg1 type="var">XF@x</arg1>
				</instruction>
			</program>`,
			err: "invalid variable reference",
		},
		{
			desc: "bad variable name",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="DEFVAR">
					<arg1 type="var">GF@1bad</arg1>
				</instruction>
			</program>`,
			err: "invalid variable name",
		},
		{
			desc: "undefined jump target",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="JUMP">
					<arg1 type="label">nowhere</arg1>
				</instruction>
			</program>`,
			err: "undefined label",
		},
		{
			desc: "duplicate label",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="LABEL">
					<arg1 type="label">L</arg1>
				</instruction>
				<instruction order="2" opcode="LABEL">
					<arg1 type="label">L</arg1>
				</instruction>
			</program>`,
			err: "redefined",
		},
		{
			desc: "valid jump to forward label",
			in: `<program language="ippcode21">
				<instruction order="1" opcode="JUMP">
					<arg1 type="label">skip</arg1>
				</instruction>
				<instruction order="2" opcode="LABEL">
					<arg1 type="label">skip</arg1>
				</instruction>
			</program>`,
			err: "",
		},
	}
	for _, c := range cases {
		t.Run(c.desc, func(t *testing.T) {
			prog, err := loader.Load(strings.NewReader(c.in))
			if c.err == "" {
				require.NoError(t, err)
				require.NotNil(t, prog)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.err)
		})
	}
}

func TestLabelIndexesOwnInstruction(t *testing.T) {
	prog, err := loader.Load(strings.NewReader(`<program language="ippcode21">
		<instruction order="1" opcode="CREATEFRAME"></instruction>
		<instruction order="2" opcode="LABEL"><arg1 type="label">here</arg1></instruction>
		<instruction order="3" opcode="PUSHFRAME"></instruction>
	</program>`))
	require.NoError(t, err)
	idx, ok := prog.Labels["here"]
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "LABEL", prog.Instructions[idx].Opcode)
}

func TestStringEscapeDecoding(t *testing.T) {
	prog, err := loader.Load(strings.NewReader(`<program language="ippcode21">
		<instruction order="1" opcode="WRITE">
			<arg1 type="string">a\092b\010c</arg1>
		</instruction>
	</program>`))
	require.NoError(t, err)
	lit := prog.Instructions[0].Args[0].Literal
	assert.Equal(t, "a\\b\nc", lit.Text())
}
