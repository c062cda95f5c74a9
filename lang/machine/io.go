package machine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// execRead handles READ: parses one line from standard input according to
// the requested type tag, falling back to Nil on EOF or a parse failure.
func (e *Engine) execRead(ins *loader.Instruction) error {
	typeTag := ins.Args[1].Text
	v := value.Nil
	if line, ok := e.readLine(); ok {
		switch typeTag {
		case "int":
			if n, err := strconv.ParseInt(strings.TrimSpace(line), 10, 64); err == nil {
				v = value.Int(n)
			}
		case "float":
			if f, err := strconv.ParseFloat(strings.TrimSpace(line), 64); err == nil {
				v = value.Float(f)
			}
		case "bool":
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "true":
				v = value.Bool(true)
			case "false":
				v = value.Bool(false)
			}
		case "string":
			v = value.String(line)
		}
	}
	return e.write(ins.Args[0], v)
}

func (e *Engine) readLine() (string, bool) {
	line, err := e.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// execWrite handles WRITE.
func (e *Engine) execWrite(ins *loader.Instruction) error {
	v, err := e.resolve(ins.Args[0], false)
	if err != nil {
		return err
	}
	fmt.Fprint(e.stdout, FormatForWrite(v))
	return nil
}

// FormatForWrite renders a value the way WRITE prints it: Nil as the empty
// string, Bool as true/false, Int in decimal, Float in hexadecimal
// floating-point notation, String verbatim. Bool is checked before Int so
// that it keeps behaving correctly if Value ever grows a Bool-is-an-Int
// alias; with the current tagged representation the two kinds can't
// collide.
func FormatForWrite(v value.Value) string {
	switch v.Kind() {
	case value.KindNil:
		return ""
	case value.KindBool:
		if v.BoolVal() {
			return "true"
		}
		return "false"
	case value.KindInt:
		return strconv.FormatInt(v.IntVal(), 10)
	case value.KindFloat:
		return fmt.Sprintf("%x", v.FloatVal())
	case value.KindString:
		return v.Text()
	default:
		return ""
	}
}

// execDprint handles DPRINT: a stderr diagnostic, gated by DebugPrint, that
// never affects control flow or statistics.
func (e *Engine) execDprint(ins *loader.Instruction) error {
	v, err := e.resolve(ins.Args[0], true)
	if err != nil {
		return err
	}
	if e.DebugPrint {
		fmt.Fprintln(e.stderr, FormatForWrite(v))
	}
	return nil
}

// execBreak handles BREAK: dumps engine state to stderr, gated by
// DebugPrint.
func (e *Engine) execBreak(ins *loader.Instruction) error {
	if e.DebugPrint {
		fmt.Fprintf(e.stderr, "break at order %d: pc=%d call_depth=%d data_depth=%d initialized_vars=%d\n",
			ins.Order, e.pc, len(e.callStack), len(e.dataStack), e.memory.InitializedCount())
	}
	return nil
}

// execExit handles EXIT: the return code must be in [0, 49].
func (e *Engine) execExit(ins *loader.Instruction) error {
	n, err := e.readIntArg(ins.Args[0])
	if err != nil {
		return err
	}
	if n < 0 || n > 49 {
		return ipperr.New(ipperr.OperandValue, "EXIT code %d out of range [0,49]", n)
	}
	e.returnCode = int(n)
	e.pc = len(e.program.Instructions)
	return nil
}
