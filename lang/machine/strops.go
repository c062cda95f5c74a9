package machine

import (
	"unicode/utf8"

	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// execInt2Char handles INT2CHAR: turns a code point into a one-rune string.
func (e *Engine) execInt2Char(ins *loader.Instruction) error {
	n, err := e.readIntArg(ins.Args[1])
	if err != nil {
		return err
	}
	if n < 0 || n > utf8.MaxRune {
		return ipperr.New(ipperr.StringError, "INT2CHAR: code point %d out of range", n)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return ipperr.New(ipperr.StringError, "INT2CHAR: %d is not a valid code point", n)
	}
	return e.write(ins.Args[0], value.StringRunes([]rune{r}))
}

// execStri2Int handles STRI2INT: the code point of the rune at the given
// index.
func (e *Engine) execStri2Int(ins *loader.Instruction) error {
	s, err := e.readStringArg(ins.Args[1])
	if err != nil {
		return err
	}
	i, err := e.readIntArg(ins.Args[2])
	if err != nil {
		return err
	}
	if i < 0 || int(i) >= len(s) {
		return ipperr.New(ipperr.StringError, "STRI2INT: index %d out of range", i)
	}
	return e.write(ins.Args[0], value.Int(int64(s[i])))
}

// execInt2Float handles INT2FLOAT: exact widening conversion.
func (e *Engine) execInt2Float(ins *loader.Instruction) error {
	n, err := e.readIntArg(ins.Args[1])
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.Float(float64(n)))
}

// execFloat2Int handles FLOAT2INT: truncation toward zero, matching Go's
// float64-to-int64 conversion.
func (e *Engine) execFloat2Int(ins *loader.Instruction) error {
	f, err := e.readFloatArg(ins.Args[1])
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.Int(int64(f)))
}

// execConcat handles CONCAT.
func (e *Engine) execConcat(ins *loader.Instruction) error {
	a, err := e.readStringArg(ins.Args[1])
	if err != nil {
		return err
	}
	b, err := e.readStringArg(ins.Args[2])
	if err != nil {
		return err
	}
	out := make([]rune, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return e.write(ins.Args[0], value.StringRunes(out))
}

// execStrlen handles STRLEN: the code point count.
func (e *Engine) execStrlen(ins *loader.Instruction) error {
	s, err := e.readStringArg(ins.Args[1])
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.Int(int64(len(s))))
}

// execGetChar handles GETCHAR.
func (e *Engine) execGetChar(ins *loader.Instruction) error {
	s, err := e.readStringArg(ins.Args[1])
	if err != nil {
		return err
	}
	i, err := e.readIntArg(ins.Args[2])
	if err != nil {
		return err
	}
	if i < 0 || int(i) >= len(s) {
		return ipperr.New(ipperr.StringError, "GETCHAR: index %d out of range", i)
	}
	return e.write(ins.Args[0], value.StringRunes([]rune{s[i]}))
}

// execSetChar handles SETCHAR. Unlike the other string opcodes, the
// destination operand (Args[0]) doubles as an input: it must already hold a
// string, which is read, modified at the given index, and written back to
// the same variable. Reading and writing through the same VarRef (rather
// than operating on a stale copy) is what makes the result consistent with
// later reads of that variable.
func (e *Engine) execSetChar(ins *loader.Instruction) error {
	dst := ins.Args[0]
	cur, err := e.resolve(dst, false)
	if err != nil {
		return err
	}
	if cur.Kind() != value.KindString {
		return ipperr.New(ipperr.TypeError, "SETCHAR: destination does not hold a string")
	}
	i, err := e.readIntArg(ins.Args[1])
	if err != nil {
		return err
	}
	repl, err := e.readStringArg(ins.Args[2])
	if err != nil {
		return err
	}
	if len(repl) == 0 {
		return ipperr.New(ipperr.StringError, "SETCHAR: replacement string is empty")
	}
	runes := cur.Runes()
	if i < 0 || int(i) >= len(runes) {
		return ipperr.New(ipperr.StringError, "SETCHAR: index %d out of range", i)
	}
	updated := append([]rune(nil), runes...)
	updated[i] = repl[0]
	return e.write(dst, value.StringRunes(updated))
}

// execType handles TYPE: the only opcode allowed to observe an Undefined
// operand, yielding the empty string for it.
func (e *Engine) execType(ins *loader.Instruction) error {
	v, err := e.resolve(ins.Args[1], true)
	if err != nil {
		return err
	}
	return e.write(ins.Args[0], value.String(v.TypeName()))
}
