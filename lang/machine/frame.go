package machine

import (
	"github.com/dolthub/swiss"

	"github.com/mna/ippvm/lang/value"
)

// Frame is a mapping from variable name to value. Names within a frame are
// unique. Frames are mutated on nearly every instruction (DEFVAR, MOVE, and
// most opcode results), so, like the teacher's Map type for its own hot
// symbol tables, it is backed by a SwissTable map rather than a builtin Go
// map.
type Frame struct {
	vars *swiss.Map[string, value.Value]
}

func newFrame() *Frame {
	return &Frame{vars: swiss.NewMap[string, value.Value](8)}
}

// Has reports whether name is declared in this frame.
func (f *Frame) Has(name string) bool {
	_, ok := f.vars.Get(name)
	return ok
}

// Get returns the value stored under name, and whether it was declared.
func (f *Frame) Get(name string) (value.Value, bool) {
	return f.vars.Get(name)
}

// Declare defines name as Undefined, or with an explicit initial value.
// Callers enforcing the "already declared" SEMANTIC error must check Has
// first.
func (f *Frame) Declare(name string, v value.Value) {
	f.vars.Put(name, v)
}

// Set overwrites the value of an already-declared name.
func (f *Frame) Set(name string, v value.Value) {
	f.vars.Put(name, v)
}

// InitializedCount returns the number of slots whose value is not Undefined.
// This is the corrected semantics described in the design notes: the source
// this interpreter is modeled on iterates frame keys and compares their
// types, which never counts anything; the intended meaning, implemented
// here, is a count of initialized values.
func (f *Frame) InitializedCount() int {
	n := 0
	f.vars.Iter(func(_ string, v value.Value) (stop bool) {
		if v.Kind() != value.KindUndefined {
			n++
		}
		return false
	})
	return n
}
