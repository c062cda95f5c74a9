package machine

import (
	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/loader"
	"github.com/mna/ippvm/lang/value"
)

// Memory is the three-frame memory model: a permanent global frame, an
// optional temporary frame, and a stack of local frames.
type Memory struct {
	global    *Frame
	temporary *Frame // nil when absent
	locals    []*Frame
}

func newMemory() *Memory {
	return &Memory{global: newFrame()}
}

// frameFor resolves the frame named by fr, or returns FRAME_MISSING.
func (m *Memory) frameFor(fr loader.FrameKind) (*Frame, error) {
	switch fr {
	case loader.FrameGlobal:
		return m.global, nil
	case loader.FrameTemp:
		if m.temporary == nil {
			return nil, ipperr.New(ipperr.FrameMissing, "temporary frame does not exist")
		}
		return m.temporary, nil
	case loader.FrameLocal:
		if len(m.locals) == 0 {
			return nil, ipperr.New(ipperr.FrameMissing, "local frame stack is empty")
		}
		return m.locals[len(m.locals)-1], nil
	default:
		return nil, ipperr.New(ipperr.FrameMissing, "unknown frame")
	}
}

// CreateFrame sets temporary to a fresh, empty frame, discarding any prior
// one.
func (m *Memory) CreateFrame() {
	m.temporary = newFrame()
}

// PushFrame moves temporary onto the locals stack and clears it.
func (m *Memory) PushFrame() error {
	if m.temporary == nil {
		return ipperr.New(ipperr.FrameMissing, "no temporary frame to push")
	}
	m.locals = append(m.locals, m.temporary)
	m.temporary = nil
	return nil
}

// PopFrame moves the top of locals back into temporary.
func (m *Memory) PopFrame() error {
	if len(m.locals) == 0 {
		return ipperr.New(ipperr.FrameMissing, "no local frame to pop")
	}
	n := len(m.locals) - 1
	m.temporary = m.locals[n]
	m.locals = m.locals[:n]
	return nil
}

// DefVar declares ref as an Undefined slot in its frame. Redefining an
// existing name is a SEMANTIC error.
func (m *Memory) DefVar(ref loader.VarRef) error {
	fr, err := m.frameFor(ref.Frame)
	if err != nil {
		return err
	}
	if fr.Has(ref.Name) {
		return ipperr.New(ipperr.Semantic, "variable %s@%s already defined", ref.Frame, ref.Name)
	}
	fr.Declare(ref.Name, value.Undefined)
	return nil
}

// ReadVar resolves the current value of ref. If allowUndefined is false, a
// slot holding Undefined yields VALUE_MISSING.
func (m *Memory) ReadVar(ref loader.VarRef, allowUndefined bool) (value.Value, error) {
	fr, err := m.frameFor(ref.Frame)
	if err != nil {
		return value.Value{}, err
	}
	v, ok := fr.Get(ref.Name)
	if !ok {
		return value.Value{}, ipperr.New(ipperr.VarUndefined, "variable %s@%s is not defined", ref.Frame, ref.Name)
	}
	if v.IsUndefined() && !allowUndefined {
		return value.Value{}, ipperr.New(ipperr.ValueMissing, "variable %s@%s has no value", ref.Frame, ref.Name)
	}
	return v, nil
}

// WriteVar stores v into ref. The variable must already be declared.
func (m *Memory) WriteVar(ref loader.VarRef, v value.Value) error {
	fr, err := m.frameFor(ref.Frame)
	if err != nil {
		return err
	}
	if !fr.Has(ref.Name) {
		return ipperr.New(ipperr.VarUndefined, "variable %s@%s is not defined", ref.Frame, ref.Name)
	}
	fr.Set(ref.Name, v)
	return nil
}

// InitializedCount counts initialized (non-Undefined) slots across all
// frames: global, temporary (if present), and every local frame.
func (m *Memory) InitializedCount() int {
	n := m.global.InitializedCount()
	if m.temporary != nil {
		n += m.temporary.InitializedCount()
	}
	for _, fr := range m.locals {
		n += fr.InitializedCount()
	}
	return n
}
