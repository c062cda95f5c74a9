package machine

import "github.com/mna/ippvm/lang/loader"

// Stats accumulates the three execution statistics the CLI can report:
// total executed instructions, the high-water mark of initialized variable
// slots, and the order of the "hot" instruction.
type Stats struct {
	Insts    int
	MaxVars  int
	HotOrder int

	hotCount int
}

// Sample records the current initialized-variable count. It is called
// before every dispatch, so the count reflects memory state prior to that
// instruction's effect.
func (s *Stats) Sample(m *Memory) {
	if n := m.InitializedCount(); n > s.MaxVars {
		s.MaxVars = n
	}
}

// RecordExec accounts for one executed instruction (LABEL, DPRINT and BREAK
// are filtered out by the caller before this is reached). The hot
// instruction is the one reaching the highest exec count; ties go to
// whichever instruction reached that count first, which falls out of only
// updating on a strictly greater count.
func (s *Stats) RecordExec(ins *loader.Instruction) {
	s.Insts++
	if ins.ExecCount > s.hotCount {
		s.hotCount = ins.ExecCount
		s.HotOrder = ins.Order
	}
}
