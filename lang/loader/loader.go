// Package loader turns an IPPcode21 XML document into a verified,
// executable Program: an ordered instruction list with decoded, typed
// operands, and a label index.
package loader

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/mna/ippvm/internal/ipperr"
	"github.com/mna/ippvm/lang/ipcode"
	"github.com/mna/ippvm/lang/value"
)

var (
	varRefRe  = regexp.MustCompile(`^(GF|LF|TF)@(.+)$`)
	varNameRe = regexp.MustCompile(`^[A-Za-z_\-$&%*!?][A-Za-z0-9_\-$&%*!?]*$`)
	escapeRe  = regexp.MustCompile(`\\[0-9]{3}`)
)

// Load parses, verifies and decodes the IPPcode21 program read from r.
func Load(r io.Reader) (*Program, error) {
	var doc xmlProgram
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, ipperr.Wrap(ipperr.XMLMalformed, err, "malformed XML source")
	}

	if !strings.EqualFold(doc.Language, "ippcode21") {
		return nil, ipperr.New(ipperr.Structure, "unsupported or missing language attribute: %q", doc.Language)
	}

	type ordered struct {
		order int
		xi    xmlInstruction
	}
	orderedIns := make([]ordered, 0, len(doc.Children))
	seenOrders := make(map[int]bool, len(doc.Children))

	for _, xi := range doc.Children {
		if xi.XMLName.Local != "instruction" {
			return nil, ipperr.New(ipperr.Structure, "unexpected element <%s> inside <program>", xi.XMLName.Local)
		}
		order, err := strconv.Atoi(strings.TrimSpace(xi.Order))
		if err != nil || order <= 0 {
			return nil, ipperr.New(ipperr.Structure, "instruction order %q is not a positive integer", xi.Order)
		}
		if seenOrders[order] {
			return nil, ipperr.New(ipperr.Structure, "duplicate instruction order %d", order)
		}
		seenOrders[order] = true
		orderedIns = append(orderedIns, ordered{order: order, xi: xi})
	}

	sort.Slice(orderedIns, func(i, j int) bool { return orderedIns[i].order < orderedIns[j].order })

	prog := &Program{
		Instructions: make([]Instruction, 0, len(orderedIns)),
		Labels:       make(map[string]int),
	}

	for _, oi := range orderedIns {
		ins, err := decodeInstruction(oi.order, oi.xi)
		if err != nil {
			return nil, err
		}
		if ins.Op == ipcode.OpLabel {
			name := ins.Args[0].Text
			if _, dup := prog.Labels[name]; dup {
				return nil, ipperr.New(ipperr.Semantic, "label %q redefined", name)
			}
			prog.Labels[name] = len(prog.Instructions)
		}
		prog.Instructions = append(prog.Instructions, ins)
	}

	for i := range prog.Instructions {
		ins := &prog.Instructions[i]
		switch ins.Op {
		case ipcode.OpCall, ipcode.OpJump, ipcode.OpJumpIfEq, ipcode.OpJumpIfNeq:
			target := labelArg(ins)
			if _, ok := prog.Labels[target]; !ok {
				return nil, ipperr.New(ipperr.Semantic, "%s targets undefined label %q", ins.Opcode, target)
			}
		}
	}

	return prog, nil
}

func labelArg(ins *Instruction) string {
	for _, a := range ins.Args {
		if a.Kind == OperandLabel {
			return a.Text
		}
	}
	return ""
}

func decodeInstruction(order int, xi xmlInstruction) (Instruction, error) {
	opcode := strings.ToUpper(strings.TrimSpace(xi.Opcode))
	spec, ok := ipcode.Table[opcode]
	if !ok {
		return Instruction{}, ipperr.New(ipperr.Structure, "unknown opcode %q", xi.Opcode)
	}

	args := append([]xmlArg(nil), xi.Args...)
	sort.Slice(args, func(i, j int) bool { return args[i].XMLName.Local < args[j].XMLName.Local })

	if len(args) != spec.Arity {
		return Instruction{}, ipperr.New(ipperr.Structure, "%s at order %d: expected %d argument(s), got %d", opcode, order, spec.Arity, len(args))
	}
	for i, a := range args {
		want := fmt.Sprintf("arg%d", i+1)
		if a.XMLName.Local != want {
			return Instruction{}, ipperr.New(ipperr.Structure, "%s at order %d: expected tag <%s>, got <%s>", opcode, order, want, a.XMLName.Local)
		}
	}

	ins := Instruction{Order: order, Opcode: opcode, Op: spec.Op, Args: make([]Operand, spec.Arity)}
	for i := 0; i < spec.Arity; i++ {
		op, err := decodeOperand(opcode, order, spec.Roles[i], args[i])
		if err != nil {
			return Instruction{}, err
		}
		ins.Args[i] = op
	}
	return ins, nil
}

func decodeOperand(opcode string, order int, role ipcode.Role, a xmlArg) (Operand, error) {
	structErr := func(format string, args ...interface{}) error {
		return ipperr.New(ipperr.Structure, "%s at order %d: "+format, append([]interface{}{opcode, order}, args...)...)
	}

	switch role {
	case ipcode.RoleVar:
		if a.Type != "var" {
			return Operand{}, structErr("expected type=\"var\", got %q", a.Type)
		}
		return decodeVarRef(a.Text, structErr)

	case ipcode.RoleSymb:
		switch a.Type {
		case "var":
			return decodeVarRef(a.Text, structErr)
		case "int":
			n, err := strconv.ParseInt(strings.TrimSpace(a.Text), 10, 64)
			if err != nil {
				return Operand{}, structErr("invalid int literal %q", a.Text)
			}
			return Operand{Kind: OperandLiteral, Literal: value.Int(n)}, nil
		case "float":
			f, err := strconv.ParseFloat(strings.TrimSpace(a.Text), 64)
			if err != nil {
				return Operand{}, structErr("invalid float literal %q", a.Text)
			}
			return Operand{Kind: OperandLiteral, Literal: value.Float(f)}, nil
		case "bool":
			switch a.Text {
			case "true":
				return Operand{Kind: OperandLiteral, Literal: value.Bool(true)}, nil
			case "false":
				return Operand{Kind: OperandLiteral, Literal: value.Bool(false)}, nil
			default:
				return Operand{}, structErr("invalid bool literal %q", a.Text)
			}
		case "string":
			return Operand{Kind: OperandLiteral, Literal: value.String(decodeStringEscapes(a.Text))}, nil
		case "nil":
			if a.Text != "nil" {
				return Operand{}, structErr("invalid nil literal %q", a.Text)
			}
			return Operand{Kind: OperandLiteral, Literal: value.Nil}, nil
		default:
			return Operand{}, structErr("unsupported symbol type %q", a.Type)
		}

	case ipcode.RoleLabel:
		if a.Type != "label" {
			return Operand{}, structErr("expected type=\"label\", got %q", a.Type)
		}
		name := strings.TrimSpace(a.Text)
		if name == "" {
			return Operand{}, structErr("empty label name")
		}
		return Operand{Kind: OperandLabel, Text: name}, nil

	case ipcode.RoleType:
		if a.Type != "type" {
			return Operand{}, structErr("expected type=\"type\", got %q", a.Type)
		}
		switch a.Text {
		case "int", "string", "bool", "float":
			return Operand{Kind: OperandType, Text: a.Text}, nil
		default:
			return Operand{}, structErr("unsupported type tag %q", a.Text)
		}
	}

	return Operand{}, structErr("internal: unhandled role")
}

func decodeVarRef(text string, structErr func(string, ...interface{}) error) (Operand, error) {
	m := varRefRe.FindStringSubmatch(text)
	if m == nil {
		return Operand{}, structErr("invalid variable reference %q", text)
	}
	if !varNameRe.MatchString(m[2]) {
		return Operand{}, structErr("invalid variable name %q", m[2])
	}
	var fr FrameKind
	switch m[1] {
	case "GF":
		fr = FrameGlobal
	case "LF":
		fr = FrameLocal
	case "TF":
		fr = FrameTemp
	}
	return Operand{Kind: OperandVar, Var: VarRef{Frame: fr, Name: m[2]}}, nil
}

// decodeStringEscapes replaces every \ddd escape (exactly three decimal
// digits) with the rune whose code point equals int(ddd).
func decodeStringEscapes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	return escapeRe.ReplaceAllStringFunc(s, func(m string) string {
		n, _ := strconv.Atoi(m[1:])
		return string(rune(n))
	})
}
