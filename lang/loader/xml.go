package loader

import "encoding/xml"

// xmlProgram mirrors the <program> root element. Children is deliberately
// untyped (",any") so that Load can reject anything that isn't an
// <instruction> element itself, rather than silently dropping it.
type xmlProgram struct {
	XMLName     xml.Name         `xml:"program"`
	Language    string           `xml:"language,attr"`
	Name        string           `xml:"name,attr"`
	Description string           `xml:"description,attr"`
	Children    []xmlInstruction `xml:",any"`
}

type xmlInstruction struct {
	XMLName xml.Name
	Order   string   `xml:"order,attr"`
	Opcode  string   `xml:"opcode,attr"`
	Args    []xmlArg `xml:",any"`
}

type xmlArg struct {
	XMLName xml.Name
	Type    string `xml:"type,attr"`
	Text    string `xml:",chardata"`
}
