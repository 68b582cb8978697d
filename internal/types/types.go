package types

import "fmt"

// Issue represents a style violation found in a source file.
type Issue struct {
	Rule     string `json:"code"`
	Filename string `json:"path"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: Line %d: %s %s", i.Filename, i.Line, i.Rule, i.Message)
}

// RuleKind tells whether a rule is decided from raw text or from a parsed tree.
type RuleKind int

const (
	Textual RuleKind = iota
	Structural
)

func (k RuleKind) String() string {
	switch k {
	case Textual:
		return "textual"
	case Structural:
		return "structural"
	default:
		return "unknown"
	}
}
