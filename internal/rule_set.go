package internal

import (
	"fmt"
	"strings"

	"github.com/gnolang/pystyle/internal/lints"
	py "github.com/gnolang/pystyle/internal/pysyntax"
	tt "github.com/gnolang/pystyle/internal/types"
)

// lineCheck decides a textual rule for lines[i]. The returned string is
// interpolated into the message of rules that take an argument.
type lineCheck func(lines []string, i int) (string, bool)

// treeCheck runs a structural rule over a parsed file.
type treeCheck func(mod *py.Module) []lints.Finding

// Rule describes one entry of the catalogue. Exactly one of line and tree
// is set, matching Kind.
type Rule struct {
	Code    string
	Message string
	Kind    tt.RuleKind

	line lineCheck
	tree treeCheck
}

// Format renders the message, filling in arg for templated messages.
func (r Rule) Format(arg string) string {
	if strings.Contains(r.Message, "%s") {
		return fmt.Sprintf(r.Message, arg)
	}
	return r.Message
}

func (r Rule) issue(filename string, line int, arg string) tt.Issue {
	return tt.Issue{
		Rule:     r.Code,
		Filename: filename,
		Line:     line,
		Message:  r.Format(arg),
	}
}

// single adapts a predicate over one line.
func single(detect func(string) bool) lineCheck {
	return func(lines []string, i int) (string, bool) {
		return "", detect(lines[i])
	}
}

// named adapts a check over one line that yields a name.
func named(detect func(string) (string, bool)) lineCheck {
	return func(lines []string, i int) (string, bool) {
		return detect(lines[i])
	}
}

var allRules = []Rule{
	{Code: "S001", Message: "Too long", Kind: tt.Textual, line: single(lints.DetectLongLine)},
	{Code: "S002", Message: "Indentation is not a multiple of four", Kind: tt.Textual, line: single(lints.DetectBadIndentation)},
	{Code: "S003", Message: "Unnecessary semicolon", Kind: tt.Textual, line: single(lints.DetectUnnecessarySemicolon)},
	{Code: "S004", Message: "At least two spaces required before inline comments", Kind: tt.Textual, line: single(lints.DetectInlineCommentSpacing)},
	{Code: "S005", Message: "TODO found", Kind: tt.Textual, line: single(lints.DetectTodo)},
	{
		Code:    "S006",
		Message: "More than two blank lines used before this line",
		Kind:    tt.Textual,
		line: func(lines []string, i int) (string, bool) {
			return "", lints.DetectExcessiveBlankLines(lines, i)
		},
	},
	{Code: "S007", Message: "Too many spaces after '%s'", Kind: tt.Textual, line: named(lints.DetectConstructSpacing)},
	{Code: "S008", Message: "Class name '%s' should use CamelCase", Kind: tt.Textual, line: named(lints.DetectClassName)},
	{Code: "S009", Message: "Function name '%s' should use snake_case", Kind: tt.Textual, line: named(lints.DetectFunctionName)},
	{Code: "S010", Message: "Argument name '%s' should be snake_case", Kind: tt.Structural, tree: lints.DetectArgumentNames},
	{Code: "S011", Message: "Variable '%s' in function should be snake_case", Kind: tt.Structural, tree: lints.DetectVariableNames},
	{Code: "S012", Message: "Default argument value is mutable", Kind: tt.Structural, tree: lints.DetectMutableDefaults},
}

// Rules returns the catalogue in code order.
func Rules() []Rule {
	rules := make([]Rule, len(allRules))
	copy(rules, allRules)
	return rules
}

// LookupRule returns the rule with the given code.
func LookupRule(code string) (Rule, bool) {
	for _, r := range allRules {
		if r.Code == code {
			return r, true
		}
	}
	return Rule{}, false
}

// RuleSetVersion identifies the catalogue. Cached results produced under a
// different catalogue are discarded.
func RuleSetVersion() string {
	var sb strings.Builder
	for _, r := range allRules {
		fmt.Fprintf(&sb, "%s:%s:%s;", r.Code, r.Kind, r.Message)
	}
	return sb.String()
}
