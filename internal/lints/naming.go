package lints

import (
	py "github.com/gnolang/pystyle/internal/pysyntax"
)

// Finding is a structural match: the line to report and the name to
// interpolate into the rule message, if any.
type Finding struct {
	Line int
	Arg  string
}

// DetectArgumentNames reports each positional or keyword parameter whose
// name is not snake_case. Findings carry the line of the enclosing `def`.
// Variadic parameters (*args, **kwargs) are not checked.
func DetectArgumentNames(mod *py.Module) []Finding {
	var findings []Finding
	py.Inspect(mod, func(n py.Node) bool {
		fn, ok := n.(*py.FuncDef)
		if !ok {
			return true
		}
		for _, p := range fn.Params {
			if p.Kind == py.VarPositional || p.Kind == py.VarKeyword {
				continue
			}
			if !IsSnakeCase(p.Name) {
				findings = append(findings, Finding{Line: fn.Line, Arg: p.Name})
			}
		}
		return true
	})
	return findings
}

// DetectVariableNames reports assignments to names that are not snake_case.
// Only plain assignments that are direct children of a function body are
// considered; statements inside nested blocks are left alone.
func DetectVariableNames(mod *py.Module) []Finding {
	var findings []Finding
	py.Inspect(mod, func(n py.Node) bool {
		fn, ok := n.(*py.FuncDef)
		if !ok {
			return true
		}
		for _, stmt := range fn.Body {
			assign, ok := stmt.(*py.Assign)
			if !ok {
				continue
			}
			for _, target := range assign.Targets {
				name, ok := target.(*py.Name)
				if !ok || IsSnakeCase(name.Id) {
					continue
				}
				findings = append(findings, Finding{Line: assign.Line, Arg: name.Id})
			}
		}
		return true
	})
	return findings
}
