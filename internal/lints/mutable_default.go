package lints

import (
	py "github.com/gnolang/pystyle/internal/pysyntax"
)

// DetectMutableDefaults reports functions with at least one parameter
// defaulting to a list, set or dict literal. Each function is reported
// once, at its `def` line. Defaults built by a call, such as `list()`,
// are not flagged.
func DetectMutableDefaults(mod *py.Module) []Finding {
	var findings []Finding
	py.Inspect(mod, func(n py.Node) bool {
		fn, ok := n.(*py.FuncDef)
		if !ok {
			return true
		}
		for _, p := range fn.Params {
			if p.Default != nil && py.IsMutableLiteral(p.Default) {
				findings = append(findings, Finding{Line: fn.Line})
				break
			}
		}
		return true
	})
	return findings
}
