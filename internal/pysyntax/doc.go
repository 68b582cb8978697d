// Package pysyntax parses Python source into a small statement-level syntax tree.
//
// The tree keeps only what the structural style checks need: function and
// class definitions with their parameters, assignments with their targets,
// compound statements with their bodies, and a coarse classification of
// expressions (names, container literals, comprehensions, calls).
//
// Parse validates the statement structure of a file (indentation, brackets,
// strings, definition headers, assignment targets, parameter ordering) and
// returns a *SyntaxError describing the first problem it finds. It does not
// implement the full expression grammar.
//
// Usage:
//
//	mod, err := pysyntax.Parse(src)
//	if err != nil {
//	    var se *pysyntax.SyntaxError
//	    if errors.As(err, &se) {
//	        // se.Line, se.Msg
//	    }
//	}
//
//	pysyntax.Inspect(mod, func(n pysyntax.Node) bool {
//	    if fn, ok := n.(*pysyntax.FuncDef); ok {
//	        fmt.Println(fn.Line, fn.Name)
//	    }
//	    return true
//	})
package pysyntax
