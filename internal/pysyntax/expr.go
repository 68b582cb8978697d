package pysyntax

func isOpen(t Token) bool {
	return t.Kind == Op && (t.Text == "(" || t.Text == "[" || t.Text == "{")
}

func isClose(t Token) bool {
	return t.Kind == Op && (t.Text == ")" || t.Text == "]" || t.Text == "}")
}

// splitTop splits toks on the operator sep, ignoring separators nested in
// brackets or inside a lambda parameter list.
func splitTop(toks []Token, sep string) [][]Token {
	var (
		parts   [][]Token
		depth   int
		lambdas int
		start   int
	)
	for i, t := range toks {
		switch {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		case depth == 0 && t.Is(Ident, "lambda"):
			lambdas++
		case depth == 0 && lambdas > 0 && t.Is(Op, ":"):
			lambdas--
		case depth == 0 && lambdas == 0 && t.Is(Op, sep):
			parts = append(parts, toks[start:i])
			start = i + 1
		}
	}
	return append(parts, toks[start:])
}

// indexTop returns the index of the first top-level operator op, or -1.
func indexTop(toks []Token, op string) int {
	depth, lambdas := 0, 0
	for i, t := range toks {
		switch {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		case depth == 0 && t.Is(Ident, "lambda"):
			lambdas++
		case depth == 0 && lambdas > 0 && t.Is(Op, ":"):
			lambdas--
		case depth == 0 && lambdas == 0 && t.Is(Op, op):
			return i
		}
	}
	return -1
}

// hasTopName reports whether the keyword name appears outside brackets.
func hasTopName(toks []Token, name string) bool {
	depth := 0
	for _, t := range toks {
		switch {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		case depth == 0 && t.Is(Ident, name):
			return true
		}
	}
	return false
}

// matchClose returns the index of the bracket closing toks[open].
func matchClose(toks []Token, open int) int {
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case isOpen(toks[i]):
			depth++
		case isClose(toks[i]):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchOpen returns the index of the bracket opening toks[end].
func matchOpen(toks []Token, end int) int {
	depth := 0
	for i := end; i >= 0; i-- {
		switch {
		case isClose(toks[i]):
			depth++
		case isOpen(toks[i]):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isAtomStart(t Token) bool {
	switch t.Kind {
	case Number, String:
		return true
	case Ident:
		return !keywords[t.Text] || constants[t.Text]
	}
	return false
}

func isAtomEnd(t Token) bool {
	return isAtomStart(t) || isClose(t)
}

// checkTokens rejects two operands with nothing between them (`print "x"`)
// and expressions ending in a binary operator.
func checkTokens(toks []Token) error {
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		if prev.Kind == String && cur.Kind == String {
			continue
		}
		if isAtomEnd(prev) && isAtomStart(cur) {
			return errorf(cur.Line, "invalid syntax")
		}
	}
	if n := len(toks); n > 0 {
		last := toks[n-1]
		if last.Kind == Op && binaryOps[last.Text] {
			return errorf(last.Line, "invalid syntax")
		}
	}
	return nil
}

// parseExprList parses comma separated expressions; a trailing comma is allowed.
func parseExprList(toks []Token, line int) ([]Expr, error) {
	if len(toks) == 0 {
		return nil, nil
	}
	parts := splitTop(toks, ",")
	if len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	exprs := make([]Expr, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			return nil, errorf(line, "invalid syntax")
		}
		e, err := parseExpr(part)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return exprs, nil
}

// parseExpr classifies an expression. It only looks deep enough to tell
// names, container displays, comprehensions and calls apart.
func parseExpr(toks []Token) (Expr, error) {
	if len(toks) == 0 {
		return nil, errorf(0, "invalid syntax")
	}
	if toks[0].Is(Ident, "yield") {
		return parseYield(toks)
	}
	if err := checkTokens(toks); err != nil {
		return nil, err
	}
	line := toks[0].Line

	if parts := splitTop(toks, ","); len(parts) > 1 {
		elts, err := parseExprList(toks, line)
		if err != nil {
			return nil, err
		}
		return &Tuple{Line: line, Elts: elts}, nil
	}

	if len(toks) == 1 {
		t := toks[0]
		switch t.Kind {
		case Ident:
			if constants[t.Text] {
				return &Constant{Line: line, Text: t.Text}, nil
			}
			if keywords[t.Text] {
				return nil, errorf(line, "invalid syntax")
			}
			return &Name{Line: line, Id: t.Text}, nil
		case Number, String:
			return &Constant{Line: line, Text: t.Text}, nil
		}
	}

	if allStrings(toks) {
		return &Constant{Line: line, Text: toks[0].Text}, nil
	}

	last := len(toks) - 1
	if isOpen(toks[0]) && matchClose(toks, 0) == last {
		return parseDisplay(toks[0].Text, toks[1:last], line)
	}

	if toks[last].Is(Op, ")") {
		if open := matchOpen(toks, last); open > 0 && isPrimary(toks[:open]) {
			fn, err := parseExpr(toks[:open])
			if err != nil {
				return nil, err
			}
			return &Call{Line: line, Func: fn}, nil
		}
	}

	return &OtherExpr{Line: line, Tokens: toks}, nil
}

// parseYield accepts `yield`, `yield a, b` and `yield from x`.
func parseYield(toks []Token) (Expr, error) {
	line := toks[0].Line
	rest := toks[1:]
	if len(rest) > 0 && rest[0].Is(Ident, "from") {
		if len(rest) == 1 {
			return nil, errorf(line, "invalid syntax")
		}
		rest = rest[1:]
	}
	if len(rest) > 0 {
		if _, err := parseExpr(rest); err != nil {
			return nil, err
		}
	}
	return &OtherExpr{Line: line, Tokens: toks}, nil
}

func parseDisplay(open string, inner []Token, line int) (Expr, error) {
	switch open {
	case "[":
		if hasTopName(inner, "for") {
			return &Comprehension{Line: line, Kind: "list"}, nil
		}
		elts, err := parseExprList(inner, line)
		if err != nil {
			return nil, err
		}
		return &List{Line: line, Elts: elts}, nil
	case "{":
		switch {
		case len(inner) == 0:
			return &Dict{Line: line}, nil
		case hasTopName(inner, "for"):
			kind := "set"
			if indexTop(inner, ":") >= 0 {
				kind = "dict"
			}
			return &Comprehension{Line: line, Kind: kind}, nil
		case inner[0].Is(Op, "**") || indexTop(inner, ":") >= 0:
			return &Dict{Line: line}, nil
		}
		elts, err := parseExprList(inner, line)
		if err != nil {
			return nil, err
		}
		return &Set{Line: line, Elts: elts}, nil
	default:
		switch {
		case len(inner) == 0:
			return &Tuple{Line: line}, nil
		case hasTopName(inner, "for"):
			return &Comprehension{Line: line, Kind: "generator"}, nil
		case len(splitTop(inner, ",")) > 1:
			elts, err := parseExprList(inner, line)
			if err != nil {
				return nil, err
			}
			return &Tuple{Line: line, Elts: elts}, nil
		}
		return parseExpr(inner)
	}
}

// isPrimary reports whether toks can be called directly: names, literals
// and attribute or subscript chains, with no operator outside brackets.
func isPrimary(toks []Token) bool {
	depth := 0
	for _, t := range toks {
		switch {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		case depth > 0:
		case t.Is(Op, "."):
		case t.Kind == Ident && keywords[t.Text] && !constants[t.Text]:
			return false
		case t.Kind == Op:
			return false
		}
	}
	return true
}

func allStrings(toks []Token) bool {
	for _, t := range toks {
		if t.Kind != String {
			return false
		}
	}
	return true
}

// checkTarget reports why e cannot be assigned to, or nil if it can.
func checkTarget(e Expr) error {
	switch t := e.(type) {
	case *Name:
		return nil
	case *Tuple:
		for _, elt := range t.Elts {
			if err := checkTarget(elt); err != nil {
				return err
			}
		}
		return nil
	case *List:
		for _, elt := range t.Elts {
			if err := checkTarget(elt); err != nil {
				return err
			}
		}
		return nil
	case *Constant:
		return errorf(t.Line, "cannot assign to literal")
	case *Call:
		return errorf(t.Line, "cannot assign to function call")
	case *Comprehension:
		return errorf(t.Line, "cannot assign to comprehension")
	case *Dict:
		return errorf(t.Line, "cannot assign to dict literal")
	case *Set:
		return errorf(t.Line, "cannot assign to set display")
	case *OtherExpr:
		return checkOtherTarget(t)
	}
	return nil
}

// checkOtherTarget accepts attribute references, subscriptions and starred
// names.
func checkOtherTarget(e *OtherExpr) error {
	toks := e.Tokens
	if toks[0].Is(Op, "*") {
		toks = toks[1:]
		if len(toks) == 0 {
			return errorf(e.Line, "invalid syntax")
		}
		inner, err := parseExpr(toks)
		if err != nil {
			return err
		}
		return checkTarget(inner)
	}
	if !isPrimary(toks) {
		return errorf(e.Line, "cannot assign to expression")
	}
	last := toks[len(toks)-1]
	if last.Kind != Ident && !last.Is(Op, "]") {
		return errorf(e.Line, "cannot assign to expression")
	}
	return nil
}
