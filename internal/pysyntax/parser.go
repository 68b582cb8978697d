package pysyntax

type parser struct {
	toks []Token
	pos  int
}

// Parse parses a whole Python file. On failure the error is a *SyntaxError.
func Parse(src []byte) (*Module, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.parseModule()
}

func (p *parser) peek() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) next() Token {
	t := p.toks[p.pos]
	if t.Kind != EOF {
		p.pos++
	}
	return t
}

func (p *parser) parseModule() (*Module, error) {
	mod := &Module{}
	for p.peek().Kind != EOF {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		mod.Body = append(mod.Body, stmts...)
	}
	return mod, nil
}

func (p *parser) parseStatement() ([]Stmt, error) {
	tok := p.peek()
	switch {
	case tok.Kind == Indent:
		return nil, errorf(tok.Line, "unexpected indent")
	case tok.Kind == Dedent:
		return nil, errorf(tok.Line, "unexpected unindent")
	case tok.Kind == Newline:
		p.next()
		return nil, nil
	case tok.Is(Op, "@"):
		stmt, err := p.parseDecorated()
		return single(stmt, err)
	case tok.Is(Ident, "def"), tok.Is(Ident, "async") && p.peekAt(1).Is(Ident, "def"):
		stmt, err := p.parseFuncDef(nil)
		return single(stmt, err)
	case tok.Is(Ident, "class"):
		stmt, err := p.parseClassDef(nil)
		return single(stmt, err)
	case tok.Kind == Ident && compoundKeywords[tok.Text],
		tok.Is(Ident, "async") && (p.peekAt(1).Is(Ident, "for") || p.peekAt(1).Is(Ident, "with")),
		(tok.Is(Ident, "match") || tok.Is(Ident, "case")) && p.endsWithColon():
		stmt, err := p.parseCompound()
		return single(stmt, err)
	}
	return p.parseSimpleLine()
}

func single(stmt Stmt, err error) ([]Stmt, error) {
	if err != nil {
		return nil, err
	}
	return []Stmt{stmt}, nil
}

// lineTokens consumes the rest of the logical line, Newline included.
func (p *parser) lineTokens() []Token {
	start := p.pos
	for p.peek().Kind != Newline && p.peek().Kind != EOF {
		p.next()
	}
	toks := p.toks[start:p.pos]
	if p.peek().Kind == Newline {
		p.next()
	}
	return toks
}

// endsWithColon reports whether the current logical line ends with ':'.
func (p *parser) endsWithColon() bool {
	i := p.pos
	for p.toks[i].Kind != Newline && p.toks[i].Kind != EOF {
		i++
	}
	return i-p.pos > 1 && p.toks[i-1].Is(Op, ":")
}

// headerUntilColon consumes the tokens of a block header and the ':' that
// ends it.
func (p *parser) headerUntilColon(line int) ([]Token, error) {
	start := p.pos
	depth, lambdas := 0, 0
	for {
		t := p.peek()
		switch {
		case t.Kind == Newline || t.Kind == EOF:
			return nil, errorf(line, "expected ':'")
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		case depth == 0 && t.Is(Ident, "lambda"):
			lambdas++
		case depth == 0 && t.Is(Op, ":") && lambdas > 0:
			lambdas--
		case depth == 0 && t.Is(Op, ":"):
			header := p.toks[start:p.pos]
			p.next()
			return header, nil
		}
		p.next()
	}
}

// parseBlock parses the suite after a header ':', either an indented block
// or simple statements on the same line.
func (p *parser) parseBlock(headerLine int) ([]Stmt, error) {
	if p.peek().Kind != Newline {
		first := p.peek()
		if first.Kind == Ident && (compoundKeywords[first.Text] || first.Text == "def" || first.Text == "class") {
			return nil, errorf(first.Line, "invalid syntax")
		}
		return p.parseSimpleLine()
	}
	p.next()
	if p.peek().Kind != Indent {
		return nil, errorf(headerLine, "expected an indented block")
	}
	p.next()

	var body []Stmt
	for p.peek().Kind != Dedent && p.peek().Kind != EOF {
		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		body = append(body, stmts...)
	}
	if p.peek().Kind == Dedent {
		p.next()
	}
	return body, nil
}

func (p *parser) parseDecorated() (Stmt, error) {
	var decorators []Expr
	for p.peek().Is(Op, "@") {
		at := p.next()
		toks := p.lineTokens()
		if len(toks) == 0 {
			return nil, errorf(at.Line, "invalid syntax")
		}
		expr, err := parseExpr(toks)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, expr)
	}

	tok := p.peek()
	switch {
	case tok.Is(Ident, "def"), tok.Is(Ident, "async") && p.peekAt(1).Is(Ident, "def"):
		return p.parseFuncDef(decorators)
	case tok.Is(Ident, "class"):
		return p.parseClassDef(decorators)
	}
	return nil, errorf(tok.Line, "invalid syntax")
}

func (p *parser) parseFuncDef(decorators []Expr) (*FuncDef, error) {
	start := p.next()
	fn := &FuncDef{Line: start.Line, Decorators: decorators}
	if start.Text == "async" {
		fn.Async = true
		p.next()
	}

	name := p.next()
	if name.Kind != Ident || keywords[name.Text] {
		return nil, errorf(start.Line, "invalid syntax")
	}
	fn.Name = name.Text

	open := p.next()
	if !open.Is(Op, "(") {
		return nil, errorf(start.Line, "expected '('")
	}
	params, err := p.parseParams(start.Line)
	if err != nil {
		return nil, err
	}
	fn.Params = params

	if p.peek().Is(Op, "->") {
		p.next()
		toks, err := p.headerUntilColon(start.Line)
		if err != nil {
			return nil, err
		}
		if len(toks) == 0 {
			return nil, errorf(start.Line, "invalid syntax")
		}
		if fn.Returns, err = parseExpr(toks); err != nil {
			return nil, err
		}
	} else if colon := p.next(); !colon.Is(Op, ":") {
		return nil, errorf(start.Line, "expected ':'")
	}

	if fn.Body, err = p.parseBlock(start.Line); err != nil {
		return nil, err
	}
	return fn, nil
}

// parseParams consumes a parameter list up to and including its ')'.
func (p *parser) parseParams(line int) ([]*Param, error) {
	start := p.pos
	depth := 1
	for depth > 0 {
		t := p.next()
		switch {
		case t.Kind == EOF:
			return nil, errorf(line, "'(' was never closed")
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		}
	}
	toks := p.toks[start : p.pos-1]
	if len(toks) == 0 {
		return nil, nil
	}

	parts := splitTop(toks, ",")
	if len(parts) > 1 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}

	var (
		params      []*Param
		kind        = Positional
		seenDefault bool
		seenStar    bool
		seenSlash   bool
		names       = make(map[string]bool)
	)
	for i, part := range parts {
		if len(part) == 0 {
			return nil, errorf(line, "invalid syntax")
		}

		var (
			param *Param
			err   error
		)
		switch {
		case len(part) == 1 && part[0].Is(Op, "/"):
			if seenSlash || seenStar || i == 0 {
				return nil, errorf(line, "invalid syntax")
			}
			seenSlash = true
			for _, prev := range params {
				prev.Kind = PositionalOnly
			}
			continue
		case part[0].Is(Op, "*"):
			if seenStar {
				return nil, errorf(line, "* argument may appear only once")
			}
			seenStar = true
			kind = KeywordOnly
			if len(part) == 1 {
				if i == len(parts)-1 || (len(parts[i+1]) > 0 && parts[i+1][0].Is(Op, "**")) {
					return nil, errorf(line, "named arguments must follow bare *")
				}
				continue
			}
			param, err = parseParam(part[1:], VarPositional, line)
		case part[0].Is(Op, "**"):
			if i != len(parts)-1 {
				return nil, errorf(line, "arguments cannot follow var-keyword argument")
			}
			param, err = parseParam(part[1:], VarKeyword, line)
		default:
			param, err = parseParam(part, kind, line)
			if err == nil && kind == Positional {
				if param.Default != nil {
					seenDefault = true
				} else if seenDefault {
					return nil, errorf(line, "non-default argument follows default argument")
				}
			}
		}
		if err != nil {
			return nil, err
		}

		if names[param.Name] {
			return nil, errorf(line, "duplicate argument '%s' in function definition", param.Name)
		}
		names[param.Name] = true
		params = append(params, param)
	}
	return params, nil
}

func parseParam(toks []Token, kind ParamKind, line int) (*Param, error) {
	if len(toks) == 0 {
		return nil, errorf(line, "invalid syntax")
	}
	name := toks[0]
	if name.Kind != Ident || keywords[name.Text] {
		return nil, errorf(name.Line, "invalid syntax")
	}
	param := &Param{Line: name.Line, Name: name.Text, Kind: kind}
	rest := toks[1:]

	if len(rest) > 0 && rest[0].Is(Op, ":") {
		end := indexTop(rest, "=")
		if end < 0 {
			end = len(rest)
		}
		if end == 1 {
			return nil, errorf(name.Line, "invalid syntax")
		}
		ann, err := parseExpr(rest[1:end])
		if err != nil {
			return nil, err
		}
		param.Annotation = ann
		rest = rest[end:]
	}

	if len(rest) == 0 {
		return param, nil
	}
	if !rest[0].Is(Op, "=") || len(rest) == 1 {
		return nil, errorf(name.Line, "invalid syntax")
	}
	if kind == VarPositional || kind == VarKeyword {
		return nil, errorf(name.Line, "var-positional argument cannot have default value")
	}
	def, err := parseExpr(rest[1:])
	if err != nil {
		return nil, err
	}
	param.Default = def
	return param, nil
}

func (p *parser) parseClassDef(decorators []Expr) (*ClassDef, error) {
	start := p.next()
	name := p.next()
	if name.Kind != Ident || keywords[name.Text] {
		return nil, errorf(start.Line, "invalid syntax")
	}
	cls := &ClassDef{Line: start.Line, Name: name.Text, Decorators: decorators}

	header, err := p.headerUntilColon(start.Line)
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		last := len(header) - 1
		if !header[0].Is(Op, "(") || matchClose(header, 0) != last {
			return nil, errorf(start.Line, "invalid syntax")
		}
		bases, err := parseExprList(header[1:last], start.Line)
		if err != nil {
			return nil, err
		}
		cls.Bases = bases
	}

	if cls.Body, err = p.parseBlock(start.Line); err != nil {
		return nil, err
	}
	return cls, nil
}

func (p *parser) parseCompound() (*Compound, error) {
	kw := p.next()
	keyword := kw.Text
	if keyword == "async" {
		keyword = p.next().Text
	}

	header, err := p.headerUntilColon(kw.Line)
	if err != nil {
		return nil, err
	}
	switch {
	case bareHeaders[keyword] && len(header) > 0:
		return nil, errorf(kw.Line, "invalid syntax")
	case !bareHeaders[keyword] && keyword != "except" && len(header) == 0:
		return nil, errorf(kw.Line, "invalid syntax")
	}
	if err := checkTokens(header); err != nil {
		return nil, err
	}

	body, err := p.parseBlock(kw.Line)
	if err != nil {
		return nil, err
	}
	return &Compound{Line: kw.Line, Keyword: keyword, Header: header, Body: body}, nil
}

// parseSimpleLine parses one or more ';' separated simple statements.
func (p *parser) parseSimpleLine() ([]Stmt, error) {
	toks := p.lineTokens()
	if len(toks) == 0 {
		return nil, nil
	}

	parts := splitTop(toks, ";")
	if len(parts) > 1 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}

	stmts := make([]Stmt, 0, len(parts))
	for _, part := range parts {
		if len(part) == 0 {
			return nil, errorf(toks[0].Line, "invalid syntax")
		}
		stmt, err := parseSimple(part)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func parseSimple(toks []Token) (Stmt, error) {
	first := toks[0]
	line := first.Line

	if first.Kind == Ident {
		switch {
		case compoundKeywords[first.Text], first.Text == "def", first.Text == "class":
			return nil, errorf(line, "invalid syntax")
		case simpleKeywords[first.Text]:
			return &SimpleStmt{Line: line, Keyword: first.Text}, nil
		}
	}

	if isTypeAlias(toks) {
		return parseTypeAlias(toks)
	}

	parts := splitTop(toks, "=")
	if colon := indexTop(parts[0], ":"); colon >= 0 {
		return parseAnnAssign(parts, colon, line)
	}

	if len(parts) == 1 {
		value, err := parseExpr(toks)
		if err != nil {
			return nil, err
		}
		return &SimpleStmt{Line: line, Value: value}, nil
	}

	assign := &Assign{Line: line}
	for i, part := range parts {
		if len(part) == 0 {
			return nil, errorf(line, "invalid syntax")
		}
		expr, err := parseExpr(part)
		if err != nil {
			return nil, err
		}
		if i == len(parts)-1 {
			assign.Value = expr
			break
		}
		if err := checkTarget(expr); err != nil {
			return nil, err
		}
		assign.Targets = append(assign.Targets, expr)
	}
	return assign, nil
}

// isTypeAlias reports whether toks is a `type X = ...` or `type X[T] = ...`
// statement. `type` is a soft keyword and stays usable as a plain name.
func isTypeAlias(toks []Token) bool {
	if len(toks) < 4 || !toks[0].Is(Ident, "type") {
		return false
	}
	if toks[1].Kind != Ident || keywords[toks[1].Text] {
		return false
	}
	return toks[2].Is(Op, "=") || toks[2].Is(Op, "[")
}

func parseTypeAlias(toks []Token) (Stmt, error) {
	line := toks[0].Line
	eq := indexTop(toks, "=")
	if eq < 0 || eq == len(toks)-1 {
		return nil, errorf(line, "invalid syntax")
	}
	if toks[2].Is(Op, "[") && matchClose(toks, 2) != eq-1 {
		return nil, errorf(line, "invalid syntax")
	}
	value, err := parseExpr(toks[eq+1:])
	if err != nil {
		return nil, err
	}
	return &SimpleStmt{Line: line, Keyword: "type", Value: value}, nil
}

func parseAnnAssign(parts [][]Token, colon, line int) (Stmt, error) {
	if len(parts) > 2 {
		return nil, errorf(line, "invalid syntax")
	}
	lhs := parts[0]
	if colon == 0 || colon == len(lhs)-1 {
		return nil, errorf(line, "invalid syntax")
	}
	target, err := parseExpr(lhs[:colon])
	if err != nil {
		return nil, err
	}
	if _, ok := target.(*Tuple); ok {
		return nil, errorf(line, "only single target (not tuple) can be annotated")
	}
	if err := checkTarget(target); err != nil {
		return nil, err
	}
	ann, err := parseExpr(lhs[colon+1:])
	if err != nil {
		return nil, err
	}

	stmt := &AnnAssign{Line: line, Target: target, Annotation: ann}
	if len(parts) == 2 {
		if len(parts[1]) == 0 {
			return nil, errorf(line, "invalid syntax")
		}
		if stmt.Value, err = parseExpr(parts[1]); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}
