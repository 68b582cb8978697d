package pysyntax

// Node is any element of the syntax tree. Pos returns its 1-based source line.
type Node interface {
	Pos() int
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Module is the root of a parsed file.
type Module struct {
	Body []Stmt
}

func (m *Module) Pos() int { return 1 }

// ParamKind classifies a function parameter by how it can be passed.
type ParamKind int

const (
	PositionalOnly ParamKind = iota
	Positional
	VarPositional
	KeywordOnly
	VarKeyword
)

func (k ParamKind) String() string {
	switch k {
	case PositionalOnly:
		return "positional-only"
	case Positional:
		return "positional"
	case VarPositional:
		return "var-positional"
	case KeywordOnly:
		return "keyword-only"
	case VarKeyword:
		return "var-keyword"
	default:
		return "unknown"
	}
}

// Param is one entry of a function parameter list.
type Param struct {
	Line       int
	Name       string
	Kind       ParamKind
	Annotation Expr // nil if absent
	Default    Expr // nil if absent
}

func (p *Param) Pos() int { return p.Line }

type (
	// FuncDef is a `def` or `async def` statement. Line is the line of the
	// `def` (or `async`) keyword, not of its decorators.
	FuncDef struct {
		Line       int
		Name       string
		Async      bool
		Decorators []Expr
		Params     []*Param
		Returns    Expr
		Body       []Stmt
	}

	// ClassDef is a `class` statement.
	ClassDef struct {
		Line       int
		Name       string
		Decorators []Expr
		Bases      []Expr
		Body       []Stmt
	}

	// Assign is a plain assignment, possibly chained (`a = b = 1`).
	Assign struct {
		Line    int
		Targets []Expr
		Value   Expr
	}

	// AnnAssign is an annotated assignment (`x: int = 1`).
	AnnAssign struct {
		Line       int
		Target     Expr
		Annotation Expr
		Value      Expr // nil if absent
	}

	// Compound is any other block statement: if, elif, else, for, while,
	// with, try, except, finally, match and case.
	Compound struct {
		Line    int
		Keyword string
		Header  []Token
		Body    []Stmt
	}

	// SimpleStmt is a keyword statement (`return x`, `import os`) or an
	// expression statement when Keyword is empty.
	SimpleStmt struct {
		Line    int
		Keyword string
		Value   Expr // nil for keyword statements other than `type` aliases
	}
)

func (s *FuncDef) Pos() int    { return s.Line }
func (s *ClassDef) Pos() int   { return s.Line }
func (s *Assign) Pos() int     { return s.Line }
func (s *AnnAssign) Pos() int  { return s.Line }
func (s *Compound) Pos() int   { return s.Line }
func (s *SimpleStmt) Pos() int { return s.Line }

func (*FuncDef) stmtNode()    {}
func (*ClassDef) stmtNode()   {}
func (*Assign) stmtNode()     {}
func (*AnnAssign) stmtNode()  {}
func (*Compound) stmtNode()   {}
func (*SimpleStmt) stmtNode() {}

type (
	// Name is a bare identifier.
	Name struct {
		Line int
		Id   string
	}

	// Constant is a number, string, None, True or False.
	Constant struct {
		Line int
		Text string
	}

	// List is a list display: `[a, b]`.
	List struct {
		Line int
		Elts []Expr
	}

	// Tuple is a tuple display, parenthesized or not.
	Tuple struct {
		Line int
		Elts []Expr
	}

	// Set is a set display: `{a, b}`.
	Set struct {
		Line int
		Elts []Expr
	}

	// Dict is a dict display: `{k: v}` or `{}`.
	Dict struct {
		Line int
	}

	// Comprehension is a list, set, dict or generator comprehension.
	Comprehension struct {
		Line int
		Kind string // "list", "set", "dict" or "generator"
	}

	// Call is a call expression; only the callee is kept.
	Call struct {
		Line int
		Func Expr
	}

	// OtherExpr holds any expression the checks do not need to look into.
	OtherExpr struct {
		Line   int
		Tokens []Token
	}
)

func (e *Name) Pos() int          { return e.Line }
func (e *Constant) Pos() int      { return e.Line }
func (e *List) Pos() int          { return e.Line }
func (e *Tuple) Pos() int         { return e.Line }
func (e *Set) Pos() int           { return e.Line }
func (e *Dict) Pos() int          { return e.Line }
func (e *Comprehension) Pos() int { return e.Line }
func (e *Call) Pos() int          { return e.Line }
func (e *OtherExpr) Pos() int     { return e.Line }

func (*Name) exprNode()          {}
func (*Constant) exprNode()      {}
func (*List) exprNode()          {}
func (*Tuple) exprNode()         {}
func (*Set) exprNode()           {}
func (*Dict) exprNode()          {}
func (*Comprehension) exprNode() {}
func (*Call) exprNode()          {}
func (*OtherExpr) exprNode()     {}

// IsMutableLiteral reports whether e is a list, set or dict display.
func IsMutableLiteral(e Expr) bool {
	switch e.(type) {
	case *List, *Set, *Dict:
		return true
	}
	return false
}
