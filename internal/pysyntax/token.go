package pysyntax

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident is an identifier or a keyword.
	Ident
	// Number is a numeric literal.
	Number
	// String is a string or bytes literal, prefix and quotes included.
	String
	// Op is an operator or a delimiter.
	Op
	// Newline ends a logical line.
	Newline
	// Indent opens an indented block.
	Indent
	// Dedent closes an indented block.
	Dedent
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "NAME"
	case Number:
		return "NUMBER"
	case String:
		return "STRING"
	case Op:
		return "OP"
	case Newline:
		return "NEWLINE"
	case Indent:
		return "INDENT"
	case Dedent:
		return "DEDENT"
	default:
		return "INVALID"
	}
}

// Token is a lexical token with its 1-based position.
type Token struct {
	Kind Kind
	Text string
	Line int
	Col  int
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// keywords are the hard keywords of Python 3.
var keywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

var constants = map[string]bool{"None": true, "True": true, "False": true}

// compoundKeywords start a statement that owns an indented block.
var compoundKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"with": true, "try": true, "except": true, "finally": true,
}

// bareHeaders are compound keywords that take no header expression.
var bareHeaders = map[string]bool{"else": true, "try": true, "finally": true}

var simpleKeywords = map[string]bool{
	"pass": true, "break": true, "continue": true, "return": true,
	"raise": true, "import": true, "from": true, "global": true,
	"nonlocal": true, "del": true, "assert": true,
}

// operators ordered longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", ">>", "<<", "<=", ">=", "==", "!=", "->", "+=", "-=",
	"*=", "/=", "%=", "&=", "|=", "^=", "@=", ":=",
	"+", "-", "*", "/", "%", "@", "&", "|", "^", "~", "<", ">",
	"(", ")", "[", "]", "{", "}", ",", ":", ".", ";", "=",
}

var closers = map[string]string{")": "(", "]": "[", "}": "{"}

// binaryOps cannot end an expression.
var binaryOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "@": true,
	"&": true, "|": true, "^": true, "~": true, "<": true, ">": true,
	"**": true, "//": true, ">>": true, "<<": true, "<=": true, ">=": true,
	"==": true, "!=": true, ".": true, ":=": true,
}
