package pysyntax

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"
)

const tabSize = 8

type lexer struct {
	src       []byte
	off       int
	line      int
	lineStart int

	indents  []int
	brackets []Token
	toks     []Token

	atLineStart bool
}

// Tokenize splits src into tokens. Blank lines and comments are dropped,
// newlines inside brackets are joined, and indentation changes become
// Indent and Dedent tokens. The result always ends with EOF.
func Tokenize(src []byte) ([]Token, error) {
	lx := &lexer{
		src:         src,
		line:        1,
		indents:     []int{0},
		atLineStart: true,
	}
	if err := lx.run(); err != nil {
		return nil, err
	}
	return lx.toks, nil
}

func (lx *lexer) run() error {
	for {
		if lx.atLineStart && len(lx.brackets) == 0 {
			done, err := lx.scanIndentation()
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		if lx.eof() {
			break
		}

		ch := lx.src[lx.off]
		r, _ := utf8.DecodeRune(lx.src[lx.off:])

		var err error
		switch {
		case ch == '\n':
			lx.endLine()
		case ch == ' ' || ch == '\t' || ch == '\f' || ch == '\r':
			lx.off++
		case ch == '#':
			lx.skipComment()
		case ch == '\\':
			err = lx.scanContinuation()
		case ch == '\'' || ch == '"':
			err = lx.scanString(lx.off, lx.line, lx.col())
		case isDigit(ch) || (ch == '.' && lx.off+1 < len(lx.src) && isDigit(lx.src[lx.off+1])):
			lx.scanNumber()
		case isIdentStart(r):
			err = lx.scanName()
		default:
			err = lx.scanOperator()
		}
		if err != nil {
			return err
		}
	}

	if len(lx.brackets) > 0 {
		open := lx.brackets[len(lx.brackets)-1]
		return errorf(open.Line, "'%s' was never closed", open.Text)
	}
	if n := len(lx.toks); n > 0 {
		if k := lx.toks[n-1].Kind; k != Newline && k != Indent && k != Dedent {
			lx.emit(Newline, "", lx.line, lx.col())
		}
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.emit(Dedent, "", lx.line, 1)
	}
	lx.emit(EOF, "", lx.line, lx.col())
	return nil
}

func (lx *lexer) eof() bool {
	return lx.off >= len(lx.src)
}

func (lx *lexer) col() int {
	return lx.off - lx.lineStart + 1
}

func (lx *lexer) emit(kind Kind, text string, line, col int) {
	lx.toks = append(lx.toks, Token{Kind: kind, Text: text, Line: line, Col: col})
}

// newline consumes a '\n' and moves the position to the next line.
func (lx *lexer) newline() {
	lx.off++
	lx.line++
	lx.lineStart = lx.off
}

func (lx *lexer) endLine() {
	if len(lx.brackets) == 0 {
		if n := len(lx.toks); n > 0 && lx.toks[n-1].Kind != Newline {
			lx.emit(Newline, "", lx.line, lx.col())
		}
		lx.atLineStart = true
	}
	lx.newline()
}

func (lx *lexer) skipComment() {
	for !lx.eof() && lx.src[lx.off] != '\n' {
		lx.off++
	}
}

// scanIndentation measures the indentation of the next logical line,
// skipping blank and comment-only lines. It reports true at end of input.
func (lx *lexer) scanIndentation() (bool, error) {
	for {
		width := 0
	measure:
		for !lx.eof() {
			switch lx.src[lx.off] {
			case ' ':
				width++
			case '\t':
				width = (width/tabSize + 1) * tabSize
			case '\f':
				width = 0
			default:
				break measure
			}
			lx.off++
		}
		if lx.eof() {
			return true, nil
		}

		switch lx.src[lx.off] {
		case '#':
			lx.skipComment()
			continue
		case '\r':
			lx.off++
			continue
		case '\n':
			lx.newline()
			continue
		}

		lx.atLineStart = false
		return false, lx.applyIndent(width)
	}
}

func (lx *lexer) applyIndent(width int) error {
	top := lx.indents[len(lx.indents)-1]
	switch {
	case width > top:
		lx.indents = append(lx.indents, width)
		lx.emit(Indent, "", lx.line, 1)
	case width < top:
		for width < top {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.emit(Dedent, "", lx.line, 1)
			top = lx.indents[len(lx.indents)-1]
		}
		if width != top {
			return errorf(lx.line, "unindent does not match any outer indentation level")
		}
	}
	return nil
}

func (lx *lexer) scanContinuation() error {
	line := lx.line
	lx.off++
	if !lx.eof() && lx.src[lx.off] == '\r' {
		lx.off++
	}
	if lx.eof() {
		return errorf(line, "unexpected EOF while parsing")
	}
	if lx.src[lx.off] != '\n' {
		return errorf(line, "unexpected character after line continuation character")
	}
	lx.newline()
	return nil
}

func (lx *lexer) scanName() error {
	start, col := lx.off, lx.col()
	for !lx.eof() {
		r, size := utf8.DecodeRune(lx.src[lx.off:])
		if !isIdentContinue(r) {
			break
		}
		lx.off += size
	}
	text := string(lx.src[start:lx.off])
	if !lx.eof() && (lx.src[lx.off] == '\'' || lx.src[lx.off] == '"') && isStringPrefix(text) {
		return lx.scanString(start, lx.line, col)
	}
	lx.emit(Ident, text, lx.line, col)
	return nil
}

func (lx *lexer) scanNumber() {
	start, col := lx.off, lx.col()
	for !lx.eof() {
		ch := lx.src[lx.off]
		switch {
		case isDigit(ch), isLetter(ch), ch == '_', ch == '.':
			lx.off++
		case (ch == '+' || ch == '-') && isExponent(lx.src[start:lx.off]):
			lx.off++
		default:
			lx.emit(Number, string(lx.src[start:lx.off]), lx.line, col)
			return
		}
	}
	lx.emit(Number, string(lx.src[start:lx.off]), lx.line, col)
}

// scanString scans a string literal whose prefix starts at start. The cursor
// sits on the opening quote.
func (lx *lexer) scanString(start, line, col int) error {
	quote := lx.src[lx.off]
	triple := lx.off+2 < len(lx.src) && lx.src[lx.off+1] == quote && lx.src[lx.off+2] == quote
	if triple {
		lx.off += 3
	} else {
		lx.off++
	}

	for {
		if lx.eof() {
			if triple {
				return errorf(line, "unterminated triple-quoted string literal")
			}
			return errorf(line, "unterminated string literal")
		}
		ch := lx.src[lx.off]
		switch {
		case ch == '\\':
			lx.off++
			if lx.eof() {
				continue
			}
			if lx.src[lx.off] == '\n' {
				lx.newline()
			} else {
				lx.off++
			}
		case ch == '\n':
			if !triple {
				return errorf(line, "unterminated string literal")
			}
			lx.newline()
		case ch == quote && !triple:
			lx.off++
			lx.emit(String, string(lx.src[start:lx.off]), line, col)
			return nil
		case ch == quote && lx.off+2 < len(lx.src) && lx.src[lx.off+1] == quote && lx.src[lx.off+2] == quote:
			lx.off += 3
			lx.emit(String, string(lx.src[start:lx.off]), line, col)
			return nil
		default:
			lx.off++
		}
	}
}

func (lx *lexer) scanOperator() error {
	rest := lx.src[lx.off:]
	for _, op := range operators {
		if !bytes.HasPrefix(rest, []byte(op)) {
			continue
		}
		tok := Token{Kind: Op, Text: op, Line: lx.line, Col: lx.col()}
		switch op {
		case "(", "[", "{":
			lx.brackets = append(lx.brackets, tok)
		case ")", "]", "}":
			if len(lx.brackets) == 0 {
				return errorf(lx.line, "unmatched '%s'", op)
			}
			open := lx.brackets[len(lx.brackets)-1]
			if closers[op] != open.Text {
				return errorf(lx.line, "closing parenthesis '%s' does not match opening parenthesis '%s'", op, open.Text)
			}
			lx.brackets = lx.brackets[:len(lx.brackets)-1]
		}
		lx.off += len(op)
		lx.toks = append(lx.toks, tok)
		return nil
	}
	r, _ := utf8.DecodeRune(rest)
	return errorf(lx.line, "invalid character '%c' (U+%04X)", r, r)
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentContinue(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func isExponent(num []byte) bool {
	if len(num) == 0 {
		return false
	}
	last := num[len(num)-1]
	if last != 'e' && last != 'E' {
		return false
	}
	s := strings.ToLower(string(num))
	return !strings.HasPrefix(s, "0x")
}

func isStringPrefix(s string) bool {
	switch strings.ToLower(s) {
	case "r", "u", "b", "f", "br", "rb", "fr", "rf":
		return true
	}
	return false
}
