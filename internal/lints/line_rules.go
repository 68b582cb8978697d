package lints

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxLineLength is the longest line, terminator excluded, that passes S001.
const MaxLineLength = 79

// IndentWidth is the unit every indentation must be a multiple of.
const IndentWidth = 4

var (
	constructSpacingRe = regexp.MustCompile(`^\s*(def|class)\s{2,}`)
	classDefRe         = regexp.MustCompile(`^\s*class\s+([\p{L}\p{N}_]+)`)
	funcDefRe          = regexp.MustCompile(`^\s*def\s+([\p{L}\p{N}_]+)`)
)

// DetectLongLine reports whether the line is longer than MaxLineLength characters.
func DetectLongLine(line string) bool {
	return utf8.RuneCountInString(visible(line)) > MaxLineLength
}

// DetectBadIndentation reports whether the leading whitespace of a non-blank
// line is not a multiple of IndentWidth. Every whitespace character counts as one.
func DetectBadIndentation(line string) bool {
	text := visible(line)
	if isBlank(text) {
		return false
	}
	indent := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			break
		}
		indent++
	}
	return indent%IndentWidth != 0
}

// DetectUnnecessarySemicolon reports whether the statement part of the line ends with ';'.
func DetectUnnecessarySemicolon(line string) bool {
	code, _, _ := splitComment(visible(line))
	return strings.HasSuffix(strings.TrimSpace(code), ";")
}

// DetectInlineCommentSpacing reports an inline comment preceded by fewer than two spaces.
func DetectInlineCommentSpacing(line string) bool {
	code, _, found := splitComment(visible(line))
	if !found || code == "" {
		return false
	}
	return !strings.HasSuffix(code, "  ")
}

// DetectTodo reports a comment mentioning "todo" in any letter case.
func DetectTodo(line string) bool {
	_, comment, found := splitComment(visible(line))
	return found && strings.Contains(strings.ToLower(comment), "todo")
}

// DetectConstructSpacing returns the keyword ("def" or "class") followed by
// more than one space.
func DetectConstructSpacing(line string) (string, bool) {
	m := constructSpacingRe.FindStringSubmatch(visible(line))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// DetectClassName returns the declared class name if it is not CamelCase.
func DetectClassName(line string) (string, bool) {
	m := classDefRe.FindStringSubmatch(visible(line))
	if m == nil || IsCamelCase(m[1]) {
		return "", false
	}
	return m[1], true
}

// DetectFunctionName returns the declared function name if it is not snake_case.
func DetectFunctionName(line string) (string, bool) {
	m := funcDefRe.FindStringSubmatch(visible(line))
	if m == nil || IsSnakeCase(m[1]) {
		return "", false
	}
	return m[1], true
}
