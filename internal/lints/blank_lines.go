package lints

// MaxBlankLines is the number of consecutive blank lines allowed before a line.
const MaxBlankLines = 2

// DetectExcessiveBlankLines reports whether lines[i] is a non-blank line
// preceded by more than MaxBlankLines blank lines. The first lines of a
// file never trigger, whatever they contain.
func DetectExcessiveBlankLines(lines []string, i int) bool {
	if i <= MaxBlankLines || i >= len(lines) || isBlank(lines[i]) {
		return false
	}
	for j := i - MaxBlankLines - 1; j < i; j++ {
		if !isBlank(lines[j]) {
			return false
		}
	}
	return true
}
