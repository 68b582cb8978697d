package lints

import (
	"regexp"
	"strings"
)

var (
	snakeCaseRe = regexp.MustCompile(`^[a-z0-9_]+$`)
	camelCaseRe = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
)

// IsSnakeCase reports whether name uses only lowercase letters, digits and underscores.
func IsSnakeCase(name string) bool {
	return snakeCaseRe.MatchString(name)
}

// IsCamelCase reports whether name starts with an uppercase letter followed by letters and digits.
func IsCamelCase(name string) bool {
	return camelCaseRe.MatchString(name)
}

// visible returns line without its terminator.
func visible(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// splitComment splits line at its first '#'. String literals are not
// taken into account, so a '#' inside quotes also starts the comment.
func splitComment(line string) (code, comment string, found bool) {
	idx := strings.IndexByte(line, '#')
	if idx < 0 {
		return line, "", false
	}
	return line[:idx], line[idx+1:], true
}
