// Package nolint handles inline `# noqa` suppression comments.
//
//	x = 1;  # noqa            suppresses every code on this line
//	x = 1;  # noqa: S003,S005 suppresses the listed codes on this line
//	# pystyle: noqa           on a line of its own suppresses the whole file
package nolint

import (
	"regexp"
	"strings"
)

var (
	noqaRe     = regexp.MustCompile(`(?i)#\s*noqa\b(?::\s*([a-z]+[0-9]+(?:\s*,\s*[a-z]+[0-9]+)*))?`)
	fileNoqaRe = regexp.MustCompile(`(?i)^\s*#\s*pystyle\s*:\s*noqa\s*$`)
)

// Manager manages noqa scopes and checks if a line is suppressed.
type Manager struct {
	wholeFile bool
	// scopes maps a 1-based line number to its scope.
	scopes map[int]noqaScope
}

// noqaScope lists the codes suppressed on one line.
type noqaScope struct {
	rules map[string]struct{} // empty => every code
}

// ParseLines scans the lines of a file for noqa comments.
func ParseLines(lines []string) *Manager {
	manager := Manager{scopes: make(map[int]noqaScope)}
	for i, line := range lines {
		text := strings.TrimRight(line, "\r\n")
		if fileNoqaRe.MatchString(text) {
			manager.wholeFile = true
			continue
		}
		m := noqaRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		manager.scopes[i+1] = noqaScope{rules: parseRuleCodes(m[1])}
	}
	return &manager
}

// parseRuleCodes parses the comma separated code list of a noqa comment.
func parseRuleCodes(text string) map[string]struct{} {
	codes := make(map[string]struct{})
	for _, code := range strings.Split(text, ",") {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			codes[code] = struct{}{}
		}
	}
	return codes
}

// IsNolint reports whether code is suppressed on the given line.
func (m *Manager) IsNolint(line int, code string) bool {
	if m == nil {
		return false
	}
	if m.wholeFile {
		return true
	}
	scope, ok := m.scopes[line]
	if !ok {
		return false
	}
	if len(scope.rules) == 0 {
		return true
	}
	_, ok = scope.rules[code]
	return ok
}
