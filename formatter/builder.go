package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fatih/color"

	"github.com/gnolang/pystyle/internal"
	tt "github.com/gnolang/pystyle/internal/types"
)

// Options select how issues are rendered.
type Options struct {
	// Color enables ANSI colors regardless of the output device.
	Color bool
	// ShowSource prints the offending source line under each issue.
	ShowSource bool
}

type styles struct {
	file    *color.Color
	line    *color.Color
	rule    *color.Color
	message *color.Color
	gutter  *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		file:    color.New(color.FgCyan, color.Bold),
		line:    color.New(color.FgHiBlue, color.Bold),
		rule:    color.New(color.FgYellow, color.Bold),
		message: color.New(color.FgRed),
		gutter:  color.New(color.FgHiBlue),
	}
	for _, c := range []*color.Color{s.file, s.line, s.rule, s.message, s.gutter} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

const issueTemplate = `{{file .Filename}}: {{line .Line}}: {{rule .Rule}} {{message .Message}}
{{- if .ShowSource}}
{{snippet .Source .Line .Width}}
{{- end}}
`

type issueData struct {
	tt.Issue
	ShowSource bool
	Source     []string
	Width      int
}

// GenerateFormattedIssue renders the issues of one file, one per line, in
// the form `path: Line n: CODE message`. source may be nil unless
// opts.ShowSource is set.
func GenerateFormattedIssue(issues []tt.Issue, source *internal.SourceCode, opts Options) string {
	s := newStyles(opts.Color)
	funcMap := template.FuncMap{
		"file":    func(name string) string { return s.file.Sprint(name) },
		"line":    func(n int) string { return s.line.Sprintf("Line %d", n) },
		"rule":    func(code string) string { return s.rule.Sprint(code) },
		"message": func(msg string) string { return s.message.Sprint(msg) },
		"snippet": func(lines []string, n, width int) string { return codeSnippet(s, lines, n, width) },
	}
	tmpl := template.Must(template.New("issue").Funcs(funcMap).Parse(issueTemplate))

	var lines []string
	if source != nil {
		lines = source.Lines
	}
	width := calculateMaxLineNumWidth(issues)

	var buf bytes.Buffer
	for _, issue := range issues {
		data := issueData{
			Issue:      issue,
			ShowSource: opts.ShowSource,
			Source:     lines,
			Width:      width,
		}
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Sprintf("Error formatting issue: %v", err)
		}
	}
	return buf.String()
}

// codeSnippet renders line n of the source with a line number gutter.
func codeSnippet(s styles, lines []string, n, width int) string {
	if n < 1 || n > len(lines) {
		return s.gutter.Sprintf("%*s |", width, "")
	}
	text := strings.TrimRight(lines[n-1], "\r\n")
	return s.gutter.Sprintf("%*d | ", width, n) + text
}

func calculateMaxLineNumWidth(issues []tt.Issue) int {
	maxLine := 0
	for _, issue := range issues {
		maxLine = max(maxLine, issue.Line)
	}
	return len(fmt.Sprintf("%d", maxLine))
}
