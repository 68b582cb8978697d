package internal

import (
	"fmt"
	"os"
	"strings"
)

// SourceCode stores the content of a source file as its ordered lines.
// Each line keeps its terminator, so the last line may lack one.
type SourceCode struct {
	Raw   []byte
	Lines []string
}

// NewSourceCode splits src into lines.
func NewSourceCode(src []byte) *SourceCode {
	return &SourceCode{Raw: src, Lines: splitLines(string(src))}
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return NewSourceCode(content), nil
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
