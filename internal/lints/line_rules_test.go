package lints

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectLongLine(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"empty", "", false},
		{"exactly limit", strings.Repeat("x", 79) + "\n", false},
		{"one over", strings.Repeat("x", 80) + "\n", true},
		{"ninety without terminator", strings.Repeat("x", 90), true},
		{"crlf terminator not counted", strings.Repeat("x", 79) + "\r\n", false},
		{"multibyte counted as characters", strings.Repeat("é", 79) + "\n", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetectLongLine(tt.line))
		})
	}
}

func TestDetectBadIndentation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		line     string
		expected bool
	}{
		{"top level", "x = 1\n", false},
		{"four spaces", "    x = 1\n", false},
		{"eight spaces", "        x = 1\n", false},
		{"three spaces", "   x = 1\n", true},
		{"five spaces", "     x = 1\n", true},
		{"single tab", "\tx = 1\n", true},
		{"four tabs", "\t\t\t\tx = 1\n", false},
		{"whitespace only", "   \n", false},
		{"empty", "\n", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetectBadIndentation(tt.line))
		})
	}
}

func TestCommentRules(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		line      string
		semicolon bool
		spacing   bool
		todo      bool
	}{
		{"plain statement", "x = 1\n", false, false, false},
		{"trailing semicolon", "x = 1;\n", true, false, false},
		{"semicolon then spaces", "x = 1;   \n", true, false, false},
		{"semicolon inside statement", "x = 1; y = 2\n", false, false, false},
		{"todo with semicolon", "    x = 1;  # todo fix\n", true, false, true},
		{"one space before comment", "x = 1 # note\n", false, true, false},
		{"no space before comment", "x = 1# note\n", false, true, false},
		{"two spaces before comment", "x = 1  # note\n", false, false, false},
		{"comment only line", "# TODO: later\n", false, false, true},
		{"indented comment line", "    # note\n", false, false, false},
		{"semicolon inside comment", "x = 1  # a; b;\n", false, false, false},
		{"todo outside comment", "todo = 1\n", false, false, false},
		{"mixed case todo", "x = 1  # ToDo\n", false, false, true},
		{"hash inside string", "s = 'a#b'\n", false, true, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.semicolon, DetectUnnecessarySemicolon(tt.line), "S003")
			assert.Equal(t, tt.spacing, DetectInlineCommentSpacing(tt.line), "S004")
			assert.Equal(t, tt.todo, DetectTodo(tt.line), "S005")
		})
	}
}

func TestDetectConstructSpacing(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line      string
		construct string
		found     bool
	}{
		{"def  f():\n", "def", true},
		{"    class   Foo:\n", "class", true},
		{"def f():\n", "", false},
		{"class Foo:\n", "", false},
		{"define  = 1\n", "", false},
		{"x = 'def  f'\n", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			construct, found := DetectConstructSpacing(tt.line)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.construct, construct)
		})
	}
}

func TestDetectDefinitionNames(t *testing.T) {
	t.Parallel()
	tests := []struct {
		line      string
		className string
		funcName  string
	}{
		{"class Person:\n", "", ""},
		{"class person:\n", "person", ""},
		{"class Person_Name(Base):\n", "Person_Name", ""},
		{"  class  lower_case:\n", "lower_case", ""},
		{"def my_function():\n", "", ""},
		{"def myFunction():\n", "", "myFunction"},
		{"    def __init__(self):\n", "", ""},
		{"async def Fetch():\n", "", ""},
		{"def  Bad():\n", "", "Bad"},
		{"x = 1\n", "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			className, _ := DetectClassName(tt.line)
			assert.Equal(t, tt.className, className)
			funcName, _ := DetectFunctionName(tt.line)
			assert.Equal(t, tt.funcName, funcName)
		})
	}
}

func TestNamingPatterns(t *testing.T) {
	t.Parallel()
	assert.True(t, IsSnakeCase("snake_case_2"))
	assert.True(t, IsSnakeCase("_private"))
	assert.False(t, IsSnakeCase("camelCase"))
	assert.False(t, IsSnakeCase(""))
	assert.True(t, IsCamelCase("CamelCase2"))
	assert.False(t, IsCamelCase("Camel_Case"))
	assert.False(t, IsCamelCase("camel"))
}
