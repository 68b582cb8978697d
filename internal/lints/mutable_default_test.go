package lints

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMutableDefaults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		code     string
		expected []Finding
	}{
		{
			name:     "list default",
			code:     "def f(items=[]): pass\n",
			expected: []Finding{{Line: 1}},
		},
		{
			name:     "dict and set defaults reported once",
			code:     "def f(a={}, b={1}, c=[1]): pass\n",
			expected: []Finding{{Line: 1}},
		},
		{
			name:     "keyword only default",
			code:     "def f(*, opts={'a': 1}): pass\n",
			expected: []Finding{{Line: 1}},
		},
		{
			name: "call defaults are not literals",
			code: `def f(a=list(), b=dict(), c=set()):
    pass
`,
			expected: nil,
		},
		{
			name: "immutable defaults",
			code: `def f(a=None, b=(), c=(1, 2), d="x", e=0):
    pass
`,
			expected: nil,
		},
		{
			name:     "comprehension is not a literal",
			code:     "def f(a=[x for x in range(3)]): pass\n",
			expected: nil,
		},
		{
			name: "each function reported",
			code: `def f(a=[]):
    def g(b={}):
        pass

class K:
    async def m(self, c=set(), d={1, 2}):
        pass
`,
			expected: []Finding{{Line: 1}, {Line: 2}, {Line: 6}},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetectMutableDefaults(mustParse(t, tt.code)))
		})
	}
}
