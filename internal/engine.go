package internal

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gnolang/pystyle/internal/nolint"
	py "github.com/gnolang/pystyle/internal/pysyntax"
	tt "github.com/gnolang/pystyle/internal/types"
)

// Options configures an Engine.
type Options struct {
	// Noqa enables `# noqa` suppression comments.
	Noqa bool
	// CacheDir, if set, keeps results of unchanged files between runs.
	CacheDir string
	// CacheMaxAge makes cached results older than this stale. Zero keeps
	// them until the file changes.
	CacheMaxAge time.Duration
	// ClearCache drops every cached result before the first check.
	ClearCache bool
	Logger     *zap.Logger
}

// Engine applies the rule catalogue to files. It is safe for concurrent use.
type Engine struct {
	rules  []Rule
	noqa   bool
	cache  *Cache
	logger *zap.Logger
}

// NewEngine creates a new lint engine.
func NewEngine(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := &Engine{
		rules:  Rules(),
		noqa:   opts.Noqa,
		logger: logger,
	}

	if opts.CacheDir != "" {
		cache, err := NewCache(opts.CacheDir, RuleSetVersion()+"noqa="+strconv.FormatBool(opts.Noqa))
		if err != nil {
			return nil, err
		}
		cache.SetMaxAge(opts.CacheMaxAge)
		if opts.ClearCache {
			if err := cache.InvalidateAll(); err != nil {
				return nil, fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		engine.cache = cache
	}

	return engine, nil
}

// Run applies all lint rules to the given file and returns its sorted issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.cache != nil {
		if issues, ok := e.cache.Get(filename); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return issues, nil
		}
	}

	source, err := ReadSourceCode(filename)
	if err != nil {
		return nil, err
	}
	issues := e.check(filename, source)

	if e.cache != nil {
		if err := e.cache.Set(filename, issues); err != nil {
			e.logger.Warn("failed to cache result", zap.String("file", filename), zap.Error(err))
		}
	}
	return issues, nil
}

// RunSource applies all lint rules to src, reporting issues under filename.
func (e *Engine) RunSource(filename string, src []byte) []tt.Issue {
	return e.check(filename, NewSourceCode(src))
}

// Close persists the result cache, if any.
func (e *Engine) Close() error {
	if e.cache == nil {
		return nil
	}
	return e.cache.Save()
}

// fileContext carries what every rule may look at for one file.
type fileContext struct {
	filename string
	source   *SourceCode
	module   *py.Module // nil when the file does not parse
	noqa     *nolint.Manager
}

func (e *Engine) check(filename string, source *SourceCode) []tt.Issue {
	ctx := &fileContext{filename: filename, source: source}

	mod, err := py.Parse(source.Raw)
	if err != nil {
		fields := []zap.Field{zap.String("file", filename), zap.Error(err)}
		var se *py.SyntaxError
		if errors.As(err, &se) {
			fields = append(fields, zap.Int("line", se.Line))
		}
		e.logger.Debug("syntax error, skipping structural rules", fields...)
	}
	ctx.module = mod

	if e.noqa {
		ctx.noqa = nolint.ParseLines(source.Lines)
	}

	// each rule writes only its own slot
	results := make([][]tt.Issue, len(e.rules))
	var wg sync.WaitGroup
	for i, rule := range e.rules {
		wg.Add(1)
		go func(i int, r Rule) {
			defer wg.Done()
			results[i] = e.filterNolintIssues(ctx, applyRule(ctx, r))
		}(i, rule)
	}
	wg.Wait()

	var allIssues []tt.Issue
	for _, issues := range results {
		allIssues = append(allIssues, issues...)
	}
	SortIssues(allIssues)
	return allIssues
}

func applyRule(ctx *fileContext, r Rule) []tt.Issue {
	var issues []tt.Issue
	switch r.Kind {
	case tt.Textual:
		lines := ctx.source.Lines
		for i := range lines {
			if arg, ok := r.line(lines, i); ok {
				issues = append(issues, r.issue(ctx.filename, i+1, arg))
			}
		}
	case tt.Structural:
		if ctx.module == nil {
			return nil
		}
		for _, f := range r.tree(ctx.module) {
			issues = append(issues, r.issue(ctx.filename, f.Line, f.Arg))
		}
	}
	return issues
}

// filterNolintIssues drops issues suppressed by noqa comments.
func (e *Engine) filterNolintIssues(ctx *fileContext, issues []tt.Issue) []tt.Issue {
	if ctx.noqa == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !ctx.noqa.IsNolint(issue.Line, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// SortIssues orders issues by line, then by code. Issues equal on both
// keep their relative order.
func SortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return issues[i].Rule < issues[j].Rule
	})
}
