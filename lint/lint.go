package lint

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/pystyle/internal"
	tt "github.com/gnolang/pystyle/internal/types"
	"github.com/gnolang/pystyle/scanner"
)

// SourceExtension selects the files checked when walking a directory.
const SourceExtension = ".py"

type LintEngine interface {
	Run(filePath string) ([]tt.Issue, error)
	RunSource(filename string, source []byte) []tt.Issue
}

// Options are command line overrides applied on top of the configuration.
type Options struct {
	Noqa     bool
	CacheDir    string
	CacheMaxAge time.Duration
	ClearCache  bool
	Workers     int
	Exclude     []string
	Logger      *zap.Logger
}

// New loads the configuration for rootDir and builds an engine from it.
// The returned ProcessOptions carry the traversal settings of the merged
// configuration.
func New(rootDir, configurationPath string, opts Options) (*internal.Engine, ProcessOptions, error) {
	config, err := LoadConfig(rootDir, configurationPath)
	if err != nil {
		return nil, ProcessOptions{}, err
	}

	engine, err := internal.NewEngine(internal.Options{
		Noqa:        config.Noqa || opts.Noqa,
		CacheDir:    opts.CacheDir,
		CacheMaxAge: opts.CacheMaxAge,
		ClearCache:  opts.ClearCache,
		Logger:      opts.Logger,
	})
	if err != nil {
		return nil, ProcessOptions{}, fmt.Errorf("error creating engine: %w", err)
	}

	popts := ProcessOptions{
		Exclude:  append(config.Exclude, opts.Exclude...),
		TestFile: config.TestFile,
		Workers:  config.Workers,
	}
	if opts.Workers > 0 {
		popts.Workers = opts.Workers
	}
	return engine, popts, nil
}

// ProcessOptions control how directories are traversed and checked.
type ProcessOptions struct {
	Exclude  []string
	TestFile string
	// Workers bounds concurrent file checks; zero means one per CPU.
	Workers int
	// Progress receives a progress bar while a directory is checked. Nil
	// disables it.
	Progress io.Writer
}

func (o ProcessOptions) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return runtime.NumCPU()
}

// ProcessFiles checks every path in order. A failing path does not stop the
// others; all failures are returned together.
func ProcessFiles(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	paths []string,
	opts ProcessOptions,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	var (
		allIssues []tt.Issue
		errs      []error
	)
	for _, path := range paths {
		issues, err := ProcessPath(ctx, logger, engine, path, opts, processor)
		allIssues = append(allIssues, issues...)
		if err != nil {
			if logger != nil {
				logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			}
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}

	return allIssues, errors.Join(errs...)
}

// ProcessPath checks a file or every source file under a directory. Issues
// come back grouped by file in traversal order. In a directory, files that
// cannot be checked are logged and skipped; a single file that cannot be
// checked is an error.
func ProcessPath(
	ctx context.Context,
	logger *zap.Logger,
	engine LintEngine,
	path string,
	opts ProcessOptions,
	processor func(LintEngine, string) ([]tt.Issue, error),
) ([]tt.Issue, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		return processor(engine, path)
	}

	testFile := opts.TestFile
	if testFile == "" {
		testFile = DefaultTestFile
	}
	sc := scanner.New(path, SourceExtension).
		ExcludeNames(testFile).
		ExcludeGlobs(opts.Exclude...)
	files, err := sc.Scan()
	if err != nil {
		return nil, fmt.Errorf("error walking %s: %w", path, err)
	}
	if logger != nil {
		for _, skipErr := range sc.Skipped() {
			logger.Error("Skipping unreadable entry", zap.String("dir", path), zap.Error(skipErr))
		}
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil && len(files) > 0 {
		bar = newProgressBar(opts.Progress, path, len(files))
	}

	// each worker writes only its own slot, so the merge below follows
	// traversal order rather than completion order
	results := make([][]tt.Issue, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())

	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		fp := file.Path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fileIssues, err := processor(engine, fp)
			if err != nil {
				if logger != nil {
					logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				}
			} else {
				results[i] = fileIssues
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	waitErr := g.Wait()
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(opts.Progress)
	}

	var issues []tt.Issue
	for _, fileIssues := range results {
		issues = append(issues, fileIssues...)
	}

	if waitErr != nil {
		return issues, waitErr
	}
	if err := ctx.Err(); err != nil {
		return issues, err
	}
	return issues, nil
}

func newProgressBar(w io.Writer, description string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}

func ProcessFile(engine LintEngine, filePath string) ([]tt.Issue, error) {
	return engine.Run(filePath)
}

func ProcessSource(engine LintEngine, filename string, source []byte) []tt.Issue {
	return engine.RunSource(filename, source)
}
