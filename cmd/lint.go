package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gnolang/pystyle/formatter"
	"github.com/gnolang/pystyle/internal"
	tt "github.com/gnolang/pystyle/internal/types"
	"github.com/gnolang/pystyle/lint"
)

// lintParams holds the flags of the lint command.
type lintParams struct {
	ignorePaths string
	jsonOutput  bool
	outPath     string
	colorMode   string
	progress    bool
	cacheDir    string
	cacheMaxAge time.Duration
	clearCache  bool
	noqa        bool
	workers     int
	showSource  bool
}

var lintFlags lintParams

var lintCmd = &cobra.Command{
	Use:   "lint [paths...]",
	Long:  "Check Python files and directories for style issues. A path of '-' reads the source from standard input.",
	Short: "Check Python files and directories for style issues",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("please provide file or directory paths")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()

		count, err := runLint(ctx, logger, cfgFile, lintFlags, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrIssuesFound
		}
		return nil
	},
}

func addLintFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&lintFlags.ignorePaths, "ignore-paths", "", "Comma-separated list of path globs to skip in directories")
	flags.BoolVar(&lintFlags.jsonOutput, "json", false, "Output issues in JSON format")
	flags.StringVarP(&lintFlags.outPath, "output", "o", "", "Write the report to this file instead of stdout")
	flags.StringVar(&lintFlags.colorMode, "color", "auto", "Colorize output: auto, always or never")
	flags.BoolVar(&lintFlags.progress, "progress", false, "Show a progress bar on stderr while checking directories")
	flags.StringVar(&lintFlags.cacheDir, "cache-dir", "", "Reuse results of unchanged files stored in this directory")
	flags.DurationVar(&lintFlags.cacheMaxAge, "cache-max-age", 0, "Recheck files whose cached results are older than this (0: never expire)")
	flags.BoolVar(&lintFlags.clearCache, "clear-cache", false, "Drop all cached results before checking")
	flags.BoolVar(&lintFlags.noqa, "noqa", false, "Honor '# noqa' suppression comments")
	flags.IntVar(&lintFlags.workers, "workers", 0, "Number of files checked concurrently (default: one per CPU)")
	flags.BoolVar(&lintFlags.showSource, "show-source", false, "Print the offending source line under each issue")
}

func init() {
	addLintFlags(lintCmd)
}

// stdinPath reads the source from standard input when given as a path.
const stdinPath = "-"

// stdinName is the file name reported for standard input.
const stdinName = "<stdin>"

// runLint checks paths and prints the report. It returns the number of
// issues found.
func runLint(
	ctx context.Context,
	logger *zap.Logger,
	configPath string,
	params lintParams,
	paths []string,
	stdin io.Reader,
	stdout, stderr io.Writer,
) (int, error) {
	switch params.colorMode {
	case "auto", "always", "never":
	default:
		return 0, fmt.Errorf("invalid --color value %q", params.colorMode)
	}

	engine, opts, err := lint.New(".", configPath, lint.Options{
		Noqa:        params.noqa,
		CacheDir:    params.cacheDir,
		CacheMaxAge: params.cacheMaxAge,
		ClearCache:  params.clearCache,
		Workers:     params.workers,
		Exclude:     splitList(params.ignorePaths),
		Logger:      logger,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to initialize lint engine: %w", err)
	}
	defer func() {
		if err := engine.Close(); err != nil {
			logger.Warn("Failed to save cache", zap.Error(err))
		}
	}()

	if params.progress && isTerminal(stderr) {
		opts.Progress = stderr
	}

	var (
		issues  []tt.Issue
		errs    []error
		sources = make(map[string]*internal.SourceCode)
	)
	for _, path := range paths {
		if path != stdinPath {
			fileIssues, err := lint.ProcessFiles(ctx, logger, engine, []string{path}, opts, lint.ProcessFile)
			issues = append(issues, fileIssues...)
			if err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if stdin == nil {
			errs = append(errs, errors.New("no standard input available"))
			continue
		}
		src, err := io.ReadAll(stdin)
		if err != nil {
			errs = append(errs, fmt.Errorf("error reading standard input: %w", err))
			continue
		}
		sources[stdinName] = internal.NewSourceCode(src)
		issues = append(issues, lint.ProcessSource(engine, stdinName, src)...)
	}
	procErr := errors.Join(errs...)

	out := stdout
	if params.outPath != "" {
		f, err := os.Create(params.outPath)
		if err != nil {
			return len(issues), fmt.Errorf("error creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	useColor := params.colorMode == "always" ||
		(params.colorMode == "auto" && params.outPath == "" && isTerminal(stdout) && !color.NoColor)
	if err := printIssues(logger, out, issues, sources, params.jsonOutput, formatter.Options{
		Color:      useColor,
		ShowSource: params.showSource,
	}); err != nil {
		return len(issues), err
	}

	return len(issues), procErr
}

// printIssues writes the report, one file after another in the order the
// files were checked. Sources not on disk are looked up in sources.
func printIssues(
	logger *zap.Logger,
	w io.Writer,
	issues []tt.Issue,
	sources map[string]*internal.SourceCode,
	isJson bool,
	opts formatter.Options,
) error {
	if isJson {
		d, err := formatter.FormatJSON(issues)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(d))
		return err
	}

	for _, report := range formatter.GroupByFile(issues) {
		source := sources[report.Path]
		if opts.ShowSource && source == nil {
			var err error
			source, err = internal.ReadSourceCode(report.Path)
			if err != nil {
				logger.Error("Error reading source file", zap.String("file", report.Path), zap.Error(err))
			}
		}
		output := formatter.GenerateFormattedIssue(report.Issues, source, opts)
		if _, err := io.WriteString(w, output); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
