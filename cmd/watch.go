package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/pystyle/formatter"
	"github.com/gnolang/pystyle/internal"
	tt "github.com/gnolang/pystyle/internal/types"
	"github.com/gnolang/pystyle/lint"
)

var (
	watchDelay time.Duration
	watchNoqa  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch [dirs...]",
	Short: "Re-check Python files whenever they change",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			args = []string{"."}
		}

		engine, _, err := lint.New(".", cfgFile, lint.Options{Noqa: watchNoqa, Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to initialize lint engine: %w", err)
		}

		w, err := internal.NewWatcher(engine, newWatchReporter(cmd.OutOrStdout()))
		if err != nil {
			return err
		}
		w.SetDelay(watchDelay)
		for _, dir := range args {
			if err := w.Add(dir); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("Watching for changes", zap.Strings("dirs", args))
		return w.Run(ctx)
	},
}

// newWatchReporter prints the issues of each re-checked file. Reports may
// arrive from several timers at once, so writes are serialized.
func newWatchReporter(out io.Writer) internal.ReportFunc {
	var mu sync.Mutex
	return func(filename string, issues []tt.Issue) {
		mu.Lock()
		defer mu.Unlock()

		if len(issues) == 0 {
			fmt.Fprintf(out, "%s: no issues\n", filename)
			return
		}
		io.WriteString(out, formatter.GenerateFormattedIssue(issues, nil, formatter.Options{}))
	}
}

func init() {
	watchCmd.Flags().DurationVar(&watchDelay, "delay", internal.DefaultWatchDelay, "Wait this long after the last write before re-checking a file")
	watchCmd.Flags().BoolVar(&watchNoqa, "noqa", false, "Honor '# noqa' suppression comments")
}
