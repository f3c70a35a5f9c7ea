package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matsen/citenet/internal/paper"
	"github.com/matsen/citenet/internal/scanner"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one indexing cycle over the library",
	Long: `Index every new document in the library, rebuild the citation graph
and save the index. Documents already in the index are not re-resolved.

Examples:
  citenet scan
  citenet scan --library ~/papers --human`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	lib := mustOpenLibrary()
	defer lib.log.Sync()

	st := lib.openStore()

	opts := []scanner.Option{
		scanner.WithAfterCycle(func(_ context.Context, records map[string]paper.Paper) {
			if _, err := refreshCache(lib.root, records); err != nil {
				lib.log.Warn("query cache refresh failed", zap.Error(err))
			}
		}),
	}
	if humanOutput {
		opts = append(opts, scanner.WithProgress(newProgress()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := lib.newScheduler(st, opts...).RunOnce(ctx)
	if err != nil {
		exitWithError(ExitError, "scan failed: %v", err)
	}

	if humanOutput {
		outputHuman("Indexed %d new of %d documents in %s\n", len(res.Indexed), res.Candidates, formatDuration(res.Duration))
		outputHuman("%d papers, %d citation edges\n", res.Papers, res.Edges)
		if res.SaveErrors > 0 {
			outputHuman("warning: %d index writes failed, see log\n", res.SaveErrors)
		}
	} else {
		if res.Indexed == nil {
			res.Indexed = []string{}
		}
		outputJSON(res)
	}
	return nil
}

// newProgress returns a progress callback that draws a bar on stderr once
// the number of new documents is known.
func newProgress() scanner.ProgressFunc {
	var bar *progressbar.ProgressBar
	var start time.Time

	return func(done, total int, filename string) {
		if bar == nil {
			start = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Indexing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}

		_ = bar.Set(done)

		elapsed := time.Since(start)
		if done > 0 && elapsed > 0 {
			eta := time.Duration(float64(elapsed) / float64(done) * float64(total-done))
			bar.Describe(fmt.Sprintf("[cyan]Indexing[reset] %s ETA: %s", truncateString(filename, 30), formatDuration(eta)))
		}
	}
}
