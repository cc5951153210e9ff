package hfbatch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewCommand creates the batch download command. The cmd/hf-batch-downloader
// binary executes it directly; parent CLI tools can add it to their own
// root command instead.
//
// Flags:
//   - --config    path to the descriptor file (required)
//   - --base-dir  root of the local layout (default "models")
//   - --log       log file path (default "logs/batch_download.log")
//   - --retries   retries per quant after the first attempt (default 3)
//   - --backoff   initial backoff in seconds (default 5)
//
// The command exits zero when the batch ran to completion, regardless of
// per-model failures; only a configuration failure (or cancellation)
// yields a non-zero exit.
func NewCommand() *cobra.Command {
	var (
		configPath string
		baseDir    string
		logPath    string
		retries    int
		backoff    int
	)

	cmd := &cobra.Command{
		Use:   "hf-batch-downloader",
		Short: "Batch download model artifacts from a model hub",
		Long: "Download the configured model artifact sets into a deterministic\n" +
			"local layout, verifying sidecar checksums and recording a manifest\n" +
			"per model directory.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail fast on config before opening any sink or directory.
			descriptors, err := LoadDescriptors(configPath)
			if err != nil {
				return err
			}

			zl, err := NewDualLogger(logPath)
			if err != nil {
				return err
			}
			defer zl.Sync()
			logger := NewZapLogger(zl.Sugar())

			fetcher := NewHubClient(
				WithHubBaseURL(os.Getenv("HF_ENDPOINT")),
				WithHubToken(os.Getenv("HF_TOKEN")),
				WithHubLogger(logger),
			)

			// Config treats zero MaxRetries as "use the default"; the flag
			// default is non-zero, so an explicit 0 here means no retries.
			maxRetries := retries
			if maxRetries == 0 {
				maxRetries = -1
			}

			orchestrator, err := NewOrchestrator(Config{
				BaseDir:     baseDir,
				MaxRetries:  maxRetries,
				BaseBackoff: time.Duration(backoff) * time.Second,
			}, fetcher, WithLogger(logger))
			if err != nil {
				return err
			}

			summary, runErr := orchestrator.Run(cmd.Context(), descriptors)
			printSummary(cmd.OutOrStdout(), summary)

			// Per-model failures are already in the summary and manifests;
			// only cancellation surfaces as an error.
			return runErr
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to JSON config file")
	cmd.Flags().StringVar(&baseDir, "base-dir", "models", "Base directory for downloads")
	cmd.Flags().StringVar(&logPath, "log", "logs/batch_download.log", "Log file path")
	cmd.Flags().IntVar(&retries, "retries", DefaultMaxRetries, "Max retries per quant")
	cmd.Flags().IntVar(&backoff, "backoff", int(DefaultBaseBackoff/time.Second), "Initial backoff in seconds")
	cmd.MarkFlagRequired("config")

	return cmd
}

// printSummary renders the end-of-batch summary.
func printSummary(w io.Writer, s BatchSummary) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "\nCompleted: %s succeeded, %s failed\n",
		green(s.Succeeded), red(s.Failed))
	fmt.Fprintf(w, "  Size: %.2f GB\n", float64(s.TotalBytes)/(1<<30))
	fmt.Fprintf(w, "  Duration: %s\n", formatDuration(s.TotalDuration))

	for _, r := range s.Results {
		switch {
		case !r.Succeeded():
			fmt.Fprintf(w, "  %s %s %s: %v\n", red("✗"), r.Descriptor, r.Quant, r.Err)
		case r.Checksum == ChecksumMismatch:
			fmt.Fprintf(w, "  %s %s %s: checksum mismatch\n", yellow("!"), r.Descriptor, r.Quant)
		}
	}
}
