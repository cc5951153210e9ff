// Command hf-batch-downloader batch-downloads model artifact sets from a
// model hub into a deterministic local directory layout.
//
// Environment:
//   - HF_TOKEN: access token for gated repositories (optional)
//   - HF_ENDPOINT: hub endpoint override, e.g. a mirror (optional)
//
// The process exits zero when the batch ran to completion even if
// individual models failed; their failures are recorded in the manifests
// and the log. Only a configuration problem or an interrupt yields a
// non-zero exit.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	hfbatch "github.com/echenim/hf-batch-downloader"
)

// CLI exit codes.
const (
	// ExitSuccess indicates the batch ran to completion.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigError indicates the descriptor file was missing or invalid.
	ExitConfigError = 2

	// ExitInterrupted indicates the run was cancelled by a signal.
	ExitInterrupted = 3
)

func main() {
	// One run-scoped cancellation signal covers the in-flight fetch and
	// any backoff wait.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := hfbatch.NewCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		os.Exit(exitCodeFromError(err))
	}
	os.Exit(ExitSuccess)
}

// exitCodeFromError maps error types to exit codes.
func exitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, hfbatch.ErrInvalidDescriptor):
		return ExitConfigError
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	default:
		return ExitGeneralError
	}
}
