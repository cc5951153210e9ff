package hfbatch

import (
	"context"
	"errors"
)

// Fetcher is the hub-fetch collaborator: it downloads every repository
// file matching pattern into destDir and returns the local paths of the
// files it wrote, digest sidecars included.
//
// The orchestrator treats any returned error as transient and retries per
// the RetryPolicy, unless the error is classified permanent (see
// Permanent and IsPermanent), in which case the remaining retries for
// that quant are skipped.
type Fetcher interface {
	Fetch(ctx context.Context, repoID, pattern, destDir string) ([]string, error)
}

// PermanentError marks a fetch failure that retrying cannot fix, such as
// a missing or gated repository.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the retry loop short-circuits. Returns nil if
// err is nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err should skip the remaining retries for
// its quant. Covers explicit Permanent wrapping plus the sentinel
// conditions that never resolve on retry.
func IsPermanent(err error) bool {
	var pe *PermanentError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, ErrRepoNotFound) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrNoMatchingFiles)
}
