package hfbatch

import (
	"errors"
	"strings"
)

// Sentinel errors for batch download operations.
// Use errors.Is() to check for specific error conditions.
var (
	// ErrInvalidDescriptor indicates a descriptor with missing or empty
	// required fields.
	ErrInvalidDescriptor = errors.New("hfbatch: invalid model descriptor")

	// ErrRepoNotFound indicates the hub repository does not exist.
	// Fetch failures wrapping it are permanent and are not retried.
	ErrRepoNotFound = errors.New("hfbatch: repository not found")

	// ErrUnauthorized indicates the repository is gated or requires
	// authentication. Permanent; set HF_TOKEN to access gated repos.
	ErrUnauthorized = errors.New("hfbatch: repository requires authentication")

	// ErrNoMatchingFiles indicates the repository contains no files
	// matching the requested quant pattern. Permanent.
	ErrNoMatchingFiles = errors.New("hfbatch: no files match quant pattern")

	// ErrFetch indicates a transient fetch failure (network error,
	// timeout, server error). Retried per the RetryPolicy.
	ErrFetch = errors.New("hfbatch: fetch failed")

	// ErrStorage indicates a local filesystem operation failed.
	ErrStorage = errors.New("hfbatch: storage error")
)

// ConfigError reports every problem found while loading a descriptor file.
// It is fatal: the batch aborts before any download starts. All problems
// are collected in one pass rather than failing on the first.
type ConfigError struct {
	// Problems lists one message per invalid or missing field.
	Problems []string
}

// Error returns all problems joined on "; ".
func (e *ConfigError) Error() string {
	return "hfbatch: invalid config: " + strings.Join(e.Problems, "; ")
}

// Is reports ErrInvalidDescriptor so callers can test with errors.Is
// without naming the concrete type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidDescriptor
}
