package hfbatch

import (
	"fmt"
	"time"
)

// Config configures a batch run.
type Config struct {
	// BaseDir is the root of the local directory layout. Each descriptor
	// resolves to BaseDir/<org>/<model>/<size>.
	BaseDir string

	// MaxRetries is the number of retries after the first failed attempt.
	// Zero means DefaultMaxRetries; use a negative value to disable retries.
	MaxRetries int

	// BaseBackoff is the delay before the first retry. Subsequent retries
	// double the delay. Zero means DefaultBaseBackoff.
	BaseBackoff time.Duration
}

// ModelDescriptor identifies one model entry to download, with one or more
// quantization variants. Descriptors are immutable once loaded.
type ModelDescriptor struct {
	// Org is the organization segment of the local layout, e.g. "acme".
	Org string `json:"org" yaml:"org"`

	// Model is the model name segment, e.g. "x".
	Model string `json:"model" yaml:"model"`

	// Size is the parameter-size segment, e.g. "7B".
	Size string `json:"size" yaml:"size"`

	// RepoID is the hub repository identifier, e.g. "acme/x-gguf".
	RepoID string `json:"repo_id" yaml:"repo_id"`

	// Quant lists the quantization variants to download, in order.
	Quant []string `json:"quant" yaml:"quant"`
}

// String returns the canonical form "org/model size".
func (d ModelDescriptor) String() string {
	return d.Org + "/" + d.Model + " " + d.Size
}

// ChecksumStatus reports the outcome of sidecar digest verification for a
// downloaded artifact set.
type ChecksumStatus int

const (
	// ChecksumAbsent means no sidecar digest file was found. This is
	// informational, not an error.
	ChecksumAbsent ChecksumStatus = iota

	// ChecksumVerified means every sidecar digest matched.
	ChecksumVerified

	// ChecksumMismatch means at least one sidecar digest did not match.
	ChecksumMismatch
)

// String returns the lowercase name used in manifests and logs.
func (s ChecksumStatus) String() string {
	switch s {
	case ChecksumVerified:
		return "verified"
	case ChecksumMismatch:
		return "mismatch"
	default:
		return "absent"
	}
}

// DownloadResult is the terminal outcome for one (descriptor, quant) pair.
// Exactly one is produced per pair, whether the download succeeded or
// exhausted its retries.
type DownloadResult struct {
	// Descriptor is the model entry this result belongs to.
	Descriptor ModelDescriptor

	// Quant is the quantization variant that was targeted.
	Quant string

	// LocalDir is the planned destination directory.
	LocalDir string

	// Files lists the downloaded file paths. Empty on failure.
	Files []string

	// SizeBytes is the total size of the downloaded files.
	SizeBytes int64

	// Duration is the wall-clock time spent on this pair, including
	// retries and backoff waits.
	Duration time.Duration

	// Checksum is the sidecar verification outcome. Meaningful only when
	// Err is nil.
	Checksum ChecksumStatus

	// Err is nil on success, or the final error after retries were
	// exhausted or short-circuited.
	Err error
}

// Succeeded reports whether the pair completed without a fetch failure.
// A checksum mismatch still counts as succeeded; the bytes were
// transferred and the mismatch is recorded separately.
func (r DownloadResult) Succeeded() bool {
	return r.Err == nil
}

// BatchSummary aggregates the outcome of a full batch run.
type BatchSummary struct {
	// Succeeded is the number of (descriptor, quant) pairs that completed.
	Succeeded int

	// Failed is the number of pairs that exhausted retries or hit a
	// permanent error.
	Failed int

	// TotalBytes is the total size across all succeeded pairs.
	TotalBytes int64

	// TotalDuration is the summed wall-clock duration of all succeeded
	// pairs.
	TotalDuration time.Duration

	// Results holds every result in completion order.
	Results []DownloadResult
}

// add folds one result into the summary.
func (s *BatchSummary) add(r DownloadResult) {
	s.Results = append(s.Results, r)
	if r.Succeeded() {
		s.Succeeded++
		s.TotalBytes += r.SizeBytes
		s.TotalDuration += r.Duration
	} else {
		s.Failed++
	}
}

// String renders the summary in the "N succeeded, M failed" form used at
// the end of a batch.
func (s BatchSummary) String() string {
	return fmt.Sprintf("%d succeeded, %d failed, %.2f GB in %s",
		s.Succeeded, s.Failed, float64(s.TotalBytes)/(1<<30), formatDuration(s.TotalDuration))
}

// formatDuration renders a duration as "Xm Ys".
func formatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
