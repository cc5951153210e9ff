package hfbatch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultManifestName is the manifest filename written into each model
// directory.
const DefaultManifestName = "manifest.txt"

// DefaultLockTimeout is the maximum wait for the manifest file lock.
const DefaultLockTimeout = 30 * time.Second

// ManifestWriter records download results into per-directory manifests.
// Each result appends exactly one human-readable line to the manifest in
// the model's planned directory, creating the directory and file as
// needed. The manifest is append-only; lines are never rewritten, so
// entries accumulate across runs.
type ManifestWriter struct {
	// planner resolves each result's destination directory.
	planner PathPlanner

	// name is the manifest filename, DefaultManifestName unless overridden.
	name string

	// lockTimeout bounds the wait for the cross-process manifest lock.
	lockTimeout time.Duration
}

// NewManifestWriter creates a writer over the given planner.
func NewManifestWriter(planner PathPlanner) *ManifestWriter {
	return &ManifestWriter{
		planner:     planner,
		name:        DefaultManifestName,
		lockTimeout: DefaultLockTimeout,
	}
}

// Record appends one line for r to the manifest in r's model directory.
// Writers to the same manifest serialize through a cross-process file
// lock, so concurrent runs cannot interleave partial lines.
func (w *ManifestWriter) Record(r DownloadResult) error {
	dir, err := w.planner.Plan(r.Descriptor)
	if err != nil {
		return err
	}
	if err := ensureDir(dir); err != nil {
		return err
	}

	lock, err := newFileLock(filepath.Join(dir, ".manifest.lock"), w.lockTimeout)
	if err != nil {
		return fmt.Errorf("%w: creating manifest lock: %v", ErrStorage, err)
	}
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: acquiring manifest lock: %v", ErrStorage, err)
	}
	defer lock.Unlock()

	path := filepath.Join(dir, w.name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("%w: opening manifest %s: %v", ErrStorage, path, err)
	}

	if _, err := f.WriteString(formatEntry(r) + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("%w: writing manifest %s: %v", ErrStorage, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: closing manifest %s: %v", ErrStorage, path, err)
	}
	return nil
}

// formatEntry renders the tab-separated manifest line for r:
//
//	org/model  size  quant  dir  bytes  duration  checksum  outcome
//
// Failed results record outcome "failed: <reason>" with zero bytes rather
// than a fabricated success.
func formatEntry(r DownloadResult) string {
	outcome := "ok"
	if r.Err != nil {
		outcome = "failed: " + r.Err.Error()
	}
	return fmt.Sprintf("%s/%s\t%s\t%s\t%s\t%d\t%.1fs\t%s\t%s",
		r.Descriptor.Org, r.Descriptor.Model, r.Descriptor.Size,
		r.Quant, r.LocalDir, r.SizeBytes, r.Duration.Seconds(),
		r.Checksum, outcome)
}
