package hfbatch

import (
	"fmt"
	"os"
	"path/filepath"
)

// PathPlanner maps model descriptors onto the local directory layout.
// Planning is pure: Plan never touches the filesystem.
type PathPlanner struct {
	// BaseDir is the root under which all model directories live.
	BaseDir string
}

// Plan returns the destination directory for d:
//
//	BaseDir/<org>/<model>/<size>
//
// Plan is deterministic and idempotent. Distinct descriptors collide only
// when org, model and size are all identical, in which case they
// intentionally share a directory. Returns ErrInvalidDescriptor if org,
// model or size is empty.
func (p PathPlanner) Plan(d ModelDescriptor) (string, error) {
	if d.Org == "" || d.Model == "" || d.Size == "" {
		return "", fmt.Errorf("%w: org, model and size must be non-empty (got %q/%q/%q)",
			ErrInvalidDescriptor, d.Org, d.Model, d.Size)
	}
	return filepath.Join(p.BaseDir, d.Org, d.Model, d.Size), nil
}

// ensureDir creates path and any missing parents. Re-creating an existing
// directory is a no-op, never an error.
func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrStorage, path, err)
	}
	return nil
}
