package hfbatch

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// sidecarSuffixes lists the recognized digest sidecar naming conventions
// and the algorithm each one implies. A sidecar for artifact "f" is named
// "f<suffix>".
var sidecarSuffixes = []struct {
	suffix string
	algo   func() hash.Hash
}{
	{".sha256", sha256.New},
	{".sha256sum", sha256.New},
	{".md5", md5.New},
}

// IsSidecar reports whether path names a digest sidecar file rather than
// an artifact.
func IsSidecar(path string) bool {
	for _, sc := range sidecarSuffixes {
		if strings.HasSuffix(path, sc.suffix) {
			return true
		}
	}
	return false
}

// trimSidecarSuffix returns the artifact path a sidecar belongs to, or
// path unchanged if it is not a sidecar.
func trimSidecarSuffix(path string) string {
	for _, sc := range sidecarSuffixes {
		if strings.HasSuffix(path, sc.suffix) {
			return strings.TrimSuffix(path, sc.suffix)
		}
	}
	return path
}

// VerifyFile checks path against any adjacent digest sidecar files.
//
// With no sidecar present the result is ChecksumAbsent, which is
// informational, never an error. When one or more sidecars exist, every
// recorded digest must match the artifact's computed digest for
// ChecksumVerified; any disagreement yields ChecksumMismatch. The
// comparison is case-insensitive against the first whitespace-delimited
// token of the sidecar, per standard digest-file conventions.
//
// An error is returned if the artifact cannot be read, or if a sidecar
// exists but cannot be read.
func VerifyFile(path string) (ChecksumStatus, error) {
	status := ChecksumAbsent

	for _, sc := range sidecarSuffixes {
		data, err := os.ReadFile(path + sc.suffix)
		if err != nil {
			if os.IsNotExist(err) {
				// No sidecar under this convention; try the next one.
				continue
			}
			return status, fmt.Errorf("%w: reading sidecar %s: %v", ErrStorage, path+sc.suffix, err)
		}

		expected := firstToken(string(data))
		if expected == "" {
			continue
		}

		actual, err := digestFile(path, sc.algo())
		if err != nil {
			return ChecksumAbsent, err
		}

		if !strings.EqualFold(expected, actual) {
			return ChecksumMismatch, nil
		}
		status = ChecksumVerified
	}

	return status, nil
}

// VerifyFiles aggregates VerifyFile across a downloaded artifact set.
// Sidecar files themselves are skipped. Any mismatch dominates; otherwise
// a single verified artifact yields ChecksumVerified, and a set with no
// sidecars at all yields ChecksumAbsent.
func VerifyFiles(paths []string) (ChecksumStatus, error) {
	status := ChecksumAbsent

	for _, path := range paths {
		if IsSidecar(path) {
			continue
		}
		s, err := VerifyFile(path)
		if err != nil {
			return status, err
		}
		switch s {
		case ChecksumMismatch:
			return ChecksumMismatch, nil
		case ChecksumVerified:
			status = ChecksumVerified
		}
	}

	return status, nil
}

// digestFile streams path through h and returns the hex-encoded digest.
func digestFile(path string, h hash.Hash) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrStorage, path, err)
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("%w: reading %s: %v", ErrStorage, path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// firstToken returns the first whitespace-delimited token of s, or "".
func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
