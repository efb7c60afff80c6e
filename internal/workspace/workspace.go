// Package workspace manages the run workspace directories.
//
// Every pipeline invocation starts from an empty chunk, output, diff-staging,
// and log directory. Reset clears the contents of each managed directory
// without removing the directory entry itself, creating it if missing, so
// repeated runs are idempotent. A workspace is owned by exactly one
// invocation at a time; no locking is performed.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsafeResetTarget guards against clearing a directory that an unset or
// misconfigured path value would resolve to, such as the filesystem root.
var ErrUnsafeResetTarget = errors.New("unsafe reset target")

// Reset empties every given directory and guarantees it exists afterwards.
// Safe to call when a directory is missing or already empty. Duplicate
// entries are cleared once.
func Reset(dirs ...string) error {
	seen := make(map[string]bool)
	for _, dir := range dirs {
		clean, err := checkTarget(dir)
		if err != nil {
			return err
		}
		if seen[clean] {
			continue
		}
		seen[clean] = true
		if err := clearDir(clean); err != nil {
			return err
		}
	}
	return nil
}

// checkTarget rejects path values whose deletion would be catastrophic:
// empty strings, the working directory, and filesystem or volume roots.
func checkTarget(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", fmt.Errorf("%w: empty path", ErrUnsafeResetTarget)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrUnsafeResetTarget, dir, err)
	}
	if filepath.Dir(abs) == abs {
		return "", fmt.Errorf("%w: %s resolves to a filesystem root", ErrUnsafeResetTarget, dir)
	}
	if clean := filepath.Clean(dir); clean == "." || clean == ".." {
		return "", fmt.Errorf("%w: %s resolves to the working directory", ErrUnsafeResetTarget, dir)
	}
	return abs, nil
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating %s: %w", dir, err)
			}
			return nil
		}
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("clearing %s: %w", dir, err)
		}
	}
	return nil
}
