// Package walker enumerates source files under a root directory using
// doublestar glob patterns. The walk is deterministic: results come back
// sorted by relative path so downstream reports are reproducible.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/greyhaven-ai/doccov/pkg/logger"
)

// ErrRootNotFound indicates the configured root directory does not exist.
var ErrRootNotFound = errors.New("root path not found")

// skipDirs are directory names that never contain scannable sources.
var skipDirs = map[string]bool{
	"node_modules":  true,
	"dist":          true,
	"build":         true,
	"coverage":      true,
	"vendor":        true,
	"venv":          true,
	"__pycache__":   true,
	".pytest_cache": true,
	".mypy_cache":   true,
	"site-packages": true,
}

// IsSkippedDir reports whether a directory name is always excluded from
// walks, either because it is a known build artifact directory or hidden.
func IsSkippedDir(name string) bool {
	return skipDirs[name] || strings.HasPrefix(name, ".")
}

// Config controls a walk.
type Config struct {
	// Root is the directory to walk. It must exist and be a directory.
	Root string
	// Includes are doublestar patterns matched against root-relative paths.
	// Empty means every file is a candidate.
	Includes []string
	// Excludes are doublestar patterns; a match removes the file even if an
	// include pattern matched.
	Excludes []string
}

// Warning records a path that was skipped without failing the walk.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result holds the outcome of one walk.
type Result struct {
	// Files are root-relative paths in sorted order.
	Files    []string
	Warnings []Warning
}

// Walk enumerates files under cfg.Root matching the include/exclude
// patterns. A missing or unreadable root is a hard error; unreadable
// subdirectories and files are skipped with a recorded warning.
func Walk(ctx context.Context, cfg Config) (*Result, error) {
	info, err := os.Stat(cfg.Root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrRootNotFound, "%s", cfg.Root)
		}
		return nil, errors.Wrapf(err, "stat root %s", cfg.Root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root path is not a directory: %s", cfg.Root)
	}

	for _, pattern := range append(append([]string{}, cfg.Includes...), cfg.Excludes...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid glob pattern: %s", pattern)
		}
	}

	result := &Result{}

	walkErr := filepath.WalkDir(cfg.Root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rel, relErr := filepath.Rel(cfg.Root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			logger.G(ctx).WithField("path", path).WithError(err).Warn("skipping unreadable path")
			result.Warnings = append(result.Warnings, Warning{Path: rel, Message: err.Error()})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path == cfg.Root {
				return nil
			}
			if IsSkippedDir(filepath.Base(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if !matches(rel, cfg.Includes, cfg.Excludes) {
			return nil
		}

		result.Files = append(result.Files, rel)
		return nil
	})
	if walkErr != nil {
		return nil, errors.Wrap(walkErr, "walk source tree")
	}

	sort.Strings(result.Files)
	return result, nil
}

// matches applies include patterns first, then excludes.
func matches(rel string, includes, excludes []string) bool {
	if len(includes) > 0 {
		included := false
		for _, pattern := range includes {
			if ok, _ := doublestar.Match(pattern, rel); ok {
				included = true
				break
			}
		}
		if !included {
			return false
		}
	}

	for _, pattern := range excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return false
		}
	}
	return true
}
