// Package walker enumerates the files to scan, honoring skip globs and
// hidden-file rules. Traversal order is deterministic: directory entries
// are visited in sorted name order.
package walker

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// SkipGlobs is a compiled set of fnmatch-style patterns. A file or
// directory is skipped when any pattern matches its basename, its path,
// or a parent directory path.
type SkipGlobs struct {
	globs []glob.Glob
}

// CompileSkips compiles skip patterns. Each element may itself be a
// comma-separated pattern list. An invalid pattern is an error, reported
// before any scanning starts.
func CompileSkips(patterns []string) (*SkipGlobs, error) {
	s := &SkipGlobs{}
	for _, list := range patterns {
		for _, pattern := range strings.Split(list, ",") {
			pattern = strings.TrimSpace(pattern)
			if pattern == "" {
				continue
			}
			g, err := glob.Compile(pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid skip glob %q: %w", pattern, err)
			}
			s.globs = append(s.globs, g)
		}
	}
	return s, nil
}

// Match reports whether any skip pattern matches name.
func (s *SkipGlobs) Match(name string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// IsHidden reports whether the path's basename starts with a dot. "",
// "." and ".." never count as hidden, so scanning the current directory
// works without -H.
func IsHidden(path string, checkHidden bool) bool {
	if checkHidden {
		return false
	}
	base := filepath.Base(path)
	switch base {
	case "", ".", "..", string(filepath.Separator):
		return false
	}
	return strings.HasPrefix(base, ".")
}

// Walker feeds file paths to a scan callback.
type Walker struct {
	// Skips are the compiled skip globs; may be nil.
	Skips *SkipGlobs
	// CheckHidden includes hidden files and directories.
	CheckHidden bool
}

// Walk visits every target. Directories are traversed recursively; plain
// files are passed through the same skip rules. fn is invoked once per
// surviving file; a non-nil error from fn aborts the walk.
func (w *Walker) Walk(targets []string, fn func(path string) error) error {
	for _, target := range targets {
		// ignore hidden targets
		if IsHidden(target, w.CheckHidden) {
			continue
		}

		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			if err := w.walkDir(target, fn); err != nil {
				return err
			}
			continue
		}

		if !w.Skips.Match(target) {
			if err := fn(target); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Walker) walkDir(dir string, fn func(path string) error) error {
	// A hidden directory hides its whole subtree: everything below it is
	// unreachable without -H, including non-hidden subdirectories.
	if w.Skips.Match(dir) || IsHidden(dir, w.CheckHidden) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// unreadable directories degrade to zero findings
		return nil
	}

	// os.ReadDir sorts by name, keeping traversal deterministic.
	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		if entry.IsDir() {
			if !w.Skips.Match(name) {
				subdirs = append(subdirs, path)
			}
			continue
		}
		if IsHidden(name, w.CheckHidden) {
			continue
		}
		if w.Skips.Match(name) || w.Skips.Match(path) {
			continue
		}
		if err := fn(path); err != nil {
			return err
		}
	}

	for _, sub := range subdirs {
		if err := w.walkDir(sub, fn); err != nil {
			return err
		}
	}
	return nil
}
