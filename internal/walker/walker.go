// Package walker enumerates the files a search run visits: a single
// explicit file, or a directory walked recursively with extension,
// exclude-glob, and symlink-cycle handling.
package walker

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/sgrep/internal/debug"
	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/grammar"
	"github.com/standardbeagle/sgrep/internal/types"
)

// DefaultExcludes are always applied when walking a directory. Patterns
// match slash-separated paths relative to the walk root; directories are
// additionally checked with a trailing slash so the whole subtree prunes.
var DefaultExcludes = []string{
	"**/.git/**",
	"**/.*/**", // hidden directories
	"**/node_modules/**",
	"**/vendor/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/bin/**",
	"**/obj/**",
	"**/__pycache__/**",
	"**/zig-out/**",
	"**/zig-cache/**",
	"**/_build/**",
}

// Options configure a Walker.
type Options struct {
	// Excludes are extra doublestar globs on top of DefaultExcludes.
	Excludes []string
	// FollowSymlinks descends into symlinked directories. Cycles are
	// guarded either way.
	FollowSymlinks bool
	// DetectArtifacts parses build manifests at the root (Cargo.toml,
	// package.json, tsconfig.json, pyproject.toml) for extra output
	// directories to exclude.
	DetectArtifacts bool
}

type Walker struct {
	excludes []string
	follow   bool
	detect   bool
}

func New(opts Options) *Walker {
	excludes := make([]string, 0, len(DefaultExcludes)+len(opts.Excludes))
	excludes = append(excludes, DefaultExcludes...)
	excludes = append(excludes, opts.Excludes...)
	return &Walker{
		excludes: excludes,
		follow:   opts.FollowSymlinks,
		detect:   opts.DetectArtifacts,
	}
}

// Discover returns the file tasks under root for the language, in
// deterministic lexical walk order. An explicit file path is always
// returned as one task, with a warning when its extension does not match
// the language. Unreadable entries inside a directory walk are skipped,
// not fatal; only a missing root or cancellation fails.
func (w *Walker) Discover(ctx context.Context, root string, lang *grammar.Language) ([]types.FileTask, []types.Warning, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, sgerrors.NewFileError("stat", root, err)
	}

	if !info.IsDir() {
		var warnings []types.Warning
		if !hasExtension(root, lang.Extensions()) {
			warnings = append(warnings, types.Warning{
				Path:    root,
				Message: "extension does not match language " + lang.Tag + ", searching anyway",
			})
		}
		return []types.FileTask{{Path: root, Language: lang.Tag}}, warnings, nil
	}

	excludes := w.excludes
	if w.detect {
		if detected := DetectArtifactDirs(root); len(detected) > 0 {
			debug.Log("WALK", "artifact detection added excludes: %v", detected)
			excludes = append(append([]string(nil), excludes...), detected...)
		}
	}

	exts := make(map[string]bool, len(lang.Extensions()))
	for _, ext := range lang.Extensions() {
		exts[ext] = true
	}

	var tasks []types.FileTask
	visited := make(map[string]bool)
	if err := w.walkDir(ctx, root, root, lang.Tag, exts, excludes, visited, &tasks); err != nil {
		return nil, nil, err
	}
	return tasks, nil, nil
}

func (w *Walker) walkDir(ctx context.Context, top, dir, tag string, exts map[string]bool, excludes []string, visited map[string]bool, tasks *[]types.FileTask) error {
	return filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if walkErr != nil {
			debug.Log("WALK", "skipping %s: %v", path, walkErr)
			return nil
		}

		if info.IsDir() {
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				return filepath.SkipDir
			}
			if visited[real] {
				return filepath.SkipDir
			}
			visited[real] = true

			if path != top {
				rel := relSlash(top, path)
				if matchesAny(excludes, rel) || matchesAny(excludes, rel+"/") {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if info.Mode()&os.ModeSymlink != 0 {
			if !w.follow {
				return nil
			}
			rel := relSlash(top, path)
			if matchesAny(excludes, rel) || matchesAny(excludes, rel+"/") {
				return nil
			}
			real, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil
			}
			target, err := os.Stat(real)
			if err != nil {
				return nil
			}
			if target.IsDir() {
				if visited[real] {
					return nil
				}
				return w.walkDir(ctx, top, real, tag, exts, excludes, visited, tasks)
			}
			path, info = real, target
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if matchesAny(excludes, relSlash(top, path)) {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		*tasks = append(*tasks, types.FileTask{Path: path, Language: tag})
		return nil
	})
}

func hasExtension(path string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// relSlash normalizes path for glob matching: relative to root when
// possible, always slash-separated.
func relSlash(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	return filepath.ToSlash(rel)
}

func matchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		ok, err := doublestar.Match(pattern, path)
		if err != nil {
			// A bad pattern never aborts the walk.
			continue
		}
		if ok {
			return true
		}
	}
	return false
}
