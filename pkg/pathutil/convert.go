// Package pathutil converts between absolute and relative paths.
//
// The pipeline carries absolute paths internally to avoid ambiguity;
// user-facing output uses paths relative to the search root for
// readability. This package is the conversion layer between the two.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/sgrep/internal/types"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.rs", "/home/user/project") → "src/main.rs"
//   - ToRelative("/other/location/file.rs", "/home/user/project") → "/other/location/file.rs" (outside root)
//   - ToRelative("src/main.rs", "/home/user/project") → "src/main.rs" (already relative)
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" {
		return absPath
	}

	if !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// A ".."-prefixed result means the file sits outside the root; the
	// absolute path is clearer there.
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeMatches converts match paths from absolute to relative.
// Creates a new slice without modifying the original results.
//
// Intended for output boundaries: CLI text output, JSON serialization,
// MCP responses.
func ToRelativeMatches(matches []types.Match, rootDir string) []types.Match {
	if len(matches) == 0 {
		return matches
	}

	converted := make([]types.Match, len(matches))
	copy(converted, matches)

	for i := range converted {
		converted[i].File = ToRelative(converted[i].File, rootDir)
	}

	return converted
}

// ToRelativeWarnings converts warning paths from absolute to relative,
// leaving pathless warnings untouched.
func ToRelativeWarnings(warnings []types.Warning, rootDir string) []types.Warning {
	if len(warnings) == 0 {
		return warnings
	}

	converted := make([]types.Warning, len(warnings))
	copy(converted, warnings)

	for i := range converted {
		if converted[i].Path != "" {
			converted[i].Path = ToRelative(converted[i].Path, rootDir)
		}
	}

	return converted
}
