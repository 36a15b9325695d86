// Package config loads run defaults from .sgrep.kdl / .sgrep.toml files.
// A global ~/.sgrep.kdl is applied first, then the project file layered
// over it; CLI flags override both.
package config

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/sgrep/internal/types"
)

// SearchDefaults seed the per-run search request.
type SearchDefaults struct {
	// Kinds is a comma-separated category list ("identifier,comment").
	// Empty means the identifier default.
	Kinds string
	// Case is "smart", "sensitive", or "insensitive".
	Case string
	// WholeWord matches tokens and word-bounded occurrences only.
	WholeWord bool
	// MaxCount stops collecting per file after N matches. Zero is unlimited.
	MaxCount int
	// Workers bounds file-level parallelism. Zero means NumCPU.
	Workers int
}

// WalkDefaults seed file enumeration.
type WalkDefaults struct {
	// Exclude holds extra doublestar globs on top of the built-in set.
	Exclude []string
	// MaxFileSize is the per-file byte cap.
	MaxFileSize int64
	// FollowSymlinks descends into symlinked directories.
	FollowSymlinks bool
	// ArtifactDetection parses build manifests for output dirs to skip.
	ArtifactDetection bool
}

// WatchDefaults seed watch mode.
type WatchDefaults struct {
	// DebounceMs batches change events before a rerun.
	DebounceMs int
}

type Config struct {
	Search SearchDefaults
	Walk   WalkDefaults
	Watch  WatchDefaults
}

// Default returns the built-in configuration used when no file overrides
// anything.
func Default() *Config {
	return &Config{
		Search: SearchDefaults{
			Case: "smart",
		},
		Walk: WalkDefaults{
			MaxFileSize:       types.DefaultMaxFileSize,
			ArtifactDetection: true,
		},
		Watch: WatchDefaults{
			DebounceMs: types.DefaultDebounceMs,
		},
	}
}

// Load builds the effective configuration for a project root: defaults,
// then the global ~/.sgrep.kdl, then the project's .sgrep.kdl (or
// .sgrep.toml when no KDL file exists). Missing files are fine; malformed
// ones are not.
func Load(projectRoot string) (*Config, error) {
	cfg := Default()

	if home, err := os.UserHomeDir(); err == nil {
		if err := applyKDLFile(cfg, filepath.Join(home, ".sgrep.kdl")); err != nil {
			return nil, err
		}
	}

	kdlPath := filepath.Join(projectRoot, ".sgrep.kdl")
	if fileExists(kdlPath) {
		if err := applyKDLFile(cfg, kdlPath); err != nil {
			return nil, err
		}
	} else if tomlPath := filepath.Join(projectRoot, ".sgrep.toml"); fileExists(tomlPath) {
		if err := applyTOMLFile(cfg, tomlPath); err != nil {
			return nil, err
		}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
