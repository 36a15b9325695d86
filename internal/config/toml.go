package config

import (
	"log"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
)

// tomlConfig mirrors Config with pointer fields so absent keys leave the
// layered value alone.
type tomlConfig struct {
	Search struct {
		Kinds     *string `toml:"kinds"`
		Case      *string `toml:"case"`
		WholeWord *bool   `toml:"whole_word"`
		MaxCount  *int    `toml:"max_count"`
		Workers   *int    `toml:"workers"`
	} `toml:"search"`
	Walk struct {
		Exclude []string `toml:"exclude"`
		// MaxFileSize accepts a byte count or a size string like "10MB".
		MaxFileSize       any   `toml:"max_file_size"`
		FollowSymlinks    *bool `toml:"follow_symlinks"`
		ArtifactDetection *bool `toml:"artifact_detection"`
	} `toml:"walk"`
	Watch struct {
		DebounceMs *int `toml:"debounce_ms"`
	} `toml:"watch"`
}

// applyTOMLFile layers one .sgrep.toml file onto cfg. Missing files are
// skipped.
func applyTOMLFile(cfg *Config, path string) error {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return sgerrors.NewFileError("read", path, err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(content, &tc); err != nil {
		return sgerrors.NewConfigError("toml", "", err)
	}

	if tc.Search.Kinds != nil {
		cfg.Search.Kinds = *tc.Search.Kinds
	}
	if tc.Search.Case != nil {
		cfg.Search.Case = *tc.Search.Case
	}
	if tc.Search.WholeWord != nil {
		cfg.Search.WholeWord = *tc.Search.WholeWord
	}
	if tc.Search.MaxCount != nil {
		cfg.Search.MaxCount = *tc.Search.MaxCount
	}
	if tc.Search.Workers != nil {
		cfg.Search.Workers = *tc.Search.Workers
	}
	if len(tc.Walk.Exclude) > 0 {
		cfg.Walk.Exclude = append(cfg.Walk.Exclude, tc.Walk.Exclude...)
	}
	switch v := tc.Walk.MaxFileSize.(type) {
	case nil:
	case int64:
		cfg.Walk.MaxFileSize = v
	case float64:
		cfg.Walk.MaxFileSize = int64(v)
	case string:
		sz, err := ParseSize(v)
		if err != nil {
			return sgerrors.NewConfigError("walk.max_file_size", v, err)
		}
		cfg.Walk.MaxFileSize = sz
	default:
		log.Printf("WARNING: invalid value for 'max_file_size' in TOML config, expected size but got %T", v)
	}
	if tc.Walk.FollowSymlinks != nil {
		cfg.Walk.FollowSymlinks = *tc.Walk.FollowSymlinks
	}
	if tc.Walk.ArtifactDetection != nil {
		cfg.Walk.ArtifactDetection = *tc.Walk.ArtifactDetection
	}
	if tc.Watch.DebounceMs != nil {
		cfg.Watch.DebounceMs = *tc.Watch.DebounceMs
	}

	return nil
}
