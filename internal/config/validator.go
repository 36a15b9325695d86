package config

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/types"
)

// Validate checks a layered configuration before it seeds a run. Section
// errors come back as ConfigError so the CLI can report field and value;
// when several sections fail, all of them surface in one pass.
func Validate(cfg *Config) error {
	multi := sgerrors.NewMultiError([]error{
		validateSearch(&cfg.Search),
		validateWalk(&cfg.Walk),
		validateWatch(&cfg.Watch),
	})
	if len(multi.Errors) == 0 {
		return nil
	}
	return multi
}

func validateSearch(search *SearchDefaults) error {
	if _, err := types.ParseCaseMode(search.Case); err != nil {
		return sgerrors.NewConfigError("search.case", search.Case, err)
	}
	if _, err := types.ParseCategorySet(search.Kinds); err != nil {
		return sgerrors.NewConfigError("search.kinds", search.Kinds, err)
	}
	if search.MaxCount < 0 {
		return sgerrors.NewConfigError("search.max_count", fmt.Sprint(search.MaxCount),
			fmt.Errorf("cannot be negative"))
	}
	if search.Workers < 0 {
		return sgerrors.NewConfigError("search.workers", fmt.Sprint(search.Workers),
			fmt.Errorf("cannot be negative"))
	}
	return nil
}

func validateWalk(walk *WalkDefaults) error {
	if walk.MaxFileSize <= 0 {
		return sgerrors.NewConfigError("walk.max_file_size", fmt.Sprint(walk.MaxFileSize),
			fmt.Errorf("must be positive"))
	}
	for _, pattern := range walk.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return sgerrors.NewConfigError("walk.exclude", pattern,
				fmt.Errorf("invalid glob pattern"))
		}
	}
	return nil
}

func validateWatch(watch *WatchDefaults) error {
	if watch.DebounceMs < 0 {
		return sgerrors.NewConfigError("watch.debounce_ms", fmt.Sprint(watch.DebounceMs),
			fmt.Errorf("cannot be negative"))
	}
	return nil
}
