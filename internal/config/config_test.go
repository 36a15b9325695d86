package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/types"
)

func TestApplyKDL_Empty(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "")
	require.NoError(t, err)

	assert.Equal(t, "smart", cfg.Search.Case)
	assert.Equal(t, int64(types.DefaultMaxFileSize), cfg.Walk.MaxFileSize)
	assert.True(t, cfg.Walk.ArtifactDetection)
	assert.Equal(t, types.DefaultDebounceMs, cfg.Watch.DebounceMs)
}

func TestApplyKDL_SearchSection(t *testing.T) {
	kdlContent := `
search {
    kinds "identifier,comment"
    case "insensitive"
    whole_word true
    max_count 50
    workers 4
}
`
	cfg := Default()
	err := applyKDL(cfg, kdlContent)
	require.NoError(t, err)

	assert.Equal(t, "identifier,comment", cfg.Search.Kinds)
	assert.Equal(t, "insensitive", cfg.Search.Case)
	assert.True(t, cfg.Search.WholeWord)
	assert.Equal(t, 50, cfg.Search.MaxCount)
	assert.Equal(t, 4, cfg.Search.Workers)
}

func TestApplyKDL_WalkSection(t *testing.T) {
	kdlContent := `
walk {
    max_file_size "2MB"
    follow_symlinks true
    artifact_detection false
    exclude "**/generated/**" "**/fixtures/**"
}
`
	cfg := Default()
	err := applyKDL(cfg, kdlContent)
	require.NoError(t, err)

	assert.Equal(t, int64(2*1024*1024), cfg.Walk.MaxFileSize)
	assert.True(t, cfg.Walk.FollowSymlinks)
	assert.False(t, cfg.Walk.ArtifactDetection)
	assert.Equal(t, []string{"**/generated/**", "**/fixtures/**"}, cfg.Walk.Exclude)
}

func TestApplyKDL_IntegerFileSize(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "walk {\n    max_file_size 4096\n}\n")
	require.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.Walk.MaxFileSize)
}

func TestApplyKDL_MistypedValue(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "search {\n    workers \"three\"\n}\n")
	require.NoError(t, err, "a mistyped value warns but does not fail the load")
	assert.Equal(t, Default().Search.Workers, cfg.Search.Workers)
}

func TestApplyKDL_BadSizeString(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "walk {\n    max_file_size \"lots\"\n}\n")
	require.Error(t, err)
	var cfgErr *sgerrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "walk.max_file_size", cfgErr.Field)
}

func TestApplyKDL_ExcludeBlockForm(t *testing.T) {
	kdlContent := `
walk {
    exclude {
        "**/a/**"
        "**/b/**"
    }
}
exclude "**/c/**"
`
	cfg := Default()
	err := applyKDL(cfg, kdlContent)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/a/**", "**/b/**", "**/c/**"}, cfg.Walk.Exclude)
}

func TestApplyKDL_WatchSection(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "watch {\n    debounce_ms 150\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 150, cfg.Watch.DebounceMs)
}

func TestApplyKDL_Malformed(t *testing.T) {
	cfg := Default()
	err := applyKDL(cfg, "search {\n")
	require.Error(t, err)
	var cfgErr *sgerrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestApplyTOML_Partial(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sgrep.toml")
	content := `
[search]
case = "sensitive"
max_count = 25

[walk]
max_file_size = "512KB"
exclude = ["**/out/**"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := Default()
	err := applyTOMLFile(cfg, path)
	require.NoError(t, err)

	assert.Equal(t, "sensitive", cfg.Search.Case)
	assert.Equal(t, 25, cfg.Search.MaxCount)
	assert.Equal(t, int64(512*1024), cfg.Walk.MaxFileSize)
	assert.Equal(t, []string{"**/out/**"}, cfg.Walk.Exclude)

	// Untouched keys keep their defaults.
	assert.False(t, cfg.Search.WholeWord)
	assert.True(t, cfg.Walk.ArtifactDetection)
	assert.Equal(t, types.DefaultDebounceMs, cfg.Watch.DebounceMs)
}

func TestApplyTOML_IntegerFileSize(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".sgrep.toml")
	require.NoError(t, os.WriteFile(path, []byte("[walk]\nmax_file_size = 4096\n"), 0644))

	cfg := Default()
	err := applyTOMLFile(cfg, path)
	require.NoError(t, err)
	assert.Equal(t, int64(4096), cfg.Walk.MaxFileSize)
}

func TestApplyTOML_MissingFile(t *testing.T) {
	cfg := Default()
	err := applyTOMLFile(cfg, filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseSize(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10MB", 10 * 1024 * 1024},
		{"512KB", 512 * 1024},
		{"1GB", 1024 * 1024 * 1024},
		{"100B", 100},
		{"2048", 2048},
		{" 5 MB ", 5 * 1024 * 1024},
		{"10mb", 10 * 1024 * 1024},
	}
	for _, tc := range cases {
		got, err := ParseSize(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}

	_, err := ParseSize("lots")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("default_is_valid", func(t *testing.T) {
		assert.NoError(t, Validate(Default()))
	})

	t.Run("bad_case_mode", func(t *testing.T) {
		cfg := Default()
		cfg.Search.Case = "loud"
		err := Validate(cfg)
		require.Error(t, err)
		var cfgErr *sgerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "search.case", cfgErr.Field)
	})

	t.Run("bad_kinds", func(t *testing.T) {
		cfg := Default()
		cfg.Search.Kinds = "identifier,literal"
		err := Validate(cfg)
		require.Error(t, err)
		var cfgErr *sgerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "search.kinds", cfgErr.Field)
	})

	t.Run("negative_max_count", func(t *testing.T) {
		cfg := Default()
		cfg.Search.MaxCount = -1
		assert.Error(t, Validate(cfg))
	})

	t.Run("zero_file_size", func(t *testing.T) {
		cfg := Default()
		cfg.Walk.MaxFileSize = 0
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad_exclude_pattern", func(t *testing.T) {
		cfg := Default()
		cfg.Walk.Exclude = []string{"[bad"}
		err := Validate(cfg)
		require.Error(t, err)
		var cfgErr *sgerrors.ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "walk.exclude", cfgErr.Field)
	})

	t.Run("negative_debounce", func(t *testing.T) {
		cfg := Default()
		cfg.Watch.DebounceMs = -5
		assert.Error(t, Validate(cfg))
	})

	t.Run("bad_sections_aggregate", func(t *testing.T) {
		cfg := Default()
		cfg.Search.Case = "loud"
		cfg.Watch.DebounceMs = -5
		err := Validate(cfg)
		require.Error(t, err)
		var multi *sgerrors.MultiError
		require.ErrorAs(t, err, &multi)
		assert.Len(t, multi.Errors, 2, "both section errors should surface")
	})
}

func TestLoad_ProjectKDL(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := t.TempDir()
	kdlContent := "search {\n    case \"insensitive\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(project, ".sgrep.kdl"), []byte(kdlContent), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, "insensitive", cfg.Search.Case)
}

func TestLoad_KDLPreferredOverTOML(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".sgrep.kdl"),
		[]byte("search {\n    max_count 7\n}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(project, ".sgrep.toml"),
		[]byte("[search]\nmax_count = 9\n"), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Search.MaxCount)
}

func TestLoad_GlobalThenProject(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	globalContent := "search {\n    workers 2\n    max_count 10\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(home, ".sgrep.kdl"), []byte(globalContent), 0644))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".sgrep.kdl"),
		[]byte("search {\n    max_count 20\n}\n"), 0644))

	cfg, err := Load(project)
	require.NoError(t, err)

	// Project overrides where it speaks, global fills the rest.
	assert.Equal(t, 20, cfg.Search.MaxCount)
	assert.Equal(t, 2, cfg.Search.Workers)
}

func TestLoad_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_InvalidProjectConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, ".sgrep.kdl"),
		[]byte("search {\n    case \"shouty\"\n}\n"), 0644))

	_, err := Load(project)
	require.Error(t, err)
	var cfgErr *sgerrors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}
