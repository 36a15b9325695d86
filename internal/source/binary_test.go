package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sgerrors "github.com/standardbeagle/sgrep/internal/errors"
)

func TestLooksBinary(t *testing.T) {
	t.Run("source text is not binary", func(t *testing.T) {
		assert.False(t, LooksBinary([]byte("package main\n\nfunc main() {}\n")))
	})

	t.Run("utf8 text is not binary", func(t *testing.T) {
		assert.False(t, LooksBinary([]byte("// héllo wörld — ユニコード\nlet x = 1;\n")))
	})

	t.Run("empty content is not binary", func(t *testing.T) {
		assert.False(t, LooksBinary(nil))
	})

	t.Run("magic numbers", func(t *testing.T) {
		assert.True(t, LooksBinary([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}), "PNG")
		assert.True(t, LooksBinary([]byte{0x7F, 0x45, 0x4C, 0x46, 0x02, 0x01}), "ELF")
		assert.True(t, LooksBinary([]byte{0x1F, 0x8B, 0x08, 0x00}), "gzip")
	})

	t.Run("null bytes trip the heuristic", func(t *testing.T) {
		sample := append([]byte("text with"), make([]byte, 100)...)
		assert.True(t, LooksBinary(sample))
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("loads a normal source file", func(t *testing.T) {
		path := filepath.Join(dir, "ok.rs")
		require.NoError(t, os.WriteFile(path, []byte("fn main() {}\n"), 0o644))

		content, err := LoadFile(path, 0)
		require.NoError(t, err)
		assert.Equal(t, "fn main() {}\n", string(content))
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		path := filepath.Join(dir, "big.rs")
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), 2048), 0o644))

		_, err := LoadFile(path, 1024)
		require.Error(t, err)
		var fileErr *sgerrors.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, sgerrors.ErrorTypeFileTooLarge, fileErr.Type)
	})

	t.Run("rejects binary content by head sniff", func(t *testing.T) {
		path := filepath.Join(dir, "sneaky.rs")
		data := append([]byte{0x7F, 0x45, 0x4C, 0x46}, bytes.Repeat([]byte{0x00}, 1024)...)
		require.NoError(t, os.WriteFile(path, data, 0o644))

		_, err := LoadFile(path, 0)
		assert.ErrorIs(t, err, ErrBinaryFile)
	})

	t.Run("rejects small binary content", func(t *testing.T) {
		path := filepath.Join(dir, "small.bin.rs")
		require.NoError(t, os.WriteFile(path, []byte{0x1F, 0x8B, 0x00, 0x00}, 0o644))

		_, err := LoadFile(path, 0)
		assert.ErrorIs(t, err, ErrBinaryFile)
	})

	t.Run("missing file yields a file error", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "absent.rs"), 0)
		var fileErr *sgerrors.FileError
		require.ErrorAs(t, err, &fileErr)
	})
}
