package source

import (
	stderrors "errors"
	"os"

	"github.com/standardbeagle/sgrep/internal/errors"
	"github.com/standardbeagle/sgrep/internal/types"
)

// ErrBinaryFile marks a file skipped because its content sniffed as
// binary. It is a per-file condition, reported as a warning, never fatal.
var ErrBinaryFile = stderrors.New("binary content")

// LoadFile reads one file for searching, enforcing the size cap and the
// binary sniff before the full content is committed to memory. maxSize
// of zero or below applies the default limit.
func LoadFile(path string, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = types.DefaultMaxFileSize
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewFileError("stat", path, err)
	}
	if info.Size() > maxSize {
		return nil, errors.NewFileTooLargeError(path, info.Size(), maxSize)
	}

	// For anything past the pre-check threshold, sniff the head before
	// loading the whole file.
	if info.Size() > types.BinaryPreCheckBytes {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.NewFileError("open", path, err)
		}
		head := make([]byte, types.BinaryPreCheckBytes)
		n, _ := f.Read(head)
		f.Close()
		if LooksBinary(head[:n]) {
			return nil, ErrBinaryFile
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewFileError("read", path, err)
	}
	if LooksBinary(content) {
		return nil, ErrBinaryFile
	}
	return content, nil
}
