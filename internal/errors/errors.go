package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the sgrep system
type ErrorType string

const (
	// Search errors
	ErrorTypeParseUnavailable ErrorType = "parse_unavailable"
	ErrorTypeEmptyPattern     ErrorType = "empty_pattern"
	ErrorTypeQuery            ErrorType = "query"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// ParseUnavailableError means no grammar is registered for a requested
// language. At startup with a single requested language it is fatal;
// during a multi-file run it downgrades to a per-file warning.
type ParseUnavailableError struct {
	Type      ErrorType
	Language  string
	Timestamp time.Time
}

// NewParseUnavailableError creates a parse-unavailable error for a language
func NewParseUnavailableError(language string) *ParseUnavailableError {
	return &ParseUnavailableError{
		Type:      ErrorTypeParseUnavailable,
		Language:  language,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *ParseUnavailableError) Error() string {
	return fmt.Sprintf("no parser available for language %q", e.Language)
}

// IsParseUnavailable reports whether err is a ParseUnavailableError.
func IsParseUnavailable(err error) bool {
	var target *ParseUnavailableError
	return stderrors.As(err, &target)
}

// EmptyPatternError rejects a search before any file is processed.
type EmptyPatternError struct {
	Type      ErrorType
	Timestamp time.Time
}

// NewEmptyPatternError creates an empty-pattern error
func NewEmptyPatternError() *EmptyPatternError {
	return &EmptyPatternError{
		Type:      ErrorTypeEmptyPattern,
		Timestamp: time.Now(),
	}
}

// Error implements the error interface
func (e *EmptyPatternError) Error() string {
	return "search pattern must not be empty"
}

// IsEmptyPattern reports whether err is an EmptyPatternError.
func IsEmptyPattern(err error) bool {
	var target *EmptyPatternError
	return stderrors.As(err, &target)
}

// QueryError represents a tree-sitter query compilation failure
type QueryError struct {
	Type       ErrorType
	Query      string
	Language   string
	Underlying error
	Timestamp  time.Time
}

// NewQueryError creates a new query error
func NewQueryError(query, language string, err error) *QueryError {
	return &QueryError{
		Type:       ErrorTypeQuery,
		Query:      query,
		Language:   language,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid query %q for language %s: %v", e.Query, e.Language, e.Underlying)
}

// Unwrap returns the underlying error
func (e *QueryError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if stderrors.Is(err, fs.ErrPermission) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewFileTooLargeError creates a file error for an oversized file
func NewFileTooLargeError(path string, size, limit int64) *FileError {
	return &FileError{
		Type:       ErrorTypeFileTooLarge,
		Path:       path,
		Operation:  "read",
		Underlying: fmt.Errorf("file is %d bytes, limit is %d", size, limit),
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Type       ErrorType
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Type:       ErrorTypeConfig,
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError collects several errors into one value
type MultiError struct {
	Errors []error
}

// NewMultiError creates a multi-error, dropping nil entries
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all collected errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
