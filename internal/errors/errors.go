// Package errors provides a hierarchical error system for datum transformations.
// It implements typed errors that can be inspected and handled differently
// based on their category, enabling more precise error handling and reporting.
package errors

import (
	"fmt"
	"os"
	"path/filepath"
)

// ErrorType represents the category of error for classification and handling.
// This enables different error handling strategies based on error type
// (e.g., skipping an out-of-coverage point vs. aborting on a bad parameter file).
type ErrorType string

// Error type constants define the categories of errors that can occur during
// a transformation run. These constants enable type-based error handling and
// provide semantic meaning to error classification.
const (
	ErrTypeFile      ErrorType = "file"
	ErrTypeConfig    ErrorType = "config"
	ErrTypeParameter ErrorType = "parameter"
	ErrTypeCoverage  ErrorType = "coverage"
	ErrTypeInput     ErrorType = "input"
)

// TransformError is the base error type that provides structured error information.
// It implements a hierarchical error system where specific error types can be
// identified and handled appropriately. The embedded path and cause information
// enables precise error reporting and debugging.
type TransformError struct {
	Type    ErrorType
	Path    string
	Message string
	Cause   error
}

func (e *TransformError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Path, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *TransformError) Unwrap() error {
	return e.Cause
}

// Is implements error identity checking for Go 1.13+ error handling.
// This method enables errors.Is() calls to work correctly with typed errors,
// allowing callers to check for specific error types in error chains.
func (e *TransformError) Is(target error) bool {
	t, ok := target.(*TransformError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// FileError represents file system operation errors and embeds TransformError
// to provide file-specific context. This enables callers to distinguish
// between file errors and other types for appropriate handling strategies.
type FileError struct {
	*TransformError
}

// NewFileError creates a file operation error with context.
func NewFileError(path, message string, cause error) *FileError {
	return &FileError{
		TransformError: &TransformError{
			Type:    ErrTypeFile,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// FileNotFoundError represents errors when files cannot be located.
// A missing parameter file is fatal and never retried; this specialized type
// lets the CLI surface a targeted message instead of a generic I/O failure.
type FileNotFoundError struct {
	*FileError
}

// NewFileNotFoundError creates a file not found error.
func NewFileNotFoundError(path string, cause error) *FileNotFoundError {
	return &FileNotFoundError{
		FileError: NewFileError(path, "file not found", cause),
	}
}

// ConfigError represents configuration validation and parsing errors.
// This error type enables early validation failures to halt execution
// before the parameter table is loaded.
type ConfigError struct {
	*TransformError
}

// NewConfigError creates a configuration error without path context.
func NewConfigError(message string, cause error) *ConfigError {
	return &ConfigError{
		TransformError: &TransformError{
			Type:    ErrTypeConfig,
			Message: message,
			Cause:   cause,
		},
	}
}

// NewConfigErrorWithPath creates a configuration error with file context.
func NewConfigErrorWithPath(path, message string, cause error) *ConfigError {
	return &ConfigError{
		TransformError: &TransformError{
			Type:    ErrTypeConfig,
			Path:    path,
			Message: message,
			Cause:   cause,
		},
	}
}

// ParameterError represents a malformed record in the grid parameter file.
// The whole load aborts on the first such record: a partially populated table
// would later masquerade as out-of-coverage failures for unrelated points,
// so the parse failure carries the offending line for direct diagnosis.
type ParameterError struct {
	*TransformError
	Line int
}

// NewParameterError creates a parameter format error naming the offending line.
func NewParameterError(path string, line int, message string, cause error) *ParameterError {
	return &ParameterError{
		TransformError: &TransformError{
			Type:    ErrTypeParameter,
			Path:    path,
			Message: fmt.Sprintf("line %d: %s", line, message),
			Cause:   cause,
		},
		Line: line,
	}
}

// CoverageError reports a query point whose grid cell is not fully covered
// by the parameter table. It is a per-query error: the table stays valid and
// the caller decides whether to skip, fail, or fall back. No default or
// extrapolated correction is ever substituted.
type CoverageError struct {
	*TransformError
	Lat float64
	Lon float64
}

// NewCoverageError creates an out-of-coverage error for a query point.
func NewCoverageError(lat, lon float64) *CoverageError {
	return &CoverageError{
		TransformError: &TransformError{
			Type:    ErrTypeCoverage,
			Message: fmt.Sprintf("point (%.8f, %.8f) is outside grid coverage", lat, lon),
		},
		Lat: lat,
		Lon: lon,
	}
}

// InputError represents a malformed coordinate in batch input.
// It carries the line number so batch reports can point at the bad record
// while the remaining points continue to be processed.
type InputError struct {
	*TransformError
	Line int
}

// NewInputError creates a batch input parse error naming the offending line.
func NewInputError(path string, line int, message string, cause error) *InputError {
	return &InputError{
		TransformError: &TransformError{
			Type:    ErrTypeInput,
			Path:    path,
			Message: fmt.Sprintf("line %d: %s", line, message),
			Cause:   cause,
		},
		Line: line,
	}
}

// IsCoverage reports whether err is an out-of-coverage error.
// Batch processing uses this to keep going past uncovered points while
// still aborting on structural failures.
func IsCoverage(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CoverageError); ok {
		return ce != nil
	}
	te, ok := err.(*TransformError)
	return ok && te.Type == ErrTypeCoverage
}

// WrapFileError converts standard Go errors into typed TransformError instances.
// This function provides centralized error classification logic, ensuring
// consistent error typing across the application.
func WrapFileError(path string, err error) error {
	if err == nil {
		return nil
	}

	absPath, _ := filepath.Abs(path)
	if os.IsNotExist(err) {
		return NewFileNotFoundError(absPath, err)
	}
	return NewFileError(absPath, "file operation failed", err)
}
