// Package errors provides standardized error handling for glance.
// It defines the error kinds used across the decode/cache pipeline along with
// helper functions for consistent error creation, wrapping and inspection.
package errors

import (
	"errors"
	"fmt"
	"os"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// File error kinds
	FileNotFound
	FileAccessDenied
	InvalidPath
	FileReadFailed
	// Decode error kinds
	UnsupportedFormat
	CorruptImage
	EmptyImage
	InvalidTarget
	// Config error kinds
	InvalidConfig
	ConfigNotFound
	// Loader error kinds
	LoaderClosed
)

var kindNames = map[ErrorKind]string{
	Unknown:           "unknown",
	FileNotFound:      "file_not_found",
	FileAccessDenied:  "file_access_denied",
	InvalidPath:       "invalid_path",
	FileReadFailed:    "file_read_failed",
	UnsupportedFormat: "unsupported_format",
	CorruptImage:      "corrupt_image",
	EmptyImage:        "empty_image",
	InvalidTarget:     "invalid_target",
	InvalidConfig:     "invalid_config",
	ConfigNotFound:    "config_not_found",
	LoaderClosed:      "loader_closed",
}

// String returns the snake_case name of the kind
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Common error constants for frequently occurring errors
var (
	ErrFileNotFound  = NewFileError("file not found", "", FileNotFound, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrLoaderClosed  = &ApplicationError{msg: "loader closed", kind: LoaderClosed}
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// FileError represents errors related to reading image files
type FileError struct {
	ApplicationError
	path string
}

// NewFileError creates a new file error
func NewFileError(msg string, path string, kind ErrorKind, err error) *FileError {
	return &FileError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		path: path,
	}
}

// Error returns the file error message
func (e *FileError) Error() string {
	if e.path != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.path, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.path)
	}
	return e.ApplicationError.Error()
}

// Path returns the file path associated with the error
func (e *FileError) Path() string {
	return e.path
}

// DecodeError represents a failure to turn raw bytes into pixels
type DecodeError struct {
	ApplicationError
	format string
}

// NewDecodeError creates a new decode error. format is the detected
// container name and may be empty when sniffing failed.
func NewDecodeError(msg string, format string, kind ErrorKind, err error) *DecodeError {
	return &DecodeError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		format: format,
	}
}

// Error returns the decode error message
func (e *DecodeError) Error() string {
	if e.format != "" {
		if e.err != nil {
			return fmt.Sprintf("%s (%s): %v", e.msg, e.format, e.err)
		}
		return fmt.Sprintf("%s (%s)", e.msg, e.format)
	}
	return e.ApplicationError.Error()
}

// Format returns the detected image format, if any
func (e *DecodeError) Format() string {
	return e.format
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// FromIO classifies an error returned by the os package while reading path.
func FromIO(path string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case os.IsNotExist(err):
		return NewFileError("file not found", path, FileNotFound, err)
	case os.IsPermission(err):
		return NewFileError("file access denied", path, FileAccessDenied, err)
	default:
		return NewFileError("unable to read file", path, FileReadFailed, err)
	}
}

// KindOf returns the first kind other than Unknown found in err's chain.
// Plain Wrap layers carry Unknown and are skipped.
func KindOf(err error) ErrorKind {
	for e := err; e != nil; e = errors.Unwrap(e) {
		if kinded, ok := e.(interface{ Kind() ErrorKind }); ok && kinded.Kind() != Unknown {
			return kinded.Kind()
		}
	}
	return Unknown
}

// IsFileNotFound checks if the error is a file not found error
func IsFileNotFound(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileNotFound
	}
	return false
}

// IsFileAccessDenied checks if the error is a file access denied error
func IsFileAccessDenied(err error) bool {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind() == FileAccessDenied
	}
	return false
}

// IsDecodeError checks if the error came out of the decode pipeline
func IsDecodeError(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// IsLoaderClosed reports whether err signals a request issued to, or
// abandoned by, a closed loader.
func IsLoaderClosed(err error) bool {
	return KindOf(err) == LoaderClosed
}
