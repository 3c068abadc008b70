// Package errors provides standardized error handling for desktop-cleaner.
// It defines the error kinds a sweep can produce along with helpers for
// consistent error creation, wrapping, and classification.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
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
	// DirectoryUnreadable means the whole target directory could not be listed.
	DirectoryUnreadable
	// EntryReadError means a single directory entry could not be inspected.
	EntryReadError
	// RelocationError means the trash primitive failed for one entry.
	RelocationError
	// FatalStartupError means no target directory could be determined.
	FatalStartupError
	// InvalidConfig means a flag value was rejected before the loop started.
	InvalidConfig
)

// String returns the name of the kind as used in log fields.
func (k ErrorKind) String() string {
	switch k {
	case DirectoryUnreadable:
		return "directory_unreadable"
	case EntryReadError:
		return "entry_read_error"
	case RelocationError:
		return "relocation_error"
	case FatalStartupError:
		return "fatal_startup_error"
	case InvalidConfig:
		return "invalid_config"
	default:
		return "unknown"
	}
}

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

// FileError represents errors tied to a path on disk
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

// NewDirectoryUnreadable reports that the target directory could not be listed.
func NewDirectoryUnreadable(path string, err error) *FileError {
	return NewFileError("could not read content of directory", path, DirectoryUnreadable, err)
}

// NewEntryReadError reports that one directory entry could not be inspected.
func NewEntryReadError(path string, err error) *FileError {
	return NewFileError("could not read directory entry", path, EntryReadError, err)
}

// NewRelocationError reports that an entry could not be moved to the trash.
func NewRelocationError(path string, err error) *FileError {
	return NewFileError("failed to move entry to trash", path, RelocationError, err)
}

// NewFatalStartupError reports that the process cannot start sweeping at all.
func NewFatalStartupError(msg string, err error) *ApplicationError {
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: FatalStartupError,
	}
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

// KindOf returns the kind of the first application error in err's chain.
func KindOf(err error) ErrorKind {
	var fileErr *FileError
	if errors.As(err, &fileErr) {
		return fileErr.Kind()
	}
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind()
	}
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return Unknown
}

// IsDirectoryUnreadable checks if the error is a directory listing failure
func IsDirectoryUnreadable(err error) bool {
	return err != nil && KindOf(err) == DirectoryUnreadable
}

// IsEntryReadError checks if the error is a single entry read failure
func IsEntryReadError(err error) bool {
	return err != nil && KindOf(err) == EntryReadError
}

// IsRelocationError checks if the error is a trash relocation failure
func IsRelocationError(err error) bool {
	return err != nil && KindOf(err) == RelocationError
}

// IsFatalStartup checks if the error should stop the process before the loop
func IsFatalStartup(err error) bool {
	return err != nil && KindOf(err) == FatalStartupError
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	return err != nil && KindOf(err) == InvalidConfig
}
