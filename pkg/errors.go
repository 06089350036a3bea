package release

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a release failure. Codes are strings so they read well
// in logs.
type ErrorCode string

const (
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
	CodeBuildFailed     ErrorCode = "BUILD_FAILED"
	CodePublishFailed   ErrorCode = "PUBLISH_FAILED"
	CodeFileSystem      ErrorCode = "FILESYSTEM_ERROR"
)

var (
	// ErrUserDeclined is returned when the user answers "no" to a prompt.
	// It is not a failure: nothing has been changed when it is returned.
	ErrUserDeclined = errors.New("release declined by user")

	// ErrMissingPreid is returned when a pre* release type is requested
	// without a prerelease identifier.
	ErrMissingPreid = errors.New("prerelease identifier required (use --preid)")

	// ErrSameVersion is returned when the resolved version equals the current one.
	ErrSameVersion = errors.New("new version is the same as the current version")
)

// InvalidVersionError reports a string that is not a valid semantic version.
type InvalidVersionError struct {
	Version string
	Err     error
}

func (e *InvalidVersionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid version %q: %v", e.Version, e.Err)
	}
	return fmt.Sprintf("invalid version %q", e.Version)
}

func (e *InvalidVersionError) Unwrap() error { return e.Err }

// Code implements the coded error convention.
func (e *InvalidVersionError) Code() ErrorCode { return CodeInvalidInput }

// StepExecutionError reports the pipeline step that failed.
type StepExecutionError struct {
	Index int // 1-based position in the pipeline
	Label string
	Kind  ErrorCode
	Err   error
}

func (e *StepExecutionError) Error() string {
	return fmt.Sprintf("step %d (%s) failed: %v", e.Index, e.Label, e.Err)
}

func (e *StepExecutionError) Unwrap() error { return e.Err }

func (e *StepExecutionError) Code() ErrorCode {
	if e.Kind == "" {
		return CodeExecutionFailed
	}
	return e.Kind
}

// FileSystemError reports a failed read or write of the project metadata.
type FileSystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileSystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileSystemError) Unwrap() error { return e.Err }

func (e *FileSystemError) Code() ErrorCode { return CodeFileSystem }

// CodeOf returns the ErrorCode carried by err, or CodeExecutionFailed when
// err does not carry one.
func CodeOf(err error) ErrorCode {
	var coded interface{ Code() ErrorCode }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return CodeExecutionFailed
}
