// pkg/core/errors.go
package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidName indicates an empty or malformed environment name
	ErrInvalidName = errors.New("invalid name")

	// ErrAlreadyExists indicates the target directory already exists
	ErrAlreadyExists = errors.New("already exists")

	// ErrPathNotFound indicates a missing environment or interpreter path
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidPath indicates a path that cannot be used for the operation
	ErrInvalidPath = errors.New("invalid path")

	// ErrClassification indicates the environment type could not be determined
	ErrClassification = errors.New("cannot classify environment")

	// ErrShellInvocation indicates a spawned command failed
	ErrShellInvocation = errors.New("shell command failed")

	// ErrNetwork indicates a download failure
	ErrNetwork = errors.New("network error")

	// ErrConfigCorrupt indicates a configuration file that had to be rebuilt
	ErrConfigCorrupt = errors.New("configuration corrupt")

	// ErrPlatformNotSupported indicates the operation has no implementation on this OS
	ErrPlatformNotSupported = errors.New("platform not supported")
)

// Error wraps an error with the operation and path it concerns
type Error struct {
	Op   string // Operation that failed
	Path string // Path if applicable
	Err  error  // Underlying error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CommandError carries the output of a failed shell command
type CommandError struct {
	Command  string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (exit %d): %v", e.Command, e.ExitCode, e.Err)
	}
	return fmt.Sprintf("%s (exit %d)", e.Command, e.ExitCode)
}

// Unwrap lets errors.Is match ErrShellInvocation as well as the cause
func (e *CommandError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrShellInvocation, e.Err}
	}
	return []error{ErrShellInvocation}
}
