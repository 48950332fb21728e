// errors.go
package pyman

import (
	"errors"

	"github.com/arc-language/pyman/pkg/core"
)

// Re-export the error taxonomy
var (
	ErrInvalidName          = core.ErrInvalidName
	ErrAlreadyExists        = core.ErrAlreadyExists
	ErrPathNotFound         = core.ErrPathNotFound
	ErrInvalidPath          = core.ErrInvalidPath
	ErrClassification       = core.ErrClassification
	ErrShellInvocation      = core.ErrShellInvocation
	ErrNetwork              = core.ErrNetwork
	ErrConfigCorrupt        = core.ErrConfigCorrupt
	ErrPlatformNotSupported = core.ErrPlatformNotSupported
)

// Error wraps an error with the operation and path it concerns
type Error = core.Error

// CommandError is a failed shell command with its output
type CommandError = core.CommandError

// messages are shown to users in place of raw error chains
var messages = []struct {
	err error
	msg string
}{
	{ErrInvalidName, "Please enter a valid name. It must not be empty or contain a path separator."},
	{ErrAlreadyExists, "A virtual environment with this name already exists in this location."},
	{ErrClassification, "Could not tell which Conda distribution this environment belongs to."},
	{ErrPathNotFound, "The selected path does not exist."},
	{ErrInvalidPath, "The selected path cannot be used here."},
	{ErrNetwork, "The download failed. Check your network connection and try again."},
	{ErrPlatformNotSupported, "This operation is not supported on this platform."},
	{ErrConfigCorrupt, "The configuration was unreadable and has been reset."},
	{ErrShellInvocation, "The command failed. See the output for details."},
}

// Describe returns the message shown to the user for err
func Describe(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
