// pkg/runner/types.go
package runner

import (
	"context"
	"log"
	"time"
)

// Runner executes shell command lines on the host
type Runner interface {
	// Run executes cmd and waits for it, returning combined output and exit status
	Run(ctx context.Context, cmd Command) (*Result, error)

	// Launch starts cmd inside a visible terminal window
	Launch(ctx context.Context, cmd Command, opts LaunchOptions) error

	// PowerShell executes a PowerShell command (Windows only)
	PowerShell(ctx context.Context, script string) (*Result, error)
}

// Command is one shell command line in the host dialect
type Command struct {
	Script   string   // Command line passed to sh -c or cmd /C
	Dir      string   // Working directory (optional)
	Env      []string // Extra KEY=value pairs appended to the environment
	Elevated bool     // Run with administrative rights
}

// LaunchOptions configures a terminal launch
type LaunchOptions struct {
	Wait      bool // Block until the terminal closes
	Minimized bool // Start minimized where supported
	KeepOpen  bool // Leave an interactive shell open after the script
}

// Result is the outcome of a finished command
type Result struct {
	Output   string
	ExitCode int
	Duration time.Duration
}

// Config configures the exec-based runner
type Config struct {
	Terminal string // Terminal emulator override (auto-detected if empty)
	Debug    bool
	Logger   *log.Logger
}
