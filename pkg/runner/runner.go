// pkg/runner/runner.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/platform"
)

// FullPowerShellPath is used when powershell is not on PATH
const FullPowerShellPath = `C:\Windows\System32\WindowsPowerShell\v1.0\powershell.exe`

// ExecRunner runs commands with os/exec
type ExecRunner struct {
	config   *Config
	logger   *log.Logger
	platform *platform.Platform
}

// New creates a runner
func New(cfg *Config) *ExecRunner {
	if cfg == nil {
		cfg = &Config{}
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[RUNNER] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &ExecRunner{
		config:   cfg,
		logger:   logger,
		platform: platform.Detect(),
	}
}

// Run executes cmd through the host shell and waits for it
func (r *ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	var c *exec.Cmd
	if cmd.Elevated && !isElevated() {
		r.logger.Printf("Running elevated: %s", cmd.Script)
		ec, cleanup, err := elevatedCommand(ctx, cmd.Script)
		if err != nil {
			return nil, &core.CommandError{Command: cmd.Script, ExitCode: -1, Err: err}
		}
		defer cleanup()
		c = ec
	} else {
		r.logger.Printf("Running: %s", cmd.Script)
		c = shellCommand(ctx, cmd.Script)
	}

	return r.execute(c, cmd)
}

// PowerShell runs script with powershell, retrying with the full path
// when the bare executable cannot be started
func (r *ExecRunner) PowerShell(ctx context.Context, script string) (*Result, error) {
	if runtime.GOOS != "windows" {
		return nil, fmt.Errorf("powershell: %w", core.ErrPlatformNotSupported)
	}

	cmd := Command{Script: script}
	res, err := r.execute(powerShellCommand(ctx, "powershell", script), cmd)
	var execErr *exec.Error
	if err != nil && errors.As(err, &execErr) {
		r.logger.Printf("⚠️  powershell not found on PATH, retrying with %s", FullPowerShellPath)
		return r.execute(powerShellCommand(ctx, FullPowerShellPath, script), cmd)
	}
	return res, err
}

// Launch starts cmd in a terminal window. Without opts.Wait it returns as
// soon as the terminal has started.
func (r *ExecRunner) Launch(ctx context.Context, cmd Command, opts LaunchOptions) error {
	terminal, err := platform.ResolveTerminal(r.platform, r.config.Terminal)
	if err != nil {
		return &core.CommandError{Command: cmd.Script, ExitCode: -1, Err: err}
	}

	c := terminalCommand(terminal, cmd.Script, opts)
	c.Dir = cmd.Dir
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	r.logger.Printf("Launching in %s: %s", terminal, cmd.Script)

	if opts.Wait {
		if err := c.Run(); err != nil {
			return commandError(cmd.Script, err)
		}
		return nil
	}

	if err := c.Start(); err != nil {
		return commandError(cmd.Script, err)
	}
	// Reap the terminal process once it exits
	go c.Wait()

	return nil
}

func (r *ExecRunner) execute(c *exec.Cmd, cmd Command) (*Result, error) {
	if cmd.Dir != "" {
		c.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		c.Env = append(os.Environ(), cmd.Env...)
	}

	start := time.Now()
	out, err := c.CombinedOutput()
	res := &Result{
		Output:   string(out),
		Duration: time.Since(start),
	}

	if err != nil {
		cerr := commandError(cmd.Script, err)
		cerr.Output = res.Output
		res.ExitCode = cerr.ExitCode
		r.logger.Printf("  ✗ exit %d after %s", res.ExitCode, res.Duration.Round(time.Millisecond))
		if trimmed := strings.TrimSpace(res.Output); trimmed != "" {
			r.logger.Printf("  output: %s", trimmed)
		}
		return res, cerr
	}

	r.logger.Printf("  ✓ done in %s", res.Duration.Round(time.Millisecond))
	return res, nil
}

func commandError(script string, err error) *core.CommandError {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &core.CommandError{Command: script, ExitCode: exitErr.ExitCode(), Err: err}
	}
	return &core.CommandError{Command: script, ExitCode: -1, Err: err}
}

func powerShellCommand(ctx context.Context, exe, script string) *exec.Cmd {
	return exec.CommandContext(ctx, exe, "-NoProfile", "-ExecutionPolicy", "Bypass", "-Command", script)
}
