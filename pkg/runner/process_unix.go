//go:build !windows

// pkg/runner/process_unix.go
package runner

import (
	"context"
	"os"
	"os/exec"

	"github.com/arc-language/pyman/pkg/platform"
)

func shellCommand(ctx context.Context, script string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", script)
}

func terminalCommand(terminal, script string, opts LaunchOptions) *exec.Cmd {
	if opts.KeepOpen {
		script += `; exec "${SHELL:-sh}"`
	}
	args := platform.TerminalArgs(terminal, script, opts.Wait)
	return exec.Command(args[0], args[1:]...)
}

func isElevated() bool {
	return os.Geteuid() == 0
}

func elevatedCommand(ctx context.Context, script string) (*exec.Cmd, func(), error) {
	return exec.CommandContext(ctx, "sudo", "sh", "-c", script), func() {}, nil
}
