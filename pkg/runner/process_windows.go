//go:build windows

// pkg/runner/process_windows.go
package runner

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

// cmd.exe parses its own command line, so it is passed verbatim
func shellCommand(ctx context.Context, script string) *exec.Cmd {
	c := exec.CommandContext(ctx, "cmd.exe")
	c.SysProcAttr = &syscall.SysProcAttr{CmdLine: `cmd.exe /S /C "` + script + `"`}
	return c
}

func terminalCommand(_ string, script string, opts LaunchOptions) *exec.Cmd {
	var b strings.Builder
	b.WriteString(`cmd.exe /S /C "start "pyman"`)
	if opts.Wait {
		b.WriteString(" /w")
	}
	if opts.Minimized {
		b.WriteString(" /min")
	}
	b.WriteString(` cmd /K "`)
	b.WriteString(script)
	if !opts.KeepOpen {
		b.WriteString(" && exit")
	}
	b.WriteString(`""`)

	c := exec.Command("cmd.exe")
	c.SysProcAttr = &syscall.SysProcAttr{CmdLine: b.String()}
	return c
}

func isElevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}

// The elevated process gets its own console, so the script goes through a
// temporary batch file and its output is not captured.
func elevatedCommand(ctx context.Context, script string) (*exec.Cmd, func(), error) {
	f, err := os.CreateTemp("", "pyman-*.cmd")
	if err != nil {
		return nil, nil, fmt.Errorf("creating batch file: %w", err)
	}
	if _, err := f.WriteString("@echo off\r\n" + script + "\r\n"); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, nil, fmt.Errorf("writing batch file: %w", err)
	}
	f.Close()

	ps := fmt.Sprintf("Start-Process -FilePath '%s' -Verb RunAs -Wait", strings.ReplaceAll(f.Name(), "'", "''"))
	c := powerShellCommand(ctx, "powershell", ps)
	return c, func() { os.Remove(f.Name()) }, nil
}
