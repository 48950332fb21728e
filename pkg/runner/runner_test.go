package runner

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/core"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses sh")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	skipOnWindows(t)
	r := New(nil)

	res, err := r.Run(context.Background(), Command{Script: "echo hello"})
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", strings.TrimSpace(res.Output))
}

func TestRunReportsExitCode(t *testing.T) {
	skipOnWindows(t)
	r := New(nil)

	res, err := r.Run(context.Background(), Command{Script: "echo boom >&2; exit 3"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrShellInvocation))
	assert.Equal(t, 3, res.ExitCode)
	assert.Contains(t, res.Output, "boom")

	var cerr *core.CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, 3, cerr.ExitCode)
	assert.Contains(t, cerr.Output, "boom")
}

func TestRunUsesDirAndEnv(t *testing.T) {
	skipOnWindows(t)
	r := New(nil)
	dir := t.TempDir()

	res, err := r.Run(context.Background(), Command{
		Script: `pwd; echo "$PYMAN_TEST_VALUE"`,
		Dir:    dir,
		Env:    []string{"PYMAN_TEST_VALUE=42"},
	})
	require.NoError(t, err)
	assert.Contains(t, res.Output, "42")
}

func TestRunCancelled(t *testing.T) {
	skipOnWindows(t)
	r := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Command{Script: "sleep 5"})
	assert.True(t, errors.Is(err, core.ErrShellInvocation))
}

func TestPowerShellUnsupported(t *testing.T) {
	skipOnWindows(t)
	_, err := New(nil).PowerShell(context.Background(), "Get-Date")
	assert.True(t, errors.Is(err, core.ErrPlatformNotSupported))
}
