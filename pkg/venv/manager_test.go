package venv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner/runnertest"
)

func newManager(t *testing.T, fake *runnertest.Fake) (*Manager, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(&Config{GOOS: "linux", Fs: fs, Runner: fake, WorkDir: "/home/u"}), fs
}

func TestCreateRejectsInvalidNames(t *testing.T) {
	fake := runnertest.New()
	m, fs := newManager(t, fake)

	for _, name := range []string{"", "   ", "a/b", `a\b`, "..", " padded"} {
		_, err := m.Create(context.Background(), name, posPython, "/envs", Options{})
		assert.True(t, errors.Is(err, core.ErrInvalidName), "name %q", name)
	}

	assert.Empty(t, fake.Calls(), "no command may run for an invalid name")
	ok, _ := afero.Exists(fs, "/envs")
	assert.False(t, ok, "no directory may be created for an invalid name")
}

func TestCreateRejectsExisting(t *testing.T) {
	fake := runnertest.New()
	m, fs := newManager(t, fake)
	require.NoError(t, afero.WriteFile(fs, "/envs/foo/keep.txt", []byte("x"), 0644))

	_, err := m.Create(context.Background(), "foo", posPython, "/envs", Options{})
	assert.True(t, errors.Is(err, core.ErrAlreadyExists))
	assert.Empty(t, fake.Calls())

	data, err := afero.ReadFile(fs, "/envs/foo/keep.txt")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestCreateVanilla(t *testing.T) {
	fake := runnertest.New()
	m, fs := newManager(t, fake)

	env, err := m.Create(context.Background(), "foo", posPython, "/envs", Options{})
	require.NoError(t, err)
	assert.Equal(t, &core.EnvironmentRecord{
		Name: "foo",
		Path: filepath.Join("/envs", "foo"),
		Kind: core.KindVanilla,
	}, env)

	ok, _ := afero.DirExists(fs, filepath.Join("/envs", "foo"))
	assert.True(t, ok)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "run", calls[0].Method)
	assert.Equal(t, "/usr/bin/python3 -m venv "+filepath.Join("/envs", "foo"), calls[0].Script)
}

func TestCreateCondaInTerminal(t *testing.T) {
	fake := runnertest.New()
	m, _ := newManager(t, fake)

	env, err := m.Create(context.Background(), "bar", posConda, "/envs", Options{Terminal: true, Wait: true})
	require.NoError(t, err)
	assert.Equal(t, core.KindConda, env.Kind)
	assert.Equal(t, "/opt/conda", env.DistributionPath)

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "launch", calls[0].Method)
	assert.True(t, calls[0].Options.Wait)
	assert.Contains(t, calls[0].Script, "mamba create --prefix")
}

func TestCreateFailureCleansUp(t *testing.T) {
	fake := runnertest.New().On("-m venv", "Error: No module named venv", 1)
	m, fs := newManager(t, fake)

	_, err := m.Create(context.Background(), "foo", posPython, "/envs", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrShellInvocation))

	var cerr *core.CommandError
	require.True(t, errors.As(err, &cerr))
	assert.Contains(t, cerr.Output, "No module named venv")

	ok, _ := afero.Exists(fs, filepath.Join("/envs", "foo"))
	assert.False(t, ok)
}

func TestDeleteVanilla(t *testing.T) {
	fake := runnertest.New()
	m, fs := newManager(t, fake)
	require.NoError(t, afero.WriteFile(fs, "/envs/foo/bin/activate", nil, 0644))

	err := m.Delete(context.Background(), core.EnvironmentRecord{Name: "foo", Path: "/envs/foo", Kind: core.KindVanilla})
	require.NoError(t, err)
	assert.Empty(t, fake.Calls())

	ok, _ := afero.Exists(fs, "/envs/foo")
	assert.False(t, ok)
}

func TestDeleteCondaRemovesEvenIfCondaFails(t *testing.T) {
	fake := runnertest.New().On("env remove", "EnvironmentLocationNotFound", 1)
	m, fs := newManager(t, fake)
	require.NoError(t, fs.MkdirAll("/envs/bar/conda-meta", 0755))

	env := core.EnvironmentRecord{Name: "bar", Path: "/envs/bar", Kind: core.KindConda, DistributionPath: "/opt/conda"}
	require.NoError(t, m.Delete(context.Background(), env))

	assert.Equal(t, []string{"/opt/conda/bin/conda env remove --prefix /envs/bar --yes"}, fake.Scripts())
	ok, _ := afero.Exists(fs, "/envs/bar")
	assert.False(t, ok)
}

func TestDeleteMissing(t *testing.T) {
	m, _ := newManager(t, runnertest.New())
	err := m.Delete(context.Background(), core.EnvironmentRecord{Name: "x", Path: "/envs/x"})
	assert.True(t, errors.Is(err, core.ErrPathNotFound))
}

func populate(t *testing.T, fs afero.Fs) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, "/envs/plain/bin/activate", nil, 0644))
	require.NoError(t, afero.WriteFile(fs, "/envs/condaenv/conda-meta/history",
		[]byte("# cmd: /opt/conda/bin/conda create --prefix /envs/condaenv python\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/envs/broken/conda-meta/history", []byte("garbage\n"), 0644))
	require.NoError(t, fs.MkdirAll("/envs/not-an-env/src", 0755))
	require.NoError(t, afero.WriteFile(fs, "/envs/file.txt", nil, 0644))
	require.NoError(t, afero.WriteFile(fs, "/more/other/bin/activate", nil, 0644))
}

func TestList(t *testing.T) {
	m, fs := newManager(t, runnertest.New())
	populate(t, fs)

	envs := m.List([]string{"/envs", "/missing", "/more", "/envs"})
	require.Len(t, envs, 3)

	byName := map[string]core.EnvironmentRecord{}
	for _, e := range envs {
		byName[e.Name] = e
	}
	assert.Equal(t, core.KindVanilla, byName["plain"].Kind)
	assert.Equal(t, core.KindConda, byName["condaenv"].Kind)
	assert.Equal(t, "/opt/conda", byName["condaenv"].DistributionPath)
	assert.Equal(t, core.KindVanilla, byName["other"].Kind)
	assert.NotContains(t, byName, "broken")
}

func TestFind(t *testing.T) {
	m, fs := newManager(t, runnertest.New())
	populate(t, fs)

	env, err := m.Find("condaenv", []string{"/more", "/envs"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/envs", "condaenv"), env.Path)

	env, err = m.Find("/more/other/bin", nil)
	require.NoError(t, err)
	assert.Equal(t, "other", env.Name)

	_, err = m.Find("nope", []string{"/envs"})
	assert.True(t, errors.Is(err, core.ErrPathNotFound))

	_, err = m.Find("broken", []string{"/envs"})
	assert.True(t, errors.Is(err, core.ErrClassification))
}

func TestRunActions(t *testing.T) {
	fake := runnertest.New().On("pip list", "numpy 1.26.0", 0)
	m, _ := newManager(t, fake)
	target := Target{Kind: core.KindVanilla, Path: "/envs/plain"}

	res, err := m.Run(context.Background(), target, ActionListPackages, Options{})
	require.NoError(t, err)
	assert.Equal(t, "numpy 1.26.0", res.Output)

	_, err = m.Run(context.Background(), target, ActionConsole, Options{})
	require.NoError(t, err)

	calls := fake.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "run", calls[0].Method)
	assert.Equal(t, "/home/u", calls[0].Dir)
	assert.Equal(t, "launch", calls[1].Method)
	assert.True(t, calls[1].Options.KeepOpen)
}

func TestInstallPackage(t *testing.T) {
	fake := runnertest.New()
	m, _ := newManager(t, fake)

	_, err := m.InstallPackage(context.Background(), InterpreterTarget(posPython), "requests", "2.31.0", Options{})
	require.NoError(t, err)
	assert.Equal(t,
		[]string{`export PATH=/usr/bin:"$PATH" && /usr/bin/python3 -m pip install requests==2.31.0`},
		fake.Scripts())
}
