package uninstall

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/config"
)

func setup(t *testing.T) (afero.Fs, *config.Store) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := config.New(&config.Config{Dir: "/home/u/.config/pyman", Home: "/home/u", GOOS: "linux", Fs: fs})

	_, err := store.SetDefault("/old")
	require.NoError(t, err)
	_, err = store.SetDefault("/new")
	require.NoError(t, err)

	for _, f := range []string{
		"/old/a/bin/activate",
		"/new/b/Scripts/activate",
		"/new/c/conda-meta/history",
		"/new/keep/notes.txt",
		"/new/distro/conda-meta/history",
		"/new/distro/condabin/conda",
		"/inst/python-3.11.4/bin/python3",
		"/inst/conda/bin/conda",
		"/inst/other/file",
		"/cache/Python-3.11.4.tar.xz",
	} {
		require.NoError(t, afero.WriteFile(fs, f, nil, 0644))
	}
	return fs, store
}

func exists(fs afero.Fs, p string) bool {
	ok, _ := afero.Exists(fs, p)
	return ok
}

func TestUninstallEverything(t *testing.T) {
	fs, store := setup(t)
	u := New(&Config{Fs: fs, Store: store, InstallPath: "/inst", CachePath: "/cache"})

	report, err := u.Run(Options{Environments: true, Interpreters: true, Configuration: true, Cache: true})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{
		filepath.Join("/old", "a"),
		filepath.Join("/new", "b"),
		filepath.Join("/new", "c"),
	}, report.Environments)
	assert.ElementsMatch(t, []string{
		filepath.Join("/inst", "python-3.11.4"),
		filepath.Join("/inst", "conda"),
	}, report.Interpreters)
	assert.Equal(t, "/home/u/.config/pyman", report.Configuration)
	assert.Equal(t, "/cache", report.Cache)

	assert.True(t, exists(fs, "/new/keep/notes.txt"))
	assert.True(t, exists(fs, "/new/distro/condabin/conda"), "a distribution root is not an environment")
	assert.True(t, exists(fs, "/inst/other/file"))
	assert.False(t, exists(fs, "/home/u/.config/pyman"))
}

func TestUninstallOnlyEnvironments(t *testing.T) {
	fs, store := setup(t)
	u := New(&Config{Fs: fs, Store: store, InstallPath: "/inst"})

	report, err := u.Run(Options{Environments: true})
	require.NoError(t, err)
	assert.Len(t, report.Environments, 3)
	assert.Empty(t, report.Interpreters)
	assert.True(t, exists(fs, "/inst/conda/bin/conda"))
	assert.True(t, exists(fs, store.Path()))
}
