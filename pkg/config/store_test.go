package config

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/core"
)

const testDir = "/home/u/.config/pyman"

func newStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return New(&Config{Dir: testDir, Home: "/home/u", GOOS: "linux", Fs: fs}), fs
}

func defaultPath() string {
	return filepath.Join("/home/u", ".local", "pyman", DefaultVenvDirName)
}

func TestDefaultCreationPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/home/u", ".local", "pyman", ".pyman_venvs"), DefaultCreationPath("/home/u", "linux"))
	assert.Equal(t, filepath.Join("/home/u", ".pyman_venvs"), DefaultCreationPath("/home/u", "windows"))
}

func TestLoadMissingCreatesDefaults(t *testing.T) {
	s, fs := newStore(t)

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, defaultPath(), cfg.DefaultCreationPath)
	assert.Equal(t, []string{defaultPath()}, cfg.SearchPaths)

	ok, err := afero.Exists(fs, s.Path())
	require.NoError(t, err)
	assert.True(t, ok, "defaults must be persisted")

	h, err := s.History()
	require.NoError(t, err)
	assert.Equal(t, []string{defaultPath()}, h.UsedPaths)
}

func TestLoadHealsBrokenFiles(t *testing.T) {
	for name, content := range map[string]string{
		"empty":      "",
		"whitespace": "  \n",
		"garbage":    "{not json",
		"no path":    `{"other": 1}`,
		"no default": `{"path": {"venv_search_path": ["/x"]}}`,
		"no search":  `{"path": {"venv_default_path": "/x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			s, fs := newStore(t)
			require.NoError(t, afero.WriteFile(fs, s.Path(), []byte(content), 0644))

			cfg, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, s.Defaults(), cfg)

			// the healed file is durable
			again, err := s.Load()
			require.NoError(t, err)
			assert.Equal(t, cfg, again)
		})
	}
}

func TestLoadHealsDirectoryInPlaceOfFile(t *testing.T) {
	s, fs := newStore(t)
	require.NoError(t, fs.MkdirAll(s.Path(), 0755))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, defaultPath(), cfg.DefaultCreationPath)

	fi, err := fs.Stat(s.Path())
	require.NoError(t, err)
	assert.False(t, fi.IsDir())
}

func TestLoadLeavesPopulatedDirectory(t *testing.T) {
	s, fs := newStore(t)
	keep := filepath.Join(s.Path(), "notes.txt")
	require.NoError(t, fs.MkdirAll(s.Path(), 0755))
	require.NoError(t, afero.WriteFile(fs, keep, []byte("x"), 0644))

	_, err := s.Load()
	require.Error(t, err)
	assert.False(t, errors.Is(err, core.ErrConfigCorrupt))

	ok, err := afero.Exists(fs, keep)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLoadKeepsValidFile(t *testing.T) {
	s, fs := newStore(t)
	data := `{"path": {"venv_default_path": "/data/envs", "venv_search_path": ["/data/envs", "/other"]}}`
	require.NoError(t, afero.WriteFile(fs, s.Path(), []byte(data), 0644))

	cfg, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/envs", cfg.DefaultCreationPath)
	assert.Equal(t, []string{"/data/envs", "/other"}, cfg.SearchPaths)
}

func TestSaveKeepsDefaultInSearchPaths(t *testing.T) {
	s, _ := newStore(t)

	newDefault := "/data/envs"
	cfg, err := s.Save(Patch{DefaultCreationPath: &newDefault, SearchPaths: []string{"/other", "/other/"}})
	require.NoError(t, err)
	assert.Equal(t, "/data/envs", cfg.DefaultCreationPath)
	assert.Equal(t, []string{"/other", "/data/envs"}, cfg.SearchPaths)

	// search paths replaced without the default: it comes back
	cfg, err = s.Save(Patch{SearchPaths: []string{}})
	require.NoError(t, err)
	assert.Contains(t, cfg.SearchPaths, cfg.DefaultCreationPath)
}

func TestSaveWritesFileFormat(t *testing.T) {
	s, fs := newStore(t)
	_, err := s.SetDefault("/data/envs")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, s.Path())
	require.NoError(t, err)

	var raw map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "/data/envs", raw["path"]["venv_default_path"])
	assert.Len(t, raw["path"]["venv_search_path"], 2)
}

func TestSaveRecordsHistory(t *testing.T) {
	s, _ := newStore(t)

	_, err := s.SetDefault("/a")
	require.NoError(t, err)
	_, err = s.SetDefault("/b")
	require.NoError(t, err)
	_, err = s.SetDefault("/a")
	require.NoError(t, err)

	h, err := s.History()
	require.NoError(t, err)
	assert.Equal(t, []string{defaultPath(), "/a", "/b"}, h.UsedPaths)
}

func TestSaveRejectsEmptyDefault(t *testing.T) {
	s, _ := newStore(t)
	empty := ""
	_, err := s.Save(Patch{DefaultCreationPath: &empty})
	assert.True(t, errors.Is(err, core.ErrInvalidPath))
}

func TestSearchPathEditing(t *testing.T) {
	s, _ := newStore(t)

	cfg, err := s.AddSearchPath("/extra")
	require.NoError(t, err)
	assert.Equal(t, []string{defaultPath(), "/extra"}, cfg.SearchPaths)

	cfg, err = s.AddSearchPath("/extra/")
	require.NoError(t, err)
	assert.Len(t, cfg.SearchPaths, 2)

	_, err = s.RemoveSearchPath(defaultPath())
	assert.True(t, errors.Is(err, core.ErrInvalidPath))

	_, err = s.RemoveSearchPath("/nowhere")
	assert.True(t, errors.Is(err, core.ErrPathNotFound))

	cfg, err = s.RemoveSearchPath("/extra")
	require.NoError(t, err)
	assert.Equal(t, []string{defaultPath()}, cfg.SearchPaths)
}

func TestCorruptHistoryStartsOver(t *testing.T) {
	s, fs := newStore(t)
	require.NoError(t, afero.WriteFile(fs, s.HistoryPath(), []byte("nope"), 0644))

	h, err := s.History()
	require.NoError(t, err)
	assert.Empty(t, h.UsedPaths)

	require.NoError(t, s.RecordPath("/x"))
	h, err = s.History()
	require.NoError(t, err)
	assert.Equal(t, []string{"/x"}, h.UsedPaths)
}

func TestNoTempFilesLeftBehind(t *testing.T) {
	s, fs := newStore(t)
	_, err := s.SetDefault("/a")
	require.NoError(t, err)

	entries, err := afero.ReadDir(fs, testDir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{FileName, HistoryFileName}, names)
}
