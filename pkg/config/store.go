// pkg/config/store.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/core"
)

// Store reads and writes config.json and history.json.
// There is no cross-process locking: two pyman processes saving at the same
// time race, and the last rename wins.
type Store struct {
	fs          afero.Fs
	dir         string
	defaultPath string
	logger      *log.Logger
}

// New creates a store
func New(cfg *Config) *Store {
	if cfg == nil {
		cfg = &Config{}
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	dir := cfg.Dir
	if dir == "" {
		dir = core.DefaultConfigDir()
	}
	home := cfg.Home
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = h
		} else {
			home = os.TempDir()
		}
	}
	goos := cfg.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[CONFIG] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Store{
		fs:          fs,
		dir:         dir,
		defaultPath: DefaultCreationPath(home, goos),
		logger:      logger,
	}
}

// DefaultCreationPath is where environments are created until the user
// chooses otherwise
func DefaultCreationPath(home, goos string) string {
	if goos == "linux" {
		return filepath.Join(home, ".local", "pyman", DefaultVenvDirName)
	}
	return filepath.Join(home, DefaultVenvDirName)
}

// Dir returns the configuration directory
func (s *Store) Dir() string { return s.dir }

// Path returns the configuration file path
func (s *Store) Path() string { return filepath.Join(s.dir, FileName) }

// HistoryPath returns the history file path
func (s *Store) HistoryPath() string { return filepath.Join(s.dir, HistoryFileName) }

// Defaults returns the configuration synthesized when none is usable
func (s *Store) Defaults() *Configuration {
	return &Configuration{
		DefaultCreationPath: s.defaultPath,
		SearchPaths:         []string{s.defaultPath},
	}
}

// Load returns the persisted configuration. A missing, empty, unparsable or
// incomplete file is replaced with the defaults, which are persisted before
// being returned.
func (s *Store) Load() (*Configuration, error) {
	cfg, err := s.read()
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, core.ErrConfigCorrupt) {
		return nil, err
	}

	s.logger.Printf("⚠️  %v, writing defaults", err)

	// An empty directory squatting on the file name is cleared; one with
	// content is left alone.
	if fi, err := s.fs.Stat(s.Path()); err == nil && fi.IsDir() {
		empty, err := afero.IsEmpty(s.fs, s.Path())
		if err == nil && !empty {
			err = fmt.Errorf("%s is a non-empty directory", FileName)
		}
		if err == nil {
			err = s.fs.Remove(s.Path())
		}
		if err != nil {
			return nil, &core.Error{Op: "load config", Path: s.Path(), Err: err}
		}
	}

	def := s.Defaults()
	if err := s.RecordPath(def.DefaultCreationPath); err != nil {
		return nil, err
	}
	if err := s.write(def); err != nil {
		return nil, err
	}
	return s.read()
}

// Save merges patch into the stored configuration, keeps the default
// creation path among the search paths, writes the result and returns what
// was read back
func (s *Store) Save(patch Patch) (*Configuration, error) {
	cur, err := s.Load()
	if err != nil {
		return nil, err
	}

	next := &Configuration{
		DefaultCreationPath: cur.DefaultCreationPath,
		SearchPaths:         cur.SearchPaths,
	}
	if patch.DefaultCreationPath != nil {
		if *patch.DefaultCreationPath == "" {
			return nil, &core.Error{Op: "save config", Err: fmt.Errorf("empty default creation path: %w", core.ErrInvalidPath)}
		}
		next.DefaultCreationPath = filepath.Clean(*patch.DefaultCreationPath)
	}
	if patch.SearchPaths != nil {
		next.SearchPaths = patch.SearchPaths
	}
	next.SearchPaths = normalize(next.SearchPaths)
	if !contains(next.SearchPaths, next.DefaultCreationPath) {
		next.SearchPaths = append(next.SearchPaths, next.DefaultCreationPath)
	}

	// History is updated first so a crash never loses a used path
	if next.DefaultCreationPath != cur.DefaultCreationPath {
		if err := s.RecordPath(next.DefaultCreationPath); err != nil {
			return nil, err
		}
	}

	if err := s.write(next); err != nil {
		return nil, err
	}
	s.logger.Printf("✓ Saved %s", s.Path())
	return s.read()
}

// SetDefault changes the default creation path
func (s *Store) SetDefault(path string) (*Configuration, error) {
	return s.Save(Patch{DefaultCreationPath: &path})
}

// AddSearchPath adds path to the search paths
func (s *Store) AddSearchPath(path string) (*Configuration, error) {
	cur, err := s.Load()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if contains(cur.SearchPaths, path) {
		return cur, nil
	}
	return s.Save(Patch{SearchPaths: append(cur.SearchPaths, path)})
}

// RemoveSearchPath removes path from the search paths. The default creation
// path cannot be removed.
func (s *Store) RemoveSearchPath(path string) (*Configuration, error) {
	cur, err := s.Load()
	if err != nil {
		return nil, err
	}
	path = filepath.Clean(path)
	if path == cur.DefaultCreationPath {
		return nil, &core.Error{Op: "remove search path", Path: path,
			Err: fmt.Errorf("it is the default creation path: %w", core.ErrInvalidPath)}
	}
	if !contains(cur.SearchPaths, path) {
		return nil, &core.Error{Op: "remove search path", Path: path, Err: core.ErrPathNotFound}
	}

	var kept []string
	for _, p := range cur.SearchPaths {
		if p != path {
			kept = append(kept, p)
		}
	}
	return s.Save(Patch{SearchPaths: kept})
}

func (s *Store) read() (*Configuration, error) {
	if fi, err := s.fs.Stat(s.Path()); err == nil && fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory: %w", FileName, core.ErrConfigCorrupt)
	}
	data, err := afero.ReadFile(s.fs, s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s missing: %w", FileName, core.ErrConfigCorrupt)
		}
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty: %w", FileName, core.ErrConfigCorrupt)
	}

	var f configFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %v: %w", FileName, err, core.ErrConfigCorrupt)
	}
	if f.Path == nil || f.Path.DefaultCreationPath == "" || f.Path.SearchPaths == nil {
		return nil, fmt.Errorf("%s is incomplete: %w", FileName, core.ErrConfigCorrupt)
	}

	return f.Path, nil
}

func (s *Store) write(cfg *Configuration) error {
	data, err := json.MarshalIndent(configFile{Path: cfg}, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := atomicWriteFile(s.fs, s.Path(), data, 0644); err != nil {
		return &core.Error{Op: "write config", Path: s.Path(), Err: err}
	}
	return nil
}

func normalize(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		p = filepath.Clean(p)
		if !contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
