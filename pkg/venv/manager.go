// pkg/venv/manager.go
package venv

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/classify"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner"
)

// Manager creates, deletes, lists and runs commands in virtual environments
type Manager struct {
	config     *Config
	fs         afero.Fs
	runner     runner.Runner
	classifier *classify.Classifier
	logger     *log.Logger
}

// New creates an environment manager
func New(cfg *Config) *Manager {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	if cfg.Fs == nil {
		cfg.Fs = afero.NewOsFs()
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir, _ = os.UserHomeDir()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[VENV] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	classifier := cfg.Classifier
	if classifier == nil {
		classifier = classify.New(&classify.Config{Fs: cfg.Fs, Logger: logger})
	}

	return &Manager{
		config:     cfg,
		fs:         cfg.Fs,
		runner:     cfg.Runner,
		classifier: classifier,
		logger:     logger,
	}
}

// ValidateName rejects names that are empty or would escape the root
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return &core.Error{Op: "create", Err: fmt.Errorf("empty environment name: %w", core.ErrInvalidName)}
	}
	if trimmed != name || trimmed == "." || trimmed == ".." || strings.ContainsAny(name, `/\`) {
		return &core.Error{Op: "create", Path: name, Err: core.ErrInvalidName}
	}
	return nil
}

// Create creates environment name under root from dist. Nothing is touched
// when the name is invalid or root/name already exists. If the creation
// command fails, the directory created here is removed again.
func (m *Manager) Create(ctx context.Context, name string, dist core.InterpreterRecord, root string, opts Options) (*core.EnvironmentRecord, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if root == "" {
		return nil, &core.Error{Op: "create", Path: name, Err: fmt.Errorf("no creation root: %w", core.ErrInvalidPath)}
	}

	dir := filepath.Join(root, name)
	if exists, err := afero.Exists(m.fs, dir); err != nil {
		return nil, &core.Error{Op: "create", Path: dir, Err: err}
	} else if exists {
		return nil, &core.Error{Op: "create", Path: dir, Err: core.ErrAlreadyExists}
	}

	m.logger.Printf("Creating %s environment %s", dist.Kind, dir)
	m.logger.Printf("Step 1: Creating directory")
	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return nil, &core.Error{Op: "create", Path: dir, Err: err}
	}

	script := CreateScript(dist, dir, m.config.GOOS)
	m.logger.Printf("Step 2: Running %s", script)

	var err error
	if opts.Terminal {
		err = m.runner.Launch(ctx, runner.Command{Script: script}, runner.LaunchOptions{
			Wait:      opts.Wait,
			Minimized: opts.Minimized,
		})
	} else {
		_, err = m.runner.Run(ctx, runner.Command{Script: script})
	}
	if err != nil {
		m.logger.Printf("  ⚠️  Creation failed, removing %s", dir)
		if rmErr := m.fs.RemoveAll(dir); rmErr != nil {
			m.logger.Printf("  ⚠️  Warning: could not remove %s: %v", dir, rmErr)
		}
		return nil, &core.Error{Op: "create", Path: dir, Err: err}
	}

	env := &core.EnvironmentRecord{
		Name: name,
		Path: dir,
		Kind: dist.Kind,
	}
	if dist.Kind == core.KindConda {
		env.DistributionPath = dist.Path
	}

	m.logger.Printf("  ✓ Created %s", dir)
	return env, nil
}

// Delete removes env. Conda environments are first unregistered through
// their distribution; a failure there is logged and the directory is
// removed anyway.
func (m *Manager) Delete(ctx context.Context, env core.EnvironmentRecord) error {
	if exists, _ := afero.DirExists(m.fs, env.Path); !exists {
		return &core.Error{Op: "delete", Path: env.Path, Err: core.ErrPathNotFound}
	}

	m.logger.Printf("Deleting %s environment %s", env.Kind, env.Path)

	if env.Kind == core.KindConda && env.DistributionPath != "" {
		script := RemoveScript(env, m.config.GOOS)
		m.logger.Printf("Step 1: %s", script)
		if _, err := m.runner.Run(ctx, runner.Command{Script: script}); err != nil {
			m.logger.Printf("  ⚠️  Warning: conda env remove failed: %v", err)
		}
	}

	if err := m.fs.RemoveAll(env.Path); err != nil {
		return &core.Error{Op: "delete", Path: env.Path, Err: err}
	}

	m.logger.Printf("  ✓ Deleted %s", env.Path)
	return nil
}

// List returns every environment directly under the search paths.
// Missing search paths and unclassifiable directories are skipped.
func (m *Manager) List(searchPaths []string) []core.EnvironmentRecord {
	var envs []core.EnvironmentRecord
	seen := make(map[string]bool)

	for _, root := range searchPaths {
		entries, err := afero.ReadDir(m.fs, root)
		if err != nil {
			m.logger.Printf("Skipping search path %s: %v", root, err)
			continue
		}

		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			dir := filepath.Join(root, entry.Name())
			if seen[dir] || !classify.IsEnvironment(m.fs, dir) {
				continue
			}
			seen[dir] = true

			env, err := m.Inspect(dir)
			if err != nil {
				m.logger.Printf("  ⚠️  Skipping %s: %v", dir, err)
				continue
			}
			envs = append(envs, *env)
		}
	}

	return envs
}

// Inspect classifies the environment at dir
func (m *Manager) Inspect(dir string) (*core.EnvironmentRecord, error) {
	root := classify.EnvRoot(dir)
	c, err := m.classifier.Classify(root, m.config.GOOS)
	if err != nil {
		return nil, err
	}
	return &core.EnvironmentRecord{
		Name:             filepath.Base(root),
		Path:             root,
		Kind:             c.Kind,
		DistributionPath: c.DistributionPath,
	}, nil
}

// Find looks an environment up by name in the search paths, or by path
func (m *Manager) Find(nameOrPath string, searchPaths []string) (*core.EnvironmentRecord, error) {
	if strings.ContainsAny(nameOrPath, `/\`) {
		if ok, _ := afero.DirExists(m.fs, nameOrPath); !ok {
			return nil, &core.Error{Op: "find", Path: nameOrPath, Err: core.ErrPathNotFound}
		}
		return m.Inspect(nameOrPath)
	}

	for _, root := range searchPaths {
		dir := filepath.Join(root, nameOrPath)
		if classify.IsEnvironment(m.fs, dir) {
			return m.Inspect(dir)
		}
	}
	return nil, &core.Error{Op: "find", Path: nameOrPath, Err: core.ErrPathNotFound}
}

// Run runs action inside t. Interactive actions always get a terminal
// window; the others capture their output unless opts.Terminal is set.
func (m *Manager) Run(ctx context.Context, t Target, a Action, opts Options) (*runner.Result, error) {
	script := ActionScript(t, a, m.config.GOOS)
	m.logger.Printf("Running %s in %s", a, t.Path)

	if a.Interactive() || opts.Terminal {
		err := m.runner.Launch(ctx, runner.Command{Script: script, Dir: m.config.WorkDir}, runner.LaunchOptions{
			Wait:      opts.Wait,
			Minimized: opts.Minimized,
			KeepOpen:  a == ActionConsole,
		})
		if err != nil {
			return nil, &core.Error{Op: a.String(), Path: t.Path, Err: err}
		}
		return &runner.Result{}, nil
	}

	res, err := m.runner.Run(ctx, runner.Command{Script: script, Dir: m.config.WorkDir})
	if err != nil {
		return res, &core.Error{Op: a.String(), Path: t.Path, Err: err}
	}
	return res, nil
}

// InstallPackage installs name (pinned to version if set) into t
func (m *Manager) InstallPackage(ctx context.Context, t Target, name, version string, opts Options) (*runner.Result, error) {
	script, err := InstallPackageScript(t, name, version, m.config.GOOS)
	if err != nil {
		return nil, err
	}
	m.logger.Printf("Installing %s %s into %s", name, version, t.Path)

	if opts.Terminal {
		if err := m.runner.Launch(ctx, runner.Command{Script: script, Dir: m.config.WorkDir}, runner.LaunchOptions{Wait: opts.Wait}); err != nil {
			return nil, &core.Error{Op: "install", Path: t.Path, Err: err}
		}
		return &runner.Result{}, nil
	}

	res, err := m.runner.Run(ctx, runner.Command{Script: script, Dir: m.config.WorkDir})
	if err != nil {
		return res, &core.Error{Op: "install", Path: t.Path, Err: err}
	}
	return res, nil
}
