// pyman.go

// Package pyman finds Python interpreters and Conda distributions, and
// creates, lists, runs and deletes the virtual environments built from them.
package pyman

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/arc-language/pyman/pkg/catalog"
	"github.com/arc-language/pyman/pkg/classify"
	"github.com/arc-language/pyman/pkg/config"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/installer"
	"github.com/arc-language/pyman/pkg/locator"
	"github.com/arc-language/pyman/pkg/runner"
	"github.com/arc-language/pyman/pkg/uninstall"
	"github.com/arc-language/pyman/pkg/venv"
)

// Re-export core types for convenience
type (
	Kind              = core.Kind
	InterpreterRecord = core.InterpreterRecord
	EnvironmentRecord = core.EnvironmentRecord
	Settings          = core.Settings
	Configuration     = config.Configuration
	Action            = venv.Action
	RunOptions        = venv.Options
)

// Re-export kinds
const (
	KindVanilla = core.KindVanilla
	KindConda   = core.KindConda
)

// Version is the pyman release
const Version = "0.1.0"

// Options configures an App. Zero values select the host defaults.
type Options struct {
	ConfigDir string                       // Default: core.DefaultConfigDir()
	Home      string                       // Default: os.UserHomeDir()
	GOOS      string                       // Default: runtime.GOOS
	Settings  *core.Settings               // Default: settings.yaml in ConfigDir
	Debug     bool                         // Log every component to stderr
	Logger    *log.Logger                  // Custom logger (optional)
	Runner    runner.Runner                // Default: runner.New
	Fs        afero.Fs                     // Default: the OS filesystem
	LookPath  func(string) (string, error) // Default: exec.LookPath
	Getenv    func(string) string          // Default: os.Getenv
}

// App is built once at startup and carries every component
type App struct {
	Settings    *core.Settings
	Store       *config.Store
	Runner      runner.Runner
	Locator     *locator.Locator
	Classifier  *classify.Classifier
	Envs        *venv.Manager
	Catalog     *catalog.Catalog
	Installer   *installer.Installer
	Uninstaller *uninstall.Uninstaller

	goos   string
	logger *log.Logger
}

// Inventory is everything pyman knows about the machine
type Inventory struct {
	Interpreters  []core.InterpreterRecord `json:"interpreters" yaml:"interpreters"`
	Distributions []core.InterpreterRecord `json:"distributions" yaml:"distributions"`
	Environments  []core.EnvironmentRecord `json:"environments" yaml:"environments"`
	Configuration *config.Configuration    `json:"configuration" yaml:"configuration"`
}

// New builds an App
func New(opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	configDir := opts.ConfigDir
	if configDir == "" {
		configDir = core.DefaultConfigDir()
	}
	goos := opts.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}

	settings := opts.Settings
	if settings == nil {
		s, err := core.LoadSettings(filepath.Join(configDir, core.SettingsFileName))
		if err != nil {
			return nil, &core.Error{Op: "load settings", Path: configDir, Err: err}
		}
		settings = s
	}
	debug := opts.Debug || settings.Debug

	logger := opts.Logger
	if logger == nil {
		if debug {
			logger = log.New(os.Stderr, "[PYMAN] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	r := opts.Runner
	if r == nil {
		r = runner.New(&runner.Config{Terminal: settings.Terminal, Debug: debug, Logger: logger})
	}

	store := config.New(&config.Config{Dir: configDir, Home: opts.Home, GOOS: goos, Fs: fs, Logger: logger})
	classifier := classify.New(&classify.Config{Fs: fs, Logger: logger})
	cat, err := catalog.Default().
		WithMirrors(settings.PythonMirror, settings.MiniforgeMirror).
		WithArchive(settings.PythonArchive)
	if err != nil {
		return nil, &core.Error{Op: "load settings", Path: configDir, Err: err}
	}

	app := &App{
		Settings: settings,
		Store:    store,
		Runner:   r,
		Locator: locator.New(&locator.Config{
			GOOS:        goos,
			InstallPath: settings.InstallPath,
			LookPath:    opts.LookPath,
			Getenv:      opts.Getenv,
			Runner:      r,
			Fs:          fs,
			Logger:      logger,
		}),
		Classifier: classifier,
		Envs: venv.New(&venv.Config{
			GOOS:       goos,
			Fs:         fs,
			Runner:     r,
			Classifier: classifier,
			WorkDir:    opts.Home,
			Logger:     logger,
		}),
		Catalog: cat,
		Installer: installer.New(&installer.Config{
			GOOS:        goos,
			InstallPath: settings.InstallPath,
			CachePath:   settings.CachePath,
			Catalog:     cat,
			Runner:      r,
			Logger:      logger,
		}),
		Uninstaller: uninstall.New(&uninstall.Config{
			Fs:          fs,
			Store:       store,
			InstallPath: settings.InstallPath,
			CachePath:   settings.CachePath,
			Logger:      logger,
		}),
		goos:   goos,
		logger: logger,
	}

	logger.Printf("pyman %s (%s), config in %s", Version, goos, configDir)
	return app, nil
}

// SettingsPath is the settings.yaml the App reads
func (a *App) SettingsPath() string {
	return filepath.Join(a.Store.Dir(), core.SettingsFileName)
}

// SetSetting changes one key of settings.yaml and saves it. The running App
// keeps its current settings; the change applies from the next start.
func (a *App) SetSetting(key, value string) (*core.Settings, error) {
	next := *a.Settings
	if err := next.Set(key, value); err != nil {
		return nil, err
	}
	if key == "python_archive" {
		if _, err := catalog.Default().WithArchive(value); err != nil {
			return nil, &core.Error{Op: "set " + key, Err: err}
		}
	}
	if err := core.SaveSettings(&next, a.SettingsPath()); err != nil {
		return nil, err
	}
	a.logger.Printf("✓ Saved %s", a.SettingsPath())
	return &next, nil
}

// GOOS returns the platform the App targets
func (a *App) GOOS() string { return a.goos }

// Inventory discovers interpreters and lists environments concurrently
func (a *App) Inventory(ctx context.Context) (*Inventory, error) {
	inv := &Inventory{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap := a.Locator.Discover(gctx)
		inv.Interpreters = snap.Interpreters
		inv.Distributions = snap.Distributions
		return nil
	})

	g.Go(func() error {
		cfg, err := a.Store.Load()
		if err != nil {
			return err
		}
		inv.Configuration = cfg
		inv.Environments = a.Envs.List(cfg.SearchPaths)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Environments lists the environments under the configured search paths
func (a *App) Environments() ([]core.EnvironmentRecord, error) {
	cfg, err := a.Store.Load()
	if err != nil {
		return nil, err
	}
	return a.Envs.List(cfg.SearchPaths), nil
}

// FindEnvironment looks an environment up by name or path
func (a *App) FindEnvironment(nameOrPath string) (*core.EnvironmentRecord, error) {
	cfg, err := a.Store.Load()
	if err != nil {
		return nil, err
	}
	return a.Envs.Find(nameOrPath, cfg.SearchPaths)
}

// SelectInterpreter picks a discovered interpreter or distribution.
// ref may be empty (the first vanilla interpreter), "conda" (the first
// distribution), an exact path, or a version prefix such as "3.11".
func (a *App) SelectInterpreter(ctx context.Context, ref string) (*core.InterpreterRecord, error) {
	snap := a.Locator.Discover(ctx)

	pick := func(records []core.InterpreterRecord) (*core.InterpreterRecord, error) {
		if len(records) == 0 {
			return nil, &core.Error{Op: "select interpreter", Path: ref, Err: core.ErrPathNotFound}
		}
		r := records[0]
		return &r, nil
	}

	if ref == "" {
		return pick(snap.Interpreters)
	}
	if k, err := core.ParseKind(ref); err == nil {
		if k == core.KindConda {
			return pick(snap.Distributions)
		}
		return pick(snap.Interpreters)
	}

	all := snap.All()
	for _, r := range all {
		if r.Path == ref || filepath.Clean(r.Path) == filepath.Clean(ref) {
			return &r, nil
		}
	}
	for _, r := range all {
		if r.Version == ref || strings.HasPrefix(r.Version, ref+".") {
			return &r, nil
		}
	}
	return nil, &core.Error{Op: "select interpreter", Path: ref, Err: core.ErrPathNotFound}
}

// CreateEnvironment creates name from the interpreter selected by python.
// An empty root means the configured default creation path; any other root
// is recorded in the history so uninstall can find it.
func (a *App) CreateEnvironment(ctx context.Context, name, python, root string, opts venv.Options) (*core.EnvironmentRecord, error) {
	if err := venv.ValidateName(name); err != nil {
		return nil, err
	}

	dist, err := a.SelectInterpreter(ctx, python)
	if err != nil {
		return nil, err
	}

	if root == "" {
		cfg, err := a.Store.Load()
		if err != nil {
			return nil, err
		}
		root = cfg.DefaultCreationPath
	} else if err := a.Store.RecordPath(root); err != nil {
		return nil, err
	}

	return a.Envs.Create(ctx, name, *dist, root, opts)
}

// DeleteEnvironment deletes the environment named or located at nameOrPath
func (a *App) DeleteEnvironment(ctx context.Context, nameOrPath string) (*core.EnvironmentRecord, error) {
	env, err := a.FindEnvironment(nameOrPath)
	if err != nil {
		return nil, err
	}
	if err := a.Envs.Delete(ctx, *env); err != nil {
		return nil, err
	}
	return env, nil
}

// ResolveTarget finds where to run a command: an environment by name or
// path, or else a base interpreter selected as in SelectInterpreter
func (a *App) ResolveTarget(ctx context.Context, ref string) (venv.Target, error) {
	env, err := a.FindEnvironment(ref)
	if err == nil {
		return venv.EnvTarget(*env), nil
	}

	rec, ierr := a.SelectInterpreter(ctx, ref)
	if ierr != nil {
		a.logger.Printf("No interpreter matches %q: %v", ref, ierr)
		return venv.Target{}, err
	}
	return venv.InterpreterTarget(*rec), nil
}

// Run runs action inside the environment or interpreter ref
func (a *App) Run(ctx context.Context, ref string, action venv.Action, opts venv.Options) (*runner.Result, error) {
	t, err := a.ResolveTarget(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.Envs.Run(ctx, t, action, opts)
}

// InstallPackage installs a package into the environment or interpreter ref
func (a *App) InstallPackage(ctx context.Context, ref, name, version string, opts venv.Options) (*runner.Result, error) {
	t, err := a.ResolveTarget(ctx, ref)
	if err != nil {
		return nil, err
	}
	return a.Envs.InstallPackage(ctx, t, name, version, opts)
}
