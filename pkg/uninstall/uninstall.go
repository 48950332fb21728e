// pkg/uninstall/uninstall.go
package uninstall

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/classify"
	"github.com/arc-language/pyman/pkg/config"
	"github.com/arc-language/pyman/pkg/locator"
)

// Config configures the uninstaller
type Config struct {
	Fs          afero.Fs      // Default: the OS filesystem
	Store       *config.Store // Required: supplies the history and config directory
	InstallPath string        // Where pyman installed interpreters
	CachePath   string        // Where pyman keeps downloads
	Debug       bool          // Enable debug logging
	Logger      *log.Logger   // Custom logger (optional)
}

// Options selects what to remove
type Options struct {
	Environments  bool // Every environment under every path in the history
	Interpreters  bool // Source-built interpreters and the managed Miniforge
	Configuration bool // The configuration directory
	Cache         bool // Downloaded installers and build trees
}

// Report lists what was removed
type Report struct {
	Environments  []string `json:"environments" yaml:"environments"`
	Interpreters  []string `json:"interpreters" yaml:"interpreters"`
	Configuration string   `json:"configuration,omitempty" yaml:"configuration,omitempty"`
	Cache         string   `json:"cache,omitempty" yaml:"cache,omitempty"`
}

// Uninstaller removes what pyman created
type Uninstaller struct {
	config *Config
	fs     afero.Fs
	logger *log.Logger
}

// New creates an uninstaller
func New(cfg *Config) *Uninstaller {
	if cfg == nil {
		cfg = &Config{}
	}
	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[UNINSTALL] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Uninstaller{config: cfg, fs: fs, logger: logger}
}

// Run removes everything selected in opts. Removal is best-effort: every
// item is attempted and the failures are joined into the returned error.
// The configuration goes last because the history lives there.
func (u *Uninstaller) Run(opts Options) (*Report, error) {
	report := &Report{}
	var errs []error

	if opts.Environments {
		removed, err := u.removeEnvironments()
		report.Environments = removed
		if err != nil {
			errs = append(errs, err)
		}
	}

	if opts.Interpreters {
		removed, err := u.removeInterpreters()
		report.Interpreters = removed
		if err != nil {
			errs = append(errs, err)
		}
	}

	if opts.Cache && u.config.CachePath != "" {
		if err := u.fs.RemoveAll(u.config.CachePath); err != nil {
			errs = append(errs, fmt.Errorf("removing cache: %w", err))
		} else {
			report.Cache = u.config.CachePath
			u.logger.Printf("Removed %s", u.config.CachePath)
		}
	}

	if opts.Configuration && u.config.Store != nil {
		dir := u.config.Store.Dir()
		if err := u.fs.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("removing configuration: %w", err))
		} else {
			report.Configuration = dir
			u.logger.Printf("Removed %s", dir)
		}
	}

	return report, errors.Join(errs...)
}

func (u *Uninstaller) removeEnvironments() ([]string, error) {
	if u.config.Store == nil {
		return nil, fmt.Errorf("no configuration store")
	}
	history, err := u.config.Store.History()
	if err != nil {
		return nil, err
	}

	var removed []string
	var errs []error
	for _, root := range history.UsedPaths {
		entries, err := afero.ReadDir(u.fs, root)
		if err != nil {
			u.logger.Printf("Skipping %s: %v", root, err)
			continue
		}
		for _, e := range entries {
			dir := filepath.Join(root, e.Name())
			if !e.IsDir() || !classify.IsEnvironment(u.fs, dir) {
				continue
			}
			if err := u.fs.RemoveAll(dir); err != nil {
				errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
				continue
			}
			u.logger.Printf("Removed %s", dir)
			removed = append(removed, dir)
		}
	}
	return removed, errors.Join(errs...)
}

func (u *Uninstaller) removeInterpreters() ([]string, error) {
	if u.config.InstallPath == "" {
		return nil, nil
	}

	targets := locator.ManagedPythonDirs(u.fs, u.config.InstallPath)
	conda := filepath.Join(u.config.InstallPath, locator.ManagedCondaDir)
	if ok, _ := afero.DirExists(u.fs, conda); ok {
		targets = append(targets, conda)
	}

	var removed []string
	var errs []error
	for _, dir := range targets {
		if err := u.fs.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", dir, err))
			continue
		}
		u.logger.Printf("Removed %s", dir)
		removed = append(removed, dir)
	}
	return removed, errors.Join(errs...)
}
