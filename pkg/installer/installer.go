// pkg/installer/installer.go
package installer

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/arc-language/pyman/pkg/catalog"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/platform"
	"github.com/arc-language/pyman/pkg/pyversion"
	"github.com/arc-language/pyman/pkg/runner"
	"github.com/arc-language/pyman/pkg/shell"
)

const (
	// WindowsPythonArgs installs CPython for the current user with a progress window
	WindowsPythonArgs = "/passive InstallAllUsers=0"

	// WindowsMiniforgeArgs installs Miniforge silently for the current user
	WindowsMiniforgeArgs = "/S /InstallationType=JustMe /RegisterPython=0"
)

// Installer downloads and installs CPython and Miniforge
type Installer struct {
	config  *Config
	client  *Client
	catalog *catalog.Catalog
	runner  runner.Runner
	logger  *log.Logger
}

// New creates an installer
func New(cfg *Config) *Installer {
	if cfg == nil {
		cfg = &Config{}
	}

	if cfg.GOOS == "" {
		cfg.GOOS = runtime.GOOS
	}
	if cfg.Arch == "" {
		cfg.Arch = platform.Detect().MachineArch()
	}
	if cfg.InstallPath == "" || cfg.CachePath == "" {
		defaults := core.DefaultSettings()
		if cfg.InstallPath == "" {
			cfg.InstallPath = defaults.InstallPath
		}
		if cfg.CachePath == "" {
			cfg.CachePath = defaults.CachePath
		}
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.Jobs == 0 {
		cfg.Jobs = runtime.NumCPU()
	}

	logger := cfg.Logger
	if logger == nil {
		if cfg.Debug {
			logger = log.New(os.Stderr, "[INSTALL] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	inst := &Installer{
		config:  cfg,
		client:  NewClient(cfg.Timeout, logger),
		catalog: cfg.Catalog,
		runner:  cfg.Runner,
		logger:  logger,
	}

	if cfg.Debug {
		inst.logger.Printf("Initialized Installer")
		inst.logger.Printf("  Platform: %s/%s", cfg.GOOS, cfg.Arch)
		inst.logger.Printf("  InstallPath: %s", cfg.InstallPath)
		inst.logger.Printf("  CachePath: %s", cfg.CachePath)
	}

	return inst
}

// Install downloads and installs the requested distribution
func (i *Installer) Install(ctx context.Context, req Request) (*Result, error) {
	if req.Kind == core.KindConda {
		return i.installMiniforge(ctx, req)
	}
	return i.installPython(ctx, req)
}

func (i *Installer) installPython(ctx context.Context, req Request) (*Result, error) {
	release, err := i.catalog.Resolve(req.Version)
	if err != nil {
		return nil, err
	}
	version := release.Version

	i.logger.Printf("Installing %s (%s)", release.Label, version)

	url, filename := i.catalog.PythonURL(version, i.config.GOOS)
	archive := filepath.Join(i.config.CachePath, filename)

	i.logger.Printf("Step 1: Downloading %s", filename)
	if _, err := i.client.Download(ctx, url, archive); err != nil {
		return nil, err
	}

	result := &Result{Kind: core.KindVanilla, Version: version, Installer: archive}

	switch i.config.GOOS {
	case "windows":
		i.logger.Printf("Step 2: Running installer")
		if err := i.runWindowsInstaller(ctx, archive, WindowsPythonArgs); err != nil {
			return nil, err
		}
	case "linux", "darwin":
		path, err := i.buildFromSource(ctx, archive, version, req.Terminal)
		if err != nil {
			return nil, err
		}
		result.Path = path
	default:
		return nil, &core.Error{Op: "install python", Path: version, Err: core.ErrPlatformNotSupported}
	}

	i.logger.Printf("  ✓ Installed Python %s", version)
	return result, nil
}

func (i *Installer) buildFromSource(ctx context.Context, archive, version string, terminal bool) (string, error) {
	buildRoot := filepath.Join(i.config.CachePath, "build")
	sourceDir := filepath.Join(buildRoot, "Python-"+version)
	prefix := filepath.Join(i.config.InstallPath, "python-"+version)

	i.logger.Printf("Step 2: Extracting to %s", buildRoot)
	if err := os.RemoveAll(sourceDir); err != nil {
		return "", fmt.Errorf("cleaning build directory: %w", err)
	}
	f, err := os.Open(archive)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	err = ExtractTarball(f, archive, buildRoot, i.logger)
	f.Close()
	if err != nil {
		return "", &core.Error{Op: "extract", Path: archive, Err: err}
	}

	d := shell.POSIX
	script := d.And(
		"./configure --prefix="+d.Quote(prefix),
		"make -j"+strconv.Itoa(i.config.Jobs),
		"make install",
	)

	i.logger.Printf("Step 3: Building in %s", sourceDir)
	cmd := runner.Command{Script: script, Dir: sourceDir}
	if terminal {
		err = i.runner.Launch(ctx, cmd, runner.LaunchOptions{Wait: true})
	} else {
		_, err = i.runner.Run(ctx, cmd)
	}
	if err != nil {
		return "", &core.Error{Op: "build python", Path: version, Err: err}
	}

	major, _ := pyversion.Major(version)
	return filepath.Join(prefix, "bin", "python"+strconv.Itoa(major)), nil
}

func (i *Installer) installMiniforge(ctx context.Context, req Request) (*Result, error) {
	version := req.Version
	if version == "" {
		version = i.catalog.Miniforge.Version
	}

	i.logger.Printf("Installing Miniforge %s", version)

	url, filename := i.catalog.MiniforgeURL(version, i.config.GOOS, i.config.Arch)
	installer := filepath.Join(i.config.CachePath, filename)

	i.logger.Printf("Step 1: Downloading %s", filename)
	if _, err := i.client.Download(ctx, url, installer); err != nil {
		return nil, err
	}

	result := &Result{Kind: core.KindConda, Version: version, Installer: installer}

	i.logger.Printf("Step 2: Running installer")
	if i.config.GOOS == "windows" {
		if err := i.runWindowsInstaller(ctx, installer, WindowsMiniforgeArgs); err != nil {
			return nil, err
		}
		return result, nil
	}

	prefix := filepath.Join(i.config.InstallPath, "conda")
	d := shell.POSIX
	// -b batch mode, -u update an existing prefix, -p prefix
	cmd := runner.Command{Script: "bash " + d.Quote(installer) + " -b -u -p " + d.Quote(prefix)}

	var err error
	if req.Terminal {
		err = i.runner.Launch(ctx, cmd, runner.LaunchOptions{Wait: true})
	} else {
		_, err = i.runner.Run(ctx, cmd)
	}
	if err != nil {
		return nil, &core.Error{Op: "install miniforge", Path: version, Err: err}
	}

	result.Path = prefix
	i.logger.Printf("  ✓ Installed Miniforge %s to %s", version, prefix)
	return result, nil
}

func (i *Installer) runWindowsInstaller(ctx context.Context, file, args string) error {
	script := fmt.Sprintf("Start-Process -FilePath '%s' -ArgumentList '%s' -Wait",
		strings.ReplaceAll(file, "'", "''"), args)
	if _, err := i.runner.PowerShell(ctx, script); err != nil {
		return &core.Error{Op: "run installer", Path: file, Err: err}
	}
	return nil
}
