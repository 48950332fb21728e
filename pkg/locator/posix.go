// pkg/locator/posix.go
package locator

import (
	"context"
	"path"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/pyversion"
	"github.com/arc-language/pyman/pkg/runner"
	"github.com/arc-language/pyman/pkg/shell"
)

// scanPath queries the candidate executables on PATH.
// A candidate reporting the same version as the previously accepted one is
// treated as an alias of it (python -> python3 -> python3.X).
func (l *Locator) scanPath(ctx context.Context) []core.InterpreterRecord {
	var records []core.InterpreterRecord
	lastVersion := ""

	for _, name := range Candidates {
		exe, err := l.config.LookPath(name)
		if err != nil {
			continue
		}

		version, err := l.queryVersion(ctx, exe)
		if err != nil {
			l.logger.Printf("  ⚠️  Skipping %s: %v", exe, err)
			continue
		}

		if version == lastVersion {
			l.logger.Printf("  %s reports %s again, skipping", exe, version)
			continue
		}
		lastVersion = version

		l.logger.Printf("  Found Python %s at %s", version, exe)
		records = appendNew(records, core.InterpreterRecord{
			Path:     exe,
			Version:  version,
			Elevated: isSystemPath(exe),
			Kind:     core.KindVanilla,
		})
	}

	return records
}

// scanManagedPythons lists interpreters pyman built under the install path
func (l *Locator) scanManagedPythons() []core.InterpreterRecord {
	var records []core.InterpreterRecord
	for _, dir := range ManagedPythonDirs(l.config.Fs, l.config.InstallPath) {
		version := strings.TrimPrefix(path.Base(dir), ManagedPythonPrefix)
		major, err := pyversion.Major(version)
		if err != nil {
			continue
		}
		exe := path.Join(dir, "bin", "python"+strconv.Itoa(major))
		if ok, _ := afero.Exists(l.config.Fs, exe); !ok {
			l.logger.Printf("  ⚠️  %s has no %s", dir, path.Base(exe))
			continue
		}
		records = append(records, core.InterpreterRecord{
			Path:    exe,
			Version: version,
			Kind:    core.KindVanilla,
		})
	}
	return records
}

// ManagedPythonDirs returns the python-X.Y.Z directories under installPath
func ManagedPythonDirs(fs afero.Fs, installPath string) []string {
	if installPath == "" {
		return nil
	}
	entries, err := afero.ReadDir(fs, installPath)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), ManagedPythonPrefix) {
			dirs = append(dirs, path.Join(installPath, e.Name()))
		}
	}
	return dirs
}

// scanConda finds the active base distribution and pyman's own Miniforge
func (l *Locator) scanConda(ctx context.Context) []core.InterpreterRecord {
	var records []core.InterpreterRecord

	if exe := l.config.Getenv(CondaPythonEnv); exe != "" {
		root := strings.TrimSuffix(exe, "/bin/python")
		if rec, err := l.inspectConda(ctx, root, isSystemPath(root)); err != nil {
			l.logger.Printf("  ⚠️  Skipping %s=%s: %v", CondaPythonEnv, exe, err)
		} else {
			records = append(records, *rec)
		}
	}

	if l.config.InstallPath != "" {
		root := path.Join(l.config.InstallPath, ManagedCondaDir)
		if ok, _ := afero.DirExists(l.config.Fs, root); ok {
			if rec, err := l.inspectConda(ctx, root, false); err != nil {
				l.logger.Printf("  ⚠️  Skipping %s: %v", root, err)
			} else {
				records = appendNew(records, *rec)
			}
		}
	}

	return records
}

func (l *Locator) inspectConda(ctx context.Context, root string, elevated bool) (*core.InterpreterRecord, error) {
	version, err := l.queryVersion(ctx, path.Join(root, "bin", "conda"))
	if err != nil {
		return nil, err
	}
	l.logger.Printf("  Found Conda %s at %s", version, root)
	return &core.InterpreterRecord{
		Path:     root,
		Version:  version,
		Elevated: elevated,
		Kind:     core.KindConda,
	}, nil
}

func (l *Locator) queryVersion(ctx context.Context, exe string) (string, error) {
	res, err := l.config.Runner.Run(ctx, runner.Command{
		Script: shell.POSIX.Quote(exe) + " --version",
	})
	if err != nil {
		return "", err
	}
	return pyversion.ParseOutput(res.Output)
}

func isSystemPath(p string) bool {
	for _, prefix := range elevatedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}
