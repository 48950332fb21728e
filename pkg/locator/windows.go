// pkg/locator/windows.go
package locator

import (
	"path/filepath"
	"strings"

	"github.com/arc-language/pyman/pkg/core"
)

var hives = []Hive{LocalMachine, CurrentUser}

// scanPythonCore reads the PEP 514 registrations of both hives
func (l *Locator) scanPythonCore() []core.InterpreterRecord {
	var records []core.InterpreterRecord
	reg := l.config.Registry

	for _, hive := range hives {
		tags, err := reg.SubKeys(hive, PythonCoreKey)
		if err != nil {
			l.logger.Printf("  %s\\%s: %v", hive, PythonCoreKey, err)
			continue
		}

		for _, tag := range tags {
			key := PythonCoreKey + `\` + tag

			version, err := reg.StringValue(hive, key, "Version")
			if err != nil || version == "" {
				// Older installers only write SysVersion
				version, err = reg.StringValue(hive, key, "SysVersion")
			}
			if err != nil || version == "" {
				l.logger.Printf("  ⚠️  Skipping %s\\%s: no version", hive, key)
				continue
			}

			installPath, err := reg.StringValue(hive, key+`\InstallPath`, "")
			if err != nil || installPath == "" {
				l.logger.Printf("  ⚠️  Skipping %s\\%s: no install path", hive, key)
				continue
			}

			l.logger.Printf("  Found Python %s at %s (%s)", version, installPath, hive)
			records = appendNew(records, core.InterpreterRecord{
				Path:     strings.TrimRight(installPath, `\`),
				Version:  version,
				Elevated: hive == LocalMachine,
				Kind:     core.KindVanilla,
			})
		}
	}

	return records
}

// scanMiniforge finds Miniforge through its uninstaller registration
func (l *Locator) scanMiniforge() []core.InterpreterRecord {
	var records []core.InterpreterRecord
	reg := l.config.Registry

	for _, hive := range hives {
		names, err := reg.SubKeys(hive, UninstallKey)
		if err != nil {
			l.logger.Printf("  %s\\%s: %v", hive, UninstallKey, err)
			continue
		}

		for _, name := range names {
			if !strings.Contains(name, MiniforgeMarker) {
				continue
			}
			key := UninstallKey + `\` + name

			version, err := reg.StringValue(hive, key, "DisplayVersion")
			if err != nil {
				l.logger.Printf("  ⚠️  Skipping %s\\%s: %v", hive, key, err)
				continue
			}

			uninstaller, err := reg.StringValue(hive, key, "UninstallString")
			if err != nil || uninstaller == "" {
				l.logger.Printf("  ⚠️  Skipping %s\\%s: no uninstall string", hive, key)
				continue
			}

			root := windowsDir(strings.ReplaceAll(uninstaller, `"`, ""))
			l.logger.Printf("  Found Miniforge %s at %s (%s)", version, root, hive)
			records = appendNew(records, core.InterpreterRecord{
				Path:     root,
				Version:  version,
				Elevated: hive == LocalMachine,
				Kind:     core.KindConda,
			})
		}
	}

	return records
}

// windowsDir is filepath.Dir for Windows paths regardless of the host OS
func windowsDir(p string) string {
	p = strings.TrimSpace(p)
	i := strings.LastIndexAny(p, `\/`)
	if i < 0 {
		return filepath.Dir(p)
	}
	dir := p[:i]
	if strings.HasSuffix(dir, ":") {
		dir += `\`
	}
	return dir
}
