// pkg/core/config.go
package core

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SettingsFileName is the runtime settings file inside the config directory
const SettingsFileName = "settings.yaml"

// Settings holds pyman runtime preferences.
// The user's environment paths live in the JSON store of pkg/config.
type Settings struct {
	Debug           bool   `json:"debug" yaml:"debug"`
	Terminal        string `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	InstallPath     string `json:"install_path" yaml:"install_path"`
	CachePath       string `json:"cache_path" yaml:"cache_path"`
	PythonMirror    string `json:"python_mirror,omitempty" yaml:"python_mirror,omitempty"`
	MiniforgeMirror string `json:"miniforge_mirror,omitempty" yaml:"miniforge_mirror,omitempty"`
	PythonArchive   string `json:"python_archive,omitempty" yaml:"python_archive,omitempty"`
}

// SettingKeys are the keys accepted by Set, as spelled in settings.yaml
var SettingKeys = []string{
	"debug",
	"terminal",
	"install_path",
	"cache_path",
	"python_mirror",
	"miniforge_mirror",
	"python_archive",
}

// DefaultSettings returns settings with sensible defaults
func DefaultSettings() *Settings {
	return &Settings{
		Debug:       false,
		InstallPath: getDefaultInstallPath(),
		CachePath:   getDefaultCachePath(),
	}
}

// DefaultConfigDir returns the per-user configuration directory
func DefaultConfigDir() string {
	if dir := os.Getenv("PYMAN_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pyman")
	}
	return filepath.Join(home, ".config", "pyman")
}

// LoadSettings loads settings from path, or from the default config directory
// when path is empty. A missing file yields the defaults.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), SettingsFileName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}

	// Empty values in the file fall back to the defaults
	if s.InstallPath == "" {
		s.InstallPath = getDefaultInstallPath()
	}
	if s.CachePath == "" {
		s.CachePath = getDefaultCachePath()
	}

	return s, nil
}

// Set assigns one setting from its textual value
func (s *Settings) Set(key, value string) error {
	switch key {
	case "debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		s.Debug = b
	case "terminal":
		s.Terminal = value
	case "install_path", "cache_path":
		if value == "" {
			return &Error{Op: "set " + key, Err: ErrInvalidPath}
		}
		if key == "install_path" {
			s.InstallPath = value
		} else {
			s.CachePath = value
		}
	case "python_mirror":
		s.PythonMirror = value
	case "miniforge_mirror":
		s.MiniforgeMirror = value
	case "python_archive":
		s.PythonArchive = value
	default:
		return fmt.Errorf("unknown setting %q (want one of %s)", key, strings.Join(SettingKeys, ", "))
	}
	return nil
}

// SaveSettings saves settings to path
func SaveSettings(s *Settings, path string) error {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), SettingsFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}

func getDefaultInstallPath() string {
	if path := os.Getenv("PYMAN_INSTALL_PATH"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pyman")
	}

	if runtime.GOOS == "windows" {
		return filepath.Join(home, "AppData", "Local", "pyman")
	}
	return filepath.Join(home, ".local", "pyman")
}

func getDefaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "pyman-cache")
	}
	return filepath.Join(dir, "pyman")
}
