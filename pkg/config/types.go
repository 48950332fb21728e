// pkg/config/types.go
package config

import (
	"log"

	"github.com/spf13/afero"
)

const (
	// FileName is the configuration file inside the config directory
	FileName = "config.json"

	// HistoryFileName records every default creation path ever used
	HistoryFileName = "history.json"

	// DefaultVenvDirName is the directory new environments go to by default
	DefaultVenvDirName = ".pyman_venvs"
)

// Configuration is the user's environment locations
type Configuration struct {
	DefaultCreationPath string   `json:"venv_default_path" yaml:"venv_default_path"`
	SearchPaths         []string `json:"venv_search_path" yaml:"venv_search_path"`
}

// Patch describes a change to the configuration; nil fields are left as-is
type Patch struct {
	DefaultCreationPath *string
	SearchPaths         []string
}

// History is the set of every default creation path ever configured
type History struct {
	UsedPaths []string `json:"path" yaml:"path"`
}

// Config configures the store
type Config struct {
	Dir    string      // Config directory (default: core.DefaultConfigDir())
	Home   string      // Home directory used for defaults (default: os.UserHomeDir())
	GOOS   string      // Platform used for defaults (default: runtime.GOOS)
	Fs     afero.Fs    // Default: the OS filesystem
	Debug  bool        // Enable debug logging
	Logger *log.Logger // Custom logger (optional)
}

// on-disk layouts
type configFile struct {
	Path *Configuration `json:"path"`
}

type historyFile struct {
	Path []string `json:"path"`
}
