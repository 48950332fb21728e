// pkg/locator/types.go
package locator

import (
	"log"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner"
)

// Hive is a registry root
type Hive int

const (
	LocalMachine Hive = iota
	CurrentUser
)

func (h Hive) String() string {
	if h == LocalMachine {
		return "HKLM"
	}
	return "HKCU"
}

// RegistryReader reads the Windows registry
type RegistryReader interface {
	// SubKeys lists the names of the subkeys of path
	SubKeys(hive Hive, path string) ([]string, error)

	// StringValue reads a string value; an empty name reads the default value
	StringValue(hive Hive, path, name string) (string, error)
}

// Config configures the locator
type Config struct {
	GOOS        string                       // Target OS (default: runtime.GOOS)
	InstallPath string                       // Where pyman installs interpreters
	Registry    RegistryReader               // Default: the host registry
	LookPath    func(string) (string, error) // Default: exec.LookPath
	Getenv      func(string) string          // Default: os.Getenv
	Runner      runner.Runner                // Required for version queries
	Fs          afero.Fs                     // Default: the OS filesystem
	Debug       bool                         // Enable debug logging
	Logger      *log.Logger                  // Custom logger (optional)
}

// Snapshot is the result of one discovery pass
type Snapshot struct {
	Interpreters  []core.InterpreterRecord `json:"interpreters" yaml:"interpreters"`
	Distributions []core.InterpreterRecord `json:"distributions" yaml:"distributions"`
}

// All returns interpreters followed by distributions
func (s *Snapshot) All() []core.InterpreterRecord {
	out := make([]core.InterpreterRecord, 0, len(s.Interpreters)+len(s.Distributions))
	out = append(out, s.Interpreters...)
	return append(out, s.Distributions...)
}
