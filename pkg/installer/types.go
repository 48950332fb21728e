// pkg/installer/types.go
package installer

import (
	"log"
	"time"

	"github.com/arc-language/pyman/pkg/catalog"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner"
)

// Config configures the installer
type Config struct {
	GOOS        string           // Target OS (default: runtime.GOOS)
	Arch        string           // Machine name used by release assets (default: detected)
	InstallPath string           // Where source builds and Miniforge go
	CachePath   string           // Where downloads are kept
	Catalog     *catalog.Catalog // Default: the embedded catalog
	Runner      runner.Runner    // Required
	Timeout     time.Duration    // HTTP timeout (default: 30 minutes)
	Jobs        int              // Parallel make jobs (default: NumCPU)
	Debug       bool             // Enable debug logging
	Logger      *log.Logger      // Custom logger (optional)
}

// Request selects what to install
type Request struct {
	Kind     core.Kind
	Version  string // "3.11", "3.11.9" or a Miniforge release; empty means latest in catalog
	Terminal bool   // Run the build or installer in a visible terminal
}

// Result describes a finished installation
type Result struct {
	Kind      core.Kind `json:"kind" yaml:"kind"`
	Version   string    `json:"version" yaml:"version"`
	Path      string    `json:"path,omitempty" yaml:"path,omitempty"` // Empty when the vendor installer picks the location
	Installer string    `json:"installer" yaml:"installer"`           // Downloaded file
}
