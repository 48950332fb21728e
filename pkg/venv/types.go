// pkg/venv/types.go
package venv

import (
	"log"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/classify"
	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/runner"
)

// Config configures the environment manager
type Config struct {
	GOOS       string               // Target OS (default: runtime.GOOS)
	Fs         afero.Fs             // Default: the OS filesystem
	Runner     runner.Runner        // Required
	Classifier *classify.Classifier // Default: a classifier over Fs
	WorkDir    string               // Directory launched tools start in (default: home)
	Debug      bool                 // Enable debug logging
	Logger     *log.Logger          // Custom logger (optional)
}

// Options controls how a command is executed
type Options struct {
	Terminal  bool // Run in a terminal window instead of capturing output
	Wait      bool // With Terminal: block until the window closes
	Minimized bool // With Terminal: start minimized (Windows)
}

// Target is something a command can be run inside: an environment or a
// base interpreter
type Target struct {
	Kind             core.Kind
	Path             string // Environment root, or the interpreter's Path
	DistributionPath string // Conda distribution owning the environment
	Base             bool   // Path is a base interpreter, not an environment
}

// EnvTarget targets an environment
func EnvTarget(env core.EnvironmentRecord) Target {
	return Target{
		Kind:             env.Kind,
		Path:             env.Path,
		DistributionPath: env.DistributionPath,
	}
}

// InterpreterTarget targets a base interpreter or distribution
func InterpreterTarget(rec core.InterpreterRecord) Target {
	t := Target{Kind: rec.Kind, Path: rec.Path, Base: true}
	if rec.Kind == core.KindConda {
		t.DistributionPath = rec.Path
	}
	return t
}
