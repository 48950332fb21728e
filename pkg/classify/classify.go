// pkg/classify/classify.go
package classify

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/arc-language/pyman/pkg/core"
)

const (
	// CondaMetaDir marks a Conda environment or distribution
	CondaMetaDir = "conda-meta"

	// HistoryFile is the creation log inside CondaMetaDir
	HistoryFile = "history"

	// CondaBinDir only exists in a distribution root, never in an environment
	CondaBinDir = "condabin"
)

// Config configures the classifier
type Config struct {
	Fs     afero.Fs    // Default: the OS filesystem
	Debug  bool        // Enable debug logging
	Logger *log.Logger // Custom logger (optional)
}

// Classifier inspects environment directories
type Classifier struct {
	fs     afero.Fs
	logger *log.Logger
}

// New creates a classifier
func New(cfg *Config) *Classifier {
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
			logger = log.New(os.Stderr, "[CLASSIFY] ", log.LstdFlags)
		} else {
			logger = log.New(io.Discard, "", 0)
		}
	}

	return &Classifier{fs: fs, logger: logger}
}

// EnvRoot returns the environment directory for path, which may be the
// environment itself or its bin/Scripts directory
func EnvRoot(path string) string {
	clean := filepath.Clean(path)
	switch filepath.Base(clean) {
	case "bin", "Scripts":
		return filepath.Dir(clean)
	}
	return clean
}

// ActivationDir returns the directory holding the activation scripts
func ActivationDir(root, goos string) string {
	if goos == "windows" {
		return filepath.Join(root, "Scripts")
	}
	return filepath.Join(root, "bin")
}

// Classify determines whether envPath is a vanilla or Conda environment
// and, for Conda, which distribution created it
func (c *Classifier) Classify(envPath, goos string) (*core.Classification, error) {
	root := EnvRoot(envPath)

	ok, err := afero.DirExists(c.fs, root)
	if err != nil || !ok {
		return nil, &core.Error{Op: "classify", Path: root, Err: core.ErrPathNotFound}
	}

	result := &core.Classification{
		Kind:           core.KindVanilla,
		ActivationPath: ActivationDir(root, goos),
	}

	meta := filepath.Join(root, CondaMetaDir)
	if ok, _ := afero.DirExists(c.fs, meta); !ok {
		c.logger.Printf("%s: vanilla", root)
		return result, nil
	}

	f, err := c.fs.Open(filepath.Join(meta, HistoryFile))
	if err != nil {
		return nil, &core.Error{Op: "classify", Path: root,
			Err: fmt.Errorf("opening %s/%s: %v: %w", CondaMetaDir, HistoryFile, err, core.ErrClassification)}
	}
	defer f.Close()

	dist, err := ParseHistory(f)
	if err != nil {
		return nil, &core.Error{Op: "classify", Path: root, Err: err}
	}

	result.Kind = core.KindConda
	result.DistributionPath = dist
	c.logger.Printf("%s: conda (distribution %s)", root, dist)
	return result, nil
}

// IsEnvironment reports whether dir looks like a virtual environment:
// it holds an activation script, or conda-meta without condabin
func IsEnvironment(fs afero.Fs, dir string) bool {
	for _, script := range []string{
		filepath.Join(dir, "bin", "activate"),
		filepath.Join(dir, "Scripts", "activate"),
		filepath.Join(dir, "Scripts", "activate.bat"),
	} {
		if ok, _ := afero.Exists(fs, script); ok {
			return true
		}
	}

	hasMeta, _ := afero.DirExists(fs, filepath.Join(dir, CondaMetaDir))
	hasCondaBin, _ := afero.DirExists(fs, filepath.Join(dir, CondaBinDir))
	return hasMeta && !hasCondaBin
}
