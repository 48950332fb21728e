// pkg/catalog/catalog.go
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/pyversion"
)

const (
	// DefaultPythonMirror serves CPython sources and installers
	DefaultPythonMirror = "https://www.python.org/ftp/python"

	// DefaultMiniforgeMirror serves Miniforge release assets
	DefaultMiniforgeMirror = "https://github.com/conda-forge/miniforge/releases/download"

	// DefaultArchive is the source archive format python.org publishes for every release
	DefaultArchive = "tar.xz"
)

// ArchiveFormats are the source archive extensions a mirror may serve
var ArchiveFormats = []string{"tar.xz", "tgz", "tar.zst"}

//go:embed catalog.toml
var embedded string

// Release is one installable CPython version
type Release struct {
	Label   string `toml:"label" json:"label" yaml:"label"`
	Version string `toml:"version" json:"version" yaml:"version"`
}

// Catalog lists the releases pyman can install
type Catalog struct {
	Python    []Release `toml:"python" json:"python" yaml:"python"`
	Miniforge struct {
		Version string `toml:"version" json:"version" yaml:"version"`
	} `toml:"miniforge" json:"miniforge" yaml:"miniforge"`

	pythonMirror    string
	miniforgeMirror string
	archive         string
}

// Default returns the catalog compiled into the binary
func Default() *Catalog {
	c, err := Parse(embedded)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// Parse decodes a catalog from TOML
func Parse(data string) (*Catalog, error) {
	var c Catalog
	if _, err := toml.Decode(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: failed to parse: %w", err)
	}
	for _, r := range c.Python {
		if _, err := pyversion.MajorMinor(r.Version); err != nil {
			return nil, fmt.Errorf("catalog: bad version %q: %w", r.Version, err)
		}
	}
	c.pythonMirror = DefaultPythonMirror
	c.miniforgeMirror = DefaultMiniforgeMirror
	c.archive = DefaultArchive
	return &c, nil
}

// WithMirrors overrides the download hosts; empty values keep the defaults
func (c *Catalog) WithMirrors(python, miniforge string) *Catalog {
	if python != "" {
		c.pythonMirror = strings.TrimRight(python, "/")
	}
	if miniforge != "" {
		c.miniforgeMirror = strings.TrimRight(miniforge, "/")
	}
	return c
}

// WithArchive selects the source archive format; empty keeps the default
func (c *Catalog) WithArchive(format string) (*Catalog, error) {
	if format == "" {
		return c, nil
	}
	format = strings.TrimPrefix(format, ".")
	for _, f := range ArchiveFormats {
		if f == format {
			c.archive = format
			return c, nil
		}
	}
	return nil, fmt.Errorf("catalog: unknown archive format %q (want one of %s)", format, strings.Join(ArchiveFormats, ", "))
}

// Versions returns every CPython version in the catalog
func (c *Catalog) Versions() []string {
	out := make([]string, 0, len(c.Python))
	for _, r := range c.Python {
		out = append(out, r.Version)
	}
	return out
}

// Resolve maps "3.11" or "3.11.9" to a catalog release. Full versions not
// listed are accepted as-is so users can install other patch releases.
func (c *Catalog) Resolve(version string) (*Release, error) {
	if version == "" {
		if len(c.Python) == 0 {
			return nil, fmt.Errorf("catalog: no releases")
		}
		r := c.Python[0]
		return &r, nil
	}
	for _, r := range c.Python {
		if r.Version == version {
			r := r
			return &r, nil
		}
		if mm, _ := pyversion.MajorMinor(r.Version); mm == version {
			r := r
			return &r, nil
		}
	}
	if strings.Count(version, ".") == 2 {
		if _, err := pyversion.Major(version); err == nil {
			return &Release{Label: "Python " + version, Version: version}, nil
		}
	}
	return nil, &core.Error{Op: "resolve", Path: version, Err: fmt.Errorf("not in catalog: %w", core.ErrPathNotFound)}
}

// Newer returns catalog versions that are newer patch releases of installed
func (c *Catalog) Newer(installed string) []string {
	out, err := pyversion.MinorSublistWithGreaterPatch(c.Versions(), installed)
	if err != nil {
		return nil
	}
	return out
}

// PythonURL returns the download URL and file name of a CPython release
func (c *Catalog) PythonURL(version, goos string) (string, string) {
	var filename string
	if goos == "windows" {
		filename = fmt.Sprintf("python-%s-amd64.exe", version)
	} else {
		filename = fmt.Sprintf("Python-%s.%s", version, c.archive)
	}
	return fmt.Sprintf("%s/%s/%s", c.pythonMirror, version, filename), filename
}

// MiniforgeURL returns the download URL and file name of a Miniforge release.
// arch is the machine name used by the release assets (x86_64, aarch64).
func (c *Catalog) MiniforgeURL(version, goos, arch string) (string, string) {
	if version == "" {
		version = c.Miniforge.Version
	}
	var filename string
	switch goos {
	case "windows":
		filename = fmt.Sprintf("Miniforge3-%s-Windows-x86_64.exe", version)
	case "darwin":
		filename = fmt.Sprintf("Miniforge3-%s-MacOSX-%s.sh", version, arch)
	default:
		filename = fmt.Sprintf("Miniforge3-%s-Linux-%s.sh", version, arch)
	}
	return fmt.Sprintf("%s/%s/%s", c.miniforgeMirror, version, filename), filename
}
