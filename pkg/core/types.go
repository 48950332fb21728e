// pkg/core/types.go
package core

import "fmt"

// Kind distinguishes a standard CPython installation from a Conda-family one
type Kind int

const (
	KindVanilla Kind = iota
	KindConda
)

func (k Kind) String() string {
	switch k {
	case KindVanilla:
		return "vanilla"
	case KindConda:
		return "conda"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText renders the kind as "vanilla" or "conda"
func (k Kind) MarshalText() ([]byte, error) {
	switch k {
	case KindVanilla, KindConda:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("unknown kind %d", int(k))
}

// UnmarshalText parses "vanilla" or "conda"
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses the textual form of a Kind
func ParseKind(s string) (Kind, error) {
	switch s {
	case "vanilla", "python":
		return KindVanilla, nil
	case "conda", "miniforge":
		return KindConda, nil
	}
	return KindVanilla, fmt.Errorf("unknown kind %q", s)
}

// InterpreterRecord is one discovered Python installation.
//
// Path is the install directory for vanilla interpreters on Windows, the
// resolved executable for vanilla interpreters elsewhere, and the
// distribution root for Conda installations.
type InterpreterRecord struct {
	Path     string `json:"path" yaml:"path"`
	Version  string `json:"version" yaml:"version"`
	Elevated bool   `json:"elevated" yaml:"elevated"`
	Kind     Kind   `json:"kind" yaml:"kind"`
}

// EnvironmentRecord is a virtual environment found under a search path
type EnvironmentRecord struct {
	Name             string `json:"name" yaml:"name"`
	Path             string `json:"path" yaml:"path"`
	Kind             Kind   `json:"kind" yaml:"kind"`
	DistributionPath string `json:"distribution_path,omitempty" yaml:"distribution_path,omitempty"`
}

// Classification is the result of inspecting an environment directory
type Classification struct {
	Kind             Kind
	DistributionPath string // only set for KindConda
	ActivationPath   string // bin or Scripts directory of the environment
}
