// pkg/venv/actions.go
package venv

import (
	"fmt"
	"strings"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/shell"
)

// Action is a task run inside an environment or base interpreter
type Action int

const (
	ActionConsole Action = iota
	ActionJupyterLab
	ActionNotebook
	ActionSpyder
	ActionInstallDefaults
	ActionListPackages
	ActionUpdatePackageManager
)

// DefaultPackages are installed by ActionInstallDefaults
var DefaultPackages = []string{"numpy", "pandas", "scipy", "scikit-learn", "matplotlib"}

var actionNames = map[Action]string{
	ActionConsole:              "console",
	ActionJupyterLab:           "lab",
	ActionNotebook:             "notebook",
	ActionSpyder:               "spyder",
	ActionInstallDefaults:      "defaults",
	ActionListPackages:         "packages",
	ActionUpdatePackageManager: "update",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Interactive reports whether the action needs a terminal window
func (a Action) Interactive() bool {
	switch a {
	case ActionConsole, ActionJupyterLab, ActionNotebook, ActionSpyder:
		return true
	}
	return false
}

// ParseAction parses an action name
func ParseAction(name string) (Action, error) {
	for a, n := range actionNames {
		if n == name {
			return a, nil
		}
	}
	return ActionConsole, fmt.Errorf("unknown action %q", name)
}

// ActionNames returns the names accepted by ParseAction
func ActionNames() []string {
	out := make([]string, 0, len(actionNames))
	for a := ActionConsole; a <= ActionUpdatePackageManager; a++ {
		out = append(out, actionNames[a])
	}
	return out
}

// ActionScript returns the full command line for running a inside t
func ActionScript(t Target, a Action, goos string) string {
	d := shell.ForOS(goos)
	prefix, python := Activation(t, goos)

	var body string
	switch a {
	case ActionConsole:
		body = ""
	case ActionJupyterLab:
		body = launchOrInstall(d, t.Kind, python, python+" -m jupyter lab", "jupyterlab")
	case ActionNotebook:
		body = launchOrInstall(d, t.Kind, python, python+" -m jupyter notebook", "jupyter")
	case ActionSpyder:
		body = launchOrInstall(d, t.Kind, python, "spyder", "spyder")
	case ActionInstallDefaults:
		body = pipInstall(t.Kind, python, DefaultPackages...)
	case ActionListPackages:
		if t.Kind == core.KindConda {
			body = "conda list"
		} else {
			body = python + " -m pip list"
		}
	case ActionUpdatePackageManager:
		if t.Kind == core.KindConda {
			body = "conda update conda --yes"
		} else {
			body = python + " -m pip install -U pip"
		}
	}

	return d.And(prefix, body)
}

// InstallPackageScript returns the command line installing one package,
// pinned to version when it is not empty
func InstallPackageScript(t Target, name, version, goos string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, " &|;<>\"'`$") {
		return "", fmt.Errorf("package %q: %w", name, core.ErrInvalidName)
	}
	if strings.ContainsAny(version, " &|;<>\"'`$") {
		return "", fmt.Errorf("version %q: %w", version, core.ErrInvalidName)
	}

	d := shell.ForOS(goos)
	prefix, python := Activation(t, goos)

	req := name
	if version != "" {
		if t.Kind == core.KindConda {
			req = name + "=" + version
		} else {
			req = name + "==" + version
		}
	}
	return d.And(prefix, pipInstall(t.Kind, python, req)), nil
}

// launchOrInstall runs cmd, installing pkg and retrying once if it fails
func launchOrInstall(d shell.Dialect, kind core.Kind, python, cmd, pkg string) string {
	retry := "(" + d.And(pipInstall(kind, python, pkg), cmd) + ")"
	return d.Or(cmd, retry)
}
