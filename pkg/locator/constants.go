// pkg/locator/constants.go
package locator

const (
	// PythonCoreKey holds one subkey per registered CPython installation
	PythonCoreKey = `SOFTWARE\Python\PythonCore`

	// UninstallKey lists installed programs, Miniforge among them
	UninstallKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

	// MiniforgeMarker identifies Miniforge entries under UninstallKey
	MiniforgeMarker = "Miniforge"

	// CondaPythonEnv is exported by an activated Conda base environment
	CondaPythonEnv = "CONDA_PYTHON_EXE"

	// ManagedCondaDir is the Miniforge directory under the install path
	ManagedCondaDir = "conda"

	// ManagedPythonPrefix prefixes source-built interpreters under the install path
	ManagedPythonPrefix = "python-"
)

// Candidates are the executable names looked up on PATH, in order
var Candidates = []string{
	"python",
	"python3",
	"python3.7",
	"python3.8",
	"python3.9",
	"python3.10",
	"python3.11",
	"python3.12",
}

// elevatedPrefixes are system locations only an administrator can write to
var elevatedPrefixes = []string{"/usr/", "/opt/"}
