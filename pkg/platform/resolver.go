// pkg/platform/resolver.go
package platform

import (
	"fmt"
)

// ResolveTerminal picks the terminal emulator used to launch interactive commands.
//
// Priority:
//  1. User-specified terminal
//  2. Platform preferred terminal
//
// Windows always uses the command processor's own console.
func ResolveTerminal(p *Platform, configured string) (string, error) {
	if p.OS == "windows" {
		return "cmd", nil
	}

	if configured != "" {
		if !commandExists(configured) && !contains(p.Terminals, configured) {
			return "", fmt.Errorf("terminal '%s' is not available on this system", configured)
		}
		return configured, nil
	}

	if p.Preferred == "" {
		return "", fmt.Errorf("no terminal emulator found (tried %v)", knownTerminals)
	}

	return p.Preferred, nil
}

// TerminalArgs returns the argv that runs script inside terminal.
// wait asks the terminal to block until the script exits, where supported.
func TerminalArgs(terminal, script string, wait bool) []string {
	switch terminal {
	case "gnome-terminal":
		args := []string{terminal}
		if wait {
			args = append(args, "--wait")
		}
		return append(args, "--", "sh", "-c", script)
	case "xfce4-terminal":
		args := []string{terminal}
		if wait {
			args = append(args, "--disable-server")
		}
		return append(args, "-x", "sh", "-c", script)
	default:
		// konsole, xterm and the Debian alternative all accept -e
		return []string{terminal, "-e", "sh", "-c", script}
	}
}
