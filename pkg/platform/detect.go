// pkg/platform/detect.go
package platform

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// OSReleasePath is where Linux distributions describe themselves
const OSReleasePath = "/etc/os-release"

// knownTerminals lists the terminal emulators pyman can drive, in order of preference
var knownTerminals = []string{
	"gnome-terminal",
	"konsole",
	"xfce4-terminal",
	"x-terminal-emulator",
	"xterm",
}

// Platform represents the detected system platform
type Platform struct {
	OS            string   // linux, darwin, windows
	Arch          string   // amd64, arm64
	Distro        string   // os-release ID (ubuntu, fedora, ...)
	DistroVersion string   // os-release VERSION_ID
	Terminals     []string // Available terminal emulators
	Preferred     string   // Preferred terminal emulator
}

// Detect detects the current platform and available terminal emulators
func Detect() *Platform {
	p := &Platform{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Terminals: []string{},
	}

	if p.OS == "linux" {
		if f, err := os.Open(OSReleasePath); err == nil {
			info := ParseOSRelease(f)
			f.Close()
			p.Distro = info["ID"]
			p.DistroVersion = info["VERSION_ID"]
		}
	}

	if p.OS != "windows" {
		for _, t := range knownTerminals {
			if commandExists(t) {
				p.Terminals = append(p.Terminals, t)
			}
		}
	}

	if len(p.Terminals) > 0 {
		p.Preferred = p.Terminals[0]
	}

	return p
}

// ParseOSRelease parses KEY=value lines, unquoting values
func ParseOSRelease(r io.Reader) map[string]string {
	info := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		info[key] = strings.Trim(value, `"'`)
	}
	return info
}

// MachineArch returns the architecture the way installer file names spell it
func (p *Platform) MachineArch() string {
	switch p.Arch {
	case "amd64":
		return "x86_64"
	case "arm64":
		if p.OS == "darwin" {
			return "arm64"
		}
		return "aarch64"
	case "ppc64le":
		return "ppc64le"
	}
	return p.Arch
}

// String returns a string representation of the platform
func (p *Platform) String() string {
	s := fmt.Sprintf("%s/%s", p.OS, p.Arch)
	if p.Distro != "" {
		s += fmt.Sprintf(" (%s %s)", p.Distro, p.DistroVersion)
	}
	return s
}
