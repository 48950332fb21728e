// pkg/shell/dialect.go
package shell

import (
	"strings"

	"github.com/alessio/shellescape"
)

// Dialect selects the command interpreter a script line is written for
type Dialect int

const (
	// POSIX is sh/bash
	POSIX Dialect = iota
	// Cmd is the Windows command processor
	Cmd
)

// ForOS returns the dialect used on the given GOOS
func ForOS(goos string) Dialect {
	if goos == "windows" {
		return Cmd
	}
	return POSIX
}

func (d Dialect) String() string {
	if d == Cmd {
		return "cmd"
	}
	return "sh"
}

// Separator returns the path separator of the dialect's platform
func (d Dialect) Separator() string {
	if d == Cmd {
		return `\`
	}
	return "/"
}

// Quote quotes s as a single word
func (d Dialect) Quote(s string) string {
	if d == Cmd {
		// cmd.exe has no escape for a double quote inside a quoted word
		return `"` + strings.ReplaceAll(s, `"`, "") + `"`
	}
	return shellescape.Quote(s)
}

// And chains steps so each runs only if the previous one succeeded
func (d Dialect) And(steps ...string) string {
	return strings.Join(nonEmpty(steps), " && ")
}

// Or chains steps so each runs only if the previous one failed
func (d Dialect) Or(steps ...string) string {
	return strings.Join(nonEmpty(steps), " || ")
}

// Source returns the statement that runs script inside the current shell
func (d Dialect) Source(script string) string {
	if d == Cmd {
		return "call " + d.Quote(script)
	}
	return ". " + d.Quote(script)
}

// Join joins path elements with the dialect's separator
func (d Dialect) Join(elem ...string) string {
	sep := d.Separator()
	var parts []string
	for i, e := range elem {
		if e == "" {
			continue
		}
		if i > 0 {
			e = strings.TrimLeft(e, `/\`)
		}
		if i < len(elem)-1 {
			trimmed := strings.TrimRight(e, `/\`)
			if trimmed != "" {
				e = trimmed
			}
		}
		parts = append(parts, e)
	}
	if len(parts) == 0 {
		return ""
	}
	joined := parts[0]
	for _, p := range parts[1:] {
		if strings.HasSuffix(joined, sep) {
			joined += p
		} else {
			joined += sep + p
		}
	}
	return joined
}

// nonEmpty drops blank steps
func nonEmpty(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
