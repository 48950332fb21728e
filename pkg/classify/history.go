// pkg/classify/history.go
package classify

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arc-language/pyman/pkg/core"
)

// condaExecutables are the front-ends that write conda-meta/history
var condaExecutables = map[string]bool{
	"conda":      true,
	"mamba":      true,
	"micromamba": true,
}

// scriptDirs hold the front-end executables inside a distribution
var scriptDirs = map[string]bool{
	"bin":      true,
	"scripts":  true,
	"condabin": true,
}

// ParseHistory recovers the distribution root from a conda-meta/history file.
// The first "# cmd:" line records the command that created the environment,
// e.g. "# cmd: /opt/conda/bin/conda create --prefix /home/u/envs/foo python".
func ParseHistory(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "# cmd:") {
			continue
		}
		return parseCmdLine(strings.TrimSpace(strings.TrimPrefix(line, "# cmd:")))
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading history: %w", err)
	}

	return "", fmt.Errorf("no creation command in history: %w", core.ErrClassification)
}

func parseCmdLine(cmd string) (string, error) {
	idx := strings.Index(cmd, " create")
	if idx < 0 {
		return "", fmt.Errorf("history command %q has no create step: %w", cmd, core.ErrClassification)
	}
	exe := strings.Trim(strings.TrimSpace(cmd[:idx]), `"'`)

	dir, base := splitAny(exe)
	name := frontEndName(base)

	// python -m conda records the package's __main__.py
	if name == "__main__" {
		lower := strings.ToLower(strings.ReplaceAll(dir, `\`, "/"))
		if i := strings.Index(lower, "/lib/"); i > 0 && strings.HasSuffix(lower, "/site-packages/conda") {
			return dir[:i], nil
		}
	}

	if !condaExecutables[name] {
		return "", fmt.Errorf("unrecognized front-end %q in history: %w", base, core.ErrClassification)
	}

	parent, last := splitAny(dir)
	if scriptDirs[strings.ToLower(last)] {
		dir = parent
	}
	if dir == "" {
		return "", fmt.Errorf("no distribution path in %q: %w", cmd, core.ErrClassification)
	}

	return dir, nil
}

// frontEndName normalizes conda.exe, conda.bat and conda-script.py to conda
func frontEndName(base string) string {
	name := strings.ToLower(base)
	for _, ext := range []string{".exe", ".bat", ".py"} {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.TrimSuffix(name, "-script")
}

// splitAny splits p at its last / or \ separator
func splitAny(p string) (dir, base string) {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}
