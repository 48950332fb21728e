// internal/cli/output.go
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// render writes v as JSON or YAML, or calls table for the default format
func render(w io.Writer, v interface{}, table func(tw *tabwriter.Writer)) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}
}

// structured reports whether output goes to a machine-readable format
func structured() bool {
	return output == "json" || output == "yaml"
}

// status prints a progress line unless the output is machine-readable
func status(format string, args ...interface{}) {
	if structured() {
		return
	}
	fmt.Fprintf(os.Stdout, format, args...)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
