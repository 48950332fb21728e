// internal/cli/interpreters.go
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/core"
)

var interpretersCmd = &cobra.Command{
	Use:     "interpreters",
	Aliases: []string{"ls-python"},
	Short:   "List Python interpreters and Conda distributions",
	Long: `List the Python interpreters and Conda distributions found on this system,
along with newer patch releases available from the catalog.`,
	Args: cobra.NoArgs,
	RunE: runInterpreters,
}

func runInterpreters(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	snap := a.Locator.Discover(cmd.Context())
	return render(os.Stdout, snap, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", bold("KIND"), bold("VERSION"), bold("ELEVATED"), bold("PATH"), bold("UPDATES"))
		for _, rec := range snap.All() {
			updates := ""
			if rec.Kind == core.KindVanilla {
				if newer := a.Catalog.Newer(rec.Version); len(newer) > 0 {
					updates = yellow(newer[0])
				}
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.Kind, rec.Version, yesNo(rec.Elevated), rec.Path, updates)
		}
		if len(snap.Interpreters)+len(snap.Distributions) == 0 {
			fmt.Fprintf(w, "No Python installation found. Try 'pyman install python'.\n")
		}
	})
}
