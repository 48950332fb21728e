// internal/cli/catalog.go
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/platform"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the versions pyman can install",
	Args:  cobra.NoArgs,
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	c := a.Catalog
	return render(os.Stdout, c, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%s\n", bold("NAME"), bold("VERSION"), bold("URL"))
		var url string
		for _, r := range c.Python {
			url, _ = c.PythonURL(r.Version, a.GOOS())
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Label, r.Version, url)
		}
		url, _ = c.MiniforgeURL(c.Miniforge.Version, a.GOOS(), platform.Detect().MachineArch())
		fmt.Fprintf(w, "%s\t%s\t%s\n", "Miniforge", c.Miniforge.Version, url)
	})
}
