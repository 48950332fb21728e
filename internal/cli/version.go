// internal/cli/version.go
package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pyman version %s (%s/%s)\n", pyman.Version, runtime.GOOS, runtime.GOARCH)
		fmt.Println("Python interpreter and virtual environment manager")
		fmt.Println("https://github.com/arc-language/pyman")
	},
}
