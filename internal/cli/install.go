// internal/cli/install.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/core"
	"github.com/arc-language/pyman/pkg/installer"
)

var installTerminal bool

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install Python or Miniforge",
}

var installPythonCmd = &cobra.Command{
	Use:   "python [VERSION]",
	Short: "Install a CPython release",
	Long: `Install a CPython release from the catalog.

On Windows the official installer is run for the current user. Elsewhere the
source archive is built and installed under the install path.

Examples:
  pyman install python
  pyman install python 3.11
  pyman install python 3.11.9`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, core.KindVanilla, args)
	},
}

var installMiniforgeCmd = &cobra.Command{
	Use:   "miniforge [VERSION]",
	Short: "Install the Miniforge Conda distribution",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd, core.KindConda, args)
	},
}

func init() {
	installCmd.PersistentFlags().BoolVar(&installTerminal, "terminal", false, "run the installer in a terminal window")

	installCmd.AddCommand(installPythonCmd)
	installCmd.AddCommand(installMiniforgeCmd)
}

func runInstall(cmd *cobra.Command, kind core.Kind, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	req := installer.Request{Kind: kind, Terminal: installTerminal}
	if len(args) == 1 {
		req.Version = args[0]
	}

	status("%s Installing %s %s...\n", cyan("▸"), kind, req.Version)
	res, err := a.Installer.Install(cmd.Context(), req)
	if err != nil {
		return err
	}

	if structured() {
		return render(os.Stdout, res, nil)
	}
	if res.Path != "" {
		fmt.Printf("%s Installed %s %s at %s\n", green("✓"), res.Kind, res.Version, res.Path)
	} else {
		fmt.Printf("%s Installed %s %s\n", green("✓"), res.Kind, res.Version)
	}
	return nil
}
