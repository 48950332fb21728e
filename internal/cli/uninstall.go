// internal/cli/uninstall.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/uninstall"
)

var (
	uninstallEnvs         bool
	uninstallInterpreters bool
	uninstallConfig       bool
	uninstallCache        bool
	uninstallYes          bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove environments, installed interpreters and configuration",
	Long: `Remove what pyman created. Without selection flags everything is removed:
every environment under every creation path ever configured, the interpreters
and Miniforge pyman installed, the download cache and the configuration.`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	uninstallCmd.Flags().BoolVar(&uninstallEnvs, "envs", false, "remove environments")
	uninstallCmd.Flags().BoolVar(&uninstallInterpreters, "interpreters", false, "remove installed interpreters")
	uninstallCmd.Flags().BoolVar(&uninstallConfig, "config", false, "remove the configuration")
	uninstallCmd.Flags().BoolVar(&uninstallCache, "cache", false, "remove the download cache")
	uninstallCmd.Flags().BoolVarP(&uninstallYes, "yes", "y", false, "do not ask for confirmation")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	opts := uninstall.Options{
		Environments:  uninstallEnvs,
		Interpreters:  uninstallInterpreters,
		Configuration: uninstallConfig,
		Cache:         uninstallCache,
	}
	if opts == (uninstall.Options{}) {
		opts = uninstall.Options{Environments: true, Interpreters: true, Configuration: true, Cache: true}
	}

	if !uninstallYes && !confirm("This permanently deletes the selected files. Continue?") {
		fmt.Println("Aborted.")
		return nil
	}

	report, err := a.Uninstaller.Run(opts)
	if structured() {
		if rerr := render(os.Stdout, report, nil); rerr != nil {
			return rerr
		}
		return err
	}

	for _, p := range report.Environments {
		fmt.Printf("%s Removed environment %s\n", green("✓"), p)
	}
	for _, p := range report.Interpreters {
		fmt.Printf("%s Removed %s\n", green("✓"), p)
	}
	if report.Cache != "" {
		fmt.Printf("%s Removed cache %s\n", green("✓"), report.Cache)
	}
	if report.Configuration != "" {
		fmt.Printf("%s Removed configuration %s\n", green("✓"), report.Configuration)
	}
	if err != nil {
		fmt.Printf("%s Some files could not be removed\n", yellow("⚠️ "))
	}
	return err
}
