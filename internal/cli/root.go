// internal/cli/root.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arc-language/pyman"
	"github.com/arc-language/pyman/pkg/core"
)

var (
	configDir string
	console   bool
	output    string
	app       *pyman.App
	appErr    error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pyman",
	Short: "Python interpreter and virtual environment manager",
	Long: `pyman - Python interpreter and virtual environment manager

Finds the Python interpreters and Conda distributions on this machine,
creates and deletes virtual environments from them, and runs consoles,
notebooks and package installs inside those environments.`,
	Version:       pyman.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command and reports a failure to the user
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default is $HOME/.config/pyman)")
	rootCmd.PersistentFlags().BoolVar(&console, "console", false, "show debug logging on stderr")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format: table, json or yaml")

	// Add commands
	rootCmd.AddCommand(interpretersCmd)
	rootCmd.AddCommand(envsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	app, appErr = pyman.New(&pyman.Options{
		ConfigDir: configDir,
		Debug:     console,
	})
}

// getApp returns the application built by initConfig
func getApp() (*pyman.App, error) {
	if appErr != nil {
		return nil, fmt.Errorf("initializing pyman: %w", appErr)
	}
	return app, nil
}

func reportError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), pyman.Describe(err))

	var cmdErr *core.CommandError
	if errors.As(err, &cmdErr) && cmdErr.Output != "" {
		fmt.Fprintf(os.Stderr, "\n%s\n", cmdErr.Output)
	}
	if console {
		fmt.Fprintf(os.Stderr, "Details: %v\n", err)
	}
}
