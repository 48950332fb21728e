// internal/cli/config.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/config"
	"github.com/arc-language/pyman/pkg/core"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change where environments are created and searched",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default PATH",
	Short: "Set the directory new environments are created in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig(func(s *config.Store, path string) (*config.Configuration, error) {
			return s.SetDefault(path)
		}, args[0])
	},
}

var configAddPathCmd = &cobra.Command{
	Use:   "add-path PATH",
	Short: "Add a directory to the environment search paths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig((*config.Store).AddSearchPath, args[0])
	},
}

var configRemovePathCmd = &cobra.Command{
	Use:   "remove-path PATH",
	Short: "Remove a directory from the environment search paths",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateConfig((*config.Store).RemoveSearchPath, args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change a runtime setting in settings.yaml",
	Long: fmt.Sprintf(`Change a runtime setting in settings.yaml. The change applies from the
next pyman command.

Keys: %s

Examples:
  pyman config set terminal konsole
  pyman config set python_archive tgz`, strings.Join(core.SettingKeys, ", ")),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetDefaultCmd)
	configCmd.AddCommand(configAddPathCmd)
	configCmd.AddCommand(configRemovePathCmd)
}

// configView is what `config show` prints
type configView struct {
	Directory string                `json:"directory" yaml:"directory"`
	Paths     *config.Configuration `json:"paths" yaml:"paths"`
	History   []string              `json:"history" yaml:"history"`
	Settings  *core.Settings        `json:"settings" yaml:"settings"`
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	cfg, err := a.Store.Load()
	if err != nil {
		return err
	}
	h, err := a.Store.History()
	if err != nil {
		return err
	}

	view := configView{Directory: a.Store.Dir(), Paths: cfg, History: h.UsedPaths, Settings: a.Settings}
	return render(os.Stdout, view, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Config directory:\t%s\n", view.Directory)
		fmt.Fprintf(w, "Default creation path:\t%s\n", cfg.DefaultCreationPath)
		for i, p := range cfg.SearchPaths {
			label := ""
			if i == 0 {
				label = "Search paths:"
			}
			fmt.Fprintf(w, "%s\t%s\n", label, p)
		}
		fmt.Fprintf(w, "Install path:\t%s\n", a.Settings.InstallPath)
		fmt.Fprintf(w, "Cache path:\t%s\n", a.Settings.CachePath)
	})
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	s, err := a.SetSetting(args[0], args[1])
	if err != nil {
		return err
	}

	if structured() {
		return render(os.Stdout, s, nil)
	}
	fmt.Printf("%s Saved %s\n", green("✓"), a.SettingsPath())
	return nil
}

func updateConfig(change func(*config.Store, string) (*config.Configuration, error), path string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return &core.Error{Op: "config", Path: path, Err: core.ErrInvalidPath}
	}

	cfg, err := change(a.Store, abs)
	if err != nil {
		return err
	}

	if structured() {
		return render(os.Stdout, cfg, nil)
	}
	fmt.Printf("%s Saved %s\n", green("✓"), a.Store.Path())
	return nil
}
