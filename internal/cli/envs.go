// internal/cli/envs.go
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arc-language/pyman/pkg/venv"
)

var (
	createPython string
	createRoot   string
	deleteYes    bool
	runTerminal  bool
	runWait      bool
	runMinimized bool
)

var envsCmd = &cobra.Command{
	Use:     "envs",
	Aliases: []string{"env"},
	Short:   "Manage virtual environments",
}

var envsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List environments in the search paths",
	Args:  cobra.NoArgs,
	RunE:  runEnvsList,
}

var envsCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a virtual environment",
	Long: `Create a virtual environment from a discovered interpreter.

Examples:
  pyman envs create web
  pyman envs create web --python 3.11
  pyman envs create data --python conda --root ~/envs`,
	Args: cobra.ExactArgs(1),
	RunE: runEnvsCreate,
}

var envsDeleteCmd = &cobra.Command{
	Use:   "delete NAME|PATH",
	Short: "Delete a virtual environment",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnvsDelete,
}

var envsRunCmd = &cobra.Command{
	Use:   "run NAME|PATH|VERSION ACTION",
	Short: "Run an action inside an environment or base interpreter",
	Long: fmt.Sprintf(`Run an action inside an environment, or inside a base interpreter
selected by version or path.

Actions: %s

Interactive actions (console, lab, notebook, spyder) open a terminal.

Examples:
  pyman envs run web console
  pyman envs run web packages
  pyman envs run 3.11 update`, strings.Join(venv.ActionNames(), ", ")),
	Args: cobra.ExactArgs(2),
	RunE: runEnvsRun,
}

var envsInstallCmd = &cobra.Command{
	Use:   "install NAME|PATH|VERSION PACKAGE[==VERSION]",
	Short: "Install a package into an environment or base interpreter",
	Args:  cobra.ExactArgs(2),
	RunE:  runEnvsInstall,
}

func init() {
	envsCreateCmd.Flags().StringVar(&createPython, "python", "", "interpreter to use: version, path, or \"conda\"")
	envsCreateCmd.Flags().StringVar(&createRoot, "root", "", "directory to create the environment in (default: configured path)")
	envsDeleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")

	for _, c := range []*cobra.Command{envsCreateCmd, envsRunCmd, envsInstallCmd} {
		c.Flags().BoolVar(&runTerminal, "terminal", false, "run in a terminal window")
		c.Flags().BoolVar(&runWait, "wait", false, "with --terminal, wait for the window to close")
	}
	envsRunCmd.Flags().BoolVar(&runMinimized, "minimized", false, "start the terminal minimized (Windows)")

	envsCmd.AddCommand(envsListCmd)
	envsCmd.AddCommand(envsCreateCmd)
	envsCmd.AddCommand(envsDeleteCmd)
	envsCmd.AddCommand(envsRunCmd)
	envsCmd.AddCommand(envsInstallCmd)
}

func runOptions() venv.Options {
	return venv.Options{Terminal: runTerminal, Wait: runWait, Minimized: runMinimized}
}

func runEnvsList(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	envs, err := a.Environments()
	if err != nil {
		return err
	}

	return render(os.Stdout, envs, func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", bold("NAME"), bold("KIND"), bold("PATH"), bold("DISTRIBUTION"))
		for _, env := range envs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", env.Name, env.Kind, env.Path, env.DistributionPath)
		}
	})
}

func runEnvsCreate(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	status("%s Creating environment %s...\n", cyan("▸"), args[0])
	env, err := a.CreateEnvironment(cmd.Context(), args[0], createPython, createRoot, runOptions())
	if err != nil {
		return err
	}

	if structured() {
		return render(os.Stdout, env, nil)
	}
	fmt.Printf("%s Created %s environment %s at %s\n", green("✓"), env.Kind, env.Name, env.Path)
	return nil
}

func runEnvsDelete(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	env, err := a.FindEnvironment(args[0])
	if err != nil {
		return err
	}

	if !deleteYes && !confirm(fmt.Sprintf("Delete %s environment %s at %s?", env.Kind, env.Name, env.Path)) {
		fmt.Println("Aborted.")
		return nil
	}

	if err := a.Envs.Delete(cmd.Context(), *env); err != nil {
		return err
	}
	status("%s Deleted %s\n", green("✓"), env.Path)
	return nil
}

func runEnvsRun(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	action, err := venv.ParseAction(args[1])
	if err != nil {
		return err
	}

	res, err := a.Run(cmd.Context(), args[0], action, runOptions())
	if err != nil {
		return err
	}
	if action.Interactive() || runTerminal {
		status("%s Started %s in a terminal\n", green("✓"), action)
		return nil
	}
	fmt.Print(res.Output)
	return nil
}

func runEnvsInstall(cmd *cobra.Command, args []string) error {
	a, err := getApp()
	if err != nil {
		return err
	}

	name, version, _ := strings.Cut(args[1], "==")
	status("%s Installing %s...\n", cyan("▸"), args[1])

	res, err := a.InstallPackage(cmd.Context(), args[0], name, version, runOptions())
	if err != nil {
		return err
	}
	if !runTerminal {
		fmt.Print(res.Output)
	}
	status("%s Installed %s\n", green("✓"), args[1])
	return nil
}

// confirm asks a yes/no question on stdin
func confirm(question string) bool {
	fmt.Printf("%s [y/N] ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
