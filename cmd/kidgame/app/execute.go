package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

// Execute runs the kidgame CLI application with the given arguments.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
// Running the root with no subcommand shows the per-system summary.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "kidgame",
		Short:   "Keep game annotations alive across gamelist rescrapes",
		Version: a.version,
		Long: `Kidgame maintains favorite, hidden, and kid-safe annotations for
EmulationStation game libraries. Annotations live in a single kidlist file
keyed by system and rom name, so they survive the gamelist.xml rewrites a
scraper performs. Sync reconciles the two; the remaining commands query,
tag, clean, back up, and restore.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Args:              cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInfo(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.config.ConfigFile, "config", "", "config file (default is $HOME/.kidgame.yaml)")
	rootCmd.PersistentFlags().BoolP("dry-run", "n", false, "report changes without writing anything")
	rootCmd.PersistentFlags().StringSliceP("systems", "s", nil, "restrict to the named systems (default all)")
	rootCmd.PersistentFlags().String("roms", "", "roms directory holding per-system gamelists (default ~/RetroPie/roms)")
	rootCmd.PersistentFlags().String("kidlist", "", "kidlist overlay file (default ~/.emulationstation/kidlist.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	rootCmd.SetVersionTemplate("kidgame {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It folds parsed flag
// values into the config and reinitializes the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	dryRun := mustGetBool(cmd, "dry-run")
	systems := mustGetStringSlice(cmd, "systems")
	roms := mustGetString(cmd, "roms")
	overlay := mustGetString(cmd, "kidlist")
	logLevel := mustGetString(cmd, "log-level")

	a.config.UpdateFromFlags(verbose, quiet, noColor, dryRun, systems, roms, overlay, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(a.newInfoCommand())
	rootCmd.AddCommand(a.newSyncCommand())
	rootCmd.AddCommand(a.newGenresCommand())
	rootCmd.AddCommand(a.newGenreCommand())
	rootCmd.AddCommand(a.newTagCommands()...)
	rootCmd.AddCommand(a.newCleanCommand())
	rootCmd.AddCommand(a.newCleanKidlistCommand())
	rootCmd.AddCommand(a.newRemoveIncompleteCommand())
	rootCmd.AddCommand(a.newFormatVideosCommand())
	rootCmd.AddCommand(a.newBackupCommand())
	rootCmd.AddCommand(a.newRevertCommand())
	rootCmd.AddCommand(a.newVersionCommand())
}

// ExitOnError prints an error and exits with status 1. Meant for
// top-level error handling in main.go.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag does
// not exist. Only for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
