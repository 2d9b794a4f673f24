package app

import (
	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
)

// newBackupCommand creates the snapshot command.
func (a *App) newBackupCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the kidlist and the selected gamelists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.Context(cmd.Context())
			lib, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Close()

			snap, err := lib.Backup()
			if err != nil {
				return err
			}
			if snap == nil {
				cmd.Println("Dry run: no snapshot taken.")
				return nil
			}
			cmd.Printf("Backed up to %s\n", snap.Dir)
			return nil
		},
	}
}

// newRevertCommand creates the restore command.
func (a *App) newRevertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revert",
		Short: "Restore the newest snapshot covering the selected systems",
		Long: `Revert pops the most recent snapshot whose scope covers every selected
system, restores its files verbatim, and deletes the snapshot. With no
--systems filter any snapshot qualifies. Fails when no snapshot covers
the request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.Context(cmd.Context())
			snap, err := kidgame.Revert(ctx, a.libraryOptions()...)
			if err != nil {
				return err
			}
			if a.config.DryRun {
				cmd.Printf("Dry run: would restore %s (created %s)\n",
					snap.Dir, snap.Manifest.Created.Format("2006-01-02 15:04:05"))
				return nil
			}
			cmd.Printf("Restored %s\n", snap.Dir)
			return nil
		},
	}
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("kidgame %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit: %s\n", a.commit)
				cmd.Printf("  built:  %s\n", a.date)
			}
		},
	}
}
