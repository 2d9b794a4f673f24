package app

import (
	"context"

	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
)

// newCleanCommand creates the gamelist normalization command.
func (a *App) newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "clean",
		Aliases: []string{"clean-gamelists"},
		Short:   "Normalize gamelists in place",
		Long: `Clean drops entries whose rom file no longer exists, merges duplicate
entries sharing one rom, repairs double-escaped text, and fixes known
genre misspellings. Running it twice changes nothing the second time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
				for _, report := range lib.Clean(ctx) {
					if report.Total() == 0 {
						continue
					}
					cmd.Printf("%s: removed %d, merged %d, de-escaped %d, genres fixed %d\n",
						report.System, len(report.RemovedMissing), len(report.Merged),
						report.Deescaped, report.GenresFixed)
				}
				return nil
			})
		},
	}
}

// newCleanKidlistCommand creates the overlay pruning command.
func (a *App) newCleanKidlistCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean-kidlist",
		Short: "Drop kidlist records with no matching gamelist entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
				report := lib.CleanOverlay(ctx)
				for system, ids := range report.Removed {
					for _, id := range ids {
						cmd.Printf("%s/%s: dropped\n", system, id)
					}
				}
				cmd.Printf("Dropped %d records.\n", report.Total())
				return nil
			})
		},
	}
}

// newRemoveIncompleteCommand creates the rescrape-forcing command.
func (a *App) newRemoveIncompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-incomplete",
		Short: "Drop entries missing their image or video so a rescrape revisits them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
				for _, report := range lib.RemoveIncomplete(ctx) {
					for _, name := range report.Removed {
						cmd.Printf("%s/%s: removed\n", report.System, name)
					}
				}
				return nil
			})
		},
	}
}
