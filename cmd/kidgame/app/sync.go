package app

import (
	"context"

	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
	"github.com/geoffoxholm/retropie-scripts/pkg/reconcile"
)

// newSyncCommand creates the sync command.
func (a *App) newSyncCommand() *cobra.Command {
	var requireBoth bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile gamelists with the kidlist",
		Long: `Sync imports annotations found only in the gamelists into the kidlist,
then projects the kidlist back onto every gamelist. By default kidlist
records without a matching gamelist entry are kept so annotations survive
temporarily missing systems; --require-both drops them instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			policy := reconcile.Union
			if requireBoth {
				policy = reconcile.RequireBoth
			}
			return a.runSync(cmd, policy)
		},
	}
	cmd.Flags().BoolVar(&requireBoth, "require-both", false, "drop kidlist records absent from their gamelist")
	return cmd
}

func (a *App) runSync(cmd *cobra.Command, policy reconcile.Policy) error {
	return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
		total := 0
		for _, cs := range lib.Sync(ctx, policy) {
			if cs.Len() == 0 && len(cs.Retained) == 0 {
				continue
			}
			total += cs.Len()
			a.logger.Info().
				Str("system", cs.System).
				Int("changes", cs.Len()).
				Int("retained", len(cs.Retained)).
				Msg("Synced")
		}
		if total == 0 {
			cmd.Println("Already in sync.")
		}
		return nil
	})
}

// mutate wraps the open, snapshot, act, save cycle shared by the
// destructive commands.
func (a *App) mutate(cmd *cobra.Command, fn func(ctx context.Context, lib *kidgame.Library) error) error {
	ctx := a.Context(cmd.Context())
	lib, err := a.openLibrary(ctx)
	if err != nil {
		return err
	}
	defer lib.Close()

	if _, err := lib.Backup(); err != nil {
		return err
	}
	if err := fn(ctx, lib); err != nil {
		return err
	}
	if err := lib.Save(ctx); err != nil {
		return err
	}
	reportWarnings(cmd, lib)
	return nil
}
