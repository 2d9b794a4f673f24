package app

import (
	"context"

	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

// newTagCommands creates the add/set and remove/unset command pairs.
// add and set are synonyms, as are remove and unset.
func (a *App) newTagCommands() []*cobra.Command {
	return []*cobra.Command{
		a.newTagCommand("add", true),
		a.newTagCommand("set", true),
		a.newTagCommand("remove", false),
		a.newTagCommand("unset", false),
	}
}

func (a *App) newTagCommand(name string, value bool) *cobra.Command {
	short := "Set a tag on the named games"
	if !value {
		short = "Clear a tag on the named games"
	}
	return &cobra.Command{
		Use:   name + " <tag> [system] <path-or-name>...",
		Short: short,
		Long: `Games are named by rom path or by display name. A path that exists on
disk resolves directly; anything else is matched by name against the
selected systems' gamelists. The optional system argument narrows the
name search. Tags: kidgame, favorite, hidden.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !kidlist.ValidTag(args[0]) {
				return &errors.ConfigError{
					Component: "tags",
					Message:   "unknown tag " + args[0],
				}
			}
			return a.runTag(cmd, kidlist.Tag(args[0]), value, args[1:])
		},
	}
}

func (a *App) runTag(cmd *cobra.Command, tag kidlist.Tag, value bool, args []string) error {
	return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
		// A leading argument naming a loaded system scopes the rest.
		system := ""
		if len(args) > 1 && lib.Catalog(args[0]) != nil {
			system = args[0]
			args = args[1:]
		}

		result := lib.SetTag(ctx, tag, value, system, args)
		for _, t := range result.Applied {
			cmd.Printf("%s/%s: %s=%t\n", t.System, t.Identity, tag, value)
		}
		// Zero matches is not an error; the warning log already names
		// the unmatched arguments.
		return nil
	})
}
