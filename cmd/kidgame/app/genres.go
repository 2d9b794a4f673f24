package app

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
	"github.com/geoffoxholm/retropie-scripts/pkg/genres"
)

// newGenresCommand creates the genres listing command.
func (a *App) newGenresCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "genres [count|alpha]",
		Short:     "List genres across the selected systems",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"count", "alpha"},
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 0 {
				arg = args[0]
			}
			order, err := genres.ParseOrder(arg)
			if err != nil {
				return err
			}
			return a.runGenres(cmd, order)
		},
	}
}

func (a *App) runGenres(cmd *cobra.Command, order genres.Order) error {
	ctx := a.Context(cmd.Context())
	lib, err := kidgame.Open(ctx, append(a.libraryOptions(), kidgame.WithoutLock())...)
	if err != nil {
		return err
	}
	defer lib.Close()

	var rows [][]string
	for _, group := range lib.Genres(order) {
		name := group.Name
		if name == "" {
			name = "(none)"
		}
		rows = append(rows, []string{name, strconv.Itoa(group.Count)})
	}
	cmd.Println(renderTable([]string{"Genre", "Games"}, rows, []columnAlignment{alignLeft, alignRight}))
	return nil
}

// newGenreCommand creates the per-genre action command.
func (a *App) newGenreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "genre <name> [list|remove|favorite|hidden|kidgame]",
		Short: "List, tag, or remove every game of one genre",
		Long: `Genre matches games whose genre equals <name> exactly. The default
action lists them. The tag actions mark every match in the kidlist;
remove deletes every match from its gamelist.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := ""
			if len(args) > 1 {
				arg = args[1]
			}
			action, err := genres.ParseAction(arg)
			if err != nil {
				return err
			}
			return a.runGenre(cmd, args[0], action)
		},
	}
}

func (a *App) runGenre(cmd *cobra.Command, genre string, action genres.Action) error {
	if action == genres.ActionList {
		ctx := a.Context(cmd.Context())
		lib, err := kidgame.Open(ctx, append(a.libraryOptions(), kidgame.WithoutLock())...)
		if err != nil {
			return err
		}
		defer lib.Close()
		printGenreResult(cmd, lib.ApplyGenre(ctx, genre, action))
		return nil
	}

	return a.mutate(cmd, func(ctx context.Context, lib *kidgame.Library) error {
		printGenreResult(cmd, lib.ApplyGenre(ctx, genre, action))
		return nil
	})
}

func printGenreResult(cmd *cobra.Command, result *genres.Result) {
	if len(result.Matches) == 0 {
		cmd.Printf("No games with genre %q.\n", result.Genre)
		return
	}
	rows := make([][]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		rows = append(rows, []string{m.System, m.Name})
	}
	cmd.Println(renderTable([]string{"System", "Game"}, rows, nil))
	if result.Tagged > 0 {
		cmd.Printf("Tagged %d games.\n", result.Tagged)
	}
	if result.Removed > 0 {
		cmd.Printf("Removed %d games.\n", result.Removed)
	}
}
