package app

import (
	"strconv"

	"github.com/spf13/cobra"

	kidgame "github.com/geoffoxholm/retropie-scripts"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

// newInfoCommand creates the info command. Info is also what running the
// bare binary does.
func (a *App) newInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show a per-system summary of games and annotations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runInfo(cmd)
		},
	}
}

func (a *App) runInfo(cmd *cobra.Command) error {
	ctx := a.Context(cmd.Context())
	lib, err := kidgame.Open(ctx, append(a.libraryOptions(), kidgame.WithoutLock())...)
	if err != nil {
		return err
	}
	defer lib.Close()

	headers := []string{"System", "Games", "Kidgame", "Favorite", "Hidden", "Missing art", "Orphaned"}
	aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight}

	var rows [][]string
	for _, info := range lib.Info() {
		system := info.System
		if info.HideAll {
			system += " (hidden)"
		}
		rows = append(rows, []string{
			system,
			strconv.Itoa(info.Games),
			strconv.Itoa(info.TagCounts[kidlist.TagKidgame]),
			strconv.Itoa(info.TagCounts[kidlist.TagFavorite]),
			strconv.Itoa(info.TagCounts[kidlist.TagHidden]),
			strconv.Itoa(info.MissingArt),
			strconv.Itoa(info.OverlayOnly),
		})
	}

	cmd.Println(renderTable(headers, rows, aligns))
	reportWarnings(cmd, lib)
	return nil
}

// reportWarnings prints the library's collected non-fatal issues.
func reportWarnings(cmd *cobra.Command, lib *kidgame.Library) {
	for _, warning := range lib.Warnings() {
		cmd.PrintErrln("warning: " + warning.Error())
	}
}
