package app

import (
	"github.com/spf13/cobra"

	"github.com/geoffoxholm/retropie-scripts/pkg/videos"
)

// newFormatVideosCommand creates the video conversion command.
func (a *App) newFormatVideosCommand() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "format-videos",
		Short: "Re-encode preview videos EmulationStation cannot play",
		Long: `Format-videos probes every entry's preview video and re-encodes any
whose pixel format the OMX player rejects. Conversions run on a small
worker pool; a failed file is reported and skipped, never fatal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := a.Context(cmd.Context())
			lib, err := a.openLibrary(ctx)
			if err != nil {
				return err
			}
			defer lib.Close()

			conv := videos.New()
			if a.config.FFmpeg != "" {
				conv.FFmpeg = a.config.FFmpeg
			}
			if a.config.FFprobe != "" {
				conv.FFprobe = a.config.FFprobe
			}
			if workers > 0 {
				conv.Workers = workers
			} else if a.config.VideoWorkers > 0 {
				conv.Workers = a.config.VideoWorkers
			}
			conv.Progress = !a.config.Quiet

			report := lib.FormatVideos(ctx, conv)
			cmd.Printf("Probed %d videos, converted %d, %d failed.\n",
				report.Probed, len(report.Converted), len(report.Failures))
			reportWarnings(cmd, lib)
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent conversions (default from config, then 2)")
	return cmd
}
