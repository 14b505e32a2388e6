package main

import (
	"github.com/spf13/cobra"

	"dailies/internal/services"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var flags runFlags

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "dailies <version-dir>",
		Short: "Assemble a review video for one shot version",
		Long: `dailies turns a directory of rendered frames into a review video.

The version directory must end in {sequence}/{shot}/{version}. The command
composites a slate, encodes it as an intro card, encodes the frames, joins
the two into {root}/output/{sequence}_{shot}_{version}.mp4, optionally muxes
reference audio, and removes the intermediates.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return services.Wrap(services.ErrUsage, "", "arguments", "usage: "+cmd.UseLine(), err)
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.audio && flags.noAudio {
				return services.Wrap(services.ErrUsage, "", "flags", "--audio and --no-audio are mutually exclusive", nil)
			}
			return runVersion(cmd, ctx, flags, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	rootCmd.Flags().StringArrayVarP(&flags.notes, "note", "n", nil, "Review note for the slate (repeatable; skips the notes prompt)")
	rootCmd.Flags().BoolVar(&flags.noNotes, "no-notes", false, "Render the slate without notes and skip the notes prompt")
	rootCmd.Flags().BoolVar(&flags.audio, "audio", false, "Mux reference audio without asking")
	rootCmd.Flags().BoolVar(&flags.noAudio, "no-audio", false, "Skip reference audio without asking")
	rootCmd.Flags().BoolVar(&flags.keepIntermediates, "keep-intermediates", false, "Leave the slate frame, intro card, and sequence video in place")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newLogsCommand(ctx))

	return rootCmd
}
