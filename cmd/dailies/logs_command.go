package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"dailies/internal/logging"
	"dailies/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var opts logs.Options

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the dailies log",
		Long: `Show the tail of the dailies log file.

Pass --run with an id from "dailies history" (a prefix is enough) to see a
single run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Paths.LogDir == "" {
				return fmt.Errorf("paths.log_dir is not set; logs only go to stderr")
			}
			out := cmd.OutOrStdout()
			path := filepath.Join(cfg.Paths.LogDir, logging.FileName)
			return logs.Tail(cmd.Context(), path, opts, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 50, "Number of trailing lines to show (0 for all)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "Only show lines for this run id")
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Keep printing lines as they are written")
	return cmd
}
