package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"dailies/internal/history"
	"dailies/internal/logging"
	"dailies/internal/versionpath"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var versionFilter string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent dailies runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			if limit <= 0 {
				limit = cfg.History.Limit
			}
			if versionFilter != "" {
				vp, err := versionpath.Resolve(versionFilter)
				if err != nil {
					return err
				}
				versionFilter = vp.VersionDir
			}

			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.Recent(cmd.Context(), versionFilter, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistory(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of runs to show (defaults to history.limit)")
	cmd.Flags().StringVar(&versionFilter, "version", "", "Only show runs for this version directory")
	return cmd
}

func renderHistory(records []history.Record) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		outcome := rec.Deliverable
		if rec.Status == history.StatusFailed {
			outcome = rec.Error
			if rec.FailedStage != "" {
				outcome = rec.FailedStage + ": " + rec.Error
			}
		}
		rows = append(rows, []string{
			logging.ShortRunID(rec.RunID),
			rec.StartedAt.Local().Format("2006-01-02 15:04:05"),
			rec.VideoName,
			rec.Status,
			yesNo(rec.AudioMuxed),
			strconv.Itoa(rec.Notes),
			rec.Duration().Round(time.Second).String(),
			truncate(outcome, maxDetailWidth),
		})
	}
	return renderTable([]column{
		col("Run"), col("Started"), col("Video"), col("Status"), col("Audio"),
		numCol("Notes"), numCol("Duration"), col("Deliverable / Error"),
	}, rows)
}
