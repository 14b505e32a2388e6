package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"dailies/internal/config"
	"dailies/internal/deps"
	"dailies/internal/logging"
	"dailies/internal/media/ffmpeg"
	"dailies/internal/pipeline"
	"dailies/internal/preflight"
	"dailies/internal/services"
	"dailies/internal/stage"
	"dailies/internal/versionpath"
)

type doctorRow struct {
	check  string
	status string
	detail string
	failed bool
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [version-dir]",
		Short: "Check external tools, typefaces, and state directories",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			rows := doctorChecks(cmd.Context(), cfg)
			if len(args) == 1 {
				vp, err := versionpath.Resolve(args[0])
				if err != nil {
					return err
				}
				for _, r := range preflight.CheckVersion(vp) {
					rows = append(rows, preflightRow(r))
				}
			}

			table := make([][]string, 0, len(rows))
			failures := 0
			for _, r := range rows {
				table = append(table, []string{r.check, r.status, r.detail})
				if r.failed {
					failures++
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]column{col("Check"), col("Status"), col("Detail")}, table))
			if failures > 0 {
				return services.Wrap(services.ErrConfiguration, "doctor", "", fmt.Sprintf("%d check(s) failed", failures), nil)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All checks passed")
			return nil
		},
	}
}

func doctorChecks(ctx context.Context, cfg *config.Config) []doctorRow {
	var rows []doctorRow
	for _, s := range preflight.CheckSystemDeps(cfg) {
		rows = append(rows, dependencyRow(s))
	}
	for _, r := range preflight.RunAll(cfg) {
		rows = append(rows, preflightRow(r))
	}

	orchestrator := pipeline.New(pipeline.OptionsFromConfig(cfg), ffmpeg.NewRunner(cfg.Encoding.FFmpegBinary),
		pipeline.WithLogger(logging.NewNop()))
	health := orchestrator.HealthCheck(ctx)
	for _, h := range health {
		if h.Ready {
			rows = append(rows, doctorRow{check: "Stage " + h.Name, status: "ready", detail: h.Detail})
		}
	}
	for _, h := range stage.NotReady(health) {
		rows = append(rows, doctorRow{check: "Stage " + h.Name, status: "not ready", detail: h.Detail, failed: true})
	}
	return rows
}

func dependencyRow(s deps.Status) doctorRow {
	row := doctorRow{check: s.Name, status: "ok", detail: s.Path}
	if !s.Available {
		row.detail = s.Detail
		if s.Optional {
			row.status = "optional, missing"
		} else {
			row.status = "missing"
			row.failed = true
		}
	}
	return row
}

func preflightRow(r preflight.Result) doctorRow {
	row := doctorRow{check: r.Name, status: "ok", detail: r.Detail}
	if !r.Passed {
		row.status = "failed"
		row.failed = true
	}
	return row
}
