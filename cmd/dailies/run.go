package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"dailies/internal/config"
	"dailies/internal/deps"
	"dailies/internal/history"
	"dailies/internal/logging"
	"dailies/internal/media/ffmpeg"
	"dailies/internal/media/ffprobe"
	"dailies/internal/pipeline"
	"dailies/internal/preflight"
	"dailies/internal/runlock"
	"dailies/internal/services"
	"dailies/internal/slate"
	"dailies/internal/versionpath"
)

type runFlags struct {
	notes             []string
	noNotes           bool
	audio             bool
	noAudio           bool
	keepIntermediates bool
}

func runVersion(cmd *cobra.Command, cc *commandContext, flags runFlags, versionDir string) error {
	cfg, err := cc.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cc.logger()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	ctx := services.WithRunID(cmd.Context(), runID)
	report := pipeline.Report{RunID: runID, StartedAt: time.Now()}

	report, runErr := executeRun(ctx, cmd, cfg, logger, flags, versionDir, report)
	if report.FinishedAt.IsZero() {
		report.FinishedAt = time.Now()
	}
	if runErr != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, logger), "dailies run failed", "run_failed",
			logging.String("version_dir", versionDir),
			logging.Error(runErr),
		)
	}

	recordHistory(ctx, cfg, logger, versionDir, report, runErr)
	fmt.Fprint(cmd.OutOrStdout(), renderRunSummary(report, runErr))
	return runErr
}

// executeRun performs the checks that must pass before any file is written,
// takes the per-version lock, and hands off to the pipeline.
func executeRun(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, flags runFlags, versionDir string, report pipeline.Report) (pipeline.Report, error) {
	vp, err := versionpath.Resolve(versionDir)
	if err != nil {
		return report, err
	}
	report.Version = vp
	report.VideoName = vp.VideoName()

	if err := checkVersionDirs(vp); err != nil {
		return report, err
	}
	if missing := deps.MissingRequired(preflight.CheckSystemDeps(cfg)); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, fmt.Sprintf("%s (%s)", m.Name, m.Command))
		}
		return report, services.Wrap(services.ErrConfiguration, "preflight", "external tools",
			"not found: "+strings.Join(names, ", "), nil)
	}

	lock, err := runlock.Acquire(cfg.Paths.LockDir, vp)
	if err != nil {
		return report, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("release run lock failed",
				logging.Event("lock_release_failed"),
				logging.String("lock", lock.Path()),
				logging.Error(err),
				logging.Hint("remove the lock file by hand if the next run reports it held"),
			)
		}
	}()

	in := cmd.InOrStdin()
	interactive := isTerminal(in)
	prompter := newLinePrompter(in, cmd.OutOrStdout(), interactive)

	opts := pipeline.OptionsFromConfig(cfg)
	opts.KeepIntermediates = flags.keepIntermediates
	encoder := ffmpeg.NewRunner(cfg.Encoding.FFmpegBinary, ffmpeg.WithLogger(logger))
	orchestrator := pipeline.New(opts, encoder,
		pipeline.WithLogger(logger),
		pipeline.WithProber(ffprobe.NewProber(cfg.Encoding.FFprobeBinary)),
	)

	return orchestrator.Run(ctx, pipeline.Request{
		VersionDir: vp.VersionDir,
		Notes:      noteSource(flags, prompter),
		Audio:      audioSource(flags, cfg, prompter, interactive),
	})
}

func checkVersionDirs(vp versionpath.VersionPath) error {
	for _, result := range preflight.Failed(preflight.CheckVersion(vp)) {
		marker := services.ErrFilesystem
		if result.Name == "Version directory" {
			marker = services.ErrInvalidPath
		}
		return services.Wrap(marker, "preflight", strings.ToLower(result.Name), result.Detail, nil)
	}
	return nil
}

func noteSource(flags runFlags, prompter *linePrompter) slate.NoteSource {
	switch {
	case flags.noNotes:
		return nil
	case len(flags.notes) > 0:
		return slate.StaticNotes(flags.notes)
	default:
		return prompter
	}
}

// audioSource picks who answers the audio question. Flags win; the prompt is
// only offered on an interactive terminal.
func audioSource(flags runFlags, cfg *config.Config, prompter *linePrompter, interactive bool) pipeline.ConfirmSource {
	switch {
	case flags.audio:
		return pipeline.StaticConfirm(true)
	case flags.noAudio:
		return pipeline.StaticConfirm(false)
	case cfg.Audio.Prompt && interactive:
		return prompter
	default:
		return nil
	}
}

func recordHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, versionDir string, report pipeline.Report, runErr error) {
	if !cfg.History.Enabled {
		return
	}
	store, err := history.Open(cfg.Paths.HistoryDB)
	if err == nil {
		defer store.Close()
		err = store.Append(ctx, history.NewRecord(versionDir, report, runErr))
	}
	if err != nil {
		logging.WarnWithContext(logger, "history not recorded", "history_failed",
			logging.String("history_db", cfg.Paths.HistoryDB),
			logging.Error(err),
			logging.Impact("run missing from dailies history"),
			logging.Hint("check that the history database is writable"),
		)
	}
}
