package stageexec

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dailies/internal/logging"
	"dailies/internal/services"
	"dailies/internal/stage"
)

// Status is the terminal state of one stage execution.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusSkipped   Status = "skipped"
	StatusWarning   Status = "warning"
	StatusFailed    Status = "failed"
)

// Outcome records how a stage ended.
type Outcome struct {
	Stage   string
	Status  Status
	Elapsed time.Duration
	Err     error
}

// Options controls a single stage execution.
type Options struct {
	Logger  *slog.Logger
	Handler stage.Handler
	Context *stage.Context
}

// Run executes one stage with start, completion and failure logging. Missing
// audio is reported as skipped. Any other non-fatal error, such as cleanup
// leaving files behind, means the stage ran and is reported as a warning. In
// both cases the error is still returned so the caller can record it.
func Run(ctx context.Context, opts Options) (Outcome, error) {
	if opts.Handler == nil {
		return Outcome{Status: StatusFailed}, fmt.Errorf("stage handler unavailable")
	}
	if opts.Context == nil {
		return Outcome{Stage: opts.Handler.Name(), Status: StatusFailed}, fmt.Errorf("pipeline context is required")
	}

	name := opts.Handler.Name()
	stageCtx := logging.WithStage(ctx, name)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)
	if aware, ok := opts.Handler.(stage.LoggerAware); ok {
		aware.SetLogger(stageLogger)
	}

	stageLogger.Info(
		"stage started",
		logging.Event("stage_start"),
		logging.String("video_name", opts.Context.VideoName),
	)

	start := time.Now()
	err := opts.Handler.Run(stageCtx, opts.Context)
	outcome := Outcome{Stage: name, Elapsed: time.Since(start), Err: err}

	switch {
	case err == nil:
		outcome.Status = StatusCompleted
		stageLogger.Info(
			"stage completed",
			logging.Event("stage_complete"),
			logging.Duration("elapsed", outcome.Elapsed.Round(time.Millisecond)),
			logging.String("deliverable", opts.Context.Deliverable),
		)
	case errors.Is(err, services.ErrAudioNotFound):
		outcome.Status = StatusSkipped
		logging.WarnWithContext(stageLogger, "stage skipped", "stage_skipped",
			logging.String("reason", services.Details(err).Message),
			logging.Hint(errorHint(err)),
			logging.Impact(impact(err)),
		)
	case !services.IsFatal(err):
		outcome.Status = StatusWarning
		logging.WarnWithContext(stageLogger, "stage completed with warnings", "stage_warning",
			logging.Duration("elapsed", outcome.Elapsed.Round(time.Millisecond)),
			logging.String("reason", services.Details(err).Message),
			logging.Hint(errorHint(err)),
			logging.Impact(impact(err)),
		)
	default:
		outcome.Status = StatusFailed
		details := services.Details(err)
		message := strings.TrimSpace(details.Message)
		if message == "" {
			message = strings.TrimSpace(err.Error())
		}
		logging.ErrorWithContext(stageLogger, "stage failed", "stage_failure",
			logging.String("error_kind", details.Kind),
			logging.String("error_message", message),
			logging.Hint(errorHint(err)),
			logging.Error(err),
		)
	}
	return outcome, err
}

func errorHint(err error) string {
	switch {
	case errors.Is(err, services.ErrAudioNotFound):
		return "place the reference wav next to the version directory"
	case errors.Is(err, services.ErrExternalTool):
		return "inspect the ffmpeg command and diagnostics"
	case errors.Is(err, services.ErrValidation):
		return "an earlier stage did not produce its output"
	case errors.Is(err, services.ErrFilesystem):
		return "check permissions on the version and output directories"
	case errors.Is(err, services.ErrCleanup):
		return "remove the listed intermediates manually"
	default:
		return "check logs for details"
	}
}

func impact(err error) string {
	switch {
	case errors.Is(err, services.ErrAudioNotFound):
		return "deliverable has no audio track"
	case errors.Is(err, services.ErrCleanup):
		return "intermediate files left on disk"
	default:
		return "stage output unavailable"
	}
}
