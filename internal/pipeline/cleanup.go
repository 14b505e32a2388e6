package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"dailies/internal/logging"
	"dailies/internal/services"
	"dailies/internal/stage"
)

// CleanupResult contains the outcome of removing intermediates.
type CleanupResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a file path with its removal error.
type CleanupError struct {
	Path string
	Err  error
}

func (e CleanupError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// RemoveArtifacts deletes every path, continuing past failures. A path that
// is already gone counts as removed.
func RemoveArtifacts(paths []string, logger *slog.Logger) CleanupResult {
	result := CleanupResult{}
	for _, path := range paths {
		err := os.Remove(path)
		switch {
		case err == nil:
			result.Removed = append(result.Removed, path)
			if logger != nil {
				logger.Debug("removed intermediate", logging.Artifact(path))
			}
		case errors.Is(err, os.ErrNotExist):
			result.Removed = append(result.Removed, path)
			if logger != nil {
				logger.Debug("intermediate already absent", logging.Artifact(path))
			}
		default:
			result.Errors = append(result.Errors, CleanupError{Path: path, Err: err})
			if logger != nil {
				logger.Warn("failed to remove intermediate",
					logging.Artifact(path),
					logging.Error(err),
					logging.Event("cleanup_failed"),
					logging.Hint("check permissions on the version directory"),
					logging.Impact("intermediate left on disk"),
				)
			}
		}
	}
	return result
}

// CleanupStage removes every artifact the run produced except the current
// deliverable. Failures are aggregated into one services.ErrCleanup.
type CleanupStage struct {
	logger *slog.Logger
}

// NewCleanupStage constructs the cleanup stage.
func NewCleanupStage() *CleanupStage {
	return &CleanupStage{logger: logging.NewNop()}
}

// Name implements stage.Handler.
func (s *CleanupStage) Name() string { return StageCleanup }

// SetLogger implements stage.LoggerAware.
func (s *CleanupStage) SetLogger(logger *slog.Logger) {
	s.logger = logging.NewComponentLogger(logger, StageCleanup)
}

// Run implements stage.Handler.
func (s *CleanupStage) Run(_ context.Context, pc *stage.Context) error {
	targets := pc.Intermediates()
	result := RemoveArtifacts(targets, s.logger)
	pc.Removed = append(pc.Removed, result.Removed...)
	if len(result.Errors) == 0 {
		return nil
	}
	errs := make([]error, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, e)
	}
	return services.Wrap(services.ErrCleanup, s.Name(), "remove intermediates",
		fmt.Sprintf("%d of %d files not removed", len(result.Errors), len(targets)), errors.Join(errs...))
}
