package stage

import (
	"context"
	"log/slog"
)

// Handler is one step of the assembly pipeline. Run reads its inputs from pc
// and records the artifact it produced there on success.
type Handler interface {
	Name() string
	Run(ctx context.Context, pc *Context) error
}

// LoggerAware is implemented by handlers that accept a stage-scoped logger.
type LoggerAware interface {
	SetLogger(*slog.Logger)
}

// HealthChecker is implemented by handlers that can report readiness before a run.
type HealthChecker interface {
	HealthCheck(context.Context) Health
}
