package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"dailies/internal/logging"
	"dailies/internal/services"
)

// stderrTailLines bounds the diagnostic text kept from a failed run.
const stderrTailLines = 20

// Encoder runs one job and returns the artifact it produced.
type Encoder interface {
	Run(ctx context.Context, job Job) (string, error)
}

// Executor starts a process and blocks until it exits. stderr receives the
// process's diagnostic stream.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, stderr io.Writer) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	cmd.Stderr = stderr
	return cmd.Run()
}

// EncodeError reports a failed ffmpeg invocation.
type EncodeError struct {
	Label    string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *EncodeError) Error() string {
	var b strings.Builder
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, "ffmpeg exited with status %d", e.ExitCode)
	} else {
		fmt.Fprintf(&b, "ffmpeg failed: %v", e.Err)
	}
	if last := lastLine(e.Stderr); last != "" {
		b.WriteString(": ")
		b.WriteString(last)
	}
	return b.String()
}

func (e *EncodeError) Unwrap() error { return e.Err }

// Runner is the process-backed Encoder.
type Runner struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithExecutor allows injecting a custom executor for testing.
func WithExecutor(e Executor) RunnerOption {
	return func(r *Runner) {
		if e != nil {
			r.exec = e
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// NewRunner constructs a Runner for the given ffmpeg binary.
func NewRunner(binary string, opts ...RunnerOption) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	r := &Runner{binary: binary, exec: commandExecutor{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Binary returns the configured ffmpeg command.
func (r *Runner) Binary() string {
	return r.binary
}

// Run executes job. On failure any partially written output is removed,
// except an output that existed before the run and was protected by -n.
func (r *Runner) Run(ctx context.Context, job Job) (string, error) {
	if err := job.Validate(); err != nil {
		return "", services.Wrap(services.ErrValidation, job.Label, "build encode job", "", err)
	}

	command := job.CommandLine(r.binary)
	preexisting := fileExists(job.Output)
	r.logger.Debug("ffmpeg started",
		logging.String(logging.FieldCommand, command),
		logging.Artifact(job.Output),
	)

	var stderr bytes.Buffer
	start := time.Now()
	err := r.exec.Run(ctx, r.binary, job.Args(), &stderr)
	elapsed := time.Since(start)
	if err != nil {
		if job.Overwrite || !preexisting {
			if rmErr := os.Remove(job.Output); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				r.logger.Warn("partial output not removed",
					logging.Artifact(job.Output),
					logging.Error(rmErr),
				)
			}
		}
		encErr := &EncodeError{
			Label:    job.Label,
			Command:  command,
			ExitCode: exitCode(err),
			Stderr:   tail(stderr.String(), stderrTailLines),
			Err:      err,
		}
		return "", services.Wrap(services.ErrExternalTool, job.Label, "run ffmpeg", "", encErr)
	}

	if !fileExists(job.Output) {
		return "", services.Wrap(services.ErrExternalTool, job.Label, "run ffmpeg",
			"ffmpeg exited cleanly but did not write "+job.Output, nil)
	}
	r.logger.Debug("ffmpeg finished",
		logging.Artifact(job.Output),
		logging.Duration("elapsed", elapsed),
	)
	return job.Output, nil
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func tail(text string, n int) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func lastLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		return strings.TrimSpace(text[i+1:])
	}
	return text
}
