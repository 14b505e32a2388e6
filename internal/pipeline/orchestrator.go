package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"dailies/internal/config"
	"dailies/internal/logging"
	"dailies/internal/media/ffmpeg"
	"dailies/internal/media/ffprobe"
	"dailies/internal/services"
	"dailies/internal/slate"
	"dailies/internal/stage"
	"dailies/internal/stageexec"
	"dailies/internal/versionpath"
)

// Prober inspects the finished deliverable.
type Prober interface {
	Inspect(ctx context.Context, path string) (ffprobe.Result, error)
}

// Options is the configuration a pipeline is constructed with.
type Options struct {
	Slate             slate.Options
	Encode            ffmpeg.Settings
	KeepIntermediates bool
	ProbeDeliverable  bool
}

// OptionsFromConfig maps the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Slate:            slate.OptionsFromConfig(cfg),
		Encode:           ffmpeg.SettingsFromConfig(cfg),
		ProbeDeliverable: cfg.Validation.ProbeDeliverable,
	}
}

// Request is one pipeline invocation.
type Request struct {
	VersionDir string
	Notes      slate.NoteSource
	// Audio is asked whether to mux reference audio. Nil means no audio.
	Audio ConfirmSource
}

// Report summarizes a run, successful or not.
type Report struct {
	RunID          string
	Version        versionpath.VersionPath
	VideoName      string
	Slate          slate.Result
	AudioRequested bool
	AudioMuxed     bool
	AudioSource    string
	// Deliverable is empty when the run aborted before concat.
	Deliverable string
	Outcomes    []stageexec.Outcome
	Artifacts   []string
	Removed     []string
	// Warnings holds non-fatal problems: missing audio, cleanup, probe.
	Warnings   []error
	Probe      *ffprobe.Result
	StartedAt  time.Time
	FinishedAt time.Time
}

// Orchestrator sequences the pipeline stages for one version directory.
type Orchestrator struct {
	opts       Options
	compositor *slate.Compositor
	stages     []stage.Handler
	audio      stage.Handler
	cleanup    stage.Handler
	prober     Prober
	base       *slog.Logger
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.base = logger
		o.logger = logging.NewComponentLogger(logger, "pipeline")
	}
}

// WithProber enables deliverable inspection with p.
func WithProber(p Prober) Option {
	return func(o *Orchestrator) {
		o.prober = p
	}
}

// WithClock overrides the clock used for the slate date and the report.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New constructs an Orchestrator that runs every encode through encoder.
func New(opts Options, encoder ffmpeg.Encoder, options ...Option) *Orchestrator {
	o := &Orchestrator{
		opts:    opts,
		base:    logging.NewNop(),
		logger:  logging.NewNop(),
		now:     time.Now,
		cleanup: NewCleanupStage(),
		audio:   NewAudioMuxStage(encoder, opts.Encode),
		stages: []stage.Handler{
			NewIntroCardStage(encoder, opts.Encode),
			NewSequenceEncodeStage(encoder, opts.Encode),
			NewConcatStage(encoder, opts.Encode),
		},
	}
	for _, opt := range options {
		opt(o)
	}
	o.compositor = slate.NewCompositor(opts.Slate, slate.WithClock(o.now), slate.WithLogger(o.base))
	return o
}

// HealthCheck reports readiness for every stage that can check itself.
func (o *Orchestrator) HealthCheck(ctx context.Context) []stage.Health {
	handlers := append(append([]stage.Handler{}, o.stages...), o.audio, o.cleanup)
	results := make([]stage.Health, 0, len(handlers))
	for _, h := range handlers {
		if checker, ok := h.(stage.HealthChecker); ok {
			results = append(results, checker.HealthCheck(ctx))
		}
	}
	return results
}

// Run executes the pipeline. Path, asset and usage errors abort before any
// encode. A failed required stage aborts the run after removing what it had
// produced. Missing audio, cleanup and probe problems land in Report.Warnings.
func (o *Orchestrator) Run(ctx context.Context, req Request) (Report, error) {
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.WithContext(ctx, o.logger)
	report := Report{RunID: runID, StartedAt: o.now()}
	finish := func(pc *stage.Context, err error) (Report, error) {
		if pc != nil {
			report.VideoName = pc.VideoName
			report.AudioRequested = pc.AudioRequested
			report.AudioMuxed = pc.AudioMuxed
			report.AudioSource = pc.AudioSource
			report.Deliverable = pc.Deliverable
			report.Artifacts = pc.Artifacts()
			report.Removed = append([]string(nil), pc.Removed...)
		}
		report.FinishedAt = o.now()
		return report, err
	}

	vp, err := versionpath.Resolve(req.VersionDir)
	if err != nil {
		return finish(nil, err)
	}
	report.Version = vp
	logger.Info("dailies run started",
		logging.Event("run_start"),
		logging.String("version_dir", vp.VersionDir),
		logging.String("video_name", vp.VideoName()),
	)

	slateResult, err := o.compositor.Composite(vp, req.Notes)
	if err != nil {
		return finish(nil, err)
	}
	report.Slate = slateResult

	pc := stage.NewContext(vp, slateResult.Spec, false)
	pc.AddArtifact(slateResult.Path)

	if req.Audio != nil {
		answer, err := req.Audio.Confirm(AudioQuestion)
		if err != nil {
			o.abort(ctx, pc, &report)
			return finish(pc, services.Wrap(services.ErrUsage, "confirm", "audio prompt", "confirmation input failed", err))
		}
		pc.AudioRequested = answer
	}

	for _, handler := range o.stages {
		if err := o.runStage(ctx, handler, pc, &report); err != nil {
			o.abort(ctx, pc, &report)
			return finish(pc, err)
		}
	}

	var runErr error
	if pc.AudioRequested {
		if err := o.runStage(ctx, o.audio, pc, &report); err != nil {
			if services.IsFatal(err) {
				runErr = err
			} else {
				report.Warnings = append(report.Warnings, err)
			}
		}
	}

	o.clean(ctx, pc, &report)

	if runErr == nil {
		o.probe(ctx, pc, &report, logger)
		logger.Info("dailies run completed",
			logging.Event("run_complete"),
			logging.String("deliverable", pc.Deliverable),
			logging.Bool("audio_muxed", pc.AudioMuxed),
			logging.Int("warnings", len(report.Warnings)),
		)
	}
	return finish(pc, runErr)
}

func (o *Orchestrator) runStage(ctx context.Context, handler stage.Handler, pc *stage.Context, report *Report) error {
	outcome, err := stageexec.Run(ctx, stageexec.Options{Logger: o.base, Handler: handler, Context: pc})
	report.Outcomes = append(report.Outcomes, outcome)
	return err
}

// abort removes what a failed run produced so far.
func (o *Orchestrator) abort(ctx context.Context, pc *stage.Context, report *Report) {
	logging.WarnWithContext(logging.WithContext(ctx, o.logger), "run aborted", "run_aborted",
		logging.Strings("artifacts", pc.Artifacts()),
		logging.Impact("no deliverable written"),
		logging.Hint("fix the failing stage and rerun"),
	)
	o.clean(ctx, pc, report)
}

func (o *Orchestrator) clean(ctx context.Context, pc *stage.Context, report *Report) {
	if o.opts.KeepIntermediates {
		logging.WithContext(ctx, o.logger).Info("intermediates kept",
			logging.Event("intermediates_kept"),
			logging.Strings("artifacts", pc.Intermediates()),
		)
		return
	}
	if err := o.runStage(ctx, o.cleanup, pc, report); err != nil {
		report.Warnings = append(report.Warnings, err)
	}
}

func (o *Orchestrator) probe(ctx context.Context, pc *stage.Context, report *Report, logger *slog.Logger) {
	if !o.opts.ProbeDeliverable || o.prober == nil || pc.Deliverable == "" {
		return
	}
	result, err := o.prober.Inspect(ctx, pc.Deliverable)
	if err == nil {
		report.Probe = &result
		err = ffprobe.CheckDeliverable(result, ffprobe.Expect{Audio: pc.AudioMuxed, PixelFormat: o.opts.Encode.PixelFormat})
	}
	if err != nil {
		warning := services.Wrap(services.ErrValidation, "probe", "inspect deliverable", pc.Deliverable, err)
		report.Warnings = append(report.Warnings, warning)
		logging.WarnWithContext(logger, "deliverable check failed", "probe_failed",
			logging.Artifact(pc.Deliverable),
			logging.Error(err),
			logging.Impact("deliverable kept but may not play back"),
			logging.Hint("inspect the file with ffprobe"),
		)
		return
	}
	logger.Debug("deliverable verified",
		logging.Artifact(pc.Deliverable),
		logging.Int("video_streams", result.VideoStreamCount()),
		logging.Int("audio_streams", result.AudioStreamCount()),
	)
}
