package pipeline

import (
	"context"
	"log/slog"

	"dailies/internal/deps"
	"dailies/internal/logging"
	"dailies/internal/media/ffmpeg"
	"dailies/internal/stage"
)

// Stage names used in logs, errors and the run ledger.
const (
	StageIntroCard = "intro_card"
	StageSequence  = "sequence"
	StageConcat    = "concat"
	StageAudioMux  = "audio_mux"
	StageCleanup   = "cleanup"
)

// binaryReporter is implemented by encoders backed by an external command.
type binaryReporter interface {
	Binary() string
}

// encodeStage carries what every ffmpeg-backed stage needs.
type encodeStage struct {
	name     string
	encoder  ffmpeg.Encoder
	settings ffmpeg.Settings
	logger   *slog.Logger
}

func newEncodeStage(name string, encoder ffmpeg.Encoder, settings ffmpeg.Settings) encodeStage {
	return encodeStage{name: name, encoder: encoder, settings: settings, logger: logging.NewNop()}
}

func (e *encodeStage) Name() string { return e.name }

func (e *encodeStage) SetLogger(logger *slog.Logger) {
	e.logger = logging.NewComponentLogger(logger, e.name)
}

// HealthCheck reports whether the encoder binary can be found.
func (e *encodeStage) HealthCheck(context.Context) stage.Health {
	reporter, ok := e.encoder.(binaryReporter)
	if !ok {
		return stage.Available(e.name, "")
	}
	status := deps.Check(deps.Requirement{Name: "FFmpeg", Command: reporter.Binary()})
	if !status.Available {
		return stage.Unavailable(e.name, status.Detail)
	}
	return stage.Available(e.name, status.Path)
}

func (e *encodeStage) encode(ctx context.Context, pc *stage.Context, job ffmpeg.Job) (string, error) {
	artifact, err := e.encoder.Run(ctx, job)
	if err != nil {
		return "", err
	}
	pc.AddArtifact(artifact)
	e.logger.Info("artifact written", logging.Artifact(artifact))
	return artifact, nil
}

// IntroCardStage turns the slate frame into a fixed-length video.
type IntroCardStage struct {
	encodeStage
}

// NewIntroCardStage constructs the intro card stage.
func NewIntroCardStage(encoder ffmpeg.Encoder, settings ffmpeg.Settings) *IntroCardStage {
	return &IntroCardStage{newEncodeStage(StageIntroCard, encoder, settings)}
}

// Run implements stage.Handler.
func (s *IntroCardStage) Run(ctx context.Context, pc *stage.Context) error {
	vp := pc.Version
	if err := stage.RequireInput(s.name, "slate frame", vp.SlateFrame()); err != nil {
		return err
	}
	_, err := s.encode(ctx, pc, ffmpeg.IntroCardJob(s.settings, vp.SlateFrame(), vp.IntroCard()))
	return err
}

// SequenceEncodeStage encodes the numbered frames, slate first, into one video.
type SequenceEncodeStage struct {
	encodeStage
}

// NewSequenceEncodeStage constructs the sequence encode stage.
func NewSequenceEncodeStage(encoder ffmpeg.Encoder, settings ffmpeg.Settings) *SequenceEncodeStage {
	return &SequenceEncodeStage{newEncodeStage(StageSequence, encoder, settings)}
}

// Run implements stage.Handler.
func (s *SequenceEncodeStage) Run(ctx context.Context, pc *stage.Context) error {
	vp := pc.Version
	if err := stage.RequireInput(s.name, "slate frame", vp.SlateFrame()); err != nil {
		return err
	}
	_, err := s.encode(ctx, pc, ffmpeg.SequenceJob(s.settings, vp.FrameSequence(), vp.SequenceVideo()))
	return err
}

// ConcatStage joins the intro card and the sequence into the deliverable.
type ConcatStage struct {
	encodeStage
}

// NewConcatStage constructs the concat stage.
func NewConcatStage(encoder ffmpeg.Encoder, settings ffmpeg.Settings) *ConcatStage {
	return &ConcatStage{newEncodeStage(StageConcat, encoder, settings)}
}

// Run implements stage.Handler.
func (s *ConcatStage) Run(ctx context.Context, pc *stage.Context) error {
	vp := pc.Version
	if err := stage.RequireInput(s.name, "intro card", vp.IntroCard()); err != nil {
		return err
	}
	if err := stage.RequireInput(s.name, "sequence video", vp.SequenceVideo()); err != nil {
		return err
	}
	if err := stage.EnsureDir(s.name, vp.OutputPath); err != nil {
		return err
	}
	artifact, err := s.encode(ctx, pc, ffmpeg.ConcatJob(s.settings, vp.IntroCard(), vp.SequenceVideo(), vp.Deliverable()))
	if err != nil {
		return err
	}
	pc.Deliverable = artifact
	return nil
}
