package pipeline

import (
	"context"
	"os"
	"strings"

	"dailies/internal/logging"
	"dailies/internal/media/ffmpeg"
	"dailies/internal/services"
	"dailies/internal/stage"
)

// AudioMuxStage adds the reference audio to the deliverable. A missing audio
// file is reported as services.ErrAudioNotFound and leaves the context untouched.
type AudioMuxStage struct {
	encodeStage
}

// NewAudioMuxStage constructs the audio mux stage.
func NewAudioMuxStage(encoder ffmpeg.Encoder, settings ffmpeg.Settings) *AudioMuxStage {
	return &AudioMuxStage{newEncodeStage(StageAudioMux, encoder, settings)}
}

// Run implements stage.Handler.
func (s *AudioMuxStage) Run(ctx context.Context, pc *stage.Context) error {
	if !pc.AudioRequested {
		return nil
	}
	vp := pc.Version
	candidates := vp.AudioCandidates()
	audio, ok := FindAudio(candidates)
	if !ok {
		return services.Wrap(services.ErrAudioNotFound, s.name, "locate audio",
			"no reference audio at "+strings.Join(candidates, " or "), nil)
	}
	if err := stage.RequireInput(s.name, "deliverable", pc.Deliverable); err != nil {
		return err
	}
	s.logger.Info("reference audio found",
		logging.String("audio", audio),
		logging.Duration("lead_delay", s.settings.AudioDelay),
	)
	artifact, err := s.encode(ctx, pc, ffmpeg.AudioMuxJob(s.settings, pc.Deliverable, audio, vp.AudioDeliverable()))
	if err != nil {
		return err
	}
	pc.Deliverable = artifact
	pc.AudioMuxed = true
	pc.AudioSource = audio
	return nil
}

// FindAudio returns the first candidate that is a regular file.
func FindAudio(candidates []string) (string, bool) {
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}
