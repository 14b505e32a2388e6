package ffmpeg

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"dailies/internal/config"
)

// Settings holds the fixed encode parameters shared by every stage.
type Settings struct {
	FrameRate    int
	IntroLength  time.Duration
	VideoCodec   string
	PixelFormat  string
	ConcatPreset string
	ConcatCRF    int
	// BurnIn is nil when the review overlay is disabled.
	BurnIn     *BurnIn
	AudioDelay time.Duration
	AudioCodec string
	Overwrite  bool
}

// BurnIn configures the drawtext overlay on the sequence encode.
type BurnIn struct {
	FontFile  string
	FontSize  int
	FontColor string
	BoxColor  string
}

// SettingsFromConfig maps the [encoding] and [audio] config sections.
func SettingsFromConfig(cfg *config.Config) Settings {
	s := Settings{
		FrameRate:    cfg.Encoding.FrameRate,
		IntroLength:  time.Duration(cfg.Encoding.IntroSeconds) * time.Second,
		VideoCodec:   cfg.Encoding.VideoCodec,
		PixelFormat:  cfg.Encoding.PixelFormat,
		ConcatPreset: cfg.Encoding.ConcatPreset,
		ConcatCRF:    cfg.Encoding.ConcatCRF,
		AudioDelay:   time.Duration(cfg.Audio.LeadDelayMS) * time.Millisecond,
		AudioCodec:   cfg.Audio.Codec,
		Overwrite:    cfg.Encoding.OverwriteOutputs,
	}
	if cfg.Encoding.BurnIn {
		s.BurnIn = &BurnIn{
			FontFile:  cfg.NotesTypeface(),
			FontSize:  cfg.Encoding.BurnInFontSize,
			FontColor: cfg.Encoding.BurnInFontColor,
			BoxColor:  cfg.Encoding.BurnInBoxColor,
		}
	}
	return s
}

// IntroCardJob loops the slate frame for the intro length.
func IntroCardJob(s Settings, slateFrame, output string) Job {
	return Job{
		Label:  "intro_card",
		Inputs: []Input{StillImage(slateFrame)},
		OutputOptions: []string{
			"-c:v", s.VideoCodec,
			"-t", seconds(s.IntroLength),
			"-pix_fmt", s.PixelFormat,
			"-r", itoa(s.FrameRate),
		},
		Output:    output,
		Overwrite: s.Overwrite,
	}
}

// SequenceJob encodes the numbered frames, slate included, into one video.
func SequenceJob(s Settings, framePattern, output string) Job {
	job := Job{
		Label:  "sequence",
		Inputs: []Input{ImageSequence(framePattern, s.FrameRate, 0)},
		OutputOptions: []string{
			"-c:v", s.VideoCodec,
			"-pix_fmt", s.PixelFormat,
			"-r", itoa(s.FrameRate),
		},
		Output:    output,
		Overwrite: s.Overwrite,
	}
	if s.BurnIn != nil {
		job.VideoFilter = s.BurnIn.filter(filepath.Base(output))
	}
	return job
}

// ConcatJob joins two video-only inputs and re-encodes at the concat quality.
func ConcatJob(s Settings, first, second, output string) Job {
	return Job{
		Label:         "concat",
		Inputs:        []Input{File(first), File(second)},
		FilterComplex: "[0:v][1:v]concat=n=2:v=1:a=0[outv]",
		Maps:          []string{"[outv]"},
		OutputOptions: []string{
			"-c:v", s.VideoCodec,
			"-preset", s.ConcatPreset,
			"-crf", itoa(s.ConcatCRF),
			"-pix_fmt", s.PixelFormat,
		},
		Output:    output,
		Overwrite: s.Overwrite,
	}
}

// AudioMuxJob adds the reference audio delayed by the intro length, copying
// the video stream and stopping at the shorter stream.
func AudioMuxJob(s Settings, video, audio, output string) Job {
	delay := strconv.FormatInt(s.AudioDelay.Milliseconds(), 10)
	return Job{
		Label:         "audio_mux",
		Inputs:        []Input{File(video), File(audio)},
		FilterComplex: "[1:a]adelay=delays=" + delay + ":all=1[aud]",
		Maps:          []string{"0:v", "[aud]"},
		OutputOptions: []string{
			"-c:v", "copy",
			"-c:a", s.AudioCodec,
			"-shortest",
		},
		Output:    output,
		Overwrite: s.Overwrite,
	}
}

// filter builds three drawtext overlays: file name top-left, elapsed time
// bottom-left and frame number bottom-right.
func (b BurnIn) filter(name string) string {
	common := b.common()
	overlays := []string{
		fmt.Sprintf("drawtext=%s:text=%s:x=20:y=20", common, escapeText(name)),
		fmt.Sprintf("drawtext=%s:text='%%{pts\\:hms}':x=20:y=h-th-20", common),
		fmt.Sprintf("drawtext=%s:text='%%{n}':x=w-tw-20:y=h-th-20", common),
	}
	return strings.Join(overlays, ",")
}

func (b BurnIn) common() string {
	opts := make([]string, 0, 5)
	if b.FontFile != "" {
		opts = append(opts, "fontfile="+escapeText(b.FontFile))
	}
	opts = append(opts, "fontsize="+itoa(b.FontSize), "fontcolor="+b.FontColor)
	if b.BoxColor != "" {
		opts = append(opts, "box=1", "boxcolor="+b.BoxColor, "boxborderw=8")
	}
	return strings.Join(opts, ":")
}

// escapeText backslash-escapes characters that are special to the filter
// graph parser or to drawtext expansion.
func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '\'', ':', '%', ',', ';', '[', ']', '=':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
