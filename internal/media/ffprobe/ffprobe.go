package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Result is the subset of ffprobe's JSON output dailies looks at.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes one stream of the container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	PixFmt     string `json:"pix_fmt"`
	FrameRate  string `json:"avg_frame_rate"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format is the container-level metadata.
type Format struct {
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	FormatName string `json:"format_name"`
}

// CommandRunner executes ffprobe and returns its stdout.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if stderr := strings.TrimSpace(string(exitErr.Stderr)); stderr != "" {
			return nil, fmt.Errorf("%w: %s", err, stderr)
		}
	}
	return output, err
}

// Prober runs ffprobe against finished files.
type Prober struct {
	binary string
	run    CommandRunner
}

// NewProber returns a Prober for binary, or "ffprobe" from PATH when blank.
func NewProber(binary string) *Prober {
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}
	return &Prober{binary: binary, run: execRunner}
}

// WithCommandRunner replaces process execution, for tests.
func (p *Prober) WithCommandRunner(r CommandRunner) *Prober {
	if r != nil {
		p.run = r
	}
	return p
}

// Inspect probes path and decodes the result.
func (p *Prober) Inspect(ctx context.Context, path string) (Result, error) {
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe: no file to inspect")
	}
	args := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path}
	output, err := p.run(ctx, p.binary, args...)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("decode ffprobe output for %s: %w", path, err)
	}
	return result, nil
}

// VideoStreamCount returns the number of video streams.
func (r Result) VideoStreamCount() int { return len(r.streams("video")) }

// AudioStreamCount returns the number of audio streams.
func (r Result) AudioStreamCount() int { return len(r.streams("audio")) }

func (r Result) streams(kind string) []Stream {
	var out []Stream
	for _, s := range r.Streams {
		if strings.EqualFold(s.CodecType, kind) {
			out = append(out, s)
		}
	}
	return out
}

// Duration returns the container duration. ok is false when ffprobe did not
// report a positive, parseable value.
func (r Result) Duration() (time.Duration, bool) {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(r.Format.Duration), 64)
	if err != nil || seconds <= 0 {
		return 0, false
	}
	return time.Duration(seconds * float64(time.Second)), true
}

// SizeBytes returns the reported container size, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size, err := strconv.ParseInt(strings.TrimSpace(r.Format.Size), 10, 64)
	if err != nil || size < 0 {
		return 0
	}
	return size
}

// Expect lists what a finished review video must satisfy.
type Expect struct {
	// Audio requires at least one audio stream.
	Audio bool
	// PixelFormat, when set, must match the first video stream.
	PixelFormat string
}

// CheckDeliverable reports every way r falls short of want, joined by "; ".
// Odd frame dimensions are flagged because yuv420p H.264 cannot carry them.
func CheckDeliverable(r Result, want Expect) error {
	var problems []string
	video := r.streams("video")
	if len(video) == 0 {
		problems = append(problems, "no video stream")
	} else {
		v := video[0]
		if want.PixelFormat != "" && v.PixFmt != "" && v.PixFmt != want.PixelFormat {
			problems = append(problems, fmt.Sprintf("pixel format %s, expected %s", v.PixFmt, want.PixelFormat))
		}
		if v.Width%2 != 0 || v.Height%2 != 0 {
			problems = append(problems, fmt.Sprintf("odd frame size %dx%d", v.Width, v.Height))
		}
	}
	if want.Audio && r.AudioStreamCount() == 0 {
		problems = append(problems, "no audio stream")
	}
	if _, ok := r.Duration(); !ok {
		problems = append(problems, "duration unavailable")
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}
