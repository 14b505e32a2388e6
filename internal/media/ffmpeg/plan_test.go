package ffmpeg

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"dailies/internal/config"
)

func testSettings() Settings {
	return Settings{
		FrameRate:    24,
		IntroLength:  5 * time.Second,
		VideoCodec:   "libx264",
		PixelFormat:  "yuv420p",
		ConcatPreset: "slow",
		ConcatCRF:    18,
		AudioDelay:   5 * time.Second,
		AudioCodec:   "aac",
		Overwrite:    true,
	}
}

func TestIntroCardJobArgs(t *testing.T) {
	job := IntroCardJob(testSettings(), "/proj/seq10/sh020/v003/0000.png", "/proj/seq10/sh020/v003/template_intro_card.mp4")
	want := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-loop", "1", "-i", "/proj/seq10/sh020/v003/0000.png",
		"-c:v", "libx264", "-t", "5", "-pix_fmt", "yuv420p", "-r", "24",
		"/proj/seq10/sh020/v003/template_intro_card.mp4",
	}
	if diff := cmp.Diff(want, job.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceJobArgsWithoutBurnIn(t *testing.T) {
	job := SequenceJob(testSettings(), "/v/%04d.png", "/v/seq10_sh020_v003.mp4")
	want := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-framerate", "24", "-start_number", "0", "-i", "/v/%04d.png",
		"-c:v", "libx264", "-pix_fmt", "yuv420p", "-r", "24",
		"/v/seq10_sh020_v003.mp4",
	}
	if diff := cmp.Diff(want, job.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSequenceJobBurnIn(t *testing.T) {
	s := testSettings()
	s.BurnIn = &BurnIn{FontFile: "/fonts/Open Sans.ttf", FontSize: 28, FontColor: "white", BoxColor: "black@0.5"}
	job := SequenceJob(s, "/v/%04d.png", "/v/seq10_sh020_v003.mp4")

	overlays := strings.Split(job.VideoFilter, ",drawtext=")
	if len(overlays) != 3 {
		t.Fatalf("expected three drawtext overlays, got %q", job.VideoFilter)
	}
	if !strings.Contains(overlays[0], "text=seq10_sh020_v003.mp4:x=20:y=20") {
		t.Fatalf("expected file name overlay, got %q", overlays[0])
	}
	if !strings.Contains(overlays[1], `text='%{pts\:hms}'`) {
		t.Fatalf("expected timecode overlay, got %q", overlays[1])
	}
	if !strings.Contains(overlays[2], "text='%{n}':x=w-tw-20") {
		t.Fatalf("expected frame number overlay, got %q", overlays[2])
	}
	if !strings.Contains(job.VideoFilter, "fontfile=/fonts/Open Sans.ttf:fontsize=28:fontcolor=white:box=1:boxcolor=black@0.5") {
		t.Fatalf("expected font options, got %q", job.VideoFilter)
	}
	args := job.Args()
	if idx := indexOf(args, "-vf"); idx < 0 || args[idx+1] != job.VideoFilter {
		t.Fatalf("expected -vf in args, got %v", args)
	}
}

func TestConcatJobArgs(t *testing.T) {
	s := testSettings()
	s.Overwrite = false
	job := ConcatJob(s, "/v/template_intro_card.mp4", "/v/seq10_sh020_v003.mp4", "/proj/output/seq10_sh020_v003.mp4")
	want := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-n",
		"-i", "/v/template_intro_card.mp4",
		"-i", "/v/seq10_sh020_v003.mp4",
		"-filter_complex", "[0:v][1:v]concat=n=2:v=1:a=0[outv]",
		"-map", "[outv]",
		"-c:v", "libx264", "-preset", "slow", "-crf", "18", "-pix_fmt", "yuv420p",
		"/proj/output/seq10_sh020_v003.mp4",
	}
	if diff := cmp.Diff(want, job.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestAudioMuxJobArgs(t *testing.T) {
	job := AudioMuxJob(testSettings(), "/proj/output/a.mp4", "/proj/seq10/sh020/seq10_sh020_audio.wav", "/proj/output/a_audio.mp4")
	want := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", "/proj/output/a.mp4",
		"-i", "/proj/seq10/sh020/seq10_sh020_audio.wav",
		"-filter_complex", "[1:a]adelay=delays=5000:all=1[aud]",
		"-map", "0:v", "-map", "[aud]",
		"-c:v", "copy", "-c:a", "aac", "-shortest",
		"/proj/output/a_audio.mp4",
	}
	if diff := cmp.Diff(want, job.Args()); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.Default()
	s := SettingsFromConfig(&cfg)
	if s.IntroLength != 5*time.Second || s.AudioDelay != 5*time.Second {
		t.Fatalf("unexpected timings: intro=%s delay=%s", s.IntroLength, s.AudioDelay)
	}
	if s.FrameRate != 24 || s.ConcatCRF != 18 || s.ConcatPreset != "slow" {
		t.Fatalf("unexpected encode settings: %+v", s)
	}
	if s.BurnIn == nil {
		t.Fatal("expected burn-in enabled by default")
	}

	cfg.Encoding.BurnIn = false
	if SettingsFromConfig(&cfg).BurnIn != nil {
		t.Fatal("expected burn-in disabled")
	}
}

func TestEscapeText(t *testing.T) {
	got := escapeText(`it's 50%: a,b`)
	want := `it\'s 50\%\: a\,b`
	if got != want {
		t.Fatalf("escapeText = %q, want %q", got, want)
	}
}

func TestCommandLineQuotes(t *testing.T) {
	job := Job{Inputs: []Input{File("/tmp/my clip.mp4")}, Output: "/tmp/out.mp4", Overwrite: true}
	got := job.CommandLine("ffmpeg")
	want := "ffmpeg -hide_banner -nostdin -loglevel error -y -i '/tmp/my clip.mp4' /tmp/out.mp4"
	if got != want {
		t.Fatalf("CommandLine = %q, want %q", got, want)
	}
}

func indexOf(values []string, target string) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
