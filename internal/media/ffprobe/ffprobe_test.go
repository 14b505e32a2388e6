package ffprobe

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

const deliverableJSON = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080, "pix_fmt": "yuv420p", "avg_frame_rate": "24/1"},
    {"index": 1, "codec_name": "aac", "codec_type": "audio", "sample_rate": "48000", "channels": 2}
  ],
  "format": {"filename": "seq10_sh020_v003_audio.mp4", "nb_streams": 2, "duration": "8.750000", "size": "2048", "format_name": "mov,mp4,m4a,3gp,3g2,mj2"}
}`

func TestInspectParsesOutput(t *testing.T) {
	var gotArgs []string
	prober := NewProber("").WithCommandRunner(func(_ context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		gotArgs = args
		return []byte(deliverableJSON), nil
	})

	result, err := prober.Inspect(context.Background(), "/proj/output/seq10_sh020_v003_audio.mp4")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	want := []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", "/proj/output/seq10_sh020_v003_audio.mp4"}
	if diff := cmp.Diff(want, gotArgs); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
	if result.VideoStreamCount() != 1 || result.AudioStreamCount() != 1 {
		t.Fatalf("unexpected stream counts: %+v", result.Streams)
	}
	if d, ok := result.Duration(); !ok || d != 8750*time.Millisecond {
		t.Fatalf("unexpected duration %v %v", d, ok)
	}
	if result.SizeBytes() != 2048 {
		t.Fatalf("unexpected size %d", result.SizeBytes())
	}
	if err := CheckDeliverable(result, Expect{Audio: true, PixelFormat: "yuv420p"}); err != nil {
		t.Fatalf("CheckDeliverable: %v", err)
	}
}

func TestInspectWrapsFailures(t *testing.T) {
	prober := NewProber("ffprobe").WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("moov atom not found")
	})
	_, err := prober.Inspect(context.Background(), "/tmp/broken.mp4")
	if err == nil || !strings.Contains(err.Error(), "moov atom not found") {
		t.Fatalf("expected runner error, got %v", err)
	}

	garbled := NewProber("ffprobe").WithCommandRunner(func(context.Context, string, ...string) ([]byte, error) {
		return []byte("{not json"), nil
	})
	if _, err := garbled.Inspect(context.Background(), "/tmp/out.mp4"); err == nil || !strings.Contains(err.Error(), "decode ffprobe output") {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := NewProber("").Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestCheckDeliverable(t *testing.T) {
	videoOnly := Result{
		Streams: []Stream{{CodecType: "video", Width: 320, Height: 180, PixFmt: "yuv420p"}},
		Format:  Format{Duration: "8.0"},
	}
	tests := []struct {
		name   string
		result Result
		want   Expect
		err    string
	}{
		{name: "video only", result: videoOnly, want: Expect{PixelFormat: "yuv420p"}},
		{name: "missing audio", result: videoOnly, want: Expect{Audio: true}, err: "no audio stream"},
		{name: "empty", result: Result{Format: Format{Duration: "bad"}}, err: "no video stream; duration unavailable"},
		{
			name: "wrong pixel format and odd size",
			result: Result{
				Streams: []Stream{{CodecType: "video", Width: 321, Height: 180, PixFmt: "yuv444p"}},
				Format:  Format{Duration: "8.0"},
			},
			want: Expect{PixelFormat: "yuv420p"},
			err:  "pixel format yuv444p, expected yuv420p; odd frame size 321x180",
		},
		{name: "zero duration", result: Result{Streams: videoOnly.Streams, Format: Format{Duration: "0.000"}}, err: "duration unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckDeliverable(tt.result, tt.want)
			got := ""
			if err != nil {
				got = err.Error()
			}
			if got != tt.err {
				t.Fatalf("CheckDeliverable() = %q, want %q", got, tt.err)
			}
		})
	}
}

func TestSizeBytesIgnoresInvalidValues(t *testing.T) {
	for _, size := range []string{"", "-1", "abc"} {
		if got := (Result{Format: Format{Size: size}}).SizeBytes(); got != 0 {
			t.Fatalf("SizeBytes(%q) = %d, want 0", size, got)
		}
	}
}
