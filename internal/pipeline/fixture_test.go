package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dailies/internal/media/ffmpeg"
	"dailies/internal/media/ffprobe"
	"dailies/internal/slate"
	"dailies/internal/testsupport"
	"dailies/internal/versionpath"
)

// fakeEncoder writes a placeholder file for every job instead of running ffmpeg.
type fakeEncoder struct {
	jobs   []ffmpeg.Job
	failOn map[string]error
}

func (f *fakeEncoder) Run(_ context.Context, job ffmpeg.Job) (string, error) {
	f.jobs = append(f.jobs, job)
	if err, ok := f.failOn[job.Label]; ok {
		return "", err
	}
	if err := os.WriteFile(job.Output, []byte(job.Label), 0o644); err != nil {
		return "", err
	}
	return job.Output, nil
}

func (f *fakeEncoder) labels() []string {
	out := make([]string, 0, len(f.jobs))
	for _, job := range f.jobs {
		out = append(out, job.Label)
	}
	return out
}

type fakeProber struct {
	result ffprobe.Result
	err    error
	paths  []string
}

func (f *fakeProber) Inspect(_ context.Context, path string) (ffprobe.Result, error) {
	f.paths = append(f.paths, path)
	return f.result, f.err
}

type project struct {
	root string
	vp   versionpath.VersionPath
	opts Options
}

// newProject lays out {root}/seq10/sh020/v003 with three rendered frames,
// a slate template and a typeface.
func newProject(t *testing.T) project {
	t.Helper()
	layout := testsupport.NewProject(t, "seq10", "sh020", "v003", 3)
	root, versionDir := layout.Root, layout.VersionDir
	typeface := testsupport.WriteTypeface(t, root)

	vp, err := versionpath.Resolve(versionDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return project{
		root: root,
		vp:   vp,
		opts: Options{
			Slate: slate.Options{
				TemplateNames:   []string{"dailies_template.png", "dailies_template.jpg"},
				Typeface:        typeface,
				NotesTypeface:   typeface,
				FontSize:        20,
				NotesFontSize:   12,
				TextColor:       "black",
				DatePosition:    image.Pt(10, 10),
				VersionPosition: image.Pt(10, 40),
				NamePosition:    image.Pt(10, 70),
				NotesPosition:   image.Pt(10, 110),
				Limits:          slate.NoteLimits{MaxNotes: 5, MaxLength: 40},
			},
			Encode: ffmpeg.Settings{
				FrameRate:    24,
				IntroLength:  5 * time.Second,
				VideoCodec:   "libx264",
				PixelFormat:  "yuv420p",
				ConcatPreset: "slow",
				ConcatCRF:    18,
				AudioDelay:   5 * time.Second,
				AudioCodec:   "aac",
				Overwrite:    true,
			},
		},
	}
}

func (p project) writeAudio(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, p.vp.AudioName())
	if err := os.WriteFile(path, []byte("RIFF"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 18, 18, 0, 0, 0, time.UTC)
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func assertAbsent(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected %s to be absent, stat err %v", path, err)
	}
}
