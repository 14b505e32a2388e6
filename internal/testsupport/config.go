package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/gobold"

	"dailies/internal/config"
)

// StubFFmpeg writes a placeholder to its last argument, the output path.
const StubFFmpeg = "#!/bin/sh\nfor last; do :; done\nprintf 'stub' > \"$last\"\nexit 0\n"

// StubFFprobe reports one video and one audio stream with a known duration.
const StubFFprobe = `#!/bin/sh
cat <<'EOF'
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264"},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"duration":"8.000000","size":"2048","format_name":"mov,mp4,m4a,3gp,3g2,mj2"}}
EOF
`

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp state directories per
// test. The slate typeface is Go Bold written to disk, and the layout fits the
// 320x180 template written by NewProject.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Typeface = WriteTypeface(t, filepath.Join(base, "fonts"))
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockDir = filepath.Join(base, "locks")
	cfgVal.Paths.HistoryDB = filepath.Join(base, "state", "history.db")
	cfgVal.Slate.FontSize = 20
	cfgVal.Slate.NotesFontSize = 12
	cfgVal.Slate.DatePosition = config.Point{X: 10, Y: 10}
	cfgVal.Slate.VersionPosition = config.Point{X: 10, Y: 40}
	cfgVal.Slate.NamePosition = config.Point{X: 10, Y: 70}
	cfgVal.Slate.NotesPosition = config.Point{X: 10, Y: 110}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithAudioPrompt toggles the interactive audio question.
func WithAudioPrompt(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Audio.Prompt = enabled
	}
}

// WithHistory toggles the run ledger.
func WithHistory(enabled bool) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.History.Enabled = enabled
	}
}

// WithStubbedBinaries writes ffmpeg and ffprobe stubs and points the encoding
// section at them.
func WithStubbedBinaries() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Encoding.FFmpegBinary = writeStub(b, "ffmpeg", StubFFmpeg)
		b.cfg.Encoding.FFprobeBinary = writeStub(b, "ffprobe", StubFFprobe)
	}
}

// WithFailingFFmpeg installs an ffmpeg stub that prints message on stderr and
// exits with status code.
func WithFailingFFmpeg(code int, message string) ConfigOption {
	return func(b *configBuilder) {
		script := fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit %d\n", message, code)
		b.cfg.Encoding.FFmpegBinary = writeStub(b, "ffmpeg", script)
	}
}

func writeStub(b *configBuilder, name, script string) string {
	binDir := filepath.Join(b.baseDir, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		b.t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(binDir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		b.t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

// WriteTypeface writes the Go Bold TrueType font into dir and returns its path.
func WriteTypeface(t testing.TB, dir string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "GoBold.ttf")
	if err := os.WriteFile(path, gobold.TTF, 0o644); err != nil {
		t.Fatalf("write typeface: %v", err)
	}
	return path
}

// WriteConfig encodes the sections the CLI reads back into a TOML file.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
typeface = %q
log_dir = %q
lock_dir = %q
history_db = %q

[slate]
font_size = %g
notes_font_size = %g
date_position = { x = %d, y = %d }
version_position = { x = %d, y = %d }
name_position = { x = %d, y = %d }
notes_position = { x = %d, y = %d }

[encoding]
ffmpeg_binary = %q
ffprobe_binary = %q

[audio]
prompt = %t

[history]
enabled = %t
`,
		cfg.Paths.Typeface, cfg.Paths.LogDir, cfg.Paths.LockDir, cfg.Paths.HistoryDB,
		cfg.Slate.FontSize, cfg.Slate.NotesFontSize,
		cfg.Slate.DatePosition.X, cfg.Slate.DatePosition.Y,
		cfg.Slate.VersionPosition.X, cfg.Slate.VersionPosition.Y,
		cfg.Slate.NamePosition.X, cfg.Slate.NamePosition.Y,
		cfg.Slate.NotesPosition.X, cfg.Slate.NotesPosition.Y,
		cfg.Encoding.FFmpegBinary, cfg.Encoding.FFprobeBinary,
		cfg.Audio.Prompt,
		cfg.History.Enabled,
	)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
