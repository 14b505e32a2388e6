package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"dailies/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv(config.EnvConfigPath, "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogs := filepath.Join(tempHome, ".local", "state", "dailies", "logs")
	if cfg.Paths.LogDir != wantLogs {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogs)
	}
	if cfg.Paths.HistoryDB != filepath.Join(tempHome, ".local", "state", "dailies", "history.db") {
		t.Fatalf("unexpected history db: %q", cfg.Paths.HistoryDB)
	}
	if cfg.Encoding.FrameRate != 24 {
		t.Fatalf("expected 24 fps default, got %d", cfg.Encoding.FrameRate)
	}
	if cfg.Encoding.IntroSeconds != 5 {
		t.Fatalf("expected 5 second intro card, got %d", cfg.Encoding.IntroSeconds)
	}
	if cfg.Audio.LeadDelayMS != 5000 {
		t.Fatalf("expected 5000ms audio lead, got %d", cfg.Audio.LeadDelayMS)
	}
	if cfg.Slate.MaxNotes != 5 || cfg.Slate.MaxNoteLength != 40 {
		t.Fatalf("unexpected note limits: %d/%d", cfg.Slate.MaxNotes, cfg.Slate.MaxNoteLength)
	}
	if cfg.NotesTypeface() != cfg.Paths.Typeface {
		t.Fatalf("expected notes typeface to fall back to main typeface, got %q", cfg.NotesTypeface())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.LockDir, filepath.Dir(cfg.Paths.HistoryDB)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "dailies.toml")

	type payload struct {
		Paths struct {
			Typeface      string `toml:"typeface"`
			TypefaceSmall string `toml:"typeface_small"`
		} `toml:"paths"`
		Encoding struct {
			FrameRate int  `toml:"frame_rate"`
			BurnIn    bool `toml:"burn_in"`
		} `toml:"encoding"`
		Slate struct {
			TemplateNames []string `toml:"template_names"`
		} `toml:"slate"`
	}
	custom := payload{}
	custom.Paths.Typeface = filepath.Join(tempDir, "fonts", "Bold.ttf")
	custom.Paths.TypefaceSmall = filepath.Join(tempDir, "fonts", "Regular.ttf")
	custom.Encoding.FrameRate = 25
	custom.Encoding.BurnIn = false
	custom.Slate.TemplateNames = []string{"  slate.png ", ""}

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Encoding.FrameRate != 25 {
		t.Fatalf("unexpected frame rate: %d", cfg.Encoding.FrameRate)
	}
	if cfg.Encoding.BurnIn {
		t.Fatal("expected burn-in disabled")
	}
	if cfg.NotesTypeface() != custom.Paths.TypefaceSmall {
		t.Fatalf("unexpected notes typeface: %q", cfg.NotesTypeface())
	}
	if len(cfg.Slate.TemplateNames) != 1 || cfg.Slate.TemplateNames[0] != "slate.png" {
		t.Fatalf("expected trimmed template names, got %v", cfg.Slate.TemplateNames)
	}
	if cfg.Audio.LeadDelayMS != 5000 {
		t.Fatalf("expected default audio lead to survive partial config, got %d", cfg.Audio.LeadDelayMS)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "frame rate", body: "[encoding]\nframe_rate = 0\n", wantErr: "encoding.frame_rate"},
		{name: "crf", body: "[encoding]\nconcat_crf = 60\n", wantErr: "encoding.concat_crf"},
		{name: "note length", body: "[slate]\nmax_note_length = 0\n", wantErr: "slate.max_note_length"},
		{name: "template path", body: "[slate]\ntemplate_names = [\"a/b.png\"]\n", wantErr: "bare file name"},
		{name: "log format", body: "[logging]\nformat = \"xml\"\n", wantErr: "logging.format"},
		{name: "audio lead", body: "[audio]\nlead_delay_ms = -1\n", wantErr: "audio.lead_delay_ms"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "dailies.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	want := config.Default()
	if cfg.Slate.NotesPosition != want.Slate.NotesPosition {
		t.Fatalf("sample notes position %v differs from default %v", cfg.Slate.NotesPosition, want.Slate.NotesPosition)
	}
	if cfg.Encoding.ConcatCRF != want.Encoding.ConcatCRF {
		t.Fatalf("sample crf %d differs from default %d", cfg.Encoding.ConcatCRF, want.Encoding.ConcatCRF)
	}
}

func TestLoadRejectsUnknownSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dailies.toml")
	body := "[slate]\nnotes_postion = { x = 1, y = 2 }\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "notes_postion") {
		t.Fatalf("expected unknown key in error, got %v", err)
	}
}

func TestLoadHonorsEnvironmentPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.toml")
	if err := os.WriteFile(path, []byte("[encoding]\nframe_rate = 25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(config.EnvConfigPath, path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if resolved != path || !exists {
		t.Fatalf("expected %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if cfg.Encoding.FrameRate != 25 {
		t.Fatalf("expected frame rate from env config, got %d", cfg.Encoding.FrameRate)
	}
}
