package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains asset and state locations.
type Paths struct {
	Typeface      string `toml:"typeface"`
	TypefaceSmall string `toml:"typeface_small"`
	LogDir        string `toml:"log_dir"`
	LockDir       string `toml:"lock_dir"`
	HistoryDB     string `toml:"history_db"`
}

// Point is an x/y pixel anchor on the slate template.
type Point struct {
	X int `toml:"x"`
	Y int `toml:"y"`
}

// Slate contains cover slate layout and note collection limits.
type Slate struct {
	TemplateNames   []string `toml:"template_names"`
	FontSize        float64  `toml:"font_size"`
	NotesFontSize   float64  `toml:"notes_font_size"`
	TextColor       string   `toml:"text_color"`
	DatePosition    Point    `toml:"date_position"`
	VersionPosition Point    `toml:"version_position"`
	NamePosition    Point    `toml:"name_position"`
	NotesPosition   Point    `toml:"notes_position"`
	MaxNotes        int      `toml:"max_notes"`
	MaxNoteLength   int      `toml:"max_note_length"`
}

// Encoding contains the fixed ffmpeg parameters used by every stage.
type Encoding struct {
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary"`
	FrameRate        int    `toml:"frame_rate"`
	IntroSeconds     int    `toml:"intro_seconds"`
	VideoCodec       string `toml:"video_codec"`
	PixelFormat      string `toml:"pixel_format"`
	ConcatPreset     string `toml:"concat_preset"`
	ConcatCRF        int    `toml:"concat_crf"`
	BurnIn           bool   `toml:"burn_in"`
	BurnInFontSize   int    `toml:"burn_in_font_size"`
	BurnInFontColor  string `toml:"burn_in_font_color"`
	BurnInBoxColor   string `toml:"burn_in_box_color"`
	OverwriteOutputs bool   `toml:"overwrite_outputs"`
}

// Audio contains configuration for the optional reference audio mux.
type Audio struct {
	Prompt      bool   `toml:"prompt"`
	LeadDelayMS int    `toml:"lead_delay_ms"`
	Codec       string `toml:"codec"`
}

// Validation contains configuration for post-run deliverable checks.
type Validation struct {
	ProbeDeliverable bool `toml:"probe_deliverable"`
}

// History contains configuration for the run ledger.
type History struct {
	Enabled bool `toml:"enabled"`
	Limit   int  `toml:"limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for dailies.
//
// Configuration sections by subsystem:
//   - Paths: typefaces, log/lock directories, and the history database
//   - Slate: template discovery, text anchors, and note limits
//   - Encoding: ffmpeg binaries and fixed encode parameters
//   - Audio: reference audio prompt and lead delay
//   - Validation: ffprobe check of the final deliverable
//   - History: SQLite run ledger
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Slate      Slate      `toml:"slate"`
	Encoding   Encoding   `toml:"encoding"`
	Audio      Audio      `toml:"audio"`
	Validation Validation `toml:"validation"`
	History    History    `toml:"history"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/dailies/config.toml")
}

// EnvConfigPath names the environment variable that points at a config file
// when --config is not given.
const EnvConfigPath = "DAILIES_CONFIG"

// Load reads the configuration at path, or discovers one when path is empty,
// then normalizes and validates it. It returns the file it settled on and
// whether that file existed; a missing file yields the defaults. Unknown keys
// are rejected so a misspelled setting does not silently fall back.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file).DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return fmt.Errorf("parse config %s: unknown setting(s):\n%s", path, strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return fmt.Errorf("parse config %s:%d:%d: %w", path, row, col, err)
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath picks the config file. An explicit path or $DAILIES_CONFIG
// is used as given even when absent; otherwise the user config and then
// ./dailies.toml are tried, and the user config location is reported when
// neither exists.
func resolveConfigPath(path string) (string, bool, error) {
	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if explicit != "" {
		expanded, err := expandPath(explicit)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("dailies.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, projectPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("config path %s is a directory", path)
	}
	return true, nil
}

// EnsureDirectories creates the state directories used by the CLI.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.LogDir, c.Paths.LockDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) != "" {
		dir := filepath.Dir(c.Paths.HistoryDB)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory %q: %w", dir, err)
		}
	}
	return nil
}

// NotesTypeface returns the typeface used for the notes block, falling back
// to the main slate typeface.
func (c *Config) NotesTypeface() string {
	if small := strings.TrimSpace(c.Paths.TypefaceSmall); small != "" {
		return small
	}
	return c.Paths.Typeface
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "dailies")
	}
	return "~/.local/state/dailies"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
