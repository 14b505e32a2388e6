package config

import "path/filepath"

const (
	defaultTypeface        = "/usr/share/fonts/open-sans/OpenSans-Bold.ttf"
	defaultFontSize        = 120
	defaultNotesFontSize   = 60
	defaultTextColor       = "black"
	defaultMaxNotes        = 5
	defaultMaxNoteLength   = 40
	defaultFFmpegBinary    = "ffmpeg"
	defaultFFprobeBinary   = "ffprobe"
	defaultFrameRate       = 24
	defaultIntroSeconds    = 5
	defaultVideoCodec      = "libx264"
	defaultPixelFormat     = "yuv420p"
	defaultConcatPreset    = "slow"
	defaultConcatCRF       = 18
	defaultBurnInFontSize  = 28
	defaultBurnInFontColor = "white"
	defaultBurnInBoxColor  = "black@0.5"
	defaultAudioLeadMS     = 5000
	defaultAudioCodec      = "aac"
	defaultHistoryLimit    = 20
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

var defaultTemplateNames = []string{
	"dailies_template.png",
	"dailies_template.jpg",
	"dailies_template.jpeg",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	state := defaultStateDir()
	return Config{
		Paths: Paths{
			Typeface:  defaultTypeface,
			LogDir:    filepath.Join(state, "logs"),
			LockDir:   filepath.Join(state, "locks"),
			HistoryDB: filepath.Join(state, "history.db"),
		},
		Slate: Slate{
			TemplateNames:   append([]string(nil), defaultTemplateNames...),
			FontSize:        defaultFontSize,
			NotesFontSize:   defaultNotesFontSize,
			TextColor:       defaultTextColor,
			DatePosition:    Point{X: 225, Y: 75},
			VersionPosition: Point{X: 225, Y: 245},
			NamePosition:    Point{X: 225, Y: 415},
			NotesPosition:   Point{X: 225, Y: 640},
			MaxNotes:        defaultMaxNotes,
			MaxNoteLength:   defaultMaxNoteLength,
		},
		Encoding: Encoding{
			FFmpegBinary:     defaultFFmpegBinary,
			FFprobeBinary:    defaultFFprobeBinary,
			FrameRate:        defaultFrameRate,
			IntroSeconds:     defaultIntroSeconds,
			VideoCodec:       defaultVideoCodec,
			PixelFormat:      defaultPixelFormat,
			ConcatPreset:     defaultConcatPreset,
			ConcatCRF:        defaultConcatCRF,
			BurnIn:           true,
			BurnInFontSize:   defaultBurnInFontSize,
			BurnInFontColor:  defaultBurnInFontColor,
			BurnInBoxColor:   defaultBurnInBoxColor,
			OverwriteOutputs: true,
		},
		Audio: Audio{
			Prompt:      true,
			LeadDelayMS: defaultAudioLeadMS,
			Codec:       defaultAudioCodec,
		},
		Validation: Validation{
			ProbeDeliverable: true,
		},
		History: History{
			Enabled: true,
			Limit:   defaultHistoryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
