package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateSlate(); err != nil {
		return err
	}
	if err := c.validateEncoding(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Typeface) == "" {
		return errors.New("paths.typeface must be set")
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryDB) == "" {
		return errors.New("paths.history_db must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateSlate() error {
	if c.Slate.FontSize <= 0 {
		return errors.New("slate.font_size must be positive")
	}
	if c.Slate.NotesFontSize <= 0 {
		return errors.New("slate.notes_font_size must be positive")
	}
	if c.Slate.MaxNotes < 0 {
		return errors.New("slate.max_notes must be zero or positive")
	}
	if c.Slate.MaxNoteLength <= 0 {
		return errors.New("slate.max_note_length must be positive")
	}
	for _, name := range c.Slate.TemplateNames {
		if strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("slate.template_names: %q must be a bare file name", name)
		}
	}
	return nil
}

func (c *Config) validateEncoding() error {
	if c.Encoding.FrameRate <= 0 {
		return errors.New("encoding.frame_rate must be positive")
	}
	if c.Encoding.IntroSeconds <= 0 {
		return errors.New("encoding.intro_seconds must be positive")
	}
	if c.Encoding.ConcatCRF < 0 || c.Encoding.ConcatCRF > 51 {
		return errors.New("encoding.concat_crf must be between 0 and 51")
	}
	if c.Encoding.BurnIn && c.Encoding.BurnInFontSize <= 0 {
		return errors.New("encoding.burn_in_font_size must be positive when encoding.burn_in is true")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.LeadDelayMS < 0 {
		return errors.New("audio.lead_delay_ms must be zero or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
