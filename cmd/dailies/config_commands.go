package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"dailies/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the dailies configuration",
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if _, err := os.Stat(target); err == nil && !overwrite {
				return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("inspect %s: %w", target, err)
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set paths.typeface to a TrueType font on this machine, then run `dailies config validate`.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default ~/.config/dailies/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", raw, err)
	}
	return filepath.Clean(target), nil
}

// The validate command loads the file itself so parse errors are reported
// here rather than by the root pre-run hook.
func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Check the configuration and show the settings a run would use",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var flagPath string
			if ctx.configFlag != nil {
				flagPath = strings.TrimSpace(*ctx.configFlag)
			}
			cfg, resolved, exists, err := config.Load(flagPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("create state directories: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", resolved)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			writeSettings(out, cfg)
			if _, err := os.Stat(cfg.Paths.Typeface); err != nil {
				fmt.Fprintf(out, "Warning: typeface %s is not readable; runs will fail at the slate\n", cfg.Paths.Typeface)
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func writeSettings(out io.Writer, cfg *config.Config) {
	history := "disabled"
	if cfg.History.Enabled {
		history = cfg.Paths.HistoryDB
	}
	rows := [][]string{
		{"Typeface", cfg.Paths.Typeface},
		{"Log directory", cfg.Paths.LogDir},
		{"History", history},
		{"ffmpeg", cfg.Encoding.FFmpegBinary},
		{"Frame rate", strconv.Itoa(cfg.Encoding.FrameRate) + " fps"},
		{"Intro card", strconv.Itoa(cfg.Encoding.IntroSeconds) + "s"},
		{"Notes", fmt.Sprintf("up to %d, %d characters each", cfg.Slate.MaxNotes, cfg.Slate.MaxNoteLength)},
		{"Audio lead", strconv.Itoa(cfg.Audio.LeadDelayMS) + " ms"},
	}
	fmt.Fprintln(out, renderTable([]column{col("Setting"), col("Value")}, rows))
}
