package ffmpeg

import (
	"errors"
	"strings"
)

// Input is one "-i" argument with the options that must precede it.
type Input struct {
	Path    string
	Options []string
}

// StillImage loops a single image as a video input.
func StillImage(path string) Input {
	return Input{Path: path, Options: []string{"-loop", "1"}}
}

// ImageSequence reads a numbered frame pattern starting at startNumber.
func ImageSequence(pattern string, frameRate, startNumber int) Input {
	return Input{Path: pattern, Options: []string{
		"-framerate", itoa(frameRate),
		"-start_number", itoa(startNumber),
	}}
}

// File reads an existing media file.
func File(path string) Input {
	return Input{Path: path}
}

// Job describes a single ffmpeg invocation.
type Job struct {
	// Label names the job in logs and errors, usually the stage name.
	Label         string
	Inputs        []Input
	FilterComplex string
	VideoFilter   string
	Maps          []string
	OutputOptions []string
	Output        string
	// Overwrite passes -y; otherwise -n makes ffmpeg refuse an existing output.
	Overwrite bool
}

// Validate reports structural problems that would make ffmpeg fail before encoding.
func (j Job) Validate() error {
	if len(j.Inputs) == 0 {
		return errors.New("job has no inputs")
	}
	for _, in := range j.Inputs {
		if strings.TrimSpace(in.Path) == "" {
			return errors.New("job has an empty input path")
		}
	}
	if strings.TrimSpace(j.Output) == "" {
		return errors.New("job has no output path")
	}
	return nil
}

// Args returns the argument list, excluding the binary name.
func (j Job) Args() []string {
	args := make([]string, 0, 24)
	args = append(args, "-hide_banner", "-nostdin", "-loglevel", "error")
	if j.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	for _, in := range j.Inputs {
		args = append(args, in.Options...)
		args = append(args, "-i", in.Path)
	}
	if j.FilterComplex != "" {
		args = append(args, "-filter_complex", j.FilterComplex)
	}
	if j.VideoFilter != "" {
		args = append(args, "-vf", j.VideoFilter)
	}
	for _, m := range j.Maps {
		args = append(args, "-map", m)
	}
	args = append(args, j.OutputOptions...)
	return append(args, j.Output)
}

// CommandLine renders binary and arguments as a copy-pasteable shell line.
func (j Job) CommandLine(binary string) string {
	parts := make([]string, 0, len(j.Args())+1)
	parts = append(parts, shellQuote(binary))
	for _, arg := range j.Args() {
		parts = append(parts, shellQuote(arg))
	}
	return strings.Join(parts, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!%") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
