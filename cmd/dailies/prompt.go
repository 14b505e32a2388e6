package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"dailies/internal/pipeline"
	"dailies/internal/slate"
)

// linePrompter reads notes and answers from a line-oriented reader. When
// interactive is false the prompt text is suppressed so piped input stays
// quiet.
type linePrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

var (
	_ slate.NoteSource       = (*linePrompter)(nil)
	_ slate.NoteRejecter     = (*linePrompter)(nil)
	_ pipeline.ConfirmSource = (*linePrompter)(nil)
)

func newLinePrompter(in io.Reader, out io.Writer, interactive bool) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

func (p *linePrompter) NextNote(attempt, limit int) (string, error) {
	if p.interactive {
		if attempt == 1 {
			fmt.Fprintf(p.out, "Enter up to %d review notes, one per line. Leave a line blank to finish.\n", limit)
		}
		fmt.Fprintf(p.out, "Note %d/%d: ", attempt, limit)
	}
	return p.readLine()
}

func (p *linePrompter) NoteRejected(note string, maxLength int) {
	fmt.Fprintf(p.out, "Note is %d characters, over the %d character limit; it was not added.\n",
		utf8.RuneCountInString(note), maxLength)
}

// Confirm asks question until it gets y or n, case-insensitive. End of input
// before an answer is an error.
func (p *linePrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprintf(p.out, "%s [y/n]: ", question)
		line, err := p.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return false, fmt.Errorf("no answer to %q: %w", question, io.ErrUnexpectedEOF)
			}
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}

func (p *linePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
