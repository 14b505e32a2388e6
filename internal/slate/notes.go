package slate

import (
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// NoteSource supplies review notes one at a time. Returning an empty string or
// io.EOF ends collection.
type NoteSource interface {
	NextNote(attempt, limit int) (string, error)
}

// NoteRejecter is implemented by sources that want to tell the user a note was
// refused.
type NoteRejecter interface {
	NoteRejected(note string, maxLength int)
}

// NoteLimits bounds note collection.
type NoteLimits struct {
	MaxNotes  int
	MaxLength int
}

// Notes is the outcome of note collection.
type Notes struct {
	Accepted []string
	Rejected []string
}

// CollectNotes requests notes until MaxNotes attempts have been made or the
// source returns an empty note. An over-length note is rejected but still
// consumes an attempt.
func CollectNotes(src NoteSource, limits NoteLimits) (Notes, error) {
	var notes Notes
	if src == nil {
		return notes, nil
	}
	for attempt := 1; attempt <= limits.MaxNotes; attempt++ {
		raw, err := src.NextNote(attempt, limits.MaxNotes)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Notes{}, err
		}
		note := norm.NFC.String(strings.TrimSpace(raw))
		if note == "" {
			break
		}
		if utf8.RuneCountInString(note) > limits.MaxLength {
			notes.Rejected = append(notes.Rejected, note)
			if rejecter, ok := src.(NoteRejecter); ok {
				rejecter.NoteRejected(note, limits.MaxLength)
			}
			continue
		}
		notes.Accepted = append(notes.Accepted, note)
	}
	return notes, nil
}

// StaticNotes is a NoteSource backed by a fixed list, used for notes passed on
// the command line.
type StaticNotes []string

// NextNote implements NoteSource.
func (s StaticNotes) NextNote(attempt, _ int) (string, error) {
	if attempt < 1 || attempt > len(s) {
		return "", io.EOF
	}
	return s[attempt-1], nil
}
