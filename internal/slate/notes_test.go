package slate

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type scriptedNotes struct {
	lines    []string
	calls    int
	rejected []string
}

func (s *scriptedNotes) NextNote(attempt, limit int) (string, error) {
	s.calls++
	if attempt-1 >= len(s.lines) {
		return "", io.EOF
	}
	return s.lines[attempt-1], nil
}

func (s *scriptedNotes) NoteRejected(note string, _ int) {
	s.rejected = append(s.rejected, note)
}

var defaultLimits = NoteLimits{MaxNotes: 5, MaxLength: 40}

func TestCollectNotesStopsAtLimit(t *testing.T) {
	src := &scriptedNotes{lines: []string{"one", "two", "three", "four", "five", "six", "seven"}}
	notes, err := CollectNotes(src, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if diff := cmp.Diff([]string{"one", "two", "three", "four", "five"}, notes.Accepted); diff != "" {
		t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
	}
	if src.calls != 5 {
		t.Fatalf("expected 5 requests, got %d", src.calls)
	}
}

func TestCollectNotesOverLengthConsumesAttempt(t *testing.T) {
	long := strings.Repeat("x", 41)
	src := &scriptedNotes{lines: []string{"a", long, "b", "c", "d", "e"}}
	notes, err := CollectNotes(src, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c", "d"}, notes.Accepted); diff != "" {
		t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{long}, notes.Rejected); diff != "" {
		t.Fatalf("rejected mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{long}, src.rejected); diff != "" {
		t.Fatalf("rejecter was not told (-want +got):\n%s", diff)
	}
	if src.calls != 5 {
		t.Fatalf("expected 5 requests, got %d", src.calls)
	}
}

func TestCollectNotesEmptyLineTerminates(t *testing.T) {
	src := &scriptedNotes{lines: []string{"check comp", "   ", "never read"}}
	notes, err := CollectNotes(src, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if diff := cmp.Diff([]string{"check comp"}, notes.Accepted); diff != "" {
		t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
	}
	if src.calls != 2 {
		t.Fatalf("expected collection to stop after blank note, got %d requests", src.calls)
	}
}

func TestCollectNotesCountsCharactersNotBytes(t *testing.T) {
	accented := strings.Repeat("é", 40)
	src := &scriptedNotes{lines: []string{strings.Repeat("x", 40), accented}}
	notes, err := CollectNotes(src, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if len(notes.Accepted) != 2 || len(notes.Rejected) != 0 {
		t.Fatalf("expected both 40-character notes accepted, got %+v", notes)
	}
}

func TestCollectNotesPropagatesSourceErrors(t *testing.T) {
	boom := errors.New("terminal closed")
	_, err := CollectNotes(failingNotes{err: boom}, defaultLimits)
	if !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
}

type failingNotes struct{ err error }

func (f failingNotes) NextNote(int, int) (string, error) { return "", f.err }

func TestStaticNotes(t *testing.T) {
	notes, err := CollectNotes(StaticNotes{"fix BG", "check comp"}, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if diff := cmp.Diff([]string{"fix BG", "check comp"}, notes.Accepted); diff != "" {
		t.Fatalf("accepted mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectNotesNilSource(t *testing.T) {
	notes, err := CollectNotes(nil, defaultLimits)
	if err != nil {
		t.Fatalf("CollectNotes: %v", err)
	}
	if len(notes.Accepted) != 0 {
		t.Fatalf("expected no notes, got %v", notes.Accepted)
	}
}
