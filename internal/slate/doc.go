// Package slate builds the cover frame of a dailies video.
//
// Notes are gathered from an injected NoteSource (never from stdin directly),
// then the date, version, shot name, and bullet-joined notes are drawn onto
// the project's slate template and saved as frame 0000 of the sequence.
// Missing templates or typefaces are reported as asset errors before any file
// is written.
package slate
