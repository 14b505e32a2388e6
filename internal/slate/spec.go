package slate

import (
	"strings"
	"time"

	"dailies/internal/versionpath"
)

// DateLayout renders the slate date as YYYY-MM-DD.
const DateLayout = "2006-01-02"

// Spec is the text stamped onto the slate. It is immutable once built.
type Spec struct {
	Date    string
	Version string
	Name    string
	notes   []string
}

// NewSpec builds the slate text for a version.
func NewSpec(vp versionpath.VersionPath, notes []string, now time.Time) Spec {
	return Spec{
		Date:    now.Format(DateLayout),
		Version: vp.VersionID,
		Name:    vp.ShotName(),
		notes:   append([]string(nil), notes...),
	}
}

// Notes returns a copy of the accepted notes.
func (s Spec) Notes() []string {
	return append([]string(nil), s.notes...)
}

// NotesText joins the notes as a bullet list, one " - note" line each.
func (s Spec) NotesText() string {
	var b strings.Builder
	for _, note := range s.notes {
		b.WriteString(" - ")
		b.WriteString(note)
		b.WriteByte('\n')
	}
	return b.String()
}
