package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders records for a human reading a terminal or the log
// file. Info and above show a curated set of fields; debug shows every field.
type consoleHandler struct {
	mu        *sync.Mutex
	out       io.Writer
	level     *slog.LevelVar
	bound     []kv
	prefix    string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, out: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := slices.Clone(h.bound)
	record.Attrs(func(attr slog.Attr) bool {
		fields = appendFlattened(fields, h.prefix, attr)
		return true
	})

	entry := consoleEntry{
		ts:      record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
		fields:  dedupeKVsByKey(fields),
	}
	if entry.ts.IsZero() {
		entry.ts = time.Now()
	}
	if entry.message == "" {
		entry.message = "(no message)"
	}
	entry.hdr = readHeader(entry.fields)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			entry.source = filepath.Base(src.File) + ":" + strconv.Itoa(src.Line)
		}
	}

	var buf bytes.Buffer
	buf.Grow(256 + len(entry.fields)*32)
	entry.render(&buf, record.Level < slog.LevelInfo)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.bound = slices.Clone(h.bound)
	for _, attr := range attrs {
		clone.bound = appendFlattened(clone.bound, h.prefix, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = joinKey(h.prefix, name)
	return &clone
}

// header holds the values promoted into the first line of a console record.
type header struct {
	component string
	stage     string
	runID     string
}

func readHeader(fields []kv) header {
	var hdr header
	for _, f := range fields {
		switch f.key {
		case FieldComponent:
			hdr.component = attrString(f.value)
		case FieldStage:
			hdr.stage = strings.TrimSpace(attrString(f.value))
		case FieldRunID:
			hdr.runID = attrString(f.value)
		}
	}
	return hdr
}

// ShortRunID is the run id prefix printed on console lines and in history
// listings.
func ShortRunID(id string) string {
	const n = 8
	if len(id) > n {
		return id[:n]
	}
	return id
}

type consoleEntry struct {
	ts      time.Time
	level   slog.Level
	hdr     header
	message string
	source  string
	fields  []kv
}

// render writes the header line, then one indented line per field. verbose
// lists raw keys and every field except the component.
func (e consoleEntry) render(buf *bytes.Buffer, verbose bool) {
	e.writeHeader(buf)
	buf.WriteByte('\n')

	if verbose {
		for _, f := range e.fields {
			if f.key == FieldComponent {
				continue
			}
			buf.WriteString("    " + f.key + ": " + formatValue(f.value) + "\n")
		}
		return
	}

	shown, hidden := selectInfoFields(e.fields, infoAttrLimit)
	for _, f := range shown {
		buf.WriteString("    - " + f.label + ": " + f.value + "\n")
	}
	switch {
	case hidden == 1:
		buf.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		buf.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

// writeHeader produces "ts LEVEL #runid [component] stage – message [file:line]".
func (e consoleEntry) writeHeader(buf *bytes.Buffer) {
	buf.WriteString(formatTimestamp(e.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(e.level))
	if e.hdr.runID != "" {
		buf.WriteString(" #" + ShortRunID(e.hdr.runID))
	}
	if e.hdr.component != "" {
		buf.WriteString(" [" + e.hdr.component + "]")
	}
	if e.hdr.stage != "" {
		buf.WriteString(" " + e.hdr.stage)
	}
	buf.WriteString(" – " + e.message)
	if e.source != "" {
		buf.WriteString(" [" + e.source + "]")
	}
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with its last value.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	positions := make(map[string]int, len(attrs))
	deduped := make([]kv, 0, len(attrs))
	for _, attr := range attrs {
		if attr.key == "" {
			continue
		}
		if pos, ok := positions[attr.key]; ok {
			deduped[pos].value = attr.value
			continue
		}
		positions[attr.key] = len(deduped)
		deduped = append(deduped, attr)
	}
	return deduped
}

// appendFlattened resolves attr and appends it under prefix, expanding groups
// into dotted keys.
func appendFlattened(dst []kv, prefix string, attr slog.Attr) []kv {
	if attr.Equal(slog.Attr{}) {
		return dst
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner = joinKey(prefix, attr.Key)
		}
		for _, member := range value.Group() {
			dst = appendFlattened(dst, inner, member)
		}
		return dst
	}
	key := joinKey(prefix, attr.Key)
	if key == "" {
		return dst
	}
	return append(dst, kv{key: key, value: value})
}

func joinKey(prefix, key string) string {
	switch {
	case prefix == "":
		return key
	case key == "":
		return prefix
	default:
		return prefix + "." + key
	}
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
