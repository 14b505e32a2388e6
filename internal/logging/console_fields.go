package logging

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"time"
)

type infoField struct {
	label string
	value string
}

const infoAttrLimit = 8

// infoRank orders the fields shown at info level. Unranked keys follow in
// the order they were logged.
var infoRank = rankOf(
	FieldEventType,
	FieldArtifact,
	"deliverable",
	"video_name",
	"version_dir",
	"error_message",
	"error",
	FieldErrorHint,
	FieldImpact,
	"stage_duration",
	"notes_accepted",
	"notes_rejected",
	"audio_requested",
	"audio_path",
	"removed",
)

var infoLabels = map[string]string{
	FieldEventType:   "Event",
	FieldErrorHint:   "Hint",
	"stage_duration": "Duration",
	"version_dir":    "Version",
}

func rankOf(keys ...string) map[string]int {
	ranks := make(map[string]int, len(keys))
	for i, key := range keys {
		ranks[key] = i
	}
	return ranks
}

// selectInfoFields returns the fields to print at info level and how many
// were left out. limit=0 means no limit.
func selectInfoFields(attrs []kv, limit int) ([]infoField, int) {
	type candidate struct {
		rank, pos int
		attr      kv
	}
	candidates := make([]candidate, 0, len(attrs))
	hidden := 0
	for pos, attr := range attrs {
		switch {
		case attr.key == "" || attr.key == FieldStage || attr.key == FieldComponent:
		case isDebugOnlyKey(attr.key):
			hidden++
		default:
			rank, ok := infoRank[attr.key]
			if !ok {
				rank = len(infoRank)
			}
			candidates = append(candidates, candidate{rank: rank, pos: pos, attr: attr})
		}
	}
	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return cmp.Or(cmp.Compare(a.rank, b.rank), cmp.Compare(a.pos, b.pos))
	})
	if limit > 0 && len(candidates) > limit {
		hidden += len(candidates) - limit
		candidates = candidates[:limit]
	}
	if len(candidates) == 0 {
		return nil, hidden
	}
	fields := make([]infoField, len(candidates))
	for i, c := range candidates {
		fields[i] = infoField{label: displayLabel(c.attr.key), value: formatValueForKey(c.attr.key, c.attr.value)}
	}
	return fields, hidden
}

func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindDuration:
		return v.Duration().Round(10 * time.Millisecond).String()
	case slog.KindBool:
		return yesNo(v.Bool())
	}
	value := formatValue(v)
	if key == "error" || key == "error_message" {
		const maxLen = 200
		if len(value) > maxLen {
			value = value[:maxLen] + "…"
		}
	}
	return value
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func isDebugOnlyKey(key string) bool {
	switch key {
	case FieldRunID, FieldCommand, "stderr", "args":
		return true
	}
	return strings.HasSuffix(key, "_id")
}

// displayLabel turns snake_case or kebab-case keys into "Title Case" labels.
func displayLabel(key string) string {
	if label, ok := infoLabels[key]; ok {
		return label
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' })
	for i, w := range words {
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
