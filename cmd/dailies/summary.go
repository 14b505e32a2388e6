package main

import (
	"fmt"
	"strings"
	"time"

	"dailies/internal/pipeline"
	"dailies/internal/services"
)

const maxDetailWidth = 72

func renderRunSummary(report pipeline.Report, runErr error) string {
	var b strings.Builder

	if report.VideoName != "" {
		fmt.Fprintf(&b, "Video: %s\n", report.VideoName)
	}
	if len(report.Outcomes) > 0 {
		rows := make([][]string, 0, len(report.Outcomes))
		for _, outcome := range report.Outcomes {
			detail := ""
			if outcome.Err != nil {
				detail = truncate(services.Details(outcome.Err).Message, maxDetailWidth)
			}
			rows = append(rows, []string{
				outcome.Stage,
				string(outcome.Status),
				outcome.Elapsed.Round(time.Millisecond).String(),
				detail,
			})
		}
		b.WriteString(renderTable([]column{col("Stage"), col("Status"), numCol("Elapsed"), col("Detail")}, rows))
		b.WriteString("\n")
	}

	if report.Slate.Path != "" {
		fmt.Fprintf(&b, "Notes: %d on slate", len(report.Slate.Spec.Notes()))
		if n := len(report.Slate.Rejected); n > 0 {
			fmt.Fprintf(&b, ", %d rejected as too long", n)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "Audio: %s\n", audioSummary(report))
	}
	if report.Deliverable != "" {
		fmt.Fprintf(&b, "Deliverable: %s\n", report.Deliverable)
	} else if runErr != nil {
		b.WriteString("Deliverable: none\n")
	}
	if n := len(report.Removed); n > 0 {
		fmt.Fprintf(&b, "Intermediates removed: %d\n", n)
	}
	if len(report.Warnings) > 0 {
		b.WriteString("Warnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "  - %s\n", services.Details(w).Message)
		}
	}
	return b.String()
}

func audioSummary(report pipeline.Report) string {
	switch {
	case report.AudioMuxed:
		return "muxed from " + report.AudioSource
	case report.AudioRequested:
		return "requested, not added"
	default:
		return "not requested"
	}
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value
	}
	return string(runes[:width-1]) + "…"
}
