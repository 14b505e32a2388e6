package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"dailies/internal/pipeline"
	"dailies/internal/services"
	"dailies/internal/stageexec"
)

func TestRenderRunSummaryFailure(t *testing.T) {
	encodeErr := services.Wrap(services.ErrExternalTool, "sequence", "encode", "ffmpeg exited with status 1", nil)
	report := pipeline.Report{
		VideoName: "seq10_sh020_v003.mp4",
		Outcomes: []stageexec.Outcome{
			{Stage: "intro_card", Status: stageexec.StatusCompleted, Elapsed: 1500 * time.Millisecond},
			{Stage: "sequence", Status: stageexec.StatusFailed, Err: encodeErr},
		},
		Warnings: []error{services.Wrap(services.ErrCleanup, "cleanup", "", "1 of 2 intermediates not removed", errors.New("permission denied"))},
	}

	out := renderRunSummary(report, encodeErr)
	requireContains(t, out, "Video: seq10_sh020_v003.mp4")
	requireContains(t, out, "1.5s")
	requireContains(t, out, "sequence: encode: ffmpeg exited with status 1")
	requireContains(t, out, "Deliverable: none")
	requireContains(t, out, "  - cleanup: 1 of 2 intermediates not removed: permission denied")
	if strings.Contains(out, "Notes:") {
		t.Fatalf("notes line printed without a slate: %q", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("ééééé", 3); got != "éé…" {
		t.Fatalf("truncate = %q", got)
	}
}
