package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"dailies/internal/logging"
	"dailies/internal/services"
	"dailies/internal/slate"
	"dailies/internal/stage"
	"dailies/internal/stageexec"
	"dailies/internal/versionpath"
)

func TestRemoveArtifactsContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "0000.png")
	stuck := filepath.Join(dir, "not-empty")
	last := filepath.Join(dir, "template_intro_card.mp4")
	missing := filepath.Join(dir, "gone.mp4")
	for _, path := range []string{first, last} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.MkdirAll(filepath.Join(stuck, "child"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	result := RemoveArtifacts([]string{first, stuck, missing, last}, logging.NewNop())

	if diff := cmp.Diff([]string{first, missing, last}, result.Removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
	if len(result.Errors) != 1 || result.Errors[0].Path != stuck {
		t.Fatalf("expected one failure for %s, got %+v", stuck, result.Errors)
	}
	assertAbsent(t, last)
}

func TestCleanupStageAggregatesErrors(t *testing.T) {
	root := t.TempDir()
	versionDir := filepath.Join(root, "seq10", "sh020", "v003")
	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	vp, err := versionpath.Resolve(versionDir)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	pc := stage.NewContext(vp, slate.Spec{}, false)

	if err := os.WriteFile(vp.SlateFrame(), []byte("png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	blocked := vp.IntroCard()
	if err := os.MkdirAll(filepath.Join(blocked, "child"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(vp.OutputPath, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(vp.Deliverable(), []byte("mp4"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	pc.AddArtifact(vp.SlateFrame())
	pc.AddArtifact(blocked)
	pc.AddArtifact(vp.Deliverable())
	pc.Deliverable = vp.Deliverable()

	outcome, err := stageexec.Run(context.Background(), stageexec.Options{Logger: logging.NewNop(), Handler: NewCleanupStage(), Context: pc})
	if outcome.Status != stageexec.StatusWarning {
		t.Fatalf("expected cleanup outcome %q, got %q", stageexec.StatusWarning, outcome.Status)
	}
	if !errors.Is(err, services.ErrCleanup) {
		t.Fatalf("expected cleanup error, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("cleanup errors must not be fatal")
	}
	assertAbsent(t, vp.SlateFrame())
	assertExists(t, vp.Deliverable())
	if diff := cmp.Diff([]string{vp.SlateFrame()}, pc.Removed); diff != "" {
		t.Fatalf("removed mismatch (-want +got):\n%s", diff)
	}
}
