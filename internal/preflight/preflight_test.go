package preflight

import (
	"os"
	"path/filepath"
	"testing"

	"dailies/internal/config"
	"dailies/internal/versionpath"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed || result.Detail == "" {
		t.Fatalf("expected failure with detail for missing dir, got %+v", result)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckCreatableDirectory(t *testing.T) {
	base := t.TempDir()
	result := CheckCreatableDirectory("output", filepath.Join(base, "output", "nested"))
	if !result.Passed {
		t.Fatalf("expected missing dir under writable parent to pass, got %s", result.Detail)
	}

	blocker := filepath.Join(base, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCreatableDirectory("output", blocker); result.Passed {
		t.Fatal("expected existing file to fail")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(font, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckReadableFile("font", font); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	if result := CheckReadableFile("font", filepath.Join(dir, "missing.ttf")); result.Passed {
		t.Fatal("expected failure for missing file")
	}
	if result := CheckReadableFile("font", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	if result := CheckReadableFile("font", ""); result.Passed || result.Detail != "not configured" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestRunAll(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "font.ttf")
	if err := os.WriteFile(font, []byte("ttf"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Paths.Typeface = font
	cfg.Paths.TypefaceSmall = ""
	cfg.Paths.LockDir = filepath.Join(dir, "locks")
	cfg.Paths.LogDir = ""

	results := RunAll(&cfg)
	if len(results) != 2 {
		t.Fatalf("expected typeface and lock checks, got %+v", results)
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("expected all checks to pass, got %+v", failed)
	}
}

func TestCheckVersion(t *testing.T) {
	root := t.TempDir()
	versionDir := filepath.Join(root, "seq10", "sh020", "v003")
	vp, err := versionpath.Resolve(versionDir)
	if err != nil {
		t.Fatal(err)
	}
	failed := Failed(CheckVersion(vp))
	if len(failed) != 1 || failed[0].Name != "Version directory" {
		t.Fatalf("expected missing version directory, got %+v", failed)
	}

	if err := os.MkdirAll(versionDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if failed := Failed(CheckVersion(vp)); len(failed) != 0 {
		t.Fatalf("expected checks to pass, got %+v", failed)
	}
}

func TestCheckSystemDepsUsesConfiguredBinaries(t *testing.T) {
	cfg := config.Default()
	cfg.Encoding.FFmpegBinary = "/nonexistent/ffmpeg"
	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 || statuses[0].Command != "/nonexistent/ffmpeg" || statuses[0].Available {
		t.Fatalf("unexpected statuses %+v", statuses)
	}
}
