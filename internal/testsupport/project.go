package testsupport

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// TemplateName is the slate template NewProject writes under the project root.
const TemplateName = "dailies_template.png"

// Project is a {root}/{sequence}/{shot}/{version} tree under a temp directory.
type Project struct {
	Root       string
	Sequence   string
	Shot       string
	Version    string
	VersionDir string
}

// NewProject lays out a version directory holding frames 0001..N and writes
// a 320x180 white slate template at the project root.
func NewProject(t testing.TB, sequence, shot, version string, frames int) Project {
	t.Helper()

	root := t.TempDir()
	p := Project{
		Root:       root,
		Sequence:   sequence,
		Shot:       shot,
		Version:    version,
		VersionDir: filepath.Join(root, sequence, shot, version),
	}
	if err := os.MkdirAll(p.VersionDir, 0o755); err != nil {
		t.Fatalf("mkdir version dir: %v", err)
	}
	WriteFrames(t, p.VersionDir, 1, frames)
	WriteTemplate(t, filepath.Join(root, TemplateName), 320, 180)
	return p
}

// ShotDir is the directory holding the version directories.
func (p Project) ShotDir() string {
	return filepath.Dir(p.VersionDir)
}

// WriteAudio drops a placeholder {sequence}_{shot}_audio.wav into dir.
func (p Project) WriteAudio(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, fmt.Sprintf("%s_%s_audio.wav", p.Sequence, p.Shot))
	WriteFile(t, path, 44)
	return path
}

// WriteTemplate encodes a white PNG of the given size.
func WriteTemplate(t testing.TB, path string, width, height int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode template: %v", err)
	}
}
