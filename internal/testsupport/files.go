package testsupport

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and any missing parents, holding size bytes. A
// size <= 0 writes a single byte so the file is never empty.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0x42}, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteFrames writes placeholder frames first..last named like the renderer
// does (0001.png, 0002.png, ...) and returns their paths.
func WriteFrames(t testing.TB, dir string, first, last int) []string {
	t.Helper()

	paths := make([]string, 0, max(last-first+1, 0))
	for i := first; i <= last; i++ {
		path := filepath.Join(dir, fmt.Sprintf("%04d.png", i))
		WriteFile(t, path, 16)
		paths = append(paths, path)
	}
	return paths
}
