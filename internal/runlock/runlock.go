// Package runlock prevents two dailies runs from assembling the same version
// at once. The pipeline itself never locks; the CLI holds a Lock for the
// duration of a run.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"dailies/internal/services"
	"dailies/internal/versionpath"
)

// Lock is a held advisory lock for one version.
type Lock struct {
	path string
	fl   *flock.Flock
}

// PathFor returns the lock file for a version directory:
// {lockDir}/{sequence}_{shot}_{version}-{hash}.lock. The hash covers the
// absolute version directory, so same-named versions in other projects get
// their own lock.
func PathFor(lockDir string, vp versionpath.VersionPath) string {
	dir := vp.VersionDir
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	sum := sha256.Sum256([]byte(filepath.Clean(dir)))
	name := fmt.Sprintf("%s_%s_%s-%s.lock", vp.SequenceID, vp.ShotID, vp.VersionID, hex.EncodeToString(sum[:])[:12])
	return filepath.Join(lockDir, name)
}

// Acquire takes the lock without blocking. A lock held elsewhere is reported
// as services.ErrLocked.
func Acquire(lockDir string, vp versionpath.VersionPath) (*Lock, error) {
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "lock", "create lock directory", lockDir, err)
	}
	path := PathFor(lockDir, vp)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "lock", "acquire", path, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "lock", "acquire",
			"another dailies run is in progress for "+vp.VersionDir, nil)
	}
	return &Lock{path: path, fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks. The lock file is left in place for the next run.
func (l *Lock) Release() error {
	if l == nil || l.fl == nil {
		return nil
	}
	return l.fl.Unlock()
}
