package stage

import (
	"fmt"
	"os"

	"dailies/internal/services"
)

// RequireInput verifies that a precondition artifact exists before a stage
// spends time in the encoder.
func RequireInput(stageName, label, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageName, "check input",
			fmt.Sprintf("%s missing: %s", label, path), err)
	}
	if info.IsDir() {
		return services.Wrap(services.ErrValidation, stageName, "check input",
			fmt.Sprintf("%s is a directory: %s", label, path), nil)
	}
	return nil
}

// EnsureDir creates dir (and parents) for a stage output.
func EnsureDir(stageName, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrFilesystem, stageName, "create directory", dir, err)
	}
	return nil
}
