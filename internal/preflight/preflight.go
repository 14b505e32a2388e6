package preflight

import (
	"dailies/internal/config"
	"dailies/internal/versionpath"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the configuration-level checks: typefaces and state directories.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{CheckReadableFile("Slate typeface", cfg.Paths.Typeface)}
	if small := cfg.NotesTypeface(); small != cfg.Paths.Typeface {
		results = append(results, CheckReadableFile("Notes typeface", small))
	}
	if cfg.Paths.LockDir != "" {
		results = append(results, CheckCreatableDirectory("Lock directory", cfg.Paths.LockDir))
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckCreatableDirectory("Log directory", cfg.Paths.LogDir))
	}
	return results
}

// CheckVersion verifies that the version directory can hold intermediates and
// that the output directory can be written.
func CheckVersion(vp versionpath.VersionPath) []Result {
	return []Result{
		CheckDirectoryAccess("Version directory", vp.VersionDir),
		CheckCreatableDirectory("Output directory", vp.OutputPath),
	}
}

// Failed returns the checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
