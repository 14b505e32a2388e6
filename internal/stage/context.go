package stage

import (
	"slices"

	"dailies/internal/slate"
	"dailies/internal/versionpath"
)

// Context is the state shared by the stages of one run. It is owned by the
// orchestrator; stages receive it by reference.
type Context struct {
	Version        versionpath.VersionPath
	Slate          slate.Spec
	AudioRequested bool
	// VideoName is computed once from the version identity.
	VideoName string
	// Deliverable is the current final video. ConcatStage sets it and a
	// successful audio mux replaces it.
	Deliverable string
	AudioMuxed  bool
	AudioSource string
	// Removed lists the intermediates deleted by cleanup.
	Removed []string

	artifacts []string
}

// NewContext builds the context for a resolved version.
func NewContext(vp versionpath.VersionPath, spec slate.Spec, audioRequested bool) *Context {
	return &Context{
		Version:        vp,
		Slate:          spec,
		AudioRequested: audioRequested,
		VideoName:      vp.VideoName(),
	}
}

// AddArtifact records a file produced by this run. Duplicates are ignored.
func (c *Context) AddArtifact(path string) {
	if path == "" || slices.Contains(c.artifacts, path) {
		return
	}
	c.artifacts = append(c.artifacts, path)
}

// Artifacts returns the files produced so far in creation order.
func (c *Context) Artifacts() []string {
	return slices.Clone(c.artifacts)
}

// Intermediates returns every produced file except the current deliverable.
func (c *Context) Intermediates() []string {
	out := make([]string, 0, len(c.artifacts))
	for _, path := range c.artifacts {
		if path != c.Deliverable {
			out = append(out, path)
		}
	}
	return out
}
