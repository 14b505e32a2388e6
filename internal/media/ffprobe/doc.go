// Package ffprobe inspects finished deliverables.
//
// Prober runs ffprobe with JSON output and decodes streams and container
// metadata into Result. CheckDeliverable applies the post-run expectations:
// at least one video stream, a positive duration, and an audio stream when
// the reference audio was muxed.
package ffprobe
