// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs and stage names for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the dailies taxonomy (path, asset, encode, audio, cleanup) and the
//     process exit status derived from it.
//
// Use these helpers when wiring new stage logic so error reporting stays
// uniform across the pipeline.
package services
