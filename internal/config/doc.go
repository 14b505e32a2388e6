// Package config loads, normalizes, and validates dailies configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// pipeline and CLI need: typeface locations, slate layout, encoder parameters,
// the audio lead delay, and note limits. Nothing here is process-global; the
// loaded value is handed to the pipeline at construction time.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, canonical log formats, and clear validation errors.
package config
