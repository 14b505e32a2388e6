// Package main hosts the dailies CLI entrypoint and command graph.
//
// The root command takes a version directory and runs the whole review
// pipeline against it: slate, intro card, sequence encode, concat, optional
// reference audio, and cleanup. Subcommands cover configuration scaffolding,
// the run history ledger, and an environment doctor.
//
// Keep this package lean: behavior lives in the internal packages and is only
// surfaced here through flags, prompts, and summary tables.
package main
