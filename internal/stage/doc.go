// Package stage defines the contract between the orchestrator and the
// pipeline stages, and the per-run Context they share.
package stage
