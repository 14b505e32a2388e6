// Package stageexec runs a single pipeline stage with consistent logging and
// classifies how it ended.
package stageexec
