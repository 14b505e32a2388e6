// Package ffmpeg describes and runs single ffmpeg invocations.
//
// A Job is a declarative description of one encode: its inputs, optional
// filter graph, stream maps, output options and output path. Stages build a
// Job with the helpers in plan.go and hand it to an Encoder; only Runner
// knows how to start a process.
//
// Key types:
//   - Job / Input: one invocation and its inputs
//   - Encoder: the contract stages depend on
//   - Runner: Encoder backed by an Executor (os/exec by default)
//   - EncodeError: non-zero exit with the command line and captured stderr
package ffmpeg
