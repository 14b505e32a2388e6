// Package testsupport builds throwaway project trees and configurations for
// tests: a sequence/shot/version layout with rendered frames and a slate
// template, a config whose state lives in temp directories, and shell stubs
// standing in for ffmpeg and ffprobe.
package testsupport
