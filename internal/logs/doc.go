// Package logs reads the dailies log file for the CLI.
//
// It prints the last N lines with bounded memory, can narrow output to a
// single run by its id, and follows the file for appended lines until the
// caller's context ends.
package logs
