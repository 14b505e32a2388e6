// Package versionpath derives the identity of a review version from the path
// of its version directory.
//
// A version directory sits at {root}/{sequence}/{shot}/{version}; the last
// three path segments name the sequence, shot, and version, and everything
// before them is the project root that holds the slate template and the
// output directory. Resolution is a pure function of the path string.
package versionpath
