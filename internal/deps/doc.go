// Package deps reports whether the external binaries dailies shells out to
// can be found.
package deps
