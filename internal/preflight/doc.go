// Package preflight provides readiness checks for the filesystem paths and
// binaries dailies depends on.
//
// These checks run in two contexts:
//   - The CLI calls CheckVersion before a run so an unwritable version or
//     output directory fails before the slate is composited.
//   - "dailies doctor" calls RunAll and CheckSystemDeps to display overall health.
package preflight
