// Package preflight provides readiness checks for the files and directories
// concord depends on.
//
// These checks run in two contexts:
//   - "concord preflight" prints every result.
//   - "concord serve" runs them before opening the workspace and refuses to
//     start when any check fails.
//
// Annotator file checks only run when annotators are configured.
package preflight
