// Package main hosts the concord CLI entrypoint and command graph.
//
// The Cobra command tree loads configuration once, opens the workspace
// (corpus, annotation store, scheduler) for commands that need it, and
// renders results as tables, status lines, or JSON. Annotation, export,
// and validation logic lives in the internal packages; commands here only
// wire flags to those packages.
package main
