// Package logging assembles structured slog loggers and formatting helpers used
// across concord.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and exposes context helpers so request handlers can tag log lines with
// request IDs, splits, and item IDs. NewNop returns a logger for tests and
// wiring code that cannot fail.
package logging
