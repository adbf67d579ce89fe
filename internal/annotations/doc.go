// Package annotations owns the mutable item-to-label mapping.
//
// A Store holds exactly one Record per corpus item, created unlabeled, and
// persists the complete mapping through a Backend after every accepted
// submission. Two backends exist: a TSV file (header "datapoint_id\tscore",
// rewritten atomically) and a SQLite database with embedded migrations.
//
// Writers hold an exclusive lock file beside the backend for the lifetime of
// the Store so that a second process cannot interleave writes. Read-only
// stores skip the lock and reject Submit with ErrReadOnly.
package annotations
