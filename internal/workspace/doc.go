// Package workspace assembles the runtime context shared by every command.
//
// A Workspace is built once at startup from the configuration: it loads the
// corpus, generates the ordering, opens the configured annotation store, and
// builds the scheduler. Commands and the HTTP adapter receive the Workspace
// explicitly instead of reaching for package-level state, and Close releases
// the store lock and backend.
package workspace
