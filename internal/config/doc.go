// Package config loads, normalizes, and validates concord configuration.
//
// Configuration lives in a TOML file (default ~/.config/concord/config.toml,
// falling back to ./concord.toml). Load applies repository defaults first,
// decodes the file on top, expands paths, applies environment overrides, and
// validates the result. Paths left empty are derived from paths.data_dir so a
// minimal config only needs to point at the corpus.
//
// Other packages receive a *Config and never read the file or environment
// themselves; add new knobs here with a default, a normalize step, and a
// validation rule.
package config
