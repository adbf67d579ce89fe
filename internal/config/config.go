package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Store backend identifiers.
const (
	BackendTSV    = "tsv"
	BackendSQLite = "sqlite"
)

// Paths contains file, directory, and bind address configuration.
type Paths struct {
	DataDir         string `toml:"data_dir"`
	CorpusFile      string `toml:"corpus_file"`
	AnnotationsFile string `toml:"annotations_file"`
	ExportDir       string `toml:"export_dir"`
	APIBind         string `toml:"api_bind"`
}

// Store selects how the annotation store is persisted.
type Store struct {
	// Backend is "tsv" (one datapoint_id/score row per item, rewritten on
	// every submit) or "sqlite".
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
}

// Corpus describes the corpus file layout and split assignment.
type Corpus struct {
	IDColumn         string   `toml:"id_column"`
	SplitColumn      string   `toml:"split_column"`
	TextFields       []string `toml:"text_fields"`
	SplitSeed        uint64   `toml:"split_seed"`
	ExplorationSplit string   `toml:"exploration_split"`
	EvaluationSplit  string   `toml:"evaluation_split"`
}

// Schedule controls the deterministic item ordering.
type Schedule struct {
	Seed         uint64 `toml:"seed"`
	DefaultSplit string `toml:"default_split"`
}

// Labels restricts the accepted label values. An empty vocabulary accepts any
// non-blank label.
type Labels struct {
	Vocabulary []string `toml:"vocabulary"`
}

// Agreement contains the validation thresholds and output files.
type Agreement struct {
	MinAdjudicatedItems int    `toml:"min_adjudicated_items"`
	MinIndividualItems  int    `toml:"min_individual_items"`
	RatersPerItem       int    `toml:"raters_per_item"`
	Precision           int    `toml:"precision"`
	AdjudicatedFile     string `toml:"adjudicated_file"`
	IndividualFile      string `toml:"individual_file"`
	ReportFile          string `toml:"report_file"`
}

// Annotator names one annotator and the store file holding their labels.
type Annotator struct {
	ID   string `toml:"id"`
	File string `toml:"file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for concord.
//
// Configuration sections:
//   - Paths: data directory, corpus, annotation store, exports, API bind
//   - Store: annotation store backend
//   - Corpus: column names, text payload fields, split assignment
//   - Schedule: ordering seed and default split
//   - Labels: optional label vocabulary
//   - Agreement: validation thresholds and report files
//   - Annotators: per-annotator store files merged for agreement
//   - Logging: log format and level
type Config struct {
	Paths      Paths       `toml:"paths"`
	Store      Store       `toml:"store"`
	Corpus     Corpus      `toml:"corpus"`
	Schedule   Schedule    `toml:"schedule"`
	Labels     Labels      `toml:"labels"`
	Agreement  Agreement   `toml:"agreement"`
	Annotators []Annotator `toml:"annotators"`
	Logging    Logging     `toml:"logging"`
}

// EnsureDirectories creates the data and export directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.DataDir, c.Paths.ExportDir, filepath.Dir(c.Paths.AnnotationsFile)}
	if c.Store.Backend == BackendSQLite {
		dirs = append(dirs, filepath.Dir(c.Store.SQLitePath))
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the file backing the configured annotation store.
func (c *Config) StorePath() string {
	if c.Store.Backend == BackendSQLite {
		return c.Store.SQLitePath
	}
	return c.Paths.AnnotationsFile
}

// LogFile returns the log file used by long-running commands.
func (c *Config) LogFile() string {
	return filepath.Join(c.Paths.DataDir, "concord.log")
}
