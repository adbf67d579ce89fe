package testsupport

import (
	"path/filepath"
	"testing"

	"concord/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose every path lives under a per-test temp
// directory. Callers still need to write the corpus file.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	dataDir := filepath.Join(base, "data")
	exportDir := filepath.Join(base, "exports")
	cfgVal.Paths.DataDir = dataDir
	cfgVal.Paths.CorpusFile = filepath.Join(dataDir, "data.tsv")
	cfgVal.Paths.AnnotationsFile = filepath.Join(dataDir, "annotations.tsv")
	cfgVal.Paths.ExportDir = exportDir
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Store.SQLitePath = filepath.Join(dataDir, "annotations.db")
	cfgVal.Agreement.AdjudicatedFile = filepath.Join(exportDir, "adjudicated_data.txt")
	cfgVal.Agreement.IndividualFile = filepath.Join(exportDir, "individual_annotations.txt")
	cfgVal.Agreement.ReportFile = filepath.Join(exportDir, "data_validation.txt")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return builder.cfg
}

// WithBackend selects the annotation store backend.
func WithBackend(backend string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = backend
	}
}

// WithVocabulary restricts accepted labels.
func WithVocabulary(labels ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Labels.Vocabulary = labels
	}
}

// WithAnnotators registers annotators whose store files live in the data dir.
func WithAnnotators(ids ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, id := range ids {
			b.cfg.Annotators = append(b.cfg.Annotators, config.Annotator{
				ID:   id,
				File: filepath.Join(b.cfg.Paths.DataDir, "annotations_"+id+".tsv"),
			})
		}
	}
}

// WithThresholds overrides the agreement coverage minimums.
func WithThresholds(adjudicated, individual int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Agreement.MinAdjudicatedItems = adjudicated
		b.cfg.Agreement.MinIndividualItems = individual
	}
}

// WithCorpus writes a generated corpus of n items to the configured path.
func WithCorpus(n int) ConfigOption {
	return func(b *configBuilder) {
		WriteCorpus(b.t, b.cfg.Paths.CorpusFile, n)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
