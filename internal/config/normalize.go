package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"concord/internal/textutil"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeCorpus()
	c.normalizeSchedule()
	c.normalizeLabels()
	if err := c.normalizeAgreement(); err != nil {
		return err
	}
	if err := c.normalizeAnnotators(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if value, ok := os.LookupEnv("CONCORD_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = ExpandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.CorpusFile, err = c.derivedPath(c.Paths.CorpusFile, c.Paths.DataDir, defaultCorpusFileName); err != nil {
		return fmt.Errorf("paths.corpus_file: %w", err)
	}
	if c.Paths.AnnotationsFile, err = c.derivedPath(c.Paths.AnnotationsFile, c.Paths.DataDir, defaultAnnotationsFileName); err != nil {
		return fmt.Errorf("paths.annotations_file: %w", err)
	}
	if c.Paths.ExportDir, err = c.derivedPath(c.Paths.ExportDir, c.Paths.DataDir, defaultExportDirName); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if value, ok := os.LookupEnv("CONCORD_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.Paths.APIBind = value
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

// derivedPath expands value, or joins fallback onto base when value is empty.
func (c *Config) derivedPath(value, base, fallback string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return filepath.Join(base, fallback), nil
	}
	return ExpandPath(strings.TrimSpace(value))
}

func (c *Config) normalizeStore() error {
	var err error
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	if c.Store.SQLitePath, err = c.derivedPath(c.Store.SQLitePath, c.Paths.DataDir, defaultSQLiteFileName); err != nil {
		return fmt.Errorf("store.sqlite_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeCorpus() {
	c.Corpus.IDColumn = strings.TrimSpace(c.Corpus.IDColumn)
	if c.Corpus.IDColumn == "" {
		c.Corpus.IDColumn = defaultIDColumn
	}
	c.Corpus.SplitColumn = strings.TrimSpace(c.Corpus.SplitColumn)
	if c.Corpus.SplitColumn == "" {
		c.Corpus.SplitColumn = defaultSplitColumn
	}
	fields := make([]string, 0, len(c.Corpus.TextFields))
	for _, field := range c.Corpus.TextFields {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			fields = append(fields, trimmed)
		}
	}
	if len(fields) == 0 {
		fields = append(fields, defaultTextFields...)
	}
	c.Corpus.TextFields = fields
	c.Corpus.ExplorationSplit = strings.TrimSpace(c.Corpus.ExplorationSplit)
	if c.Corpus.ExplorationSplit == "" {
		c.Corpus.ExplorationSplit = defaultExplorationSplit
	}
	c.Corpus.EvaluationSplit = strings.TrimSpace(c.Corpus.EvaluationSplit)
	if c.Corpus.EvaluationSplit == "" {
		c.Corpus.EvaluationSplit = defaultEvaluationSplit
	}
}

func (c *Config) normalizeSchedule() {
	c.Schedule.DefaultSplit = strings.TrimSpace(c.Schedule.DefaultSplit)
	if c.Schedule.DefaultSplit == "" {
		c.Schedule.DefaultSplit = defaultScheduleSplit
	}
}

func (c *Config) normalizeLabels() {
	if len(c.Labels.Vocabulary) == 0 {
		return
	}
	labels := make([]string, 0, len(c.Labels.Vocabulary))
	seen := make(map[string]struct{}, len(c.Labels.Vocabulary))
	for _, label := range c.Labels.Vocabulary {
		normalized := strings.TrimSpace(label)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		labels = append(labels, normalized)
	}
	c.Labels.Vocabulary = labels
}

func (c *Config) normalizeAgreement() error {
	var err error
	if c.Agreement.AdjudicatedFile, err = c.derivedPath(c.Agreement.AdjudicatedFile, c.Paths.ExportDir, defaultAdjudicatedFileName); err != nil {
		return fmt.Errorf("agreement.adjudicated_file: %w", err)
	}
	if c.Agreement.IndividualFile, err = c.derivedPath(c.Agreement.IndividualFile, c.Paths.ExportDir, defaultIndividualFileName); err != nil {
		return fmt.Errorf("agreement.individual_file: %w", err)
	}
	if c.Agreement.ReportFile, err = c.derivedPath(c.Agreement.ReportFile, c.Paths.ExportDir, defaultReportFileName); err != nil {
		return fmt.Errorf("agreement.report_file: %w", err)
	}
	if c.Agreement.Precision <= 0 {
		c.Agreement.Precision = defaultPrecision
	}
	return nil
}

func (c *Config) normalizeAnnotators() error {
	for i := range c.Annotators {
		annotator := &c.Annotators[i]
		annotator.ID = strings.TrimSpace(annotator.ID)
		if annotator.ID == "" {
			continue
		}
		fallback := "annotations_" + textutil.SanitizeToken(annotator.ID) + ".tsv"
		path, err := c.derivedPath(annotator.File, c.Paths.DataDir, fallback)
		if err != nil {
			return fmt.Errorf("annotators[%d].file: %w", i, err)
		}
		annotator.File = path
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
