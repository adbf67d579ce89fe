package config

import (
	"errors"
	"fmt"
	"strings"
)

// SplitFull names the identity partition containing every corpus item.
const SplitFull = "full"

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateAgreement(); err != nil {
		return err
	}
	if err := c.validateAnnotators(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.CorpusFile) == "" {
		return errors.New("paths.corpus_file must be set")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendTSV, BackendSQLite:
		return nil
	default:
		return fmt.Errorf("store.backend: unsupported value %q (want %q or %q)", c.Store.Backend, BackendTSV, BackendSQLite)
	}
}

func (c *Config) validateCorpus() error {
	if c.Corpus.IDColumn == c.Corpus.SplitColumn {
		return errors.New("corpus.id_column and corpus.split_column must differ")
	}
	if c.Corpus.ExplorationSplit == c.Corpus.EvaluationSplit {
		return errors.New("corpus.exploration_split and corpus.evaluation_split must differ")
	}
	for _, name := range []string{c.Corpus.ExplorationSplit, c.Corpus.EvaluationSplit} {
		if name == SplitFull {
			return fmt.Errorf("corpus split name %q is reserved for the whole corpus", SplitFull)
		}
	}
	return nil
}

func (c *Config) validateAgreement() error {
	if c.Agreement.MinAdjudicatedItems < 0 {
		return errors.New("agreement.min_adjudicated_items must be >= 0")
	}
	if c.Agreement.MinIndividualItems < 0 {
		return errors.New("agreement.min_individual_items must be >= 0")
	}
	if c.Agreement.RatersPerItem < 2 {
		return errors.New("agreement.raters_per_item must be at least 2")
	}
	if c.Agreement.Precision > 12 {
		return errors.New("agreement.precision must be <= 12")
	}
	return nil
}

func (c *Config) validateAnnotators() error {
	seen := make(map[string]struct{}, len(c.Annotators))
	for i, annotator := range c.Annotators {
		if annotator.ID == "" {
			return fmt.Errorf("annotators[%d].id must be set", i)
		}
		if strings.ContainsAny(annotator.ID, "\t\n") {
			return fmt.Errorf("annotators[%d].id must not contain tabs or newlines", i)
		}
		if annotator.File == "" {
			return fmt.Errorf("annotators[%d].file must be set", i)
		}
		if _, dup := seen[annotator.ID]; dup {
			return fmt.Errorf("annotators[%d].id %q is duplicated", i, annotator.ID)
		}
		seen[annotator.ID] = struct{}{}
	}
	return nil
}
