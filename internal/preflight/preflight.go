package preflight

import (
	"errors"
	"fmt"
	"strings"

	"concord/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckCorpus(cfg),
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Export directory", cfg.Paths.ExportDir),
		CheckStoreLock(cfg.StorePath()),
		CheckBind(cfg.Paths.APIBind),
	}
	for _, annotator := range cfg.Annotators {
		results = append(results, CheckFileReadable("Annotator "+annotator.ID, annotator.File))
	}
	return results
}

// Failed joins the failing results into one error, or returns nil.
func Failed(results []Result) error {
	var failures []string
	for _, result := range results {
		if !result.Passed {
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.New("preflight failed: " + strings.Join(failures, "; "))
}
