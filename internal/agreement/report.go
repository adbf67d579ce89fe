package agreement

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"concord/internal/fileutil"
	"concord/internal/logging"
)

// Report is the outcome of a full validation run.
type Report struct {
	Adjudicated Summary `json:"adjudicated"`
	Individual  Summary `json:"individual"`
	Agreement   Result  `json:"agreement"`
	Precision   int     `json:"-"`
}

// Options configure Check.
type Options struct {
	AdjudicatedFile     string
	IndividualFile      string
	MinAdjudicatedItems int
	MinIndividualItems  int
	RatersPerItem       int
	Precision           int
	Logger              *slog.Logger
}

// Check parses and validates both export files and computes kappa over the
// individual file. Any failure aborts the run.
func Check(opts Options) (Report, error) {
	logger := logging.NewComponentLogger(opts.Logger, "agreement")
	report := Report{Precision: opts.Precision}

	adjudicated, err := ParseFile(opts.AdjudicatedFile)
	if err != nil {
		return report, err
	}
	report.Adjudicated, err = ValidateAdjudicated(adjudicated, opts.MinAdjudicatedItems)
	if err != nil {
		return report, err
	}
	logger.Info("adjudicated export valid",
		logging.String("file", opts.AdjudicatedFile),
		logging.Int("items", report.Adjudicated.Items),
	)

	individual, err := ParseFile(opts.IndividualFile)
	if err != nil {
		return report, err
	}
	var triples []Triple
	report.Individual, triples, err = ValidateIndividual(individual, opts.MinIndividualItems, opts.RatersPerItem)
	if err != nil {
		return report, err
	}
	logger.Info("individual export valid",
		logging.String("file", opts.IndividualFile),
		logging.Int("items", report.Individual.Items),
		logging.Int("triples", report.Individual.Triples),
	)

	report.Agreement, err = Fleiss(triples)
	if err != nil {
		return report, fmt.Errorf("fleiss kappa: %w", err)
	}
	logger.Info("agreement computed",
		logging.Float64("observed", report.Agreement.Observed),
		logging.Float64("expected", report.Agreement.Expected),
		logging.Float64("kappa", report.Agreement.Kappa),
	)
	return report, nil
}

// WriteTo renders the plain-text validation report.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "This file looks to be in the correct format; %d data points\n\n", r.Adjudicated.Items)

	buf.WriteString("Annotators:\n\n")
	for _, a := range r.Individual.Annotators {
		fmt.Fprintf(&buf, "%s: %d\n", a.Name, a.Count)
	}
	buf.WriteString("\nLabels:\n\n")
	for _, l := range r.Individual.Labels {
		fmt.Fprintf(&buf, "%s: %d\n", l.Name, l.Count)
	}
	fmt.Fprintf(&buf, "\nThis file looks to be in the correct format; %d data points; %d annotations\n",
		r.Individual.Items, r.Individual.Triples)

	fmt.Fprintf(&buf, "Observed: %s\n", r.format(r.Agreement.Observed))
	fmt.Fprintf(&buf, "Expected: %s\n", r.format(r.Agreement.Expected))
	fmt.Fprintf(&buf, "Fleiss' kappa: %s\n", r.format(r.Agreement.Kappa))

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// WriteFile atomically replaces path with the rendered report.
func (r Report) WriteFile(path string) error {
	return fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, err := r.WriteTo(w)
		return err
	})
}

func (r Report) format(v float64) string {
	return strconv.FormatFloat(v, 'f', r.Precision, 64)
}
