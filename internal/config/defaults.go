package config

const (
	defaultDataDir             = "~/.local/share/concord"
	defaultCorpusFileName      = "data.tsv"
	defaultAnnotationsFileName = "annotations.tsv"
	defaultSQLiteFileName      = "annotations.db"
	defaultExportDirName       = "exports"
	defaultAPIBind             = "127.0.0.1:7490"
	defaultStoreBackend        = BackendTSV
	defaultIDColumn            = "datapoint_id"
	defaultSplitColumn         = "annotation_split"
	defaultSplitSeed           = 42
	defaultExplorationSplit    = "exploration"
	defaultEvaluationSplit     = "evaluation"
	defaultScheduleSeed        = 42
	defaultScheduleSplit       = "full"
	defaultMinAdjudicatedItems = 1000
	defaultMinIndividualItems  = 500
	defaultRatersPerItem       = 2
	defaultPrecision           = 3
	defaultAdjudicatedFileName = "adjudicated_data.txt"
	defaultIndividualFileName  = "individual_annotations.txt"
	defaultReportFileName      = "data_validation.txt"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

var defaultTextFields = []string{"submission_title", "comment_parent", "comment_body"}

// Default returns a Config populated with repository defaults. Derived paths
// (corpus, store, exports) stay empty until normalize fills them from DataDir.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			APIBind: defaultAPIBind,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		Corpus: Corpus{
			IDColumn:         defaultIDColumn,
			SplitColumn:      defaultSplitColumn,
			TextFields:       append([]string(nil), defaultTextFields...),
			SplitSeed:        defaultSplitSeed,
			ExplorationSplit: defaultExplorationSplit,
			EvaluationSplit:  defaultEvaluationSplit,
		},
		Schedule: Schedule{
			Seed:         defaultScheduleSeed,
			DefaultSplit: defaultScheduleSplit,
		},
		Agreement: Agreement{
			MinAdjudicatedItems: defaultMinAdjudicatedItems,
			MinIndividualItems:  defaultMinIndividualItems,
			RatersPerItem:       defaultRatersPerItem,
			Precision:           defaultPrecision,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
