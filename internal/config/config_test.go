package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"concord/internal/config"
)

func TestLoadDefaultConfigDerivesPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("CONCORD_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "concord")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.CorpusFile != filepath.Join(wantData, "data.tsv") {
		t.Fatalf("unexpected corpus file: %q", cfg.Paths.CorpusFile)
	}
	if cfg.Paths.AnnotationsFile != filepath.Join(wantData, "annotations.tsv") {
		t.Fatalf("unexpected annotations file: %q", cfg.Paths.AnnotationsFile)
	}
	if cfg.Agreement.ReportFile != filepath.Join(wantData, "exports", "data_validation.txt") {
		t.Fatalf("unexpected report file: %q", cfg.Agreement.ReportFile)
	}
	if cfg.Store.Backend != config.BackendTSV {
		t.Fatalf("expected tsv backend by default, got %q", cfg.Store.Backend)
	}
	if cfg.StorePath() != cfg.Paths.AnnotationsFile {
		t.Fatalf("expected store path to be annotations file, got %q", cfg.StorePath())
	}
	if cfg.Schedule.Seed != 42 || cfg.Schedule.DefaultSplit != config.SplitFull {
		t.Fatalf("unexpected schedule defaults: %+v", cfg.Schedule)
	}
	if cfg.Agreement.MinAdjudicatedItems != 1000 || cfg.Agreement.MinIndividualItems != 500 {
		t.Fatalf("unexpected agreement thresholds: %+v", cfg.Agreement)
	}
	if cfg.Agreement.RatersPerItem != 2 {
		t.Fatalf("expected two raters per item, got %d", cfg.Agreement.RatersPerItem)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.ExportDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "concord.toml")

	type payload struct {
		Paths struct {
			DataDir string `toml:"data_dir"`
		} `toml:"paths"`
		Store struct {
			Backend string `toml:"backend"`
		} `toml:"store"`
		Labels struct {
			Vocabulary []string `toml:"vocabulary"`
		} `toml:"labels"`
		Annotators []struct {
			ID   string `toml:"id"`
			File string `toml:"file"`
		} `toml:"annotators"`
	}
	custom := payload{}
	custom.Paths.DataDir = filepath.Join(tempDir, "data")
	custom.Store.Backend = "SQLite"
	custom.Labels.Vocabulary = []string{" 1", "0", "1", ""}
	custom.Annotators = append(custom.Annotators,
		struct {
			ID   string `toml:"id"`
			File string `toml:"file"`
		}{ID: "brian", File: filepath.Join(tempDir, "brian.tsv")},
		struct {
			ID   string `toml:"id"`
			File string `toml:"file"`
		}{ID: "Grace H"},
	)
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Store.Backend != config.BackendSQLite {
		t.Fatalf("expected sqlite backend, got %q", cfg.Store.Backend)
	}
	if cfg.StorePath() != filepath.Join(tempDir, "data", "annotations.db") {
		t.Fatalf("unexpected sqlite path: %q", cfg.StorePath())
	}
	if got := strings.Join(cfg.Labels.Vocabulary, ","); got != "1,0" {
		t.Fatalf("expected deduplicated vocabulary, got %q", got)
	}
	if len(cfg.Annotators) != 2 || cfg.Annotators[0].ID != "brian" {
		t.Fatalf("unexpected annotators: %+v", cfg.Annotators)
	}
	if want := filepath.Join(tempDir, "data", "annotations_grace_h.tsv"); cfg.Annotators[1].File != want {
		t.Fatalf("expected derived annotator file %q, got %q", want, cfg.Annotators[1].File)
	}
}

func TestEnvOverridesDataDir(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "env-data")
	t.Setenv("CONCORD_DATA_DIR", dataDir)
	t.Setenv("CONCORD_API_BIND", "127.0.0.1:9999")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != dataDir {
		t.Fatalf("expected data dir from env, got %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("expected api bind from env, got %q", cfg.Paths.APIBind)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Store.Backend != config.BackendTSV {
		t.Fatalf("expected sample backend tsv, got %q", cfg.Store.Backend)
	}
	if cfg.Agreement.RatersPerItem != 2 {
		t.Fatalf("expected sample raters_per_item 2, got %d", cfg.Agreement.RatersPerItem)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"backend", func(c *config.Config) { c.Store.Backend = "csv" }},
		{"raters", func(c *config.Config) { c.Agreement.RatersPerItem = 1 }},
		{"coverage", func(c *config.Config) { c.Agreement.MinIndividualItems = -1 }},
		{"same split", func(c *config.Config) { c.Corpus.EvaluationSplit = c.Corpus.ExplorationSplit }},
		{"reserved split", func(c *config.Config) { c.Corpus.EvaluationSplit = config.SplitFull }},
		{"annotator id", func(c *config.Config) {
			c.Annotators = []config.Annotator{{ID: "", File: "/tmp/a.tsv"}}
		}},
		{"duplicate annotator", func(c *config.Config) {
			c.Annotators = []config.Annotator{{ID: "a", File: "/tmp/a.tsv"}, {ID: "a", File: "/tmp/b.tsv"}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.CorpusFile = "/tmp/data.tsv"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", tc.name)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(path, []byte("[paths]\ncorpus_fle = \"/tmp/data.tsv\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "corpus_fle") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	for in, want := range map[string]string{
		"~":            home,
		"~/a/../b.tsv": filepath.Join(home, "b.tsv"),
		"":             "",
	} {
		got, err := config.ExpandPath(in)
		if err != nil {
			t.Fatalf("ExpandPath(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}
