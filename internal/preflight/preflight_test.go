package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"concord/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFileReadable(t *testing.T) {
	dir := t.TempDir()
	if result := CheckFileReadable("dir", dir); result.Passed {
		t.Fatal("expected failure for directory")
	}
	f := filepath.Join(dir, "a.tsv")
	if err := os.WriteFile(f, []byte("datapoint_id\tscore\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFileReadable("file", f); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckCorpus(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCorpus(6))
	result := CheckCorpus(cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "6 items") || !strings.Contains(result.Detail, "evaluation, exploration") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}

	if err := os.WriteFile(cfg.Paths.CorpusFile, []byte("id\tx\n1\ta\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckCorpus(cfg); result.Passed {
		t.Fatal("expected failure for corpus without id column")
	}
}

func TestCheckStoreLock(t *testing.T) {
	store := filepath.Join(t.TempDir(), "annotations.tsv")
	if result := CheckStoreLock(store); !result.Passed {
		t.Fatalf("expected free lock, got: %s", result.Detail)
	}

	held := flock.New(store + ".lock")
	if ok, err := held.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock: %v %v", ok, err)
	}
	defer held.Unlock()
	if result := CheckStoreLock(store); result.Passed {
		t.Fatal("expected failure while lock is held")
	}
}

func TestRunAllAndFailed(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCorpus(3), testsupport.WithAnnotators("brian"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(cfg)
	err := Failed(results)
	if err == nil || !strings.Contains(err.Error(), "Annotator brian") {
		t.Fatalf("expected missing annotator file failure, got %v", err)
	}

	testsupport.WriteAnnotations(t, cfg.Annotators[0].File, []int64{1000}, nil)
	if err := Failed(RunAll(cfg)); err != nil {
		t.Fatalf("expected all checks to pass, got %v", err)
	}
}

func TestCheckBind(t *testing.T) {
	if !CheckBind("127.0.0.1:7490").Passed {
		t.Fatal("expected valid bind")
	}
	if CheckBind("localhost").Passed {
		t.Fatal("expected missing port to fail")
	}
}
