package annotations_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"concord/internal/annotations"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type backendFactory func(t *testing.T, dir string) annotations.Backend

func backends() map[string]backendFactory {
	return map[string]backendFactory{
		"tsv": func(t *testing.T, dir string) annotations.Backend {
			return annotations.NewTSVBackend(filepath.Join(dir, "annotations.tsv"))
		},
		"sqlite": func(t *testing.T, dir string) annotations.Backend {
			b, err := annotations.OpenSQLite(context.Background(), filepath.Join(dir, "annotations.db"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			return b
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ids := []int64{10, 11, 12, 13}
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()

			store, err := annotations.Open(ctx, factory(t, dir), ids, annotations.Options{})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if store.Len() != len(ids) {
				t.Fatalf("expected %d records, got %d", len(ids), store.Len())
			}
			if store.CountLabeled(ids) != 0 {
				t.Fatal("fresh store should be unlabeled")
			}
			if err := store.Submit(ctx, 11, "2"); err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if err := store.Submit(ctx, 13, "1"); err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if err := store.Submit(ctx, 13, "4"); err != nil {
				t.Fatalf("Submit overwrite: %v", err)
			}
			want := store.Snapshot()
			if err := store.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			reopened, err := annotations.Open(ctx, factory(t, dir), ids, annotations.Options{})
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer reopened.Close()
			if diff := cmp.Diff(want, reopened.Snapshot()); diff != "" {
				t.Fatalf("reloaded store differs (-want +got):\n%s", diff)
			}
			rec, ok := reopened.Get(13)
			if !ok || rec.Label != "4" || !rec.Labeled {
				t.Fatalf("expected last write to win, got %+v", rec)
			}
			if reopened.Labeled(10) {
				t.Fatal("item 10 should remain unlabeled")
			}
		})
	}
}

func TestSubmitUnknownItem(t *testing.T) {
	ctx := context.Background()
	store, err := annotations.Open(ctx, annotations.NewTSVBackend(filepath.Join(t.TempDir(), "a.tsv")), []int64{1}, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	if err := store.Submit(ctx, 99, "1"); !errors.Is(err, annotations.ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if store.Len() != 1 {
		t.Fatal("store must never grow")
	}
}

func TestReadOnlyStoreRejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.tsv")
	writer, err := annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1, 2}, annotations.Options{})
	if err != nil {
		t.Fatalf("Open writer: %v", err)
	}
	defer writer.Close()

	reader, err := annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1, 2}, annotations.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("read-only open should not need the lock: %v", err)
	}
	defer reader.Close()
	if !reader.ReadOnly() {
		t.Fatal("expected read-only store")
	}
	if err := reader.Submit(ctx, 1, "3"); !errors.Is(err, annotations.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestSecondWriterIsRefused(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.tsv")
	first, err := annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1}, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	_, err = annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1}, annotations.Options{})
	if !errors.Is(err, annotations.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1}, annotations.Options{})
	if err != nil {
		t.Fatalf("expected lock to be released, got %v", err)
	}
	_ = second.Close()
}

func TestOpenRejectsForeignRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.tsv")
	if err := os.WriteFile(path, []byte("datapoint_id\tscore\n1\t2\n7\t\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := annotations.Open(context.Background(), annotations.NewTSVBackend(path), []int64{1, 2}, annotations.Options{})
	if !errors.Is(err, annotations.ErrCorpusMismatch) {
		t.Fatalf("expected ErrCorpusMismatch, got %v", err)
	}
}

func TestOpenAddsMissingRows(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "a.tsv")
	if err := os.WriteFile(path, []byte("datapoint_id\tscore\n2\t5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := annotations.Open(ctx, annotations.NewTSVBackend(path), []int64{1, 2, 3}, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "datapoint_id\tscore\n1\t\n2\t5\n3\t\n"
	if string(data) != want {
		t.Fatalf("unexpected file contents:\n%q\nwant\n%q", data, want)
	}
}

type failingBackend struct {
	annotations.Backend
	fail bool
}

func (f *failingBackend) Save(ctx context.Context, records []annotations.Record) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Backend.Save(ctx, records)
}

func TestFailedPersistLeavesMemoryUnchanged(t *testing.T) {
	ctx := context.Background()
	backend := &failingBackend{Backend: annotations.NewTSVBackend(filepath.Join(t.TempDir(), "a.tsv"))}
	store, err := annotations.Open(ctx, backend, []int64{1, 2}, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	backend.fail = true
	if err := store.Submit(ctx, 1, "3"); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected persist error, got %v", err)
	}
	if store.Labeled(1) {
		t.Fatal("label must not be visible after a failed persist")
	}
}

func TestConcurrentSubmitsAreSerialized(t *testing.T) {
	ctx := context.Background()
	ids := make([]int64, 64)
	for i := range ids {
		ids[i] = int64(i)
	}
	path := filepath.Join(t.TempDir(), "a.tsv")
	store, err := annotations.Open(ctx, annotations.NewTSVBackend(path), ids, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := store.Submit(ctx, id, "1"); err != nil {
				t.Errorf("Submit %d: %v", id, err)
			}
			_ = store.CountLabeled(ids)
		}(id)
	}
	wg.Wait()
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := annotations.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(records) != len(ids) {
		t.Fatalf("expected %d rows, got %d", len(ids), len(records))
	}
	for _, rec := range records {
		if !rec.Labeled {
			t.Fatalf("item %d lost its label", rec.ItemID)
		}
	}
}

func TestReadTSV(t *testing.T) {
	input := "datapoint_id\tscore\textra\n3\t 2 \tx\n1\t\ty\n"
	records, err := annotations.ReadTSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadTSV: %v", err)
	}
	want := []annotations.Record{
		{ItemID: 3, Label: "2", Labeled: true},
		{ItemID: 1},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}

	bad := []string{
		"id\tscore\n1\t2\n",
		"datapoint_id\tscore\nx\t2\n",
		"datapoint_id\tscore\n1\t2\n1\t3\n",
	}
	for _, input := range bad {
		if _, err := annotations.ReadTSV(strings.NewReader(input)); !errors.Is(err, annotations.ErrInvalidFile) {
			t.Fatalf("expected ErrInvalidFile for %q, got %v", input, err)
		}
	}
}

func TestSQLiteMigrationsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "annotations.db")
	for range 2 {
		b, err := annotations.OpenSQLite(ctx, path)
		if err != nil {
			t.Fatalf("OpenSQLite: %v", err)
		}
		version, err := b.SchemaVersion(ctx)
		if err != nil {
			t.Fatalf("SchemaVersion: %v", err)
		}
		if version != 2 {
			t.Fatalf("expected schema version 2, got %d", version)
		}
		if err := b.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}
}

func TestSQLiteReadOnlyLeavesDatabaseUntouched(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "annotations.db")
	ids := []int64{10, 11, 12}

	missing, err := annotations.OpenSQLiteReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLiteReadOnly on missing file: %v", err)
	}
	empty, err := annotations.Open(ctx, missing, ids, annotations.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("Open read-only on missing file: %v", err)
	}
	if empty.CountLabeled(ids) != 0 {
		t.Fatal("missing database should load unlabeled")
	}
	_ = empty.Close()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("read-only open must not create the database, stat: %v", err)
	}

	writable, err := annotations.OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	writer, err := annotations.Open(ctx, writable, ids, annotations.Options{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := writer.Submit(ctx, 11, "2"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close writer: %v", err)
	}
	before, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}

	ro, err := annotations.OpenSQLiteReadOnly(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLiteReadOnly: %v", err)
	}
	if err := ro.Save(ctx, nil); !errors.Is(err, annotations.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly from Save, got %v", err)
	}
	if version, err := ro.SchemaVersion(ctx); err != nil || version != 2 {
		t.Fatalf("expected schema version 2, got %d (%v)", version, err)
	}
	reader, err := annotations.Open(ctx, ro, ids, annotations.Options{ReadOnly: true})
	if err != nil {
		t.Fatalf("Open read-only: %v", err)
	}
	if rec, ok := reader.Get(11); !ok || rec.Label != "2" {
		t.Fatalf("expected persisted label, got %+v", rec)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("Close reader: %v", err)
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if after.Size() != before.Size() || !after.ModTime().Equal(before.ModTime()) {
		t.Fatalf("read-only open modified the database: %d/%v -> %d/%v", before.Size(), before.ModTime(), after.Size(), after.ModTime())
	}
}
