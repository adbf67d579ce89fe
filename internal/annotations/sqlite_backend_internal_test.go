package annotations

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestSQLiteSaveMovesStampOnlyOnChange(t *testing.T) {
	ctx := context.Background()
	b, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "annotations.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer b.Close()

	first := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	second := first.Add(time.Hour)

	records := []Record{{ItemID: 1}, {ItemID: 2, Label: "1", Labeled: true}}
	b.now = func() time.Time { return first }
	if err := b.Save(ctx, records); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	records[0] = Record{ItemID: 1, Label: "2", Labeled: true}
	b.now = func() time.Time { return second }
	if err := b.Save(ctx, records); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	for id, want := range map[int64]time.Time{1: second, 2: first} {
		got, err := b.UpdatedAt(ctx, id)
		if err != nil {
			t.Fatalf("UpdatedAt(%d): %v", id, err)
		}
		if !got.Equal(want) {
			t.Fatalf("UpdatedAt(%d) = %v, want %v", id, got, want)
		}
	}
	if _, err := b.UpdatedAt(ctx, 99); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}
