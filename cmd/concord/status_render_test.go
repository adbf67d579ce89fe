package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"concord/internal/api"
	"concord/internal/scheduler"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("evaluation", statusOK, "4/4 labeled", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "evaluation:", "[OK] 4/4 labeled")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("full", statusWarn, "", true)
	if !strings.HasPrefix(got, ansiYellow) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected yellow line, got %q", got)
	}
}

func TestProgressKind(t *testing.T) {
	cases := []struct {
		labeled, total int
		want           statusKind
	}{
		{0, 0, statusWarn},
		{3, 3, statusOK},
		{1, 3, statusInfo},
	}
	for _, tc := range cases {
		if got := progressKind(tc.labeled, tc.total); got != tc.want {
			t.Fatalf("progressKind(%d, %d) = %v, want %v", tc.labeled, tc.total, got, tc.want)
		}
	}
}

func TestRenderSplitsTable(t *testing.T) {
	out := renderSplits(api.SplitsResponse{
		Default: "full",
		Splits: []scheduler.Progress{
			{Split: "evaluation", Labeled: 1, Total: 4},
			{Split: "full", Labeled: 1, Total: 12},
		},
	})
	lines := strings.Split(out, "\n")
	var fullRow string
	for _, line := range lines {
		if strings.Contains(line, "full") {
			fullRow = line
		}
	}
	for _, want := range []string{"12", "11", "8.3%", "yes"} {
		if !strings.Contains(fullRow, want) {
			t.Fatalf("expected %q in row %q", want, fullRow)
		}
	}
	if strings.Contains(out, "Labels:") {
		t.Fatalf("unexpected labels line in %q", out)
	}
}

func TestShouldColorizeBuffer(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffers are never terminals")
	}
}
