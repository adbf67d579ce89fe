package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CorpusSplit returns the split WriteCorpus assigns to position i: every
// third item is "evaluation", the rest "exploration".
func CorpusSplit(i int) string {
	if i%3 == 0 {
		return "evaluation"
	}
	return "exploration"
}

// WriteCorpus writes an n-item corpus TSV with ids 1000+i.
func WriteCorpus(t testing.TB, path string, n int) {
	t.Helper()

	var b strings.Builder
	b.WriteString("datapoint_id\tsubmission_id\tsubmission_title\tcomment_parent\tcomment_body\tannotation_split\n")
	for i := range n {
		fmt.Fprintf(&b, "%d\ts%d\tTitle %d\tParent %d\tBody %d\t%s\n", 1000+i, i/4, i, i, i, CorpusSplit(i))
	}
	writeFile(t, path, b.String())
}

// WriteAnnotations writes a "datapoint_id\tscore" store file. Items missing
// from labels are written unlabeled.
func WriteAnnotations(t testing.TB, path string, ids []int64, labels map[int64]string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("datapoint_id\tscore\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "%d\t%s\n", id, labels[id])
	}
	writeFile(t, path, b.String())
}

func writeFile(t testing.TB, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
