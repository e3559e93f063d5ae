package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAnalyzeBatch_CollisionSuffixes(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	// Prepare two CSV files with the same basename in nested directories
	d1 := filepath.Join(home, "data", "d1")
	d2 := filepath.Join(home, "data", "nested", "d2")
	for _, d := range []string{d1, d2} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", d, err)
		}
	}
	csv := "col1,col2\nA,1\nB,2\nC,3\n"
	for _, d := range []string{d1, d2} {
		if err := os.WriteFile(filepath.Join(d, "metrics.csv"), []byte(csv), 0o644); err != nil {
			t.Fatalf("write csv: %v", err)
		}
	}

	outDir := filepath.Join(home, "summaries")
	runCmd(t, "analyze-batch", filepath.Join(home, "data", "**", "metrics.csv"), "-o", outDir, "--concurrency", "2", "--quiet")

	b1 := filepath.Join(outDir, "metrics.summary.md")
	b2 := filepath.Join(outDir, "metrics__2.summary.md")
	for _, p := range []string{b1, b2} {
		body, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("missing summary: %v", err)
		}
		if !strings.Contains(string(body), "# Dataset summary") || !strings.Contains(string(body), "col2") {
			t.Fatalf("unexpected summary in %s:\n%s", p, body)
		}
	}

	// A second run must not overwrite the first two
	runCmd(t, "analyze-batch", filepath.Join(d1, "metrics.csv"), "-o", outDir, "--quiet")
	if _, err := os.Stat(filepath.Join(outDir, "metrics__3.summary.md")); err != nil {
		t.Fatalf("expected third summary: %v", err)
	}
}

func TestAnalyzeBatch_PrintsInFileOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	for _, name := range []string{"a.csv", "b.tsv"} {
		body := "x,y\n1,2\n"
		if strings.HasSuffix(name, ".tsv") {
			body = "x\ty\n3\t4\n"
		}
		if err := os.WriteFile(filepath.Join(home, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	out := runCmd(t, "analyze-batch", filepath.Join(home, "*.*sv"), "--quiet")
	ia, ib := strings.Index(out, "a.csv"), strings.Index(out, "b.tsv")
	if ia < 0 || ib < 0 || ia > ib {
		t.Fatalf("reports out of order:\n%s", out)
	}

	if _, err := execute(t, "analyze-batch", filepath.Join(home, "*.parquet")); err == nil {
		t.Fatalf("expected no-match error")
	}
}

func TestSummaryPaths(t *testing.T) {
	dir := t.TempDir()
	got := summaryPaths(dir, []string{"x/sales.csv", "y/sales.csv.gz", "https://h/q/sales.csv?v=1", "z/other.tsv"}, ".summary.md")
	want := []string{"sales.summary.md", "sales__2.summary.md", "sales__3.summary.md", "other.summary.md"}
	for i := range want {
		if filepath.Base(got[i]) != want[i] {
			t.Fatalf("path %d = %s, want %s", i, got[i], want[i])
		}
	}
}
