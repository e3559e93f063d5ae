package parser_test

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KaramelBytes/csvdash-cli/internal/parser"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
)

func TestParseCSVQuotedFields(t *testing.T) {
	ds := parser.ParseCSV("h1,h2,h3\r\na,\"b,c\",\"d\"\"e\"\r\n")
	if !reflect.DeepEqual(ds.Headers, []string{"h1", "h2", "h3"}) {
		t.Fatalf("headers = %q", ds.Headers)
	}
	if len(ds.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(ds.Rows))
	}
	want := table.Row{"a", "b,c", `d"e`}
	if !reflect.DeepEqual(ds.Rows[0], want) {
		t.Fatalf("row = %q, want %q", ds.Rows[0], want)
	}
}

func TestParseCSVBlankLinesAndTrim(t *testing.T) {
	ds := parser.ParseCSV("\n  name , age \n\n   \nAnn ,  31\nBo,4,extra\nCy\n")
	if !reflect.DeepEqual(ds.Headers, []string{"name", "age"}) {
		t.Fatalf("headers = %q", ds.Headers)
	}
	want := []table.Row{{"Ann", "31"}, {"Bo", "4"}, {"Cy"}}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Fatalf("rows = %q", ds.Rows)
	}
	if ds.Cell(2, 1) != "" {
		t.Fatalf("short row should read empty")
	}
}

func TestParseCSVHeaderOnlyAndEmpty(t *testing.T) {
	ds := parser.ParseCSV("a,b,c\n")
	if len(ds.Headers) != 3 || len(ds.Rows) != 0 {
		t.Fatalf("header-only: %d headers, %d rows", len(ds.Headers), len(ds.Rows))
	}
	ds = parser.ParseCSV(" \n\r\n")
	if len(ds.Headers) != 0 || len(ds.Rows) != 0 {
		t.Fatalf("empty text should give empty dataset, got %+v", ds)
	}
}

func TestFormatCSVRoundTrip(t *testing.T) {
	inputs := []string{
		"h1,h2,h3\na,\"b,c\",\"d\"\"e\"\n",
		"Person ID,Gender,Sleep Duration (hours)\n1,Male,6.1\n2,Female,\n3,,7\n",
		"only\n\"\"\nx\n",
		"a,b\n",
	}
	for _, in := range inputs {
		first := parser.ParseCSV(in)
		again := parser.ParseCSV(parser.FormatCSV(first))
		if !reflect.DeepEqual(first.Headers, again.Headers) || !reflect.DeepEqual(first.Rows, again.Rows) {
			t.Errorf("round trip mismatch for %q:\n first=%q %q\n again=%q %q",
				in, first.Headers, first.Rows, again.Headers, again.Rows)
		}
	}
}

func TestParseBytesTSV(t *testing.T) {
	ds, err := parser.ParseBytes("data/sleep.tsv", []byte("a\tb\n1\t\"x\ty\"\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Name != "sleep.tsv" {
		t.Fatalf("name = %q", ds.Name)
	}
	if !reflect.DeepEqual(ds.Rows[0], table.Row{"1", "x\ty"}) {
		t.Fatalf("row = %q", ds.Rows[0])
	}
}

func TestParseFileUnknownExtensionIsCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "export.txt")
	if err := os.WriteFile(p, []byte("x,y\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := parser.ParseFile(p)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Width() != 2 || ds.Len() != 1 {
		t.Fatalf("unexpected shape %dx%d", ds.Len(), ds.Width())
	}
}
