package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

// Options controls dataset report behavior.
type Options struct {
	// SampleRows determines how many example rows to include in the report.
	SampleRows int
	// TopValues caps the category list per categorical column.
	TopValues int
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Classifier decides column kinds.
	Classifier table.Classifier
}

// DefaultOptions returns reasonable defaults for dataset analysis.
func DefaultOptions() Options {
	return Options{
		SampleRows: 5,
		TopValues:  5,
		Classifier: table.DefaultClassifier(),
	}
}

// Report is a markdown-friendly analysis of a tabular dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Samples  []table.Row
	Warnings []string
	Corr     *CorrMatrix
}

// ColumnSummary captures inferred type and statistics per column.
type ColumnSummary struct {
	Name      string
	Unit      string
	Kind      table.Kind
	NonNull   int
	Missing   int
	Unique    int
	Stats     Summary
	TopValues []CategoryCount
}

type CategoryCount struct {
	Value string
	Count int
}

// Analyze builds a Report over every column of ds.
func Analyze(ds *table.Dataset, opt Options) *Report {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 5
	}
	rep := &Report{Name: ds.Name, Rows: ds.Len()}
	whole := &table.View{Headers: ds.Headers, Rows: ds.Rows}

	for i, h := range ds.Headers {
		clean, unit := table.SplitUnits(h)
		cs := ColumnSummary{Name: clean, Unit: unit}
		counts := map[string]int{}
		var order []string
		for _, v := range ds.Column(i) {
			v = strings.TrimSpace(v)
			if v == "" {
				cs.Missing++
				continue
			}
			cs.NonNull++
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
		}
		cs.Unique = len(order)
		cs.Stats = Summarize(whole, i, opt.Classifier)
		cs.Kind = cs.Stats.Kind
		if cs.Kind == table.KindNumeric {
			bad := 0
			for _, v := range order {
				if _, ok := table.ParseNumber(v); !ok {
					bad += counts[v]
				}
			}
			if bad > 0 {
				rep.Warnings = append(rep.Warnings, fmt.Sprintf("%s: %d non-numeric value(s) ignored in statistics", safeName(h), bad))
			}
		} else {
			sort.SliceStable(order, func(a, b int) bool { return counts[order[a]] > counts[order[b]] })
			for j := 0; j < len(order) && j < opt.TopValues; j++ {
				cs.TopValues = append(cs.TopValues, CategoryCount{Value: order[j], Count: counts[order[j]]})
			}
		}
		rep.Cols = append(rep.Cols, cs)
	}

	for i := 0; i < len(ds.Rows) && i < opt.SampleRows; i++ {
		rep.Samples = append(rep.Samples, ds.Rows[i])
	}

	if opt.Correlations {
		m := CorrelationMatrix(ds, opt.Classifier)
		if len(m.Columns) >= 2 {
			rep.Corr = m
		} else {
			rep.Warnings = append(rep.Warnings, "fewer than two numeric columns; correlations skipped")
		}
	}
	return rep
}

// Markdown renders the report.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Dataset summary\n\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("- File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("- Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("- Columns: %d\n\n", len(r.Cols)))

	b.WriteString("## Schema\n\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		name := safeName(c.Name)
		if c.Unit != "" {
			name = fmt.Sprintf("%s [%s]", name, c.Unit)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", name, c.Kind, c.NonNull, missPct))
		switch c.Kind {
		case table.KindNumeric:
			s := c.Stats
			b.WriteString(fmt.Sprintf("; min %s, max %s, mean %s, median %s", s.Min, s.Max, s.Mean, s.Median))
		default:
			if len(c.TopValues) > 0 {
				b.WriteString("; top: ")
				for i, kv := range c.TopValues {
					if i > 0 {
						b.WriteString(", ")
					}
					b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
				}
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}

	if r.Corr != nil {
		pairs := r.Corr.TopPairs(10)
		if len(pairs) > 0 {
			b.WriteString("\n## Correlations\n\n")
			for _, p := range pairs {
				b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", p.A, p.B, p.R, p.N))
			}
		}
	}

	if len(r.Samples) > 0 {
		b.WriteString("\n## Sample rows\n\n")
		headers := make([]string, len(r.Cols))
		for i, c := range r.Cols {
			headers[i] = c.Name
		}
		b.WriteString(MarkdownTable(headers, r.Samples))
	}
	if len(r.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range r.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// HTML renders the Markdown report as a standalone page.
func (r *Report) HTML() []byte {
	p := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	title := "Dataset summary"
	if r.Name != "" {
		title = r.Name
	}
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(r.Markdown()), p, renderer)
}

// MarkdownTable renders rows under headers as a pipe table. Long cells are
// shortened and pipes escaped.
func MarkdownTable(headers []string, rows []table.Row) string {
	var b strings.Builder
	b.WriteString("| ")
	for i, h := range headers {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeVal(safeName(h)))
	}
	b.WriteString(" |\n| ")
	for i := range headers {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString("---")
	}
	b.WriteString(" |\n")
	for _, row := range rows {
		b.WriteString("| ")
		for i := range headers {
			if i > 0 {
				b.WriteString(" | ")
			}
			val := cell(row, i)
			if r := []rune(val); len(r) > 80 {
				val = string(r[:77]) + "..."
			}
			b.WriteString(safeVal(val))
		}
		b.WriteString(" |\n")
	}
	return b.String()
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
