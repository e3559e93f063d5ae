package chart

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/analysis"
	"github.com/KaramelBytes/csvdash-cli/internal/table"
)

// Kind is a requested chart type.
type Kind int

const (
	Bar Kind = iota
	Pie
	Line
	Scatter
	Correlation
)

var kindNames = map[Kind]string{
	Bar:         "bar",
	Pie:         "pie",
	Line:        "line",
	Scatter:     "scatter",
	Correlation: "correlation",
}

func (k Kind) String() string { return kindNames[k] }

// Title is the display name used in chart titles, e.g. "Bar Chart".
func (k Kind) Title() string {
	if k == Correlation {
		return "Correlation"
	}
	n := k.String()
	return strings.ToUpper(n[:1]) + n[1:] + " Chart"
}

// Numeric reports whether the kind plots a numeric series.
func (k Kind) Numeric() bool { return k == Line || k == Scatter || k == Correlation }

// ParseKind accepts "bar", "Pie Chart" and similar spellings.
func ParseKind(s string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.TrimSuffix(n, " chart")
	for k, name := range kindNames {
		if name == n {
			return k, nil
		}
	}
	return Bar, fmt.Errorf("unsupported chart kind: %s (use bar|pie|line|scatter)", s)
}

// Spec is everything a renderer needs to draw one chart.
type Spec struct {
	Kind   Kind
	Title  string
	Header string
	XLabel string
	YLabel string
	// Labels and Counts hold categorical tallies in first-seen order.
	Labels []string
	Counts []int
	// Points holds numeric series (X is the 1-based row) or correlation pairs.
	Points []analysis.Point
	// Colors has one entry per label for pie charts and a single entry otherwise.
	Colors []string
}

// Options configures Build.
type Options struct {
	Resolver   table.Resolver
	Classifier table.Classifier
}

// DefaultOptions resolves strictly and classifies with the sampled default.
func DefaultOptions() Options {
	return Options{Classifier: table.DefaultClassifier()}
}

const (
	barColor     = "#B672FE"
	lineColor    = "#EC45D8"
	scatterColor = "#0BBEE7"
	corrColor    = "rgba(182,114,254,0.85)"
)

// Build resolves label against ds and shapes the column for kind. Numeric
// kinds on a categorical column fail with a TypeMismatchError.
func Build(ds *table.Dataset, label string, kind Kind, opts Options) (*Spec, error) {
	if kind == Correlation {
		return nil, fmt.Errorf("correlation charts need two columns; use BuildCorrelation")
	}
	r := opts.Resolver
	r.Headers = ds.Headers
	col, err := r.Index(label)
	if err != nil {
		return nil, err
	}
	header := ds.Headers[col]
	spec := &Spec{
		Kind:   kind,
		Header: header,
		Title:  fmt.Sprintf("%s of %s", kind.Title(), header),
	}
	values := ds.Column(col)

	if !kind.Numeric() {
		spec.Labels, spec.Counts = countBy(values)
		if kind == Pie {
			spec.Colors = Palette(len(spec.Labels))
		} else {
			spec.Colors = []string{barColor}
		}
		return spec, nil
	}

	if opts.Classifier.ClassifyColumn(header, ds.Rows, col) != table.KindNumeric {
		return nil, &table.TypeMismatchError{Column: header, Reason: fmt.Sprintf("%s requires a numeric column", strings.ToLower(kind.Title()))}
	}
	for i, v := range values {
		if f, ok := table.ParseNumber(v); ok {
			spec.Points = append(spec.Points, analysis.Point{X: float64(i + 1), Y: f})
		}
	}
	spec.XLabel, spec.YLabel = "Row", header
	if kind == Line {
		spec.Colors = []string{lineColor}
	} else {
		spec.Colors = []string{scatterColor}
	}
	return spec, nil
}

// BuildCorrelation shapes a correlation result as a scatter of its pairs.
func BuildCorrelation(c *analysis.Correlation) *Spec {
	r := "N/A"
	if c.Defined() {
		r = fmt.Sprintf("%.3f", c.R)
	}
	return &Spec{
		Kind:   Correlation,
		Title:  fmt.Sprintf("Correlation: %s vs %s (r = %s)", c.XHeader, c.YHeader, r),
		Header: fmt.Sprintf("%s vs %s", c.XHeader, c.YHeader),
		XLabel: c.XHeader,
		YLabel: c.YHeader,
		Points: c.Points,
		Colors: []string{corrColor},
	}
}

func countBy(values []string) ([]string, []int) {
	idx := map[string]int{}
	var labels []string
	var counts []int
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		i, ok := idx[v]
		if !ok {
			i = len(labels)
			idx[v] = i
			labels = append(labels, v)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return labels, counts
}

// Palette returns n distinct HSL colors, one per pie slice.
func Palette(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("hsl(%d, 80%%, 60%%)", (i*47)%360)
	}
	return out
}
