package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewOf(header string, values ...string) *table.View {
	v := &table.View{Headers: []string{header}}
	for _, s := range values {
		v.Rows = append(v.Rows, table.Row{s})
	}
	return v
}

func TestSummarizeMedian(t *testing.T) {
	odd := Summarize(viewOf("n", "3", "1", "2"), 0, table.DefaultClassifier())
	require.False(t, odd.Median.NA)
	assert.Equal(t, 2.0, odd.Median.Num)

	even := Summarize(viewOf("n", "4", "1", "3", "2"), 0, table.DefaultClassifier())
	require.False(t, even.Median.NA)
	assert.Equal(t, 2.5, even.Median.Num)
}

func TestSummarizeNumeric(t *testing.T) {
	s := Summarize(viewOf("Daily Steps", "1,000", "2500", "2500", "", "x", "4000"), 0, table.DefaultClassifier())
	assert.Equal(t, table.KindNumeric, s.Kind)
	assert.Equal(t, 6, s.Count)
	assert.Equal(t, 10000.0, s.Sum.Num)
	assert.Equal(t, 2500.0, s.Mean.Num)
	assert.Equal(t, 2500.0, s.Median.Num)
	assert.Equal(t, 1000.0, s.Min.Num)
	assert.Equal(t, 4000.0, s.Max.Num)
	assert.Equal(t, 3000.0, s.Range.Num)
	assert.Equal(t, "2500", s.Mode)
}

func TestSummarizeCategorical(t *testing.T) {
	s := Summarize(viewOf("BMI Category", "Normal", "Obese", "Overweight", "Obese", "Normal"), 0, table.DefaultClassifier())
	assert.Equal(t, table.KindCategorical, s.Kind)
	assert.Equal(t, 5, s.Count)
	// Normal and Obese tie; Normal was seen first
	assert.Equal(t, "Normal", s.Mode)
	for _, v := range []Value{s.Sum, s.Mean, s.Median, s.Min, s.Max, s.Range} {
		assert.True(t, v.NA)
	}
}

func TestSummarizeEmptyView(t *testing.T) {
	v := &table.View{Headers: []string{"a", "b"}}
	s := Summarize(v, 1, table.DefaultClassifier())
	assert.Equal(t, 0, s.Count)
	for _, f := range s.Fields()[1:] {
		assert.Equal(t, "N/A", f.Value, f.Label)
	}
	assert.Equal(t, "0", s.Fields()[0].Value)
}

func TestSummarizeThresholdIsExhaustive(t *testing.T) {
	// 20 numbers followed by 30 words: sampling would call this numeric, the
	// exhaustive scan must not.
	vals := make([]string, 0, 50)
	for i := 0; i < 20; i++ {
		vals = append(vals, "1")
	}
	for i := 0; i < 30; i++ {
		vals = append(vals, "word")
	}
	s := Summarize(viewOf("mixed", vals...), 0, table.DefaultClassifier())
	assert.Equal(t, table.KindCategorical, s.Kind)
	assert.True(t, s.Mean.NA)
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:          "0",
		42:         "42",
		-7:         "-7",
		3.14159:    "3.14",
		0.5:        "0.50",
		1000:       "1,000",
		1234.5:     "1,234.5",
		-98765.432: "-98,765.43",
		1e6:        "1,000,000",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%v)", in)
	}
	assert.Equal(t, "N/A", FormatNumber(math.NaN()))
	assert.Equal(t, "N/A", NA.String())
}

func TestFormatNumberNegativeZero(t *testing.T) {
	assert.Equal(t, "0.00", FormatNumber(-0.001))
	assert.Equal(t, "0.00", FormatNumber(-0.004999))
	assert.Equal(t, "0", FormatNumber(math.Copysign(0, -1)))
	assert.Equal(t, "-0.01", FormatNumber(-0.006))
}

func TestPearsonSanity(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	assert.InDelta(t, 1.0, Pearson(x, []float64{2, 4, 6, 8}), 1e-12)
	assert.InDelta(t, -1.0, Pearson(x, []float64{8, 6, 4, 2}), 1e-12)
	assert.True(t, math.IsNaN(Pearson(x, []float64{5, 5, 5, 5})), "constant series must be NaN, not 0")
	assert.True(t, math.IsNaN(Pearson(nil, nil)))
	// truncates to the shorter series
	assert.InDelta(t, 1.0, Pearson(x, []float64{10, 20, 30}), 1e-12)
}

func TestPearsonConstantInexactSeries(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	for _, v := range []float64{0.1, 1.1, 0.3} {
		ys := make([]float64, len(x))
		for i := range ys {
			ys[i] = v
		}
		require.True(t, math.IsNaN(Pearson(x, ys)), "constant %v must be undefined", v)
		require.True(t, math.IsNaN(Pearson(ys, x)), "constant %v on x must be undefined", v)
	}

	ds := &table.Dataset{Headers: []string{"x", "y"}}
	for _, v := range x {
		ds.Rows = append(ds.Rows, table.Row{FormatNumber(v), "0.1"})
	}
	c, err := Correlate(ds, "x", "y", table.NewResolver(nil))
	require.NoError(t, err)
	assert.False(t, c.Defined())
	assert.Equal(t, 7, c.N)
	assert.True(t, math.IsNaN(c.PValue))

	m := CorrelationMatrix(ds, table.DefaultClassifier())
	require.Len(t, m.Columns, 2)
	assert.True(t, math.IsNaN(m.Values[0][1]))
	assert.Empty(t, m.TopPairs(5))
}

func TestMarkdownTableTruncatesRunes(t *testing.T) {
	long := strings.Repeat("é", 100)
	out := MarkdownTable([]string{"note"}, []table.Row{{long}})
	assert.True(t, utf8.ValidString(out))
	assert.Contains(t, out, strings.Repeat("é", 77)+"...")
	assert.NotContains(t, out, strings.Repeat("é", 78))
}

func sleepDataset() *table.Dataset {
	return &table.Dataset{
		Headers: []string{"Person ID", "Gender", "Sleep Duration (hours)", "Quality of Sleep"},
		Rows: []table.Row{
			{"1", "Male", "6.1", "6"},
			{"2", "Female", "7.8", "8"},
			{"3", "Male", "n/a", "7"},
			{"4", "Female", "5.9", "5"},
			{"5", "Male", "7.2", "7"},
		},
	}
}

func TestCorrelateResolvesAndDropsPairs(t *testing.T) {
	ds := sleepDataset()
	c, err := Correlate(ds, "sleep duration", "quality of sleep", table.NewResolver(nil))
	require.NoError(t, err)
	assert.Equal(t, "Sleep Duration (hours)", c.XHeader)
	assert.Equal(t, "Quality of Sleep", c.YHeader)
	assert.Equal(t, 4, c.N)
	require.Len(t, c.Points, 4)
	assert.Equal(t, Point{X: 7.8, Y: 8}, c.Points[1])
	assert.True(t, c.Defined())
	assert.Greater(t, c.R, 0.9)
	assert.False(t, math.IsNaN(c.PValue))
	assert.Less(t, c.PValue, 0.1)
}

func TestCorrelateErrors(t *testing.T) {
	ds := sleepDataset()
	_, err := Correlate(ds, "Occupation", "Gender", table.NewResolver(nil))
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))

	// passthrough does not apply to correlation: there is no column to read
	r := table.NewResolver(nil)
	r.Fallback = table.FallbackPassthrough
	_, err = Correlate(ds, "Sleep Duration", "Occupation", r)
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))

	_, err = Correlate(ds, "Gender", "Quality of Sleep", table.NewResolver(nil))
	var tm *table.TypeMismatchError
	require.True(t, errors.As(err, &tm), "got %v", err)
	assert.Contains(t, tm.Error(), "Gender")
}

func TestCorrelateConstantIsUndefined(t *testing.T) {
	ds := &table.Dataset{Headers: []string{"x", "y"}, Rows: []table.Row{{"1", "5"}, {"2", "5"}, {"3", "5"}}}
	c, err := Correlate(ds, "x", "y", table.NewResolver(nil))
	require.NoError(t, err)
	assert.False(t, c.Defined())
	assert.True(t, math.IsNaN(c.PValue))
}

func TestCorrelationMatrix(t *testing.T) {
	ds := &table.Dataset{
		Headers: []string{"a", "label", "b", "c"},
		Rows: []table.Row{
			{"1", "x", "2", "9"},
			{"2", "y", "4", "7"},
			{"3", "z", "6", "8"},
			{"4", "w", "8", "1"},
		},
	}
	m := CorrelationMatrix(ds, table.DefaultClassifier())
	require.Equal(t, []string{"a", "b", "c"}, m.Columns)
	assert.InDelta(t, 1.0, m.Values[0][1], 1e-9)
	assert.Equal(t, m.Values[0][2], m.Values[2][0])
	assert.Equal(t, 1.0, m.Values[1][1])
	// gonum and the sum formula must agree
	assert.InDelta(t, Pearson([]float64{1, 2, 3, 4}, []float64{9, 7, 8, 1}), m.Values[0][2], 1e-9)

	top := m.TopPairs(1)
	require.Len(t, top, 1)
	assert.Equal(t, "a", top[0].A)
	assert.Equal(t, "b", top[0].B)
}

func TestAnalyzeReport(t *testing.T) {
	ds := sleepDataset()
	ds.Name = "sleep.csv"
	opt := DefaultOptions()
	opt.Correlations = true
	rep := Analyze(ds, opt)
	require.Len(t, rep.Cols, 4)
	assert.Equal(t, "Sleep Duration", rep.Cols[2].Name)
	assert.Equal(t, "hours", rep.Cols[2].Unit)
	assert.Equal(t, table.KindNumeric, rep.Cols[2].Kind)
	assert.Equal(t, table.KindCategorical, rep.Cols[1].Kind)
	require.NotNil(t, rep.Corr)

	md := rep.Markdown()
	assert.Contains(t, md, "# Dataset summary")
	assert.Contains(t, md, "- File: sleep.csv")
	assert.Contains(t, md, "Sleep Duration [hours]: numeric")
	assert.Contains(t, md, "Gender: categorical")
	assert.Contains(t, md, "Male(3)")
	assert.Contains(t, md, "## Correlations")
	assert.Contains(t, md, "1 non-numeric value(s)")

	page := string(rep.HTML())
	assert.True(t, strings.Contains(page, "<h1"), "expected rendered heading")
	assert.Contains(t, page, "<table>")
}
