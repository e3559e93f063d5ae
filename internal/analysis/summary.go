package analysis

import (
	"strconv"
	"strings"

	"github.com/KaramelBytes/csvdash-cli/internal/table"
	"github.com/montanaflynn/stats"
)

// Value is a statistic that may be not applicable.
type Value struct {
	Num float64
	NA  bool
}

// NA is the not-applicable marker.
var NA = Value{NA: true}

// Num wraps a computed number.
func Num(f float64) Value { return Value{Num: f} }

func (v Value) String() string {
	if v.NA {
		return "N/A"
	}
	return FormatNumber(v.Num)
}

// Summary holds the panel statistics for one column of a View.
type Summary struct {
	Column string
	Kind   table.Kind
	// Count is the number of rows in the View.
	Count int
	Sum   Value
	Mean  Value
	// Median averages the two middle values for even counts.
	Median Value
	// Mode is the most frequent raw non-blank string; empty when there is none.
	Mode  string
	Min   Value
	Max   Value
	Range Value
}

// Field is one labelled line of a summary display.
type Field struct {
	Label string
	Value string
}

// Fields lists the summary in display order.
func (s Summary) Fields() []Field {
	mode := s.Mode
	if mode == "" {
		mode = "N/A"
	}
	return []Field{
		{"Count", strconv.Itoa(s.Count)},
		{"Sum", s.Sum.String()},
		{"Mean", s.Mean.String()},
		{"Median", s.Median.String()},
		{"Mode", mode},
		{"Min", s.Min.String()},
		{"Max", s.Max.String()},
		{"Range", s.Range.String()},
	}
}

// Summarize computes statistics for column col over the rows of v. The
// column is classified with an exhaustive scan at c's threshold; for
// categorical columns only Count and Mode are filled in.
func Summarize(v *table.View, col int, c table.Classifier) Summary {
	s := Summary{
		Count: v.Len(),
		Sum:   NA, Mean: NA, Median: NA, Min: NA, Max: NA, Range: NA,
	}
	if col >= 0 && col < len(v.Headers) {
		s.Column = v.Headers[col]
	}
	raw := v.Column(col)
	s.Mode = mode(raw)

	c = c.Exhaustive()
	c.ForceNumeric = nil
	s.Kind = c.Classify(raw)
	if s.Kind != table.KindNumeric {
		return s
	}

	var nums stats.Float64Data
	for _, r := range raw {
		if f, ok := table.ParseNumber(r); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return s
	}
	sum, _ := nums.Sum()
	mean, _ := nums.Mean()
	median, _ := nums.Median()
	lo, _ := nums.Min()
	hi, _ := nums.Max()
	s.Sum, s.Mean, s.Median = Num(sum), Num(mean), Num(median)
	s.Min, s.Max, s.Range = Num(lo), Num(hi), Num(hi-lo)
	return s
}

// mode returns the most frequent non-blank value; ties go to the value seen first.
func mode(values []string) string {
	counts := map[string]int{}
	var order []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if counts[v] == 0 {
			order = append(order, v)
		}
		counts[v]++
	}
	best, bestN := "", 0
	for _, v := range order {
		if counts[v] > bestN {
			best, bestN = v, counts[v]
		}
	}
	return best
}
