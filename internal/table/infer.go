package table

import (
	"regexp"
	"strings"
)

// Kind is the inferred type of a column.
type Kind int

const (
	KindCategorical Kind = iota
	KindNumeric
)

func (k Kind) String() string {
	if k == KindNumeric {
		return "numeric"
	}
	return "categorical"
}

const (
	// DefaultSampleCap bounds how many non-blank values are inspected.
	DefaultSampleCap = 20
	// DefaultThresholdPct is the share of parseable samples that makes a column numeric.
	DefaultThresholdPct = 60
)

// Classifier decides whether a column is "mostly numeric".
type Classifier struct {
	// SampleCap limits inspected values; 0 scans everything.
	SampleCap int
	// ThresholdPct is the minimum percentage of parseable samples.
	ThresholdPct int
	// ForceNumeric lists header patterns that are always numeric (ID-like columns).
	ForceNumeric []*regexp.Regexp
}

// DefaultClassifier returns the sampled 60% policy used across the tool.
func DefaultClassifier() Classifier {
	return Classifier{
		SampleCap:    DefaultSampleCap,
		ThresholdPct: DefaultThresholdPct,
		ForceNumeric: []*regexp.Regexp{regexp.MustCompile(`(?i)person\s*id`)},
	}
}

// Exhaustive returns a copy of c that scans every value.
func (c Classifier) Exhaustive() Classifier {
	c.SampleCap = 0
	return c
}

// Classify inspects up to SampleCap non-blank values. A column is numeric when
// at least ThresholdPct percent of the sampled values parse and at least one
// value was sampled.
func (c Classifier) Classify(values []string) Kind {
	threshold := c.ThresholdPct
	if threshold <= 0 {
		threshold = DefaultThresholdPct
	}
	sampled, parsed := 0, 0
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		sampled++
		if _, ok := ParseNumber(v); ok {
			parsed++
		}
		if c.SampleCap > 0 && sampled >= c.SampleCap {
			break
		}
	}
	if sampled == 0 {
		return KindCategorical
	}
	if parsed*100 >= threshold*sampled {
		return KindNumeric
	}
	return KindCategorical
}

// ClassifyColumn classifies column col of rows. A header matching one of the
// ForceNumeric patterns short-circuits to numeric.
func (c Classifier) ClassifyColumn(header string, rows []Row, col int) Kind {
	for _, re := range c.ForceNumeric {
		if re.MatchString(header) {
			return KindNumeric
		}
	}
	return c.Classify(columnOf(rows, col))
}

// FirstNumericColumn returns the index of the first numeric column, or -1.
func FirstNumericColumn(ds *Dataset, c Classifier) int {
	for i, h := range ds.Headers {
		if c.ClassifyColumn(h, ds.Rows, i) == KindNumeric {
			return i
		}
	}
	return -1
}
