package table

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is a sort direction.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ParseDirection accepts "asc"/"desc" spellings.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unsupported sort direction: %s (use asc|desc)", s)
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// SortSpec selects at most one sort column.
type SortSpec struct {
	Active    bool
	Column    int
	Direction Direction
}

// FilterSet maps a column index to the exact (trimmed) value a row must hold.
type FilterSet map[int]string

// Matches reports whether r satisfies every filter.
func (f FilterSet) Matches(r Row) bool {
	for col, want := range f {
		if strings.TrimSpace(cellOf(r, col)) != want {
			return false
		}
	}
	return true
}

// Apply derives a View from ds: rows are filtered (order preserved) and then
// sorted by s. The sort column is classified on the filtered rows. Cells that
// do not parse in a numeric column always end up after the parseable ones.
func Apply(ds *Dataset, filters FilterSet, s SortSpec, c Classifier) *View {
	rows := make([]Row, 0, len(ds.Rows))
	for _, r := range ds.Rows {
		if filters.Matches(r) {
			rows = append(rows, r)
		}
	}
	if s.Active && s.Column >= 0 && s.Column < ds.Width() {
		sortRows(rows, ds.Headers[s.Column], s, c)
	}
	return &View{Headers: ds.Headers, Rows: rows}
}

func sortRows(rows []Row, header string, s SortSpec, c Classifier) {
	col := s.Column
	desc := s.Direction == Descending
	if c.ClassifyColumn(header, rows, col) == KindNumeric {
		sort.SliceStable(rows, func(i, j int) bool {
			a, aok := ParseNumber(cellOf(rows[i], col))
			b, bok := ParseNumber(cellOf(rows[j], col))
			switch {
			case !aok || !bok:
				return aok && !bok
			case desc:
				return a > b
			default:
				return a < b
			}
		})
		return
	}
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := coll.CompareString(cellOf(rows[i], col), cellOf(rows[j], col))
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

// Engine drives one table display: it holds the original Dataset, the active
// filters and sort, and the View derived from them. Every change recomputes
// the View from the original rows.
type Engine struct {
	data       *Dataset
	classifier Classifier
	filters    FilterSet
	sort       SortSpec
	view       *View
}

// NewEngine starts with no filters and no sort.
func NewEngine(ds *Dataset, c Classifier) *Engine {
	e := &Engine{data: ds, classifier: c, filters: FilterSet{}}
	e.recompute()
	return e
}

// Dataset returns the original data.
func (e *Engine) Dataset() *Dataset { return e.data }

// View returns the current projection.
func (e *Engine) View() *View { return e.view }

// Filters returns a copy of the active filters.
func (e *Engine) Filters() FilterSet {
	out := make(FilterSet, len(e.filters))
	for k, v := range e.filters {
		out[k] = v
	}
	return out
}

// Sort returns the active sort.
func (e *Engine) Sort() SortSpec { return e.sort }

// SetFilter requires column col to equal value. An empty value clears it.
func (e *Engine) SetFilter(col int, value string) error {
	if col < 0 || col >= e.data.Width() {
		return fmt.Errorf("filter column %d out of range", col)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		delete(e.filters, col)
	} else {
		e.filters[col] = value
	}
	e.recompute()
	return nil
}

// ClearFilter drops the filter on col.
func (e *Engine) ClearFilter(col int) {
	delete(e.filters, col)
	e.recompute()
}

// SetSort replaces the sort column.
func (e *Engine) SetSort(col int, dir Direction) error {
	if col < 0 || col >= e.data.Width() {
		return fmt.Errorf("sort column %d out of range", col)
	}
	e.sort = SortSpec{Active: true, Column: col, Direction: dir}
	e.recompute()
	return nil
}

// ClearSort returns rows to filter order.
func (e *Engine) ClearSort() {
	e.sort = SortSpec{}
	e.recompute()
}

func (e *Engine) recompute() {
	e.view = Apply(e.data, e.filters, e.sort, e.classifier)
}

// DistinctValues lists the choices a filter control offers for col: unique
// trimmed non-blank values of the original rows, numerically ordered for
// numeric columns and collated otherwise.
func (e *Engine) DistinctValues(col int) []string {
	seen := map[string]struct{}{}
	var uniq []string
	for _, v := range e.data.Column(col) {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		uniq = append(uniq, v)
	}
	header := ""
	if col >= 0 && col < e.data.Width() {
		header = e.data.Headers[col]
	}
	numeric := false
	for _, re := range e.classifier.ForceNumeric {
		if re.MatchString(header) {
			numeric = true
		}
	}
	if !numeric {
		numeric = e.classifier.Classify(uniq) == KindNumeric
	}
	if numeric {
		sort.SliceStable(uniq, func(i, j int) bool {
			a, aok := ParseNumber(uniq[i])
			b, bok := ParseNumber(uniq[j])
			if !aok || !bok {
				return aok && !bok
			}
			return a < b
		})
		return uniq
	}
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(uniq, func(i, j int) bool { return coll.CompareString(uniq[i], uniq[j]) < 0 })
	return uniq
}
