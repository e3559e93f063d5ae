package table

import (
	"regexp"
	"strings"
)

// FallbackPolicy decides what Resolve does with an unknown label.
type FallbackPolicy int

const (
	// FallbackStrict reports ColumnNotFoundError.
	FallbackStrict FallbackPolicy = iota
	// FallbackPassthrough hands the label back unchanged.
	FallbackPassthrough
)

// ParseFallbackPolicy maps a config string to a policy; unknown values are strict.
func ParseFallbackPolicy(s string) FallbackPolicy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "passthrough", "pass", "original":
		return FallbackPassthrough
	default:
		return FallbackStrict
	}
}

func (p FallbackPolicy) String() string {
	if p == FallbackPassthrough {
		return "passthrough"
	}
	return "strict"
}

// Resolver maps user-facing labels (possibly carrying units or loose casing)
// onto exact header strings.
type Resolver struct {
	Headers  []string
	Fallback FallbackPolicy
}

// NewResolver builds a strict resolver over headers.
func NewResolver(headers []string) Resolver {
	return Resolver{Headers: headers}
}

// Resolve returns the header label refers to. With FallbackPassthrough an
// unknown label comes back unchanged with ok=false and a nil error.
func (r Resolver) Resolve(label string) (header string, ok bool, err error) {
	if h, found := r.find(label); found {
		return h, true, nil
	}
	if r.Fallback == FallbackPassthrough {
		return label, false, nil
	}
	return "", false, &ColumnNotFoundError{Label: label}
}

// Index resolves label and returns the header position. Unresolved labels
// are always an error here since there is no column to point at.
func (r Resolver) Index(label string) (int, error) {
	h, found := r.find(label)
	if !found {
		return -1, &ColumnNotFoundError{Label: label}
	}
	for i, cand := range r.Headers {
		if cand == h {
			return i, nil
		}
	}
	return -1, &ColumnNotFoundError{Label: label}
}

func (r Resolver) find(label string) (string, bool) {
	// exact
	for _, h := range r.Headers {
		if h == label {
			return h, true
		}
	}
	want := strings.ToLower(strings.TrimSpace(label))
	if want == "" {
		return "", false
	}
	// trimmed, case-insensitive
	for _, h := range r.Headers {
		if strings.ToLower(strings.TrimSpace(h)) == want {
			return h, true
		}
	}
	// unit annotations removed
	bare := strings.ToLower(StripUnits(label))
	for _, h := range r.Headers {
		if strings.ToLower(StripUnits(h)) == bare {
			return h, true
		}
	}
	// substring either way
	for _, h := range r.Headers {
		lh := strings.ToLower(strings.TrimSpace(h))
		if lh == "" {
			continue
		}
		if strings.Contains(lh, want) || strings.Contains(want, lh) {
			return h, true
		}
	}
	return "", false
}

var unitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(.*?)\s*\(([^)]*)\)\s*$`),  // Sleep Duration (hours)
	regexp.MustCompile(`^(.*?)\s*\[([^\]]*)\]\s*$`), // Mass [mg/L]
}

// SplitUnits separates a trailing unit annotation from a header.
func SplitUnits(name string) (clean string, unit string) {
	s := strings.TrimSpace(name)
	for _, re := range unitPatterns {
		if m := re.FindStringSubmatch(s); len(m) == 3 {
			base := strings.TrimSpace(m[1])
			if base != "" {
				return base, strings.TrimSpace(m[2])
			}
		}
	}
	return s, ""
}

// StripUnits drops any trailing parenthesized or bracketed annotations.
func StripUnits(name string) string {
	s := strings.TrimSpace(name)
	for {
		clean, _ := SplitUnits(s)
		if clean == s {
			return s
		}
		s = clean
	}
}
