// Package template applies update operations to loaded template trees.
package template

import "strings"

// Segment is one step of a dot path: a mapping key or a sequence index
type Segment struct {
	Raw     string
	Index   int
	IsIndex bool
}

// ParsePath splits a dot path once and classifies each segment. A segment
// made only of ASCII digits addresses a sequence index.
func ParsePath(path string) []Segment {
	parts := strings.Split(path, ".")
	segments := make([]Segment, len(parts))
	for i, part := range parts {
		segments[i] = Segment{Raw: part}
		if idx, ok := digits(part); ok {
			segments[i].Index = idx
			segments[i].IsIndex = true
		}
	}
	return segments
}

func digits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
		if n > 1<<31 {
			// far beyond any template sequence
			return 0, false
		}
	}
	return n, true
}
