package grid

import "fmt"

// Span is a closed integer range [First, Last].
type Span struct {
	First int `json:"first" msgpack:"first"`
	Last  int `json:"last" msgpack:"last"`
}

// SpanOf returns the span starting at start with the given length.
func SpanOf(start, length int) Span {
	return Span{First: start, Last: start + length - 1}
}

// Len returns the number of positions covered.
func (s Span) Len() int { return s.Last - s.First + 1 }

// Contains reports whether i lies in the span.
func (s Span) Contains(i int) bool { return i >= s.First && i <= s.Last }

// Intersects reports whether two spans share at least one position.
func (s Span) Intersects(o Span) bool { return s.First <= o.Last && o.First <= s.Last }

// Hull returns the smallest span covering both spans.
func (s Span) Hull(o Span) Span {
	return Span{First: min(s.First, o.First), Last: max(s.Last, o.Last)}
}

func (s Span) String() string {
	if s.First == s.Last {
		return fmt.Sprintf("%d", s.First)
	}
	return fmt.Sprintf("%d...%d", s.First, s.Last)
}
