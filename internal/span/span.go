// Package span defines the offset ranges shared by the buffer, locator,
// scanner and highlight packages.
//
// Offsets count Unicode code points (runes), not bytes. That is the unit the
// regex engine reports match positions in, and the unit an editor caret moves
// by, so no conversion is needed between a located word and its matches.
package span

import "fmt"

// Span is a half-open interval [Start, End) of rune offsets. Start <= End.
type Span struct {
	Start int
	End   int
}

// New returns the span covering [a, b), swapping the bounds if needed.
func New(a, b int) Span {
	if b < a {
		a, b = b, a
	}
	return Span{Start: a, End: b}
}

// Len returns the number of runes in the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Empty reports whether the span covers no runes.
func (s Span) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether offset lies within [Start, End).
func (s Span) Contains(offset int) bool {
	return s.Start <= offset && offset < s.End
}

// Covers reports whether o lies entirely within s.
func (s Span) Covers(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("(%d,%d)", s.Start, s.End)
}

// Token is a span together with the text it covers.
type Token struct {
	Span
	Text string
}
