package causal

import "strings"

// lineScanner walks one line of a description, splitting it into a source
// and a target around the first unquoted polarity marker.
//
// The quote and both markers are ASCII, so the line is walked byte by byte.
// Every other byte is copied through untouched, including bytes that are not
// valid UTF-8.
type lineScanner struct {
	src      string
	pos      int
	inQuotes bool
	marker   byte // 0 until a separator is seen
	source   strings.Builder
	target   strings.Builder
}

func newLineScanner(line string) *lineScanner {
	return &lineScanner{src: line}
}

func (s *lineScanner) atEnd() bool {
	return s.pos >= len(s.src)
}

func (s *lineScanner) advance() byte {
	ch := s.src[s.pos]
	s.pos++
	return ch
}

func (s *lineScanner) readingSource() bool {
	return s.marker == 0
}

func (s *lineScanner) scan() {
	for !s.atEnd() {
		ch := s.advance()
		switch {
		case ch == '"':
			// Quotes only toggle the span; they are never part of an identifier.
			s.inQuotes = !s.inQuotes
		case s.readingSource() && !s.inQuotes && isMarker(ch):
			s.marker = ch
		case s.readingSource():
			s.source.WriteByte(ch)
		default:
			s.target.WriteByte(ch)
		}
	}
}

// ParseLine parses a single statement. The second result is false when the
// line lacks a marker, a source or a target; nothing is kept from such lines.
func ParseLine(line string) (Relationship, bool) {
	s := newLineScanner(line)
	s.scan()

	polarity, ok := PolarityForMarker(rune(s.marker))
	if !ok {
		return Relationship{}, false
	}
	source := strings.TrimSpace(s.source.String())
	target := strings.TrimSpace(s.target.String())
	if source == "" || target == "" {
		return Relationship{}, false
	}
	return Relationship{
		Polarity: polarity,
		Source:   source,
		Target:   target,
	}, true
}

func isMarker(ch byte) bool {
	return ch == '+' || ch == '-'
}
