package response

import "strings"

// HeaderSet accumulates raw "Name: value" response header lines in insertion
// order. Duplicates are kept. It belongs to a single connection.
type HeaderSet struct {
	base     []string
	lines    []string
	released bool
}

func NewHeaderSet(base ...string) *HeaderSet {
	hs := &HeaderSet{base: make([]string, 0, len(base))}
	for _, line := range base {
		hs.base = append(hs.base, sanitize(line))
	}
	hs.Reset()
	return hs
}

// Add appends a header line. Anything from the first line break onward is
// dropped so a line can never smuggle in extra headers.
func (hs *HeaderSet) Add(line string) {
	if hs.released {
		return
	}
	hs.lines = append(hs.lines, sanitize(line))
}

// Reset drops everything added since the last reset and goes back to the
// base lines.
func (hs *HeaderSet) Reset() {
	if hs.released {
		return
	}
	hs.lines = append(make([]string, 0, len(hs.base)+8), hs.base...)
}

func (hs *HeaderSet) Release() {
	hs.released = true
	hs.lines = nil
	hs.base = nil
}

func (hs *HeaderSet) Released() bool { return hs.released }

func (hs *HeaderSet) Lines() []string {
	return append([]string(nil), hs.lines...)
}

func (hs *HeaderSet) Len() int { return len(hs.lines) }

func (hs *HeaderSet) appendTo(buf []byte) []byte {
	for _, line := range hs.lines {
		buf = append(buf, line...)
		buf = append(buf, '\r', '\n')
	}
	return buf
}

func (hs *HeaderSet) size() int {
	n := 0
	for _, line := range hs.lines {
		n += len(line) + 2
	}
	return n
}

func sanitize(line string) string {
	if idx := strings.IndexAny(line, "\r\n"); idx >= 0 {
		return line[:idx]
	}
	return line
}
