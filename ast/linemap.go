package ast

import "sort"

// OffsetLineMap is the reference LineMap implementation: it precomputes the
// byte offset of every line start so both directions of the offset/line
// conversion are O(log n).
type OffsetLineMap struct {
	lineStarts []int // lineStarts[i] = byte offset of line i+1 (1-based lines)
}

// NewOffsetLineMap scans src once for '\n' bytes.
func NewOffsetLineMap(src []byte) *OffsetLineMap {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &OffsetLineMap{lineStarts: starts}
}

// LineCol converts a byte offset to 1-based line and column.
func (m *OffsetLineMap) LineCol(offset int) (line, col int) {
	i := sort.Search(len(m.lineStarts), func(i int) bool { return m.lineStarts[i] > offset })
	line = i // lineStarts[i-1] <= offset < lineStarts[i]
	lineStart := m.lineStarts[i-1]
	return line, offset - lineStart + 1
}

// Offset converts a 1-based line/col back to a byte offset.
func (m *OffsetLineMap) Offset(line, col int) int {
	if line < 1 || line > len(m.lineStarts) {
		return -1
	}
	return m.lineStarts[line-1] + (col - 1)
}
