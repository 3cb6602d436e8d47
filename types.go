package grepnir

// MatchSpan is a half-open byte range [Start, End) within a line
type MatchSpan struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span
func (s MatchSpan) Len() int {
	return s.End - s.Start
}

// Stats tracks what a run touched
type Stats struct {
	Paths         int // Configured paths processed
	FilesSearched int // Sources whose lines were read
	FilesSkipped  int // Sources dropped by the binary heuristic
	LinesRead     int
	LinesSelected int
	Diagnostics   int // Lines written to the diagnostic channel
}
