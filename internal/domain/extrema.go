package domain

// ExtremaSet holds the indexes of accepted local maxima and minima within a
// series. Indexes of the same type are at least the scanner's min distance
// apart; a peak and a trough may be arbitrarily close.
type ExtremaSet struct {
	PeakIndexes   []int // ascending
	TroughIndexes []int // ascending
}

// Empty reports whether no extrema were found.
func (e *ExtremaSet) Empty() bool {
	return len(e.PeakIndexes) == 0 && len(e.TroughIndexes) == 0
}
