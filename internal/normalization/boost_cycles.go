package normalization

import (
	"sort"

	"dexboost-lab/internal/domain"
)

// AssignBoostCycles numbers each mint's records by detection time (1-based)
// and computes the adjusted boost amount as the positive delta against the
// previous cycle, falling back to the raw amount for the first cycle or a
// non-increasing total.
//
// Records are mutated in place; the slice order is preserved.
func AssignBoostCycles(records []*domain.TokenRecord) {
	byMint := make(map[string][]*domain.TokenRecord)
	for _, r := range records {
		byMint[r.TokenMint] = append(byMint[r.TokenMint], r)
	}

	for _, group := range byMint {
		ordered := make([]*domain.TokenRecord, len(group))
		copy(ordered, group)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].DetectedAt < ordered[j].DetectedAt
		})

		for i, r := range ordered {
			r.BoostID = i + 1
			if i == 0 {
				r.AdjustedBoostAmount = r.BoostAmount
				continue
			}
			delta := r.BoostAmount - ordered[i-1].BoostAmount
			if delta < 0 {
				delta = r.BoostAmount
			}
			r.AdjustedBoostAmount = delta
		}
	}
}
