// Package extrema locates local price maxima and minima under a minimum
// index-distance constraint.
package extrema

import (
	"sort"

	"dexboost-lab/internal/domain"
)

// Find scans the series for local extrema. A candidate peak is an index
// whose price is greater than or equal to every sample within minDistance
// positions on each side; troughs are symmetric on the negated prices.
//
// Same-type candidates closer than minDistance are resolved greedily: the
// higher peak (lower trough) survives, equal values resolve to the earlier
// index. A peak and a trough may be arbitrarily close.
//
// A series shorter than 2*minDistance+1 samples yields an empty set without
// erroring. Deterministic and idempotent for identical input.
func Find(series *domain.TokenSeries, minDistance int) domain.ExtremaSet {
	n := len(series.Points)
	if minDistance <= 0 || n < 2*minDistance+1 {
		return domain.ExtremaSet{}
	}

	prices := make([]float64, n)
	for i, p := range series.Points {
		prices[i] = p.Price
	}

	neg := make([]float64, n)
	for i, v := range prices {
		neg[i] = -v
	}

	return domain.ExtremaSet{
		PeakIndexes:   findPeaks(prices, minDistance),
		TroughIndexes: findPeaks(neg, minDistance),
	}
}

// findPeaks returns accepted peak indexes in ascending order.
func findPeaks(values []float64, minDistance int) []int {
	candidates := windowCandidates(values, minDistance)
	if len(candidates) == 0 {
		return nil
	}

	// Greedy suppression: visit candidates by descending value (earlier
	// index first on equal values), accept each unless an already accepted
	// peak is within minDistance.
	order := make([]int, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(i, j int) bool {
		if values[order[i]] != values[order[j]] {
			return values[order[i]] > values[order[j]]
		}
		return order[i] < order[j]
	})

	var accepted []int
	for _, idx := range order {
		ok := true
		for _, a := range accepted {
			if abs(idx-a) < minDistance {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, idx)
		}
	}

	sort.Ints(accepted)
	return accepted
}

// windowCandidates returns indexes whose value is >= every neighbor within
// minDistance on each side. Indexes without a full window on both sides are
// never candidates, so boundary samples cannot masquerade as extrema.
func windowCandidates(values []float64, minDistance int) []int {
	var out []int
	for i := minDistance; i <= len(values)-1-minDistance; i++ {
		isPeak := true
		for j := i - minDistance; j <= i+minDistance; j++ {
			if values[j] > values[i] {
				isPeak = false
				break
			}
		}
		if isPeak {
			out = append(out, i)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
