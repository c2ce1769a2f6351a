// Package labeling classifies token summaries as worth it or not using a
// fixed clause list.
package labeling

import "dexboost-lab/internal/domain"

// Labeler applies a clause list to token summaries. The zero-cost default
// is the fixed worth-it rule set; a custom list can be injected for tests.
type Labeler struct {
	clauses []Clause
}

// NewLabeler creates a Labeler with the default worth-it clauses.
func NewLabeler() *Labeler {
	return &Labeler{clauses: DefaultClauses()}
}

// NewLabelerWithClauses creates a Labeler with a custom clause list.
func NewLabelerWithClauses(clauses []Clause) *Labeler {
	return &Labeler{clauses: clauses}
}

// Label returns 1 when any clause holds for the summary, else 0. Pure and
// total: rug-pull fields are consumed as given, never derived here.
func (l *Labeler) Label(s *domain.TokenSummary) int {
	for _, c := range l.clauses {
		if c.Hold(s) {
			return 1
		}
	}
	return 0
}

// Explain returns the names of every clause that holds for the summary, in
// clause order. Empty for a zero label.
func (l *Labeler) Explain(s *domain.TokenSummary) []string {
	var fired []string
	for _, c := range l.clauses {
		if c.Hold(s) {
			fired = append(fired, c.Name)
		}
	}
	return fired
}
