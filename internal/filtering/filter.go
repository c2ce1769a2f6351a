// Package filtering narrows token summaries with declarative conditions,
// the engine behind report-time token selection.
package filtering

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dexboost-lab/internal/domain"
)

// Filtering errors.
var (
	ErrUnknownField = errors.New("unknown filter field")
	ErrUnknownOp    = errors.New("unknown filter operator")
	ErrBadCondition = errors.New("malformed filter condition")
)

// Op is a comparison operator.
type Op string

// Supported operators.
const (
	OpLess           Op = "<"
	OpLessOrEqual    Op = "<="
	OpGreater        Op = ">"
	OpGreaterOrEqual Op = ">="
	OpEqual          Op = "=="
	OpNotEqual       Op = "!="
)

// Filter is one numeric condition on a summary field.
type Filter struct {
	Field string
	Op    Op
	Value float64
}

// fieldGetters maps filterable field names to summary accessors.
var fieldGetters = map[string]func(*domain.TokenSummary) float64{
	"BoostID":          func(s *domain.TokenSummary) float64 { return float64(s.BoostID) },
	"MaxVariation":     func(s *domain.TokenSummary) float64 { return s.MaxVariationPct },
	"MinVariation":     func(s *domain.TokenSummary) float64 { return s.MinVariationPct },
	"TimeOfMax":        func(s *domain.TokenSummary) float64 { return s.TimeOfMax },
	"TimeOfMin":        func(s *domain.TokenSummary) float64 { return s.TimeOfMin },
	"SecondsToTrigger": func(s *domain.TokenSummary) float64 { return s.SecondsToTrigger },
	"RugPullSeconds":   func(s *domain.TokenSummary) float64 { return s.RugPullSeconds },
	"MarketCap":        func(s *domain.TokenSummary) float64 { return float64(s.MarketCap) },
	"TotalLiquidity":   func(s *domain.TokenSummary) float64 { return s.TotalLiquidity },
	"BoostAmount":      func(s *domain.TokenSummary) float64 { return s.BoostAmount },
	"RugScore":         func(s *domain.TokenSummary) float64 { return float64(s.RugScore) },
	"TokenAge":         func(s *domain.TokenSummary) float64 { return s.TokenAgeMinutes },
	"Label":            func(s *domain.TokenSummary) float64 { return float64(s.Label) },
}

// Fields returns the filterable field names.
func Fields() []string {
	names := make([]string, 0, len(fieldGetters))
	for name := range fieldGetters {
		names = append(names, name)
	}
	return names
}

// Parse builds a filter from a field name and a condition string like
// "< 10" or ">= 0.5". Unknown fields and operators are rejected up front
// rather than skipped at apply time.
func Parse(field, condition string) (Filter, error) {
	if _, ok := fieldGetters[field]; !ok {
		return Filter{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	parts := strings.Fields(condition)
	if len(parts) != 2 {
		return Filter{}, fmt.Errorf("%w: %q", ErrBadCondition, condition)
	}

	op := Op(parts[0])
	switch op {
	case OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual, OpEqual, OpNotEqual:
	default:
		return Filter{}, fmt.Errorf("%w: %s", ErrUnknownOp, parts[0])
	}

	value, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Filter{}, fmt.Errorf("%w: %q: %v", ErrBadCondition, condition, err)
	}

	return Filter{Field: field, Op: op, Value: value}, nil
}

// Matches reports whether the summary satisfies the filter.
func (f Filter) Matches(s *domain.TokenSummary) (bool, error) {
	getter, ok := fieldGetters[f.Field]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownField, f.Field)
	}

	v := getter(s)
	switch f.Op {
	case OpLess:
		return v < f.Value, nil
	case OpLessOrEqual:
		return v <= f.Value, nil
	case OpGreater:
		return v > f.Value, nil
	case OpGreaterOrEqual:
		return v >= f.Value, nil
	case OpEqual:
		return v == f.Value, nil
	case OpNotEqual:
		return v != f.Value, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownOp, f.Op)
	}
}

// Apply returns the summaries that satisfy every filter, preserving input
// order. An invalid filter fails the whole call.
func Apply(summaries []*domain.TokenSummary, filters []Filter) ([]*domain.TokenSummary, error) {
	if len(filters) == 0 {
		return summaries, nil
	}

	var result []*domain.TokenSummary
	for _, s := range summaries {
		keep := true
		for _, f := range filters {
			ok, err := f.Matches(s)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, s)
		}
	}

	return result, nil
}
