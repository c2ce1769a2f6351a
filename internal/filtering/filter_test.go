package filtering

import (
	"errors"
	"testing"

	"dexboost-lab/internal/domain"
)

func summaries() []*domain.TokenSummary {
	return []*domain.TokenSummary{
		{SeriesID: "s1", TokenMint: "mintA", TokenAgeMinutes: 5, MarketCap: 100000, Label: 1},
		{SeriesID: "s2", TokenMint: "mintB", TokenAgeMinutes: 15, MarketCap: 300000, Label: 0},
		{SeriesID: "s3", TokenMint: "mintC", TokenAgeMinutes: 8, MarketCap: 500000, Label: 1},
	}
}

func TestParse(t *testing.T) {
	f, err := Parse("TokenAge", "< 10")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if f.Field != "TokenAge" || f.Op != OpLess || f.Value != 10 {
		t.Errorf("unexpected filter: %+v", f)
	}
}

func TestParse_UnknownField(t *testing.T) {
	_, err := Parse("Nonsense", "< 10")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}

func TestParse_UnknownOp(t *testing.T) {
	_, err := Parse("TokenAge", "~ 10")
	if !errors.Is(err, ErrUnknownOp) {
		t.Errorf("Expected ErrUnknownOp, got %v", err)
	}
}

func TestParse_BadCondition(t *testing.T) {
	for _, cond := range []string{"", "<", "< ten", "< 1 2"} {
		if _, err := Parse("TokenAge", cond); err == nil {
			t.Errorf("Expected error for condition %q", cond)
		}
	}
}

func TestApply_SingleFilter(t *testing.T) {
	got, err := Apply(summaries(), []Filter{{Field: "TokenAge", Op: OpLess, Value: 10}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(got))
	}
	if got[0].SeriesID != "s1" || got[1].SeriesID != "s3" {
		t.Errorf("Wrong summaries kept: %s, %s", got[0].SeriesID, got[1].SeriesID)
	}
}

func TestApply_Conjunction(t *testing.T) {
	filters := []Filter{
		{Field: "TokenAge", Op: OpLess, Value: 10},
		{Field: "MarketCap", Op: OpGreaterOrEqual, Value: 200000},
	}

	got, err := Apply(summaries(), filters)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 summary, got %d", len(got))
	}
	if got[0].SeriesID != "s3" {
		t.Errorf("Wrong summary kept: %s", got[0].SeriesID)
	}
}

func TestApply_LabelEquality(t *testing.T) {
	got, err := Apply(summaries(), []Filter{{Field: "Label", Op: OpEqual, Value: 1}})
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("Expected 2 worth-it summaries, got %d", len(got))
	}
}

func TestApply_NoFiltersKeepsAll(t *testing.T) {
	in := summaries()
	got, err := Apply(in, nil)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if len(got) != len(in) {
		t.Errorf("Expected all %d summaries, got %d", len(in), len(got))
	}
}

func TestApply_UnknownFieldFails(t *testing.T) {
	_, err := Apply(summaries(), []Filter{{Field: "Nonsense", Op: OpLess, Value: 1}})
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}
}
