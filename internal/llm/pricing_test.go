package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"claude-haiku-4-5-20251001", &ModelCost{1, 5}},
		{"gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"google/gemini-2.5-flash", &ModelCost{0.3, 2.5}},
		{"gemini-2.5-flash-preview-tts", &ModelCost{0.5, 10}},
		{"meta-llama/llama-3-8b", nil},
		{"mock", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := LookupCost(tt.model)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
			case tt.want != nil && (got == nil || *got != *tt.want):
				t.Errorf("LookupCost(%q) = %v, want %+v", tt.model, got, *tt.want)
			}
		})
	}
}

func TestAliasesArePriced(t *testing.T) {
	for alias, id := range anthropicModels {
		if LookupCost(id) == nil {
			t.Errorf("anthropic alias %q resolves to unpriced model %q", alias, id)
		}
	}
	for alias, id := range geminiModels {
		if LookupCost(id) == nil {
			t.Errorf("gemini alias %q resolves to unpriced model %q", alias, id)
		}
	}
}

func TestModelCostCost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	if got := c.Cost(1_000_000, 200_000); math.Abs(got-2) > 1e-9 {
		t.Errorf("Cost = %v, want 2", got)
	}
}
