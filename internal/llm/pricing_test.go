package llm

import "testing"

func TestLookupCost(t *testing.T) {
	tests := []struct {
		model string
		want  *ModelCost
	}{
		{"claude-haiku-4-5", &ModelCost{1, 5}},
		{"anthropic/claude-haiku-4-5", &ModelCost{1, 5}},
		{"google/gemini-2.0-flash-exp:free", &ModelCost{}},
		{"someone/unknown-model", nil},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got := LookupCost(tt.model)
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("LookupCost(%q) = %+v, want nil", tt.model, *got)
			case tt.want != nil && got == nil:
				t.Errorf("LookupCost(%q) = nil, want %+v", tt.model, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("LookupCost(%q) = %+v, want %+v", tt.model, *got, *tt.want)
			}
		})
	}
}

func TestModelCost(t *testing.T) {
	c := ModelCost{InputPerMTok: 1, OutputPerMTok: 5}
	if got := c.Cost(1_000_000, 200_000); got != 2 {
		t.Errorf("Cost = %v, want 2", got)
	}
}
