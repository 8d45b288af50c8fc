package diagnosis

import (
	"reflect"
	"testing"

	"telehealth-app-server/internal/models"
)

func scored(probs ...float64) []models.ConditionResult {
	results := make([]models.ConditionResult, 0, len(probs))
	for i, p := range probs {
		results = append(results, models.ConditionResult{
			ConditionID: string(rune('a' + i)),
			Name:        string(rune('A' + i)),
			Probability: models.RankScore(p),
		})
	}
	return results
}

func TestEvaluate_TierRouting(t *testing.T) {
	g := NewGate(testGateConfig()) // high 0.7, min 0.4

	tests := []struct {
		name       string
		highest    float64
		wantAction string
		wantPassed bool
	}{
		{"well above high", 0.95, models.ActionProceedWithAI, true},
		{"exactly high threshold", 0.7, models.ActionProceedWithAI, true},
		{"between thresholds", 0.55, models.ActionProceedWithReview, true},
		{"exactly min threshold", 0.4, models.ActionProceedWithReview, true},
		{"just below min", 0.399, models.ActionConsultDoctorDirect, false},
		{"near zero", 0.01, models.ActionConsultDoctorDirect, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Evaluate(scored(tt.highest, tt.highest/2))
			if got.RecommendedAction != tt.wantAction {
				t.Errorf("action = %q, want %q", got.RecommendedAction, tt.wantAction)
			}
			if got.Passed != tt.wantPassed {
				t.Errorf("passed = %v, want %v", got.Passed, tt.wantPassed)
			}
			if got.Confidence.Highest != tt.highest {
				t.Errorf("highest = %v, want %v", got.Confidence.Highest, tt.highest)
			}
		})
	}
}

func TestEvaluate_ConfidenceStats(t *testing.T) {
	g := NewGate(testGateConfig())

	got := g.Evaluate(scored(0.6, 0.3, 0.15))
	if got.Confidence.Highest != 0.6 {
		t.Errorf("highest = %v, want 0.6", got.Confidence.Highest)
	}
	if got.Confidence.Average != 0.35 {
		t.Errorf("average = %v, want 0.35", got.Confidence.Average)
	}
	if got.Confidence.Threshold != 0.4 {
		t.Errorf("threshold = %v, want 0.4", got.Confidence.Threshold)
	}
}

func TestEvaluate_EmptyListConsultsDoctor(t *testing.T) {
	g := NewGate(testGateConfig())

	got := g.Evaluate(nil)
	if got.Passed {
		t.Error("empty list must not pass the gate")
	}
	if got.RecommendedAction != models.ActionConsultDoctorDirect {
		t.Errorf("action = %q, want %q", got.RecommendedAction, models.ActionConsultDoctorDirect)
	}
	found := false
	for _, f := range got.Flags {
		if f == FlagNoMatchingConditions {
			found = true
		}
	}
	if !found {
		t.Errorf("flags = %v, want %q present", got.Flags, FlagNoMatchingConditions)
	}
}

func TestEvaluate_IsPure(t *testing.T) {
	g := NewGate(testGateConfig())
	input := scored(0.5, 0.42, 0.1)

	first := g.Evaluate(input)
	second := g.Evaluate(input)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical input produced different results: %+v vs %+v", first, second)
	}
}

func TestEvaluate_RareConditionFlag(t *testing.T) {
	g := NewGate(testGateConfig())

	input := scored(0.8)
	input[0].IsRare = true
	got := g.Evaluate(input)

	found := false
	for _, f := range got.Flags {
		if f == FlagRareConditionCandidate {
			found = true
		}
	}
	if !found {
		t.Errorf("flags = %v, want %q present", got.Flags, FlagRareConditionCandidate)
	}
}
