package diagnosis

import (
	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
)

// Gate flags set alongside the recommended action.
const (
	FlagNoMatchingConditions   = "no_matching_conditions"
	FlagRareConditionCandidate = "rare_condition_candidate"
)

// Gate applies the three-tier confidence policy over a scored condition list.
// The middle tier keeps weak-but-plausible output inside the clinician review
// loop instead of either hiding it or exposing it unsupervised.
type Gate struct {
	high float64
	min  float64
}

// NewGate creates a Gate from the configured thresholds.
func NewGate(cfg config.DiagnosisConfig) *Gate {
	return &Gate{high: cfg.HighThreshold, min: cfg.MinThreshold}
}

// Evaluate is a pure function of the scored list: identical confidence
// statistics always produce the identical recommended action. Both tier
// boundaries are inclusive: a highest score exactly at the high threshold
// proceeds with the AI recommendation, exactly at the minimum threshold
// proceeds to doctor review.
func (g *Gate) Evaluate(results []models.ConditionResult) models.GateResult {
	out := models.GateResult{
		Confidence: models.ConfidenceStats{Threshold: g.min},
	}

	if len(results) == 0 {
		out.RecommendedAction = models.ActionConsultDoctorDirect
		out.Flags = append(out.Flags, FlagNoMatchingConditions)
		return out
	}

	var highest, sum float64
	rare := false
	for _, r := range results {
		p := float64(r.Probability)
		sum += p
		if p > highest {
			highest = p
		}
		if r.IsRare {
			rare = true
		}
	}
	out.Confidence.Highest = highest
	out.Confidence.Average = round3(sum / float64(len(results)))

	switch {
	case highest >= g.high:
		out.Passed = true
		out.RecommendedAction = models.ActionProceedWithAI
	case highest >= g.min:
		out.Passed = true
		out.RecommendedAction = models.ActionProceedWithReview
	default:
		out.RecommendedAction = models.ActionConsultDoctorDirect
	}

	if rare {
		out.Flags = append(out.Flags, FlagRareConditionCandidate)
	}
	return out
}
