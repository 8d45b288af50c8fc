package diagnosis

import (
	"context"
	"math"
	"sort"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/models"
)

const (
	// maxScoredSymptoms bounds the symptom-id set the scorer accepts.
	maxScoredSymptoms = 50
	// maxRankedConditions is how many conditions the scorer returns.
	maxRankedConditions = 3

	minorAgeLimit  = 18
	seniorAgeFloor = 65

	minorAdjustment  = 0.8
	seniorAdjustment = 1.2
)

// consultPlaceholder is attached when the catalog carries no drug
// recommendation for a condition.
var consultPlaceholder = models.DrugAdvice{
	ConsultDoctor: true,
	Notes:         "No standard recommendation available; consult a clinician for treatment options.",
}

// Scorer aggregates per-condition evidence from matched symptoms into a
// ranked list of condition results.
type Scorer struct {
	catalog catalog.Reader
}

// NewScorer creates a Scorer over the given catalog reader.
func NewScorer(reader catalog.Reader) *Scorer {
	return &Scorer{catalog: reader}
}

// Score ranks candidate conditions for the given symptom-id set. Age shifts
// the score for minors and seniors; gender is accepted but applies no
// adjustment under the current policy. An empty result means no condition
// references any input symptom, which is a valid outcome, not an error.
//
// Probability is a RankScore: evidence strength is normalized by how many
// symptoms the caller supplied, not by how many the condition lists, and the
// product with prevalence and the age factor is never renormalized across
// conditions. A 2-of-2 match therefore scores as strongly as a 2-of-8 match.
func (s *Scorer) Score(ctx context.Context, symptomIDs []string, age *int, gender string) ([]models.ConditionResult, error) {
	if len(symptomIDs) == 0 {
		return nil, apperrors.Validation("at least one symptom id is required")
	}
	if len(symptomIDs) > maxScoredSymptoms {
		return nil, apperrors.Validation("at most %d symptom ids are accepted", maxScoredSymptoms)
	}
	_ = gender // recorded on the session, no scoring rule uses it yet

	evidence, err := s.catalog.EvidenceForSymptoms(ctx, symptomIDs)
	if err != nil {
		return nil, err
	}
	if len(evidence) == 0 {
		return nil, nil
	}

	type accumulator struct {
		condition models.Condition
		weight    float64
		matched   int
	}
	byCondition := make(map[string]*accumulator)
	for _, row := range evidence {
		acc, ok := byCondition[row.ConditionID]
		if !ok {
			acc = &accumulator{condition: row.Condition}
			byCondition[row.ConditionID] = acc
		}
		acc.weight += row.Weight
		acc.matched++
	}

	adjustment := ageAdjustment(age)
	results := make([]models.ConditionResult, 0, len(byCondition))
	for _, acc := range byCondition {
		likelihood := acc.weight / float64(len(symptomIDs))
		if likelihood > 1.0 {
			likelihood = 1.0
		}
		probability := round3(likelihood * acc.condition.Prevalence * adjustment)
		results = append(results, models.ConditionResult{
			ConditionID:     acc.condition.ID,
			Name:            acc.condition.Name,
			Description:     acc.condition.Description,
			Probability:     models.RankScore(probability),
			Prevalence:      acc.condition.Prevalence,
			IsRare:          acc.condition.IsRare,
			MatchedSymptoms: acc.matched,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Probability != results[j].Probability {
			return results[i].Probability > results[j].Probability
		}
		return results[i].Name < results[j].Name
	})
	if len(results) > maxRankedConditions {
		results = results[:maxRankedConditions]
	}

	for i := range results {
		drug, err := s.catalog.RecommendationForCondition(ctx, results[i].ConditionID)
		if err != nil {
			return nil, err
		}
		if drug == nil {
			results[i].Recommendation = consultPlaceholder
			continue
		}
		results[i].Recommendation = models.DrugAdvice{
			DrugName: drug.DrugName,
			Dosage:   drug.Dosage,
			Notes:    drug.Notes,
		}
	}
	return results, nil
}

// ageAdjustment shifts scores for minors and seniors; unknown age is neutral.
func ageAdjustment(age *int) float64 {
	switch {
	case age == nil:
		return 1.0
	case *age < minorAgeLimit:
		return minorAdjustment
	case *age > seniorAgeFloor:
		return seniorAdjustment
	default:
		return 1.0
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
