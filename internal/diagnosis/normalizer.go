package diagnosis

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/models"
)

const (
	// maxInputChars bounds free-text submissions.
	maxInputChars = 10000
	// overlapCutoff is the minimum token-overlap score for a symptom match.
	overlapCutoff = 0.3
	// aliasEvidenceScore is assigned to symptoms injected via a condition
	// alias hit; partial confidence, below a verbatim name match.
	aliasEvidenceScore = 0.56
	// aliasBoost is added to a symptom already matched directly when an
	// alias corroborates it, capped at 1.0.
	aliasBoost = 0.2
	// aliasTopSymptoms is how many of a condition's highest-weighted
	// symptoms an alias hit injects.
	aliasTopSymptoms = 3
	// maxMatches caps the normalizer output.
	maxMatches = 10
)

// Normalizer turns free-text complaints into ranked catalog symptom matches.
type Normalizer struct {
	catalog catalog.Reader
}

// NewNormalizer creates a Normalizer over the given catalog reader.
func NewNormalizer(reader catalog.Reader) *Normalizer {
	return &Normalizer{catalog: reader}
}

// Normalize matches the input text against the symptom catalog and returns a
// deduplicated, score-descending list capped at maxMatches entries. An empty
// result is a valid outcome, not an error; the confidence gate routes it to
// its consult-a-doctor tier. The locale tag is carried for future
// multi-locale catalogs; matching is currently locale-independent.
func (n *Normalizer) Normalize(ctx context.Context, text, locale string) ([]models.MatchedSymptom, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, apperrors.Validation("symptom text must not be empty")
	}
	if utf8.RuneCountInString(trimmed) > maxInputChars {
		return nil, apperrors.Validation("symptom text exceeds %d characters", maxInputChars)
	}

	normalized := strings.ToLower(trimmed)
	inputTokens := strings.Fields(normalized)

	symptoms, err := n.catalog.ListSymptoms(ctx)
	if err != nil {
		return nil, err
	}

	matched := make(map[string]*models.MatchedSymptom)
	for _, symptom := range symptoms {
		score := matchScore(normalized, inputTokens, symptom.Name)
		if score > overlapCutoff {
			matched[symptom.ID] = &models.MatchedSymptom{
				SymptomID: symptom.ID,
				Name:      symptom.Name,
				Score:     score,
			}
		}
	}

	if err := n.applyAliases(ctx, normalized, matched); err != nil {
		return nil, err
	}

	results := make([]models.MatchedSymptom, 0, len(matched))
	for _, m := range matched {
		results = append(results, *m)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Name < results[j].Name
	})
	if len(results) > maxMatches {
		results = results[:maxMatches]
	}
	return results, nil
}

// applyAliases scans condition aliases against the text and injects each hit
// condition's top weighted symptoms as partial-confidence evidence. Symptoms
// already matched are boosted instead of duplicated.
func (n *Normalizer) applyAliases(ctx context.Context, normalized string, matched map[string]*models.MatchedSymptom) error {
	aliases, err := n.catalog.ListAliases(ctx)
	if err != nil {
		return err
	}

	seenConditions := make(map[string]bool)
	for _, alias := range aliases {
		if !strings.Contains(normalized, strings.ToLower(alias.Alias)) {
			continue
		}
		if seenConditions[alias.ConditionID] {
			continue
		}
		seenConditions[alias.ConditionID] = true

		top, err := n.catalog.TopSymptomsForCondition(ctx, alias.ConditionID, aliasTopSymptoms)
		if err != nil {
			return err
		}
		for _, symptom := range top {
			if existing, ok := matched[symptom.ID]; ok {
				existing.Score = capScore(existing.Score + aliasBoost)
				continue
			}
			matched[symptom.ID] = &models.MatchedSymptom{
				SymptomID: symptom.ID,
				Name:      symptom.Name,
				Score:     aliasEvidenceScore,
			}
		}
	}
	return nil
}

// matchScore scores one catalog symptom against the input: 1.0 for a verbatim
// name occurrence, otherwise the token overlap ratio
// matchCount / max(|inputTokens|, |symptomTokens|).
func matchScore(normalized string, inputTokens []string, symptomName string) float64 {
	name := strings.ToLower(symptomName)
	if strings.Contains(normalized, name) {
		return 1.0
	}

	symptomTokens := strings.Fields(name)
	if len(symptomTokens) == 0 || len(inputTokens) == 0 {
		return 0
	}
	matchCount := 0
	for _, st := range symptomTokens {
		for _, it := range inputTokens {
			if strings.Contains(it, st) || strings.Contains(st, it) {
				matchCount++
				break
			}
		}
	}
	denom := len(inputTokens)
	if len(symptomTokens) > denom {
		denom = len(symptomTokens)
	}
	return float64(matchCount) / float64(denom)
}

func capScore(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
