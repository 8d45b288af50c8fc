package diagnosis

import (
	"strings"
	"testing"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/models"
)

func scoreOf(matches []models.MatchedSymptom, name string) (float64, bool) {
	for _, m := range matches {
		if m.Name == name {
			return m.Score, true
		}
	}
	return 0, false
}

func TestNormalize_VerbatimMatches(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	matches, err := n.Normalize(testCtx, "I have a headache and a fever since yesterday", "en")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for _, name := range []string{"headache", "fever"} {
		score, ok := scoreOf(matches, name)
		if !ok {
			t.Fatalf("expected %q in matches, got %v", name, matches)
		}
		if score != 1.0 {
			t.Errorf("score for %q = %v, want 1.0", name, score)
		}
	}
}

func TestNormalize_NoMatchIsValid(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	matches, err := n.Normalize(testCtx, "xyzzy plugh quux", "en")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %v", matches)
	}
}

func TestNormalize_EmptyCatalog(t *testing.T) {
	db := openTestDB(t) // no seed
	n := NewNormalizer(catalog.NewRepository(db))

	matches, err := n.Normalize(testCtx, "headache and fever", "en")
	if err != nil {
		t.Fatalf("Normalize with empty catalog: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result from empty catalog, got %v", matches)
	}
}

func TestNormalize_AliasInjectsTopSymptoms(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	// "flu" is an alias for Influenza, whose top weighted symptoms are
	// fever, muscle aches and fatigue. None are named directly.
	matches, err := n.Normalize(testCtx, "I think I caught the flu", "en")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for _, name := range []string{"fever", "muscle aches", "fatigue"} {
		score, ok := scoreOf(matches, name)
		if !ok {
			t.Fatalf("expected alias-injected symptom %q, got %v", name, matches)
		}
		if score != 0.56 {
			t.Errorf("alias-injected score for %q = %v, want 0.56", name, score)
		}
	}
}

func TestNormalize_AliasBoostsExistingMatch(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	// fever matches verbatim at 1.0; the flu alias corroborates it, and the
	// boost caps at 1.0 instead of duplicating the entry.
	matches, err := n.Normalize(testCtx, "fever and the flu", "en")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	feverCount := 0
	for _, m := range matches {
		if m.Name == "fever" {
			feverCount++
			if m.Score != 1.0 {
				t.Errorf("boosted fever score = %v, want capped 1.0", m.Score)
			}
		}
	}
	if feverCount != 1 {
		t.Errorf("fever appears %d times, want deduplicated single entry", feverCount)
	}
}

func TestNormalize_SortedAndCapped(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	text := "headache fever cough fatigue nausea vomiting diarrhea dizziness sneezing " +
		"sore throat runny nose muscle aches abdominal pain"
	matches, err := n.Normalize(testCtx, text, "en")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(matches) != 10 {
		t.Fatalf("got %d matches, want capped at 10", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted by score: %v before %v", matches[i-1], matches[i])
		}
	}
}

func TestNormalize_InputValidation(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t "},
		{"oversized", strings.Repeat("a", 10001)},
		{"oversized multibyte", strings.Repeat("ö", 10001)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(testCtx, tt.text, "en")
			var vErr *apperrors.ValidationError
			if !errorsAs(err, &vErr) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestNormalize_LengthLimitCountsRunes(t *testing.T) {
	db := seededTestDB(t)
	n := NewNormalizer(catalog.NewRepository(db))

	// 10,000 two-byte runes exceed the limit in bytes but not in characters.
	text := strings.Repeat("ö", 10000)
	if _, err := n.Normalize(testCtx, text, "de"); err != nil {
		t.Fatalf("Normalize rejected %d-rune input: %v", 10000, err)
	}
}
