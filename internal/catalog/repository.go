package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/models"
)

// Reader is the reference-data access surface consumed by the diagnosis
// pipeline. Read-only: the pipeline never writes catalog data.
type Reader interface {
	ListSymptoms(ctx context.Context) ([]models.Symptom, error)
	ListAliases(ctx context.Context) ([]models.ConditionAlias, error)
	TopSymptomsForCondition(ctx context.Context, conditionID string, limit int) ([]models.Symptom, error)
	EvidenceForSymptoms(ctx context.Context, symptomIDs []string) ([]models.ConditionSymptom, error)
	RecommendationForCondition(ctx context.Context, conditionID string) (*models.DrugRecommendation, error)
}

// Repository implements Reader over the gorm-managed catalog tables.
// Lookups are plain per-request reads; no caching, so the review guard and
// the pipeline always see current truth.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository over the given database.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListSymptoms returns every catalog symptom.
func (r *Repository) ListSymptoms(ctx context.Context) ([]models.Symptom, error) {
	var symptoms []models.Symptom
	if err := r.db.WithContext(ctx).Order("name asc").Find(&symptoms).Error; err != nil {
		return nil, apperrors.Dependency("list symptoms", err)
	}
	return symptoms, nil
}

// ListAliases returns every condition alias.
func (r *Repository) ListAliases(ctx context.Context) ([]models.ConditionAlias, error) {
	var aliases []models.ConditionAlias
	if err := r.db.WithContext(ctx).Find(&aliases).Error; err != nil {
		return nil, apperrors.Dependency("list condition aliases", err)
	}
	return aliases, nil
}

// TopSymptomsForCondition returns the condition's highest-weighted symptoms.
func (r *Repository) TopSymptomsForCondition(ctx context.Context, conditionID string, limit int) ([]models.Symptom, error) {
	var links []models.ConditionSymptom
	err := r.db.WithContext(ctx).
		Preload("Symptom").
		Where("condition_id = ?", conditionID).
		Order("weight desc").
		Limit(limit).
		Find(&links).Error
	if err != nil {
		return nil, apperrors.Dependency("top symptoms for condition", err)
	}
	symptoms := make([]models.Symptom, 0, len(links))
	for _, link := range links {
		symptoms = append(symptoms, link.Symptom)
	}
	return symptoms, nil
}

// EvidenceForSymptoms returns all condition-symptom rows referencing any of
// the given symptom ids, with their conditions preloaded. An empty result is
// valid: it means no condition explains any of the symptoms.
func (r *Repository) EvidenceForSymptoms(ctx context.Context, symptomIDs []string) ([]models.ConditionSymptom, error) {
	if len(symptomIDs) == 0 {
		return nil, nil
	}
	var links []models.ConditionSymptom
	err := r.db.WithContext(ctx).
		Preload("Condition").
		Where("symptom_id IN ?", symptomIDs).
		Find(&links).Error
	if err != nil {
		return nil, apperrors.Dependency("evidence for symptoms", err)
	}
	return links, nil
}

// RecommendationForCondition returns the first drug recommendation for the
// condition, or nil when the catalog has none.
func (r *Repository) RecommendationForCondition(ctx context.Context, conditionID string) (*models.DrugRecommendation, error) {
	var drug models.DrugRecommendation
	err := r.db.WithContext(ctx).
		Where("condition_id = ?", conditionID).
		Order("created_at asc").
		First(&drug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Dependency("recommendation for condition", err)
	}
	return &drug, nil
}
