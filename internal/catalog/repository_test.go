package catalog

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"telehealth-app-server/internal/models"
)

func openSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := models.SeedCatalog(db); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	return db
}

func conditionByName(t *testing.T, db *gorm.DB, name string) *models.Condition {
	t.Helper()
	var condition models.Condition
	if err := db.First(&condition, "name = ?", name).Error; err != nil {
		t.Fatalf("condition %q: %v", name, err)
	}
	return &condition
}

func TestListSymptoms(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	symptoms, err := repo.ListSymptoms(context.Background())
	if err != nil {
		t.Fatalf("list symptoms: %v", err)
	}
	if len(symptoms) != 16 {
		t.Fatalf("symptoms = %d, want 16", len(symptoms))
	}
	for i := 1; i < len(symptoms); i++ {
		if symptoms[i-1].Name > symptoms[i].Name {
			t.Fatalf("symptoms not name-ordered: %q before %q", symptoms[i-1].Name, symptoms[i].Name)
		}
	}
}

func TestListAliases(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	aliases, err := repo.ListAliases(context.Background())
	if err != nil {
		t.Fatalf("list aliases: %v", err)
	}
	if len(aliases) != 4 {
		t.Fatalf("aliases = %d, want 4", len(aliases))
	}
	byAlias := make(map[string]string, len(aliases))
	for _, a := range aliases {
		byAlias[a.Alias] = a.ConditionID
	}
	flu := conditionByName(t, db, "Influenza")
	if byAlias["flu"] != flu.ID {
		t.Errorf("alias %q points to %q, want Influenza %q", "flu", byAlias["flu"], flu.ID)
	}
}

func TestTopSymptomsForCondition(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)
	flu := conditionByName(t, db, "Influenza")

	top, err := repo.TopSymptomsForCondition(context.Background(), flu.ID, 3)
	if err != nil {
		t.Fatalf("top symptoms: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("top symptoms = %d, want 3", len(top))
	}
	want := []string{"fever", "muscle aches", "fatigue"}
	for i, name := range want {
		if top[i].Name != name {
			t.Errorf("top[%d] = %q, want %q (weight-descending order)", i, top[i].Name, name)
		}
	}
}

func TestTopSymptomsForCondition_UnknownCondition(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	top, err := repo.TopSymptomsForCondition(context.Background(), "no-such-condition", 3)
	if err != nil {
		t.Fatalf("top symptoms: %v", err)
	}
	if len(top) != 0 {
		t.Errorf("top symptoms = %d, want 0", len(top))
	}
}

func TestEvidenceForSymptoms(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	var fever models.Symptom
	if err := db.First(&fever, "name = ?", "fever").Error; err != nil {
		t.Fatal(err)
	}

	links, err := repo.EvidenceForSymptoms(context.Background(), []string{fever.ID})
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	// fever links to Influenza and Strep Throat in the seed catalog
	if len(links) != 2 {
		t.Fatalf("links = %d, want 2", len(links))
	}
	for _, link := range links {
		if link.Condition.ID == "" {
			t.Error("condition not preloaded on evidence row")
		}
	}
}

func TestEvidenceForSymptoms_Empty(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	links, err := repo.EvidenceForSymptoms(context.Background(), nil)
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	if links != nil {
		t.Errorf("links = %v, want nil for empty input", links)
	}
}

func TestRecommendationForCondition(t *testing.T) {
	db := openSeededDB(t)
	repo := NewRepository(db)

	flu := conditionByName(t, db, "Influenza")
	drug, err := repo.RecommendationForCondition(context.Background(), flu.ID)
	if err != nil {
		t.Fatalf("recommendation: %v", err)
	}
	if drug == nil || drug.DrugName != "Oseltamivir" {
		t.Fatalf("recommendation = %+v, want Oseltamivir", drug)
	}

	// Strep Throat has no catalog recommendation; absence is not an error.
	strep := conditionByName(t, db, "Strep Throat")
	drug, err = repo.RecommendationForCondition(context.Background(), strep.ID)
	if err != nil {
		t.Fatalf("recommendation: %v", err)
	}
	if drug != nil {
		t.Errorf("recommendation = %+v, want nil", drug)
	}
}
