package models

// Symptom is a catalog entry for a single observable complaint. Reference
// data: created and managed by catalog administrators, never by the
// inference pipeline.
type Symptom struct {
	BaseModel
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Condition is a catalog entry for a candidate diagnosis. Prevalence is the
// prior probability of the condition absent any symptom evidence.
type Condition struct {
	BaseModel
	Name        string  `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Prevalence  float64 `gorm:"not null" json:"prevalence"`
	IsRare      bool    `gorm:"default:false" json:"isRare"`

	// Relations
	Symptoms []ConditionSymptom   `gorm:"foreignKey:ConditionID" json:"-"`
	Aliases  []ConditionAlias     `gorm:"foreignKey:ConditionID" json:"-"`
	Drugs    []DrugRecommendation `gorm:"foreignKey:ConditionID" json:"-"`
}

// ConditionSymptom links a symptom to a condition with an evidentiary weight.
// Weight is a relative strength, not a normalized probability.
type ConditionSymptom struct {
	BaseModel
	ConditionID string  `gorm:"size:36;index;not null" json:"conditionId"`
	SymptomID   string  `gorm:"size:36;index;not null" json:"symptomId"`
	Weight      float64 `gorm:"not null" json:"weight"`

	// Relations
	Condition Condition `gorm:"foreignKey:ConditionID" json:"-"`
	Symptom   Symptom   `gorm:"foreignKey:SymptomID" json:"-"`
}

// ConditionAlias is a free-text synonym for a condition. When an alias is
// found verbatim in patient input, the condition's top weighted symptoms are
// injected as partial-confidence evidence.
type ConditionAlias struct {
	BaseModel
	ConditionID string `gorm:"size:36;index;not null" json:"conditionId"`
	Alias       string `gorm:"size:255;index;not null" json:"alias"`

	// Relations
	Condition Condition `gorm:"foreignKey:ConditionID" json:"-"`
}

// DrugRecommendation is the primary medication suggestion attached to a
// scored condition. Advisory only: it reaches the patient solely through an
// approved or modified prescription.
type DrugRecommendation struct {
	BaseModel
	ConditionID string `gorm:"size:36;index;not null" json:"conditionId"`
	DrugName    string `gorm:"size:255;not null" json:"drugName"`
	Dosage      string `gorm:"size:255" json:"dosage"`
	Notes       string `gorm:"type:text" json:"notes"`

	// Relations
	Condition Condition `gorm:"foreignKey:ConditionID" json:"-"`
}
