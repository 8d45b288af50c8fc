package models

// DiagnosisStatus represents the review lifecycle state of a diagnosis session
type DiagnosisStatus string

const (
	DiagnosisPending     DiagnosisStatus = "pending"
	DiagnosisUnderReview DiagnosisStatus = "under_review"
	DiagnosisApproved    DiagnosisStatus = "approved"
	DiagnosisModified    DiagnosisStatus = "modified"
	DiagnosisRejected    DiagnosisStatus = "rejected"
)

// Terminal reports whether the status permits no further transitions.
func (s DiagnosisStatus) Terminal() bool {
	switch s {
	case DiagnosisApproved, DiagnosisModified, DiagnosisRejected:
		return true
	}
	return false
}

// RankScore is the scorer's output figure. It is a ranking heuristic, not a
// calibrated probability: values are not renormalized across conditions and
// do not sum to 1.
type RankScore float64

// Recommended actions emitted by the confidence gate.
const (
	ActionProceedWithAI       = "proceed_with_ai_recommendation"
	ActionProceedWithReview   = "proceed_with_doctor_review"
	ActionConsultDoctorDirect = "consult_doctor_directly"
)

// MatchedSymptom is one normalizer hit: a catalog symptom with a match score.
type MatchedSymptom struct {
	SymptomID string  `json:"symptomId"`
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
}

// DrugAdvice is the per-condition medication suggestion attached by the
// scorer. ConsultDoctor is set when the catalog has no recommendation.
type DrugAdvice struct {
	DrugName      string `json:"drugName,omitempty"`
	Dosage        string `json:"dosage,omitempty"`
	Notes         string `json:"notes,omitempty"`
	ConsultDoctor bool   `json:"consultDoctor"`
}

// ConditionResult is one ranked scorer entry.
type ConditionResult struct {
	ConditionID     string     `json:"conditionId"`
	Name            string     `json:"name"`
	Description     string     `json:"description"`
	Probability     RankScore  `json:"probability"`
	Prevalence      float64    `json:"prevalence"`
	IsRare          bool       `json:"isRare"`
	MatchedSymptoms int        `json:"matchedSymptoms"`
	Recommendation  DrugAdvice `json:"recommendation"`
}

// ConfidenceStats summarizes the scored list for the confidence gate.
type ConfidenceStats struct {
	Highest   float64 `json:"highest"`
	Average   float64 `json:"average"`
	Threshold float64 `json:"threshold"`
}

// GateResult is the confidence gate's decision for a scored list. Emergency
// presentations never reach the gate; they short-circuit in the pipeline
// service before scoring.
type GateResult struct {
	Passed            bool            `json:"passed"`
	Confidence        ConfidenceStats `json:"confidence"`
	RecommendedAction string          `json:"recommendedAction"`
	Flags             []string        `json:"flags,omitempty"`
}

// DiagnosisSession tracks one patient symptom submission through scoring and
// clinical review. Sessions are never physically deleted; terminal states are
// retained for audit.
type DiagnosisSession struct {
	BaseModel
	PatientID   string            `gorm:"size:36;index;not null" json:"patientId"`
	RawText     string            `gorm:"type:text" json:"rawText"`
	Locale      string            `gorm:"size:10" json:"locale,omitempty"`
	Symptoms    []MatchedSymptom  `gorm:"serializer:json" json:"symptoms"`
	Conditions  []ConditionResult `gorm:"serializer:json" json:"conditions"`
	Validation  GateResult        `gorm:"serializer:json" json:"validation"`
	Status      DiagnosisStatus   `gorm:"size:20;default:'pending';index" json:"status"`
	DoctorID    *string           `gorm:"size:36;index" json:"doctorId,omitempty"`
	DoctorNotes string            `gorm:"type:text" json:"doctorNotes,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
