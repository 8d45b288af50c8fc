package models

// PrescriptionStatus represents the status of a prescription
type PrescriptionStatus string

const (
	PrescriptionActive    PrescriptionStatus = "active"
	PrescriptionCancelled PrescriptionStatus = "cancelled"
)

// Medication is a single prescribed item.
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency,omitempty"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is the artifact produced by an approve or modify transition of
// a diagnosis session. Read-only to the patient-facing surface thereafter.
type Prescription struct {
	BaseModel
	DiagnosisID   string             `gorm:"size:36;uniqueIndex;not null" json:"diagnosisId"`
	DoctorID      string             `gorm:"size:36;index;not null" json:"doctorId"`
	PatientID     string             `gorm:"size:36;index;not null" json:"patientId"`
	Medications   []Medication       `gorm:"serializer:json" json:"medications"`
	DiagnosisText string             `gorm:"type:text" json:"diagnosisText"`
	Instructions  string             `gorm:"type:text" json:"instructions"`
	Status        PrescriptionStatus `gorm:"size:20;default:'active'" json:"status"`

	// Relations
	Doctor  User `gorm:"foreignKey:DoctorID" json:"-"`
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
