package models

import "time"

// Notification kinds sent by the review state machine.
const (
	NotifyDiagnosisApproved = "diagnosis_approved"
	NotifyDiagnosisModified = "diagnosis_modified"
	NotifyDiagnosisRejected = "diagnosis_rejected"
)

// Notification is a stored message for a user. Delivery to push or e-mail
// channels happens outside this service; the core only records and
// fire-and-forgets.
type Notification struct {
	BaseModel
	UserID  string            `gorm:"size:36;index;not null" json:"userId"`
	Kind    string            `gorm:"size:50;not null" json:"kind"`
	Title   string            `gorm:"size:255" json:"title"`
	Message string            `gorm:"type:text" json:"message"`
	Payload map[string]string `gorm:"serializer:json" json:"payload,omitempty"`
	ReadAt  *time.Time        `json:"readAt,omitempty"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}
