package models

// Audit actions recorded per diagnosis session event.
const (
	AuditDiagnosisCreate  = "diagnosis_create"
	AuditDiagnosisClaim   = "diagnosis_claim"
	AuditDiagnosisApprove = "diagnosis_approve"
	AuditDiagnosisModify  = "diagnosis_modify"
	AuditDiagnosisReject  = "diagnosis_reject"
	AuditEmergencyFlag    = "emergency_flag"
)

// AuditLogEntry is an append-only record of one diagnosis session event.
// Rows are never updated or deleted; every state transition writes exactly
// one entry before the transition is considered complete. DiagnosisID is
// empty for emergency flags, which never create a session.
type AuditLogEntry struct {
	BaseModel
	DiagnosisID string `gorm:"size:36;index" json:"diagnosisId,omitempty"`
	ActorID     string `gorm:"size:36;index;not null" json:"actorId"`
	Action      string `gorm:"size:50;not null" json:"action"`
	Details     string `gorm:"type:text" json:"details,omitempty"`
}
