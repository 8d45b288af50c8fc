package diagnosis

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/notify"
)

// Action is a review state machine transition name.
type Action string

const (
	ActionClaim   Action = "claim"
	ActionApprove Action = "approve"
	ActionModify  Action = "modify"
	ActionReject  Action = "reject"
)

// TransitionPayload carries the clinician's input for a transition.
type TransitionPayload struct {
	Medications   []models.Medication `json:"medications,omitempty"`
	DiagnosisText string              `json:"diagnosisText,omitempty"`
	Instructions  string              `json:"instructions,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Reason        string              `json:"reason,omitempty"`
}

// RoleChecker answers the doctor-role guard for transitions.
type RoleChecker interface {
	IsDoctor(ctx context.Context, userID string) (bool, error)
}

// UserRoles implements RoleChecker against the users table. It always reads
// current truth; role answers are never cached.
type UserRoles struct {
	db *gorm.DB
}

// NewUserRoles creates a UserRoles checker.
func NewUserRoles(db *gorm.DB) *UserRoles {
	return &UserRoles{db: db}
}

// IsDoctor reports whether the user holds the doctor role.
func (r *UserRoles) IsDoctor(ctx context.Context, userID string) (bool, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id", "role").First(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.Dependency("look up actor role", err)
	}
	return user.Role == models.RoleDoctor, nil
}

// ReviewService is the diagnosis session state machine:
// pending → under_review → {approved, modified, rejected}. Terminal states
// accept no further transitions. Every transition writes the session update,
// its side-effect records and exactly one audit entry inside a single
// transaction.
type ReviewService struct {
	db       *gorm.DB
	roles    RoleChecker
	notifier notify.Notifier
	log      *logger.Logger
}

// NewReviewService creates a ReviewService.
func NewReviewService(db *gorm.DB, roles RoleChecker, notifier notify.Notifier, log *logger.Logger) *ReviewService {
	return &ReviewService{db: db, roles: roles, notifier: notifier, log: log}
}

// Transition applies one review action to a session on behalf of a doctor.
// Concurrent transitions on the same session are serialized by an optimistic
// check on the current status (and owner, for claim): the loser observes
// zero affected rows and receives an InvalidStateError.
func (s *ReviewService) Transition(ctx context.Context, sessionID string, action Action, actorID string, payload TransitionPayload) (*models.DiagnosisSession, *models.AuditLogEntry, error) {
	isDoctor, err := s.roles.IsDoctor(ctx, actorID)
	if err != nil {
		return nil, nil, err
	}
	if !isDoctor {
		return nil, nil, apperrors.Authorization("only doctors may %s a diagnosis session", action)
	}

	if action == ActionReject && strings.TrimSpace(payload.Reason) == "" {
		return nil, nil, apperrors.Validation("a reason is required to reject a diagnosis")
	}
	if action == ActionModify && len(payload.Medications) == 0 {
		return nil, nil, apperrors.Validation("modified medications are required")
	}

	var (
		session models.DiagnosisSession
		audit   models.AuditLogEntry
	)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&session, "id = ?", sessionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("diagnosis session", sessionID)
			}
			return apperrors.Dependency("load diagnosis session", err)
		}

		if session.Status.Terminal() {
			return apperrors.InvalidState("session %s is already %s", sessionID, session.Status)
		}
		if session.Status == models.DiagnosisUnderReview && action != ActionClaim &&
			(session.DoctorID == nil || *session.DoctorID != actorID) {
			return apperrors.Authorization("session %s is under review by another doctor", sessionID)
		}

		switch action {
		case ActionClaim:
			return s.applyClaim(tx, &session, actorID, &audit)
		case ActionApprove:
			return s.applyDisposition(tx, &session, actorID, models.DiagnosisApproved, payload, &audit)
		case ActionModify:
			return s.applyDisposition(tx, &session, actorID, models.DiagnosisModified, payload, &audit)
		case ActionReject:
			return s.applyReject(tx, &session, actorID, payload, &audit)
		default:
			return apperrors.Validation("unknown transition action %q", action)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	s.notifyPatient(&session, action, payload)
	s.log.Info("diagnosis session transitioned",
		"sessionId", session.ID, "action", string(action), "doctorId", actorID, "status", session.Status)
	return &session, &audit, nil
}

// applyClaim moves pending → under_review and records ownership. The update
// is conditional on the session still being unowned and pending, so exactly
// one of two concurrent claims succeeds.
func (s *ReviewService) applyClaim(tx *gorm.DB, session *models.DiagnosisSession, actorID string, audit *models.AuditLogEntry) error {
	if session.Status != models.DiagnosisPending {
		return apperrors.InvalidState("only pending sessions can be claimed; session %s is %s", session.ID, session.Status)
	}

	res := tx.Model(&models.DiagnosisSession{}).
		Where("id = ? AND status = ? AND doctor_id IS NULL", session.ID, models.DiagnosisPending).
		Updates(map[string]interface{}{
			"status":    models.DiagnosisUnderReview,
			"doctor_id": actorID,
		})
	if res.Error != nil {
		return apperrors.Dependency("claim diagnosis session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.InvalidState("session %s was claimed by another doctor", session.ID)
	}

	session.Status = models.DiagnosisUnderReview
	session.DoctorID = &actorID

	*audit = models.AuditLogEntry{
		DiagnosisID: session.ID,
		ActorID:     actorID,
		Action:      models.AuditDiagnosisClaim,
	}
	return createAudit(tx, audit)
}

// applyDisposition moves the session to approved or modified and creates the
// prescription in the same transaction. If the prescription write fails the
// status update rolls back with it.
func (s *ReviewService) applyDisposition(tx *gorm.DB, session *models.DiagnosisSession, actorID string, target models.DiagnosisStatus, payload TransitionPayload, audit *models.AuditLogEntry) error {
	medications := payload.Medications
	if len(medications) == 0 {
		medications = suggestedMedications(session)
	}
	if len(medications) == 0 {
		return apperrors.Validation("no medications to prescribe; provide them explicitly or modify the diagnosis")
	}

	diagnosisText := payload.DiagnosisText
	if diagnosisText == "" && len(session.Conditions) > 0 {
		diagnosisText = session.Conditions[0].Name
	}

	res := tx.Model(&models.DiagnosisSession{}).
		Where("id = ? AND status = ?", session.ID, session.Status).
		Updates(map[string]interface{}{
			"status":       target,
			"doctor_id":    actorID,
			"doctor_notes": payload.Notes,
		})
	if res.Error != nil {
		return apperrors.Dependency("update diagnosis session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.InvalidState("session %s was transitioned concurrently", session.ID)
	}

	prescription := models.Prescription{
		DiagnosisID:   session.ID,
		DoctorID:      actorID,
		PatientID:     session.PatientID,
		Medications:   medications,
		DiagnosisText: diagnosisText,
		Instructions:  payload.Instructions,
		Status:        models.PrescriptionActive,
	}
	if err := tx.Create(&prescription).Error; err != nil {
		return apperrors.Dependency("create prescription", err)
	}

	session.Status = target
	session.DoctorID = &actorID
	session.DoctorNotes = payload.Notes

	auditAction := models.AuditDiagnosisApprove
	if target == models.DiagnosisModified {
		auditAction = models.AuditDiagnosisModify
	}
	*audit = models.AuditLogEntry{
		DiagnosisID: session.ID,
		ActorID:     actorID,
		Action:      auditAction,
		Details:     detailsJSON(map[string]interface{}{"prescriptionId": prescription.ID}),
	}
	return createAudit(tx, audit)
}

// applyReject moves the session to rejected. No prescription is created.
func (s *ReviewService) applyReject(tx *gorm.DB, session *models.DiagnosisSession, actorID string, payload TransitionPayload, audit *models.AuditLogEntry) error {
	res := tx.Model(&models.DiagnosisSession{}).
		Where("id = ? AND status = ?", session.ID, session.Status).
		Updates(map[string]interface{}{
			"status":       models.DiagnosisRejected,
			"doctor_id":    actorID,
			"doctor_notes": payload.Notes,
		})
	if res.Error != nil {
		return apperrors.Dependency("update diagnosis session", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.InvalidState("session %s was transitioned concurrently", session.ID)
	}

	session.Status = models.DiagnosisRejected
	session.DoctorID = &actorID
	session.DoctorNotes = payload.Notes

	*audit = models.AuditLogEntry{
		DiagnosisID: session.ID,
		ActorID:     actorID,
		Action:      models.AuditDiagnosisReject,
		Details:     detailsJSON(map[string]interface{}{"reason": payload.Reason}),
	}
	return createAudit(tx, audit)
}

func createAudit(tx *gorm.DB, audit *models.AuditLogEntry) error {
	if err := tx.Create(audit).Error; err != nil {
		return apperrors.Dependency("write audit entry", err)
	}
	return nil
}

// suggestedMedications derives a medication list from the AI's top-ranked
// condition when the doctor approved without supplying one.
func suggestedMedications(session *models.DiagnosisSession) []models.Medication {
	if len(session.Conditions) == 0 {
		return nil
	}
	rec := session.Conditions[0].Recommendation
	if rec.ConsultDoctor || rec.DrugName == "" {
		return nil
	}
	return []models.Medication{{
		Name:         rec.DrugName,
		Dosage:       rec.Dosage,
		Instructions: rec.Notes,
	}}
}

// notifyPatient fires the post-transition notification. Claim is internal to
// the review loop and stays silent toward the patient.
func (s *ReviewService) notifyPatient(session *models.DiagnosisSession, action Action, payload TransitionPayload) {
	switch action {
	case ActionApprove:
		s.notifier.Notify(session.PatientID, models.NotifyDiagnosisApproved,
			"Diagnosis approved",
			"A doctor has reviewed and approved your diagnosis. Your prescription is ready.",
			map[string]string{"diagnosisId": session.ID})
	case ActionModify:
		s.notifier.Notify(session.PatientID, models.NotifyDiagnosisModified,
			"Diagnosis updated",
			"A doctor has reviewed your diagnosis and adjusted the recommended treatment.",
			map[string]string{"diagnosisId": session.ID})
	case ActionReject:
		s.notifier.Notify(session.PatientID, models.NotifyDiagnosisRejected,
			"Consultation recommended",
			"A doctor has reviewed your symptoms and recommends booking a consultation.",
			map[string]string{"diagnosisId": session.ID, "reason": payload.Reason})
	}
}
