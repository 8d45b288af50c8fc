package diagnosis

import (
	"testing"

	"gorm.io/gorm"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
)

func newTestService(db *gorm.DB, cfg config.DiagnosisConfig) *Service {
	return NewService(db, catalog.NewRepository(db), cfg, logger.NewNop())
}

func TestAnalyze_CreatesPendingSession(t *testing.T) {
	db := seededTestDB(t)
	patient := createUser(t, db, models.RolePatient)
	svc := newTestService(db, testGateConfig())

	age := 30
	got, err := svc.Analyze(testCtx, AnalyzeInput{
		PatientID: patient.ID,
		Text:      "I have a headache and fever since yesterday",
		Age:       &age,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.Emergency != nil {
		t.Fatalf("unexpected emergency payload: %+v", got.Emergency)
	}
	session := got.Session
	if session == nil || session.ID == "" {
		t.Fatal("expected a persisted session")
	}
	if session.Status != models.DiagnosisPending {
		t.Errorf("status = %s, want %s", session.Status, models.DiagnosisPending)
	}
	if len(session.Symptoms) == 0 {
		t.Error("expected matched symptoms on the session")
	}
	if len(session.Conditions) == 0 || session.Conditions[0].Name != "Influenza" {
		t.Errorf("conditions = %+v, want Influenza ranked first", session.Conditions)
	}
	if session.Validation.RecommendedAction == "" {
		t.Error("expected a recommended action from the gate")
	}

	var reloaded models.DiagnosisSession
	if err := db.First(&reloaded, "id = ?", session.ID).Error; err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if n := auditCount(t, db, session.ID, models.AuditDiagnosisCreate); n != 1 {
		t.Errorf("create audit entries = %d, want 1", n)
	}
}

func TestAnalyze_LowThresholdsReachAITier(t *testing.T) {
	db := seededTestDB(t)
	patient := createUser(t, db, models.RolePatient)
	cfg := config.DiagnosisConfig{HighThreshold: 0.1, MinThreshold: 0.05, EmergencyNumbers: []string{"911"}}
	svc := newTestService(db, cfg)

	age := 30
	got, err := svc.Analyze(testCtx, AnalyzeInput{
		PatientID: patient.ID,
		Text:      "headache and fever",
		Age:       &age,
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	action := got.Session.Validation.RecommendedAction
	if action != models.ActionProceedWithAI {
		t.Errorf("action = %q, want %q", action, models.ActionProceedWithAI)
	}
	if !got.Session.Validation.Passed {
		t.Error("expected the gate to pass at the AI tier")
	}
}

func TestAnalyze_NoMatchesStillCreatesSession(t *testing.T) {
	db := seededTestDB(t)
	patient := createUser(t, db, models.RolePatient)
	svc := newTestService(db, testGateConfig())

	got, err := svc.Analyze(testCtx, AnalyzeInput{
		PatientID: patient.ID,
		Text:      "zzzz qqqq unrecognizable complaint",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	session := got.Session
	if session == nil {
		t.Fatal("expected a session even without catalog matches")
	}
	if session.Validation.RecommendedAction != models.ActionConsultDoctorDirect {
		t.Errorf("action = %q, want %q", session.Validation.RecommendedAction, models.ActionConsultDoctorDirect)
	}
	if session.Validation.Passed {
		t.Error("no-match session must not pass the gate")
	}
}

func TestAnalyze_EmergencyShortCircuits(t *testing.T) {
	db := seededTestDB(t)
	patient := createUser(t, db, models.RolePatient)
	svc := newTestService(db, testGateConfig())

	got, err := svc.Analyze(testCtx, AnalyzeInput{
		PatientID: patient.ID,
		Text:      "sudden chest pain and shortness of breath",
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if got.Session != nil {
		t.Fatalf("emergency must not create a session, got %+v", got.Session)
	}
	if got.Emergency == nil {
		t.Fatal("expected an emergency payload")
	}
	if len(got.Emergency.Flags) == 0 || got.Emergency.Flags[0] != "cardiac_distress" {
		t.Errorf("flags = %v, want cardiac_distress", got.Emergency.Flags)
	}
	if len(got.Emergency.EmergencyNumbers) == 0 {
		t.Error("expected emergency contact numbers in the payload")
	}

	var sessions int64
	if err := db.Model(&models.DiagnosisSession{}).Count(&sessions).Error; err != nil {
		t.Fatal(err)
	}
	if sessions != 0 {
		t.Errorf("sessions = %d, want 0", sessions)
	}

	var audit models.AuditLogEntry
	if err := db.First(&audit, "action = ?", models.AuditEmergencyFlag).Error; err != nil {
		t.Fatalf("emergency audit entry not written: %v", err)
	}
	if audit.DiagnosisID != "" {
		t.Errorf("emergency audit diagnosis_id = %q, want empty", audit.DiagnosisID)
	}
	if audit.ActorID != patient.ID {
		t.Errorf("emergency audit actor = %q, want %q", audit.ActorID, patient.ID)
	}
}

func TestAnalyze_RejectsInvalidInput(t *testing.T) {
	db := seededTestDB(t)
	patient := createUser(t, db, models.RolePatient)
	svc := newTestService(db, testGateConfig())

	_, err := svc.Analyze(testCtx, AnalyzeInput{PatientID: patient.ID, Text: "   "})
	var valErr *apperrors.ValidationError
	if !errorsAs(err, &valErr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	var sessions int64
	if err := db.Model(&models.DiagnosisSession{}).Count(&sessions).Error; err != nil {
		t.Fatal(err)
	}
	if sessions != 0 {
		t.Errorf("sessions = %d, want 0", sessions)
	}
}
