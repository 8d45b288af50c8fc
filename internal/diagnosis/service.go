package diagnosis

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"telehealth-app-server/internal/apperrors"
	"telehealth-app-server/internal/catalog"
	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/logger"
	"telehealth-app-server/internal/models"
)

// AnalyzeInput is one patient symptom submission.
type AnalyzeInput struct {
	PatientID string
	Text      string
	Locale    string
	Age       *int
	Gender    string
}

// EmergencyPayload is returned instead of a session when the submission
// matches a high-severity presentation.
type EmergencyPayload struct {
	Warning          string   `json:"warning"`
	Flags            []string `json:"flags"`
	EmergencyNumbers []string `json:"emergencyNumbers"`
}

// AnalyzeResult carries either a persisted pending session or an emergency
// payload, never both.
type AnalyzeResult struct {
	Session   *models.DiagnosisSession `json:"session,omitempty"`
	Emergency *EmergencyPayload        `json:"emergency,omitempty"`
}

// Service runs the normalize → score → gate pipeline and persists the
// resulting diagnosis session. Each call is an independent unit of work over
// shared read-only reference data.
type Service struct {
	db         *gorm.DB
	normalizer *Normalizer
	scorer     *Scorer
	gate       *Gate
	cfg        config.DiagnosisConfig
	log        *logger.Logger
}

// NewService wires the pipeline stages over one catalog reader.
func NewService(db *gorm.DB, reader catalog.Reader, cfg config.DiagnosisConfig, log *logger.Logger) *Service {
	return &Service{
		db:         db,
		normalizer: NewNormalizer(reader),
		scorer:     NewScorer(reader),
		gate:       NewGate(cfg),
		cfg:        cfg,
		log:        log,
	}
}

// Normalizer exposes the symptom normalizer stage.
func (s *Service) Normalizer() *Normalizer { return s.normalizer }

// Scorer exposes the condition scorer stage.
func (s *Service) Scorer() *Scorer { return s.scorer }

// Gate exposes the confidence gate stage.
func (s *Service) Gate() *Gate { return s.gate }

// Analyze runs the full pipeline for one submission. Emergency presentations
// short-circuit: no session is created, only an emergency audit record, and
// the caller receives the warning payload with emergency contact numbers.
// A submission with no catalog matches still creates a session routed to the
// consult-a-doctor tier so a clinician can follow up.
func (s *Service) Analyze(ctx context.Context, in AnalyzeInput) (*AnalyzeResult, error) {
	matched, err := s.normalizer.Normalize(ctx, in.Text, in.Locale)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(matched))
	ids := make([]string, 0, len(matched))
	for _, m := range matched {
		names = append(names, m.Name)
		ids = append(ids, m.SymptomID)
	}

	if emergency, flags := DetectEmergency(in.Text, names); emergency {
		return s.flagEmergency(ctx, in, flags)
	}

	var results []models.ConditionResult
	if len(ids) > 0 {
		results, err = s.scorer.Score(ctx, ids, in.Age, in.Gender)
		if err != nil {
			return nil, err
		}
	}

	validation := s.gate.Evaluate(results)

	session := models.DiagnosisSession{
		PatientID:  in.PatientID,
		RawText:    in.Text,
		Locale:     in.Locale,
		Symptoms:   matched,
		Conditions: results,
		Validation: validation,
		Status:     models.DiagnosisPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&session).Error; err != nil {
			return err
		}
		audit := models.AuditLogEntry{
			DiagnosisID: session.ID,
			ActorID:     in.PatientID,
			Action:      models.AuditDiagnosisCreate,
			Details:     detailsJSON(map[string]interface{}{"recommendedAction": validation.RecommendedAction}),
		}
		return tx.Create(&audit).Error
	})
	if err != nil {
		return nil, apperrors.Dependency("create diagnosis session", err)
	}

	s.log.Info("diagnosis session created",
		"sessionId", session.ID,
		"patientId", in.PatientID,
		"action", validation.RecommendedAction,
		"highest", validation.Confidence.Highest)

	return &AnalyzeResult{Session: &session}, nil
}

// flagEmergency records the presentation in the audit log and returns the
// warning payload. No diagnosis session is created.
func (s *Service) flagEmergency(ctx context.Context, in AnalyzeInput, flags []string) (*AnalyzeResult, error) {
	audit := models.AuditLogEntry{
		ActorID: in.PatientID,
		Action:  models.AuditEmergencyFlag,
		Details: detailsJSON(map[string]interface{}{"flags": flags}),
	}
	if err := s.db.WithContext(ctx).Create(&audit).Error; err != nil {
		return nil, apperrors.Dependency("record emergency flag", err)
	}

	s.log.Warn("emergency presentation flagged", "patientId", in.PatientID, "flags", flags)

	return &AnalyzeResult{
		Emergency: &EmergencyPayload{
			Warning:          "Your symptoms may indicate a medical emergency. Seek immediate care or call an emergency number now.",
			Flags:            flags,
			EmergencyNumbers: s.cfg.EmergencyNumbers,
		},
	}, nil
}

func detailsJSON(v map[string]interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
