package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-app-server/internal/diagnosis"
	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/utils"
)

// DiagnosisHandler handles symptom analysis and the clinical review flow.
type DiagnosisHandler struct {
	DB      *gorm.DB
	Service *diagnosis.Service
	Review  *diagnosis.ReviewService
}

// NewDiagnosisHandler creates a new DiagnosisHandler.
func NewDiagnosisHandler(db *gorm.DB, service *diagnosis.Service, review *diagnosis.ReviewService) *DiagnosisHandler {
	return &DiagnosisHandler{DB: db, Service: service, Review: review}
}

// AnalyzeRequest represents the request body for a symptom submission.
type AnalyzeRequest struct {
	SymptomsText string `json:"symptomsText" binding:"required"`
	Locale       string `json:"locale"`
	Age          *int   `json:"age" binding:"omitempty,gte=0,lte=130"`
	Gender       string `json:"gender"`
}

// Analyze handles a patient symptom submission: it runs the inference
// pipeline and creates a pending diagnosis session, or returns an emergency
// payload without creating one.
func (h *DiagnosisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patientID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "Patient ID not found in token")
		return
	}

	age := req.Age
	gender := req.Gender
	if age == nil || gender == "" {
		var patient models.User
		if err := h.DB.First(&patient, "id = ?", patientID).Error; err == nil {
			if age == nil {
				age = patient.Age(time.Now())
			}
			if gender == "" {
				gender = patient.Gender
			}
		}
	}

	result, err := h.Service.Analyze(c.Request.Context(), diagnosis.AnalyzeInput{
		PatientID: patientID,
		Text:      req.SymptomsText,
		Locale:    req.Locale,
		Age:       age,
		Gender:    gender,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	if result.Emergency != nil {
		utils.Success(c, "Emergency presentation detected", gin.H{
			"emergency": true,
			"payload":   result.Emergency,
		})
		return
	}

	utils.Created(c, "Diagnosis session created", patientSessionView(result.Session))
}

// GetDiagnoses lists the sessions visible to the requesting user: patients
// see their own, doctors see the review queue plus their claimed sessions,
// admins see everything.
func (h *DiagnosisHandler) GetDiagnoses(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var sessions []models.DiagnosisSession
	query := h.DB.Order("created_at desc")

	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&sessions).Error
	case models.RoleDoctor:
		err = query.Where("status = ? OR doctor_id = ?", models.DiagnosisPending, userID).Find(&sessions).Error
	case models.RoleAdmin:
		err = query.Find(&sessions).Error
	default:
		utils.Forbidden(c, "User role not permitted to view diagnosis sessions")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch diagnosis sessions: "+err.Error())
		return
	}

	if userRole == models.RolePatient {
		views := make([]gin.H, 0, len(sessions))
		for i := range sessions {
			views = append(views, patientSessionView(&sessions[i]))
		}
		utils.Success(c, "Diagnosis sessions fetched successfully", views)
		return
	}
	utils.Success(c, "Diagnosis sessions fetched successfully", sessions)
}

// GetDiagnosisByID fetches a single session. Patients only see their own,
// through the patient view; doctors and admins get the full record.
func (h *DiagnosisHandler) GetDiagnosisByID(c *gin.Context) {
	sessionID := c.Param("id")

	var session models.DiagnosisSession
	if err := h.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Diagnosis session not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	switch {
	case userRole == models.RoleDoctor || userRole == models.RoleAdmin:
		utils.Success(c, "Diagnosis session fetched successfully", session)
	case userID == session.PatientID:
		utils.Success(c, "Diagnosis session fetched successfully", patientSessionView(&session))
	default:
		utils.Forbidden(c, "You are not authorized to view this diagnosis session")
	}
}

// ClaimDiagnosis handles a doctor claiming a pending session for review.
func (h *DiagnosisHandler) ClaimDiagnosis(c *gin.Context) {
	h.transition(c, diagnosis.ActionClaim)
}

// ApproveDiagnosis handles a doctor approving a session, which issues the
// prescription.
func (h *DiagnosisHandler) ApproveDiagnosis(c *gin.Context) {
	h.transition(c, diagnosis.ActionApprove)
}

// ModifyDiagnosis handles a doctor replacing the AI suggestion with their
// own medication plan.
func (h *DiagnosisHandler) ModifyDiagnosis(c *gin.Context) {
	h.transition(c, diagnosis.ActionModify)
}

// RejectDiagnosis handles a doctor rejecting a session; the patient is
// directed to book a consultation instead.
func (h *DiagnosisHandler) RejectDiagnosis(c *gin.Context) {
	h.transition(c, diagnosis.ActionReject)
}

func (h *DiagnosisHandler) transition(c *gin.Context, action diagnosis.Action) {
	actorID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User ID not found in token")
		return
	}

	var payload diagnosis.TransitionPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	session, audit, err := h.Review.Transition(c.Request.Context(), c.Param("id"), action, actorID, payload)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	utils.Success(c, "Diagnosis session transitioned successfully", gin.H{
		"session":    session,
		"auditEntry": audit,
	})
}

// patientSessionView hides the scored conditions from the patient unless the
// confidence gate cleared them for direct AI recommendation. Sessions in the
// review tier surface only their status until a clinician disposes them.
func patientSessionView(session *models.DiagnosisSession) gin.H {
	view := gin.H{
		"id":                session.ID,
		"status":            session.Status,
		"symptoms":          session.Symptoms,
		"recommendedAction": session.Validation.RecommendedAction,
		"flags":             session.Validation.Flags,
		"createdAt":         session.CreatedAt,
		"updatedAt":         session.UpdatedAt,
	}
	if session.Validation.RecommendedAction == models.ActionProceedWithAI {
		view["conditions"] = session.Conditions
		view["confidence"] = session.Validation.Confidence
	}
	return view
}
