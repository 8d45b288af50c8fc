package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-app-server/internal/middleware"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/utils"
)

// PrescriptionHandler handles read access to prescriptions. Prescriptions
// are created exclusively by review transitions and never edited here.
type PrescriptionHandler struct {
	DB *gorm.DB
}

// NewPrescriptionHandler creates a new PrescriptionHandler.
func NewPrescriptionHandler(db *gorm.DB) *PrescriptionHandler {
	return &PrescriptionHandler{DB: db}
}

// GetPrescriptionsForUser lists prescriptions visible to the requesting
// user: patients see their own, doctors see those they authored, admins all.
func (h *PrescriptionHandler) GetPrescriptionsForUser(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	var prescriptions []models.Prescription
	query := h.DB.Order("created_at desc")

	var err error
	switch userRole {
	case models.RolePatient:
		err = query.Where("patient_id = ?", userID).Find(&prescriptions).Error
	case models.RoleDoctor:
		err = query.Where("doctor_id = ?", userID).Find(&prescriptions).Error
	case models.RoleAdmin:
		err = query.Find(&prescriptions).Error
	default:
		utils.Forbidden(c, "User role not permitted to view prescriptions")
		return
	}
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch prescriptions: "+err.Error())
		return
	}

	utils.Success(c, "Prescriptions fetched successfully", prescriptions)
}

// GetPrescriptionByID fetches a single prescription for its patient, its
// authoring doctor, or an admin.
func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	prescriptionID := c.Param("id")

	var prescription models.Prescription
	if err := h.DB.First(&prescription, "id = ?", prescriptionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Prescription not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	isOwner := userID == prescription.PatientID
	isAuthor := userRole == models.RoleDoctor && userID == prescription.DoctorID

	if userRole != models.RoleAdmin && !isOwner && !isAuthor {
		utils.Forbidden(c, "You are not authorized to view this prescription")
		return
	}

	utils.Success(c, "Prescription fetched successfully", prescription)
}
