package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/utils"
)

// CatalogHandler handles symptom catalog administration. All write access is
// admin-only; the inference pipeline itself never writes catalog data.
type CatalogHandler struct {
	DB *gorm.DB
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{DB: db}
}

// CreateSymptomRequest represents the request body for creating a symptom.
type CreateSymptomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateSymptom handles adding a symptom to the catalog.
func (h *CatalogHandler) CreateSymptom(c *gin.Context) {
	var req CreateSymptomRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	symptom := models.Symptom{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&symptom).Error; err != nil {
		utils.InternalServerError(c, "Failed to create symptom: "+err.Error())
		return
	}
	utils.Created(c, "Symptom created successfully", symptom)
}

// GetSymptoms handles listing the symptom catalog.
func (h *CatalogHandler) GetSymptoms(c *gin.Context) {
	var symptoms []models.Symptom
	if err := h.DB.Order("name asc").Find(&symptoms).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch symptoms: "+err.Error())
		return
	}
	utils.Success(c, "Symptoms fetched successfully", symptoms)
}

// CreateConditionRequest represents the request body for creating a condition.
type CreateConditionRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Prevalence  float64 `json:"prevalence" binding:"required,gt=0,lte=1"`
	IsRare      bool    `json:"isRare"`
}

// CreateCondition handles adding a condition to the catalog.
func (h *CatalogHandler) CreateCondition(c *gin.Context) {
	var req CreateConditionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	condition := models.Condition{
		Name:        req.Name,
		Description: req.Description,
		Prevalence:  req.Prevalence,
		IsRare:      req.IsRare,
	}
	if err := h.DB.Create(&condition).Error; err != nil {
		utils.InternalServerError(c, "Failed to create condition: "+err.Error())
		return
	}
	utils.Created(c, "Condition created successfully", condition)
}

// GetConditions handles listing the condition catalog.
func (h *CatalogHandler) GetConditions(c *gin.Context) {
	var conditions []models.Condition
	if err := h.DB.Order("name asc").Find(&conditions).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch conditions: "+err.Error())
		return
	}
	utils.Success(c, "Conditions fetched successfully", conditions)
}

// CreateConditionSymptomRequest links a symptom to a condition with a weight.
type CreateConditionSymptomRequest struct {
	ConditionID string  `json:"conditionId" binding:"required,uuid"`
	SymptomID   string  `json:"symptomId" binding:"required,uuid"`
	Weight      float64 `json:"weight" binding:"required,gt=0"`
}

// CreateConditionSymptom handles adding symptom evidence for a condition.
func (h *CatalogHandler) CreateConditionSymptom(c *gin.Context) {
	var req CreateConditionSymptomRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.verifyCondition(c, req.ConditionID); err != nil {
		return
	}
	var symptom models.Symptom
	if err := h.DB.First(&symptom, "id = ?", req.SymptomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Symptom not found")
		} else {
			utils.InternalServerError(c, "Database error verifying symptom: "+err.Error())
		}
		return
	}

	link := models.ConditionSymptom{
		ConditionID: req.ConditionID,
		SymptomID:   req.SymptomID,
		Weight:      req.Weight,
	}
	if err := h.DB.Create(&link).Error; err != nil {
		utils.InternalServerError(c, "Failed to create condition symptom: "+err.Error())
		return
	}
	utils.Created(c, "Condition symptom created successfully", link)
}

// GetConditionSymptoms handles listing symptom evidence, optionally filtered
// by condition.
func (h *CatalogHandler) GetConditionSymptoms(c *gin.Context) {
	query := h.DB.Order("condition_id asc, weight desc")
	if conditionID := c.Query("conditionId"); conditionID != "" {
		query = query.Where("condition_id = ?", conditionID)
	}

	var links []models.ConditionSymptom
	if err := query.Find(&links).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch condition symptoms: "+err.Error())
		return
	}
	utils.Success(c, "Condition symptoms fetched successfully", links)
}

// CreateAliasRequest represents the request body for creating a condition alias.
type CreateAliasRequest struct {
	ConditionID string `json:"conditionId" binding:"required,uuid"`
	Alias       string `json:"alias" binding:"required"`
}

// CreateAlias handles adding a free-text alias for a condition.
func (h *CatalogHandler) CreateAlias(c *gin.Context) {
	var req CreateAliasRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.verifyCondition(c, req.ConditionID); err != nil {
		return
	}

	alias := models.ConditionAlias{ConditionID: req.ConditionID, Alias: req.Alias}
	if err := h.DB.Create(&alias).Error; err != nil {
		utils.InternalServerError(c, "Failed to create alias: "+err.Error())
		return
	}
	utils.Created(c, "Alias created successfully", alias)
}

// GetAliases handles listing condition aliases.
func (h *CatalogHandler) GetAliases(c *gin.Context) {
	var aliases []models.ConditionAlias
	if err := h.DB.Order("alias asc").Find(&aliases).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch aliases: "+err.Error())
		return
	}
	utils.Success(c, "Aliases fetched successfully", aliases)
}

// CreateDrugRecommendationRequest attaches a drug recommendation to a condition.
type CreateDrugRecommendationRequest struct {
	ConditionID string `json:"conditionId" binding:"required,uuid"`
	DrugName    string `json:"drugName" binding:"required"`
	Dosage      string `json:"dosage"`
	Notes       string `json:"notes"`
}

// CreateDrugRecommendation handles adding a drug recommendation.
func (h *CatalogHandler) CreateDrugRecommendation(c *gin.Context) {
	var req CreateDrugRecommendationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if err := h.verifyCondition(c, req.ConditionID); err != nil {
		return
	}

	drug := models.DrugRecommendation{
		ConditionID: req.ConditionID,
		DrugName:    req.DrugName,
		Dosage:      req.Dosage,
		Notes:       req.Notes,
	}
	if err := h.DB.Create(&drug).Error; err != nil {
		utils.InternalServerError(c, "Failed to create drug recommendation: "+err.Error())
		return
	}
	utils.Created(c, "Drug recommendation created successfully", drug)
}

// GetDrugRecommendations handles listing drug recommendations.
func (h *CatalogHandler) GetDrugRecommendations(c *gin.Context) {
	var drugs []models.DrugRecommendation
	if err := h.DB.Order("drug_name asc").Find(&drugs).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch drug recommendations: "+err.Error())
		return
	}
	utils.Success(c, "Drug recommendations fetched successfully", drugs)
}

// verifyCondition responds with an error and returns non-nil when the
// condition does not exist.
func (h *CatalogHandler) verifyCondition(c *gin.Context, conditionID string) error {
	var condition models.Condition
	err := h.DB.First(&condition, "id = ?", conditionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.NotFound(c, "Condition not found")
		return err
	}
	if err != nil {
		utils.InternalServerError(c, "Database error verifying condition: "+err.Error())
		return err
	}
	return nil
}
