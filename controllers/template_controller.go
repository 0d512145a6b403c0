package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/datatypes"
)

// CreateTemplateRequest represents the request body for a designer template
type CreateTemplateRequest struct {
	Name             string                 `json:"name" binding:"required,max=100"`
	Category         string                 `json:"category" binding:"omitempty,oneof=top bottom dress suit accessory other"`
	Icon             string                 `json:"icon" binding:"max=50"`
	Description      string                 `json:"description" binding:"max=500"`
	RequiredMeasures models.MeasureFieldSet `json:"required_measures"`
	OptionalMeasures models.MeasureFieldSet `json:"optional_measures"`
	DefaultFitType   string                 `json:"default_fit_type" binding:"omitempty,oneof=tight regular loose"`
	EstimatedDays    *int                   `json:"estimated_days" binding:"omitempty,gte=1"`
	BasePrice        *float64               `json:"base_price" binding:"omitempty,gte=0"`
	SortOrder        int                    `json:"sort_order"`
}

// UpdateTemplateRequest represents the request body for updating a designer template
type UpdateTemplateRequest struct {
	Name             *string                 `json:"name" binding:"omitempty,min=1,max=100"`
	Category         *string                 `json:"category" binding:"omitempty,oneof=top bottom dress suit accessory other"`
	Icon             *string                 `json:"icon" binding:"omitempty,max=50"`
	Description      *string                 `json:"description" binding:"omitempty,max=500"`
	RequiredMeasures *models.MeasureFieldSet `json:"required_measures"`
	OptionalMeasures *models.MeasureFieldSet `json:"optional_measures"`
	DefaultFitType   *string                 `json:"default_fit_type" binding:"omitempty,oneof=tight regular loose"`
	EstimatedDays    *int                    `json:"estimated_days" binding:"omitempty,gte=1"`
	BasePrice        *float64                `json:"base_price" binding:"omitempty,gte=0"`
	IsActive         *bool                   `json:"is_active"`
	SortOrder        *int                    `json:"sort_order"`
}

// validMeasureSets checks the field keys of both measure sets
func validMeasureSets(c *gin.Context, sets ...*models.MeasureFieldSet) bool {
	for _, set := range sets {
		if set == nil {
			continue
		}
		if err := set.Validate(); err != nil {
			respondErrorDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid measure fields", err.Error())
			return false
		}
	}
	return true
}

// findTemplate loads a template visible to the designer. With ownOnly set,
// system templates are reported as missing.
func findTemplate(c *gin.Context, designerID uuid.UUID, ownOnly bool) (*models.GarmentTemplate, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	scope := models.VisibleTemplates(designerID)
	if ownOnly {
		scope = models.DesignerTemplates(designerID)
	}

	var template models.GarmentTemplate
	if err := db(c).Scopes(scope).First(&template, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "TEMPLATE_NOT_FOUND", "Template not found")
		return nil, false
	}
	return &template, true
}

// ListTemplates handles GET /api/v1/templates
func ListTemplates(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	scope := models.VisibleTemplates(designer.ID)
	if !parseBoolQuery(c, "include_system", true) {
		scope = models.DesignerTemplates(designer.ID)
	}

	query := db(c).Scopes(scope).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var templates []models.GarmentTemplate
	if err := query.Order("scope DESC").Order("sort_order ASC").Order("name ASC").Find(&templates).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve templates", err)
		return
	}

	respondData(c, http.StatusOK, templates)
}

// GetTemplate handles GET /api/v1/templates/:id
func GetTemplate(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	template, ok := findTemplate(c, designer.ID, false)
	if !ok {
		return
	}

	respondData(c, http.StatusOK, template)
}

// CreateTemplate handles POST /api/v1/templates
func CreateTemplate(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validMeasureSets(c, &req.RequiredMeasures, &req.OptionalMeasures) {
		return
	}

	template := models.GarmentTemplate{
		Name:             req.Name,
		Category:         req.Category,
		Icon:             req.Icon,
		Description:      req.Description,
		RequiredMeasures: datatypes.NewJSONType(req.RequiredMeasures),
		OptionalMeasures: datatypes.NewJSONType(req.OptionalMeasures),
		DefaultFitType:   req.DefaultFitType,
		EstimatedDays:    7,
		BasePrice:        req.BasePrice,
		IsActive:         true,
		SortOrder:        req.SortOrder,
	}
	if template.Category == "" {
		template.Category = "other"
	}
	if template.DefaultFitType == "" {
		template.DefaultFitType = models.FitRegular
	}
	if req.EstimatedDays != nil {
		template.EstimatedDays = *req.EstimatedDays
	}
	template.SetOwner(models.DesignerOwner{DesignerID: designer.ID})

	if err := db(c).Create(&template).Error; err != nil {
		respondDatabaseError(c, "Failed to create template", err)
		return
	}

	respondData(c, http.StatusCreated, template)
}

// UpdateTemplate handles PUT /api/v1/templates/:id - designer templates only
func UpdateTemplate(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	template, ok := findTemplate(c, designer.ID, true)
	if !ok {
		return
	}

	var req UpdateTemplateRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validMeasureSets(c, req.RequiredMeasures, req.OptionalMeasures) {
		return
	}

	if req.Name != nil {
		template.Name = *req.Name
	}
	if req.Category != nil {
		template.Category = *req.Category
	}
	if req.Icon != nil {
		template.Icon = *req.Icon
	}
	if req.Description != nil {
		template.Description = *req.Description
	}
	if req.RequiredMeasures != nil {
		template.RequiredMeasures = datatypes.NewJSONType(*req.RequiredMeasures)
	}
	if req.OptionalMeasures != nil {
		template.OptionalMeasures = datatypes.NewJSONType(*req.OptionalMeasures)
	}
	if req.DefaultFitType != nil {
		template.DefaultFitType = *req.DefaultFitType
	}
	if req.EstimatedDays != nil {
		template.EstimatedDays = *req.EstimatedDays
	}
	if req.BasePrice != nil {
		template.BasePrice = req.BasePrice
	}
	if req.IsActive != nil {
		template.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		template.SortOrder = *req.SortOrder
	}

	if err := db(c).Save(template).Error; err != nil {
		respondDatabaseError(c, "Failed to update template", err)
		return
	}

	respondData(c, http.StatusOK, template)
}

// DeleteTemplate handles DELETE /api/v1/templates/:id - designer templates only
func DeleteTemplate(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	template, ok := findTemplate(c, designer.ID, true)
	if !ok {
		return
	}

	if err := db(c).Delete(template).Error; err != nil {
		respondDatabaseError(c, "Failed to delete template", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": template.ID})
}

// InitSystemTemplates handles POST /api/v1/templates/init-system - admin only
func InitSystemTemplates(c *gin.Context) {
	count, seeded, err := models.SeedSystemTemplates(db(c))
	if err != nil {
		respondDatabaseError(c, "Failed to seed system templates", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"count":  count,
		"seeded": seeded,
	})
}
