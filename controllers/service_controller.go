package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
)

// CreateServiceRequest represents the request body for a catalog entry
type CreateServiceRequest struct {
	Name           string   `json:"name" binding:"required,max=100"`
	Description    string   `json:"description" binding:"max=500"`
	Category       string   `json:"category" binding:"omitempty,oneof=tailoring alterations design consulting other"`
	BasePrice      float64  `json:"base_price" binding:"gte=0"`
	PriceUnit      string   `json:"price_unit" binding:"omitempty,oneof=unit hour meter piece"`
	EstimatedHours *float64 `json:"estimated_hours" binding:"omitempty,gte=0"`
	EstimatedDays  *int     `json:"estimated_days" binding:"omitempty,gte=0"`
	SortOrder      int      `json:"sort_order"`
}

// UpdateServiceRequest represents the request body for updating a catalog entry
type UpdateServiceRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Description    *string  `json:"description" binding:"omitempty,max=500"`
	Category       *string  `json:"category" binding:"omitempty,oneof=tailoring alterations design consulting other"`
	BasePrice      *float64 `json:"base_price" binding:"omitempty,gte=0"`
	PriceUnit      *string  `json:"price_unit" binding:"omitempty,oneof=unit hour meter piece"`
	EstimatedHours *float64 `json:"estimated_hours" binding:"omitempty,gte=0"`
	EstimatedDays  *int     `json:"estimated_days" binding:"omitempty,gte=0"`
	IsActive       *bool    `json:"is_active"`
	SortOrder      *int     `json:"sort_order"`
}

func findService(c *gin.Context, designerID uuid.UUID) (*models.ServiceOffering, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.ServiceOffering
	if err := db(c).Scopes(models.OwnedBy(designerID)).First(&service, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "SERVICE_NOT_FOUND", "Service not found")
		return nil, false
	}
	return &service, true
}

// ListServices handles GET /api/v1/services - lists catalog entries, active ones by default
func ListServices(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	query := db(c).Scopes(models.OwnedBy(designer.ID)).
		Where("is_active = ?", parseBoolQuery(c, "is_active", true))
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.ServiceOffering
	if err := query.Order("sort_order ASC").Order("name ASC").Find(&services).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve services", err)
		return
	}

	respondData(c, http.StatusOK, services)
}

// GetService handles GET /api/v1/services/:id
func GetService(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	service, ok := findService(c, designer.ID)
	if !ok {
		return
	}

	respondData(c, http.StatusOK, service)
}

// CreateService handles POST /api/v1/services
func CreateService(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service := models.ServiceOffering{
		DesignerID:     designer.ID,
		Name:           req.Name,
		Description:    req.Description,
		Category:       req.Category,
		BasePrice:      req.BasePrice,
		PriceUnit:      req.PriceUnit,
		EstimatedHours: req.EstimatedHours,
		EstimatedDays:  req.EstimatedDays,
		IsActive:       true,
		SortOrder:      req.SortOrder,
	}
	if service.Category == "" {
		service.Category = "tailoring"
	}
	if service.PriceUnit == "" {
		service.PriceUnit = "unit"
	}

	if err := db(c).Create(&service).Error; err != nil {
		respondDatabaseError(c, "Failed to create service", err)
		return
	}

	respondData(c, http.StatusCreated, service)
}

// UpdateService handles PUT /api/v1/services/:id
func UpdateService(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	service, ok := findService(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.Category != nil {
		service.Category = *req.Category
	}
	if req.BasePrice != nil {
		service.BasePrice = *req.BasePrice
	}
	if req.PriceUnit != nil {
		service.PriceUnit = *req.PriceUnit
	}
	if req.EstimatedHours != nil {
		service.EstimatedHours = req.EstimatedHours
	}
	if req.EstimatedDays != nil {
		service.EstimatedDays = req.EstimatedDays
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	if req.SortOrder != nil {
		service.SortOrder = *req.SortOrder
	}

	if err := db(c).Save(service).Error; err != nil {
		respondDatabaseError(c, "Failed to update service", err)
		return
	}

	respondData(c, http.StatusOK, service)
}

// DeleteService handles DELETE /api/v1/services/:id
func DeleteService(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	service, ok := findService(c, designer.ID)
	if !ok {
		return
	}

	if err := db(c).Delete(service).Error; err != nil {
		respondDatabaseError(c, "Failed to delete service", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": service.ID})
}

// ServiceCategory groups the active catalog entries of one category
type ServiceCategory struct {
	Category string                   `json:"category"`
	Count    int                      `json:"count"`
	Services []models.ServiceOffering `json:"services"`
}

// GetServicesByCategory handles GET /api/v1/services/by-category - largest group first
func GetServicesByCategory(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var services []models.ServiceOffering
	if err := db(c).Scopes(models.OwnedBy(designer.ID)).Where("is_active = ?", true).
		Order("sort_order ASC").Order("name ASC").Find(&services).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve services", err)
		return
	}

	var groups []ServiceCategory
	index := make(map[string]int)
	for _, s := range services {
		i, seen := index[s.Category]
		if !seen {
			i = len(groups)
			index[s.Category] = i
			groups = append(groups, ServiceCategory{Category: s.Category})
		}
		groups[i].Services = append(groups[i].Services, s)
		groups[i].Count++
	}
	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].Count != groups[b].Count {
			return groups[a].Count > groups[b].Count
		}
		return groups[a].Category < groups[b].Category
	})
	if groups == nil {
		groups = []ServiceCategory{}
	}

	respondData(c, http.StatusOK, groups)
}
