package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/gorm"
)

// MeasureRequest represents the request body for recording a measurement session
type MeasureRequest struct {
	Upper             models.UpperMeasures `json:"upper"`
	Arms              models.ArmMeasures   `json:"arms"`
	Pants             models.PantsMeasures `json:"pants"`
	Lower             models.LowerMeasures `json:"lower"`
	FitType           string               `json:"fit_type" binding:"omitempty,oneof=tight regular loose"`
	FabricType        string               `json:"fabric_type" binding:"max=100"`
	TechnicalNotes    string               `json:"technical_notes" binding:"max=2000"`
	Label             string               `json:"label" binding:"max=100"`
	ReferencePhotoURL string               `json:"reference_photo_url" binding:"omitempty,url"`
}

// UpdateMeasureRequest replaces the groups that are present and the scalar
// fields that are not null
type UpdateMeasureRequest struct {
	Upper             *models.UpperMeasures `json:"upper"`
	Arms              *models.ArmMeasures   `json:"arms"`
	Pants             *models.PantsMeasures `json:"pants"`
	Lower             *models.LowerMeasures `json:"lower"`
	FitType           *string               `json:"fit_type" binding:"omitempty,oneof=tight regular loose"`
	FabricType        *string               `json:"fabric_type" binding:"omitempty,max=100"`
	TechnicalNotes    *string               `json:"technical_notes" binding:"omitempty,max=2000"`
	Label             *string               `json:"label" binding:"omitempty,max=100"`
	ReferencePhotoURL *string               `json:"reference_photo_url" binding:"omitempty,max=500"`
	ChangeNote        string                `json:"change_note" binding:"max=300"`
}

// recentMeasure is a measure listed across clients
type recentMeasure struct {
	*models.Measure
	Client *models.ClientSummary `json:"client"`
}

// findMeasure loads a measure of the client, answering 404 otherwise
func findMeasure(c *gin.Context, client *models.Client) (*models.Measure, bool) {
	id, ok := parseID(c, "measureId")
	if !ok {
		return nil, false
	}

	var measure models.Measure
	err := db(c).Scopes(models.OwnedBy(client.DesignerID)).
		Where("client_id = ?", client.ID).
		First(&measure, "id = ?", id).Error
	if err != nil {
		respondLookupError(c, err, "MEASURE_NOT_FOUND", "Measure not found")
		return nil, false
	}
	return &measure, true
}

// ListMeasures handles GET /api/v1/clients/:id/measures - lists a client's measures, newest first
func ListMeasures(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var measures []models.Measure
	if err := db(c).Scopes(models.OwnedBy(designer.ID)).Where("client_id = ?", client.ID).
		Order("created_at DESC").Find(&measures).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve measures", err)
		return
	}

	respondData(c, http.StatusOK, measures)
}

// CreateMeasure handles POST /api/v1/clients/:id/measures - records a measurement session
func CreateMeasure(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var req MeasureRequest
	if !bindJSON(c, &req) {
		return
	}

	measure := models.Measure{
		ClientID:          client.ID,
		DesignerID:        designer.ID,
		Upper:             req.Upper,
		Arms:              req.Arms,
		Pants:             req.Pants,
		Lower:             req.Lower,
		FitType:           req.FitType,
		FabricType:        req.FabricType,
		TechnicalNotes:    req.TechnicalNotes,
		Label:             req.Label,
		ReferencePhotoURL: req.ReferencePhotoURL,
	}
	if err := db(c).Create(&measure).Error; err != nil {
		respondDatabaseError(c, "Failed to create measure", err)
		return
	}

	respondData(c, http.StatusCreated, measure)
}

// GetMeasure handles GET /api/v1/clients/:id/measures/:measureId
func GetMeasure(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}
	measure, ok := findMeasure(c, client)
	if !ok {
		return
	}

	respondData(c, http.StatusOK, measure)
}

// UpdateMeasure handles PUT /api/v1/clients/:id/measures/:measureId - updates a
// measure and records what changed
func UpdateMeasure(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}
	measure, ok := findMeasure(c, client)
	if !ok {
		return
	}

	var req UpdateMeasureRequest
	if !bindJSON(c, &req) {
		return
	}

	previous := *measure
	if req.Upper != nil {
		measure.Upper = *req.Upper
	}
	if req.Arms != nil {
		measure.Arms = *req.Arms
	}
	if req.Pants != nil {
		measure.Pants = *req.Pants
	}
	if req.Lower != nil {
		measure.Lower = *req.Lower
	}
	if req.FitType != nil {
		measure.FitType = *req.FitType
	}
	if req.FabricType != nil {
		measure.FabricType = *req.FabricType
	}
	if req.TechnicalNotes != nil {
		measure.TechnicalNotes = *req.TechnicalNotes
	}
	if req.Label != nil {
		measure.Label = *req.Label
	}
	if req.ReferencePhotoURL != nil {
		measure.ReferencePhotoURL = *req.ReferencePhotoURL
	}
	measure.RecordChanges(&previous, now(), req.ChangeNote)

	if err := db(c).Save(measure).Error; err != nil {
		respondDatabaseError(c, "Failed to update measure", err)
		return
	}

	respondData(c, http.StatusOK, measure)
}

// DeleteMeasure handles DELETE /api/v1/clients/:id/measures/:measureId
func DeleteMeasure(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}
	measure, ok := findMeasure(c, client)
	if !ok {
		return
	}

	if err := db(c).Delete(measure).Error; err != nil {
		respondDatabaseError(c, "Failed to delete measure", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": measure.ID})
}

// GetLatestMeasure handles GET /api/v1/clients/:id/measures/latest - data is null
// when the client has no measures yet
func GetLatestMeasure(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var measure models.Measure
	err := db(c).Scopes(models.OwnedBy(designer.ID)).Where("client_id = ?", client.ID).
		Order("created_at DESC").First(&measure).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondData(c, http.StatusOK, nil)
		return
	}
	if err != nil {
		respondDatabaseError(c, "Failed to load latest measure", err)
		return
	}

	respondData(c, http.StatusOK, measure)
}

// GetRecentMeasures handles GET /api/v1/measures/recent - newest measures across clients
func GetRecentMeasures(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	limit := queryLimit(c, 5, 20)

	var measures []models.Measure
	err := db(c).Table("measures").Select("measures.*").
		Joins("JOIN clients ON clients.id = measures.client_id AND clients.is_active = ?", true).
		Where("measures.designer_id = ?", designer.ID).
		Order("measures.created_at DESC").
		Limit(limit).
		Find(&measures).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve measures", err)
		return
	}

	clientIDs := make([]uuid.UUID, 0, len(measures))
	for _, m := range measures {
		clientIDs = append(clientIDs, m.ClientID)
	}
	var clients []models.Client
	if len(clientIDs) > 0 {
		if err := db(c).Scopes(models.OwnedBy(designer.ID)).Where("id IN ?", clientIDs).Find(&clients).Error; err != nil {
			respondDatabaseError(c, "Failed to retrieve clients", err)
			return
		}
	}
	byID := make(map[uuid.UUID]*models.Client, len(clients))
	for i := range clients {
		byID[clients[i].ID] = &clients[i]
	}

	result := make([]recentMeasure, 0, len(measures))
	for i := range measures {
		result = append(result, recentMeasure{Measure: &measures[i], Client: byID[measures[i].ClientID].Summary()})
	}

	respondData(c, http.StatusOK, result)
}
