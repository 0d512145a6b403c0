package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/utils"
	"gorm.io/gorm"
)

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	Name      string     `json:"name" binding:"required,max=100"`
	Phone     string     `json:"phone" binding:"max=30"`
	Email     string     `json:"email" binding:"omitempty,email"`
	Gender    string     `json:"gender" binding:"omitempty,oneof=female male other"`
	Birthdate *time.Time `json:"birthdate"`
	Notes     string     `json:"notes" binding:"max=1000"`
}

// UpdateClientRequest represents the request body for updating a client.
// Omitted fields keep their value.
type UpdateClientRequest struct {
	Name      *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Phone     *string    `json:"phone" binding:"omitempty,max=30"`
	Email     *string    `json:"email" binding:"omitempty,email"`
	Gender    *string    `json:"gender" binding:"omitempty,oneof=female male other"`
	Birthdate *time.Time `json:"birthdate"`
	Notes     *string    `json:"notes" binding:"omitempty,max=1000"`
}

// findClient loads an active client of the designer, answering 404 otherwise
func findClient(c *gin.Context, designerID uuid.UUID, param string) (*models.Client, bool) {
	id, ok := parseID(c, param)
	if !ok {
		return nil, false
	}

	var client models.Client
	err := db(c).Scopes(models.OwnedBy(designerID)).
		Where("is_active = ?", true).
		First(&client, "id = ?", id).Error
	if err != nil {
		respondLookupError(c, err, "CLIENT_NOT_FOUND", "Client not found")
		return nil, false
	}
	return &client, true
}

// ListClients handles GET /api/v1/clients - lists the designer's active clients
func ListClients(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	page, limit := parsePagination(c)

	query := db(c).Model(&models.Client{}).
		Scopes(models.OwnedBy(designer.ID)).
		Where("is_active = ?", true)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count clients", err)
		return
	}

	var clients []models.Client
	if err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&clients).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve clients", err)
		return
	}

	if err := attachLatestMeasures(db(c), designer.ID, clients); err != nil {
		respondDatabaseError(c, "Failed to retrieve measures", err)
		return
	}
	for i := range clients {
		clients[i].PhotoURL = imageURL(c, clients[i].PhotoKey)
	}

	respondList(c, clients, newPagination(total, page, limit))
}

// attachLatestMeasures sets LatestMeasure on each client with one query
func attachLatestMeasures(tx *gorm.DB, designerID uuid.UUID, clients []models.Client) error {
	if len(clients) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(clients))
	for i := range clients {
		ids[i] = clients[i].ID
	}

	var measures []models.Measure
	err := tx.Scopes(models.OwnedBy(designerID)).
		Where("client_id IN ?", ids).
		Order("created_at DESC").
		Find(&measures).Error
	if err != nil {
		return err
	}

	latest := make(map[uuid.UUID]*models.Measure, len(clients))
	for i := range measures {
		if _, seen := latest[measures[i].ClientID]; !seen {
			latest[measures[i].ClientID] = &measures[i]
		}
	}
	for i := range clients {
		clients[i].LatestMeasure = latest[clients[i].ID]
	}
	return nil
}

// GetClient handles GET /api/v1/clients/:id - gets a client with its measurement totals
func GetClient(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var count int64
	if err := db(c).Model(&models.Measure{}).Scopes(models.OwnedBy(designer.ID)).
		Where("client_id = ?", client.ID).Count(&count).Error; err != nil {
		respondDatabaseError(c, "Failed to count measures", err)
		return
	}
	client.MeasuresCount = &count

	if count > 0 {
		var latest models.Measure
		if err := db(c).Scopes(models.OwnedBy(designer.ID)).Where("client_id = ?", client.ID).
			Order("created_at DESC").First(&latest).Error; err != nil {
			respondDatabaseError(c, "Failed to load latest measure", err)
			return
		}
		client.LatestMeasure = &latest
	}
	client.PhotoURL = imageURL(c, client.PhotoKey)

	respondData(c, http.StatusOK, client)
}

// CreateClient handles POST /api/v1/clients - creates a client
func CreateClient(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client := models.Client{
		DesignerID: designer.ID,
		Name:       strings.TrimSpace(req.Name),
		Phone:      req.Phone,
		Email:      models.NormalizeEmail(req.Email),
		Gender:     req.Gender,
		Birthdate:  req.Birthdate,
		Notes:      req.Notes,
		IsActive:   true,
	}
	if err := db(c).Create(&client).Error; err != nil {
		respondDatabaseError(c, "Failed to create client", err)
		return
	}

	respondData(c, http.StatusCreated, client)
}

// UpdateClient handles PUT /api/v1/clients/:id - updates a client
func UpdateClient(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		client.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		client.Phone = *req.Phone
	}
	if req.Email != nil {
		client.Email = models.NormalizeEmail(*req.Email)
	}
	if req.Gender != nil {
		client.Gender = *req.Gender
	}
	if req.Birthdate != nil {
		client.Birthdate = req.Birthdate
	}
	if req.Notes != nil {
		client.Notes = *req.Notes
	}

	if err := db(c).Save(client).Error; err != nil {
		respondDatabaseError(c, "Failed to update client", err)
		return
	}
	client.PhotoURL = imageURL(c, client.PhotoKey)

	respondData(c, http.StatusOK, client)
}

// DeleteClient handles DELETE /api/v1/clients/:id - removes a client and all of its measures
func DeleteClient(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	var removed int64
	err := db(c).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(models.OwnedBy(designer.ID)).Where("client_id = ?", client.ID).Delete(&models.Measure{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return tx.Delete(client).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to delete client", err)
		return
	}
	discardImage(c, client.PhotoKey)

	respondData(c, http.StatusOK, gin.H{
		"id":               client.ID,
		"deleted_measures": removed,
	})
}

// UploadClientPhoto handles POST /api/v1/clients/:id/photo - replaces the client photo
func UploadClientPhoto(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	client, ok := findClient(c, designer.ID, "id")
	if !ok {
		return
	}

	key, ok := uploadImage(c, "photo", utils.PhotoPolicy, "client")
	if !ok {
		return
	}

	previous := client.PhotoKey
	if err := db(c).Model(client).Update("photo_key", key).Error; err != nil {
		discardImage(c, key)
		respondDatabaseError(c, "Failed to save photo", err)
		return
	}
	discardImage(c, previous)

	client.PhotoKey = key
	client.PhotoURL = imageURL(c, key)
	respondData(c, http.StatusOK, client)
}
