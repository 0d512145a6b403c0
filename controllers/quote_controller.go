package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/config"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/services"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateQuoteRequest represents the request body for creating a quote.
// Subtotals and totals are always computed by the server.
type CreateQuoteRequest struct {
	ClientID      uuid.UUID          `json:"client_id" binding:"required"`
	Items         []models.QuoteItem `json:"items" binding:"required,min=1,max=100,dive"`
	Discount      float64            `json:"discount" binding:"gte=0"`
	DiscountType  string             `json:"discount_type" binding:"omitempty,oneof=fixed percentage"`
	Status        string             `json:"status" binding:"omitempty,oneof=draft sent accepted rejected expired"`
	ValidUntil    *time.Time         `json:"valid_until"`
	GarmentType   string             `json:"garment_type" binding:"max=100"`
	Description   string             `json:"description" binding:"max=2000"`
	Notes         string             `json:"notes" binding:"max=1000"`
	EstimatedDays *int               `json:"estimated_days" binding:"omitempty,gte=1"`
}

// UpdateQuoteRequest represents the request body for updating a quote.
// Client, items and discount can only change while the quote is a draft.
type UpdateQuoteRequest struct {
	ClientID      *uuid.UUID          `json:"client_id"`
	Items         *[]models.QuoteItem `json:"items" binding:"omitempty,min=1,max=100,dive"`
	Discount      *float64            `json:"discount" binding:"omitempty,gte=0"`
	DiscountType  *string             `json:"discount_type" binding:"omitempty,oneof=fixed percentage"`
	Status        *string             `json:"status" binding:"omitempty,oneof=draft sent accepted rejected expired"`
	ValidUntil    *time.Time          `json:"valid_until"`
	GarmentType   *string             `json:"garment_type" binding:"omitempty,max=100"`
	Description   *string             `json:"description" binding:"omitempty,max=2000"`
	Notes         *string             `json:"notes" binding:"omitempty,max=1000"`
	EstimatedDays *int                `json:"estimated_days" binding:"omitempty,gte=1"`
}

func (r *UpdateQuoteRequest) touchesPricing() bool {
	return r.ClientID != nil || r.Items != nil || r.Discount != nil || r.DiscountType != nil
}

func findQuote(c *gin.Context, designerID uuid.UUID) (*models.Quote, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var quote models.Quote
	if err := db(c).Scopes(models.OwnedBy(designerID)).Preload("Client").First(&quote, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "QUOTE_NOT_FOUND", "Quote not found")
		return nil, false
	}
	return &quote, true
}

// ListQuotes handles GET /api/v1/quotes - lists quotes, newest first
func ListQuotes(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	page, limit := parsePagination(c)
	clientID, ok := parseOptionalUUID(c, "client_id")
	if !ok {
		return
	}

	query := db(c).Model(&models.Quote{}).Scopes(models.OwnedBy(designer.ID))
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count quotes", err)
		return
	}

	var quotes []models.Quote
	if err := query.Preload("Client").Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).Find(&quotes).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve quotes", err)
		return
	}

	respondList(c, quotes, newPagination(total, page, limit))
}

// GetQuote handles GET /api/v1/quotes/:id
func GetQuote(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, designer.ID)
	if !ok {
		return
	}

	respondData(c, http.StatusOK, quote)
}

// CreateQuote handles POST /api/v1/quotes - creates a quote with the next yearly number
func CreateQuote(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if !ownsClient(c, designer.ID, req.ClientID) {
		return
	}

	quote := models.Quote{
		DesignerID:    designer.ID,
		ClientID:      req.ClientID,
		Items:         datatypes.JSONSlice[models.QuoteItem](req.Items),
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
		Status:        req.Status,
		ValidUntil:    req.ValidUntil,
		GarmentType:   req.GarmentType,
		Description:   req.Description,
		Notes:         req.Notes,
		EstimatedDays: req.EstimatedDays,
	}

	err := db(c).Transaction(func(tx *gorm.DB) error {
		number, err := models.NextNumber(tx, models.QuoteNumberPrefix, now().Year())
		if err != nil {
			return err
		}
		quote.QuoteNumber = number
		return tx.Omit(clause.Associations).Create(&quote).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to create quote", err)
		return
	}

	if err := db(c).Preload("Client").First(&quote, "id = ?", quote.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load quote details", err)
		return
	}
	respondData(c, http.StatusCreated, quote)
}

// UpdateQuote handles PUT /api/v1/quotes/:id
func UpdateQuote(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.touchesPricing() && !quote.IsDraft() {
		respondError(c, http.StatusBadRequest, "QUOTE_NOT_DRAFT", models.ErrQuoteNotDraft.Error())
		return
	}

	if req.ClientID != nil && *req.ClientID != quote.ClientID {
		if !ownsClient(c, designer.ID, *req.ClientID) {
			return
		}
		quote.ClientID = *req.ClientID
	}
	if req.Items != nil {
		quote.Items = datatypes.JSONSlice[models.QuoteItem](*req.Items)
	}
	if req.Discount != nil {
		quote.Discount = *req.Discount
	}
	if req.DiscountType != nil {
		quote.DiscountType = *req.DiscountType
	}
	if req.Status != nil {
		quote.Status = *req.Status
	}
	if req.ValidUntil != nil {
		quote.ValidUntil = req.ValidUntil
	}
	if req.GarmentType != nil {
		quote.GarmentType = *req.GarmentType
	}
	if req.Description != nil {
		quote.Description = *req.Description
	}
	if req.Notes != nil {
		quote.Notes = *req.Notes
	}
	if req.EstimatedDays != nil {
		quote.EstimatedDays = req.EstimatedDays
	}

	if err := db(c).Omit(clause.Associations).Save(quote).Error; err != nil {
		respondDatabaseError(c, "Failed to update quote", err)
		return
	}

	if err := db(c).Preload("Client").First(quote, "id = ?", quote.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load quote details", err)
		return
	}
	respondData(c, http.StatusOK, quote)
}

// DeleteQuote handles DELETE /api/v1/quotes/:id - only drafts can be deleted
func DeleteQuote(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	quote, ok := findQuote(c, designer.ID)
	if !ok {
		return
	}
	if !quote.IsDraft() {
		respondError(c, http.StatusBadRequest, "QUOTE_NOT_DRAFT", "Only draft quotes can be deleted")
		return
	}

	if err := db(c).Delete(&models.Quote{}, "id = ?", quote.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to delete quote", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": quote.ID})
}

// QuoteStats is the dashboard summary of the designer's quotes
type QuoteStats struct {
	Total        int64   `json:"total"`
	Pending      int64   `json:"pending"`
	Accepted     int64   `json:"accepted"`
	ThisMonth    int64   `json:"this_month"`
	TotalRevenue float64 `json:"total_revenue"`
}

// GetQuoteStats handles GET /api/v1/quotes/stats
func GetQuoteStats(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	monthStart := startOfMonth(now())
	base := func() *gorm.DB {
		return db(c).Model(&models.Quote{}).Scopes(models.OwnedBy(designer.ID))
	}

	var stats QuoteStats
	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&stats.Total, base()},
		{&stats.Pending, base().Where("status = ?", models.QuoteSent)},
		{&stats.Accepted, base().Where("status = ?", models.QuoteAccepted)},
		{&stats.ThisMonth, base().Where("created_at >= ?", monthStart)},
	}
	for _, q := range counts {
		if err := q.query.Count(q.target).Error; err != nil {
			respondDatabaseError(c, "Failed to compute quote stats", err)
			return
		}
	}

	var totals []float64
	if err := base().Where("status = ?", models.QuoteAccepted).Pluck("total", &totals).Error; err != nil {
		respondDatabaseError(c, "Failed to compute quote revenue", err)
		return
	}
	revenue := decimal.Zero
	for _, t := range totals {
		revenue = revenue.Add(decimal.NewFromFloat(t))
	}
	stats.TotalRevenue = revenue.Round(2).InexactFloat64()

	respondData(c, http.StatusOK, stats)
}

// ConvertQuoteToOrder handles POST /api/v1/quotes/:id/convert-to-order - creates an
// order from an accepted quote
func ConvertQuoteToOrder(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := services.ConvertQuoteToOrder(c.Request.Context(), config.GetDB(), designer.ID, id, now())
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondError(c, http.StatusNotFound, "QUOTE_NOT_FOUND", "Quote not found")
		return
	case errors.Is(err, models.ErrQuoteNotAccepted):
		respondError(c, http.StatusBadRequest, "QUOTE_NOT_ACCEPTED", err.Error())
		return
	case err != nil:
		respondDatabaseError(c, "Failed to convert quote", err)
		return
	}

	if err := db(c).Preload("Client").First(order, "id = ?", order.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load order details", err)
		return
	}
	respondData(c, http.StatusCreated, order)
}
