package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultLeadDays is the production time assumed when a quote gives none
const DefaultLeadDays = 14

// ConvertQuoteToOrder creates a confirmed order from an accepted quote owned by
// designerID. It returns gorm.ErrRecordNotFound when the quote is missing or
// belongs to another designer and models.ErrQuoteNotAccepted for any other
// status. Converting the same quote twice creates two orders.
func ConvertQuoteToOrder(ctx context.Context, db *gorm.DB, designerID, quoteID uuid.UUID, now time.Time) (*models.Order, error) {
	var order *models.Order

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quote models.Quote
		if err := tx.Scopes(models.OwnedBy(designerID)).Preload("Client").First(&quote, "id = ?", quoteID).Error; err != nil {
			return err
		}
		if quote.Status != models.QuoteAccepted {
			return models.ErrQuoteNotAccepted
		}

		number, err := models.NextNumber(tx, models.OrderNumberPrefix, now.Year())
		if err != nil {
			return err
		}

		days := DefaultLeadDays
		if quote.EstimatedDays != nil && *quote.EstimatedDays > 0 {
			days = *quote.EstimatedDays
		}

		title := quote.GarmentType
		if title == "" {
			name := "client"
			if quote.Client != nil {
				name = quote.Client.Name
			}
			title = "Order for " + name
		}

		quoteRef := quote.ID
		order = &models.Order{
			DesignerID:  designerID,
			ClientID:    quote.ClientID,
			QuoteID:     &quoteRef,
			OrderNumber: number,
			Title:       title,
			GarmentType: quote.GarmentType,
			Description: quote.Description,
			Status:      models.OrderConfirmed,
			Priority:    models.PriorityNormal,
			DueDate:     now.AddDate(0, 0, days),
			TotalAmount: quote.Total,
			Timeline: datatypes.JSONSlice[models.TimelineEntry]{
				{Status: models.OrderConfirmed, Date: now, Notes: "Created from quote " + quote.QuoteNumber},
			},
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}
