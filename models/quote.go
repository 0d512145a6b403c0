package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	QuoteDraft    = "draft"
	QuoteSent     = "sent"
	QuoteAccepted = "accepted"
	QuoteRejected = "rejected"
	QuoteExpired  = "expired"

	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"

	QuoteNumberPrefix = "QUO"
)

var (
	ErrQuoteNotDraft    = errors.New("only draft quotes can be modified")
	ErrQuoteNotAccepted = errors.New("only accepted quotes can be converted to orders")
)

// QuoteItem is a single priced line of a quote
type QuoteItem struct {
	Description string  `json:"description" binding:"required,max=300"`
	Quantity    int     `json:"quantity" binding:"required,gte=1"`
	UnitPrice   float64 `json:"unit_price" binding:"gte=0"`
	Subtotal    float64 `json:"subtotal"`
}

// Quote is a priced proposal sent to a client
type Quote struct {
	Base
	DesignerID    uuid.UUID                      `gorm:"type:uuid;not null;index" json:"designer_id"`
	ClientID      uuid.UUID                      `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client                        `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	QuoteNumber   string                         `gorm:"uniqueIndex;not null" json:"quote_number"`
	Items         datatypes.JSONSlice[QuoteItem] `json:"items"`
	Subtotal      float64                        `gorm:"type:decimal(12,2);not null;default:0" json:"subtotal"`
	Discount      float64                        `gorm:"type:decimal(12,2);not null;default:0" json:"discount"`
	DiscountType  string                         `gorm:"not null;default:'fixed'" json:"discount_type"` // fixed or percentage
	Total         float64                        `gorm:"type:decimal(12,2);not null;default:0" json:"total"`
	Status        string                         `gorm:"not null;default:'draft';index" json:"status"`
	ValidUntil    *time.Time                     `json:"valid_until,omitempty"`
	GarmentType   string                         `json:"garment_type"`
	Description   string                         `gorm:"size:2000" json:"description"`
	Notes         string                         `gorm:"size:1000" json:"notes"`
	EstimatedDays *int                           `json:"estimated_days,omitempty"`
}

// TableName specifies the table name for the Quote model
func (Quote) TableName() string {
	return "quotes"
}

// BeforeSave recomputes every derived amount from the items and discount
func (q *Quote) BeforeSave(tx *gorm.DB) error {
	if q.Status == "" {
		q.Status = QuoteDraft
	}
	q.Recalculate()
	return nil
}

// Recalculate sets item subtotals, the quote subtotal and the discounted total.
// Caller-supplied subtotals and totals are ignored.
func (q *Quote) Recalculate() {
	if q.Items == nil {
		q.Items = datatypes.JSONSlice[QuoteItem]{}
	}
	if q.DiscountType == "" {
		q.DiscountType = DiscountFixed
	}

	subtotal := decimal.Zero
	for i := range q.Items {
		line := decimal.NewFromInt(int64(q.Items[i].Quantity)).Mul(decimal.NewFromFloat(q.Items[i].UnitPrice))
		q.Items[i].Subtotal = line.InexactFloat64()
		subtotal = subtotal.Add(line)
	}

	discount := decimal.NewFromFloat(q.Discount)
	if q.DiscountType == DiscountPercentage {
		discount = subtotal.Mul(discount).Div(decimal.NewFromInt(100))
	}

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	q.Subtotal = subtotal.InexactFloat64()
	q.Total = total.Round(2).InexactFloat64()
}

// IsDraft reports whether items and discount may still be edited
func (q *Quote) IsDraft() bool {
	return q.Status == QuoteDraft
}
