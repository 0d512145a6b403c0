package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OrderQuoted      = "quoted"
	OrderConfirmed   = "confirmed"
	OrderDesigning   = "designing"
	OrderCutting     = "cutting"
	OrderSewing      = "sewing"
	OrderFitting     = "fitting"
	OrderAlterations = "alterations"
	OrderFinished    = "finished"
	OrderDelivered   = "delivered"
	OrderCancelled   = "cancelled"

	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"

	PaymentPending = "pending"
	PaymentPartial = "partial"
	PaymentPaid    = "paid"

	OrderNumberPrefix = "ORD"
)

// OrderPipeline lists the production statuses in board order, excluding the
// terminal delivered and cancelled states.
var OrderPipeline = []string{
	OrderQuoted,
	OrderConfirmed,
	OrderDesigning,
	OrderCutting,
	OrderSewing,
	OrderFitting,
	OrderAlterations,
	OrderFinished,
}

// ClosedOrderStatuses are the statuses that take an order off the board
var ClosedOrderStatuses = []string{OrderDelivered, OrderCancelled}

// TimelineEntry records one status the order passed through
type TimelineEntry struct {
	Status string    `json:"status"`
	Date   time.Time `json:"date"`
	Notes  string    `json:"notes,omitempty"`
}

// Order is a garment in production for a client
type Order struct {
	Base
	DesignerID    uuid.UUID                          `gorm:"type:uuid;not null;index" json:"designer_id"`
	ClientID      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client                            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	QuoteID       *uuid.UUID                         `gorm:"type:uuid;index" json:"quote_id,omitempty"` // set when converted from a quote
	MeasureID     *uuid.UUID                         `gorm:"type:uuid" json:"measure_id,omitempty"`
	OrderNumber   string                             `gorm:"uniqueIndex;not null" json:"order_number"`
	Title         string                             `gorm:"size:200;not null" json:"title"`
	GarmentType   string                             `json:"garment_type"`
	Description   string                             `gorm:"size:2000" json:"description"`
	Status        string                             `gorm:"not null;default:'confirmed';index" json:"status"`
	Priority      string                             `gorm:"not null;default:'normal'" json:"priority"` // low, normal, high, urgent
	StartDate     *time.Time                         `json:"start_date,omitempty"`
	DueDate       time.Time                          `gorm:"not null;index" json:"due_date"`
	DeliveredDate *time.Time                         `json:"delivered_date,omitempty"`
	TotalAmount   float64                            `gorm:"type:decimal(12,2);not null;default:0" json:"total_amount"`
	PaidAmount    float64                            `gorm:"type:decimal(12,2);not null;default:0" json:"paid_amount"`
	PaymentStatus string                             `gorm:"not null;default:'pending'" json:"payment_status"` // derived on every save
	Timeline      datatypes.JSONSlice[TimelineEntry] `json:"timeline"`
	Notes         string                             `gorm:"size:2000" json:"notes"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// BeforeSave derives the payment status and opens the timeline on first save
func (o *Order) BeforeSave(tx *gorm.DB) error {
	if o.Status == "" {
		o.Status = OrderConfirmed
	}
	if o.Priority == "" {
		o.Priority = PriorityNormal
	}
	if len(o.Timeline) == 0 {
		o.Timeline = datatypes.JSONSlice[TimelineEntry]{{Status: o.Status, Date: time.Now()}}
	}
	o.PaymentStatus = DerivePaymentStatus(o.PaidAmount, o.TotalAmount)
	return nil
}

// DerivePaymentStatus classifies how much of total has been paid
func DerivePaymentStatus(paid, total float64) string {
	p, t := decimal.NewFromFloat(paid), decimal.NewFromFloat(total)
	switch {
	case t.IsPositive() && p.GreaterThanOrEqual(t):
		return PaymentPaid
	case p.IsPositive() && p.LessThan(t):
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// ChangeStatus moves the order to status, appending a timeline entry when the
// status actually changes. Notes attach to the newest entry either way.
// It reports whether the status changed.
func (o *Order) ChangeStatus(status, notes string, at time.Time) bool {
	changed := status != "" && status != o.Status
	if changed {
		o.Status = status
		o.Timeline = append(o.Timeline, TimelineEntry{Status: status, Date: at})
		if status == OrderDelivered && o.DeliveredDate == nil {
			delivered := at
			o.DeliveredDate = &delivered
		}
	}
	if notes != "" && len(o.Timeline) > 0 {
		o.Timeline[len(o.Timeline)-1].Notes = notes
	}
	return changed
}

// Balance is the amount still owed on the order, never negative
func (o *Order) Balance() decimal.Decimal {
	b := decimal.NewFromFloat(o.TotalAmount).Sub(decimal.NewFromFloat(o.PaidAmount))
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// IsOpen reports whether the order is still in production
func (o *Order) IsOpen() bool {
	return o.Status != OrderDelivered && o.Status != OrderCancelled
}
