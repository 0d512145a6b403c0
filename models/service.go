package models

import "github.com/google/uuid"

// ServiceOffering is a reusable priced entry in a designer's catalog,
// used to prefill quote lines
type ServiceOffering struct {
	Base
	DesignerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"designer_id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	Description    string    `gorm:"size:500" json:"description"`
	Category       string    `gorm:"not null;default:'tailoring'" json:"category"` // tailoring, alterations, design, consulting, other
	BasePrice      float64   `gorm:"type:decimal(12,2);not null;default:0" json:"base_price"`
	PriceUnit      string    `gorm:"not null;default:'unit'" json:"price_unit"` // unit, hour, meter, piece
	EstimatedHours *float64  `json:"estimated_hours,omitempty"`
	EstimatedDays  *int      `json:"estimated_days,omitempty"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	SortOrder      int       `gorm:"not null;default:0" json:"sort_order"`
}

// TableName specifies the table name for the ServiceOffering model
func (ServiceOffering) TableName() string {
	return "services"
}
