package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

// Client is a person a designer takes measurements for and sews for
type Client struct {
	Base
	DesignerID uuid.UUID  `gorm:"type:uuid;not null;index" json:"designer_id"`
	Name       string     `gorm:"size:100;not null" json:"name"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
	Gender     string     `json:"gender"` // female, male, other or empty
	Birthdate  *time.Time `json:"birthdate,omitempty"`
	Notes      string     `gorm:"size:1000" json:"notes"`
	PhotoKey   string     `json:"-"`
	PhotoURL   string     `gorm:"-" json:"photo_url,omitempty"`
	IsActive   bool       `gorm:"not null;default:true;index" json:"is_active"`

	LatestMeasure *Measure `gorm:"-" json:"latest_measure,omitempty"`
	MeasuresCount *int64   `gorm:"-" json:"measures_count,omitempty"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// ClientSummary is the slice of a client embedded in other records' responses
type ClientSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Phone string    `json:"phone,omitempty"`
	Email string    `json:"email,omitempty"`
}

// Summary returns the compact view of the client
func (c *Client) Summary() *ClientSummary {
	if c == nil {
		return nil
	}
	return &ClientSummary{ID: c.ID, Name: c.Name, Phone: c.Phone, Email: c.Email}
}
