package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AppointmentMeasurement = "measurement"
	DefaultAppointmentMins = 60

	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// ReminderFlags marks which reminders a designer asked for.
// Nothing in the API dispatches them.
type ReminderFlags struct {
	Email24h    bool `json:"email_24h"`
	Email2h     bool `json:"email_2h"`
	WhatsApp24h bool `json:"whatsapp_24h"`
	WhatsApp2h  bool `json:"whatsapp_2h"`
}

// Appointment is a scheduled session with a client
type Appointment struct {
	Base
	DesignerID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"designer_id"`
	ClientID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"client_id"`
	Client        *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Title         string        `gorm:"size:100;not null" json:"title"`
	Type          string        `gorm:"not null;default:'measurement'" json:"type"` // measurement, fitting, delivery, consultation, other
	Date          time.Time     `gorm:"not null;index" json:"date"`
	Duration      int           `gorm:"not null;default:60" json:"duration"` // minutes, 15 to 480
	Status        string        `gorm:"not null;default:'pending'" json:"status"`
	Notes         string        `gorm:"size:500" json:"notes"`
	Reminders     ReminderFlags `gorm:"embedded;embeddedPrefix:reminder_" json:"reminders"`
	RemindersSent ReminderFlags `gorm:"embedded;embeddedPrefix:reminder_sent_" json:"reminders_sent"`
}

// TableName specifies the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// BeforeSave fills the defaults the database would otherwise apply,
// so the saved struct matches the row
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	if a.Type == "" {
		a.Type = AppointmentMeasurement
	}
	if a.Duration == 0 {
		a.Duration = DefaultAppointmentMins
	}
	if a.Status == "" {
		a.Status = AppointmentPending
	}
	return nil
}
