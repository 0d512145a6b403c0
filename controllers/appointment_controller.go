package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateAppointmentRequest represents the request body for scheduling an appointment
type CreateAppointmentRequest struct {
	ClientID  uuid.UUID            `json:"client_id" binding:"required"`
	Title     string               `json:"title" binding:"required,max=100"`
	Type      string               `json:"type" binding:"omitempty,oneof=measurement fitting delivery consultation other"`
	Date      time.Time            `json:"date" binding:"required"`
	Duration  int                  `json:"duration" binding:"omitempty,gte=15,lte=480"`
	Status    string               `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes     string               `json:"notes" binding:"max=500"`
	Reminders models.ReminderFlags `json:"reminders"`
}

// UpdateAppointmentRequest represents the request body for updating an appointment.
// Omitted fields keep their value.
type UpdateAppointmentRequest struct {
	ClientID  *uuid.UUID            `json:"client_id"`
	Title     *string               `json:"title" binding:"omitempty,min=1,max=100"`
	Type      *string               `json:"type" binding:"omitempty,oneof=measurement fitting delivery consultation other"`
	Date      *time.Time            `json:"date"`
	Duration  *int                  `json:"duration" binding:"omitempty,gte=15,lte=480"`
	Status    *string               `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes     *string               `json:"notes" binding:"omitempty,max=500"`
	Reminders *models.ReminderFlags `json:"reminders"`
}

func findAppointment(c *gin.Context, designerID uuid.UUID) (*models.Appointment, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var appointment models.Appointment
	if err := db(c).Scopes(models.OwnedBy(designerID)).Preload("Client").First(&appointment, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "APPOINTMENT_NOT_FOUND", "Appointment not found")
		return nil, false
	}
	return &appointment, true
}

// ownsClient reports whether clientID is an active client of the designer,
// answering 404 when it is not
func ownsClient(c *gin.Context, designerID, clientID uuid.UUID) bool {
	var count int64
	err := db(c).Model(&models.Client{}).Scopes(models.OwnedBy(designerID)).
		Where("id = ? AND is_active = ?", clientID, true).Count(&count).Error
	if err != nil {
		respondDatabaseError(c, "Failed to verify client", err)
		return false
	}
	if count == 0 {
		respondError(c, http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found")
		return false
	}
	return true
}

// ListAppointments handles GET /api/v1/appointments - filters by date range, status and client
func ListAppointments(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	start, ok := parseDateQuery(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateQuery(c, "end_date")
	if !ok {
		return
	}
	clientID, ok := parseOptionalUUID(c, "client_id")
	if !ok {
		return
	}

	query := db(c).Scopes(models.OwnedBy(designer.ID)).Preload("Client")
	if start != nil {
		query = query.Where("date >= ?", *start)
	}
	if end != nil {
		query = query.Where("date <= ?", *end)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}

	var appointments []models.Appointment
	if err := query.Order("date ASC").Find(&appointments).Error; err != nil {
		respondDatabaseError(c, "Failed to retrieve appointments", err)
		return
	}

	respondData(c, http.StatusOK, appointments)
}

// GetAppointment handles GET /api/v1/appointments/:id
func GetAppointment(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	appointment, ok := findAppointment(c, designer.ID)
	if !ok {
		return
	}

	respondData(c, http.StatusOK, appointment)
}

// CreateAppointment handles POST /api/v1/appointments - schedules an appointment
func CreateAppointment(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !ownsClient(c, designer.ID, req.ClientID) {
		return
	}

	appointment := models.Appointment{
		DesignerID: designer.ID,
		ClientID:   req.ClientID,
		Title:      req.Title,
		Type:       req.Type,
		Date:       req.Date,
		Duration:   req.Duration,
		Status:     req.Status,
		Notes:      req.Notes,
		Reminders:  req.Reminders,
	}
	if err := db(c).Omit(clause.Associations).Create(&appointment).Error; err != nil {
		respondDatabaseError(c, "Failed to create appointment", err)
		return
	}

	respondData(c, http.StatusCreated, appointment)
}

// UpdateAppointment handles PUT /api/v1/appointments/:id
func UpdateAppointment(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	appointment, ok := findAppointment(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.ClientID != nil && *req.ClientID != appointment.ClientID {
		if !ownsClient(c, designer.ID, *req.ClientID) {
			return
		}
		appointment.ClientID = *req.ClientID
		appointment.Client = nil
	}
	if req.Title != nil {
		appointment.Title = *req.Title
	}
	if req.Type != nil {
		appointment.Type = *req.Type
	}
	if req.Date != nil {
		appointment.Date = *req.Date
	}
	if req.Duration != nil {
		appointment.Duration = *req.Duration
	}
	if req.Status != nil {
		appointment.Status = *req.Status
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}
	if req.Reminders != nil {
		appointment.Reminders = *req.Reminders
	}

	if err := db(c).Omit(clause.Associations).Save(appointment).Error; err != nil {
		respondDatabaseError(c, "Failed to update appointment", err)
		return
	}

	respondData(c, http.StatusOK, appointment)
}

// DeleteAppointment handles DELETE /api/v1/appointments/:id
func DeleteAppointment(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	appointment, ok := findAppointment(c, designer.ID)
	if !ok {
		return
	}

	if err := db(c).Delete(appointment).Error; err != nil {
		respondDatabaseError(c, "Failed to delete appointment", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": appointment.ID})
}

// GetUpcomingAppointments handles GET /api/v1/appointments/upcoming - next pending or confirmed sessions
func GetUpcomingAppointments(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	limit := queryLimit(c, 5, 50)

	var appointments []models.Appointment
	err := db(c).Scopes(models.OwnedBy(designer.ID)).Preload("Client").
		Where("date >= ?", now()).
		Where("status IN ?", []string{models.AppointmentPending, models.AppointmentConfirmed}).
		Order("date ASC").
		Limit(limit).
		Find(&appointments).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve appointments", err)
		return
	}

	respondData(c, http.StatusOK, appointments)
}

// AppointmentStats is the dashboard summary of the designer's calendar
type AppointmentStats struct {
	Total     int64 `json:"total"`
	ThisMonth int64 `json:"this_month"`
	Pending   int64 `json:"pending"`
	Today     int64 `json:"today"`
}

// GetAppointmentStats handles GET /api/v1/appointments/stats
func GetAppointmentStats(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	current := now()
	monthStart := startOfMonth(current)
	dayStart := startOfDay(current)

	base := func() *gorm.DB {
		return db(c).Model(&models.Appointment{}).Scopes(models.OwnedBy(designer.ID))
	}

	var stats AppointmentStats
	queries := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&stats.Total, base()},
		{&stats.ThisMonth, base().Where("date >= ? AND date < ?", monthStart, monthStart.AddDate(0, 1, 0))},
		{&stats.Pending, base().Where("status = ? AND date >= ?", models.AppointmentPending, current)},
		{&stats.Today, base().Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1))},
	}
	for _, q := range queries {
		if err := q.query.Count(q.target).Error; err != nil {
			respondDatabaseError(c, "Failed to compute appointment stats", err)
			return
		}
	}

	respondData(c, http.StatusOK, stats)
}
