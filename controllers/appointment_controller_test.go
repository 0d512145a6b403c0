package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/kendall-kelly/modamedidas-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func appointmentRoutes(designer *models.User) *gin.Engine {
	router, v1 := authedRouter(designer)
	v1.GET("/appointments", ListAppointments)
	v1.POST("/appointments", CreateAppointment)
	v1.GET("/appointments/upcoming", GetUpcomingAppointments)
	v1.GET("/appointments/stats", GetAppointmentStats)
	v1.GET("/appointments/:id", GetAppointment)
	v1.PUT("/appointments/:id", UpdateAppointment)
	v1.DELETE("/appointments/:id", DeleteAppointment)
	return router
}

func createAppointment(t *testing.T, db *gorm.DB, client *models.Client, date time.Time, status string) *models.Appointment {
	t.Helper()
	appointment := &models.Appointment{
		DesignerID: client.DesignerID,
		ClientID:   client.ID,
		Title:      "Session",
		Date:       date,
		Status:     status,
	}
	require.NoError(t, db.Create(appointment).Error)
	return appointment
}

func TestCreateAppointment(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	other := testutil.CreateDesigner(t, db, "other@example.com")
	foreign := testutil.CreateClient(t, db, other, "Marta")
	router := appointmentRoutes(designer)
	date := "2026-11-02T10:00:00Z"

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		check          func(t *testing.T, data map[string]interface{})
	}{
		{
			name:           "Defaults type duration and status",
			requestBody:    map[string]interface{}{"client_id": client.ID, "title": "First fitting", "date": date},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, models.AppointmentMeasurement, data["type"])
				assert.Equal(t, float64(models.DefaultAppointmentMins), data["duration"])
				assert.Equal(t, models.AppointmentPending, data["status"])
			},
		},
		{
			name: "Explicit values and reminders",
			requestBody: map[string]interface{}{
				"client_id": client.ID,
				"title":     "Final fitting",
				"type":      "fitting",
				"date":      date,
				"duration":  90,
				"status":    "confirmed",
				"reminders": map[string]bool{"email_24h": true, "whatsapp_2h": true},
			},
			expectedStatus: http.StatusCreated,
			check: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, "fitting", data["type"])
				assert.Equal(t, float64(90), data["duration"])
				reminders := data["reminders"].(map[string]interface{})
				assert.Equal(t, true, reminders["email_24h"])
				assert.Equal(t, false, reminders["email_2h"])
				assert.Equal(t, true, reminders["whatsapp_2h"])
			},
		},
		{
			name:           "Fail with another designer's client",
			requestBody:    map[string]interface{}{"client_id": foreign.ID, "title": "Fitting", "date": date},
			expectedStatus: http.StatusNotFound,
			expectedError:  "CLIENT_NOT_FOUND",
		},
		{
			name:           "Fail with duration below fifteen minutes",
			requestBody:    map[string]interface{}{"client_id": client.ID, "title": "Fitting", "date": date, "duration": 5},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with unknown type",
			requestBody:    map[string]interface{}{"client_id": client.ID, "title": "Fitting", "date": date, "type": "party"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail without date",
			requestBody:    map[string]interface{}{"client_id": client.ID, "title": "Fitting"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, router, "POST", "/api/v1/appointments", tt.requestBody)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			tt.check(t, dataOf(response))
		})
	}
}

func TestListAppointments_Filters(t *testing.T) {
	db, designer := setupControllerTest(t)
	lucia := testutil.CreateClient(t, db, designer, "Lucia")
	marta := testutil.CreateClient(t, db, designer, "Marta")
	other := testutil.CreateDesigner(t, db, "other@example.com")
	createAppointment(t, db, testutil.CreateClient(t, db, other, "Ana"), time.Date(2026, 11, 5, 10, 0, 0, 0, time.UTC), "")

	createAppointment(t, db, lucia, time.Date(2026, 11, 10, 10, 0, 0, 0, time.UTC), models.AppointmentConfirmed)
	createAppointment(t, db, lucia, time.Date(2026, 11, 3, 10, 0, 0, 0, time.UTC), "")
	createAppointment(t, db, marta, time.Date(2026, 12, 1, 10, 0, 0, 0, time.UTC), models.AppointmentCancelled)
	router := appointmentRoutes(designer)

	w, response := performRequest(t, router, "GET", "/api/v1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := listOf(response)
	require.Len(t, all, 3)
	assert.Contains(t, all[0].(map[string]interface{})["date"], "2026-11-03")
	assert.Contains(t, all[2].(map[string]interface{})["date"], "2026-12-01")

	cases := []struct {
		path     string
		expected int
	}{
		{"/api/v1/appointments?start_date=2026-11-04T00:00:00Z", 2},
		{"/api/v1/appointments?start_date=2026-11-01T00:00:00Z&end_date=2026-11-30T00:00:00Z", 2},
		{"/api/v1/appointments?status=confirmed", 1},
		{"/api/v1/appointments?client_id=" + marta.ID.String(), 1},
	}
	for _, tc := range cases {
		w, response := performRequest(t, router, "GET", tc.path, nil)
		require.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Len(t, listOf(response), tc.expected, tc.path)
	}

	w, response = performRequest(t, router, "GET", "/api/v1/appointments?start_date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_DATE", errorCode(response))
}

func TestGetUpcomingAppointments(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	fixedNow(t, at)

	createAppointment(t, db, client, at.AddDate(0, 0, -1), "")
	createAppointment(t, db, client, at.AddDate(0, 0, 2), models.AppointmentCancelled)
	createAppointment(t, db, client, at.AddDate(0, 0, 1), models.AppointmentConfirmed)
	for i := 3; i <= 8; i++ {
		createAppointment(t, db, client, at.AddDate(0, 0, i), "")
	}
	router := appointmentRoutes(designer)

	w, response := performRequest(t, router, "GET", "/api/v1/appointments/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	upcoming := listOf(response)
	require.Len(t, upcoming, 5)
	first := upcoming[0].(map[string]interface{})
	assert.Equal(t, models.AppointmentConfirmed, first["status"])
	assert.Equal(t, "Lucia", first["client"].(map[string]interface{})["name"])

	w, response = performRequest(t, router, "GET", "/api/v1/appointments/upcoming?limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 7)
}

func TestGetAppointmentStats(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	at := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	fixedNow(t, at)

	createAppointment(t, db, client, time.Date(2026, 9, 30, 10, 0, 0, 0, time.UTC), "")
	createAppointment(t, db, client, time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC), models.AppointmentCompleted)
	createAppointment(t, db, client, time.Date(2026, 10, 14, 16, 0, 0, 0, time.UTC), "")
	createAppointment(t, db, client, time.Date(2026, 10, 20, 10, 0, 0, 0, time.UTC), "")
	createAppointment(t, db, client, time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC), models.AppointmentConfirmed)

	w, response := performRequest(t, appointmentRoutes(designer), "GET", "/api/v1/appointments/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(response)
	assert.Equal(t, float64(5), data["total"])
	assert.Equal(t, float64(3), data["this_month"])
	assert.Equal(t, float64(2), data["pending"])
	assert.Equal(t, float64(2), data["today"])
}

func TestUpdateAppointment(t *testing.T) {
	db, designer := setupControllerTest(t)
	lucia := testutil.CreateClient(t, db, designer, "Lucia")
	marta := testutil.CreateClient(t, db, designer, "Marta")
	other := testutil.CreateDesigner(t, db, "other@example.com")
	foreign := testutil.CreateClient(t, db, other, "Ana")
	appointment := createAppointment(t, db, lucia, time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC), "")
	router := appointmentRoutes(designer)
	path := "/api/v1/appointments/" + appointment.ID.String()

	w, response := performRequest(t, router, "PUT", path, map[string]interface{}{
		"status":    "confirmed",
		"client_id": marta.ID,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataOf(response)
	assert.Equal(t, models.AppointmentConfirmed, data["status"])
	assert.Equal(t, marta.ID.String(), data["client_id"])
	assert.Equal(t, "Session", data["title"])
	assert.Equal(t, float64(models.DefaultAppointmentMins), data["duration"])

	w, response = performRequest(t, router, "PUT", path, map[string]interface{}{"client_id": foreign.ID})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CLIENT_NOT_FOUND", errorCode(response))

	w, response = performRequest(t, appointmentRoutes(other), "PUT", path, map[string]interface{}{"title": "Stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "APPOINTMENT_NOT_FOUND", errorCode(response))

	var stored models.Appointment
	require.NoError(t, db.First(&stored, "id = ?", appointment.ID).Error)
	assert.Equal(t, marta.ID, stored.ClientID)
	assert.Equal(t, "Session", stored.Title)
}

func TestDeleteAppointment(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	appointment := createAppointment(t, db, client, time.Date(2026, 11, 2, 10, 0, 0, 0, time.UTC), "")
	router := appointmentRoutes(designer)
	path := "/api/v1/appointments/" + appointment.ID.String()

	w, _ := performRequest(t, router, "DELETE", path, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, response := performRequest(t, router, "GET", path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "APPOINTMENT_NOT_FOUND", errorCode(response))
}
