package controllers

import (
	"fmt"
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

func orderRoutes(designer *models.User) *gin.Engine {
	router, v1 := authedRouter(designer)
	v1.GET("/orders", ListOrders)
	v1.POST("/orders", CreateOrder)
	v1.GET("/orders/kanban", GetOrdersKanban)
	v1.GET("/orders/upcoming", GetUpcomingOrders)
	v1.GET("/orders/stats", GetOrderStats)
	v1.GET("/orders/:id", GetOrder)
	v1.PUT("/orders/:id", UpdateOrder)
	v1.DELETE("/orders/:id", DeleteOrder)
	v1.PATCH("/orders/:id/status", UpdateOrderStatus)
	v1.POST("/orders/:id/payment", AddPayment)
	return router
}

type orderFixture struct {
	status   string
	priority string
	due      time.Time
	total    float64
	paid     float64
}

func createOrder(t *testing.T, db *gorm.DB, client *models.Client, f orderFixture) *models.Order {
	t.Helper()
	var order *models.Order
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		number, err := models.NextNumber(tx, models.OrderNumberPrefix, time.Now().Year())
		if err != nil {
			return err
		}
		order = &models.Order{
			DesignerID:  client.DesignerID,
			ClientID:    client.ID,
			OrderNumber: number,
			Title:       "Order " + number,
			Status:      f.status,
			Priority:    f.priority,
			DueDate:     f.due,
			TotalAmount: f.total,
			PaidAmount:  f.paid,
		}
		return tx.Create(order).Error
	}))
	return order
}

func TestCreateOrder(t *testing.T) {
	db, designer := setupControllerTest(t)
	other := testutil.CreateDesigner(t, db, "other@example.com")
	client := testutil.CreateClient(t, db, designer, "Lucia")
	sibling := testutil.CreateClient(t, db, designer, "Marta")
	foreign := testutil.CreateClient(t, db, other, "Foreign")
	measure := createMeasure(t, db, client, 88)
	siblingMeasure := createMeasure(t, db, sibling, 88)
	due := time.Now().AddDate(0, 0, 30).UTC().Truncate(time.Second)

	router := orderRoutes(designer)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, data map[string]interface{})
	}{
		{
			name: "Successfully create order",
			requestBody: map[string]interface{}{
				"client_id":    client.ID,
				"measure_id":   measure.ID,
				"title":        "Wedding dress",
				"due_date":     due,
				"total_amount": 1200,
				"paid_amount":  200,
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, data map[string]interface{}) {
				assert.Equal(t, fmt.Sprintf("ORD-%d-0001", time.Now().Year()), data["order_number"])
				assert.Equal(t, models.OrderConfirmed, data["status"])
				assert.Equal(t, models.PriorityNormal, data["priority"])
				assert.Equal(t, models.PaymentPartial, data["payment_status"])
				timeline := data["timeline"].([]interface{})
				require.Len(t, timeline, 1)
				assert.Equal(t, models.OrderConfirmed, timeline[0].(map[string]interface{})["status"])
				assert.Equal(t, "Lucia", data["client"].(map[string]interface{})["name"])
			},
		},
		{
			name: "Fail with another designer's client",
			requestBody: map[string]interface{}{
				"client_id": foreign.ID, "title": "Dress", "due_date": due,
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "CLIENT_NOT_FOUND",
		},
		{
			name: "Fail with a measure of another client",
			requestBody: map[string]interface{}{
				"client_id": client.ID, "measure_id": siblingMeasure.ID, "title": "Dress", "due_date": due,
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "MEASURE_NOT_FOUND",
		},
		{
			name:           "Fail with missing due date",
			requestBody:    map[string]interface{}{"client_id": client.ID, "title": "Dress"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with unknown status",
			requestBody: map[string]interface{}{
				"client_id": client.ID, "title": "Dress", "due_date": due, "status": "lost",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := performRequest(t, router, "POST", "/api/v1/orders", tt.requestBody)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, dataOf(response))
			}
		})
	}
}

func TestCreateOrder_NumbersAreSequential(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	router := orderRoutes(designer)

	for i := 1; i <= 3; i++ {
		w, response := performRequest(t, router, "POST", "/api/v1/orders", map[string]interface{}{
			"client_id": client.ID,
			"title":     "Dress",
			"due_date":  time.Now().AddDate(0, 0, 10),
		})
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, fmt.Sprintf("ORD-%d-%04d", time.Now().Year(), i), dataOf(response)["order_number"])
	}
}

func TestListOrders_FiltersAndSorting(t *testing.T) {
	db, designer := setupControllerTest(t)
	lucia := testutil.CreateClient(t, db, designer, "Lucia")
	marta := testutil.CreateClient(t, db, designer, "Marta")
	soon := time.Now().AddDate(0, 0, 3)

	normal := createOrder(t, db, lucia, orderFixture{status: models.OrderSewing, priority: models.PriorityNormal, due: soon})
	urgent := createOrder(t, db, lucia, orderFixture{status: models.OrderCutting, priority: models.PriorityUrgent, due: soon})
	later := createOrder(t, db, marta, orderFixture{status: models.OrderDelivered, due: soon.AddDate(0, 0, 5)})

	router := orderRoutes(designer)

	w, response := performRequest(t, router, "GET", "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := listOf(response)
	require.Len(t, orders, 3)
	assert.Equal(t, urgent.ID.String(), orders[0].(map[string]interface{})["id"], "urgent first on the same day")
	assert.Equal(t, normal.ID.String(), orders[1].(map[string]interface{})["id"])
	assert.Equal(t, later.ID.String(), orders[2].(map[string]interface{})["id"])
	assert.Equal(t, float64(50), response["pagination"].(map[string]interface{})["limit"])

	w, response = performRequest(t, router, "GET", "/api/v1/orders?status=sewing,delivered", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 2)

	w, response = performRequest(t, router, "GET", "/api/v1/orders?client_id="+marta.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 1)

	w, response = performRequest(t, router, "GET", "/api/v1/orders?priority=urgent", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 1)

	w, response = performRequest(t, router, "GET", "/api/v1/orders?client_id=bad", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(response))
}

func TestGetOrder_OtherDesigner(t *testing.T) {
	db, designer := setupControllerTest(t)
	other := testutil.CreateDesigner(t, db, "other@example.com")
	client := testutil.CreateClient(t, db, designer, "Lucia")
	order := createOrder(t, db, client, orderFixture{due: time.Now()})

	w, response := performRequest(t, orderRoutes(other), "GET", "/api/v1/orders/"+order.ID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))
}

func TestUpdateOrderStatus_Timeline(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	order := createOrder(t, db, client, orderFixture{due: time.Now().AddDate(0, 0, 7)})
	at := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	fixedNow(t, at)

	router := orderRoutes(designer)
	path := "/api/v1/orders/" + order.ID.String() + "/status"

	steps := []struct {
		status          string
		notes           string
		expectedEntries int
	}{
		{models.OrderCutting, "Fabric arrived", 2},
		{models.OrderCutting, "Still cutting", 2},
		{models.OrderDelivered, "", 3},
	}
	for _, step := range steps {
		w, _ := performRequest(t, router, "PATCH", path, map[string]string{"status": step.status, "notes": step.notes})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stored models.Order
		require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
		assert.Equal(t, step.status, stored.Status)
		assert.Len(t, stored.Timeline, step.expectedEntries)
	}

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, "Still cutting", stored.Timeline[1].Notes)
	require.NotNil(t, stored.DeliveredDate)
	assert.True(t, stored.DeliveredDate.Equal(at))

	w, response := performRequest(t, router, "PATCH", path, map[string]string{"status": "lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
}

func TestUpdateOrder_IgnoresPaidAmount(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	order := createOrder(t, db, client, orderFixture{due: time.Now(), total: 100, paid: 20})

	w, response := performRequest(t, orderRoutes(designer), "PUT", "/api/v1/orders/"+order.ID.String(), map[string]interface{}{
		"title":        "Linen suit",
		"total_amount": 20,
		"paid_amount":  500,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := dataOf(response)
	assert.Equal(t, "Linen suit", data["title"])
	assert.Equal(t, float64(20), data["paid_amount"])
	assert.Equal(t, models.PaymentPaid, data["payment_status"])
}

func TestAddPayment(t *testing.T) {
	db, designer := setupControllerTest(t)
	other := testutil.CreateDesigner(t, db, "other@example.com")
	client := testutil.CreateClient(t, db, designer, "Lucia")
	order := createOrder(t, db, client, orderFixture{due: time.Now(), total: 300})
	router := orderRoutes(designer)
	path := "/api/v1/orders/" + order.ID.String() + "/payment"

	payments := []struct {
		amount         float64
		expectedPaid   float64
		expectedStatus string
	}{
		{100, 100, models.PaymentPartial},
		{150.5, 250.5, models.PaymentPartial},
		{49.5, 300, models.PaymentPaid},
	}
	for _, p := range payments {
		w, response := performRequest(t, router, "POST", path, map[string]float64{"amount": p.amount})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		data := dataOf(response)
		assert.InDelta(t, p.expectedPaid, data["paid_amount"], 0.001)
		assert.Equal(t, p.expectedStatus, data["payment_status"])
		assert.Equal(t, float64(300), data["total_amount"])
	}

	w, response := performRequest(t, router, "POST", path, map[string]float64{"amount": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(response))

	w, response = performRequest(t, orderRoutes(other), "POST", path, map[string]float64{"amount": 10})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))
}

func TestGetOrdersKanban(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	due := time.Now().AddDate(0, 0, 5)
	createOrder(t, db, client, orderFixture{status: models.OrderSewing, due: due})
	createOrder(t, db, client, orderFixture{status: models.OrderSewing, due: due})
	createOrder(t, db, client, orderFixture{status: models.OrderQuoted, due: due})
	createOrder(t, db, client, orderFixture{status: models.OrderDelivered, due: due})
	createOrder(t, db, client, orderFixture{status: models.OrderCancelled, due: due})

	w, response := performRequest(t, orderRoutes(designer), "GET", "/api/v1/orders/kanban", nil)

	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(response)
	assert.Equal(t, float64(3), data["total"])
	columns := data["columns"].([]interface{})
	require.Len(t, columns, len(models.OrderPipeline))
	counts := map[string]float64{}
	for i, col := range columns {
		column := col.(map[string]interface{})
		assert.Equal(t, models.OrderPipeline[i], column["status"])
		counts[column["status"].(string)] = column["count"].(float64)
	}
	assert.Equal(t, float64(2), counts[models.OrderSewing])
	assert.Equal(t, float64(1), counts[models.OrderQuoted])
	assert.Zero(t, counts[models.OrderConfirmed])
}

func TestGetUpcomingOrders(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	base := time.Now()
	for i := 0; i < 7; i++ {
		createOrder(t, db, client, orderFixture{status: models.OrderSewing, due: base.AddDate(0, 0, i+1)})
	}
	createOrder(t, db, client, orderFixture{status: models.OrderDelivered, due: base})

	router := orderRoutes(designer)

	w, response := performRequest(t, router, "GET", "/api/v1/orders/upcoming", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 5)

	w, response = performRequest(t, router, "GET", "/api/v1/orders/upcoming?limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, listOf(response), 7)
}

func TestGetOrderStats(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	current := time.Now()
	fixedNow(t, current)

	createOrder(t, db, client, orderFixture{status: models.OrderSewing, due: current.AddDate(0, 0, 2), total: 500, paid: 100})
	createOrder(t, db, client, orderFixture{status: models.OrderFitting, due: current.AddDate(0, 0, -2), total: 200, paid: 200})
	createOrder(t, db, client, orderFixture{status: models.OrderConfirmed, due: current.AddDate(0, 0, 20), total: 80.25})
	delivered := createOrder(t, db, client, orderFixture{status: models.OrderSewing, due: current, total: 90})
	router := orderRoutes(designer)

	w, _ := performRequest(t, router, "PATCH", "/api/v1/orders/"+delivered.ID.String()+"/status", map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, w.Code)

	w, response := performRequest(t, router, "GET", "/api/v1/orders/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataOf(response)
	assert.Equal(t, float64(4), data["total"])
	assert.Equal(t, float64(3), data["active"])
	assert.Equal(t, float64(1), data["due_this_week"])
	assert.Equal(t, float64(1), data["overdue"])
	assert.Equal(t, float64(1), data["completed_this_month"])
	assert.InDelta(t, 480.25, data["pending_payments"], 0.001)
}

func TestDeleteOrder(t *testing.T) {
	db, designer := setupControllerTest(t)
	client := testutil.CreateClient(t, db, designer, "Lucia")
	order := createOrder(t, db, client, orderFixture{due: time.Now()})
	router := orderRoutes(designer)

	w, _ := performRequest(t, router, "DELETE", "/api/v1/orders/"+order.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = performRequest(t, router, "GET", "/api/v1/orders/"+order.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
