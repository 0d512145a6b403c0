package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kendall-kelly/modamedidas-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	ClientID    uuid.UUID  `json:"client_id" binding:"required"`
	QuoteID     *uuid.UUID `json:"quote_id"`
	MeasureID   *uuid.UUID `json:"measure_id"`
	Title       string     `json:"title" binding:"required,max=200"`
	GarmentType string     `json:"garment_type" binding:"max=100"`
	Description string     `json:"description" binding:"max=2000"`
	Status      string     `json:"status" binding:"omitempty,oneof=quoted confirmed designing cutting sewing fitting alterations finished delivered cancelled"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     time.Time  `json:"due_date" binding:"required"`
	TotalAmount float64    `json:"total_amount" binding:"gte=0"`
	PaidAmount  float64    `json:"paid_amount" binding:"gte=0"`
	Notes       string     `json:"notes" binding:"max=2000"`
}

// UpdateOrderRequest represents the request body for updating an order.
// The paid amount only changes through payments.
type UpdateOrderRequest struct {
	MeasureID   *uuid.UUID `json:"measure_id"`
	Title       *string    `json:"title" binding:"omitempty,min=1,max=200"`
	GarmentType *string    `json:"garment_type" binding:"omitempty,max=100"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Status      *string    `json:"status" binding:"omitempty,oneof=quoted confirmed designing cutting sewing fitting alterations finished delivered cancelled"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	StartDate   *time.Time `json:"start_date"`
	DueDate     *time.Time `json:"due_date"`
	TotalAmount *float64   `json:"total_amount" binding:"omitempty,gte=0"`
	Notes       *string    `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateOrderStatusRequest represents the request body for moving an order on the board
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=quoted confirmed designing cutting sewing fitting alterations finished delivered cancelled"`
	Notes  string `json:"notes" binding:"max=500"`
}

// AddPaymentRequest represents a payment received for an order
type AddPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// priorityRank sorts urgent orders first among orders due the same day
const priorityRank = "CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'normal' THEN 2 ELSE 3 END"

func findOrder(c *gin.Context, designerID uuid.UUID) (*models.Order, bool) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, false
	}

	var order models.Order
	if err := db(c).Scopes(models.OwnedBy(designerID)).First(&order, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "ORDER_NOT_FOUND", "Order not found")
		return nil, false
	}
	return &order, true
}

// ownsMeasure checks that the measure belongs to the designer and the order's client
func ownsMeasure(c *gin.Context, designerID, clientID, measureID uuid.UUID) bool {
	var count int64
	err := db(c).Model(&models.Measure{}).Scopes(models.OwnedBy(designerID)).
		Where("id = ? AND client_id = ?", measureID, clientID).Count(&count).Error
	if err != nil {
		respondDatabaseError(c, "Failed to verify measure", err)
		return false
	}
	if count == 0 {
		respondError(c, http.StatusNotFound, "MEASURE_NOT_FOUND", "Measure not found for this client")
		return false
	}
	return true
}

func ownsQuote(c *gin.Context, designerID, quoteID uuid.UUID) bool {
	var count int64
	err := db(c).Model(&models.Quote{}).Scopes(models.OwnedBy(designerID)).
		Where("id = ?", quoteID).Count(&count).Error
	if err != nil {
		respondDatabaseError(c, "Failed to verify quote", err)
		return false
	}
	if count == 0 {
		respondError(c, http.StatusNotFound, "QUOTE_NOT_FOUND", "Quote not found")
		return false
	}
	return true
}

func loadOrderClient(c *gin.Context, order *models.Order) bool {
	if err := db(c).Preload("Client").First(order, "id = ?", order.ID).Error; err != nil {
		respondDatabaseError(c, "Failed to load order details", err)
		return false
	}
	return true
}

// ListOrders handles GET /api/v1/orders - lists orders by due date, urgent first
func ListOrders(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	clientID, ok := parseOptionalUUID(c, "client_id")
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryLimit(c, 50, maxPageSize)

	query := db(c).Model(&models.Order{}).Scopes(models.OwnedBy(designer.ID))
	if statuses := splitQuery(c, "status"); len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if clientID != nil {
		query = query.Where("client_id = ?", *clientID)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondDatabaseError(c, "Failed to count orders", err)
		return
	}

	var orders []models.Order
	err := query.Preload("Client").
		Order("due_date ASC").
		Order(priorityRank).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve orders", err)
		return
	}

	respondList(c, orders, newPagination(total, page, limit))
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	order, ok := findOrder(c, designer.ID)
	if !ok {
		return
	}
	if !loadOrderClient(c, order) {
		return
	}

	respondData(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/v1/orders - creates an order with the next yearly number
func CreateOrder(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var req CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}
	if !ownsClient(c, designer.ID, req.ClientID) {
		return
	}
	if req.MeasureID != nil && !ownsMeasure(c, designer.ID, req.ClientID, *req.MeasureID) {
		return
	}
	if req.QuoteID != nil && !ownsQuote(c, designer.ID, *req.QuoteID) {
		return
	}

	status := req.Status
	if status == "" {
		status = models.OrderConfirmed
	}
	created := now()
	order := models.Order{
		DesignerID:  designer.ID,
		ClientID:    req.ClientID,
		QuoteID:     req.QuoteID,
		MeasureID:   req.MeasureID,
		Title:       req.Title,
		GarmentType: req.GarmentType,
		Description: req.Description,
		Status:      status,
		Priority:    req.Priority,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		TotalAmount: req.TotalAmount,
		PaidAmount:  req.PaidAmount,
		Notes:       req.Notes,
		Timeline:    datatypes.JSONSlice[models.TimelineEntry]{{Status: status, Date: created}},
	}
	if status == models.OrderDelivered {
		order.DeliveredDate = &created
	}

	err := db(c).Transaction(func(tx *gorm.DB) error {
		number, err := models.NextNumber(tx, models.OrderNumberPrefix, created.Year())
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return tx.Omit(clause.Associations).Create(&order).Error
	})
	if err != nil {
		respondDatabaseError(c, "Failed to create order", err)
		return
	}
	if !loadOrderClient(c, &order) {
		return
	}

	respondData(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/v1/orders/:id
func UpdateOrder(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	order, ok := findOrder(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.MeasureID != nil {
		if !ownsMeasure(c, designer.ID, order.ClientID, *req.MeasureID) {
			return
		}
		order.MeasureID = req.MeasureID
	}
	if req.Title != nil {
		order.Title = *req.Title
	}
	if req.GarmentType != nil {
		order.GarmentType = *req.GarmentType
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Status != nil {
		order.ChangeStatus(*req.Status, "", now())
	}
	if req.Priority != nil {
		order.Priority = *req.Priority
	}
	if req.StartDate != nil {
		order.StartDate = req.StartDate
	}
	if req.DueDate != nil {
		order.DueDate = *req.DueDate
	}
	if req.TotalAmount != nil {
		order.TotalAmount = *req.TotalAmount
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}

	if err := db(c).Omit(clause.Associations).Save(order).Error; err != nil {
		respondDatabaseError(c, "Failed to update order", err)
		return
	}
	if !loadOrderClient(c, order) {
		return
	}

	respondData(c, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func DeleteOrder(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	order, ok := findOrder(c, designer.ID)
	if !ok {
		return
	}

	if err := db(c).Delete(order).Error; err != nil {
		respondDatabaseError(c, "Failed to delete order", err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"id": order.ID})
}

// UpdateOrderStatus handles PATCH /api/v1/orders/:id/status - moves the order
// and records the step in its timeline
func UpdateOrderStatus(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	order, ok := findOrder(c, designer.ID)
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order.ChangeStatus(req.Status, req.Notes, now())
	if err := db(c).Omit(clause.Associations).Save(order).Error; err != nil {
		respondDatabaseError(c, "Failed to update order status", err)
		return
	}
	if !loadOrderClient(c, order) {
		return
	}

	respondData(c, http.StatusOK, order)
}

// PaymentResult is returned after a payment is recorded
type PaymentResult struct {
	OrderID       uuid.UUID `json:"order_id"`
	PaidAmount    float64   `json:"paid_amount"`
	TotalAmount   float64   `json:"total_amount"`
	Balance       float64   `json:"balance"`
	PaymentStatus string    `json:"payment_status"`
}

// AddPayment handles POST /api/v1/orders/:id/payment - adds amount to the paid total
func AddPayment(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req AddPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	var order models.Order
	err := db(c).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Order{}).
			Scopes(models.OwnedBy(designer.ID)).
			Where("id = ?", id).
			UpdateColumn("paid_amount", gorm.Expr("paid_amount + ?", req.Amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.First(&order, "id = ?", id).Error; err != nil {
			return err
		}
		// saving runs the hook that derives the payment status
		return tx.Omit(clause.Associations).Save(&order).Error
	})
	if err != nil {
		respondLookupError(c, err, "ORDER_NOT_FOUND", "Order not found")
		return
	}

	respondData(c, http.StatusOK, PaymentResult{
		OrderID:       order.ID,
		PaidAmount:    order.PaidAmount,
		TotalAmount:   order.TotalAmount,
		Balance:       order.Balance().InexactFloat64(),
		PaymentStatus: order.PaymentStatus,
	})
}

// KanbanColumn is one status lane of the production board
type KanbanColumn struct {
	Status string         `json:"status"`
	Count  int            `json:"count"`
	Orders []models.Order `json:"orders"`
}

// GetOrdersKanban handles GET /api/v1/orders/kanban - open orders grouped by status
func GetOrdersKanban(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}

	var orders []models.Order
	err := db(c).Scopes(models.OwnedBy(designer.ID)).Preload("Client").
		Where("status IN ?", models.OrderPipeline).
		Order("due_date ASC").
		Order(priorityRank).
		Find(&orders).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve orders", err)
		return
	}

	columns := make([]KanbanColumn, len(models.OrderPipeline))
	index := make(map[string]int, len(models.OrderPipeline))
	for i, status := range models.OrderPipeline {
		columns[i] = KanbanColumn{Status: status, Orders: []models.Order{}}
		index[status] = i
	}
	for _, o := range orders {
		col := &columns[index[o.Status]]
		col.Orders = append(col.Orders, o)
		col.Count++
	}

	respondData(c, http.StatusOK, gin.H{
		"columns": columns,
		"total":   len(orders),
	})
}

// GetUpcomingOrders handles GET /api/v1/orders/upcoming - open orders by due date
func GetUpcomingOrders(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	limit := queryLimit(c, 5, 50)

	var orders []models.Order
	err := db(c).Scopes(models.OwnedBy(designer.ID)).Preload("Client").
		Where("status NOT IN ?", models.ClosedOrderStatuses).
		Order("due_date ASC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		respondDatabaseError(c, "Failed to retrieve orders", err)
		return
	}

	respondData(c, http.StatusOK, orders)
}

// OrderStats is the dashboard summary of the designer's production
type OrderStats struct {
	Total              int64   `json:"total"`
	Active             int64   `json:"active"`
	DueThisWeek        int64   `json:"due_this_week"`
	Overdue            int64   `json:"overdue"`
	CompletedThisMonth int64   `json:"completed_this_month"`
	PendingPayments    float64 `json:"pending_payments"`
}

// GetOrderStats handles GET /api/v1/orders/stats
func GetOrderStats(c *gin.Context) {
	designer, ok := principal(c)
	if !ok {
		return
	}
	current := now()
	base := func() *gorm.DB {
		return db(c).Model(&models.Order{}).Scopes(models.OwnedBy(designer.ID))
	}
	open := func() *gorm.DB {
		return base().Where("status NOT IN ?", models.ClosedOrderStatuses)
	}

	var stats OrderStats
	counts := []struct {
		target *int64
		query  *gorm.DB
	}{
		{&stats.Total, base()},
		{&stats.Active, open()},
		{&stats.DueThisWeek, open().Where("due_date >= ? AND due_date < ?", current, current.AddDate(0, 0, 7))},
		{&stats.Overdue, open().Where("due_date < ?", current)},
		{&stats.CompletedThisMonth, base().Where("status = ? AND delivered_date >= ?", models.OrderDelivered, startOfMonth(current))},
	}
	for _, q := range counts {
		if err := q.query.Count(q.target).Error; err != nil {
			respondDatabaseError(c, "Failed to compute order stats", err)
			return
		}
	}

	var unpaid []models.Order
	if err := open().Where("payment_status <> ?", models.PaymentPaid).
		Select("id", "total_amount", "paid_amount").Find(&unpaid).Error; err != nil {
		respondDatabaseError(c, "Failed to compute pending payments", err)
		return
	}
	pending := decimal.Zero
	for i := range unpaid {
		pending = pending.Add(unpaid[i].Balance())
	}
	stats.PendingPayments = pending.Round(2).InexactFloat64()

	respondData(c, http.StatusOK, stats)
}

