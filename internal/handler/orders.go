package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saivarshithnaidu/car-spare/internal/billing"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

type OrderHandler struct {
	Settler *billing.Settler
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	page, limit := 1, 20
	if c.Query("page") != "" {
		fmt.Sscanf(c.Query("page"), "%d", &page)
	}
	if c.Query("limit") != "" {
		fmt.Sscanf(c.Query("limit"), "%d", &limit)
	}
	offset := (page - 1) * limit

	var orders []models.Order
	var total int64

	query := database.DB.Model(&models.Order{})
	if s := c.Query("payment_status"); s != "" {
		query = query.Where("payment_status = ?", s)
	}
	if s := c.Query("order_status"); s != "" {
		query = query.Where("order_status = ?", s)
	}
	if id := c.Query("customer_id"); id != "" {
		query = query.Where("user_id = ?", id)
	}
	query.Count(&total)

	if err := query.Preload("User").Preload("Items.SparePart").
		Order("created_at desc").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  orders,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	var order models.Order
	if err := database.DB.Preload("User").Preload("Items.SparePart").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves the fulfillment status. It touches nothing else:
// no inventory, no ledger, no payment fields.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		OrderStatus string `json:"order_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid := false
	for _, s := range models.FulfillmentStatuses {
		if s == req.OrderStatus {
			valid = true
			break
		}
	}
	if !valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown order status"})
		return
	}

	res := database.DB.Model(&models.Order{}).
		Where("id = ?", c.Param("id")).
		Update("order_status", req.OrderStatus)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
}

// RegenerateInvoice re-renders the invoice for an existing order, for when
// the original generation failed mid-settlement.
func (h *OrderHandler) RegenerateInvoice(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	url, err := h.Settler.RegenerateInvoice(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to regenerate invoice"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invoice_url": url})
}

// SalesReport summarises settled orders over a date range.
func (h *OrderHandler) SalesReport(c *gin.Context) {
	query := database.DB.Preload("Items")

	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" && end != "" {
		startDate, err1 := time.Parse("2006-01-02", start)
		endDate, err2 := time.Parse("2006-01-02", end)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must be YYYY-MM-DD"})
			return
		}
		endDate = endDate.Add(24*time.Hour - time.Second)
		query = query.Where("created_at BETWEEN ? AND ?", startDate, endDate)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales report"})
		return
	}

	var revenue float64
	var unitsSold int
	for _, o := range orders {
		revenue += o.TotalAmount
		for _, it := range o.Items {
			unitsSold += it.Quantity
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": gin.H{
			"total_revenue":      revenue,
			"total_transactions": len(orders),
			"units_sold":         unitsSold,
		},
		"transactions": orders,
	})
}
