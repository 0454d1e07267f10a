package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

type AdminHandler struct{}

// GetDashboardStats aggregates the figures shown on the admin landing
// page: revenue, orders, stock health and outstanding customer credit.
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	var todayRevenue, totalRevenue, creditOutstanding float64
	var totalOrders, pendingPayments, lowStockCount, customerCount int64

	today := time.Now().Format("2006-01-02")
	database.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ? AND payment_status = ?", today, models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&todayRevenue)
	database.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPaid).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&totalRevenue)
	database.DB.Model(&models.Order{}).Count(&totalOrders)
	database.DB.Model(&models.Order{}).
		Where("payment_status = ?", models.PaymentPending).Count(&pendingPayments)
	database.DB.Model(&models.SparePart{}).
		Where("stock_quantity <= low_stock_threshold AND is_active = ?", true).Count(&lowStockCount)
	database.DB.Model(&models.KhatabookEntry{}).
		Where("status <> ?", models.KhatabookPaid).
		Select("COALESCE(SUM(pending_amount), 0)").Scan(&creditOutstanding)
	database.DB.Model(&models.User{}).
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "customer").Count(&customerCount)

	var inventoryValue float64
	var parts []models.SparePart
	database.DB.Where("is_active = ?", true).Find(&parts)
	for _, p := range parts {
		inventoryValue += p.UnitPrice * float64(p.StockQuantity)
	}

	// Last 7 days of revenue for the chart.
	labels := []string{}
	series := []float64{}
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		var daily float64
		database.DB.Model(&models.Order{}).
			Where("DATE(created_at) = ? AND payment_status = ?", date.Format("2006-01-02"), models.PaymentPaid).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&daily)
		labels = append(labels, date.Format("Jan 02"))
		series = append(series, daily)
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": gin.H{
			"today_revenue":      todayRevenue,
			"total_revenue":      totalRevenue,
			"total_orders":       totalOrders,
			"pending_payments":   pendingPayments,
			"inventory_value":    inventoryValue,
			"low_stock":          lowStockCount,
			"credit_outstanding": creditOutstanding,
			"customers":          customerCount,
		},
		"charts": gin.H{
			"weekly_revenue": gin.H{"labels": labels, "data": series},
		},
	})
}

// ListCustomers returns customers ranked by lifetime spend.
func (h *AdminHandler) ListCustomers(c *gin.Context) {
	type customerWithStats struct {
		models.User
		TotalSpend float64 `json:"total_spend"`
		OrderCount int64   `json:"order_count"`
	}

	var customers []models.User
	if err := database.DB.
		Joins("JOIN roles ON roles.id = users.role_id").
		Where("roles.name = ?", "customer").
		Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}

	stats := make([]customerWithStats, 0, len(customers))
	for _, cust := range customers {
		var spend float64
		var count int64
		database.DB.Model(&models.Order{}).Where("user_id = ?", cust.ID).
			Select("COALESCE(SUM(total_amount), 0)").Scan(&spend)
		database.DB.Model(&models.Order{}).Where("user_id = ?", cust.ID).Count(&count)
		stats = append(stats, customerWithStats{User: cust, TotalSpend: spend, OrderCount: count})
	}

	for i := range stats {
		for j := i + 1; j < len(stats); j++ {
			if stats[i].TotalSpend < stats[j].TotalSpend {
				stats[i], stats[j] = stats[j], stats[i]
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) GetCustomer(c *gin.Context) {
	var customer models.User
	if err := database.DB.Preload("Role").First(&customer, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}

	var orders []models.Order
	database.DB.Where("user_id = ?", customer.ID).Order("created_at desc").Find(&orders)

	c.JSON(http.StatusOK, gin.H{"customer": customer, "orders": orders})
}

// Ads CRUD

type adRequest struct {
	Title       string `json:"title" binding:"required"`
	ImageURL    string `json:"image_url" binding:"required"`
	RedirectURL string `json:"redirect_url"`
	Active      *bool  `json:"active"`
}

func (h *AdminHandler) ListAds(c *gin.Context) {
	var ads []models.Ad
	if err := database.DB.Order("created_at desc").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ads"})
		return
	}
	c.JSON(http.StatusOK, ads)
}

func (h *AdminHandler) CreateAd(c *gin.Context) {
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := models.Ad{Title: req.Title, ImageURL: req.ImageURL, RedirectURL: req.RedirectURL, Active: true}
	if req.Active != nil {
		ad.Active = *req.Active
	}
	if err := database.DB.Create(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create ad"})
		return
	}
	c.JSON(http.StatusCreated, ad)
}

func (h *AdminHandler) UpdateAd(c *gin.Context) {
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"title":        req.Title,
		"image_url":    req.ImageURL,
		"redirect_url": req.RedirectURL,
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	res := database.DB.Model(&models.Ad{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update ad"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ad updated"})
}

func (h *AdminHandler) DeleteAd(c *gin.Context) {
	res := database.DB.Delete(&models.Ad{}, c.Param("id"))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Ad deleted"})
}
