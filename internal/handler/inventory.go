package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saivarshithnaidu/car-spare/internal/inventory"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

type InventoryHandler struct {
	Ledger *inventory.Ledger
}

func (h *InventoryHandler) ListParts(c *gin.Context) {
	var parts []models.SparePart
	query := database.DB.Where("is_active = ?", true)
	if c.Query("in_stock") == "true" {
		query = query.Where("stock_quantity > 0")
	}
	if model := c.Query("car_model"); model != "" {
		query = query.Where("car_model LIKE ?", "%"+model+"%")
	}
	if err := query.Order("name").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}
	c.JSON(http.StatusOK, parts)
}

type createPartRequest struct {
	Name              string  `json:"name" binding:"required"`
	Description       string  `json:"description"`
	CarModel          string  `json:"car_model"`
	UnitPrice         float64 `json:"unit_price" binding:"required"`
	LowStockThreshold int     `json:"low_stock_threshold"`
	ImageURL          string  `json:"image_url"`
	OpeningStock      int     `json:"opening_stock"`
}

func (h *InventoryHandler) CreatePart(c *gin.Context) {
	var req createPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")

	part := models.SparePart{
		Name:              req.Name,
		Description:       req.Description,
		CarModel:          req.CarModel,
		UnitPrice:         req.UnitPrice,
		LowStockThreshold: req.LowStockThreshold,
		ImageURL:          req.ImageURL,
		IsActive:          true,
	}
	if err := database.DB.Create(&part).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create part"})
		return
	}

	if req.OpeningStock > 0 {
		if err := h.Ledger.Restock(part.ID, req.OpeningStock, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record opening stock"})
			return
		}
		part.StockQuantity = req.OpeningStock
	}

	c.JSON(http.StatusCreated, part)
}

func (h *InventoryHandler) UpdatePart(c *gin.Context) {
	var req struct {
		Name              string  `json:"name" binding:"required"`
		Description       string  `json:"description"`
		CarModel          string  `json:"car_model"`
		UnitPrice         float64 `json:"unit_price" binding:"required"`
		LowStockThreshold int     `json:"low_stock_threshold"`
		ImageURL          string  `json:"image_url"`
		IsActive          *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{
		"name":                req.Name,
		"description":         req.Description,
		"car_model":           req.CarModel,
		"unit_price":          req.UnitPrice,
		"low_stock_threshold": req.LowStockThreshold,
		"image_url":           req.ImageURL,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	res := database.DB.Model(&models.SparePart{}).Where("id = ?", c.Param("id")).Updates(updates)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Part not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Part updated"})
}

type addStockRequest struct {
	SparePartID uint `json:"spare_part_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required,gt=0"`
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	var req addStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	if err := h.Ledger.Restock(req.SparePartID, req.Quantity, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add stock"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock added"})
}

func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	var parts []models.SparePart
	if err := database.DB.
		Where("stock_quantity <= low_stock_threshold AND is_active = ?", true).
		Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}
	c.JSON(http.StatusOK, parts)
}
