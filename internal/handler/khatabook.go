package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/saivarshithnaidu/car-spare/internal/khatabook"
)

type KhatabookHandler struct {
	Service *khatabook.Service
}

func (h *KhatabookHandler) List(c *gin.Context) {
	var customerID *uint
	if q := c.Query("customer_id"); q != "" {
		var id uint
		if _, err := fmt.Sscanf(q, "%d", &id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
			return
		}
		customerID = &id
	}

	entries, err := h.Service.List(customerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch khatabook entries"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// MarkPaid settles an entry in full: paid forced to total, pending to zero.
func (h *KhatabookHandler) MarkPaid(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.Service.MarkPaid(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark entry paid"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Update records a collection against an entry. Pending is derived from
// total minus paid; it cannot be set directly.
func (h *KhatabookHandler) Update(c *gin.Context) {
	var id uint
	if _, err := fmt.Sscanf(c.Param("id"), "%d", &id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req struct {
		PaidAmount float64 `json:"paid_amount" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Service.RecordPayment(id, req.PaidAmount)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}
