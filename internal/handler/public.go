package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/saivarshithnaidu/car-spare/config"
	"github.com/saivarshithnaidu/car-spare/internal/models"
	"github.com/saivarshithnaidu/car-spare/pkg/database"
)

type PublicHandler struct{}

func (h *PublicHandler) GetSiteInfo(c *gin.Context) {
	c.JSON(http.StatusOK, config.AppConfig.Site)
}

func (h *PublicHandler) ListParts(c *gin.Context) {
	var parts []models.SparePart
	query := database.DB.Where("is_active = ?", true)
	if model := c.Query("car_model"); model != "" {
		query = query.Where("car_model LIKE ?", "%"+model+"%")
	}
	if err := query.Order("name").Find(&parts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parts"})
		return
	}
	c.JSON(http.StatusOK, parts)
}

func (h *PublicHandler) ListActiveAds(c *gin.Context) {
	var ads []models.Ad
	if err := database.DB.Where("active = ?", true).Order("created_at desc").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ads"})
		return
	}
	c.JSON(http.StatusOK, ads)
}
