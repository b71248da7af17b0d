package handlers

import (
	"net/http"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/gin-gonic/gin"
)

type RegionHandler struct{}

func NewRegionHandler() *RegionHandler {
	return &RegionHandler{}
}

// Get returns the deployment's region config for map bootstrap.
func (h *RegionHandler) Get(c *gin.Context) {
	var region models.RegionConfig
	if err := db.DB.Where("key = ?", "region").First(&region).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "region not configured"})
		return
	}
	c.JSON(http.StatusOK, region)
}
