package handlers

import (
	"net/http"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/adriancmurray/notICE/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

type SubscriptionHandler struct {
	keys *services.VAPIDKeys
}

func NewSubscriptionHandler(keys *services.VAPIDKeys) *SubscriptionHandler {
	return &SubscriptionHandler{keys: keys}
}

// VapidPublicKey hands the frontend the public key it needs to subscribe.
func (h *SubscriptionHandler) VapidPublicKey(c *gin.Context) {
	if h.keys == nil || h.keys.PublicKey == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "VAPID keys not initialized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": h.keys.PublicKey})
}

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
	Geohash string `json:"geohash"`
}

// Subscribe registers or refreshes a push subscription for a geohash cell.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint and keys are required"})
		return
	}
	if !models.GeohashPattern.MatchString(req.Geohash) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "geohash must be 6-12 characters of the geohash alphabet"})
		return
	}

	sub := models.PushSubscription{
		Endpoint:   req.Endpoint,
		KeysP256dh: req.Keys.P256dh,
		KeysAuth:   req.Keys.Auth,
		Geohash:    req.Geohash,
	}

	// Re-subscribing with the same endpoint refreshes keys and geohash.
	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"keys_p256dh", "keys_auth", "geohash", "updated_at"}),
	}).Create(&sub).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save subscription"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

// Unsubscribe removes a push subscription by endpoint.
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	var req unsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	if err := db.DB.Where("endpoint = ?", req.Endpoint).
		Delete(&models.PushSubscription{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove subscription"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"unsubscribed": true})
}
