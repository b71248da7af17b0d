package handlers

import (
	"net/http"
	"os"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/adriancmurray/notICE/internal/utils"
	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminTokenHeader carries the operator token for admin endpoints.
const AdminTokenHeader = "X-Admin-Token"

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// checkAdmin verifies the request token against the bcrypt hash configured
// in ADMIN_TOKEN_HASH. An unset hash disables admin endpoints entirely.
func (h *AdminHandler) checkAdmin(c *gin.Context) bool {
	hash := os.Getenv("ADMIN_TOKEN_HASH")
	if hash == "" {
		return false
	}
	token := c.GetHeader(AdminTokenHeader)
	if token == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token)) == nil
}

// Torch deletes every stored report. Operators use it to wipe the map when
// a deployment has to go dark.
func (h *AdminHandler) Torch(c *gin.Context) {
	if !h.checkAdmin(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin access required"})
		return
	}

	result := db.DB.Where("1 = 1").Delete(&models.Report{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete reports"})
		return
	}

	utils.GetCache().Delete(listCacheKey)

	log.Infof("Torch executed: deleted %d reports", result.RowsAffected)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": result.RowsAffected,
	})
}
