package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/middleware"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/adriancmurray/notICE/internal/services"
	"github.com/adriancmurray/notICE/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const (
	maxDescriptionLen = 500
	defaultListLimit  = 100
	maxListLimit      = 200
	listCacheKey      = "reports:recent"
	listCacheTTL      = 15 * time.Second
)

type ReportHandler struct {
	dispatcher *services.Dispatcher
	sanitizer  *bluemonday.Policy
}

func NewReportHandler(dispatcher *services.Dispatcher) *ReportHandler {
	return &ReportHandler{
		dispatcher: dispatcher,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

type createReportRequest struct {
	Geohash     string   `json:"geohash"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Lat         *float64 `json:"lat"`
	Long        *float64 `json:"long"`
}

// Create persists a new report and fans it out to the alert channels. The
// rate-limit middleware has already run; the resolved identity is in the
// context.
func (h *ReportHandler) Create(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	report, err := h.buildReport(&req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if identity, ok := c.Get(middleware.IdentityKey); ok {
		report.DeviceFingerprint, _ = identity.(string)
	}

	if err := db.DB.Create(report).Error; err != nil {
		// Deployments whose schema predates the fingerprint column must
		// still accept reports; retry without attaching the identity.
		if services.IsUnknownColumn(err) {
			report.DeviceFingerprint = ""
			err = db.DB.Omit("device_fingerprint").Create(report).Error
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save report"})
			return
		}
	}

	utils.GetCache().Delete(listCacheKey)

	// Delivery is decoupled from acceptance: failures there never roll back
	// or block the stored report.
	go h.dispatcher.Dispatch(report)

	c.JSON(http.StatusCreated, report)
}

// buildReport validates the request and assembles the record to persist.
func (h *ReportHandler) buildReport(req *createReportRequest) (*models.Report, error) {
	if !models.GeohashPattern.MatchString(req.Geohash) {
		return nil, fmt.Errorf("geohash must be 6-12 characters of the geohash alphabet")
	}
	if !models.ValidType(req.Type) {
		return nil, fmt.Errorf("type must be one of danger, warning, safe")
	}

	description := h.sanitizer.Sanitize(req.Description)
	if utf8.RuneCountInString(description) > maxDescriptionLen {
		return nil, fmt.Errorf("description must be at most %d characters", maxDescriptionLen)
	}

	var lat, long float64
	if req.Lat != nil {
		if *req.Lat < -90 || *req.Lat > 90 {
			return nil, fmt.Errorf("lat must be between -90 and 90")
		}
		lat = *req.Lat
	}
	if req.Long != nil {
		if *req.Long < -180 || *req.Long > 180 {
			return nil, fmt.Errorf("long must be between -180 and 180")
		}
		long = *req.Long
	}

	return &models.Report{
		ID:          utils.RandomID(15),
		Geohash:     req.Geohash,
		Type:        req.Type,
		Description: description,
		Lat:         lat,
		Long:        long,
	}, nil
}

// List returns recent reports, newest first. The unfiltered listing is
// cached briefly since it backs the public map view.
func (h *ReportHandler) List(c *gin.Context) {
	typeFilter := c.Query("type")
	geohashPrefix := c.Query("geohash")

	limit := defaultListLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	cacheable := typeFilter == "" && geohashPrefix == "" && limit == defaultListLimit
	if cacheable {
		if cached := utils.GetCache().Get(listCacheKey); cached != nil {
			if reports, ok := cached.([]models.Report); ok {
				c.JSON(http.StatusOK, gin.H{"reports": reports})
				return
			}
		}
	}

	query := db.DB.Order("created_at DESC").Limit(limit)
	if typeFilter != "" {
		query = query.Where("type = ?", typeFilter)
	}
	if geohashPrefix != "" {
		query = query.Where("geohash LIKE ?", geohashPrefix+"%")
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	if cacheable {
		utils.GetCache().Set(listCacheKey, reports, listCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// Get returns a single report by id.
func (h *ReportHandler) Get(c *gin.Context) {
	var report models.Report
	if err := db.DB.First(&report, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Confirm increments the confirmation counter.
func (h *ReportHandler) Confirm(c *gin.Context) {
	h.vote(c, "confirmations")
}

// Dispute increments the dispute counter.
func (h *ReportHandler) Dispute(c *gin.Context) {
	h.vote(c, "disputes")
}

// vote bumps a counter column atomically. Counters only ever increase.
func (h *ReportHandler) vote(c *gin.Context, column string) {
	id := c.Param("id")

	result := db.DB.Model(&models.Report{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record vote"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	var report models.Report
	if err := db.DB.First(&report, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"confirmations": report.Confirmations,
		"disputes":      report.Disputes,
	})
}
