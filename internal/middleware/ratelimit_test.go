package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adriancmurray/notICE/internal/models"
	"github.com/adriancmurray/notICE/internal/services"
	"github.com/gin-gonic/gin"
)

type stubStore struct {
	prior *models.Report
	err   error
}

func (s *stubStore) FindRecentByField(field, value string, since time.Time) (*models.Report, error) {
	return s.prior, s.err
}

func newTestRouter(store services.RecentReportFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/reports", ReportRateLimit(services.NewRateLimiter(store)), func(c *gin.Context) {
		identity, _ := c.Get(IdentityKey)
		c.JSON(http.StatusCreated, gin.H{"identity": identity})
	})
	return r
}

func TestReportRateLimitRejects(t *testing.T) {
	r := newTestRouter(&stubStore{prior: &models.Report{ID: "r00000000000001", CreatedAt: time.Now()}})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	req.Header.Set(services.FingerprintHeader, "device-A")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", w.Code)
	}
}

func TestReportRateLimitAdmitsAndStashesIdentity(t *testing.T) {
	r := newTestRouter(&stubStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	req.Header.Set(services.FingerprintHeader, "device-A")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"device-A"`) {
		t.Errorf("Expected identity in context, body: %s", body)
	}
}

func TestReportRateLimitFailsOpenOnStoreError(t *testing.T) {
	r := newTestRouter(&stubStore{err: fmt.Errorf("connection refused")})

	req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
	req.Header.Set(services.FingerprintHeader, "device-A")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected admit on store error, got %d", w.Code)
	}
}
