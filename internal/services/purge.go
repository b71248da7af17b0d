package services

import (
	"os"
	"sync"
	"time"

	"github.com/adriancmurray/notICE/internal/db"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/apex/log"
)

// subscriptionTTL is how long an un-refreshed push subscription is kept
// before the purge worker drops it.
const subscriptionTTL = 7 * 24 * time.Hour

// PurgeService deletes expired reports and stale push subscriptions on an
// hourly cadence.
type PurgeService struct {
	reportTTL time.Duration
	interval  time.Duration
}

var (
	purgeService *PurgeService
	purgeOnce    sync.Once
)

// GetPurgeService starts the background purge worker on first call.
func GetPurgeService() *PurgeService {
	purgeOnce.Do(func() {
		ttl := 24 * time.Hour
		if v := os.Getenv("REPORT_TTL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				ttl = d
			} else {
				log.Warnf("Invalid REPORT_TTL %q, using 24h", v)
			}
		}

		purgeService = &PurgeService{
			reportTTL: ttl,
			interval:  time.Hour,
		}
		go purgeService.worker()
	})
	return purgeService
}

func (s *PurgeService) worker() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for range ticker.C {
		s.RunOnce()
	}
}

// RunOnce performs a single purge pass.
func (s *PurgeService) RunOnce() {
	now := time.Now()

	reports := db.DB.
		Where("created_at < ?", now.Add(-s.reportTTL)).
		Delete(&models.Report{})
	if reports.Error != nil {
		log.Errorf("Failed to purge old reports: %v", reports.Error)
	}

	subs := db.DB.
		Where("updated_at < ?", now.Add(-subscriptionTTL)).
		Delete(&models.PushSubscription{})
	if subs.Error != nil {
		log.Errorf("Failed to purge stale subscriptions: %v", subs.Error)
	}

	log.Infof("Purged %d reports, %d subscriptions", reports.RowsAffected, subs.RowsAffected)
}
