package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/adriancmurray/notICE/internal/models"
	"github.com/apex/log"
	"gorm.io/gorm"
)

// geohashPrefixLen is the shared-prefix length used to find nearby
// subscribers; 4 characters is roughly a 20km cell.
const geohashPrefixLen = 4

// maxPushPerReport caps fanout per report so one submission cannot trigger
// an unbounded number of outbound push calls.
const maxPushPerReport = 100

// WebPushProvider delivers alerts to browser push subscriptions whose
// geohash shares a prefix with the report's. Individual subscription
// failures are logged only; 404/410 responses drop the subscription.
type WebPushProvider struct {
	DB         *gorm.DB
	Keys       *VAPIDKeys
	Subscriber string
}

func NewWebPushProvider(database *gorm.DB, keys *VAPIDKeys) *WebPushProvider {
	subscriber := os.Getenv("VAPID_SUBSCRIBER")
	if subscriber == "" {
		subscriber = "mailto:admin@notice.local"
	}

	return &WebPushProvider{
		DB:         database,
		Keys:       keys,
		Subscriber: subscriber,
	}
}

func (w *WebPushProvider) Name() string { return "webpush" }

func (w *WebPushProvider) Enabled() bool {
	return w.DB != nil && w.Keys.valid()
}

func (w *WebPushProvider) Deliver(ctx context.Context, r *models.Report, p Presentation) error {
	if len(r.Geohash) < geohashPrefixLen {
		return fmt.Errorf("report geohash too short for proximity lookup")
	}
	prefix := r.Geohash[:geohashPrefixLen]

	var subs []models.PushSubscription
	err := w.DB.WithContext(ctx).
		Where("geohash LIKE ?", prefix+"%").
		Limit(maxPushPerReport).
		Find(&subs).Error
	if err != nil {
		return fmt.Errorf("query subscriptions: %w", err)
	}

	return w.fanout(ctx, r, subs, p)
}

// fanout pushes the report to each subscription. It honors ctx between
// sends and for the sends themselves, so one hung push service cannot
// hold a dispatch past its deadline.
func (w *WebPushProvider) fanout(ctx context.Context, r *models.Report, subs []models.PushSubscription, p Presentation) error {
	payload, err := json.Marshal(map[string]any{
		"title": p.Emoji + " " + p.Label,
		"body":  p.Description,
		"id":    r.ID,
		"url":   fmt.Sprintf("/?lat=%f&long=%f", r.Lat, r.Long),
	})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	sent, attempted := 0, 0
	for _, sub := range subs {
		if ctx.Err() != nil {
			return fmt.Errorf("push fanout interrupted after %d/%d: %w", sent, len(subs), ctx.Err())
		}
		if sub.Endpoint == "" || sub.KeysP256dh == "" || sub.KeysAuth == "" {
			continue
		}
		attempted++

		resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.KeysP256dh,
				Auth:   sub.KeysAuth,
			},
		}, &webpush.Options{
			Subscriber:      w.Subscriber,
			VAPIDPublicKey:  w.Keys.PublicKey,
			VAPIDPrivateKey: w.Keys.PrivateKey,
			TTL:             3600,
		})
		if err != nil {
			log.Errorf("Push delivery failed for subscription %d: %v", sub.ID, err)
			if resp != nil && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone) && w.DB != nil {
				if err := w.DB.Delete(&sub).Error; err != nil {
					log.Errorf("Failed to delete stale subscription %d: %v", sub.ID, err)
				}
			}
			continue
		}
		resp.Body.Close()
		sent++
	}

	log.Infof("Push: sent %d/%d notifications for report %s near %s", sent, len(subs), r.ID, r.Geohash)
	if attempted > 0 && sent == 0 {
		return fmt.Errorf("no push delivered: all %d attempts failed", attempted)
	}
	return nil
}
