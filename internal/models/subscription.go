package models

import (
	"time"
)

// PushSubscription stores a browser push endpoint together with the coarse
// geohash the subscriber wants alerts for. Stale subscriptions are purged by
// the TTL worker and dropped eagerly when the push service reports 404/410.
type PushSubscription struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Endpoint   string    `gorm:"size:500;not null;uniqueIndex" json:"endpoint"`
	KeysP256dh string    `gorm:"size:200;not null" json:"-"`
	KeysAuth   string    `gorm:"size:100;not null" json:"-"`
	Geohash    string    `gorm:"size:12;not null;index" json:"geohash"`
	CreatedAt  time.Time `json:"created"`
	UpdatedAt  time.Time `json:"updated"`
}
