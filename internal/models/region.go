package models

import (
	"time"
)

// RegionConfig holds the map bootstrap settings for this deployment, seeded
// once at startup from environment variables.
type RegionConfig struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Key       string    `gorm:"size:50;not null;uniqueIndex" json:"-"`
	Name      string    `gorm:"size:100" json:"name"`
	Lat       float64   `json:"lat"`
	Long      float64   `json:"long"`
	Zoom      int       `json:"zoom"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
