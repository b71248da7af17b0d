package models

import (
	"regexp"
	"time"
)

// Report types selectable by clients. An empty type is allowed and rendered
// as a generic pin by the notification formatter.
const (
	ReportTypeDanger  = "danger"
	ReportTypeWarning = "warning"
	ReportTypeSafe    = "safe"
)

// GeohashPattern is the allowed alphabet/length for report geohashes.
var GeohashPattern = regexp.MustCompile(`^[0-9bcdefghjkmnpqrstuvwxyz]{6,12}$`)

// Report is an anonymous, location-tagged incident report.
//
// DeviceFingerprint is write-once at creation and consulted only by the rate
// limiter; it is never serialized to clients and never accepted as a filter.
type Report struct {
	ID                string    `gorm:"primaryKey;size:15" json:"id"`
	Geohash           string    `gorm:"size:12;not null;index" json:"geohash"`
	Type              string    `gorm:"size:20;index" json:"type"`
	Description       string    `gorm:"size:500" json:"description"`
	Lat               float64   `json:"lat"`
	Long              float64   `json:"long"`
	Confirmations     int       `gorm:"not null;default:0" json:"confirmations"`
	Disputes          int       `gorm:"not null;default:0" json:"disputes"`
	DeviceFingerprint string    `gorm:"size:64;index" json:"-"`
	CreatedAt         time.Time `gorm:"index:idx_reports_created,sort:desc" json:"created"`
	UpdatedAt         time.Time `json:"updated"`
}

// ValidType reports whether t is one of the known report types or empty.
func ValidType(t string) bool {
	switch t {
	case "", ReportTypeDanger, ReportTypeWarning, ReportTypeSafe:
		return true
	}
	return false
}
