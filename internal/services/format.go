package services

import (
	"strconv"

	"github.com/adriancmurray/notICE/internal/models"
)

// Presentation is the channel-agnostic rendering of a report, computed fresh
// for each dispatch and never persisted.
type Presentation struct {
	Emoji       string
	Label       string
	Description string
	Lat         float64
	Long        float64
	MapURL      string
	Priority    string
	Type        string
}

// Priority classes understood by the providers.
const (
	PriorityUrgent  = "urgent"
	PriorityHigh    = "high"
	PriorityDefault = "default"
)

// mapZoom is the fixed zoom level for generated map links.
const mapZoom = "17"

// FormatReport maps a report into its presentation. It is pure and total:
// unknown types degrade to a generic pin with the raw type as label, and
// missing fields render as neutral defaults.
func FormatReport(r *models.Report) Presentation {
	emoji := "📍"
	label := r.Type
	priority := PriorityDefault

	switch r.Type {
	case models.ReportTypeDanger:
		emoji, label, priority = "🚨", "DANGER", PriorityUrgent
	case models.ReportTypeWarning:
		emoji, label, priority = "⚠️", "Warning", PriorityHigh
	case models.ReportTypeSafe:
		emoji, label = "✅", "All Clear"
	}
	if label == "" {
		label = "Report"
	}

	return Presentation{
		Emoji:       emoji,
		Label:       label,
		Description: r.Description,
		Lat:         r.Lat,
		Long:        r.Long,
		MapURL:      mapURL(r.Lat, r.Long),
		Priority:    priority,
		Type:        r.Type,
	}
}

// mapURL builds the OpenStreetMap link for the coordinates. The output is
// deterministic so the same report always yields the same link.
func mapURL(lat, long float64) string {
	la := strconv.FormatFloat(lat, 'f', -1, 64)
	lo := strconv.FormatFloat(long, 'f', -1, 64)
	return "https://www.openstreetmap.org/?mlat=" + la + "&mlon=" + lo +
		"#map=" + mapZoom + "/" + la + "/" + lo
}
