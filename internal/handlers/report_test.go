package handlers

import (
	"strings"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildReportValid(t *testing.T) {
	h := NewReportHandler(nil)

	report, err := h.buildReport(&createReportRequest{
		Geohash:     "9xj64h",
		Type:        "danger",
		Description: "fire",
		Lat:         floatPtr(10),
		Long:        floatPtr(20),
	})
	if err != nil {
		t.Fatalf("Expected valid report, got %v", err)
	}
	if len(report.ID) != 15 {
		t.Errorf("Expected 15-char id, got %q", report.ID)
	}
	if report.Lat != 10 || report.Long != 20 {
		t.Errorf("Coordinates not carried over: %v, %v", report.Lat, report.Long)
	}
}

func TestBuildReportRejectsBadGeohash(t *testing.T) {
	h := NewReportHandler(nil)

	cases := []string{"", "9xj64", "9XJ64H", "geohash-with-a", "aaaaaaaaaaaaa"}
	for _, geohash := range cases {
		if _, err := h.buildReport(&createReportRequest{Geohash: geohash}); err == nil {
			t.Errorf("Expected rejection for geohash %q", geohash)
		}
	}
}

func TestBuildReportRejectsUnknownType(t *testing.T) {
	h := NewReportHandler(nil)

	if _, err := h.buildReport(&createReportRequest{Geohash: "9xj64h", Type: "chaos"}); err == nil {
		t.Error("Expected rejection for unknown type")
	}
}

func TestBuildReportRejectsOutOfRangeCoordinates(t *testing.T) {
	h := NewReportHandler(nil)

	if _, err := h.buildReport(&createReportRequest{Geohash: "9xj64h", Lat: floatPtr(91)}); err == nil {
		t.Error("Expected rejection for lat > 90")
	}
	if _, err := h.buildReport(&createReportRequest{Geohash: "9xj64h", Long: floatPtr(-181)}); err == nil {
		t.Error("Expected rejection for long < -180")
	}
}

func TestBuildReportSanitizesDescription(t *testing.T) {
	h := NewReportHandler(nil)

	report, err := h.buildReport(&createReportRequest{
		Geohash:     "9xj64h",
		Description: `<script>alert(1)</script>checkpoint on 5th`,
	})
	if err != nil {
		t.Fatalf("Expected valid report, got %v", err)
	}
	if strings.Contains(report.Description, "<script>") {
		t.Errorf("Description not sanitized: %q", report.Description)
	}
	if !strings.Contains(report.Description, "checkpoint on 5th") {
		t.Errorf("Plain text stripped: %q", report.Description)
	}
}

func TestBuildReportRejectsLongDescription(t *testing.T) {
	h := NewReportHandler(nil)

	if _, err := h.buildReport(&createReportRequest{
		Geohash:     "9xj64h",
		Description: strings.Repeat("a", maxDescriptionLen+1),
	}); err == nil {
		t.Error("Expected rejection for over-long description")
	}
}

func TestBuildReportDescriptionLimitCountsRunes(t *testing.T) {
	h := NewReportHandler(nil)

	// 300 three-byte runes: well under the character limit even though the
	// byte length exceeds it.
	if _, err := h.buildReport(&createReportRequest{
		Geohash:     "9xj64h",
		Description: strings.Repeat("日", 300),
	}); err != nil {
		t.Errorf("Multibyte description within limit rejected: %v", err)
	}

	if _, err := h.buildReport(&createReportRequest{
		Geohash:     "9xj64h",
		Description: strings.Repeat("日", maxDescriptionLen+1),
	}); err == nil {
		t.Error("Expected rejection for over-long multibyte description")
	}
}

func TestBuildReportOptionalFields(t *testing.T) {
	h := NewReportHandler(nil)

	report, err := h.buildReport(&createReportRequest{Geohash: "9xj64h"})
	if err != nil {
		t.Fatalf("Optional fields should not be required, got %v", err)
	}
	if report.Type != "" || report.Description != "" || report.Lat != 0 || report.Long != 0 {
		t.Errorf("Expected neutral defaults, got %+v", report)
	}
}
