package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adriancmurray/notICE/internal/models"
)

func TestNtfyDeliver(t *testing.T) {
	var gotPath, gotTitle, gotPriority, gotTags, gotClick, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTitle = r.Header.Get("Title")
		gotPriority = r.Header.Get("Priority")
		gotTags = r.Header.Get("Tags")
		gotClick = r.Header.Get("Click")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &NtfyProvider{Topic: "notice-alerts", Server: server.URL, Client: server.Client()}

	report := &models.Report{ID: "r00000000000001", Type: models.ReportTypeWarning, Description: "ice ahead", Lat: 10, Long: 20}
	if err := p.Deliver(context.Background(), report, FormatReport(report)); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}

	if gotPath != "/notice-alerts" {
		t.Errorf("Expected topic path, got %s", gotPath)
	}
	if gotTitle != "⚠️ Warning" {
		t.Errorf("Expected title ⚠️ Warning, got %s", gotTitle)
	}
	if gotPriority != PriorityHigh {
		t.Errorf("Expected priority high, got %s", gotPriority)
	}
	if gotTags != "warning" {
		t.Errorf("Expected warning tag, got %s", gotTags)
	}
	if gotClick == "" {
		t.Error("Expected click-through URL header")
	}
	if gotBody != "ice ahead" {
		t.Errorf("Expected description body, got %q", gotBody)
	}
}

func TestNtfyDeliverEmptyDescription(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p := &NtfyProvider{Topic: "notice-alerts", Server: server.URL, Client: server.Client()}

	report := &models.Report{ID: "r00000000000001"}
	if err := p.Deliver(context.Background(), report, FormatReport(report)); err != nil {
		t.Fatalf("Deliver failed: %v", err)
	}
	if gotBody != "New report submitted" {
		t.Errorf("Expected fallback body, got %q", gotBody)
	}
}

func TestNtfyDeliverServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	p := &NtfyProvider{Topic: "notice-alerts", Server: server.URL, Client: server.Client()}

	report := &models.Report{ID: "r00000000000001"}
	if err := p.Deliver(context.Background(), report, FormatReport(report)); err == nil {
		t.Fatal("Expected error on non-2xx response")
	}
}

func TestNtfyTags(t *testing.T) {
	cases := map[string]string{
		models.ReportTypeDanger:  "rotating_light,warning",
		models.ReportTypeWarning: "warning",
		models.ReportTypeSafe:    "white_check_mark",
		"":                       "round_pushpin",
	}
	for reportType, want := range cases {
		if got := ntfyTags(reportType); got != want {
			t.Errorf("ntfyTags(%q) = %q, want %q", reportType, got, want)
		}
	}
}
