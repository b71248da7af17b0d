package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/adriancmurray/notICE/internal/models"
)

// NtfyProvider delivers alerts as a single POST to an ntfy topic, carrying
// title, priority, tags and click-through metadata as headers and the
// description as the body.
type NtfyProvider struct {
	Topic  string
	Server string
	Client *http.Client
}

func NewNtfyProvider() *NtfyProvider {
	server := os.Getenv("NTFY_SERVER")
	if server == "" {
		server = "https://ntfy.sh"
	}

	return &NtfyProvider{
		Topic:  os.Getenv("NTFY_TOPIC"),
		Server: server,
		Client: &http.Client{},
	}
}

func (n *NtfyProvider) Name() string { return "ntfy" }

func (n *NtfyProvider) Enabled() bool {
	return n.Topic != ""
}

func (n *NtfyProvider) Deliver(ctx context.Context, r *models.Report, p Presentation) error {
	body := p.Description
	if body == "" {
		body = "New report submitted"
	}

	url := strings.TrimRight(n.Server, "/") + "/" + n.Topic
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Title", p.Emoji+" "+p.Label)
	req.Header.Set("Priority", p.Priority)
	req.Header.Set("Tags", ntfyTags(p.Type))
	req.Header.Set("Click", p.MapURL)
	req.Header.Set("Actions", "view, View Map, "+p.MapURL)

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("ntfy status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}

func ntfyTags(reportType string) string {
	switch reportType {
	case models.ReportTypeDanger:
		return "rotating_light,warning"
	case models.ReportTypeWarning:
		return "warning"
	case models.ReportTypeSafe:
		return "white_check_mark"
	}
	return "round_pushpin"
}
