package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/adriancmurray/notICE/internal/models"
)

// TelegramProvider delivers alerts as a single Markdown message to a
// configured channel or group via the Bot API.
type TelegramProvider struct {
	Token   string
	ChatID  string
	BaseURL string
	Client  *http.Client
}

func NewTelegramProvider() *TelegramProvider {
	return &TelegramProvider{
		Token:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		ChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
		BaseURL: "https://api.telegram.org",
		Client:  &http.Client{},
	}
}

func (t *TelegramProvider) Name() string { return "telegram" }

func (t *TelegramProvider) Enabled() bool {
	return t.Token != "" && t.ChatID != ""
}

type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (t *TelegramProvider) Deliver(ctx context.Context, r *models.Report, p Presentation) error {
	text := fmt.Sprintf("%s *%s*\n%s\n\n[📍 View Map](%s)",
		p.Emoji, p.Label, p.Description, p.MapURL)

	body, err := json.Marshal(telegramMessage{
		ChatID:                t.ChatID,
		Text:                  text,
		ParseMode:             "Markdown",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.BaseURL, t.Token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram API status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
