package services

import (
	"context"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/adriancmurray/notICE/internal/models"
)

// EmailProvider delivers alerts as plain-text email over SMTP. Enabled only
// when the full SMTP configuration plus a recipient list is present.
type EmailProvider struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	To       []string
}

func NewEmailProvider() *EmailProvider {
	var to []string
	for _, addr := range strings.Split(os.Getenv("ALERT_EMAIL_TO"), ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}

	return &EmailProvider{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     os.Getenv("SMTP_FROM"),
		To:       to,
	}
}

func (e *EmailProvider) Name() string { return "email" }

func (e *EmailProvider) Enabled() bool {
	return e.Host != "" && e.Port != "" && e.Username != "" &&
		e.Password != "" && e.From != "" && len(e.To) > 0
}

func (e *EmailProvider) Deliver(ctx context.Context, r *models.Report, p Presentation) error {
	subject := fmt.Sprintf("%s %s report", p.Emoji, p.Label)
	body := fmt.Sprintf("%s\n\nMap: %s\nReport: %s\n", p.Description, p.MapURL, r.ID)

	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: notICE alerts <%s>\r\n"+
		"Subject: %s\r\n"+
		"\r\n%s", strings.Join(e.To, ","), e.From, subject, body))

	auth := smtp.PlainAuth("", e.Username, e.Password, e.Host)
	addr := fmt.Sprintf("%s:%s", e.Host, e.Port)

	// net/smtp has no context support; run the send in a goroutine so the
	// dispatcher's timeout still bounds the call.
	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, e.From, e.To, msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
}
