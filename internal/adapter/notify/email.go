package notify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/srgjo27/movie_cashier/internal/adapter/export"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/platform/logger"
)

const DefaultResendURL = "https://api.resend.com/emails"

type Attachment struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

type resendEmail struct {
	From        string       `json:"from"`
	To          string       `json:"to"`
	Subject     string       `json:"subject"`
	HTML        string       `json:"html"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

type EmailConfig struct {
	APIKey  string
	From    string
	BaseURL string
	Timeout time.Duration
}

// EmailSender mails the bill with its PDF through the Resend API. Without an
// API key it only logs the message.
type EmailSender struct {
	cfg        EmailConfig
	httpClient *http.Client
	render     func(domain.SessionBill) ([]byte, error)
}

func NewEmailSender(cfg EmailConfig) *EmailSender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultResendURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &EmailSender{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		render:     export.RenderPDF,
	}
}

func (s *EmailSender) SendBill(ctx context.Context, recipient string, bill domain.SessionBill) error {
	if strings.TrimSpace(recipient) == "" {
		return fmt.Errorf("no recipient for bill %s", bill.SessionID)
	}

	subject := fmt.Sprintf("Your movie tickets: $%.2f", bill.Total)
	text := export.FormatStatement(bill)

	if s.cfg.APIKey == "" {
		logger.WithFields("to", recipient, "session_id", bill.SessionID).Warn("Missing RESEND_API_KEY, mock email triggered")
		return nil
	}

	pdf, err := s.render(bill)
	if err != nil {
		return err
	}

	payload := resendEmail{
		From:    s.cfg.From,
		To:      recipient,
		Subject: subject,
		HTML:    "<pre>" + htmlEscape(text) + "</pre>",
		Text:    text,
		Attachments: []Attachment{{
			Filename: "bill-" + bill.SessionID.String() + ".pdf",
			Content:  base64.StdEncoding.EncodeToString(pdf),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("resend API error: %s", resp.Status)
	}

	logger.WithFields("to", recipient, "session_id", bill.SessionID).Info("Bill emailed")
	return nil
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}
