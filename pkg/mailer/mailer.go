// Package mailer delivers transactional email through a Resend-style JSON
// API. Delivery problems are reported as a soft Result, never as an error:
// a missing API key or a failed send must not break the calling flow.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	DEFAULT_ENDPOINT = "https://api.resend.com/emails"
	DEFAULT_FROM     = "Leli Rentals <hello@updates.leli.rentals>"
	SUPPORT_EMAIL    = "support@updates.leli.rentals"
)

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	ReplyTo string `json:"reply_to,omitempty"`
}

type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Err     string `json:"error,omitempty"`
}

type Sender interface {
	SendEmail(ctx context.Context, email Email) Result
}

type Config struct {
	APIKey        string `toml:"api_key"`
	From          string `toml:"from"`
	Endpoint      string `toml:"endpoint"`
	TimeoutSecond int    `toml:"timeout_second"`
}

type Client struct {
	cfg    Config
	client *http.Client
}

func New(cfg Config) *Client {
	if cfg.From == "" {
		cfg.From = DEFAULT_FROM
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DEFAULT_ENDPOINT
	}
	if cfg.TimeoutSecond == 0 {
		cfg.TimeoutSecond = 10
	}
	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSecond) * time.Second,
		},
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (c *Client) SendEmail(ctx context.Context, email Email) Result {
	if c.cfg.APIKey == "" {
		slog.Warn("mail api key not configured, email skipped",
			slog.String("to", email.To),
			slog.String("subject", email.Subject))
		return Result{Err: "email service not configured"}
	}

	if email.ReplyTo == "" {
		email.ReplyTo = SUPPORT_EMAIL
	}
	body, err := json.Marshal(sendRequest{
		From:    c.cfg.From,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
		ReplyTo: email.ReplyTo,
	})
	if err != nil {
		return c.failed(email, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return c.failed(email, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return c.failed(email, err.Error())
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	var parsed sendResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return c.failed(email, msg)
	}

	slog.Debug("email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("id", parsed.ID))
	return Result{Success: true, ID: parsed.ID}
}

func (c *Client) failed(email Email, reason string) Result {
	slog.Error("email sending failed",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("error", reason))
	return Result{Err: reason}
}
