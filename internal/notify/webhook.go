// Package notify delivers client summaries to outside systems: a webhook for
// the task board and a generative model for the churn risk write-up.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound call.
const DefaultTimeout = 15 * time.Second

// Payload is the body posted to the webhook.
type Payload struct {
	Titulo     string `json:"titulo"`
	Descricao  string `json:"descricao"`
	Prioridade string `json:"prioridade"`
}

// Sender delivers a payload and reports whether it left the process.
type Sender interface {
	Send(ctx context.Context, payload Payload) bool
}

// Webhook posts payloads as JSON to a fixed URL.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhook creates a webhook sender. A nil client gets DefaultTimeout.
func NewWebhook(url string, client *http.Client, logger *slog.Logger) *Webhook {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Webhook{url: url, client: client, logger: logger}
}

// Send posts payload once. The response status is not inspected: any
// completed round trip counts as delivered.
func (w *Webhook) Send(ctx context.Context, payload Payload) bool {
	if w.url == "" {
		w.warn("webhook url not configured")
		return false
	}
	body, err := json.Marshal(payload)
	if err != nil {
		w.warn("encoding webhook payload", "error", err)
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		w.warn("building webhook request", "error", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		w.warn("webhook request failed", "error", err)
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if w.logger != nil {
		w.logger.Debug("webhook delivered", "status", resp.StatusCode, "titulo", payload.Titulo)
	}
	return true
}

func (w *Webhook) warn(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Warn(msg, args...)
	}
}
