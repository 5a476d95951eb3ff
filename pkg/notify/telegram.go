// Package notify delivers overdue reminders. The channel is fire-and-forget:
// a failed send is logged by the caller and never blocks the sweep.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// Notifier sends a plain-text message to the configured channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

type TelegramConfig struct {
	BotToken string
	ChatID   string
	BaseURL  string

	Client *http.Client
}

type TelegramClient struct {
	chatID     string
	endpoint   string
	httpClient *http.Client
}

func NewTelegram(cfg TelegramConfig) (*TelegramClient, error) {
	if strings.TrimSpace(cfg.BotToken) == "" || strings.TrimSpace(cfg.ChatID) == "" {
		return nil, fmt.Errorf("telegram: bot_token and chat_id are required")
	}

	base := cfg.BaseURL
	if base == "" {
		base = "https://api.telegram.org"
	}

	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("telegram: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, "bot"+cfg.BotToken, "sendMessage")

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &TelegramClient{
		chatID:     cfg.ChatID,
		endpoint:   u.String(),
		httpClient: client,
	}, nil
}

func (c *TelegramClient) Send(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id": c.chatID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("telegram: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("telegram: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	return nil
}
