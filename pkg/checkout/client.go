// Package checkout talks to the external checkout provider. The core only
// needs four calls: create a session, retrieve it, expire it, list them.
package checkout

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

	"go.uber.org/zap"
)

// Session is the provider-side checkout session handle.
type Session struct {
	ID            string    `json:"id"`
	URL           string    `json:"url"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Provider-reported values the core dispatches on
const (
	SessionStatusExpired = "expired"
	PaymentStatusPaid    = "paid"
	PaymentStatusUnpaid  = "unpaid"
)

type CreateSessionInput struct {
	// AmountMinor is the amount in the smallest currency unit
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description"`
	SuccessURL  string `json:"success_url"`
	CancelURL   string `json:"cancel_url"`
}

type Client interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
	ExpireSession(ctx context.Context, id string) error
	ListSessions(ctx context.Context) ([]Session, error)
}

// ProviderError is returned for any non-2xx provider response or transport
// failure. StatusCode is zero when the request never reached the provider.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("checkout provider: %s", e.Message)
	}
	return fmt.Sprintf("checkout provider: status %d: %s", e.StatusCode, e.Message)
}

type Config struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration

	Client *http.Client
	Logger *zap.Logger
}

type HTTPClient struct {
	secretKey  string
	baseURL    *url.URL
	httpClient *http.Client
	log        *zap.Logger
}

func New(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" || strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("checkout: secret_key and base_url are required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("checkout: parse base url: %w", err)
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &HTTPClient{
		secretKey:  cfg.SecretKey,
		baseURL:    u,
		httpClient: client,
		log:        logger.With(zap.String("client", "checkout")),
	}, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodPost, "/v1/checkout/sessions", in, &session); err != nil {
		return nil, err
	}

	c.log.Info("Checkout session created",
		zap.String("session_id", session.ID),
		zap.Int64("amount_minor", in.AmountMinor),
	)

	return &session, nil
}

func (c *HTTPClient) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	var session Session
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+id, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *HTTPClient) ExpireSession(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/v1/checkout/sessions/"+id+"/expire", nil, nil)
}

func (c *HTTPClient) ListSessions(ctx context.Context) ([]Session, error) {
	var out struct {
		Data []Session `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/checkout/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *HTTPClient) do(ctx context.Context, method, endpoint string, in, out any) error {
	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("checkout: marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("checkout: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("Checkout request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return &ProviderError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Error("Checkout request rejected",
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode),
		)
		return &ProviderError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
	}

	return nil
}
