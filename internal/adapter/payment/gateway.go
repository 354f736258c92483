// Package payment is a client for a PayPal-style orders API.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/heartmarshall/beavernet-backend/internal/config"
)

// tokenSlack renews the access token this long before it expires.
const tokenSlack = 30 * time.Second

// OrderRequest is the input of CreateOrder.
type OrderRequest struct {
	Amount   string
	Currency string
	Intent   string
}

// Response is the gateway's answer, relayed to the caller as is.
type Response struct {
	Status int
	Body   json.RawMessage
}

// Gateway talks to the orders API with client-credentials OAuth.
type Gateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	log          *slog.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewGateway creates a Gateway from configuration.
func NewGateway(cfg config.PaymentConfig, logger *slog.Logger) *Gateway {
	return &Gateway{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		log:          logger.With("adapter", "payment"),
		now:          time.Now,
	}
}

// CreateOrder opens a checkout order for a single purchase unit.
func (g *Gateway) CreateOrder(ctx context.Context, in OrderRequest) (*Response, error) {
	body := map[string]any{
		"intent": in.Intent,
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": in.Currency,
				"value":         in.Amount,
			},
		}},
	}

	g.log.DebugContext(ctx, "create order", slog.String("amount", in.Amount), slog.String("currency", in.Currency))
	return g.call(ctx, "/v2/checkout/orders", body)
}

// CaptureOrder captures an approved order.
func (g *Gateway) CaptureOrder(ctx context.Context, orderID string) (*Response, error) {
	g.log.DebugContext(ctx, "capture order", slog.String("order_id", orderID))
	return g.call(ctx, "/v2/checkout/orders/"+url.PathEscape(orderID)+"/capture", map[string]any{})
}

func (g *Gateway) call(ctx context.Context, path string, payload any) (*Response, error) {
	token, err := g.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("payment: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("payment: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.log.ErrorContext(ctx, "payment request failed", slog.String("path", path), slog.String("error", err.Error()))
		return nil, fmt.Errorf("payment: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("payment: read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payment: non-JSON response with status %d", resp.StatusCode)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		g.resetToken()
	}

	return &Response{Status: resp.StatusCode, Body: json.RawMessage(raw)}, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (g *Gateway) accessToken(ctx context.Context) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.token != "" && g.now().Before(g.expiresAt) {
		return g.token, nil
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("payment: create token request: %w", err)
	}
	req.SetBasicAuth(g.clientID, g.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("payment: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("payment: token request: unexpected status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return "", fmt.Errorf("payment: decode token: %w", err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("payment: empty access token")
	}

	g.token = tr.AccessToken
	g.expiresAt = g.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSlack)
	return g.token, nil
}

func (g *Gateway) resetToken() {
	g.mu.Lock()
	g.token = ""
	g.mu.Unlock()
}
