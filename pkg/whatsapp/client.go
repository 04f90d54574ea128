package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDisabled is returned when no provider token is configured.
var ErrDisabled = errors.New("whatsapp delivery disabled")

type httpDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type sendRequest struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

type sendResponse struct {
	Status bool   `json:"status"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Client delivers text messages through the Fonnte gateway.
type Client struct {
	http    httpDoer
	baseURL string
	token   string
}

// NewClient builds a gateway client. An empty token yields a client whose Send returns ErrDisabled.
func NewClient(baseURL, token string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.fonnte.com"
	}
	return &Client{
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
	}
}

// SetHTTPClient swaps the transport, mainly for tests.
func (c *Client) SetHTTPClient(client httpDoer) {
	if client == nil {
		c.http = &http.Client{Timeout: 15 * time.Second}
		return
	}
	c.http = client
}

// Enabled reports whether a provider token is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.token != ""
}

// Send posts one message to a phone number.
func (c *Client) Send(ctx context.Context, target, message string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	target = NormalizePhone(target)
	if target == "" {
		return fmt.Errorf("whatsapp target required")
	}

	body, err := json.Marshal(sendRequest{Target: target, Message: message})
	if err != nil {
		return fmt.Errorf("encode whatsapp request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return fmt.Errorf("read whatsapp response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("whatsapp gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed sendResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("decode whatsapp response: %w", err)
	}
	if !parsed.Status {
		reason := parsed.Reason
		if reason == "" {
			reason = parsed.Detail
		}
		return fmt.Errorf("whatsapp gateway rejected message: %s", reason)
	}
	return nil
}

// NormalizePhone strips formatting and rewrites a leading 0 to the 62 country prefix.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if strings.HasPrefix(digits, "0") {
		digits = "62" + digits[1:]
	}
	return digits
}
