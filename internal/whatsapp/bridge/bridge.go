// Package bridge talks to the WhatsApp bridge sidecar: a QR-code
// authenticated gateway that exposes session status and message
// dispatch over HTTP.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vestrapos/vestra/internal/config"
	"go.uber.org/zap"
)

var (
	ErrUnavailable = errors.New("bridge_unavailable")
	ErrNotReady    = errors.New("bridge_not_ready")
)

// Status is the bridge session state. QRCode is populated (base64 PNG)
// only while the session awaits scanning.
type Status struct {
	State  string `json:"state"` // ready | waiting_qr | disconnected
	QRCode string `json:"qr_code,omitempty"`
}

func (s Status) Ready() bool { return s.State == "ready" }

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	log        *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.WhatsAppBridgeURL,
		token:      cfg.WhatsAppBridgeToken,
		log:        log.Named("whatsapp.bridge"),
	}
}

// Configured reports whether a bridge endpoint is set at all. Without
// one, only wa.me share links are offered.
func (c *Client) Configured() bool { return c.baseURL != "" }

func (c *Client) Status(ctx context.Context) (Status, error) {
	if !c.Configured() {
		return Status{State: "disconnected"}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return Status{}, err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{}, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Status{}, ErrUnavailable
	}
	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return Status{}, ErrUnavailable
	}
	return status, nil
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

func (c *Client) SendMessage(ctx context.Context, phone, message string) error {
	if !c.Configured() {
		return ErrUnavailable
	}

	body, err := json.Marshal(sendRequest{Phone: phone, Message: message})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ErrUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		return nil
	case http.StatusConflict, http.StatusServiceUnavailable:
		return ErrNotReady
	default:
		c.log.Warn("bridge send failed", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("bridge send failed: status %d", resp.StatusCode)
	}
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
