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

	"github.com/arielsonkoue/mboashop-backend/pkg/config"
)

// Sender delivers WhatsApp text messages.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// Client talks to the WhatsApp Cloud API message endpoint.
type Client struct {
	cfg  config.WhatsAppConfig
	http *http.Client
}

func NewClient(cfg config.WhatsAppConfig) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

// SendText posts a plain text message to the recipient phone number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	if c.cfg.PhoneNumberID == "" || c.cfg.AccessToken == "" {
		return errors.New("whatsapp phone number id and access token are required")
	}
	to = strings.TrimSpace(to)
	if to == "" {
		return errors.New("recipient phone number is required")
	}

	payload := textPayload{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp send failed: status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
