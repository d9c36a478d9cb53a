// Package whatsapp sends messages through the WhatsApp Cloud API (Graph
// API). Only text messages are needed here; templates and media are out of
// scope for the ordering flow.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

const defaultBaseURL = "https://graph.facebook.com/v18.0"

// Client posts messages on behalf of one business phone number.
type Client struct {
	baseURL       string
	token         string
	phoneNumberID string
	httpc         *http.Client
}

var _ ports.Messenger = (*Client)(nil)

func New(token, phoneNumberID string) *Client {
	return &Client{
		baseURL:       defaultBaseURL,
		token:         token,
		phoneNumberID: phoneNumberID,
		httpc:         &http.Client{},
	}
}

type textPayload struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendText delivers one text message to the given phone number.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	payload := textPayload{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
	}
	payload.Text.Body = body

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("whatsapp: encode message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("whatsapp: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp: send to %s: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp: send to %s: status %d: %s",
			to, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err == nil && len(decoded.Messages) > 0 {
		slog.DebugContext(ctx, "message sent", "to", to, "message_id", decoded.Messages[0].ID)
	}
	return nil
}
