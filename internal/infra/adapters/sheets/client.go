// Package sheets implements the data backend against the Google Sheets
// values API. The sheet is read as rectangular ranges and decoded
// positionally, so column order in the spreadsheet is part of the contract.
//
// This backend is read-mostly: orders are appended as rows, but inventory
// writes and order lookups have no sensible mapping onto a shared
// spreadsheet and are deliberately not offered.
package sheets

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
	"time"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

const defaultBaseURL = "https://sheets.googleapis.com"

// Tab layout expected in the spreadsheet. Header rows live in row 1 and are
// skipped by starting data ranges at row 2.
const (
	inventoryRange = "Inventory!A2:E"
	faqRange       = "FAQs!A2:D"
	ordersRange    = "Orders!A:G"
	probeRange     = "Inventory!A1:A1"
)

// Client reads and appends ranges of one spreadsheet. Safe for concurrent
// use; configuration is immutable after New.
type Client struct {
	baseURL string
	apiKey  string
	sheetID string
	httpc   *http.Client
}

var _ ports.Backend = (*Client)(nil)

func New(apiKey, sheetID string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		sheetID: sheetID,
		httpc:   &http.Client{},
	}
}

func (c *Client) Name() string { return "sheets" }

// Ping reads a single header cell to prove the sheet is reachable and the
// key is accepted.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.fetch(ctx, probeRange); err != nil {
		return fmt.Errorf("sheets: ping: %w", err)
	}
	return nil
}

// ListInventory decodes the inventory tab. Malformed rows are logged and
// skipped so one bad edit in the spreadsheet cannot take the whole menu
// offline.
func (c *Client) ListInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	rows, err := c.fetch(ctx, inventoryRange)
	if err != nil {
		return nil, fmt.Errorf("sheets: list inventory: %w", err)
	}

	items := make([]entity.InventoryItem, 0, len(rows))
	for i, row := range rows {
		item, err := decodeInventoryRow(row)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed inventory row",
				"range", inventoryRange, "row", i+2, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func (c *Client) ListFAQs(ctx context.Context) ([]entity.FAQ, error) {
	rows, err := c.fetch(ctx, faqRange)
	if err != nil {
		return nil, fmt.Errorf("sheets: list faqs: %w", err)
	}

	faqs := make([]entity.FAQ, 0, len(rows))
	for i, row := range rows {
		faq, err := decodeFAQRow(row)
		if err != nil {
			slog.WarnContext(ctx, "skipping malformed faq row",
				"range", faqRange, "row", i+2, "error", err)
			continue
		}
		faqs = append(faqs, faq)
	}
	return faqs, nil
}

// InsertOrder appends one row to the orders tab. The sheet cannot mint
// identifiers, so the order arrives with its reference already set and is
// returned unchanged.
func (c *Client) InsertOrder(ctx context.Context, order entity.Order, itemsJSON string) (entity.Order, error) {
	row := []any{
		order.ID,
		order.CustomerPhone,
		order.CustomerName,
		itemsJSON,
		order.TotalAmount.String(),
		string(order.Status),
		order.CreatedAt.Format(time.RFC3339),
	}
	if err := c.append(ctx, ordersRange, row); err != nil {
		return entity.Order{}, fmt.Errorf("sheets: insert order: %w", err)
	}
	return order, nil
}

// valueRange mirrors the values API payload for both reads and appends.
type valueRange struct {
	Range  string  `json:"range,omitempty"`
	Values [][]any `json:"values"`
}

func (c *Client) fetch(ctx context.Context, rangeRef string) ([][]any, error) {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s?key=%s",
		c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(rangeRef), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", rangeRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("get %s: status %d: %s", rangeRef, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var vr valueRange
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("get %s: decode response: %w", rangeRef, err)
	}
	return vr.Values, nil
}

func (c *Client) append(ctx context.Context, rangeRef string, row []any) error {
	endpoint := fmt.Sprintf("%s/v4/spreadsheets/%s/values/%s:append?valueInputOption=RAW&key=%s",
		c.baseURL, url.PathEscape(c.sheetID), url.PathEscape(rangeRef), url.QueryEscape(c.apiKey))

	payload, err := json.Marshal(valueRange{Values: [][]any{row}})
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("append %s: %w", rangeRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("append %s: status %d: %s", rangeRef, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
