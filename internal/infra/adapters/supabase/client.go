// Package supabase implements the data backend against a Supabase
// (PostgREST) endpoint. Filtering and ordering happen server-side through
// query parameters; inserts ask for the stored representation back so the
// database-assigned identifiers stay authoritative.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

const (
	restPath      = "/rest/v1/"
	inventoryView = "inventory"
	faqView       = "faqs"
	ordersView    = "orders"
)

// Client talks to one PostgREST endpoint. It is safe for concurrent use and
// its configuration is immutable after New.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

// The relational backend carries the full capability set.
var (
	_ ports.Backend         = (*Client)(nil)
	_ ports.InventoryWriter = (*Client)(nil)
	_ ports.OrderQueries    = (*Client)(nil)
)

// New returns a client for the given project base URL and service key.
// No request timeout is imposed here; callers bound latency through ctx.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{},
	}
}

func (c *Client) Name() string { return "supabase" }

// Ping issues the cheapest read the REST surface offers: a single-row
// id-only select against the inventory view.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := c.get(ctx, inventoryView, q, &rows); err != nil {
		return fmt.Errorf("supabase: ping: %w", err)
	}
	return nil
}

// inventoryRow is the raw PostgREST shape of an inventory record.
type inventoryRow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	IsAvailable bool            `json:"is_available"`
}

func (r inventoryRow) toEntity() entity.InventoryItem {
	return entity.InventoryItem{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Quantity:    r.Quantity,
		IsAvailable: r.IsAvailable,
	}
}

func (c *Client) ListInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_available", "eq.true")
	q.Set("order", "id.asc")

	var rows []inventoryRow
	if err := c.get(ctx, inventoryView, q, &rows); err != nil {
		return nil, fmt.Errorf("supabase: list inventory: %w", err)
	}

	items := make([]entity.InventoryItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, r.toEntity())
	}
	return items, nil
}

// UpdateItemQuantity patches quantity and the derived availability flag in
// one write, keeping the is_available == (quantity > 0) invariant intact on
// the stored row. A patch that matches no row reports entity.ErrNotFound.
func (c *Client) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(itemID, 10))

	body := map[string]any{
		"quantity":     quantity,
		"is_available": quantity > 0,
	}

	var rows []inventoryRow
	if err := c.send(ctx, http.MethodPatch, inventoryView, q, body, &rows); err != nil {
		return fmt.Errorf("supabase: update item %d: %w", itemID, err)
	}
	if len(rows) == 0 {
		return fmt.Errorf("supabase: update item %d: %w", itemID, entity.ErrNotFound)
	}
	return nil
}

type faqRow struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	IsActive bool   `json:"is_active"`
}

func (c *Client) ListFAQs(ctx context.Context) ([]entity.FAQ, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("is_active", "eq.true")
	q.Set("order", "id.asc")

	var rows []faqRow
	if err := c.get(ctx, faqView, q, &rows); err != nil {
		return nil, fmt.Errorf("supabase: list faqs: %w", err)
	}

	faqs := make([]entity.FAQ, 0, len(rows))
	for _, r := range rows {
		faqs = append(faqs, entity.FAQ{
			ID:       r.ID,
			Question: r.Question,
			Answer:   r.Answer,
			IsActive: r.IsActive,
		})
	}
	return faqs, nil
}

// orderRow is the raw PostgREST shape of an order record. Items live in a
// jsonb column holding the serialized line items.
type orderRow struct {
	ID            int64           `json:"id"`
	CustomerPhone string          `json:"customer_phone"`
	CustomerName  string          `json:"customer_name"`
	Items         json.RawMessage `json:"items"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (r orderRow) toEntity() (entity.Order, error) {
	var items []entity.OrderItem
	if len(r.Items) > 0 && string(r.Items) != "null" {
		if err := json.Unmarshal(r.Items, &items); err != nil {
			return entity.Order{}, fmt.Errorf("decode items of order %d: %w", r.ID, err)
		}
	}
	return entity.Order{
		ID:            strconv.FormatInt(r.ID, 10),
		CustomerPhone: r.CustomerPhone,
		CustomerName:  r.CustomerName,
		Items:         items,
		TotalAmount:   r.TotalAmount,
		Status:        entity.OrderStatus(r.Status),
		CreatedAt:     r.CreatedAt,
	}, nil
}

// InsertOrder posts the order and returns the stored row, so the caller
// sees the database-assigned id.
func (c *Client) InsertOrder(ctx context.Context, order entity.Order, itemsJSON string) (entity.Order, error) {
	body := map[string]any{
		"customer_phone": order.CustomerPhone,
		"customer_name":  order.CustomerName,
		"items":          json.RawMessage(itemsJSON),
		"total_amount":   order.TotalAmount,
		"status":         string(order.Status),
		"created_at":     order.CreatedAt,
	}

	var rows []orderRow
	if err := c.send(ctx, http.MethodPost, ordersView, nil, body, &rows); err != nil {
		return entity.Order{}, fmt.Errorf("supabase: insert order: %w", err)
	}
	if len(rows) == 0 {
		return entity.Order{}, fmt.Errorf("supabase: insert order: empty representation")
	}

	created, err := rows[0].toEntity()
	if err != nil {
		return entity.Order{}, fmt.Errorf("supabase: insert order: %w", err)
	}
	return created, nil
}

func (c *Client) OrdersByPhone(ctx context.Context, phone string) ([]entity.Order, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("customer_phone", "eq."+phone)
	q.Set("order", "created_at.desc")

	var rows []orderRow
	if err := c.get(ctx, ordersView, q, &rows); err != nil {
		return nil, fmt.Errorf("supabase: orders by phone: %w", err)
	}

	orders := make([]entity.Order, 0, len(rows))
	for _, r := range rows {
		o, err := r.toEntity()
		if err != nil {
			return nil, fmt.Errorf("supabase: orders by phone: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// OrderByID keeps "no row" distinct from transport failure: an empty result
// set is entity.ErrNotFound, anything else bubbles up as an error.
func (c *Client) OrderByID(ctx context.Context, id string) (entity.Order, error) {
	numeric, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		// Relational ids are numeric; anything else cannot exist here.
		return entity.Order{}, entity.ErrNotFound
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+strconv.FormatInt(numeric, 10))
	q.Set("limit", "1")

	var rows []orderRow
	if err := c.get(ctx, ordersView, q, &rows); err != nil {
		return entity.Order{}, fmt.Errorf("supabase: order by id: %w", err)
	}
	if len(rows) == 0 {
		return entity.Order{}, entity.ErrNotFound
	}

	order, err := rows[0].toEntity()
	if err != nil {
		return entity.Order{}, fmt.Errorf("supabase: order by id: %w", err)
	}
	return order, nil
}

func (c *Client) get(ctx context.Context, view string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, view, query, nil, out)
}

// send issues a mutating request with Prefer: return=representation so the
// response carries the affected rows.
func (c *Client) send(ctx context.Context, method, view string, query url.Values, body, out any) error {
	return c.do(ctx, method, view, query, body, out)
}

func (c *Client) do(ctx context.Context, method, view string, query url.Values, body, out any) error {
	endpoint := c.baseURL + restPath + view
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, view, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, view, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, view, err)
	}
	return nil
}
