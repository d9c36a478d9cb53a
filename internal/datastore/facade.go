// Package datastore provides the backend-agnostic data access facade. One
// backend is chosen at process start; consumers never learn which. The
// facade translates backend capability gaps into benign results, enforces
// the orderable-inventory rule on everything it returns, and logs failures
// once at this boundary before propagating them.
package datastore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

// Service implements ports.DataStore over whichever backend it was built
// with. Optional capabilities are resolved by type assertion once, here,
// so the per-call paths stay branch-free on backend identity.
type Service struct {
	backend ports.Backend
	writer  ports.InventoryWriter
	orders  ports.OrderQueries
	name    string
}

var _ ports.DataStore = (*Service)(nil)

// New builds the facade around backend. A nil backend is allowed: the
// service starts degraded and every operation reports
// entity.ErrBackendUnavailable.
func New(backend ports.Backend) *Service {
	s := &Service{backend: backend, name: "none"}
	if backend == nil {
		return s
	}
	s.name = backend.Name()
	if w, ok := backend.(ports.InventoryWriter); ok {
		s.writer = w
	}
	if q, ok := backend.(ports.OrderQueries); ok {
		s.orders = q
	}
	return s
}

func (s *Service) GetInventory(ctx context.Context) ([]entity.InventoryItem, error) {
	if s.backend == nil {
		return nil, s.unavailable(ctx, "get inventory")
	}
	items, err := s.orderable(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "inventory fetch failed", "backend", s.name, "error", err)
		return nil, fmt.Errorf("datastore: get inventory: %w", err)
	}
	slog.DebugContext(ctx, "inventory fetched", "backend", s.name, "items", len(items))
	return items, nil
}

func (s *Service) GetItemByName(ctx context.Context, name string) (entity.InventoryItem, error) {
	if s.backend == nil {
		return entity.InventoryItem{}, s.unavailable(ctx, "get item by name")
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return entity.InventoryItem{}, entity.ErrNotFound
	}

	items, err := s.orderable(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "item lookup failed", "backend", s.name, "name", name, "error", err)
		return entity.InventoryItem{}, fmt.Errorf("datastore: get item by name: %w", err)
	}
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), needle) {
			return item, nil
		}
	}
	slog.DebugContext(ctx, "no item matched", "backend", s.name, "name", name)
	return entity.InventoryItem{}, entity.ErrNotFound
}

func (s *Service) UpdateInventoryQuantity(ctx context.Context, itemID int64, quantity int) (bool, error) {
	if s.backend == nil {
		return false, s.unavailable(ctx, "update inventory quantity")
	}
	if s.writer == nil {
		slog.WarnContext(ctx, "backend cannot update inventory, skipping",
			"backend", s.name, "item_id", itemID)
		return false, nil
	}

	if err := s.writer.UpdateItemQuantity(ctx, itemID, quantity); err != nil {
		slog.ErrorContext(ctx, "inventory update failed",
			"backend", s.name, "item_id", itemID, "quantity", quantity, "error", err)
		return false, fmt.Errorf("datastore: update inventory quantity: %w", err)
	}
	slog.InfoContext(ctx, "inventory updated",
		"backend", s.name, "item_id", itemID, "quantity", quantity)
	return true, nil
}

// CreateOrder stamps the pending status and creation time, mints an
// ORD-<unix-ms> reference, and persists through the backend. Backends with
// their own identifiers win; the minted reference only survives where the
// store cannot assign one.
func (s *Service) CreateOrder(ctx context.Context, draft entity.OrderDraft) (entity.Order, error) {
	if s.backend == nil {
		return entity.Order{}, s.unavailable(ctx, "create order")
	}

	now := time.Now().UTC()
	items := draft.Items
	if items == nil {
		items = []entity.OrderItem{}
	}
	order := entity.Order{
		ID:            fmt.Sprintf("ORD-%d", now.UnixMilli()),
		CustomerPhone: draft.CustomerPhone,
		CustomerName:  draft.CustomerName,
		Items:         items,
		TotalAmount:   draft.TotalAmount,
		Status:        entity.OrderStatusPending,
		CreatedAt:     now,
	}

	itemsJSON, err := json.Marshal(items)
	if err != nil {
		slog.ErrorContext(ctx, "order items not serializable", "error", err)
		return entity.Order{}, fmt.Errorf("datastore: create order: %w", err)
	}

	created, err := s.backend.InsertOrder(ctx, order, string(itemsJSON))
	if err != nil {
		slog.ErrorContext(ctx, "order creation failed", "backend", s.name, "error", err)
		return entity.Order{}, fmt.Errorf("datastore: create order: %w", err)
	}
	if created.ID == "" {
		created.ID = order.ID
	}

	slog.InfoContext(ctx, "order created",
		"backend", s.name, "order_id", created.ID,
		"customer_phone", created.CustomerPhone, "total", created.TotalAmount.String())
	return created, nil
}

func (s *Service) GetOrdersByPhone(ctx context.Context, phone string) ([]entity.Order, error) {
	if s.backend == nil {
		return nil, s.unavailable(ctx, "get orders by phone")
	}
	if s.orders == nil {
		slog.WarnContext(ctx, "backend cannot query orders, returning none", "backend", s.name)
		return []entity.Order{}, nil
	}

	orders, err := s.orders.OrdersByPhone(ctx, phone)
	if err != nil {
		slog.ErrorContext(ctx, "order history fetch failed",
			"backend", s.name, "customer_phone", phone, "error", err)
		return nil, fmt.Errorf("datastore: get orders by phone: %w", err)
	}
	return orders, nil
}

func (s *Service) GetOrderByID(ctx context.Context, id string) (entity.Order, error) {
	if s.backend == nil {
		return entity.Order{}, s.unavailable(ctx, "get order by id")
	}
	if s.orders == nil {
		slog.WarnContext(ctx, "backend cannot query orders, treating as missing",
			"backend", s.name, "order_id", id)
		return entity.Order{}, entity.ErrNotFound
	}

	order, err := s.orders.OrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			slog.DebugContext(ctx, "order not found", "backend", s.name, "order_id", id)
			return entity.Order{}, err
		}
		slog.ErrorContext(ctx, "order fetch failed",
			"backend", s.name, "order_id", id, "error", err)
		return entity.Order{}, fmt.Errorf("datastore: get order by id: %w", err)
	}
	return order, nil
}

func (s *Service) GetFAQs(ctx context.Context) ([]entity.FAQ, error) {
	if s.backend == nil {
		return nil, s.unavailable(ctx, "get faqs")
	}

	faqs, err := s.activeFAQs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "faq fetch failed", "backend", s.name, "error", err)
		return nil, fmt.Errorf("datastore: get faqs: %w", err)
	}
	return faqs, nil
}

func (s *Service) SearchFAQ(ctx context.Context, query string) (entity.FAQ, error) {
	if s.backend == nil {
		return entity.FAQ{}, s.unavailable(ctx, "search faq")
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return entity.FAQ{}, entity.ErrNotFound
	}

	faqs, err := s.activeFAQs(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "faq search failed", "backend", s.name, "query", query, "error", err)
		return entity.FAQ{}, fmt.Errorf("datastore: search faq: %w", err)
	}
	for _, faq := range faqs {
		if strings.Contains(strings.ToLower(faq.Question), needle) ||
			strings.Contains(strings.ToLower(faq.Answer), needle) {
			return faq, nil
		}
	}
	return entity.FAQ{}, entity.ErrNotFound
}

// orderable narrows the backend listing to items a customer can actually
// order right now. Rows violating the availability rule (flag set but
// nothing in stock, or the inverse) never leave the data layer.
func (s *Service) orderable(ctx context.Context) ([]entity.InventoryItem, error) {
	items, err := s.backend.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.InventoryItem, 0, len(items))
	for _, item := range items {
		if item.InStock() {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Service) activeFAQs(ctx context.Context) ([]entity.FAQ, error) {
	faqs, err := s.backend.ListFAQs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]entity.FAQ, 0, len(faqs))
	for _, faq := range faqs {
		if faq.IsActive {
			out = append(out, faq)
		}
	}
	return out, nil
}

func (s *Service) unavailable(ctx context.Context, op string) error {
	slog.ErrorContext(ctx, "no data backend configured", "op", op)
	return fmt.Errorf("datastore: %s: %w", op, entity.ErrBackendUnavailable)
}
