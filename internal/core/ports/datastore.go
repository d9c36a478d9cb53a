package ports

import (
	"context"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
)

// DataStore is the single backend-agnostic contract consumers use for
// business data. Which backend sits behind it is fixed at construction and
// invisible to callers.
//
// Error policy: transport failures are logged once at this boundary and
// propagated unchanged; entity.ErrNotFound marks a single-row miss;
// entity.ErrBackendUnavailable marks a process started with no backend.
// Capability gaps on the active backend come back as benign zero results
// (false, empty slice, ErrNotFound), never as errors.
type DataStore interface {
	// GetInventory returns only items that are actually orderable.
	GetInventory(ctx context.Context) ([]entity.InventoryItem, error)

	// GetItemByName does a case-insensitive substring match over
	// GetInventory results and returns the FIRST match in sequence order.
	// Callers must not assume "best" match.
	GetItemByName(ctx context.Context, name string) (entity.InventoryItem, error)

	// UpdateInventoryQuantity persists a new quantity and the availability
	// flag derived from it. A (false, nil) return means the active backend
	// cannot persist the change; it is not an error and not retryable.
	UpdateInventoryQuantity(ctx context.Context, itemID int64, quantity int) (bool, error)

	// CreateOrder stamps status and creation time, serializes the items,
	// and hands the order to the backend. It performs no validation.
	CreateOrder(ctx context.Context, draft entity.OrderDraft) (entity.Order, error)

	// GetOrdersByPhone lists a customer's orders newest-first. Backends
	// without order queries return an empty slice, not an error.
	GetOrdersByPhone(ctx context.Context, phone string) ([]entity.Order, error)

	// GetOrderById fetches one order. Backends without order queries
	// always report entity.ErrNotFound.
	GetOrderByID(ctx context.Context, id string) (entity.Order, error)

	// GetFAQs returns active FAQs only.
	GetFAQs(ctx context.Context) ([]entity.FAQ, error)

	// SearchFAQ matches the query case-insensitively against question OR
	// answer text; first match wins.
	SearchFAQ(ctx context.Context, query string) (entity.FAQ, error)
}

// Backend is the capability set every backing store provides. Adapters
// return canonical entities; raw row shapes never leave the data layer.
type Backend interface {
	// Name identifies the backend in logs ("supabase", "sheets").
	Name() string

	// Ping is the cheap startup reachability read. Backends with no cheap
	// read accept configuration as readiness and return nil.
	Ping(ctx context.Context) error

	// ListInventory returns inventory rows in the store's natural order.
	// Stores that can narrow to available items server-side do so; the
	// facade enforces orderability on whatever comes back.
	ListInventory(ctx context.Context) ([]entity.InventoryItem, error)

	// ListFAQs returns active FAQ rows.
	ListFAQs(ctx context.Context) ([]entity.FAQ, error)

	// InsertOrder persists the order. itemsJSON is the pre-serialized
	// transportable form of order.Items. The order arrives with a
	// caller-minted reference in ID; backends that assign their own
	// identifiers return the stored row with theirs, all others echo the
	// order back unchanged.
	InsertOrder(ctx context.Context, order entity.Order, itemsJSON string) (entity.Order, error)
}

// InventoryWriter is the optional capability to update inventory rows in
// place. The spreadsheet backend deliberately does not implement it.
type InventoryWriter interface {
	// UpdateItemQuantity sets the quantity and recomputes the availability
	// flag in the same write. A missing item id is entity.ErrNotFound.
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
}

// OrderQueries is the optional capability to read orders back. The
// spreadsheet backend's append-only range cannot serve these.
type OrderQueries interface {
	// OrdersByPhone returns the customer's orders newest-first.
	OrdersByPhone(ctx context.Context, phone string) ([]entity.Order, error)

	// OrderByID returns entity.ErrNotFound when no row matches.
	OrderByID(ctx context.Context, id string) (entity.Order, error)
}
