package ports

import (
	"context"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
)

// OrderEvents notifies downstream consumers (kitchen, fulfillment) about
// order lifecycle changes. Publishing is best-effort: callers log failures
// and never fail the customer-facing flow over them.
type OrderEvents interface {
	OrderCreated(ctx context.Context, order entity.Order) error
}
