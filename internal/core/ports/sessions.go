package ports

import (
	"context"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
)

// SessionStore keeps per-customer conversational state between webhook
// calls. Implementations bound session lifetime with a TTL.
type SessionStore interface {
	// Get returns (nil, nil) when no session exists or it has expired.
	Get(ctx context.Context, phone string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, phone string) error
}
