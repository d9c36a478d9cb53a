package sessions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/Rajath2005/whatsapp-food-agent/internal/core/domain/entity"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

// MemoryStore is the single-process fallback used when Redis is not
// configured or not reachable. Expiry is lazy: entries are dropped on the
// first Get past their deadline.
type MemoryStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]memoryEntry
}

type memoryEntry struct {
	session entity.Session
	expires time.Time
}

var _ ports.SessionStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		ttl:  DefaultTTL,
		data: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(ctx context.Context, phone string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.data[phone]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expires) {
		delete(s.data, phone)
		return nil, nil
	}

	// Hand out a copy; callers mutate sessions freely before saving.
	session := entry.session
	session.Cart = slices.Clone(entry.session.Cart)
	return &session, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *session
	stored.Cart = slices.Clone(session.Cart)
	s.data[session.Phone] = memoryEntry{
		session: stored,
		expires: time.Now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, phone)
	return nil
}
