package chatlog

import "context"

// Repository is the port for persisting transcript rows. The webhook
// handler depends on this abstraction rather than on SQLite, so tests can
// swap in a recorder and the storage engine can change without touching
// transport code.
type Repository interface {
	// Save appends one row. The transcript is append-only; rows are never
	// updated or deleted.
	Save(ctx context.Context, msg *Message) error
}
