// Package sqlite provides the SQLite-backed chatlog.Repository.
//
// WAL mode is enabled on Open so webhook writes never block a support
// query reading a transcript, and vice versa.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Rajath2005/whatsapp-food-agent/internal/chatlog"

	// Pure-Go SQLite driver; no CGO, so the binary stays trivially
	// cross-compilable and Alpine-friendly.
	_ "modernc.org/sqlite"
)

// schema is applied once on Open. The table is append-only; reading a
// conversation back is a range scan on (phone, created_at).
const schema = `
CREATE TABLE IF NOT EXISTS chat_messages (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,

    -- Customer phone number in E.164 form.
    phone       TEXT NOT NULL,

    -- 'in' for customer messages, 'out' for bot replies.
    direction   TEXT NOT NULL,

    body        TEXT NOT NULL,

    -- W3C trace/span ids of the webhook delivery that wrote this row.
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',

    -- RFC3339 TEXT; SQLite has no native datetime type.
    created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chat_messages_phone ON chat_messages(phone, created_at);
`

// Repository is the SQLite implementation of chatlog.Repository.
type Repository struct {
	db *sql.DB
}

var _ chatlog.Repository = (*Repository)(nil)

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Repository, error) {
	// The modernc driver takes pragmas as DSN parameters. busy_timeout
	// waits for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("chatlog: open %q: %w", path, err)
	}

	// SQLite allows one writer at a time; a single pooled connection keeps
	// the driver from fighting itself over the write lock.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("chatlog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one transcript row. Safe for concurrent use.
func (r *Repository) Save(ctx context.Context, msg *chatlog.Message) error {
	const q = `
		INSERT INTO chat_messages (phone, direction, body, trace_id, span_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		msg.Phone,
		string(msg.Direction),
		msg.Body,
		msg.TraceID,
		msg.SpanID,
		msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("chatlog: save message for %q: %w", msg.Phone, err)
	}
	return nil
}

// Recent returns the latest limit rows for one phone number, newest first.
func (r *Repository) Recent(ctx context.Context, phone string, limit int) ([]chatlog.Message, error) {
	const q = `
		SELECT phone, direction, body, trace_id, span_id, created_at
		FROM   chat_messages
		WHERE  phone = ?
		ORDER  BY created_at DESC, id DESC
		LIMIT  ?`

	rows, err := r.db.QueryContext(ctx, q, phone, limit)
	if err != nil {
		return nil, fmt.Errorf("chatlog: recent for %q: %w", phone, err)
	}
	defer rows.Close()

	var out []chatlog.Message
	for rows.Next() {
		var msg chatlog.Message
		var createdAt string
		if err := rows.Scan(&msg.Phone, &msg.Direction, &msg.Body, &msg.TraceID, &msg.SpanID, &createdAt); err != nil {
			return nil, fmt.Errorf("chatlog: scan row for %q: %w", phone, err)
		}
		msg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("chatlog: parse time %q: %w", createdAt, err)
		}
		out = append(out, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("chatlog: recent for %q: %w", phone, err)
	}
	return out, nil
}
