package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajath2005/whatsapp-food-agent/internal/chatlog"
)

func TestSaveAppendsRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &Repository{db: db}

	mock.ExpectExec("INSERT INTO chat_messages").
		WithArgs("+5215550001111", "in", "hola", "4bf92f3577b34da6a3ce929d0e0e4736", "00f067aa0ba902b7", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	msg := &chatlog.Message{
		Phone:     "+5215550001111",
		Direction: chatlog.DirectionIn,
		Body:      "hola",
		TraceID:   "4bf92f3577b34da6a3ce929d0e0e4736",
		SpanID:    "00f067aa0ba902b7",
		CreatedAt: time.Date(2025, 4, 2, 12, 30, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Save(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentScansRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &Repository{db: db}

	rows := sqlmock.NewRows([]string{"phone", "direction", "body", "trace_id", "span_id", "created_at"}).
		AddRow("+5215550001111", "out", "Your order is confirmed.", "", "", "2025-04-02T12:31:00Z").
		AddRow("+5215550001111", "in", "checkout", "", "", "2025-04-02T12:30:00Z")

	mock.ExpectQuery("SELECT (.+) FROM chat_messages").
		WithArgs("+5215550001111", 10).
		WillReturnRows(rows)

	got, err := repo.Recent(context.Background(), "+5215550001111", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, chatlog.DirectionOut, got[0].Direction)
	assert.Equal(t, time.Date(2025, 4, 2, 12, 31, 0, 0, time.UTC), got[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecentRejectsBadTimestamp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := &Repository{db: db}

	rows := sqlmock.NewRows([]string{"phone", "direction", "body", "trace_id", "span_id", "created_at"}).
		AddRow("+52155", "in", "hola", "", "", "yesterday-ish")
	mock.ExpectQuery("SELECT (.+) FROM chat_messages").
		WithArgs("+52155", 1).
		WillReturnRows(rows)

	_, err = repo.Recent(context.Background(), "+52155", 1)
	assert.Error(t, err)
}

// Round trip against a real database file: proves the schema and pragmas
// are accepted by the driver, not just by the mock.
func TestOpenSaveRecentOnDisk(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	ctx := context.Background()
	save := func(direction chatlog.Direction, body string, at time.Time) {
		t.Helper()
		require.NoError(t, repo.Save(ctx, &chatlog.Message{
			Phone:     "+5215550001111",
			Direction: direction,
			Body:      body,
			CreatedAt: at,
		}))
	}

	base := time.Date(2025, 4, 2, 12, 30, 0, 0, time.UTC)
	save(chatlog.DirectionIn, "menu", base)
	save(chatlog.DirectionOut, "Here is our menu.", base.Add(time.Second))
	save(chatlog.DirectionIn, "2 pizza", base.Add(2*time.Second))

	got, err := repo.Recent(ctx, "+5215550001111", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2 pizza", got[0].Body)
	assert.Equal(t, "Here is our menu.", got[1].Body)

	// Other numbers see nothing.
	other, err := repo.Recent(ctx, "+5215550009999", 10)
	require.NoError(t, err)
	assert.Empty(t, other)
}
