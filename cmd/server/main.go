package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Rajath2005/whatsapp-food-agent/internal/chatlog"
	chatsqlite "github.com/Rajath2005/whatsapp-food-agent/internal/chatlog/sqlite"
	"github.com/Rajath2005/whatsapp-food-agent/internal/config"
	"github.com/Rajath2005/whatsapp-food-agent/internal/conversation"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
	"github.com/Rajath2005/whatsapp-food-agent/internal/datastore"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/adapters/sheets"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/adapters/supabase"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/events"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/httpx"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/sessions"
	"github.com/Rajath2005/whatsapp-food-agent/internal/infra/whatsapp"
	"github.com/Rajath2005/whatsapp-food-agent/internal/pkg/telemetry"
)

const serviceName = "whatsapp-food-agent"

func main() {
	telemetry.InitLogger(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	// Tracing is best-effort: a missing collector must not keep the bot
	// from answering customers.
	shutdownTracer, err := telemetry.SetupTracer(ctx, serviceName)
	if err != nil {
		slog.Warn("tracing disabled", "error", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracer(shutdownCtx); err != nil {
				slog.Error("tracer shutdown error", "error", err)
			}
		}()
	}

	store := datastore.New(selectBackend(cfg))
	store.Probe(ctx)

	sessionStore := selectSessions(ctx, cfg)
	if closer, ok := sessionStore.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	var transcript chatlog.Repository
	if cfg.ChatLogPath != "" {
		repo, err := chatsqlite.Open(cfg.ChatLogPath)
		if err != nil {
			slog.Warn("chat log disabled", "path", cfg.ChatLogPath, "error", err)
		} else {
			defer repo.Close()
			transcript = repo
		}
	}

	var orderEvents ports.OrderEvents
	if cfg.AMQPURL != "" {
		conn, ch, err := events.Connect(cfg.AMQPURL)
		if err != nil {
			slog.Warn("order events disabled", "error", err)
		} else {
			defer conn.Close()
			defer ch.Close()
			orderEvents = events.NewPublisher(ch)
		}
	}

	var messenger ports.Messenger
	if cfg.HasWhatsApp() {
		messenger = whatsapp.New(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID)
	} else {
		slog.Warn("whatsapp credentials missing, replies will be dropped")
	}

	engine := conversation.New(store, sessionStore, orderEvents)
	handler := httpx.NewHandler(engine, messenger, transcript, cfg.WhatsAppVerifyToken, cfg.WhatsAppAppSecret)

	srv := &http.Server{Addr: cfg.Addr(), Handler: httpx.NewRouter(handler)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("webhook server running", "addr", cfg.Addr())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("http server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// selectBackend picks the data backend from whichever credential pair is
// complete. The relational store wins when both are configured; with
// neither, the process starts degraded and says so.
func selectBackend(cfg config.Config) ports.Backend {
	switch {
	case cfg.HasSupabase():
		slog.Info("using supabase backend")
		return supabase.New(cfg.SupabaseURL, cfg.SupabaseKey)
	case cfg.HasSheets():
		slog.Info("using google sheets backend")
		return sheets.New(cfg.SheetsAPIKey, cfg.SheetID)
	default:
		slog.Warn("no backend credentials configured")
		return nil
	}
}

// selectSessions prefers Redis and falls back to the in-process store when
// Redis is absent or unreachable at boot.
func selectSessions(ctx context.Context, cfg config.Config) ports.SessionStore {
	if cfg.RedisAddr == "" {
		slog.Info("using in-memory session store")
		return sessions.NewMemoryStore()
	}

	store := sessions.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	if err := store.Ping(ctx); err != nil {
		slog.Warn("redis unreachable, falling back to in-memory sessions",
			"addr", cfg.RedisAddr, "error", err)
		_ = store.Close()
		return sessions.NewMemoryStore()
	}
	slog.Info("using redis session store", "addr", cfg.RedisAddr)
	return store
}
