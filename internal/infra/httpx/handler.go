package httpx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Rajath2005/whatsapp-food-agent/internal/chatlog"
	"github.com/Rajath2005/whatsapp-food-agent/internal/core/ports"
)

const msgUnsupportedType = "I can only read text messages for now. Type 'help' to see what I can do."

// maxBodySize bounds webhook payloads; real deliveries are a few KB.
const maxBodySize = 1 << 20

// Handler receives WhatsApp webhook traffic and drives the conversation.
type Handler struct {
	conv        ports.ConversationHandler
	messenger   ports.Messenger    // nil-safe: replies are logged and dropped
	transcript  chatlog.Repository // nil-safe: transcript skipped if nil
	verifyToken string
	appSecret   string // empty disables signature enforcement
}

// NewHandler wires the webhook handler. messenger and transcript may be
// nil; the handler degrades instead of failing.
func NewHandler(
	conv ports.ConversationHandler,
	messenger ports.Messenger,
	transcript chatlog.Repository,
	verifyToken, appSecret string,
) *Handler {
	return &Handler{
		conv:        conv,
		messenger:   messenger,
		transcript:  transcript,
		verifyToken: verifyToken,
		appSecret:   appSecret,
	}
}

// VerifyWebhook answers the platform's subscription handshake: echo the
// challenge raw (not JSON) when the verify token matches.
func (h *Handler) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		slog.InfoContext(r.Context(), "webhook verified")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(q.Get("hub.challenge")))
		return
	}
	writeError(w, http.StatusForbidden, "verification_failed", "")
}

// ReceiveWebhook ingests one delivery. Any parseable, authentic payload is
// answered 200 even when downstream handling fails; the platform would
// otherwise redeliver the same messages.
func (h *Handler) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable_body", err.Error())
		return
	}

	if !h.validSignature(r.Header.Get("X-Hub-Signature-256"), body) {
		slog.WarnContext(r.Context(), "webhook signature rejected")
		writeError(w, http.StatusForbidden, "invalid_signature", "")
		return
	}

	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	for _, entry := range envelope.Entry {
		for _, change := range entry.Changes {
			names := profileNames(change.Value.Contacts)
			for _, msg := range change.Value.Messages {
				h.handleMessage(r.Context(), names[msg.From], msg)
			}
		}
	}

	writeJSON(w, http.StatusOK, ReceivedResponse{Status: "received"})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleMessage(ctx context.Context, profileName string, msg WebhookMessage) {
	if msg.Type != "text" || msg.Text == nil {
		slog.InfoContext(ctx, "unsupported message type", "from", msg.From, "type", msg.Type)
		h.reply(ctx, msg.From, msgUnsupportedType)
		return
	}

	text := msg.Text.Body
	h.record(ctx, msg.From, chatlog.DirectionIn, text)

	replies, err := h.conv.HandleMessage(ctx, msg.From, profileName, text)
	if err != nil {
		slog.ErrorContext(ctx, "message handling failed", "from", msg.From, "error", err)
		return
	}
	for _, reply := range replies {
		h.reply(ctx, msg.From, reply)
	}
}

// reply records the outbound text and sends it. The transcript row is
// written even when delivery fails, so the log shows what we tried to say.
func (h *Handler) reply(ctx context.Context, to, body string) {
	h.record(ctx, to, chatlog.DirectionOut, body)

	if h.messenger == nil {
		slog.WarnContext(ctx, "no messenger configured, dropping reply", "to", to)
		return
	}
	if err := h.messenger.SendText(ctx, to, body); err != nil {
		slog.ErrorContext(ctx, "reply delivery failed", "to", to, "error", err)
	}
}

func (h *Handler) record(ctx context.Context, phone string, direction chatlog.Direction, body string) {
	if h.transcript == nil {
		return
	}
	if err := h.transcript.Save(ctx, chatlog.NewMessage(ctx, phone, direction, body)); err != nil {
		slog.WarnContext(ctx, "chat log write failed", "phone", phone, "error", err)
	}
}

// validSignature checks the X-Hub-Signature-256 header: HMAC-SHA256 of the
// raw body keyed with the app secret, hex encoded behind a "sha256=" prefix.
// With no secret configured every payload passes.
func (h *Handler) validSignature(header string, body []byte) bool {
	if h.appSecret == "" {
		return true
	}
	hexDigest, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	want, err := hex.DecodeString(hexDigest)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(h.appSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), want)
}

func profileNames(contacts []WebhookContact) map[string]string {
	names := make(map[string]string, len(contacts))
	for _, c := range contacts {
		names[c.WaID] = c.Profile.Name
	}
	return names
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}
