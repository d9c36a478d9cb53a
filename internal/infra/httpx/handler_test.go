package httpx

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rajath2005/whatsapp-food-agent/internal/chatlog"
)

type convCall struct {
	from, profile, text string
}

type fakeConv struct {
	calls   []convCall
	replies []string
	err     error
}

func (f *fakeConv) HandleMessage(ctx context.Context, from, profileName, text string) ([]string, error) {
	f.calls = append(f.calls, convCall{from: from, profile: profileName, text: text})
	return f.replies, f.err
}

type fakeMessenger struct {
	sent []string
	to   []string
	err  error
}

func (f *fakeMessenger) SendText(ctx context.Context, to, body string) error {
	f.to = append(f.to, to)
	f.sent = append(f.sent, body)
	return f.err
}

type fakeTranscript struct {
	rows []*chatlog.Message
}

func (f *fakeTranscript) Save(ctx context.Context, msg *chatlog.Message) error {
	f.rows = append(f.rows, msg)
	return nil
}

const sampleEnvelope = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "103151",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "contacts": [{"wa_id": "5215550001111", "profile": {"name": "Ana"}}],
        "messages": [{
          "from": "5215550001111",
          "id": "wamid.test",
          "timestamp": "1712058600",
          "type": "text",
          "text": {"body": "menu"}
        }]
      }
    }]
  }]
}`

func TestVerifyWebhook(t *testing.T) {
	h := NewHandler(&fakeConv{}, nil, nil, "verify-me", "")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=1158201444", nil)
	rec := httptest.NewRecorder()
	h.VerifyWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1158201444", rec.Body.String())
}

func TestVerifyWebhookRejectsBadToken(t *testing.T) {
	h := NewHandler(&fakeConv{}, nil, nil, "verify-me", "")

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1158201444", nil)
	rec := httptest.NewRecorder()
	h.VerifyWebhook(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotContains(t, rec.Body.String(), "1158201444")
}

func TestReceiveWebhookDispatchesAndReplies(t *testing.T) {
	conv := &fakeConv{replies: []string{"Here's our menu today:"}}
	messenger := &fakeMessenger{}
	transcript := &fakeTranscript{}
	h := NewHandler(conv, messenger, transcript, "verify-me", "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleEnvelope))
	rec := httptest.NewRecorder()
	h.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"received"}`, rec.Body.String())

	require.Len(t, conv.calls, 1)
	assert.Equal(t, "5215550001111", conv.calls[0].from)
	assert.Equal(t, "Ana", conv.calls[0].profile)
	assert.Equal(t, "menu", conv.calls[0].text)

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "Here's our menu today:", messenger.sent[0])
	assert.Equal(t, "5215550001111", messenger.to[0])

	// Both directions hit the transcript, inbound first.
	require.Len(t, transcript.rows, 2)
	assert.Equal(t, chatlog.DirectionIn, transcript.rows[0].Direction)
	assert.Equal(t, "menu", transcript.rows[0].Body)
	assert.Equal(t, chatlog.DirectionOut, transcript.rows[1].Direction)
}

func TestReceiveWebhookMalformedJSON(t *testing.T) {
	h := NewHandler(&fakeConv{}, nil, nil, "verify-me", "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReceiveWebhookSignature(t *testing.T) {
	sign := func(secret, body string) string {
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write([]byte(body))
		return "sha256=" + hex.EncodeToString(mac.Sum(nil))
	}

	t.Run("valid signature passes", func(t *testing.T) {
		conv := &fakeConv{}
		h := NewHandler(conv, nil, nil, "verify-me", "app-secret")

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleEnvelope))
		req.Header.Set("X-Hub-Signature-256", sign("app-secret", sampleEnvelope))
		rec := httptest.NewRecorder()
		h.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, conv.calls, 1)
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		conv := &fakeConv{}
		h := NewHandler(conv, nil, nil, "verify-me", "app-secret")

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleEnvelope))
		req.Header.Set("X-Hub-Signature-256", sign("other-secret", sampleEnvelope))
		rec := httptest.NewRecorder()
		h.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, conv.calls)
	})

	t.Run("missing header rejected when secret set", func(t *testing.T) {
		h := NewHandler(&fakeConv{}, nil, nil, "verify-me", "app-secret")

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleEnvelope))
		rec := httptest.NewRecorder()
		h.ReceiveWebhook(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestReceiveWebhookNonTextFallback(t *testing.T) {
	messenger := &fakeMessenger{}
	h := NewHandler(&fakeConv{}, messenger, nil, "verify-me", "")

	payload := `{
	  "object": "whatsapp_business_account",
	  "entry": [{"changes": [{"field": "messages", "value": {
	    "messages": [{"from": "5215550001111", "type": "image"}]
	  }}]}]
	}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	h.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, messenger.sent, 1)
	assert.Equal(t, msgUnsupportedType, messenger.sent[0])
}

// Downstream failure must not turn into a non-2xx, or the platform
// redelivers the same batch forever.
func TestReceiveWebhookAlways200OnHandlerFailure(t *testing.T) {
	conv := &fakeConv{err: errors.New("engine exploded")}
	h := NewHandler(conv, &fakeMessenger{}, nil, "verify-me", "")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(sampleEnvelope))
	rec := httptest.NewRecorder()
	h.ReceiveWebhook(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterRoutes(t *testing.T) {
	h := NewHandler(&fakeConv{}, nil, nil, "verify-me", "")
	srv := httptest.NewServer(NewRouter(h))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/webhook?hub.mode=subscribe&hub.verify_token=verify-me&hub.challenge=42")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
