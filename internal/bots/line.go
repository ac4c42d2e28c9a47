package bots

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/shopassist/shopassist/internal/logger"
)

// Replier sends rendered messages for a single-use reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages []LineMessage) error
}

// LineHandler handles LINE Messaging API webhooks.
type LineHandler struct {
	gateway       *Gateway
	channelSecret string
	renderer      *LineRenderer
	replier       Replier
	log           *zap.Logger
}

// NewLineHandler creates a LINE webhook handler. Signature checking is
// skipped when channelSecret is empty.
func NewLineHandler(gateway *Gateway, channelSecret string, renderer *LineRenderer, replier Replier, log *zap.Logger) *LineHandler {
	if renderer == nil {
		renderer = NewLineRenderer(nil)
	}
	return &LineHandler{
		gateway:       gateway,
		channelSecret: channelSecret,
		renderer:      renderer,
		replier:       replier,
		log:           logger.OrNop(log).Named("line"),
	}
}

type lineWebhook struct {
	Destination string      `json:"destination"`
	Events      []lineEvent `json:"events"`
}

type lineEvent struct {
	Type       string      `json:"type"`
	ReplyToken string      `json:"replyToken"`
	Source     lineSource  `json:"source"`
	Message    lineMessage `json:"message"`
}

type lineSource struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type lineMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

// MaxWebhookBody caps the webhook payload read into memory.
const MaxWebhookBody = 1 << 20

// HandleWebhook handles POST requests from the LINE platform. Once the
// signature and body are accepted the response is always 200; per-event
// failures are logged.
func (h *LineHandler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.log.Warn("rejected oversized webhook", zap.Int64("limit", tooLarge.Limit))
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if h.channelSecret != "" {
		if !VerifySignature(h.channelSecret, body, r.Header.Get("X-Line-Signature")) {
			h.log.Warn("rejected webhook with invalid signature")
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var hook lineWebhook
	if err := json.Unmarshal(body, &hook); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	for _, le := range hook.Events {
		h.handleEvent(r.Context(), le)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *LineHandler) handleEvent(ctx context.Context, le lineEvent) {
	if le.Type != "message" || le.Message.Type != "text" {
		h.log.Debug("skipping event", zap.String("type", le.Type), zap.String("message_type", le.Message.Type))
		return
	}

	ev := Event{
		Platform:   PlatformLine,
		ReplyToken: le.ReplyToken,
		UserID:     le.Source.UserID,
		Text:       le.Message.Text,
	}

	reply, err := h.gateway.Process(ctx, ev)
	if errors.Is(err, ErrMalformedEvent) {
		h.log.Warn("dropping malformed event", zap.Error(err))
		return
	}
	if err != nil {
		h.log.Error("processing event", zap.String("user_id", ev.UserID), zap.Error(err))
		return
	}
	if reply == nil || h.replier == nil {
		return
	}

	msgs := h.renderer.Render(ctx, reply)
	if err := h.replier.Reply(ctx, ev.ReplyToken, msgs); err != nil {
		h.log.Error("sending reply", zap.String("user_id", ev.UserID), zap.Error(err))
	}
}

// VerifySignature checks a LINE X-Line-Signature header: the base64
// HMAC-SHA256 of the raw body keyed by the channel secret.
func VerifySignature(channelSecret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(channelSecret, body)), []byte(signature))
}

// Sign computes the X-Line-Signature value for body.
func Sign(channelSecret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
