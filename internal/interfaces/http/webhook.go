package http

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"

	"intern_assistant/internal/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	EmptyReplyAck = "Thank you for your message!"
	PanicReply    = "Sorry, I'm having trouble. Please try again."
)

// MessageResolver is implemented by usecases.Resolver.
type MessageResolver interface {
	Resolve(ctx context.Context, msg entities.InboundMessage) entities.Resolution
}

type WebhookHandler struct {
	resolver MessageResolver
	logger   zerolog.Logger
}

func NewWebhookHandler(resolver MessageResolver, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		resolver: resolver,
		logger:   logger.With().Str("component", "webhook").Logger(),
	}
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// webhookPayload holds the provider fields we care about. Twilio sends
// capitalized form fields; other senders use lower case JSON.
type webhookPayload struct {
	From       string
	To         string
	Body       string
	MessageSid string
}

// HandleWhatsApp acknowledges every request with TwiML. The reply is also
// sent through the notifier by the resolver.
func (h *WebhookHandler) HandleWhatsApp(c *gin.Context) {
	payload, err := parseInbound(c.Request)
	if err != nil {
		h.logger.Warn().Err(err).Msg("unreadable webhook body")
	}

	if payload.From == "" || payload.Body == "" {
		// Media-only messages land here; nothing is sent back to the sender.
		h.logger.Warn().Msg("rejected webhook: missing From or Body")
		writeTwiML(c, "")
		return
	}

	correlationID := payload.MessageSid
	if correlationID == "" {
		correlationID = uuid.NewString()
	}

	res := h.resolver.Resolve(c.Request.Context(), entities.InboundMessage{
		SenderPhone:    payload.From,
		RecipientPhone: payload.To,
		Text:           TruncateString(SanitizeString(payload.Body), MaxMessageLength),
		CorrelationID:  correlationID,
	})

	reply := res.Reply()
	if reply == "" {
		reply = EmptyReplyAck
	}
	writeTwiML(c, reply)
}

// TwiMLRecovery turns a panic in the webhook chain into the generic TwiML
// apology so the provider never sees a 500.
func (h *WebhookHandler) TwiMLRecovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, err any) {
		h.logger.Error().Interface("panic", err).Msg("webhook handler panicked")
		writeTwiML(c, PanicReply)
		c.Abort()
	})
}

func writeTwiML(c *gin.Context, message string) {
	out, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		out = []byte("<Response></Response>")
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", append([]byte(xml.Header), out...))
}

// parseInbound accepts form-urlencoded, JSON, and JSON encoded as a JSON
// string. Unparseable bodies yield an empty payload.
func parseInbound(r *http.Request) (webhookPayload, error) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return webhookPayload{}, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return payloadFromValues(r.URL.Query()), nil
	}

	switch raw[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return webhookPayload{}, err
		}
		return parseJSONObject([]byte(inner))
	case '{':
		return parseJSONObject(raw)
	}

	values, err := url.ParseQuery(string(raw))
	if err != nil {
		return webhookPayload{}, err
	}
	return payloadFromValues(values), nil
}

func parseJSONObject(raw []byte) (webhookPayload, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return webhookPayload{}, err
	}
	get := func(keys ...string) string {
		for _, k := range keys {
			if s, ok := fields[k].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return webhookPayload{
		From:       get("From", "from"),
		To:         get("To", "to"),
		Body:       get("Body", "body"),
		MessageSid: get("MessageSid", "messageSid"),
	}, nil
}

func payloadFromValues(v url.Values) webhookPayload {
	get := func(keys ...string) string {
		for _, k := range keys {
			if s := v.Get(k); s != "" {
				return s
			}
		}
		return ""
	}
	return webhookPayload{
		From:       get("From", "from"),
		To:         get("To", "to"),
		Body:       get("Body", "body"),
		MessageSid: get("MessageSid", "messageSid"),
	}
}
