package http

import (
	"context"
	"encoding/xml"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"intern_assistant/internal/entities"
	"intern_assistant/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	calls []entities.InboundMessage
	reply entities.Outcome
	panic bool
}

func (s *stubResolver) Resolve(_ context.Context, msg entities.InboundMessage) entities.Resolution {
	if s.panic {
		panic("boom")
	}
	s.calls = append(s.calls, msg)
	return entities.Resolution{CorrelationID: msg.CorrelationID, Outcome: s.reply}
}

type stubDirectory struct {
	reloads int
	err     error
}

func (d *stubDirectory) Reload(context.Context) error {
	d.reloads++
	return d.err
}

func (d *stubDirectory) Stats() repository.DirectoryStats {
	return repository.DirectoryStats{Source: "stub", Interns: 2}
}

func newTestRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if deps.Directory == nil {
		deps.Directory = &stubDirectory{}
	}
	deps.Logger = zerolog.Nop()
	r := gin.New()
	SetupRoutes(r, deps)
	return r
}

func TestWebhook_FormBody(t *testing.T) {
	resolver := &stubResolver{reply: entities.FAQAnswer{Text: "Take the X12 bus.", FAQID: "faq-airport"}}
	r := newTestRouter(RouterDeps{Resolver: resolver})

	form := url.Values{
		"From":       {"whatsapp:+1111"},
		"To":         {"whatsapp:+14155238886"},
		"Body":       {"How do I get to the airport?"},
		"MessageSid": {"SM123"},
	}
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/xml")
	assert.Contains(t, w.Body.String(), "<Response><Message>Take the X12 bus.</Message></Response>")

	require.Len(t, resolver.calls, 1)
	msg := resolver.calls[0]
	assert.Equal(t, "whatsapp:+1111", msg.SenderPhone)
	assert.Equal(t, "whatsapp:+14155238886", msg.RecipientPhone)
	assert.Equal(t, "How do I get to the airport?", msg.Text)
	assert.Equal(t, "SM123", msg.CorrelationID)
}

func TestWebhook_JSONBodies(t *testing.T) {
	bodies := map[string]string{
		"object":         `{"from":"+1111","body":"wifi?","messageSid":"SM9"}`,
		"string encoded": `"{\"From\":\"+1111\",\"Body\":\"wifi?\",\"MessageSid\":\"SM9\"}"`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			resolver := &stubResolver{reply: entities.AIAnswer{Text: "ok"}}
			r := newTestRouter(RouterDeps{Resolver: resolver})

			req := httptest.NewRequest(http.MethodPost, "/api/webhook", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			require.Len(t, resolver.calls, 1)
			assert.Equal(t, "+1111", resolver.calls[0].SenderPhone)
			assert.Equal(t, "wifi?", resolver.calls[0].Text)
			assert.Equal(t, "SM9", resolver.calls[0].CorrelationID)
		})
	}
}

func TestWebhook_MissingFields(t *testing.T) {
	for _, body := range []string{
		"",
		"From=whatsapp%3A%2B1111",
		"From=whatsapp%3A%2B1111&NumMedia=1&MediaUrl0=https%3A%2F%2Fapi.twilio.com%2Fmedia%2FME1",
		"Body=hello",
		`{"from":"+1111"}`,
		"{not json",
	} {
		resolver := &stubResolver{}
		r := newTestRouter(RouterDeps{Resolver: resolver})

		req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "body %q", body)
		assert.Equal(t, xml.Header+"<Response></Response>", w.Body.String(), "body %q", body)
		assert.NotContains(t, w.Body.String(), "<Message>", "body %q", body)
		assert.Equal(t, "text/xml; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Empty(t, resolver.calls, "body %q", body)
	}
}

func TestWebhook_GeneratesCorrelationID(t *testing.T) {
	resolver := &stubResolver{reply: entities.AIAnswer{Text: "ok"}}
	r := newTestRouter(RouterDeps{Resolver: resolver})

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("From=%2B1111&Body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, resolver.calls, 1)
	assert.Len(t, resolver.calls[0].CorrelationID, 36)
}

func TestWebhook_EscapesReply(t *testing.T) {
	resolver := &stubResolver{reply: entities.AIAnswer{Text: "Fish & chips <cheap>"}}
	r := newTestRouter(RouterDeps{Resolver: resolver})

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("From=%2B1111&Body=food"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "Fish &amp; chips &lt;cheap&gt;")
}

func TestWebhook_EmptyReplyAck(t *testing.T) {
	resolver := &stubResolver{reply: entities.AIAnswer{Text: ""}}
	r := newTestRouter(RouterDeps{Resolver: resolver})

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("From=%2B1111&Body=food"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), "<Message>"+EmptyReplyAck+"</Message>")
}

func TestWebhook_PanicStillAcknowledges(t *testing.T) {
	r := newTestRouter(RouterDeps{Resolver: &stubResolver{panic: true}})

	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader("From=%2B1111&Body=food"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sorry, I&#39;m having trouble. Please try again.")
}

func TestWebhook_MethodNotAllowed(t *testing.T) {
	r := newTestRouter(RouterDeps{Resolver: &stubResolver{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook/whatsapp", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":"Method not allowed"}`, w.Body.String())
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(RouterDeps{Resolver: &stubResolver{}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "abc", TruncateString("abc", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "a", TruncateString("aé", 2))
	assert.Equal(t, "ok", SanitizeString("o\x00k"))
}
