package infrastructure

import (
	"context"
	"testing"
	"time"

	"intern_assistant/internal/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	ctx := context.Background()

	m.Observe(ctx, entities.InboundMessage{}, entities.Resolution{Outcome: entities.FAQAnswer{Text: "a"}, Duration: time.Millisecond})
	m.Observe(ctx, entities.InboundMessage{}, entities.Resolution{Outcome: entities.FallbackAnswer{Text: "b"}})
	m.Observe(ctx, entities.InboundMessage{}, entities.Resolution{
		Outcome:     entities.UnknownSender{Text: "c"},
		DeliveryErr: &entities.DeliveryError{Provider: "twilio", Code: 21211},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("success", "faq")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("success", "fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("unknown_user", "none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveryFailures.WithLabelValues("twilio", "21211")))
}

func TestNewResolutionEvent(t *testing.T) {
	res := entities.Resolution{
		CorrelationID: "SM1",
		Outcome:       entities.FAQAnswer{Text: "Take the X12 bus.", FAQID: "faq-airport"},
		Receipt:       &entities.DeliveryReceipt{ID: "SM2"},
		Duration:      1500 * time.Millisecond,
	}
	evt := NewResolutionEvent(entities.InboundMessage{SenderPhone: "whatsapp:+1111"}, res)

	assert.Equal(t, "resolution.success", evt.Meta.Type)
	assert.Equal(t, "SM1", evt.Meta.CorrelationID)
	assert.NotEmpty(t, evt.Meta.ID)
	assert.Equal(t, "+1111", evt.Phone)
	assert.Equal(t, "faq", evt.ResponseType)
	assert.Equal(t, "faq-airport", evt.FAQID)
	assert.True(t, evt.Delivered)
	assert.Equal(t, int64(1500), evt.DurationMS)

	anon := NewResolutionEvent(entities.InboundMessage{}, entities.Resolution{Outcome: entities.Failure{}})
	assert.NotEmpty(t, anon.Meta.CorrelationID)
	assert.Equal(t, "resolution.error", anon.Meta.Type)
}

type countingReloader struct{ calls int }

func (c *countingReloader) Reload(context.Context) error {
	c.calls++
	return nil
}

func TestReloadScheduler(t *testing.T) {
	_, err := NewReloadScheduler("not a schedule", &countingReloader{}, zerolog.Nop())
	require.Error(t, err)

	s, err := NewReloadScheduler("@every 1h", &countingReloader{}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewLogger(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, NewLogger("DEBUG", "json").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("", "console").GetLevel())
	assert.Equal(t, zerolog.InfoLevel, NewLogger("verbose", "json").GetLevel())
}
