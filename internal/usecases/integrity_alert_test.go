package usecases

import (
	"context"
	"errors"
	"testing"

	"intern_assistant/internal/entities"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAlerter struct {
	alerts []string
	err    error
}

func (f *fakeAlerter) Alert(_ context.Context, text string) error {
	f.alerts = append(f.alerts, text)
	return f.err
}

func TestIntegrityAlerter(t *testing.T) {
	alerter := &fakeAlerter{}
	obs := NewIntegrityAlerter(alerter, zerolog.Nop())
	msg := entities.InboundMessage{CorrelationID: "SM42"}

	obs.Observe(context.Background(), msg, entities.Resolution{Outcome: entities.FAQAnswer{Text: "x"}})
	assert.Empty(t, alerter.alerts)

	obs.Observe(context.Background(), msg, entities.Resolution{Outcome: entities.DestinationMissing{
		Text:  DestinationErrorReply,
		Cause: &entities.DestinationIntegrityError{InternPhone: "+2222", DestinationID: "atlantis"},
	}})
	require.Len(t, alerter.alerts, 1)
	assert.Contains(t, alerter.alerts[0], "+2222")
	assert.Contains(t, alerter.alerts[0], `"atlantis"`)
	assert.Contains(t, alerter.alerts[0], "SM42")
}

func TestIntegrityAlerter_AlertFailureIsSwallowed(t *testing.T) {
	alerter := &fakeAlerter{err: errors.New("telegram down")}
	obs := NewIntegrityAlerter(alerter, zerolog.Nop())

	assert.NotPanics(t, func() {
		obs.Observe(context.Background(), entities.InboundMessage{}, entities.Resolution{Outcome: entities.DestinationMissing{
			Cause: &entities.DestinationIntegrityError{DestinationID: "x"},
		}})
	})
}
