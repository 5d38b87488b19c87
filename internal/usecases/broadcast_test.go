package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"intern_assistant/internal/entities"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWelcomeBroadcaster_Run(t *testing.T) {
	dir := seededDirectory()
	dir.interns = append(dir.interns, entities.Intern{Phone: "+3333", Name: "Caro", DestinationID: "goa"})

	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, "+1111", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "Hi Ana!")
	})).Return(okReceipt, nil).Once()
	notifier.On("Send", mock.Anything, "+3333", mock.Anything).
		Return(entities.DeliveryReceipt{}, &entities.DeliveryError{Provider: "twilio", Code: 21211, Message: "invalid"}).Once()

	report, err := NewWelcomeBroadcaster(dir, notifier, time.Millisecond, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 2, report.Failed)
	require.Len(t, report.Failures, 2)
	assert.Equal(t, "+2222", report.Failures[0].Phone)
	assert.Contains(t, report.Failures[0].Reason, "atlantis")
	assert.Equal(t, "+3333", report.Failures[1].Phone)
	notifier.AssertExpectations(t)
}

func TestWelcomeBroadcaster_Paced(t *testing.T) {
	dir := &memDirectory{
		destinations: map[string]entities.Destination{"goa": goaDestination()},
		interns: []entities.Intern{
			{Phone: "+1", Name: "A", DestinationID: "goa"},
			{Phone: "+2", Name: "B", DestinationID: "goa"},
			{Phone: "+3", Name: "C", DestinationID: "goa"},
		},
	}
	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(okReceipt, nil)

	start := time.Now()
	report, err := NewWelcomeBroadcaster(dir, notifier, 20*time.Millisecond, zerolog.Nop()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, report.Sent)
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestWelcomeBroadcaster_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifier := new(MockNotifier)
	report, err := NewWelcomeBroadcaster(seededDirectory(), notifier, time.Hour, zerolog.Nop()).Run(ctx)

	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 0, report.Sent)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}
