package usecases

import (
	"context"
	"fmt"

	"intern_assistant/internal/entities"
	"intern_assistant/internal/interfaces"

	"github.com/rs/zerolog"
)

// IntegrityAlerter raises an operator alert whenever an intern points at a
// destination the directory does not know.
type IntegrityAlerter struct {
	alerter interfaces.Alerter
	logger  zerolog.Logger
}

func NewIntegrityAlerter(alerter interfaces.Alerter, logger zerolog.Logger) *IntegrityAlerter {
	return &IntegrityAlerter{alerter: alerter, logger: logger}
}

func (a *IntegrityAlerter) Observe(ctx context.Context, msg entities.InboundMessage, res entities.Resolution) {
	missing, ok := res.Outcome.(entities.DestinationMissing)
	if !ok || missing.Cause == nil {
		return
	}
	text := fmt.Sprintf("⚠️ Data integrity: intern %s references destination %q which is not loaded (message %s).",
		missing.Cause.InternPhone, missing.Cause.DestinationID, msg.CorrelationID)
	if err := a.alerter.Alert(ctx, text); err != nil {
		a.logger.Error().Err(err).Str("correlation_id", msg.CorrelationID).Msg("failed to raise integrity alert")
	}
}
