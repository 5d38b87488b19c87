package interfaces

import (
	"context"

	"intern_assistant/internal/entities"
)

// Directory is the read-mostly store of interns, destinations and FAQs.
// Lookups never block on I/O; Reload swaps the whole data set at once.
type Directory interface {
	FindInternByPhone(phone string) (entities.Intern, bool)
	FindDestination(id string) (entities.Destination, bool)
	FindFAQs(destinationID string) []entities.FAQ
	Interns() []entities.Intern
	Reload(ctx context.Context) error
}

// CompletionProvider generates a reply from a rendered context block and the
// intern's message. Every failure is reported as *entities.CompletionError.
type CompletionProvider interface {
	Complete(ctx context.Context, promptContext, userMessage string) (string, error)
}

// Notifier delivers a reply to the intern. Failures are *entities.DeliveryError.
type Notifier interface {
	Send(ctx context.Context, recipient, body string) (entities.DeliveryReceipt, error)
}

// ResolutionObserver receives every finished resolution. Implementations
// handle their own errors.
type ResolutionObserver interface {
	Observe(ctx context.Context, msg entities.InboundMessage, res entities.Resolution)
}

// Alerter pushes operator-facing alerts (data integrity problems).
type Alerter interface {
	Alert(ctx context.Context, text string) error
}
