package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"intern_assistant/internal/entities"
	"intern_assistant/internal/interfaces"

	"github.com/rs/zerolog"
)

// Fixed replies for the paths that cannot use destination data.
const (
	UnknownUserReply = "Hello! I'm the Intern Support Assistant. " +
		"I notice you're not registered in our system. " +
		"Please contact your coordinator for assistance."
	DestinationErrorReply = "I'm having trouble finding your destination details. " +
		"Please contact your coordinator directly for assistance."
	GenericErrorReply = "I'm sorry, I'm having trouble right now. " +
		"Please contact your coordinator for assistance."
)

// Resolver turns one inbound message into exactly one reply and delivers it.
//
// Order: identify the intern, resolve the destination, try the FAQs, then the
// completion provider with a deterministic fallback. Resolve never returns an
// error and never panics; every failure ends up as an entities.Outcome.
type Resolver struct {
	directory  interfaces.Directory
	matcher    *FAQMatcher
	completion interfaces.CompletionProvider
	notifier   interfaces.Notifier
	observers  []interfaces.ResolutionObserver
	logger     zerolog.Logger
}

// NewResolver wires the core. completion may be nil, in which case every
// non-FAQ question gets the fallback reply.
func NewResolver(directory interfaces.Directory, completion interfaces.CompletionProvider, notifier interfaces.Notifier, logger zerolog.Logger) *Resolver {
	return &Resolver{
		directory:  directory,
		matcher:    NewFAQMatcher(directory),
		completion: completion,
		notifier:   notifier,
		logger:     logger.With().Str("component", "resolver").Logger(),
	}
}

// AddObserver registers a collaborator that sees every finished resolution.
func (r *Resolver) AddObserver(observers ...interfaces.ResolutionObserver) {
	for _, o := range observers {
		if o != nil {
			r.observers = append(r.observers, o)
		}
	}
}

// Resolve handles one inbound message end to end. Caller cancellation is
// ignored: once started, a resolution runs to completion.
func (r *Resolver) Resolve(ctx context.Context, msg entities.InboundMessage) entities.Resolution {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	phone := entities.NormalizePhone(msg.SenderPhone)
	log := r.logger.With().
		Str("correlation_id", msg.CorrelationID).
		Str("phone", phone).
		Logger()

	text := strings.TrimSpace(msg.Text)
	log.Info().Str("text", text).Msg("processing message")

	outcome := r.decide(ctx, log, phone, text)

	res := entities.Resolution{
		CorrelationID: msg.CorrelationID,
		Recipient:     phone,
		Outcome:       outcome,
	}
	res.Receipt, res.DeliveryErr = r.deliver(ctx, log, phone, outcome.Reply())
	res.Duration = time.Since(start)

	log.Info().
		Str("status", string(res.Status())).
		Str("response_type", string(res.ResponseType())).
		Str("faq_id", res.MatchedFAQID()).
		Bool("delivered", res.Delivered()).
		Dur("duration", res.Duration).
		Msg("message resolved")

	for _, o := range r.observers {
		r.notifyObserver(ctx, log, o, msg, res)
	}
	return res
}

func (r *Resolver) decide(ctx context.Context, log zerolog.Logger, phone, text string) (outcome entities.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic while resolving: %v", p)
			log.Error().Err(err).Msg("handler error")
			outcome = entities.Failure{Text: GenericErrorReply, Cause: err}
		}
	}()

	intern, ok := r.directory.FindInternByPhone(phone)
	if !ok {
		log.Warn().Msg("unknown phone number")
		return entities.UnknownSender{Text: UnknownUserReply, Phone: phone}
	}
	log = log.With().Str("intern", intern.Name).Logger()

	destination, ok := r.directory.FindDestination(intern.DestinationID)
	if !ok {
		cause := &entities.DestinationIntegrityError{InternPhone: phone, DestinationID: intern.DestinationID}
		log.Error().Err(cause).Msg("destination not found, reference data out of sync")
		return entities.DestinationMissing{Text: DestinationErrorReply, Cause: cause}
	}

	if faq, ok := r.matcher.Match(intern.DestinationID, text); ok {
		log.Info().Str("faq_id", faq.ID).Msg("faq match found")
		return entities.FAQAnswer{Text: faq.Answer, FAQID: faq.ID}
	}

	log.Info().Msg("no faq match, using completion provider")
	reply, err := r.complete(ctx, intern, destination, text)
	if err != nil {
		log.Warn().Err(err).Msg("completion unavailable, sending fallback")
		return entities.FallbackAnswer{Text: BuildFallback(destination), Cause: err}
	}
	return entities.AIAnswer{Text: reply}
}

func (r *Resolver) complete(ctx context.Context, intern entities.Intern, destination entities.Destination, text string) (string, error) {
	if r.completion == nil {
		return "", &entities.CompletionError{Reason: "provider", Err: entities.ErrNotConfigured}
	}
	reply, err := r.completion.Complete(ctx, BuildContext(intern, destination), text)
	if err != nil {
		var cerr *entities.CompletionError
		if errors.As(err, &cerr) {
			return "", cerr
		}
		return "", &entities.CompletionError{Reason: "provider", Err: err}
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", &entities.CompletionError{Reason: "no response generated"}
	}
	return reply, nil
}

// deliver makes the single notifier call of a resolution. Its failure is
// reported back as a diagnostic and never alters the outcome.
func (r *Resolver) deliver(ctx context.Context, log zerolog.Logger, recipient, body string) (receipt *entities.DeliveryReceipt, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic while delivering: %v", p)
			receipt = nil
			log.Error().Err(err).Msg("failed to send reply")
		}
	}()

	sent, err := r.notifier.Send(ctx, recipient, body)
	if err != nil {
		event := log.Error().Err(err)
		var derr *entities.DeliveryError
		if errors.As(err, &derr) && derr.Hint() != "" {
			event = event.Str("hint", derr.Hint())
		}
		event.Msg("failed to send reply")
		return nil, err
	}
	log.Debug().Str("receipt_id", sent.ID).Str("provider", sent.Provider).Msg("reply sent")
	return &sent, nil
}

func (r *Resolver) notifyObserver(ctx context.Context, log zerolog.Logger, o interfaces.ResolutionObserver, msg entities.InboundMessage, res entities.Resolution) {
	defer func() {
		if p := recover(); p != nil {
			log.Error().Interface("panic", p).Msg("resolution observer failed")
		}
	}()
	o.Observe(ctx, msg, res)
}
