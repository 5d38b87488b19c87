package usecases

import (
	"context"
	"time"

	"intern_assistant/internal/interfaces"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// DefaultBroadcastInterval keeps bulk sends under the provider's rate limits.
const DefaultBroadcastInterval = 1500 * time.Millisecond

type BroadcastFailure struct {
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type BroadcastReport struct {
	Total    int                `json:"total"`
	Sent     int                `json:"sent"`
	Failed   int                `json:"failed"`
	Failures []BroadcastFailure `json:"failures,omitempty"`
	Duration time.Duration      `json:"duration"`
}

// WelcomeBroadcaster sends the onboarding message to every intern.
type WelcomeBroadcaster struct {
	directory interfaces.Directory
	notifier  interfaces.Notifier
	interval  time.Duration
	logger    zerolog.Logger
}

func NewWelcomeBroadcaster(directory interfaces.Directory, notifier interfaces.Notifier, interval time.Duration, logger zerolog.Logger) *WelcomeBroadcaster {
	if interval <= 0 {
		interval = DefaultBroadcastInterval
	}
	return &WelcomeBroadcaster{
		directory: directory,
		notifier:  notifier,
		interval:  interval,
		logger:    logger.With().Str("component", "broadcast").Logger(),
	}
}

// Run sends one welcome per intern, paced by the configured interval.
// Interns whose destination is missing are skipped and counted as failed.
// A cancelled context stops the campaign and returns the partial report.
func (b *WelcomeBroadcaster) Run(ctx context.Context) (BroadcastReport, error) {
	start := time.Now()
	interns := b.directory.Interns()
	report := BroadcastReport{Total: len(interns)}
	limiter := rate.NewLimiter(rate.Every(b.interval), 1)

	b.logger.Info().Int("total", len(interns)).Msg("starting welcome message campaign")

	for _, intern := range interns {
		destination, ok := b.directory.FindDestination(intern.DestinationID)
		if !ok {
			b.logger.Error().Str("intern", intern.Name).Str("destination_id", intern.DestinationID).
				Msg("skipping intern, destination not found")
			report.fail(intern.Phone, intern.Name, "destination not found: "+intern.DestinationID)
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			report.Duration = time.Since(start)
			return report, err
		}

		receipt, err := b.notifier.Send(ctx, intern.Phone, BuildWelcome(intern, destination))
		if err != nil {
			b.logger.Error().Err(err).Str("intern", intern.Name).Msg("failed to send welcome")
			report.fail(intern.Phone, intern.Name, err.Error())
			continue
		}
		b.logger.Info().Str("intern", intern.Name).Str("phone", intern.Phone).Str("receipt_id", receipt.ID).Msg("welcome sent")
		report.Sent++
	}

	report.Duration = time.Since(start)
	b.logger.Info().Int("sent", report.Sent).Int("failed", report.Failed).Msg("campaign complete")
	return report, nil
}

func (r *BroadcastReport) fail(phone, name, reason string) {
	r.Failed++
	r.Failures = append(r.Failures, BroadcastFailure{Phone: phone, Name: name, Reason: reason})
}
