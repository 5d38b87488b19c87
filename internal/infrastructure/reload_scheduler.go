package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Reloader is satisfied by repository.Directory.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloadScheduler refreshes the directory on a cron schedule. A failed
// reload keeps the previous data and is retried at the next tick.
type ReloadScheduler struct {
	cron    *cron.Cron
	target  Reloader
	timeout time.Duration
	logger  zerolog.Logger
}

func NewReloadScheduler(schedule string, target Reloader, logger zerolog.Logger) (*ReloadScheduler, error) {
	s := &ReloadScheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		timeout: time.Minute,
		logger:  logger.With().Str("component", "reload-scheduler").Logger(),
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid reload schedule %q: %w", schedule, err)
	}
	return s, nil
}

func (s *ReloadScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.target.Reload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("scheduled reload failed")
		return
	}
	s.logger.Debug().Msg("scheduled reload done")
}

// Run starts the scheduler and blocks until ctx is done.
func (s *ReloadScheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}
