package main

import (
	"context"
	"fmt"

	"intern_assistant/internal/config"
	"intern_assistant/internal/infrastructure"
	"intern_assistant/internal/interfaces"
	"intern_assistant/internal/repository"
	"intern_assistant/internal/usecases"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
)

// app holds the wired components shared by the commands.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger

	pg          *infrastructure.PostgresClient
	directory   *repository.Directory
	notifier    interfaces.Notifier
	device      *infrastructure.WhatsAppClient
	resolutions *repository.ResolutionRepository

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if cfg.DirectorySource == config.SourcePostgres || cfg.PostgresDSN != "" {
		pg, err := infrastructure.NewPostgresClient(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.pg = pg
		a.closers = append(a.closers, pg.Close)
		a.resolutions = repository.NewResolutionRepository(pg.Pool, logger)
	}

	var source repository.Source
	if cfg.DirectorySource == config.SourcePostgres {
		source = repository.NewPostgresSource(a.pg.Pool)
	} else {
		source = repository.NewFileSource(cfg.DataDir)
	}
	a.directory = repository.NewDirectory(source, logger)
	if err := a.directory.Reload(ctx); err != nil {
		a.Close()
		return nil, err
	}

	if err := a.buildNotifier(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) buildNotifier(ctx context.Context) error {
	switch a.cfg.Notifier {
	case config.NotifierCloud:
		client, err := infrastructure.NewCloudAPIClient(a.cfg.CloudToken, a.cfg.CloudPhoneNumberID, "")
		if err != nil {
			return err
		}
		a.notifier = client
	case config.NotifierWhatsmeow:
		client, err := infrastructure.NewWhatsAppClient(ctx, a.cfg.WhatsmeowStore, a.logger)
		if err != nil {
			return err
		}
		a.device = client
		a.notifier = client
		a.closers = append(a.closers, client.Disconnect)
	default:
		client, err := infrastructure.NewTwilioClient(infrastructure.TwilioConfig{
			AccountSID: a.cfg.TwilioAccountSID,
			AuthToken:  a.cfg.TwilioAuthToken,
			FromNumber: a.cfg.TwilioPhoneNumber,
			BaseURL:    a.cfg.TwilioBaseURL,
		})
		if err != nil {
			return err
		}
		a.notifier = client
	}
	a.logger.Info().Str("notifier", a.cfg.Notifier).Msg("notifier ready")
	return nil
}

// newResolver wires the core with every configured observer. Optional
// collaborators that fail to start are logged and left out.
func (a *app) newResolver(ctx context.Context, reg *prometheus.Registry) *usecases.Resolver {
	var completion interfaces.CompletionProvider
	if a.cfg.GeminiAPIKey != "" {
		gemini, err := infrastructure.NewGeminiClient(ctx, infrastructure.GeminiConfig{
			APIKey:  a.cfg.GeminiAPIKey,
			Model:   a.cfg.GeminiModel,
			Timeout: a.cfg.GeminiTimeout,
		})
		if err != nil {
			a.logger.Error().Err(err).Msg("gemini disabled")
		} else {
			completion = gemini
		}
	} else {
		a.logger.Warn().Msg("GEMINI_API_KEY not set, non-FAQ questions get the fallback reply")
	}

	resolver := usecases.NewResolver(a.directory, completion, a.notifier, a.logger)

	if reg != nil {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		resolver.AddObserver(infrastructure.NewMetrics(reg))
	}
	if a.resolutions != nil {
		resolver.AddObserver(a.resolutions)
	}
	if a.cfg.AMQPURL != "" {
		publisher, err := infrastructure.NewEventPublisher(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.logger)
		if err != nil {
			a.logger.Error().Err(err).Msg("resolution events disabled")
		} else {
			a.closers = append(a.closers, func() { _ = publisher.Close() })
			resolver.AddObserver(publisher)
		}
	}
	if a.cfg.TelegramBotToken != "" {
		alerter, err := infrastructure.NewTelegramAlerter(a.cfg.TelegramBotToken, a.cfg.TelegramAlertChatID)
		if err != nil {
			a.logger.Error().Err(err).Msg("telegram alerts disabled")
		} else {
			resolver.AddObserver(usecases.NewIntegrityAlerter(alerter, a.logger))
		}
	}
	return resolver
}

func (a *app) newBroadcaster() *usecases.WelcomeBroadcaster {
	return usecases.NewWelcomeBroadcaster(a.directory, a.notifier, a.cfg.BroadcastInterval, a.logger)
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
