package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"intern_assistant/internal/config"
	"intern_assistant/internal/infrastructure"
	httpapi "intern_assistant/internal/interfaces/http"
	"intern_assistant/internal/repository"
	"intern_assistant/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "intern-assistant",
		Short:         "WhatsApp support assistant for interns abroad",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file")

	load := func() (*config.Config, zerolog.Logger, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, zerolog.Nop(), err
		}
		return cfg, infrastructure.NewLogger(cfg.LogLevel, cfg.LogFormat), nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the webhook gateway and admin API",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				return runServe(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "broadcast",
			Short: "Send the welcome message to every intern",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				if err := cfg.Validate(); err != nil {
					return err
				}
				return runBroadcast(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Copy the file directory into Postgres",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, logger, err := load()
				if err != nil {
					return err
				}
				return runSeed(cmd.Context(), cfg, logger)
			},
		},
		&cobra.Command{
			Use:   "hash-password <password>",
			Short: "Print a single-quoted ADMIN_PASSWORD_HASH line for .env",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				hash, err := usecases.HashPassword(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), config.EnvLine("ADMIN_PASSWORD_HASH", hash))
				return nil
			},
		},
	)
	return root
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runServe(parent context.Context, cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := prometheus.NewRegistry()
	resolver := a.newResolver(ctx, reg)

	deps := httpapi.RouterDeps{
		Resolver:    resolver,
		Directory:   a.directory,
		Broadcaster: a.newBroadcaster(),
		Metrics:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Logger:      logger,
	}
	if a.resolutions != nil {
		deps.Resolutions = a.resolutions
	}
	if a.device != nil {
		deps.Device = a.device
	}
	if cfg.AdminEnabled() {
		deps.Auth = usecases.NewAuthUsecase(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.JWTSecret)
		deps.Middleware = httpapi.NewMiddleware(cfg.JWTSecret)
	}

	if !isDebug(cfg.LogLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	httpapi.SetupRoutes(r, deps)

	var scheduler *infrastructure.ReloadScheduler
	if cfg.DirectoryReloadCron != "" {
		scheduler, err = infrastructure.NewReloadScheduler(cfg.DirectoryReloadCron, a.directory, logger)
		if err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if scheduler != nil {
		g.Go(func() error { return scheduler.Run(gctx) })
	}

	if a.device != nil {
		if err := a.device.Connect(gctx); err != nil {
			logger.Error().Err(err).Msg("whatsapp device failed to connect")
		}
	}

	return g.Wait()
}

func runBroadcast(parent context.Context, cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signalContext(parent)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.device != nil {
		if err := a.device.Connect(ctx); err != nil {
			return err
		}
	}

	report, err := a.newBroadcaster().Run(ctx)
	logger.Info().
		Int("total", report.Total).
		Int("sent", report.Sent).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("welcome broadcast finished")
	for _, f := range report.Failures {
		logger.Warn().Str("phone", f.Phone).Str("name", f.Name).Str("reason", f.Reason).Msg("welcome not sent")
	}
	return err
}

func runSeed(parent context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.PostgresDSN == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	ctx, stop := signalContext(parent)
	defer stop()

	pg, err := infrastructure.NewPostgresClient(ctx, cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer pg.Close()

	n, err := repository.NewSeeder(pg.Pool, logger).Sync(ctx, repository.NewFileSource(cfg.DataDir))
	if err != nil {
		return err
	}
	logger.Info().Int("records", n).Str("data_dir", cfg.DataDir).Msg("directory seeded")
	return nil
}

func isDebug(level string) bool {
	lvl, err := zerolog.ParseLevel(level)
	return err == nil && lvl <= zerolog.DebugLevel
}
