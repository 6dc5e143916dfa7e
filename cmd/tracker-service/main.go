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

	"github.com/rs/zerolog"

	"github.com/andreasstove999/logistics-tracker/internal/auth"
	"github.com/andreasstove999/logistics-tracker/internal/config"
	"github.com/andreasstove999/logistics-tracker/internal/db"
	"github.com/andreasstove999/logistics-tracker/internal/events"
	"github.com/andreasstove999/logistics-tracker/internal/fixtures"
	httpapi "github.com/andreasstove999/logistics-tracker/internal/http"
	"github.com/andreasstove999/logistics-tracker/internal/logging"
	"github.com/andreasstove999/logistics-tracker/internal/metrics"
	"github.com/andreasstove999/logistics-tracker/internal/shipment"
)

const serviceName = "tracker-service"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred closers always run.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel, serviceName)

	if err := cfg.Validate(); err != nil {
		logger.Error().Err(err).Msg("invalid config")
		return err
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var closers closerStack
	defer func() { closers.closeAll(logger) }()

	m := metrics.New()

	// Auth service
	authn := auth.NewClient(cfg.Auth.BaseURL, &http.Client{Timeout: cfg.Auth.Timeout})
	probes := []httpapi.HealthProbe{{Name: authn.Name, Check: func(ctx context.Context) error {
		code, err := authn.Health(ctx)
		if err != nil {
			return err
		}
		if code >= http.StatusInternalServerError {
			return fmt.Errorf("status %d", code)
		}
		return nil
	}}}

	// Storage
	repo, probe, closeRepo, err := openRepository(ctx, cfg.Storage, logging.ForComponent(logger, "storage"))
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}
	closers.push(closeRepo)
	if probe != nil {
		probes = append(probes, *probe)
	}

	// Events
	publisher, closePublisher, err := openPublisher(cfg.Events)
	if err != nil {
		return fmt.Errorf("open %s events publisher: %w", cfg.Events.Driver, err)
	}
	closers.push(closePublisher)

	svc := shipment.NewService(
		repo,
		events.Instrument(publisher, m.EventsPublished),
		logging.ForComponent(logger, "shipments"),
		shipment.WithLookupDelay(cfg.LookupDelay),
	)

	router := httpapi.NewRouter(httpapi.Deps{
		Handler:          httpapi.NewHandler(svc, authn, m, probes, logging.ForComponent(logger, "http")),
		Metrics:          m,
		Logger:           logging.ForComponent(logger, "http"),
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.HTTP.Addr).
			Str("storage", cfg.Storage.Driver).
			Str("events", cfg.Events.Driver).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// closerStack releases resources in reverse order of acquisition.
type closerStack []func() error

func (c *closerStack) push(close func() error) {
	*c = append(*c, close)
}

func (c closerStack) closeAll(logger zerolog.Logger) {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn().Err(err).Msg("close")
		}
	}
}

func openRepository(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (shipment.Repository, *httpapi.HealthProbe, func() error, error) {
	noop := func() error { return nil }

	if cfg.Driver == config.StorageMemory {
		seed := fixtures.Generate(cfg.FixtureCount, time.Now().UTC(), fixtures.NewRand(cfg.FixtureSeed))
		logger.Info().Int("shipments", len(seed)).Uint64("seed", cfg.FixtureSeed).Msg("seeded in-memory store")
		return shipment.NewMemoryRepository(seed), nil, noop, nil
	}

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DSN, logger); err != nil {
			return nil, nil, noop, err
		}
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := db.NewPool(connectCtx, cfg.DSN)
	if err != nil {
		return nil, nil, noop, err
	}

	checker, err := db.NewSchemaChecker(cfg.DSN)
	if err != nil {
		pool.Close()
		return nil, nil, noop, err
	}

	closeStorage := func() error {
		pool.Close()
		return checker.Close()
	}
	probe := &httpapi.HealthProbe{Name: "database", Check: checker.Check}
	return shipment.NewPostgresRepository(pool), probe, closeStorage, nil
}

func openPublisher(cfg config.EventsConfig) (shipment.EventPublisher, func() error, error) {
	switch cfg.Driver {
	case config.EventsRabbitMQ:
		conn, err := events.DialRabbit(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, err
		}
		pub, err := events.NewRabbitPublisher(conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return pub, func() error {
			return errors.Join(pub.Close(), conn.Close())
		}, nil
	case config.EventsKafka:
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return pub, pub.Close, nil
	default:
		return events.NopPublisher{}, func() error { return nil }, nil
	}
}
