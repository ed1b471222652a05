package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tablebook/internal/config"
	"github.com/kirinyoku/tablebook/internal/events"
	"github.com/kirinyoku/tablebook/internal/guard"
	"github.com/kirinyoku/tablebook/internal/postgres"
	"github.com/kirinyoku/tablebook/internal/redis"
	"github.com/kirinyoku/tablebook/internal/repository"
	"github.com/kirinyoku/tablebook/internal/repository/memory"
	postgresrepo "github.com/kirinyoku/tablebook/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tablebook/internal/repository/redis"
	"github.com/kirinyoku/tablebook/internal/service"
	"github.com/kirinyoku/tablebook/internal/service/query"
	"github.com/kirinyoku/tablebook/internal/service/reservation"
	"github.com/kirinyoku/tablebook/internal/telemetry"
	httpgin "github.com/kirinyoku/tablebook/internal/transport/http/gin"
	"github.com/kirinyoku/tablebook/internal/worker"
)

const serviceName = "tablebook"

type Options struct {
	Version string
	// Migrate applies the postgres schema before serving.
	Migrate bool
}

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	noShows    *worker.NoShowWorker
	// closers run in reverse order on shutdown
	closers []func(ctx context.Context) error
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (_ *App, err error) {
	a := &App{cfg: cfg, logger: logger}

	// release whatever was opened if a later step fails
	defer func() {
		if err != nil {
			a.close(context.Background())
		}
	}()

	shutdownTracing, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: opts.Version,
		CollectorAddr:  cfg.Telemetry.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.closers = append(a.closers, shutdownTracing)

	// Initialize storage
	var (
		store     repository.Store
		customers repository.CustomerStatsRepository
	)

	switch cfg.Storage {
	case config.StoragePostgres:
		pgxPool, err := postgres.New(ctx, postgres.Config{DSN: cfg.Postgres.DSN()})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { pgxPool.Close(); return nil })

		if opts.Migrate {
			if err := postgresrepo.Migrate(ctx, pgxPool); err != nil {
				return nil, fmt.Errorf("failed to migrate: %w", err)
			}
		}

		pgStore := postgresrepo.NewStore(pgxPool)
		store = pgStore
		customers = pgStore.Customers()
	default:
		logger.Warn("using in-memory storage; data is lost on restart")
		store = memory.NewStore()
		customers = memory.NewCustomerStatsRepo()
	}

	// Initialize redis-backed collaborators
	var (
		rdb     *goredis.Client
		cache   *redisrepo.Cache
		routing httpgin.Options
		deps    = reservation.Deps{Customers: customers}
	)

	notifier := events.Fanout{events.NewLogPublisher(logger.With("sink", "notifications"))}

	if cfg.Redis.Addr != "" {
		rdb, err = redis.New(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })

		cache = redisrepo.New(rdb)
		reservationEvents := redisrepo.NewReservationEvents(rdb)
		notifier = append(notifier, reservationEvents)

		routing.Events = reservationEvents
		routing.Idempotency = redisrepo.NewIdempotencyStore(rdb, 24*time.Hour)

		if cfg.Reservation.RateLimit > 0 {
			deps.Limiter = redisrepo.NewSlidingWindowLimiter(rdb, "create", cfg.Reservation.RateLimit, time.Minute)
		}
	}
	deps.Notifier = notifier

	var g guard.Guard = guard.NewLocal()
	if cfg.Guard.Kind == config.GuardRedis {
		g = redisrepo.NewLocker(rdb, cfg.Guard.LockTTL)
	}

	// Initialize analytics sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafka, err := events.NewKafkaPublisher(ctx, events.KafkaConfig{
			Brokers:  cfg.Kafka.Brokers,
			Topic:    cfg.Kafka.Topic,
			ClientID: serviceName,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize kafka: %w", err)
		}
		a.closers = append(a.closers, kafka.Close)
		deps.Analytics = kafka
	} else {
		deps.Analytics = events.NewLogPublisher(logger.With("sink", "analytics"))
	}

	// Initialize services
	services := service.NewServices(store, g, cache, deps, service.Config{
		Reservation: reservation.Config{
			DefaultDuration: cfg.Reservation.DefaultDurationMin,
			ReminderLead:    cfg.Reservation.ReminderLead,
			NoShowGrace:     cfg.Reservation.NoShowGrace,
		},
		Query: query.Config{
			DefaultDuration: cfg.Reservation.DefaultDurationMin,
		},
	}, logger)

	a.noShows = worker.NewNoShowWorker(services.Reservation, worker.NoShowConfig{
		ScanInterval: cfg.Reservation.NoShowScanInterval,
	}, logger)

	// Initialize Gin router
	router := httpgin.NewRouter(services, routing, logger)

	a.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Sweep no-shows
	g.Go(func() error {
		return a.noShows.Run(gCtx)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := a.httpServer.Shutdown(ctx)
		a.close(ctx)
		return err
	})

	return g.Wait()
}

func (a *App) close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("shutdown step failed", "error", err)
		}
	}
	a.closers = nil
}
