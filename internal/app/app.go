package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cinebook/cinebook/internal/config"
	"github.com/cinebook/cinebook/internal/postgres"
	"github.com/cinebook/cinebook/internal/redis"
	postgresrepo "github.com/cinebook/cinebook/internal/repository/postgres"
	redisrepo "github.com/cinebook/cinebook/internal/repository/redis"
	"github.com/cinebook/cinebook/internal/service"
	"github.com/cinebook/cinebook/internal/service/auth"
	"github.com/cinebook/cinebook/internal/service/booking"
	"github.com/cinebook/cinebook/internal/service/catalog"
	"github.com/cinebook/cinebook/internal/service/query"
	httpgin "github.com/cinebook/cinebook/internal/transport/http/gin"
	"github.com/cinebook/cinebook/internal/worker"
)

type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	sweeper    *worker.Sweeper
}

func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	limiter := redisrepo.NewSlidingWindowLimiter(rdb, redisrepo.KeyRateLimitPrefix(), cfg.Booking.RateLimit, cfg.Booking.RateWindow)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
	activity := redisrepo.NewActivityStore(rdb, cfg.Auth.AccessTTL)

	// Initialize services
	services := service.NewServices(store, cache, limiter, activity, service.Config{
		Booking: booking.Config{AvailabilityTTL: cfg.Booking.AvailabilityTTL},
		Catalog: catalog.Config{HallGuardActiveOnly: cfg.Booking.HallGuardActiveOnly},
		Query:   query.Config{ScheduleTTL: cfg.Booking.ScheduleTTL},
		Auth: auth.Config{
			Secret:    cfg.Auth.JWTSecret,
			AccessTTL: cfg.Auth.AccessTTL,
		},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, idempotencyStore, activity, logger, httpgin.RouterConfig{
		Auth: httpgin.AuthConfig{IdleWindow: cfg.Auth.IdleWindow},
	})

	sweeper := worker.NewSweeper(store, logger, worker.SweeperConfig{
		Interval: cfg.Sweeper.Interval,
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
		sweeper: sweeper,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening",
			zap.String("host", a.cfg.Server.Host),
			zap.Int("port", a.cfg.Server.Port),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Retention sweeper
	g.Go(func() error {
		if err := a.sweeper.Run(gCtx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	return g.Wait()
}
