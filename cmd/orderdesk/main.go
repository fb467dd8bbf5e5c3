// Command orderdesk holds one session against the service-order API and
// serves orders, lifecycle transitions, the dashboard and user administration
// over HTTP.
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

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/orderdesk/orderdesk/docs"
	"github.com/orderdesk/orderdesk/internal/api"
	"github.com/orderdesk/orderdesk/internal/api/handler"
	"github.com/orderdesk/orderdesk/internal/core/ports"
	"github.com/orderdesk/orderdesk/internal/core/service"
	"github.com/orderdesk/orderdesk/internal/infrastructure/credstore"
	"github.com/orderdesk/orderdesk/internal/infrastructure/db/mongo"
	"github.com/orderdesk/orderdesk/internal/infrastructure/db/redis"
	"github.com/orderdesk/orderdesk/internal/infrastructure/gateway"
	"github.com/orderdesk/orderdesk/internal/infrastructure/queue"
	"github.com/orderdesk/orderdesk/internal/pkg/config"
	"github.com/orderdesk/orderdesk/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title        orderdesk API
// @version      1.0
// @description  Session-holding client for the service-order API: orders, lifecycle transitions, dashboard and user administration.
// @host         localhost:8080
// @BasePath     /
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "orderdesk",
		Env:     cfg.Env,
	})

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("orderdesk stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.CheckFunc{}

	// --- Redis (optional: de-duplication and/or credential store) ---
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := redis.Open(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		rdb = client
		checks["redis"] = redis.Ready(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	// --- Credential store ---
	store, closeStore, err := openCredentialStore(ctx, cfg, rdb, checks)
	if err != nil {
		return err
	}
	defer closeStore()
	log.Info().Str("backend", cfg.Credentials.Store).Msg("credential store ready")

	// --- Gateway and services ---
	gw := gateway.New(gateway.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	}, store, log)
	checks["api"] = gw.Ping

	sessions := service.NewSessionService(gw, store, logger.Component(log, "session"))
	orders := service.NewOrderService(gw, logger.Component(log, "orders"),
		cfg.Orders.DashboardBatchSize, cfg.Orders.RecentOrders)
	users := service.NewUserService(gw, logger.Component(log, "users"))

	var dedup service.DedupChecker
	if rdb != nil {
		dedup = redis.NewDedupChecker(rdb)
	}
	transitions := service.NewTransitionService(orders, dedup, logger.Component(log, "transitions"))

	// --- Session restore ---
	bootCtx, cancelBoot := context.WithTimeout(ctx, cfg.API.Timeout)
	sessions.Bootstrap(bootCtx)
	cancelBoot()
	if info, ok := sessions.Current(); ok {
		log.Info().Str("username", info.User.Username).Msg("session restored")
	}

	// --- Workers ---
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Orders.TransitionWorkers, transitions, log)
	dispatcher.Start(workerCtx)

	// --- HTTP ---
	e := api.NewRouter(api.Dependencies{
		Sessions:   sessions,
		Orders:     orders,
		Users:      users,
		Dispatcher: dispatcher,
		Checks:     checks,
		Log:        log,
	})

	serverErr := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("api", cfg.API.BaseURL).Msg("http server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		stopWorkers()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	stopWorkers()
	dispatcher.Wait()
	return nil
}

// openCredentialStore builds the configured backend and registers its
// readiness check. The returned func releases backend resources.
func openCredentialStore(ctx context.Context, cfg *config.Config, rdb *goredis.Client, checks map[string]handler.CheckFunc) (ports.CredentialStore, func(), error) {
	noop := func() {}

	switch cfg.Credentials.Store {
	case config.StoreMemory:
		return credstore.NewMemory(), noop, nil
	case config.StoreFile:
		return credstore.NewFile(cfg.Credentials.File), noop, nil
	case config.StoreRedis:
		if rdb == nil {
			return nil, noop, fmt.Errorf("credential store redis: REDIS_ADDR is not set")
		}
		return redis.NewCredentialStore(rdb), noop, nil
	case config.StoreMongo:
		h, err := mongo.Open(ctx, cfg.Mongo)
		if err != nil {
			return nil, noop, err
		}
		checks["mongodb"] = h.Ready
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Close(disconnectCtx)
		}
		return h.Credentials(), closeFn, nil
	default:
		return nil, noop, fmt.Errorf("unknown credential store %q", cfg.Credentials.Store)
	}
}
