package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/counterpos/api/internal/cache"
	"github.com/counterpos/api/internal/config"
	"github.com/counterpos/api/internal/database"
	"github.com/counterpos/api/internal/logger"
	"github.com/counterpos/api/internal/metrics"
	"github.com/counterpos/api/internal/notify"
	"github.com/counterpos/api/internal/queue"
	"github.com/counterpos/api/internal/router"
	"github.com/counterpos/api/internal/ws"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	m := metrics.New()

	hub := ws.NewHub(log, m)
	go hub.Run(ctx)

	notifier := notify.Fanout{hub}
	if publisher := connectQueue(cfg, log, m); publisher != nil {
		defer publisher.close()
		notifier = append(notifier, publisher.Publisher)
	}

	menuCache, err := cache.NewStore(ctx, cfg, log)
	if err != nil {
		if cfg.Env == "production" {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		log.Warn("redis connection failed; menu cache disabled", zap.Error(err))
		menuCache = cache.Noop()
	}
	defer menuCache.Close()

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: router.New(cfg, router.Deps{
			Pool:      pool,
			Hub:       hub,
			Notifier:  notifier,
			MenuCache: menuCache,
			Logger:    log,
			Metrics:   m,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("pos api listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
}

type queuePublisher struct {
	*queue.Publisher
	client *queue.Client
}

func (p *queuePublisher) close() {
	_ = p.client.Close()
}

// connectQueue wires the AMQP event publisher when RABBITMQ_URL is set.
// Outside production a broker failure only disables publishing.
func connectQueue(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) *queuePublisher {
	if cfg.RabbitMQURL == "" {
		log.Info("event publishing disabled (RABBITMQ_URL is empty)")
		return nil
	}

	qc, err := queue.New(cfg.RabbitMQURL)
	if err != nil {
		if cfg.Env == "production" {
			log.Fatal("rabbitmq connection failed", zap.Error(err))
		}
		log.Warn("rabbitmq connection failed; continuing without publisher", zap.Error(err))
		return nil
	}
	if err := qc.EnsureExchange(cfg.RabbitMQExchange); err != nil {
		if cfg.Env == "production" {
			log.Fatal("rabbitmq exchange failed", zap.Error(err))
		}
		log.Warn("rabbitmq exchange failed; continuing without publisher", zap.Error(err))
		_ = qc.Close()
		return nil
	}

	log.Info("rabbitmq enabled", zap.String("exchange", cfg.RabbitMQExchange))
	return &queuePublisher{
		Publisher: queue.NewPublisher(qc, cfg.RabbitMQExchange, log, m),
		client:    qc,
	}
}
