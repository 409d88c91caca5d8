package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/common/otel"
	"supporttriage.app/backend/core/config"
	"supporttriage.app/backend/core/db"
	"supporttriage.app/backend/internal/queue"
	"supporttriage.app/backend/internal/worker"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel, otel.LedgerAttributes(cfg.Ledger)...)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	closeLog := logger.Setup(cfg)
	defer func() { _ = closeLog() }()

	if !cfg.Ledger.Enabled() {
		slog.ErrorContext(ctx, "REDIS_URL is required for the ledger replay worker")
		os.Exit(1)
	}

	slog.InfoContext(ctx, "ledger replay worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Ledger.Group,
		"consumer_name", cfg.Ledger.Consumer)

	// Use a different node ID than the server
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Ledger.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Ledger.Stream)

	consumer, err := queue.NewRedisConsumer(redisClient, queue.ConsumerConfig{
		Stream:       cfg.Ledger.Stream,
		Group:        cfg.Ledger.Group,
		Consumer:     cfg.Ledger.Consumer,
		DLQStream:    cfg.Ledger.DLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Ledger.MaxAttempts,
		RequeueDelay: cfg.Ledger.RequeueDelay,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	w := worker.New(consumer, worker.NewTxRunner(database), worker.Config{
		MaxAttempts: cfg.Ledger.MaxAttempts,
	})

	reclaimer := worker.NewRedisReclaimer(redisClient, worker.RedisReclaimerConfig{
		Stream:      cfg.Ledger.Stream,
		Group:       cfg.Ledger.Group,
		Consumer:    cfg.Ledger.Consumer + "-reclaimer",
		MinIdle:     5 * time.Minute,
		Interval:    time.Minute,
		BatchSize:   10,
		MaxAttempts: cfg.Ledger.MaxAttempts,
	}, consumer, w.ProcessMessage)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(runCtx)
	}()
	go reclaimer.Run(runCtx)

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		slog.ErrorContext(ctx, "worker exited unexpectedly", "error", err)
	}

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		reclaimer.Stop()
		w.Stop()
		close(done)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-done:
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
 _    ___ ___   ___ ___ ___    ___ ___ ___ _      ___   __
| |  | __|   \ / __| __| _ \  | _ \ __| _ \ |    /_\ \ / /
| |__| _|| |) | (_ | _||   /  |   / _||  _/ |__ / _ \ V /
|____|___|___/ \___|___|_|_\  |_|_\___|_| |____/_/ \_\_|
`
