package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"supporttriage.app/backend/common/id"
	"supporttriage.app/backend/common/llm"
	"supporttriage.app/backend/common/logger"
	"supporttriage.app/backend/common/otel"
	"supporttriage.app/backend/core/config"
	"supporttriage.app/backend/core/db"
	"supporttriage.app/backend/internal/brain"
	"supporttriage.app/backend/internal/http/middleware"
	httprouter "supporttriage.app/backend/internal/http/router"
	"supporttriage.app/backend/internal/queue"
	"supporttriage.app/backend/internal/service"
	"supporttriage.app/backend/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel, otel.AIAttributes(cfg.AI)...)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	closeLog := logger.Setup(cfg)
	defer func() { _ = closeLog() }()

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "support triage starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	generator, err := llm.New(llm.Config{
		Provider: cfg.AI.Provider,
		BaseURL:  cfg.AI.BaseURL,
		Model:    cfg.AI.Model,
		APIKey:   cfg.AI.APIKey,
		Timeout:  cfg.AI.Timeout(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create generation client", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "generation client ready",
		"provider", generator.Provider(),
		"model", generator.Model(),
		"timeout", cfg.AI.Timeout())

	stores := store.NewStores(database.Queries())

	var publisher brain.RunPublisher
	if cfg.Ledger.Enabled() {
		producer, err := newRunProducer(ctx, cfg.Ledger)
		if err != nil {
			slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		publisher = queue.NewRunPublisher(producer)
		slog.InfoContext(ctx, "ledger side channel enabled", "stream", cfg.Ledger.Stream)
	} else {
		slog.InfoContext(ctx, "ledger side channel disabled (no REDIS_URL)")
	}

	assistant := brain.NewAssistant(
		generator,
		stores.Tickets(),
		brain.NewTxRunner(database),
		brain.NewLedger(stores.AiRuns(), publisher),
		cfg.AI.Model,
	)

	services := service.NewServices(stores, service.NewTxRunner(database))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, assistant, database)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Generation calls may run up to the configured timeout.
		WriteTimeout: cfg.AI.Timeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func newRunProducer(ctx context.Context, cfg config.LedgerConfig) (queue.Producer, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return queue.NewRedisProducer(client, cfg.Stream, slog.Default()), nil
}

func setupRouter(cfg config.Config, services *service.Services, assistant brain.Assistant, database *db.DB) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, assistant, httprouter.RouterConfig{
		Health: database,
	})

	return router
}

const banner = `
 ___ _   _ ___ ___  ___  ___ _____   _____ ___ ___   _   ___ ___
/ __| | | | _ \ _ \/ _ \| _ \_   _| |_   _| _ \_ _| /_\ / __| __|
\__ \ |_| |  _/  _/ (_) |   / | |     | | |   /| | / _ \ (_ | _|
|___/\___/|_| |_|  \___/|_|_\ |_|     |_| |_|_\___/_/ \_\___|___|
`
