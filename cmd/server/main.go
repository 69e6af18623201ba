package main

import (
	"context"
	"ctchen222/tictactoe/internal/auth"
	"ctchen222/tictactoe/internal/config"
	"ctchen222/tictactoe/internal/db"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/hub"
	"ctchen222/tictactoe/internal/logger"
	"ctchen222/tictactoe/internal/repository"
	"ctchen222/tictactoe/internal/server"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/internal/telemetry"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Config{
		Enabled:  cfg.Otel.Enabled,
		Endpoint: cfg.Otel.Endpoint,
	})
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	// The logger goes after telemetry so the otelslog bridge picks up the
	// real logger provider.
	if err := logger.Init(cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create hub
	h := hub.NewHub()
	hubCtx, stopHub := context.WithCancel(context.Background())
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		h.Run(hubCtx)
	}()

	publishers := []events.Publisher{h}
	if cfg.Redis.Enabled {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.ConnString)
		if err != nil {
			log.Fatalf("failed to initialize redis: %v", err)
		}
		defer rdb.Close()
		publishers = append(publishers, events.NewRedisPublisher(rdb))
		slog.Info("Publishing session events to redis", "redis.addr", cfg.Redis.ConnString, "channel", events.EventsChannel)
	}

	// Create repositories and services
	sessionRepo := repository.NewSessionRepository()
	sessionService := session.NewService(sessionRepo, events.NewMultiPublisher(publishers...), session.Options{
		ComputerMoveDelay: cfg.ComputerMoveDelay,
	})

	srv := server.NewServer(server.Options{
		Sessions:          sessionService,
		Counter:           sessionRepo,
		Hub:               h,
		Tokens:            auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		HeartbeatInterval: cfg.HeartbeatInterval,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-ctx.Done()

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	stopHub()
	<-hubDone

	slog.Info("Server exiting")
}
