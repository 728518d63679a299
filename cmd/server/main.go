package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"task-tracker/internal/api"
	"task-tracker/internal/backend"
	"task-tracker/internal/config"
	"task-tracker/internal/identity"
	"task-tracker/internal/logging"
	"task-tracker/pkg/eventgraph"
	"task-tracker/pkg/tracker"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	stores, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("open backend", zap.Error(err))
	}
	defer stores.Close()

	bus := eventgraph.NewBus(stores.Journal)
	svc := tracker.New(stores.Tasks, stores.Employees,
		tracker.WithJournal(bus),
		tracker.WithLogger(log.Named("tracker")))

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set; trusting the X-Principal header")
	}
	server := api.New(svc, bus,
		api.WithLogger(log.Named("http")),
		api.WithIdentity(identity.New(cfg.JWTSecret)),
		api.WithHealthCheck(stores.Kind, stores.Ping),
		api.WithWebDir(cfg.WebDir))

	handler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Origins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", identity.Header},
		AllowCredentials: true,
	}).Handler(server)

	// Cancelled on shutdown so open event streams return.
	baseCtx, stopStreams := context.WithCancel(ctx)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(stopStreams)

	go func() {
		log.Info("task-tracker listening", zap.String("addr", srv.Addr), zap.String("backend", stores.Kind))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
