package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"irrigation_controller/internal/config"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/handlers"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/metrics"
	"irrigation_controller/internal/publisher"
	"irrigation_controller/internal/random"
	"irrigation_controller/internal/repository"
	"irrigation_controller/internal/repository/db"
	"irrigation_controller/internal/scheduler"
	"irrigation_controller/internal/server"
	"irrigation_controller/internal/service"

	"github.com/google/uuid"
)

const (
	shutdownTimeout = 10 * time.Second
	connectTimeout  = 15 * time.Second
)

func main() {
	// load configs/config.yml, .env and IRRIGATION_* overrides
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	conn, err := openDB(cfg.DB.Path, log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	policy, err := scheduler.ParsePolicy(cfg.Scheduler.Policy, cfg.Scheduler.ActiveZone)
	if err != nil {
		log.Fatalw("invalid scheduler policy", "err", err)
	}

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := connectPublisher(ctx, cfg.MQTT, log)
	defer pub.Close()

	m := metrics.New()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Deps{
		Controller:      controller.New(controller.WithPolicy(policy)),
		Random:          random.New(cfg.Simulator.Seed),
		Publisher:       pub,
		Metrics:         m,
		Log:             log,
		SigningKey:      signingKey(cfg.Auth.SigningKey, log),
		TokenTTL:        cfg.Auth.TokenTTL,
		CircleCount:     cfg.Circles.Count,
		CircleMinRadius: cfg.Circles.MinRadius,
		CircleMaxRadius: cfg.Circles.MaxRadius,
		RainChance:      cfg.Simulator.RainChance,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.WithMetrics(m.Handler()))

	if cfg.Simulator.Enabled {
		log.Infow("rain simulator started", "tick", cfg.Simulator.Tick, "rain_chance", cfg.Simulator.RainChance)
		go services.Simulator.Run(ctx, cfg.Simulator.Tick)
	}

	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func openDB(path string, log *logger.Logger) (*sql.DB, error) {
	if path == "" {
		log.Infow("db.path not set in config; using in-memory store")
		path = ":memory:"
	}
	return db.InitDB(path)
}

// connectPublisher falls back to a no-op publisher when no broker is set or
// the broker stays unreachable.
func connectPublisher(ctx context.Context, cfg config.MQTTConfig, log *logger.Logger) publisher.Publisher {
	if cfg.Broker == "" {
		log.Infow("mqtt.broker not set; schedule publishing disabled")
		return publisher.Nop{}
	}
	cctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	p, err := publisher.Connect(cctx, publisher.Config{
		Broker:   cfg.Broker,
		ClientID: cfg.ClientID,
		Topic:    cfg.Topic,
		Username: cfg.Username,
		Password: cfg.Password,
	}, log)
	if err != nil {
		log.Errorw("mqtt unavailable; schedule publishing disabled", "err", err)
		return publisher.Nop{}
	}
	return p
}

func signingKey(key string, log *logger.Logger) string {
	if key != "" {
		return key
	}
	log.Warnw("auth.signing_key not set; tokens will not survive a restart")
	return uuid.NewString()
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
