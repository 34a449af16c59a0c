package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"irrigation_controller/internal/config"
	"irrigation_controller/internal/console"
	"irrigation_controller/internal/controller"
	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/prompt"
	"irrigation_controller/internal/random"
	"irrigation_controller/internal/repository"
	"irrigation_controller/internal/repository/db"
	"irrigation_controller/internal/scheduler"
	"irrigation_controller/internal/service"

	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.InfoLevel, logger.FormatConsole, zapcore.Lock(os.Stderr)).Fatalw("error reading config", "err", err)
	}

	// the menu owns stdout
	log := logger.New(cfg.Log.Level, cfg.Log.Format, zapcore.Lock(os.Stderr))
	defer func() { _ = log.Sync() }()

	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() { _ = conn.Close() }()

	policy, err := scheduler.ParsePolicy(cfg.Scheduler.Policy, cfg.Scheduler.ActiveZone)
	if err != nil {
		log.Fatalw("invalid scheduler policy", "err", err)
	}

	services := service.NewService(repository.NewRepository(conn), service.Deps{
		Controller:      controller.New(controller.WithPolicy(policy)),
		Random:          random.New(cfg.Simulator.Seed),
		Log:             log,
		SigningKey:      cfg.Auth.SigningKey,
		TokenTTL:        cfg.Auth.TokenTTL,
		CircleCount:     cfg.Circles.Count,
		CircleMinRadius: cfg.Circles.MinRadius,
		CircleMaxRadius: cfg.Circles.MaxRadius,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	menu := console.New(prompt.New(os.Stdin, os.Stdout), services.Zones, services.Monitoring, services.Circles)
	if err := menu.Run(ctx); err != nil {
		log.Errorw("console stopped", "err", err)
	}
}
