package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pizza-store/internal/app/console"
	"pizza-store/internal/common/logger"
	"pizza-store/internal/config"
	"pizza-store/internal/connections/database"
	"pizza-store/internal/connections/rabbitmq"
	"pizza-store/internal/events"
	"pizza-store/internal/repository"
	"pizza-store/internal/service"
)

func main() {
	cfgPath := flag.String("config", "config.yml", "path to YAML config")
	flag.Parse()

	lg := logger.New("pizza-store")
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		lg.Error("config_load_failed", err, map[string]any{"path": *cfgPath})
		os.Exit(1)
	}

	// The process cannot do anything without its store; a failed
	// connection at startup is fatal by design.
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		lg.Error("db_connect_failed", err, map[string]any{"host": cfg.Database.Host})
		os.Exit(1)
	}
	defer pool.Close()
	if err := database.EnsureSchema(ctx, pool); err != nil {
		lg.Error("schema_apply_failed", err, nil)
		os.Exit(1)
	}
	lg.Info("db_connected", map[string]any{
		"host": cfg.Database.Host, "port": cfg.Database.Port, "database": cfg.Database.Database,
	})

	// Event publishing is optional: without a broker the app runs the
	// same, it just doesn't announce orders.
	var pub *events.Publisher
	if cfg.RabbitMQ.Enabled() {
		mq, err := rabbitmq.Dial(cfg.RabbitMQ)
		if err != nil {
			lg.Error("rabbitmq_connect_failed", err, map[string]any{"host": cfg.RabbitMQ.Host})
			os.Exit(1)
		}
		defer mq.Close()
		pub = events.NewPublisher(mq, lg)
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.RabbitMQ.Host, "port": cfg.RabbitMQ.Port})
	}

	repo := repository.New(pool)
	svc := service.New(repo, pub, lg)
	app := console.New(svc, lg, os.Stdin, os.Stdout)

	lg.Info("service_started", map[string]any{"service": "pizza-store"})
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("fatal", err, nil)
		os.Exit(1)
	}
	lg.Info("service_stopped", nil)
}
