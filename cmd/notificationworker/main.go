package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"dely-backend/internal/notification/expo"
	"dely-backend/internal/notification/worker"
	"dely-backend/pkg/config"
	"dely-backend/pkg/db"
	"dely-backend/pkg/logger"
	"dely-backend/pkg/rabbitmq"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config-path", "config.yaml", "path to the YAML config")
	flag.Parse()

	mylog := logger.New("notification-worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	defer pool.Close()
	mylog.Action("db_connected").Info("Connected to database")

	mq, err := rabbitmq.Connect(cfg.RMQ, mylog)
	if err != nil {
		mylog.Action("mq_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}
	defer mq.Close()

	w := worker.New(mq, expo.NewClient(cfg.Expo.BaseURL), worker.NewRepo(pool), mylog)
	if err := w.Run(ctx); err != nil {
		mylog.Action("worker_failed").Error("Worker failed unexpectedly", err)
		return err
	}
	mylog.Action("worker_stopped").Info("Worker exited normally")
	return nil
}
