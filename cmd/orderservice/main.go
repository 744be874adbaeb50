package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dely-backend/internal/order/api/http"
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
	port := flag.Int("port", 0, "override the HTTP port from config")
	flag.Parse()

	mylog := logger.New("order-service")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		mylog.Action("config_load_failed").Error("Failed to load config", err)
		return err
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port >= 65536 {
		err := fmt.Errorf("port must be in [1:65535]: %d", cfg.HTTP.Port)
		mylog.Action("config_validation_failed").Error("Invalid config", err)
		return err
	}

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		mylog.Action("db_connection_failed").Error("Failed to connect to database", err)
		return err
	}
	mylog.Action("db_connected").Info("Connected to database")

	mq, err := rabbitmq.Connect(cfg.RMQ, mylog)
	if err != nil {
		pool.Close()
		mylog.Action("mq_connection_failed").Error("Failed to connect to message broker", err)
		return err
	}

	server := http.NewServer(ctx, cfg, pool, mq, mylog)

	runErrCh := make(chan error, 1)
	go func() {
		runErrCh <- server.Run()
	}()

	select {
	case <-ctx.Done():
		mylog.Action("shutdown_signal_received").Info("Shutdown signal received")
		return server.Stop(context.Background())
	case err := <-runErrCh:
		if err != nil {
			mylog.Action("order_service_failed").Error("Server failed unexpectedly", err)
			return err
		}
		mylog.Action("server_stopped").Info("Server exited normally")
		return nil
	}
}
