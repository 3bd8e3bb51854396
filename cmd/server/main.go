package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/JonMunkholm/employees/internal/application"
	"github.com/JonMunkholm/employees/internal/config"
	"github.com/JonMunkholm/employees/internal/logging"
	"github.com/JonMunkholm/employees/internal/web"
)

func main() {
	envFile := pflag.String("env-file", ".env", "dotenv file to load before reading the environment")
	addr := pflag.String("addr", "", "listen address host:port (overrides SERVER_HOST and SERVER_PORT)")
	pflag.Parse()

	// Overload overwrites existing env vars
	if err := godotenv.Overload(*envFile); err != nil {
		slog.Info("no .env file found, using environment variables", "file", *envFile)
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)", "file", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *addr != "" {
		if err := overrideAddr(&cfg.Server, *addr); err != nil {
			slog.Error("invalid --addr", "addr", *addr, "error", err)
			os.Exit(1)
		}
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"addr", cfg.Server.Addr(),
		"backend", cfg.Persistence.Backend,
		"table", cfg.Persistence.Table,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"metrics_enabled", cfg.Metrics.Enabled,
	)
	slog.Debug("configuration", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := application.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize", "error", err)
		os.Exit(1)
	}

	server := web.NewServer(app.Service, app.Lookup, cfg)

	// Run returns after in-flight requests drain, so the store is still open
	// for them.
	err = server.Run(ctx)
	app.Close()
	if err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

func overrideAddr(sc *config.ServerConfig, addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		return err
	}
	sc.Host, sc.Port = host, p
	return nil
}
