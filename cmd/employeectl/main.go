package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/JonMunkholm/employees/internal/application"
	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/cli"
	"github.com/JonMunkholm/employees/internal/config"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/logging"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Overload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	open := func(ctx context.Context) (*core.Service, cep.Lookuper, func(), error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, nil, err
		}
		// Logs go to stderr so stdout stays clean for tables and JSON.
		slog.SetDefault(logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format))

		app, err := application.New(ctx, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		return app.Service, app.Lookup, app.Close, nil
	}

	cmd := cli.NewCommand(afero.NewOsFs(), open)
	code := cli.Run(ctx, cmd, os.Stderr)
	stop()
	os.Exit(code)
}
