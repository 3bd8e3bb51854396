// Package application assembles the components both entrypoints share:
// the employee store for the configured backend, the data-access service
// and the postal-code lookup.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/employees/internal/cep"
	"github.com/JonMunkholm/employees/internal/config"
	"github.com/JonMunkholm/employees/internal/core"
	"github.com/JonMunkholm/employees/internal/postgres"
	"github.com/JonMunkholm/employees/internal/supabase"
)

// App holds the assembled components. Close releases the store and cache
// connections.
type App struct {
	Service *core.Service
	Lookup  cep.Lookuper

	closers []func()
}

// New connects the store selected by cfg.Persistence.Backend and builds
// the lookup client.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	st, err := a.openStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Service = core.NewService(st)
	a.Lookup = a.newLookup(cfg.Lookup)

	return a, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (core.EmployeeStore, error) {
	table := cfg.Persistence.Table
	if table == "" {
		table = core.EmployeesTable
	}

	switch cfg.Persistence.Backend {
	case config.BackendPostgres:
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:             cfg.Database.URL,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)

		slog.Info("connected to database", "name", databaseName(cfg.Database.URL), "table", table)
		return postgres.NewTable[core.EmployeeRow](pool, table, core.EmployeeColumns), nil

	case config.BackendREST, "":
		client, err := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.Key,
			supabase.WithTimeout(cfg.Supabase.Timeout),
			supabase.WithSchema(cfg.Supabase.Schema),
		)
		if err != nil {
			return nil, err
		}

		slog.Info("using PostgREST backend", "url", cfg.Supabase.URL, "table", table)
		return supabase.NewTable[core.EmployeeRow](client, table), nil

	default:
		return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
	}
}

func (a *App) newLookup(cfg config.LookupConfig) cep.Lookuper {
	var lookup cep.Lookuper = cep.NewClient(
		cep.WithBaseURL(cfg.BaseURL),
		cep.WithTimeout(cfg.Timeout),
		cep.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	if cfg.CacheRedisAddr == "" {
		return lookup
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheRedisAddr,
		Password: cfg.CacheRedisPassword,
		DB:       cfg.CacheRedisDB,
	})
	a.closers = append(a.closers, func() {
		if err := rdb.Close(); err != nil {
			slog.Warn("close redis", "error", err)
		}
	})

	slog.Info("postal code cache enabled", "addr", cfg.CacheRedisAddr, "ttl", cfg.CacheTTL)
	return cep.NewCachedLookuper(lookup, rdb,
		cep.WithCachePrefix(cfg.CachePrefix),
		cep.WithCacheTTL(cfg.CacheTTL),
	)
}

// databaseName extracts the database from a connection URL for logging.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
